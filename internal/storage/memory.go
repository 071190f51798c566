package storage

import (
	"strings"
	"sync"

	"github.com/aanand-mishra/student-records/internal/types"
)

// Memory is an in-memory Storage implementation. Handler tests use it
// instead of a real database; it mirrors the SQLite backend's
// semantics, including case-insensitive substring search and the no-op
// behavior of updating or deleting a missing id.
type Memory struct {
	mu       sync.RWMutex
	students []types.Student
	nextID   int64
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{nextID: 1}
}

func (m *Memory) CreateStudent(name, roll, email, course string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.nextID++
	m.students = append(m.students, types.Student{
		ID:     id,
		Name:   name,
		Roll:   roll,
		Email:  email,
		Course: course,
	})
	return id, nil
}

func (m *Memory) GetStudentByID(id int64) (types.Student, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, s := range m.students {
		if s.ID == id {
			return s, nil
		}
	}
	return types.Student{}, ErrStudentNotFound
}

func (m *Memory) SearchStudents(query string) ([]types.Student, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	results := make([]types.Student, 0)
	q := strings.ToLower(query)

	for _, s := range m.students {
		if query == "" || matches(s, q) {
			results = append(results, s)
		}
	}
	return results, nil
}

// matches reports whether q occurs in any of the four text fields,
// compared case-insensitively like SQLite's LIKE.
func matches(s types.Student, q string) bool {
	return strings.Contains(strings.ToLower(s.Name), q) ||
		strings.Contains(strings.ToLower(s.Roll), q) ||
		strings.Contains(strings.ToLower(s.Email), q) ||
		strings.Contains(strings.ToLower(s.Course), q)
}

func (m *Memory) UpdateStudentByID(id int64, student types.Student) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, s := range m.students {
		if s.ID == id {
			m.students[i].Name = student.Name
			m.students[i].Roll = student.Roll
			m.students[i].Email = student.Email
			m.students[i].Course = student.Course
			return nil
		}
	}
	// Missing id: zero rows affected, not an error.
	return nil
}

func (m *Memory) DeleteStudentByID(id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, s := range m.students {
		if s.ID == id {
			m.students = append(m.students[:i], m.students[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *Memory) CourseCounts() ([]types.CourseCount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	counts := make([]types.CourseCount, 0)
	index := make(map[string]int)

	for _, s := range m.students {
		if i, ok := index[s.Course]; ok {
			counts[i].Count++
			continue
		}
		index[s.Course] = len(counts)
		counts = append(counts, types.CourseCount{Course: s.Course, Count: 1})
	}
	return counts, nil
}

func (m *Memory) ForEachStudent(fn func(types.Student) error) error {
	m.mu.RLock()
	snapshot := make([]types.Student, len(m.students))
	copy(snapshot, m.students)
	m.mu.RUnlock()

	for _, s := range snapshot {
		if err := fn(s); err != nil {
			return err
		}
	}
	return nil
}
