// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface using Go's standard database/sql package.
//
// SQLite stores everything in a single file on disk: no network, no
// separate server process, nothing to install beyond the driver. The
// blank import below registers the sqlite3 driver with database/sql as
// a side effect of package load.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/aanand-mishra/student-records/internal/config"
	"github.com/aanand-mishra/student-records/internal/storage"
	"github.com/aanand-mishra/student-records/internal/types"

	_ "github.com/mattn/go-sqlite3"
)

// SQLite is the concrete implementation of storage.Storage. It holds a
// *sql.DB, which is a connection pool safe for concurrent use.
type SQLite struct {
	Db *sql.DB
}

// New opens the SQLite database at cfg.StoragePath, creates the
// students table if it does not already exist, and returns a
// ready-to-use *SQLite.
func New(cfg *config.Config) (*SQLite, error) {
	db, err := sql.Open("sqlite3", cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}

	// Idempotent — safe to run on every startup.
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS students (
			id     INTEGER PRIMARY KEY AUTOINCREMENT,
			name   TEXT NOT NULL,
			roll   TEXT NOT NULL,
			email  TEXT NOT NULL,
			course TEXT NOT NULL
		)
	`)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: create table: %w", err)
	}

	return &SQLite{Db: db}, nil
}

// CreateStudent inserts a new row and returns its auto-generated id.
// Placeholders keep submitted values out of the SQL text entirely.
func (s *SQLite) CreateStudent(name, roll, email, course string) (int64, error) {
	stmt, err := s.Db.Prepare(
		"INSERT INTO students (name, roll, email, course) VALUES (?, ?, ?, ?)",
	)
	if err != nil {
		return 0, fmt.Errorf("CreateStudent: prepare: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.Exec(name, roll, email, course)
	if err != nil {
		return 0, fmt.Errorf("CreateStudent: exec: %w", err)
	}

	lastID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("CreateStudent: last insert id: %w", err)
	}

	return lastID, nil
}

// GetStudentByID fetches exactly one row matched by primary key.
func (s *SQLite) GetStudentByID(id int64) (types.Student, error) {
	stmt, err := s.Db.Prepare(
		"SELECT id, name, roll, email, course FROM students WHERE id = ? LIMIT 1",
	)
	if err != nil {
		return types.Student{}, fmt.Errorf("GetStudentByID: prepare: %w", err)
	}
	defer stmt.Close()

	var student types.Student
	err = stmt.QueryRow(id).Scan(
		&student.ID,
		&student.Name,
		&student.Roll,
		&student.Email,
		&student.Course,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Student{}, storage.ErrStudentNotFound
		}
		return types.Student{}, fmt.Errorf("GetStudentByID: scan: %w", err)
	}

	return student, nil
}

// SearchStudents returns rows in storage order. An empty query selects
// everything; otherwise the query must appear as a substring of name,
// roll, email or course. SQLite LIKE is case-insensitive for ASCII, so
// the match is too.
func (s *SQLite) SearchStudents(query string) ([]types.Student, error) {
	var (
		rows *sql.Rows
		err  error
	)

	if query == "" {
		rows, err = s.Db.Query(
			"SELECT id, name, roll, email, course FROM students",
		)
	} else {
		like := "%" + query + "%"
		rows, err = s.Db.Query(
			`SELECT id, name, roll, email, course FROM students
			 WHERE name LIKE ? OR roll LIKE ? OR email LIKE ? OR course LIKE ?`,
			like, like, like, like,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("SearchStudents: query: %w", err)
	}
	defer rows.Close()

	// Non-nil so an empty roster renders as an empty list, not null.
	students := make([]types.Student, 0)

	for rows.Next() {
		var student types.Student
		if err := rows.Scan(
			&student.ID,
			&student.Name,
			&student.Roll,
			&student.Email,
			&student.Course,
		); err != nil {
			return nil, fmt.Errorf("SearchStudents: scan row: %w", err)
		}
		students = append(students, student)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("SearchStudents: rows iteration: %w", err)
	}

	return students, nil
}

// UpdateStudentByID rewrites all four text fields of a record. The id
// itself never changes. A missing id affects zero rows and is treated
// as success.
func (s *SQLite) UpdateStudentByID(id int64, student types.Student) error {
	stmt, err := s.Db.Prepare(
		"UPDATE students SET name = ?, roll = ?, email = ?, course = ? WHERE id = ?",
	)
	if err != nil {
		return fmt.Errorf("UpdateStudentByID: prepare: %w", err)
	}
	defer stmt.Close()

	_, err = stmt.Exec(student.Name, student.Roll, student.Email, student.Course, id)
	if err != nil {
		return fmt.Errorf("UpdateStudentByID: exec: %w", err)
	}

	return nil
}

// DeleteStudentByID removes a row by primary key. Deleting a missing id
// is a no-op.
func (s *SQLite) DeleteStudentByID(id int64) error {
	stmt, err := s.Db.Prepare("DELETE FROM students WHERE id = ?")
	if err != nil {
		return fmt.Errorf("DeleteStudentByID: prepare: %w", err)
	}
	defer stmt.Close()

	if _, err := stmt.Exec(id); err != nil {
		return fmt.Errorf("DeleteStudentByID: exec: %w", err)
	}

	return nil
}

// CourseCounts groups the roster by the exact course string. No case
// folding is applied, so "cs" and "CS" count separately.
func (s *SQLite) CourseCounts() ([]types.CourseCount, error) {
	rows, err := s.Db.Query(
		"SELECT course, COUNT(*) FROM students GROUP BY course",
	)
	if err != nil {
		return nil, fmt.Errorf("CourseCounts: query: %w", err)
	}
	defer rows.Close()

	counts := make([]types.CourseCount, 0)

	for rows.Next() {
		var cc types.CourseCount
		if err := rows.Scan(&cc.Course, &cc.Count); err != nil {
			return nil, fmt.Errorf("CourseCounts: scan row: %w", err)
		}
		counts = append(counts, cc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("CourseCounts: rows iteration: %w", err)
	}

	return counts, nil
}

// ForEachStudent walks every row in storage order without materializing
// the result set, calling fn once per record. Used by the CSV export so
// large rosters stream instead of buffering. The deferred Close
// releases the cursor even when fn fails partway — for example when the
// client hangs up mid-download.
func (s *SQLite) ForEachStudent(fn func(types.Student) error) error {
	rows, err := s.Db.Query(
		"SELECT id, name, roll, email, course FROM students",
	)
	if err != nil {
		return fmt.Errorf("ForEachStudent: query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var student types.Student
		if err := rows.Scan(
			&student.ID,
			&student.Name,
			&student.Roll,
			&student.Email,
			&student.Course,
		); err != nil {
			return fmt.Errorf("ForEachStudent: scan row: %w", err)
		}
		if err := fn(student); err != nil {
			return err
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("ForEachStudent: rows iteration: %w", err)
	}

	return nil
}
