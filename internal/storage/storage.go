// Package storage defines the Storage interface — the contract any
// database backend must satisfy to work with this application.
//
// Handlers depend only on this interface, never on a concrete driver.
// Switching databases means implementing the interface for the new
// backend and changing one line in main.go; tests pass a fake that
// satisfies the interface instead of a real database.
package storage

import (
	"errors"

	"github.com/aanand-mishra/student-records/internal/types"
)

// ErrStudentNotFound is returned by GetStudentByID when no row has the
// requested id.
var ErrStudentNotFound = errors.New("student not found")

// Storage is the database contract for the student roster.
type Storage interface {
	// CreateStudent inserts a new record and returns the auto-generated
	// primary-key id.
	CreateStudent(name, roll, email, course string) (int64, error)

	// GetStudentByID fetches a single record by primary key.
	// Returns ErrStudentNotFound when no row matches.
	GetStudentByID(id int64) (types.Student, error)

	// SearchStudents returns records in storage order. An empty query
	// returns every record; a non-empty query returns records where it
	// occurs as a substring of name, roll, email or course.
	SearchStudents(query string) ([]types.Student, error)

	// UpdateStudentByID rewrites all four text fields of the record with
	// the given id. Updating an id that does not exist affects zero rows
	// and is not an error.
	UpdateStudentByID(id int64, student types.Student) error

	// DeleteStudentByID removes a record permanently. Deleting an id
	// that does not exist is a no-op.
	DeleteStudentByID(id int64) error

	// CourseCounts returns one entry per distinct course value with the
	// number of records carrying it. Order is whatever the grouping
	// produces.
	CourseCounts() ([]types.CourseCount, error)

	// ForEachStudent walks every record in storage order, calling fn for
	// each one. Iteration stops at the first error from fn; the
	// underlying cursor is released either way.
	ForEachStudent(fn func(types.Student) error) error
}
