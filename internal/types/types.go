// Package types holds the shared data structures used across the
// application. Keeping them in one place prevents import cycles —
// handlers, storage and web rendering can all import types without
// depending on each other.
package types

// Student is a single roster record. The id is assigned by the store
// and never changes; the four text fields are rewritten together on
// every edit.
//
// The validate tags are checked by go-playground/validator after the
// handler has trimmed the submitted values. student_email is a custom
// rule registered in internal/validation: the builtin "email" tag is
// looser than this application allows (it accepts uppercase).
type Student struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"   validate:"required"`
	Roll   string `json:"roll"   validate:"required"`
	Email  string `json:"email"  validate:"required,student_email"`
	Course string `json:"course" validate:"required"`
}

// CourseCount is one row of the dashboard aggregate: a distinct course
// label and the number of students enrolled in it.
type CourseCount struct {
	Course string `json:"course"`
	Count  int64  `json:"count"`
}
