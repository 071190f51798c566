// Package student contains the HTTP handlers for the roster: list and
// search, add, edit, delete, the course dashboard and the CSV export.
//
// Each handler is a factory closing over its dependencies, and each one
// talks to the storage.Storage interface rather than a concrete
// database, so the handlers are tested against an in-memory fake.
package student

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/aanand-mishra/student-records/internal/export"
	"github.com/aanand-mishra/student-records/internal/storage"
	"github.com/aanand-mishra/student-records/internal/types"
	"github.com/aanand-mishra/student-records/internal/validation"
	"github.com/aanand-mishra/student-records/internal/web"
)

type indexPage struct {
	Flash       string
	SearchQuery string
	Students    []types.Student
}

type formPage struct {
	Error   string
	Found   bool
	Student types.Student
}

type dashboardPage struct {
	Counts []types.CourseCount
}

// formStudent reads the four text fields from a submitted form, with
// each value whitespace-trimmed.
func formStudent(r *http.Request) types.Student {
	return types.Student{
		Name:   strings.TrimSpace(r.PostFormValue("name")),
		Roll:   strings.TrimSpace(r.PostFormValue("roll")),
		Email:  strings.TrimSpace(r.PostFormValue("email")),
		Course: strings.TrimSpace(r.PostFormValue("course")),
	}
}

// validationMessage maps validator output to the two user-facing
// messages this form has: all fields are required, and the email must
// match the accepted format.
func validationMessage(err error) string {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) {
		for _, e := range errs {
			if e.ActualTag() == "required" {
				return "All fields are required."
			}
		}
		return "Invalid email format."
	}
	return "Invalid input."
}

func render(renderer *web.Renderer, w http.ResponseWriter, name string, data any) {
	if err := renderer.Render(w, name, data); err != nil {
		slog.Error("render page",
			slog.String("template", name),
			slog.String("error", err.Error()))
	}
}

// Index handles GET /. With a non-empty ?search= parameter it narrows
// the list to records containing the query in any of the four fields;
// otherwise it shows everything.
func Index(store storage.Storage, renderer *web.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := strings.TrimSpace(r.URL.Query().Get("search"))

		students, err := store.SearchStudents(query)
		if err != nil {
			slog.Error("search students",
				slog.String("query", query),
				slog.String("error", err.Error()))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		render(renderer, w, "index.html", indexPage{
			Flash:       web.PopFlash(w, r),
			SearchQuery: query,
			Students:    students,
		})
	}
}

// AddForm handles GET /add.
func AddForm(renderer *web.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render(renderer, w, "add_student.html", formPage{Found: true})
	}
}

// Add handles POST /add. Validation failures re-render the form with
// the submitted values and a message; nothing is persisted in that
// case.
func Add(store storage.Storage, renderer *web.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		student := formStudent(r)

		if err := validation.Struct(student); err != nil {
			render(renderer, w, "add_student.html", formPage{
				Error:   validationMessage(err),
				Found:   true,
				Student: student,
			})
			return
		}

		id, err := store.CreateStudent(student.Name, student.Roll, student.Email, student.Course)
		if err != nil {
			slog.Error("create student", slog.String("error", err.Error()))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		slog.Info("student added", slog.Int64("id", id))
		web.SetFlash(w, "Student added successfully!")
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

// EditForm handles GET /edit/{id}, pre-populating the form with the
// stored record. An unknown id renders the page empty instead of
// failing.
func EditForm(store storage.Storage, renderer *web.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			http.Error(w, "invalid id", http.StatusBadRequest)
			return
		}

		student, err := store.GetStudentByID(id)
		if err != nil {
			if errors.Is(err, storage.ErrStudentNotFound) {
				render(renderer, w, "edit_student.html", formPage{
					Found:   false,
					Student: types.Student{ID: id},
				})
				return
			}
			slog.Error("get student",
				slog.Int64("id", id),
				slog.String("error", err.Error()))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		render(renderer, w, "edit_student.html", formPage{Found: true, Student: student})
	}
}

// Edit handles POST /edit/{id}. All four fields are rewritten together;
// the id never changes. Updating an id with no record behind it affects
// zero rows and still redirects as a success.
func Edit(store storage.Storage, renderer *web.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			http.Error(w, "invalid id", http.StatusBadRequest)
			return
		}

		student := formStudent(r)
		student.ID = id

		if err := validation.Struct(student); err != nil {
			render(renderer, w, "edit_student.html", formPage{
				Error:   validationMessage(err),
				Found:   true,
				Student: student,
			})
			return
		}

		if err := store.UpdateStudentByID(id, student); err != nil {
			slog.Error("update student",
				slog.Int64("id", id),
				slog.String("error", err.Error()))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		slog.Info("student updated", slog.Int64("id", id))
		web.SetFlash(w, "Student updated successfully!")
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

// Delete handles POST /delete/{id}. Deleting an id that is already gone
// is a no-op, so the delete button is safe to double-click.
func Delete(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			http.Error(w, "invalid id", http.StatusBadRequest)
			return
		}

		if err := store.DeleteStudentByID(id); err != nil {
			slog.Error("delete student",
				slog.Int64("id", id),
				slog.String("error", err.Error()))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		slog.Info("student deleted", slog.Int64("id", id))
		web.SetFlash(w, "Student deleted successfully!")
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

// Dashboard handles GET /dashboard, showing the number of students per
// distinct course label.
func Dashboard(store storage.Storage, renderer *web.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		counts, err := store.CourseCounts()
		if err != nil {
			slog.Error("course counts", slog.String("error", err.Error()))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		render(renderer, w, "dashboard.html", dashboardPage{Counts: counts})
	}
}

// ExportCSV handles GET /export_csv. Records stream off the storage
// cursor one line at a time, so the response starts before the roster
// has been read in full and memory use stays flat regardless of size.
func ExportCSV(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", "attachment;filename="+export.Filename)

		cw := export.NewCSVWriter(w)
		if err := cw.WriteHeader(); err != nil {
			slog.Error("export csv: write header", slog.String("error", err.Error()))
			return
		}

		err := store.ForEachStudent(func(s types.Student) error {
			return cw.WriteRecord(s)
		})
		if err != nil {
			// Headers are already out; all we can do is log and drop the
			// connection mid-body.
			slog.Error("export csv", slog.String("error", err.Error()))
		}
	}
}
