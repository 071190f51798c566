// Package router assembles the chi route table and middleware chain.
package router

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/aanand-mishra/student-records/internal/auth"
	authhandler "github.com/aanand-mishra/student-records/internal/http/handlers/auth"
	"github.com/aanand-mishra/student-records/internal/http/handlers/student"
	"github.com/aanand-mishra/student-records/internal/http/middleware"
	"github.com/aanand-mishra/student-records/internal/storage"
	"github.com/aanand-mishra/student-records/internal/web"
)

// New wires every route of the panel.
//
// Route table:
//
//	GET/POST /login        credential form (the only unauthenticated routes)
//	GET      /logout       destroy session
//	GET      /             list, optional ?search=
//	GET/POST /add          add form / create
//	GET/POST /edit/{id}    edit form / update
//	POST     /delete/{id}  delete (GET kept for link-style delete buttons)
//	GET      /dashboard    enrollment counts per course
//	GET      /export_csv   streamed students.csv download
func New(
	store storage.Storage,
	authenticator *auth.Authenticator,
	renderer *web.Renderer,
	logger *slog.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recovery(logger))

	r.Get("/login", authhandler.LoginForm(renderer))
	r.Post("/login", authhandler.Login(authenticator, renderer))

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireSession(authenticator))

		r.Get("/logout", authhandler.Logout(authenticator))

		r.Get("/", student.Index(store, renderer))
		r.Get("/add", student.AddForm(renderer))
		r.Post("/add", student.Add(store, renderer))
		r.Get("/edit/{id}", student.EditForm(store, renderer))
		r.Post("/edit/{id}", student.Edit(store, renderer))
		r.Post("/delete/{id}", student.Delete(store))
		r.Get("/delete/{id}", student.Delete(store))
		r.Get("/dashboard", student.Dashboard(store, renderer))
		r.Get("/export_csv", student.ExportCSV(store))
	})

	return r
}
