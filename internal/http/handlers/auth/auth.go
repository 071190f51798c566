// Package auth contains the login and logout HTTP handlers.
//
// Handlers follow the closure/factory pattern used across this
// codebase: the exported function takes the dependencies once at route
// registration and returns the http.HandlerFunc invoked per request.
package auth

import (
	"log/slog"
	"net/http"

	"github.com/aanand-mishra/student-records/internal/auth"
	"github.com/aanand-mishra/student-records/internal/http/middleware"
	"github.com/aanand-mishra/student-records/internal/web"
)

type loginPage struct {
	Error    string
	Flash    string
	Username string
}

// LoginForm handles GET /login.
func LoginForm(renderer *web.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := loginPage{Flash: web.PopFlash(w, r)}
		if err := renderer.Render(w, "login.html", page); err != nil {
			slog.Error("render login form", slog.String("error", err.Error()))
		}
	}
}

// Login handles POST /login. On success it sets the session cookie and
// redirects to the list page; on failure it re-renders the form with a
// message and no hint as to which half of the pair was wrong.
func Login(authenticator *auth.Authenticator, renderer *web.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := r.PostFormValue("username")
		password := r.PostFormValue("password")

		sess, err := authenticator.Login(username, password)
		if err != nil {
			slog.Info("failed login attempt", slog.String("username", username))
			page := loginPage{Error: "Invalid username or password.", Username: username}
			if rerr := renderer.Render(w, "login.html", page); rerr != nil {
				slog.Error("render login form", slog.String("error", rerr.Error()))
			}
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     middleware.SessionCookie,
			Value:    sess.Token,
			Path:     "/",
			Expires:  sess.ExpiresAt,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})

		slog.Info("admin logged in")
		web.SetFlash(w, "Logged in successfully!")
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

// Logout handles GET /logout: destroys the current session, clears the
// cookie and sends the admin back to the login form.
func Logout(authenticator *auth.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie(middleware.SessionCookie); err == nil {
			authenticator.Destroy(c.Value)
		}

		http.SetCookie(w, &http.Cookie{
			Name:     middleware.SessionCookie,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
		})

		slog.Info("admin logged out")
		web.SetFlash(w, "Logged out successfully.")
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	}
}
