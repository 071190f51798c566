package router

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/student-records/internal/auth"
	"github.com/aanand-mishra/student-records/internal/http/middleware"
	"github.com/aanand-mishra/student-records/internal/storage"
	"github.com/aanand-mishra/student-records/internal/web"
)

func newTestServer(t *testing.T) (http.Handler, *auth.Authenticator) {
	t.Helper()

	renderer, err := web.NewRenderer()
	require.NoError(t, err)

	authenticator := auth.New("admin", "password", time.Hour)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return New(storage.NewMemory(), authenticator, renderer, logger), authenticator
}

func TestProtectedRoutesRedirectWithoutSession(t *testing.T) {
	r, _ := newTestServer(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/"},
		{http.MethodGet, "/logout"},
		{http.MethodGet, "/add"},
		{http.MethodPost, "/add"},
		{http.MethodGet, "/edit/1"},
		{http.MethodPost, "/edit/1"},
		{http.MethodPost, "/delete/1"},
		{http.MethodGet, "/dashboard"},
		{http.MethodGet, "/export_csv"},
	}

	for _, tc := range paths {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusSeeOther, w.Code)
			assert.Equal(t, "/login", w.Header().Get("Location"))
		})
	}
}

func TestLoginFormIsPublic(t *testing.T) {
	r, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Log in")
}

func TestLogin_GoodCredentialsSetCookieAndRedirect(t *testing.T) {
	r, authenticator := newTestServer(t)

	form := url.Values{"username": {"admin"}, "password": {"password"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	var token string
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.SessionCookie {
			token = c.Value
		}
	}
	require.NotEmpty(t, token)
	assert.NotNil(t, authenticator.Get(token))
}

func TestLogin_BadCredentialsRerenderForm(t *testing.T) {
	r, _ := newTestServer(t)

	form := url.Values{"username": {"admin"}, "password": {"wrong"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid username or password.")

	for _, c := range w.Result().Cookies() {
		assert.NotEqual(t, middleware.SessionCookie, c.Name)
	}
}

func TestSessionCookieGrantsAccess(t *testing.T) {
	r, authenticator := newTestServer(t)

	sess, err := authenticator.Login("admin", "password")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: sess.Token})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Students")
}

func TestLogout_DestroysSession(t *testing.T) {
	r, authenticator := newTestServer(t)

	sess, err := authenticator.Login("admin", "password")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: sess.Token})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	assert.Nil(t, authenticator.Get(sess.Token))

	// The old token no longer grants access.
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: sess.Token})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusSeeOther, w.Code)
}

func TestExpiredSessionRedirects(t *testing.T) {
	renderer, err := web.NewRenderer()
	require.NoError(t, err)

	authenticator := auth.New("admin", "password", -time.Minute)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := New(storage.NewMemory(), authenticator, renderer, logger)

	sess, err := authenticator.Login("admin", "password")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: sess.Token})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}
