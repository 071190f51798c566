package student

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/student-records/internal/storage"
	"github.com/aanand-mishra/student-records/internal/web"
)

func newTestRouter(t *testing.T) (*chi.Mux, *storage.Memory) {
	t.Helper()

	renderer, err := web.NewRenderer()
	require.NoError(t, err)

	store := storage.NewMemory()

	r := chi.NewRouter()
	r.Get("/", Index(store, renderer))
	r.Get("/add", AddForm(renderer))
	r.Post("/add", Add(store, renderer))
	r.Get("/edit/{id}", EditForm(store, renderer))
	r.Post("/edit/{id}", Edit(store, renderer))
	r.Post("/delete/{id}", Delete(store))
	r.Get("/dashboard", Dashboard(store, renderer))
	r.Get("/export_csv", ExportCSV(store))
	return r, store
}

func postForm(r http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func studentForm(name, roll, email, course string) url.Values {
	return url.Values{
		"name":   {name},
		"roll":   {roll},
		"email":  {email},
		"course": {course},
	}
}

func TestAdd_ValidRedirectsAndPersists(t *testing.T) {
	r, store := newTestRouter(t)

	w := postForm(r, "/add", studentForm("  Alice  ", "R1", "alice@uni.edu", " CS "))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	got, err := store.GetStudentByID(1)
	require.NoError(t, err)
	// Submitted values are trimmed before they are stored.
	assert.Equal(t, "Alice", got.Name)
	assert.Equal(t, "CS", got.Course)
}

func TestAdd_MissingFieldRerendersForm(t *testing.T) {
	r, store := newTestRouter(t)

	w := postForm(r, "/add", studentForm("", "R1", "alice@uni.edu", "CS"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "All fields are required.")

	all, err := store.SearchStudents("")
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestAdd_BadEmailRerendersForm(t *testing.T) {
	r, store := newTestRouter(t)

	w := postForm(r, "/add", studentForm("Alice", "R1", "not-an-email", "CS"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid email format.")
	// The submitted values survive into the re-rendered form.
	assert.Contains(t, w.Body.String(), `value="not-an-email"`)

	all, err := store.SearchStudents("")
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestAdd_UppercaseEmailRejected(t *testing.T) {
	r, _ := newTestRouter(t)

	w := postForm(r, "/add", studentForm("Alice", "R1", "Alice@uni.edu", "CS"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid email format.")
}

func TestIndex_ListsAndSearches(t *testing.T) {
	r, store := newTestRouter(t)

	_, err := store.CreateStudent("Alice", "R1", "alice@uni.edu", "CS")
	require.NoError(t, err)
	_, err = store.CreateStudent("Bob", "R2", "bob@uni.edu", "Alice-Math")
	require.NoError(t, err)

	w := get(r, "/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Alice")
	assert.Contains(t, w.Body.String(), "Bob")

	// OR-across-fields substring match: "Alice" hits Bob's course too.
	w = get(r, "/?search=Alice")
	assert.Contains(t, w.Body.String(), "Alice")
	assert.Contains(t, w.Body.String(), "Bob")

	w = get(r, "/?search=nobody")
	assert.NotContains(t, w.Body.String(), "Alice")
	assert.Contains(t, w.Body.String(), "No students found.")
}

func TestEditForm_PrepopulatesFields(t *testing.T) {
	r, store := newTestRouter(t)

	_, err := store.CreateStudent("Alice", "R1", "alice@uni.edu", "CS")
	require.NoError(t, err)

	w := get(r, "/edit/1")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `value="Alice"`)
	assert.Contains(t, w.Body.String(), `value="alice@uni.edu"`)
}

func TestEditForm_MissingRecordRendersEmpty(t *testing.T) {
	r, _ := newTestRouter(t)

	w := get(r, "/edit/42")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No student with that id.")
}

func TestEdit_RewritesAllFields(t *testing.T) {
	r, store := newTestRouter(t)

	_, err := store.CreateStudent("Alice", "R1", "alice@uni.edu", "CS")
	require.NoError(t, err)

	w := postForm(r, "/edit/1", studentForm("Alicia", "R9", "alicia@uni.edu", "Math"))
	assert.Equal(t, http.StatusSeeOther, w.Code)

	got, err := store.GetStudentByID(1)
	require.NoError(t, err)
	assert.Equal(t, "Alicia", got.Name)
	assert.Equal(t, "R9", got.Roll)
	assert.Equal(t, "alicia@uni.edu", got.Email)
	assert.Equal(t, "Math", got.Course)
	assert.Equal(t, int64(1), got.ID)
}

func TestEdit_MissingIDIsSilentSuccess(t *testing.T) {
	r, store := newTestRouter(t)

	w := postForm(r, "/edit/42", studentForm("Ghost", "R0", "ghost@uni.edu", "None"))
	assert.Equal(t, http.StatusSeeOther, w.Code)

	all, err := store.SearchStudents("")
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestEdit_InvalidID(t *testing.T) {
	r, _ := newTestRouter(t)

	w := postForm(r, "/edit/abc", studentForm("A", "1", "a@b.com", "CS"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDelete_RemovesAndIsIdempotent(t *testing.T) {
	r, store := newTestRouter(t)

	_, err := store.CreateStudent("Alice", "R1", "alice@uni.edu", "CS")
	require.NoError(t, err)

	w := postForm(r, "/delete/1", nil)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	_, err = store.GetStudentByID(1)
	assert.ErrorIs(t, err, storage.ErrStudentNotFound)

	w = postForm(r, "/delete/1", nil)
	assert.Equal(t, http.StatusSeeOther, w.Code)
}

func TestDashboard_ShowsCounts(t *testing.T) {
	r, store := newTestRouter(t)

	for _, course := range []string{"CS", "CS", "Math"} {
		_, err := store.CreateStudent("X", "R", "x@uni.edu", course)
		require.NoError(t, err)
	}

	w := get(r, "/dashboard")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "CS")
	assert.Contains(t, w.Body.String(), "Math")
}

func TestExportCSV(t *testing.T) {
	r, store := newTestRouter(t)

	_, err := store.CreateStudent("Alice", "R1", "alice@uni.edu", "CS")
	require.NoError(t, err)
	_, err = store.CreateStudent("Bob", "R2", "bob@uni.edu", "Math")
	require.NoError(t, err)

	w := get(r, "/export_csv")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Equal(t, "attachment;filename=students.csv", w.Header().Get("Content-Disposition"))

	lines := strings.Split(strings.TrimRight(w.Body.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "ID,Name,Roll No,Email,Course", lines[0])
	assert.Equal(t, "1,Alice,R1,alice@uni.edu,CS", lines[1])
	assert.Equal(t, "2,Bob,R2,bob@uni.edu,Math", lines[2])
}

func TestExportCSV_EmptyRosterStillHasHeader(t *testing.T) {
	r, _ := newTestRouter(t)

	w := get(r, "/export_csv")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ID,Name,Roll No,Email,Course\n", w.Body.String())
}
