package handler_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"memberdir/internal/handler"
	"memberdir/internal/model"
	"memberdir/internal/repository"
	"memberdir/internal/router"
	"memberdir/internal/service"
	"memberdir/internal/view"
)

// setupServer wires the full stack over an in-memory SQLite database.
func setupServer(t *testing.T) *echo.Echo {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Member{}))

	memberRepo := repository.NewMemberRepository(db)
	memberService := service.NewMemberService(memberRepo)
	memberHandler := handler.NewMemberHandler(memberService)

	e := echo.New()
	renderer, err := view.New()
	require.NoError(t, err)
	e.Renderer = renderer

	router.Register(e, memberHandler)
	return e
}

func postForm(e *echo.Echo, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func get(e *echo.Echo, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func registerMember(t *testing.T, e *echo.Echo, username, email, password string) {
	rec := postForm(e, "/register", url.Values{
		"username": {username},
		"email":    {email},
		"password": {password},
	})
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/login", rec.Header().Get(echo.HeaderLocation))
}

// loginID logs in and extracts the member id from the welcome page link.
func loginID(t *testing.T, e *echo.Echo, email, password string) uint {
	rec := postForm(e, "/login", url.Values{"email": {email}, "password": {password}})
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	start := strings.Index(body, "/edit_profile/")
	require.GreaterOrEqual(t, start, 0)
	rest := body[start+len("/edit_profile/"):]
	end := strings.IndexAny(rest, `"`)
	id, err := strconv.ParseUint(rest[:end], 10, 32)
	require.NoError(t, err)
	return uint(id)
}

func TestLandingAndForms(t *testing.T) {
	e := setupServer(t)

	rec := get(e, "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Member Directory")

	rec = get(e, "/register")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `action="/register"`)

	rec = get(e, "/login")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `action="/login"`)

	rec = get(e, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRegister_Validation(t *testing.T) {
	e := setupServer(t)

	rec := postForm(e, "/register", url.Values{"username": {"alice"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "please enter username, email and password")
}

func TestRegister_Conflicts(t *testing.T) {
	e := setupServer(t)
	registerMember(t, e, "alice", "a@x.com", "p1")

	// Same username, different email.
	rec := postForm(e, "/register", url.Values{
		"username": {"alice"}, "email": {"other@x.com"}, "password": {"p1"},
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "username already taken")

	// Same email, different username.
	rec = postForm(e, "/register", url.Values{
		"username": {"bob"}, "email": {"a@x.com"}, "password": {"p1"},
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "email already in use")
}

func TestLogin_GenericFailure(t *testing.T) {
	e := setupServer(t)
	registerMember(t, e, "alice", "a@x.com", "p1")

	wrongPassword := postForm(e, "/login", url.Values{"email": {"a@x.com"}, "password": {"wrong"}})
	unknownEmail := postForm(e, "/login", url.Values{"email": {"nobody@x.com"}, "password": {"p1"}})

	// Wrong password and unknown email must be indistinguishable.
	assert.Equal(t, wrongPassword.Code, unknownEmail.Code)
	assert.Equal(t, wrongPassword.Body.String(), unknownEmail.Body.String())
	assert.Contains(t, wrongPassword.Body.String(), "email or password incorrect")

	rec := postForm(e, "/login", url.Values{"email": {"a@x.com"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "please enter email and password")
}

func TestLogin_SameIDAcrossLogins(t *testing.T) {
	e := setupServer(t)
	registerMember(t, e, "alice", "a@x.com", "p1")

	first := loginID(t, e, "a@x.com", "p1")
	second := loginID(t, e, "a@x.com", "p1")
	assert.Equal(t, first, second)
}

func TestWelcome_StarredUsername(t *testing.T) {
	e := setupServer(t)
	registerMember(t, e, "alice", "a@x.com", "p1")
	id := loginID(t, e, "a@x.com", "p1")

	rec := get(e, "/welcome/"+strconv.Itoa(int(id)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "★alice★")

	rec = get(e, "/welcome/9999")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "member not found")

	rec = get(e, "/welcome/abc")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEditProfile(t *testing.T) {
	e := setupServer(t)
	registerMember(t, e, "alice", "a@x.com", "p1")
	registerMember(t, e, "bob", "b@x.com", "p1")
	id := loginID(t, e, "a@x.com", "p1")
	path := "/edit_profile/" + strconv.Itoa(int(id))

	rec := get(e, path)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `value="a@x.com"`)

	// Taking another member's email is a conflict.
	rec = postForm(e, path, url.Values{"email": {"b@x.com"}, "password": {"p2"}})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "email already in use")

	// Keeping the current email is fine.
	rec = postForm(e, path, url.Values{"email": {"a@x.com"}, "password": {"p2"}})
	assert.Equal(t, http.StatusFound, rec.Code)

	// Missing required fields.
	rec = postForm(e, path, url.Values{"email": {"a@x.com"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "please enter email and password")

	// Unknown id.
	rec = get(e, "/edit_profile/9999")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "member not found")
}

func TestDelete_Idempotent(t *testing.T) {
	e := setupServer(t)
	registerMember(t, e, "alice", "a@x.com", "p1")
	id := loginID(t, e, "a@x.com", "p1")
	path := "/delete/" + strconv.Itoa(int(id))

	rec := get(e, path)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get(echo.HeaderLocation))

	// Second delete still redirects with no error.
	rec = get(e, path)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get(echo.HeaderLocation))

	rec = get(e, "/welcome/"+strconv.Itoa(int(id)))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMemberLifecycle(t *testing.T) {
	e := setupServer(t)

	registerMember(t, e, "alice", "a@x.com", "p1")
	id := loginID(t, e, "a@x.com", "p1")
	idPath := strconv.Itoa(int(id))

	rec := postForm(e, "/edit_profile/"+idPath, url.Values{
		"email":     {"a2@x.com"},
		"password":  {"p2"},
		"phone":     {"555"},
		"birthdate": {"2000-01-01"},
	})
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/welcome/"+idPath, rec.Header().Get(echo.HeaderLocation))

	// Old credentials no longer work; new ones map to the same id.
	rec = postForm(e, "/login", url.Values{"email": {"a@x.com"}, "password": {"p1"}})
	assert.Contains(t, rec.Body.String(), "email or password incorrect")
	assert.Equal(t, id, loginID(t, e, "a2@x.com", "p2"))

	// Username is unchanged and the form reflects the written fields.
	rec = get(e, "/welcome/"+idPath)
	assert.Contains(t, rec.Body.String(), "★alice★")

	rec = get(e, "/edit_profile/"+idPath)
	body := rec.Body.String()
	assert.Contains(t, body, "alice")
	assert.Contains(t, body, `value="a2@x.com"`)
	assert.Contains(t, body, `value="p2"`)
	assert.Contains(t, body, `value="555"`)
	assert.Contains(t, body, `value="2000-01-01"`)

	rec = get(e, "/delete/"+idPath)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get(echo.HeaderLocation))

	rec = get(e, "/welcome/"+idPath)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
