package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	accountModel "lecture-backend/internal/domains/account/model"
	"lecture-backend/internal/domains/lecture/model"
	"lecture-backend/internal/domains/lecture/repository"
	"lecture-backend/internal/domains/lecture/service"
	"lecture-backend/internal/shared/middleware"
)

// fakeAccess keeps accounts in a map
type fakeAccess struct {
	roles map[string][]string
}

func (f *fakeAccess) RolesOf(_ context.Context, username string) ([]string, bool, error) {
	r, ok := f.roles[username]
	return r, ok, nil
}

func (f *fakeAccess) CreateAccount(_ context.Context, username, _ string, roles []string) (*accountModel.Account, error) {
	if _, ok := f.roles[username]; ok {
		return nil, &accountModel.UsernameExistsError{Username: username}
	}
	f.roles[username] = roles
	return &accountModel.Account{Username: username, Roles: roles}, nil
}

// inlineTransactor: the memory store has no transactions
type inlineTransactor struct{}

func (inlineTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// testUser stands in for AuthMiddleware
func testUser(c *gin.Context) {
	c.Set(middleware.ContextUsername, c.GetHeader("X-Test-User"))
	c.Next()
}

func setupRouter(t *testing.T) (*gin.Engine, repository.RepositoryInterface) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := repository.NewMemoryRepository()
	access := &fakeAccess{roles: map[string][]string{
		"admin": {model.RoleAdmin, model.RoleLecture},
		"bert":  {model.RoleLecture},
	}}
	lectures := NewLectureHandler(service.NewLectureService(repo, access, nil, inlineTransactor{}, 500*time.Millisecond))
	values := NewValuesHandler(service.NewValuesService(repo, 500*time.Millisecond))

	r := gin.New()
	g := r.Group("/api/v1/lectures")
	g.POST("", lectures.Create)
	g.GET("", testUser, lectures.Find)
	g.GET("/:id", testUser, lectures.GetByID)
	g.PUT("/:id", testUser, lectures.Update)
	g.DELETE("/:id", lectures.DeleteByID)
	g.DELETE("", lectures.DeleteByName)
	g.GET("/export", lectures.Export)
	g.GET("/name/:prefix", values.NamesByPrefix)
	g.GET("/version/:id", values.VersionByID)
	return r, repo
}

func do(r http.Handler, method, path, user string, body any, headers map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set("X-Test-User", user)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string          `json:"code"`
		Message string          `json:"message"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func mathematik(room string) model.LectureRequest {
	return mathematikFor(room, "thomas")
}

// mathematikFor creates the lecture together with a fresh account username
func mathematikFor(room, username string) model.LectureRequest {
	return model.LectureRequest{
		Name:       "Mathematik",
		Instructor: model.Instructor{FirstName: "Thomas", LastName: "Morgenstern"},
		Room:       model.Room{Building: "M", RoomNumber: room},
		Account:    &model.AccountPayload{Username: username, Password: "geheim123"},
	}
}

func create(t *testing.T, r http.Handler) model.Lecture {
	t.Helper()
	return createAs(t, r, "thomas")
}

func createAs(t *testing.T, r http.Handler, username string) model.Lecture {
	t.Helper()
	w := do(r, http.MethodPost, "/api/v1/lectures", "", mathematikFor("304", username), nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var l model.Lecture
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &l))
	return l
}

func TestCreate_Returns201WithLocation(t *testing.T) {
	r, _ := setupRouter(t)

	w := do(r, http.MethodPost, "/api/v1/lectures", "", mathematik("304"), nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var l model.Lecture
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &l))
	assert.Equal(t, 0, l.Version)
	assert.Equal(t, "http://example.com/api/v1/lectures/"+l.ID.String(), w.Header().Get("Location"))
	assert.Equal(t, `"0"`, w.Header().Get("ETag"))
	require.NotNil(t, l.Username)
	assert.Equal(t, "thomas", *l.Username)
}

func TestCreate_Rejections(t *testing.T) {
	r, _ := setupRouter(t)
	create(t, r)

	dup := mathematik("305")
	dup.Account = &model.AccountPayload{Username: "other", Password: "x"}
	w := do(r, http.MethodPost, "/api/v1/lectures", "", dup, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, model.ErrCodeNameExists, decode(t, w).Error.Code)

	invalid := mathematik("30")
	invalid.Name = "Statistik"
	w = do(r, http.MethodPost, "/api/v1/lectures", "", invalid, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := decode(t, w)
	assert.Equal(t, model.ErrCodeConstraintViolation, env.Error.Code)
	assert.Contains(t, string(env.Error.Details), "room.room_number")

	noAccount := mathematik("305")
	noAccount.Name = "Statistik"
	noAccount.Account = nil
	w = do(r, http.MethodPost, "/api/v1/lectures", "", noAccount, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, model.ErrCodeInvalidAccount, decode(t, w).Error.Code)

	takenUser := mathematik("305")
	takenUser.Name = "Statistik"
	w = do(r, http.MethodPost, "/api/v1/lectures", "", takenUser, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "USERNAME_EXISTS", decode(t, w).Error.Code)
}

func TestUpdate_VersionNegotiation(t *testing.T) {
	r, _ := setupRouter(t)
	l := create(t, r)
	path := "/api/v1/lectures/" + l.ID.String()

	w := do(r, http.MethodPut, path, "thomas", mathematik("305"), map[string]string{"If-Match": `"0"`})
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())
	assert.Equal(t, `"1"`, w.Header().Get("ETag"))

	w = do(r, http.MethodPut, path, "thomas", mathematik("305"), map[string]string{"If-Match": `"0"`})
	assert.Equal(t, http.StatusPreconditionFailed, w.Code)
	assert.Equal(t, "stale version number: 0", decode(t, w).Error.Message)

	w = do(r, http.MethodPut, path, "thomas", mathematik("305"), map[string]string{"If-Match": `"x"`})
	assert.Equal(t, http.StatusPreconditionFailed, w.Code)
	assert.Equal(t, "invalid version number: x", decode(t, w).Error.Message)

	w = do(r, http.MethodPut, path, "thomas", mathematik("305"), nil)
	assert.Equal(t, http.StatusPreconditionFailed, w.Code)
	assert.Equal(t, "version missing", decode(t, w).Error.Message)

	w = do(r, http.MethodPut, path, "thomas", mathematik("305"), map[string]string{"If-Match": "1"})
	assert.Equal(t, http.StatusPreconditionFailed, w.Code)
	assert.Equal(t, "PRECONDITION_FAILED", decode(t, w).Error.Code)
}

func TestUpdate_PreconditionCheckedBeforeBody(t *testing.T) {
	r, _ := setupRouter(t)
	l := create(t, r)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/lectures/"+l.ID.String(), strings.NewReader("{not json"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusPreconditionFailed, w.Code)
}

func TestUpdate_NotFound(t *testing.T) {
	r, _ := setupRouter(t)

	w := do(r, http.MethodPut, "/api/v1/lectures/00000000-0000-0000-0000-000000000042", "admin",
		mathematik("305"), map[string]string{"If-Match": `"0"`})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetByID_ETagAndNotModified(t *testing.T) {
	r, _ := setupRouter(t)
	l := create(t, r)
	path := "/api/v1/lectures/" + l.ID.String()

	w := do(r, http.MethodGet, path, "thomas", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `"0"`, w.Header().Get("ETag"))

	w = do(r, http.MethodGet, path, "thomas", nil, map[string]string{"If-None-Match": `"0"`})
	assert.Equal(t, http.StatusNotModified, w.Code)
	assert.Empty(t, w.Body.Bytes())

	w = do(r, http.MethodGet, path, "thomas", nil, map[string]string{"If-None-Match": `"7"`})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetByID_Authorization(t *testing.T) {
	r, _ := setupRouter(t)
	l := create(t, r)
	path := "/api/v1/lectures/" + l.ID.String()

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, path, "admin", nil, nil).Code)

	w := do(r, http.MethodGet, path, "bert", nil, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, model.ErrCodeAccessForbidden, decode(t, w).Error.Code)

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, path, "ghost", nil, nil).Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/api/v1/lectures/not-a-uuid", "admin", nil, nil).Code)
}

func TestFind(t *testing.T) {
	r, _ := setupRouter(t)
	create(t, r)

	w := do(r, http.MethodGet, "/api/v1/lectures?instructor.lastName=morgen", "admin", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var lectures []model.Lecture
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &lectures))
	assert.Len(t, lectures, 1)

	w = do(r, http.MethodGet, "/api/v1/lectures?name=Mathe&name=Math", "admin", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodGet, "/api/v1/lectures?room.number=999", "admin", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFind_Stream(t *testing.T) {
	r, _ := setupRouter(t)
	create(t, r)

	w := do(r, http.MethodGet, "/api/v1/lectures", "admin", nil, map[string]string{"Accept": "text/event-stream"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/event-stream")
	assert.Contains(t, w.Body.String(), "event:lecture")
	assert.Contains(t, w.Body.String(), "Mathematik")
}

func TestDelete(t *testing.T) {
	r, repo := setupRouter(t)
	l := create(t, r)

	w := do(r, http.MethodDelete, "/api/v1/lectures/"+l.ID.String(), "", nil, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = do(r, http.MethodDelete, "/api/v1/lectures/"+l.ID.String(), "", nil, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	// accounts outlive their lectures, so the new one needs its own username
	createAs(t, r, "clara")
	w = do(r, http.MethodDelete, "/api/v1/lectures?name=Mathematik", "", nil, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	exists, err := repo.Exists(context.Background(), model.ByName("Mathematik"))
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestValues(t *testing.T) {
	r, _ := setupRouter(t)
	l := create(t, r)

	w := do(r, http.MethodGet, "/api/v1/lectures/version/"+l.ID.String(), "", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0", w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")

	w = do(r, http.MethodGet, "/api/v1/lectures/name/ma", "", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var names []string
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &names))
	assert.Equal(t, []string{"Mathematik"}, names)

	w = do(r, http.MethodGet, "/api/v1/lectures/name/zz", "", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestExport(t *testing.T) {
	r, _ := setupRouter(t)
	create(t, r)

	w := do(r, http.MethodGet, "/api/v1/lectures/export", "admin", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "lectures_")
	assert.NotEmpty(t, w.Body.Bytes())
}

func TestParseIfMatch(t *testing.T) {
	v, err := ParseIfMatch(`"12"`)
	require.NoError(t, err)
	assert.Equal(t, "12", v)

	_, err = ParseIfMatch("")
	var pe *PreconditionError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "version missing", pe.Message)

	_, err = ParseIfMatch(`"`)
	assert.ErrorAs(t, err, &pe)

	assert.True(t, MatchesIfNoneMatch(`"1", "2"`, `"2"`))
	assert.True(t, MatchesIfNoneMatch(`W/"2"`, `"2"`))
	assert.False(t, MatchesIfNoneMatch("", `"2"`))
}
