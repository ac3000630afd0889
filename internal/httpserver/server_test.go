package httpserver

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/cache"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/storage"
	"github.com/Skotchmaster/storefront/internal/testutil"
	"github.com/Skotchmaster/storefront/pkg/middleware/csrf"
	"github.com/Skotchmaster/storefront/pkg/response"
	"github.com/Skotchmaster/storefront/pkg/tokens"
	"github.com/Skotchmaster/storefront/pkg/validate"
)

var testSecret = []byte("test-secret")

type testServer struct {
	e     *echo.Echo
	db    *gorm.DB
	files *storage.Local
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	gdb := testutil.NewDB(t)
	files, err := storage.NewLocal(t.TempDir(), "/storage")
	require.NoError(t, err)

	r := repo.New(gdb)
	users := &service.UserService{Repo: r}

	e := echo.New()
	e.Validator = validate.New()
	e.HTTPErrorHandler = response.ErrorHandler
	e.Pre(echomw.RemoveTrailingSlash())
	e.Pre(echomw.MethodOverrideWithConfig(echomw.MethodOverrideConfig{
		Getter: echomw.MethodFromForm("_method"),
	}))
	csrfCfg := csrf.DefaultConfig()
	csrfCfg.TrustedOrigins = []string{"http://localhost:5173"}
	e.Use(csrf.Middleware(csrfCfg))

	Register(e, &Deps{
		Auth: &AuthHTTP{
			Svc:   &service.AuthService{Repo: r, Users: users, JWTSecret: testSecret, TokenTTL: time.Hour},
			Users: users,
		},
		Catalog:      &CatalogHTTP{Svc: &service.CatalogService{Repo: r, Files: files}},
		Cart:         &CartHTTP{Svc: &service.CartService{Repo: r}},
		Order:        &OrderHTTP{Svc: &service.OrderService{Repo: r, Files: files, Events: service.NopEventBus{}}},
		Address:      &AddressHTTP{Svc: &service.AddressService{Repo: r}},
		User:         &UserHTTP{Svc: users},
		Content:      &ContentHTTP{Svc: &service.ContentService{Repo: r, Cache: cache.NewMemory()}},
		GuestMessage: &GuestMessageHTTP{Svc: &service.GuestMessageService{Repo: r}},
		Stats:        &StatsHTTP{Svc: &service.StatsService{Repo: r}},
		JWTSecret:    testSecret,
		DB:           gdb,
	})

	return &testServer{e: e, db: gdb, files: files}
}

func tokenFor(t *testing.T, u *models.User) string {
	t.Helper()
	tok, err := tokens.IssueAccessToken(testSecret, u.ID, u.Role, time.Now().Add(time.Hour))
	require.NoError(t, err)
	return tok
}

type envelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Data    json.RawMessage     `json:"data"`
	Meta    *response.Meta      `json:"meta"`
	Errors  map[string][]string `json:"errors"`
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	return s.send(t, req, token)
}

func (s *testServer) send(t *testing.T, req *http.Request, token string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	for _, p := range []string{"/health/live", "/health/ready"} {
		req := httptest.NewRequest(http.MethodGet, p, nil)
		rec := httptest.NewRecorder()
		s.e.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, p)
	}
}

func TestRegisterLoginLogout(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Jane", "email": "Jane@Example.com", "password": "password123",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.True(t, env.Success)

	var reg struct {
		User  models.User `json:"user"`
		Token string      `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &reg))
	require.Equal(t, "jane@example.com", reg.User.Email)
	require.Equal(t, models.RoleUser, reg.User.Role)
	require.NotEmpty(t, reg.Token)
	require.NotContains(t, string(env.Data), "password")

	session := findCookie(rec, "auth_token")
	require.NotNil(t, session)
	require.True(t, session.HttpOnly)

	rec, env = s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Jane", "email": "jane@example.com", "password": "password123",
	})
	require.Equal(t, http.StatusConflict, rec.Code)
	require.False(t, env.Success)

	rec, env = s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "jane@example.com", "password": "wrong-password",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "Invalid credentials.", env.Message)

	rec, _ = s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "jane@example.com", "password": "password123",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	// the cookie alone authenticates
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: reg.Token})
	rec, env = s.send(t, req, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, env.Success)

	rec, _ = s.do(t, http.MethodPost, "/api/auth/logout", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cleared := findCookie(rec, "auth_token")
	require.NotNil(t, cleared)
	require.Empty(t, cleared.Value)
}

func TestRegisterValidation(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": "not-an-email", "password": "short",
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.False(t, env.Success)
	require.Equal(t, "The given data was invalid.", env.Message)
	require.Contains(t, env.Errors, "name")
	require.Contains(t, env.Errors, "email")
	require.Contains(t, env.Errors, "password")
}

func TestAuthGuards(t *testing.T) {
	s := newTestServer(t)
	user := testutil.SeedUser(t, s.db, "user@example.com", models.RoleUser)

	rec, env := s.do(t, http.MethodGet, "/api/carts", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.False(t, env.Success)
	require.Equal(t, "Unauthenticated.", env.Message)

	rec, env = s.do(t, http.MethodGet, "/api/admin/statistics", tokenFor(t, user), nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, "This action is unauthorized.", env.Message)

	rec, _ = s.do(t, http.MethodGet, "/api/carts", "garbage", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProductsPaginatedEnvelope(t *testing.T) {
	s := newTestServer(t)
	for _, n := range []string{"Alpha", "Bravo", "Charlie"} {
		testutil.SeedProduct(t, s.db, n, 100)
	}

	rec, env := s.do(t, http.MethodGet, "/api/products?per_page=2&sort=name-desc", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, env.Success)
	require.NotNil(t, env.Meta)
	require.Equal(t, int64(3), env.Meta.Total)
	require.Equal(t, 2, env.Meta.LastPage)
	require.Equal(t, 1, env.Meta.CurrentPage)

	var items []models.Product
	require.NoError(t, json.Unmarshal(env.Data, &items))
	require.Len(t, items, 2)
	require.Equal(t, "Charlie", items[0].Name)

	rec, env = s.do(t, http.MethodGet, "/api/products/9999", "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.False(t, env.Success)

	rec, _ = s.do(t, http.MethodGet, "/api/products/abc", "", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestContentRoundTrip(t *testing.T) {
	s := newTestServer(t)
	admin := testutil.SeedUser(t, s.db, "admin@example.com", models.RoleAdmin)

	rec, _ := s.do(t, http.MethodGet, "/api/contents/home", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"data":null`)

	rec, _ = s.do(t, http.MethodPut, "/api/admin/contents/home", tokenFor(t, admin), map[string]any{
		"value": map[string]string{"title": "Welcome"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, env := s.do(t, http.MethodGet, "/api/contents/home", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"title":"Welcome"}`, string(env.Data))

	rec, _ = s.do(t, http.MethodPut, "/api/admin/contents", tokenFor(t, admin), map[string]any{
		"contents": map[string]any{"footer": "© shop", "home": map[string]string{"title": "Hello"}},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, env = s.do(t, http.MethodGet, "/api/contents", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"footer":"© shop","home":{"title":"Hello"}}`, string(env.Data))
}

func TestGuestMessages(t *testing.T) {
	s := newTestServer(t)
	admin := testutil.SeedUser(t, s.db, "admin@example.com", models.RoleAdmin)

	rec, _ := s.do(t, http.MethodPost, "/api/guest-messages", "", map[string]string{
		"name": "Visitor", "email": "v@example.com", "message": "Hello there",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	tok := tokenFor(t, admin)
	rec, env := s.do(t, http.MethodGet, "/api/admin/guest-messages?is_read=false", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var msgs []models.GuestMessage
	require.NoError(t, json.Unmarshal(env.Data, &msgs))
	require.Len(t, msgs, 1)

	rec, _ = s.do(t, http.MethodPatch, "/api/admin/guest-messages/"+itoa(msgs[0].ID), tok, map[string]bool{"is_read": true})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, env = s.do(t, http.MethodGet, "/api/admin/guest-messages/stats", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var st service.GuestMessageStats
	require.NoError(t, json.Unmarshal(env.Data, &st))
	require.Equal(t, int64(1), st.Total)
	require.Equal(t, int64(0), st.Unread)
}

func TestCookieSessionWritesNeedCSRFToken(t *testing.T) {
	s := newTestServer(t)
	user := testutil.SeedUser(t, s.db, "user@example.com", models.RoleUser)
	p := testutil.SeedProduct(t, s.db, "A", 100)
	session := &http.Cookie{Name: "auth_token", Value: tokenFor(t, user)}

	newReq := func() *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/api/carts",
			bytes.NewReader([]byte(`{"product_id":`+itoa(p.ID)+`,"quantity":2}`)))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		req.AddCookie(session)
		req.AddCookie(&http.Cookie{Name: "XSRF-TOKEN", Value: "tok"})
		return req
	}

	rec, _ := s.send(t, newReq(), "")
	require.Equal(t, http.StatusForbidden, rec.Code)

	req := newReq()
	req.Header.Set("X-XSRF-TOKEN", "tok")
	rec, env := s.send(t, req, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.True(t, env.Success)
}

func TestCookieSessionFromTrustedOrigin(t *testing.T) {
	s := newTestServer(t)
	user := testutil.SeedUser(t, s.db, "user@example.com", models.RoleUser)
	p := testutil.SeedProduct(t, s.db, "A", 100)

	newReq := func(origin string) *http.Request {
		req := httptest.NewRequest(http.MethodPost, "http://localhost:8080/api/carts",
			bytes.NewReader([]byte(`{"product_id":`+itoa(p.ID)+`,"quantity":1}`)))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		req.Header.Set("Origin", origin)
		req.Header.Set("X-XSRF-TOKEN", "tok")
		req.AddCookie(&http.Cookie{Name: "auth_token", Value: tokenFor(t, user)})
		req.AddCookie(&http.Cookie{Name: "XSRF-TOKEN", Value: "tok"})
		return req
	}

	rec, env := s.send(t, newReq("http://localhost:5173"), "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.True(t, env.Success)

	rec, _ = s.send(t, newReq("http://evil.test"), "")
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminStatisticsSections(t *testing.T) {
	s := newTestServer(t)
	admin := testutil.SeedUser(t, s.db, "admin@example.com", models.RoleAdmin)
	tok := tokenFor(t, admin)
	require.NoError(t, s.db.Create(&models.GuestMessage{Name: "G", Email: "g@example.com", Message: "hi"}).Error)

	for _, section := range []string{"overview", "dashboard", "users", "products", "orders", "revenue"} {
		rec, env := s.do(t, http.MethodGet, "/api/admin/statistics/"+section, tok, nil)
		require.Equal(t, http.StatusOK, rec.Code, section)
		var st struct {
			Users int64 `json:"users"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &st))
		require.Equal(t, int64(1), st.Users, section)
	}

	rec, env := s.do(t, http.MethodGet, "/api/admin/statistics/guest-messages", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var gs service.GuestMessageStats
	require.NoError(t, json.Unmarshal(env.Data, &gs))
	require.Equal(t, int64(1), gs.Total)
	require.Equal(t, int64(1), gs.Unread)
}
