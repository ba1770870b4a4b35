package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/civicatlas/records-system/internal/api/handler"
	"github.com/civicatlas/records-system/internal/api/middleware"
	"github.com/civicatlas/records-system/internal/api/response"
	"github.com/civicatlas/records-system/internal/core/domain"
	"github.com/civicatlas/records-system/internal/core/service"
	"github.com/civicatlas/records-system/internal/core/token"
)

// memUserRepo is an in-memory credential store for wiring the full HTTP
// surface without MongoDB.
type memUserRepo struct {
	users  map[string]*domain.User
	nextID int
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*domain.User)}
}

func (r *memUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, existing := range r.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return nil, domain.ErrDuplicateUser
		}
	}
	r.nextID++
	created := *user
	created.ID = "u" + strconv.Itoa(r.nextID)
	stored := created
	r.users[created.ID] = &stored
	return &created, nil
}

func (r *memUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := r.users[id]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *memUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *memUserRepo) Update(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, ok := r.users[user.ID]; !ok {
		return nil, domain.ErrUserNotFound
	}
	stored := *user
	r.users[user.ID] = &stored
	clone := *user
	return &clone, nil
}

// newTestServer wires the auth surface with an in-memory store, the real
// codec, the real gate, and the real error handler.
func newTestServer(t *testing.T) (*echo.Echo, *token.Codec) {
	t.Helper()

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(zerolog.Nop())

	codec := token.NewCodec("test-secret")
	authService := service.NewAuthService(newMemUserRepo(), codec, time.Hour)
	authHandler := handler.NewAuthHandler(authService)

	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.GET("/auth/validate", authHandler.Validate, middleware.RequireAuth(codec))
	e.POST("/auth/refresh", authHandler.Refresh, middleware.RequireAuth(codec))
	e.GET("/auth/profile", authHandler.GetProfile, middleware.RequireAuth(codec))
	e.PUT("/auth/profile", authHandler.UpdateProfile, middleware.RequireAuth(codec))
	e.POST("/auth/logout", authHandler.Logout, middleware.OptionalAuth(codec))
	e.GET("/auth/check", authHandler.Check, middleware.OptionalAuth(codec))

	// Admin-gated probe standing in for any admin-only operation.
	e.GET("/admin/probe", func(c echo.Context) error {
		return c.JSON(http.StatusOK, response.OK(nil))
	}, middleware.RequireAdmin(codec))

	return e, codec
}

func do(t *testing.T, e *echo.Echo, method, path, body, bearer string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if bearer != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func envelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json %q: %v", rec.Body.String(), err)
	}
	return resp
}

func TestScenario_RegisterLoginGating(t *testing.T) {
	e, codec := newTestServer(t)

	// Register alice: 201 with a verifying token.
	rec := do(t, e, http.MethodPost, "/auth/register",
		`{"username":"alice","email":"a@x.com","password":"secret1"}`, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}

	// Login: 200 with a token carrying the staff role.
	rec = do(t, e, http.MethodPost, "/auth/login",
		`{"login":"alice","password":"secret1"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	data := envelope(t, rec)["data"].(map[string]any)
	staffToken := data["token"].(string)

	identity, err := codec.Verify(staffToken)
	if err != nil {
		t.Fatalf("login token does not verify: %v", err)
	}
	if identity.Role != domain.RoleStaff {
		t.Fatalf("expected staff role, got %s", identity.Role)
	}

	// Admin-gated operation with the staff token: 403 FORBIDDEN.
	rec = do(t, e, http.MethodGet, "/admin/probe", "", staffToken)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	resp := envelope(t, rec)
	if resp["success"] != false || resp["error"] != response.TagForbidden {
		t.Fatalf("unexpected envelope: %+v", resp)
	}

	// No header at all: 401 UNAUTHORIZED.
	rec = do(t, e, http.MethodGet, "/admin/probe", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	resp = envelope(t, rec)
	if resp["error"] != response.TagUnauthorized {
		t.Fatalf("unexpected envelope: %+v", resp)
	}
}

func TestScenario_LoginFailuresIndistinguishable(t *testing.T) {
	e, _ := newTestServer(t)

	do(t, e, http.MethodPost, "/auth/register",
		`{"username":"alice","email":"a@x.com","password":"secret1"}`, "")

	wrongPass := do(t, e, http.MethodPost, "/auth/login",
		`{"login":"alice","password":"wrong"}`, "")
	unknown := do(t, e, http.MethodPost, "/auth/login",
		`{"login":"nobody","password":"secret1"}`, "")

	if wrongPass.Code != http.StatusUnauthorized || unknown.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401/401, got %d/%d", wrongPass.Code, unknown.Code)
	}
	if wrongPass.Body.String() != unknown.Body.String() {
		t.Fatalf("login failures distinguishable:\n%s\n%s", wrongPass.Body.String(), unknown.Body.String())
	}
}

func TestScenario_RefreshAndValidate(t *testing.T) {
	e, codec := newTestServer(t)

	rec := do(t, e, http.MethodPost, "/auth/register",
		`{"username":"bob","email":"b@x.com","password":"secret1"}`, "")
	data := envelope(t, rec)["data"].(map[string]any)
	tok := data["token"].(string)

	// Validate echoes the identity back.
	rec = do(t, e, http.MethodGet, "/auth/validate", "", tok)
	if rec.Code != http.StatusOK {
		t.Fatalf("validate: expected 200, got %d", rec.Code)
	}
	user := envelope(t, rec)["data"].(map[string]any)["user"].(map[string]any)
	if user["username"] != "bob" {
		t.Fatalf("unexpected identity: %+v", user)
	}

	// Refresh yields a fresh verifying token for the same identity.
	rec = do(t, e, http.MethodPost, "/auth/refresh", "", tok)
	if rec.Code != http.StatusOK {
		t.Fatalf("refresh: expected 200, got %d", rec.Code)
	}
	newTok := envelope(t, rec)["data"].(map[string]any)["token"].(string)

	oldIdentity, _ := codec.Verify(tok)
	newIdentity, err := codec.Verify(newTok)
	if err != nil {
		t.Fatalf("refreshed token does not verify: %v", err)
	}
	if newIdentity != oldIdentity {
		t.Fatalf("identity changed across refresh: %+v vs %+v", newIdentity, oldIdentity)
	}

	// Refresh with a tampered token: 401.
	rec = do(t, e, http.MethodPost, "/auth/refresh", "", tok+"x")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("tampered refresh: expected 401, got %d", rec.Code)
	}
}

func TestScenario_ProfileUpdateKeepsRole(t *testing.T) {
	e, _ := newTestServer(t)

	rec := do(t, e, http.MethodPost, "/auth/register",
		`{"username":"carol","email":"c@x.com","password":"secret1"}`, "")
	tok := envelope(t, rec)["data"].(map[string]any)["token"].(string)

	rec = do(t, e, http.MethodPut, "/auth/profile", `{"email":"carol@new.com"}`, tok)
	if rec.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	user := envelope(t, rec)["data"].(map[string]any)["user"].(map[string]any)
	if user["email"] != "carol@new.com" || user["role"] != domain.RoleStaff {
		t.Fatalf("unexpected profile: %+v", user)
	}

	rec = do(t, e, http.MethodGet, "/auth/profile", "", tok)
	if rec.Code != http.StatusOK {
		t.Fatalf("get profile: expected 200, got %d", rec.Code)
	}
}

func TestScenario_CheckAndLogout(t *testing.T) {
	e, _ := newTestServer(t)

	// check is reachable with no credentials.
	rec := do(t, e, http.MethodGet, "/auth/check", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("check: expected 200, got %d", rec.Code)
	}
	if envelope(t, rec)["authenticated"] != false {
		t.Fatalf("expected authenticated=false")
	}

	// and with a bad token it still answers instead of failing closed.
	rec = do(t, e, http.MethodGet, "/auth/check", "", "garbage")
	if rec.Code != http.StatusOK || envelope(t, rec)["authenticated"] != false {
		t.Fatalf("check with bad token: expected 200/false, got %d", rec.Code)
	}

	rec = do(t, e, http.MethodPost, "/auth/logout", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("logout: expected 200, got %d", rec.Code)
	}

	// check with a real token reports the identity.
	reg := do(t, e, http.MethodPost, "/auth/register",
		`{"username":"dave","email":"d@x.com","password":"secret1"}`, "")
	tok := envelope(t, reg)["data"].(map[string]any)["token"].(string)

	rec = do(t, e, http.MethodGet, "/auth/check", "", tok)
	resp := envelope(t, rec)
	if resp["authenticated"] != true {
		t.Fatalf("expected authenticated=true: %+v", resp)
	}
}

func TestScenario_MethodNotAllowed(t *testing.T) {
	e, _ := newTestServer(t)

	rec := do(t, e, http.MethodGet, "/auth/register", "", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
	if envelope(t, rec)["error"] != response.TagMethodNotAllowed {
		t.Fatalf("unexpected envelope: %s", rec.Body.String())
	}
}

func TestScenario_DuplicateRegistration(t *testing.T) {
	e, _ := newTestServer(t)

	do(t, e, http.MethodPost, "/auth/register",
		`{"username":"erin","email":"e@x.com","password":"secret1"}`, "")
	rec := do(t, e, http.MethodPost, "/auth/register",
		`{"username":"erin","email":"other@x.com","password":"secret1"}`, "")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if envelope(t, rec)["error"] != response.TagDuplicateUser {
		t.Fatalf("unexpected envelope: %s", rec.Body.String())
	}
}
