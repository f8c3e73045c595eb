package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/zeromovies/internal/apperror"
)

// mockAuthService implements AuthService for middleware tests. Only
// ValidateSession matters here.
type mockAuthService struct {
	validateFn func(ctx context.Context, token string) (*Identity, error)
	calls      int
}

func (m *mockAuthService) Register(ctx context.Context, input RegisterInput) (*User, error) {
	return nil, nil
}

func (m *mockAuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	return nil, nil
}

func (m *mockAuthService) ValidateSession(ctx context.Context, token string) (*Identity, error) {
	m.calls++
	if m.validateFn != nil {
		return m.validateFn(ctx, token)
	}
	return nil, apperror.NewUnauthorized("session expired or invalid")
}

func (m *mockAuthService) Logout(ctx context.Context, token string) error {
	return nil
}

// serviceFor returns a service that resolves the token "good" to id.
func serviceFor(id *Identity) *mockAuthService {
	return &mockAuthService{
		validateFn: func(ctx context.Context, token string) (*Identity, error) {
			if token == "good" {
				return id, nil
			}
			return nil, apperror.NewUnauthorized("session expired or invalid")
		},
	}
}

var (
	regularUser = &Identity{UserID: "u1", Username: "alice"}
	adminUser   = &Identity{UserID: "u2", Username: "admin", IsAdmin: true}
)

func TestCheckLogin(t *testing.T) {
	if d := CheckLogin(nil); d.Allowed || d.Reason != DenyUnauthenticated {
		t.Errorf("anonymous: got %+v", d)
	}
	if d := CheckLogin(regularUser); !d.Allowed {
		t.Errorf("user: got %+v", d)
	}
}

func TestCheckAdmin(t *testing.T) {
	tests := []struct {
		name   string
		id     *Identity
		allow  bool
		reason DenyReason
	}{
		{"anonymous", nil, false, DenyUnauthenticated},
		{"regular user", regularUser, false, DenyForbidden},
		{"admin", adminUser, true, DenyNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := CheckAdmin(tt.id)
			if d.Allowed != tt.allow || d.Reason != tt.reason {
				t.Errorf("expected allowed=%v reason=%v, got %+v", tt.allow, tt.reason, d)
			}
		})
	}
}

func TestIdentity_CanManageCatalog(t *testing.T) {
	var anon *Identity
	if anon.CanManageCatalog() || regularUser.CanManageCatalog() {
		t.Error("only admins may manage the catalog")
	}
	if !adminUser.CanManageCatalog() {
		t.Error("admins may manage the catalog")
	}
}

// runGated sends a request through gate middleware and reports the
// response plus whether the handler ran.
func runGated(t *testing.T, mw echo.MiddlewareFunc, target, token string) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: token})
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	reached := false
	err := mw(func(c echo.Context) error {
		reached = true
		return c.String(http.StatusOK, "ok")
	})(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return rec, reached
}

func TestRequireLogin_RedirectsAnonymousToLoginWithNext(t *testing.T) {
	svc := serviceFor(regularUser)

	rec, reached := runGated(t, RequireLogin(svc), "/auth/logout?x=1", "")
	if reached {
		t.Fatal("handler must not run")
	}
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if got := rec.Header().Get("Location"); got != "/auth/login?next=%2Fauth%2Flogout%3Fx%3D1" {
		t.Errorf("unexpected redirect %q", got)
	}
}

func TestRequireLogin_StaleCookieIsClearedAndRedirected(t *testing.T) {
	svc := serviceFor(regularUser)

	rec, reached := runGated(t, RequireLogin(svc), "/auth/logout", "stale")
	if reached {
		t.Fatal("handler must not run")
	}
	if got := rec.Header().Get("Location"); got != "/auth/login?next=%2Fauth%2Flogout" {
		t.Errorf("unexpected redirect %q", got)
	}
	cookie := rec.Result().Cookies()
	if len(cookie) != 1 || cookie[0].Name != sessionCookieName || cookie[0].MaxAge >= 0 {
		t.Errorf("expected session cookie to be cleared, got %+v", cookie)
	}
}

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		name     string
		id       *Identity
		token    string
		reached  bool
		location string
	}{
		{"anonymous goes to login", nil, "", false, "/auth/login?next=%2Fadmin%2F"},
		{"regular user goes to landing", regularUser, "good", false, "/"},
		{"admin passes", adminUser, "good", true, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, reached := runGated(t, RequireAdmin(serviceFor(tt.id)), "/admin/", tt.token)
			if reached != tt.reached {
				t.Fatalf("expected reached=%v", tt.reached)
			}
			if got := rec.Header().Get("Location"); got != tt.location {
				t.Errorf("expected redirect %q, got %q", tt.location, got)
			}
		})
	}
}

func TestGates_ResolveIdentityOnce(t *testing.T) {
	svc := serviceFor(adminUser)
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/admin/", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "good"})
	c := e.NewContext(req, httptest.NewRecorder())

	var seen *Identity
	h := LoadIdentity(svc)(RequireLogin(svc)(RequireAdmin(svc)(func(c echo.Context) error {
		seen = CurrentIdentity(c)
		return nil
	})))
	if err := h(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seen != adminUser {
		t.Errorf("expected admin identity in context, got %+v", seen)
	}
	if svc.calls != 1 {
		t.Errorf("expected one session validation, got %d", svc.calls)
	}
}

func TestLoadIdentity_PropagatesStoreFailures(t *testing.T) {
	svc := &mockAuthService{
		validateFn: func(ctx context.Context, token string) (*Identity, error) {
			return nil, apperror.NewInternal(context.DeadlineExceeded)
		},
	}
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "any"})
	c := e.NewContext(req, httptest.NewRecorder())

	err := LoadIdentity(svc)(func(c echo.Context) error { return nil })(c)
	if !apperror.IsCode(err, http.StatusInternalServerError) {
		t.Errorf("expected internal error, got %v", err)
	}
}

func TestSafeNext(t *testing.T) {
	tests := map[string]string{
		"":                      "/",
		"/admin/":               "/admin/",
		"/movie/abc?x=1":        "/movie/abc?x=1",
		"https://evil.example/": "/",
		"//evil.example/":       "/",
		"/\\evil.example":       "/",
		"admin":                 "/",
		"javascript:alert(1)":   "/",
	}
	for in, want := range tests {
		if got := SafeNext(in); got != want {
			t.Errorf("SafeNext(%q) = %q, want %q", in, got, want)
		}
	}
}
