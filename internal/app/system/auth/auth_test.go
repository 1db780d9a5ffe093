package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/skprofiles/internal/app/system/auth"
	"go.uber.org/zap"
)

func newTestSessionManager(t *testing.T) *auth.SessionManager {
	t.Helper()
	sm, err := auth.NewSessionManager(
		"test-session-key-must-be-32-chars-long",
		"test-session",
		"",
		24*time.Hour,
		false,
		zap.NewNop(),
	)
	if err != nil {
		t.Fatalf("failed to create session manager: %v", err)
	}
	return sm
}

func ok() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireSignedIn_NoUser_Returns401(t *testing.T) {
	sm := newTestSessionManager(t)

	req := httptest.NewRequest("GET", "/profiles", nil)
	rec := httptest.NewRecorder()
	sm.RequireSignedIn(ok()).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected JSON error, got %q", ct)
	}
}

func TestRequireSignedIn_WithUser_Proceeds(t *testing.T) {
	sm := newTestSessionManager(t)

	req := withUser(httptest.NewRequest("GET", "/profiles", nil), auth.RoleOfficial)
	rec := httptest.NewRecorder()
	sm.RequireSignedIn(ok()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
}

func TestRequireRole(t *testing.T) {
	sm := newTestSessionManager(t)
	tests := []struct {
		name string
		role string
		want int
	}{
		{"no user", "", http.StatusUnauthorized},
		{"wrong role", auth.RoleOfficial, http.StatusForbidden},
		{"right role", auth.RoleAdmin, http.StatusOK},
		{"case insensitive", "ADMIN", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("DELETE", "/localities/x", nil)
			if tt.role != "" {
				req = withUser(req, tt.role)
			}
			rec := httptest.NewRecorder()
			sm.RequireRole(auth.RoleAdmin)(ok()).ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("expected status %d, got %d", tt.want, rec.Code)
			}
		})
	}
}

func TestSignIn_RoundTrip(t *testing.T) {
	sm := newTestSessionManager(t)

	rec := httptest.NewRecorder()
	err := sm.SignIn(rec, httptest.NewRequest("POST", "/", nil), auth.SessionUser{
		ID:   "official-7",
		Name: "Kap. Reyes",
		Role: auth.RoleOfficial,
	})
	if err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected a session cookie")
	}

	req := httptest.NewRequest("GET", "/profiles", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}

	var got *auth.SessionUser
	h := sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = auth.CurrentUser(r)
	}))
	h.ServeHTTP(httptest.NewRecorder(), req)

	if got == nil {
		t.Fatal("expected user from session")
	}
	if got.ID != "official-7" || got.Role != auth.RoleOfficial {
		t.Errorf("unexpected user: %+v", got)
	}
}

func TestLoadSessionUser_BadCookie(t *testing.T) {
	sm := newTestSessionManager(t)

	req := httptest.NewRequest("GET", "/profiles", nil)
	req.AddCookie(&http.Cookie{Name: "test-session", Value: "garbage"})

	called := false
	h := sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		if _, ok := auth.CurrentUser(r); ok {
			t.Error("expected no user for a bad cookie")
		}
	}))
	h.ServeHTTP(httptest.NewRecorder(), req)
	if !called {
		t.Error("expected next handler to run")
	}
}

func TestCurrentUser_NoUser(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	if _, ok := auth.CurrentUser(req); ok {
		t.Error("expected no user")
	}
	if id := auth.UserID(req); id != "" {
		t.Errorf("expected empty id, got %q", id)
	}
}

func TestNewSessionManager_EmptyKey(t *testing.T) {
	sm, err := auth.NewSessionManager("", "s", "", time.Hour, false, zap.NewNop())
	if err != nil {
		t.Fatalf("expected random key fallback, got %v", err)
	}
	if sm == nil {
		t.Fatal("expected manager")
	}
}

func withUser(r *http.Request, role string) *http.Request {
	return auth.WithTestUser(r, &auth.SessionUser{ID: "u1", Name: "Test", Role: role})
}
