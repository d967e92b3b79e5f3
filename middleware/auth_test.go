package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/HarshJain-sudo/oldmachine-backend/utils"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestOptionalAuth_AnonymousPasses(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	handler := OptionalAuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetUserID(r); ok {
			t.Error("anonymous request must not carry a user ID")
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "http://example.local/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for anonymous request, got %d", rec.Code)
	}
}

func TestOptionalAuth_InvalidTokenRejected(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	handler := OptionalAuthMiddleware(okHandler())

	req := httptest.NewRequest("GET", "http://example.local/", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for invalid token, got %d", rec.Code)
	}
}

func TestOptionalAuth_ValidTokenInjectsSubject(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("JWT_AUD", "")
	t.Setenv("JWT_ISS", "")

	token, err := utils.GenerateAccessToken("user-123", utils.RoleUser, time.Minute)
	if err != nil {
		t.Fatalf("token generation failed: %v", err)
	}

	handler := OptionalAuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := GetUserID(r)
		if !ok || userID != "user-123" {
			t.Errorf("expected user-123 in context, got %q (ok=%v)", userID, ok)
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "http://example.local/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for valid token, got %d", rec.Code)
	}
}

func TestAuthMiddleware_MissingTokenRejected(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	handler := AuthMiddleware(okHandler())

	req := httptest.NewRequest("GET", "http://example.local/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a token, got %d", rec.Code)
	}
}

func TestStaffMiddleware_NonStaffForbidden(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("JWT_AUD", "")
	t.Setenv("JWT_ISS", "")

	token, err := utils.GenerateAccessToken("user-123", utils.RoleUser, time.Minute)
	if err != nil {
		t.Fatalf("token generation failed: %v", err)
	}

	handler := AuthMiddleware(StaffMiddleware(okHandler()))
	req := httptest.NewRequest("GET", "http://example.local/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-staff, got %d", rec.Code)
	}
}

func TestStaffMiddleware_StaffAllowed(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("JWT_AUD", "")
	t.Setenv("JWT_ISS", "")

	token, err := utils.GenerateAccessToken("staff-1", utils.RoleStaff, time.Minute)
	if err != nil {
		t.Fatalf("token generation failed: %v", err)
	}

	handler := AuthMiddleware(StaffMiddleware(okHandler()))
	req := httptest.NewRequest("GET", "http://example.local/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for staff, got %d", rec.Code)
	}
}
