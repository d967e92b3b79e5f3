package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/HarshJain-sudo/oldmachine-backend/utils"
)

func bearerToken(r *http.Request) (string, bool) {
	authz := r.Header.Get("Authorization")
	if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
		return "", false
	}
	return strings.TrimSpace(strings.TrimPrefix(authz, "Bearer ")), true
}

func withSubject(r *http.Request, userID, role string) *http.Request {
	ctx := context.WithValue(r.Context(), utils.UserIDKey, userID)
	ctx = context.WithValue(ctx, utils.UserRoleKey, role)
	return r.WithContext(ctx)
}

// AuthMiddleware requires a valid bearer token and injects the user ID
// and role into the request context.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr, ok := bearerToken(r)
		if !ok {
			utils.Error(w, http.StatusUnauthorized, "Authentication credentials were not provided", "UNAUTHORIZED")
			return
		}
		claims, err := utils.ValidateAccessToken(tokenStr)
		if err != nil {
			if strings.Contains(err.Error(), "expired") {
				utils.Error(w, http.StatusUnauthorized, "Access token has expired", "TOKEN_EXPIRED")
				return
			}
			utils.Error(w, http.StatusUnauthorized, "Invalid access token", "INVALID_TOKEN")
			return
		}
		userID, role := utils.SubjectFromClaims(claims)
		if userID == "" {
			utils.Error(w, http.StatusUnauthorized, "Invalid access token", "INVALID_TOKEN")
			return
		}
		next.ServeHTTP(w, withSubject(r, userID, role))
	})
}

// OptionalAuthMiddleware lets anonymous requests through untouched. A
// present-but-invalid token is still rejected with 401.
func OptionalAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr, ok := bearerToken(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}
		claims, err := utils.ValidateAccessToken(tokenStr)
		if err != nil {
			utils.Error(w, http.StatusUnauthorized, "Invalid access token", "INVALID_TOKEN")
			return
		}
		userID, role := utils.SubjectFromClaims(claims)
		next.ServeHTTP(w, withSubject(r, userID, role))
	})
}

// StaffMiddleware gates admin/team-only endpoints. Must run inside
// AuthMiddleware.
func StaffMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, _ := r.Context().Value(utils.UserRoleKey).(string)
		if role != utils.RoleStaff {
			utils.Error(w, http.StatusForbidden, "You do not have permission to perform this action", "FORBIDDEN")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetUserID returns the authenticated user ID from context, if any.
func GetUserID(r *http.Request) (string, bool) {
	id, ok := r.Context().Value(utils.UserIDKey).(string)
	return id, ok && id != ""
}
