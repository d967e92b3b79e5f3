package utils

import (
	"context"
	"crypto/rand"
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/HarshJain-sudo/oldmachine-backend/models"
)

type contextKey string

const (
	UserIDKey    = contextKey("userID")
	UserRoleKey  = contextKey("userRole")
	RequestIDKey = contextKey("requestID")
)

const (
	RoleUser  = "user"
	RoleStaff = "staff"
)

// GenerateAccessToken issues a short-lived HS256 access token. The
// subject is the user's UUID.
func GenerateAccessToken(userID, role string, expiry time.Duration) (string, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return "", errors.New("JWT_SECRET is not set")
	}
	now := time.Now()
	jti, err := generateJTI(32)
	if err != nil {
		return "", err
	}

	claims := jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"exp":  now.Add(expiry).Unix(),
		"iat":  now.Unix(),
		"nbf":  now.Unix(),
		"jti":  jti,
		"aud":  os.Getenv("JWT_AUD"),
		"iss":  os.Getenv("JWT_ISS"),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateAccessToken parses the token, enforces HS256 and checks the
// registered claims plus jti revocation.
func ValidateAccessToken(tokenStr string) (jwt.MapClaims, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, errors.New("JWT_SECRET is not set")
	}
	token, err := jwt.ParseWithClaims(tokenStr, jwt.MapClaims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method == nil || t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		if err != nil && errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.New("token expired")
		}
		return nil, errors.New("invalid token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims")
	}

	if audEnv := os.Getenv("JWT_AUD"); audEnv != "" {
		if aud, _ := claims.GetAudience(); !containsString(aud, audEnv) {
			return nil, errors.New("invalid audience")
		}
	}
	if issEnv := os.Getenv("JWT_ISS"); issEnv != "" {
		if iss, _ := claims.GetIssuer(); iss != issEnv {
			return nil, errors.New("invalid issuer")
		}
	}

	if jti, ok := claims["jti"].(string); ok && jti != "" {
		if isJTIRevoked(jti) {
			return nil, errors.New("token revoked")
		}
	}
	return claims, nil
}

// SubjectFromClaims pulls the user ID and role out of validated claims.
func SubjectFromClaims(claims jwt.MapClaims) (userID, role string) {
	if sub, ok := claims["sub"].(string); ok {
		userID = sub
	}
	if r, ok := claims["role"].(string); ok {
		role = r
	}
	return userID, role
}

// GenerateRefreshToken creates and stores a refresh token; the opaque
// token string is its primary key.
func GenerateRefreshToken(db *gorm.DB, userID string) (string, error) {
	rt, err := models.NewRefreshToken(userID, 7)
	if err != nil {
		return "", err
	}
	if err := db.Create(rt).Error; err != nil {
		return "", err
	}
	return rt.ID, nil
}

// ValidateRefreshToken checks existence, revocation and expiry.
func ValidateRefreshToken(db *gorm.DB, token string) (*models.RefreshToken, error) {
	var rt models.RefreshToken
	if err := db.Where("id = ?", token).First(&rt).Error; err != nil {
		return nil, err
	}
	if rt.Revoked {
		return nil, errors.New("refresh token revoked")
	}
	if time.Now().After(rt.ExpiresAt) {
		return nil, errors.New("refresh token expired")
	}
	return &rt, nil
}

// RevokeJTI marks an access-token jti revoked in Redis. No-op without
// Redis; access tokens are short-lived enough that the DB fallback the
// refresh path uses is not duplicated here.
func RevokeJTI(jti string, ttl time.Duration) error {
	if jti == "" {
		return errors.New("empty jti")
	}
	if RedisClient == nil {
		return nil
	}
	return RedisClient.Set(context.Background(), "jwt:blacklist:"+jti, "1", ttl).Err()
}

func isJTIRevoked(jti string) bool {
	if RedisClient == nil {
		return false
	}
	res, err := RedisClient.Get(context.Background(), "jwt:blacklist:"+jti).Result()
	return err == nil && res == "1"
}

func containsString(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}

// generateJTI creates a URL-safe random identifier used as JWT ID.
func generateJTI(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	const hex = "0123456789abcdef"
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		out[i] = hex[int(b[i])%len(hex)]
	}
	return string(out), nil
}
