package helpers

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joshua-takyi/authsystem/internal/models"
)

const (
	// SessionTokenTTL is the default session lifetime.
	SessionTokenTTL = 7 * 24 * time.Hour
	// RememberTokenTTL is the extended lifetime used with "remember me".
	RememberTokenTTL = 30 * 24 * time.Hour
)

// TokenClaims are the fields embedded in a session token.
type TokenClaims struct {
	UserID string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

func (tc *TokenClaims) IsAdmin() bool {
	return tc.Role == models.RoleAdmin
}

func (tc *TokenClaims) HasRole(role string) bool {
	return tc.Role == role
}

// TokenIssuer signs and validates session tokens with a process-wide HMAC
// key. The key comes from configuration and is required at startup, so an
// issuer never exists without one.
type TokenIssuer struct {
	secret []byte
}

func NewTokenIssuer(secret string) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret)}
}

// Issue creates a signed token for the user and returns it together with
// its absolute expiry.
func (ti *TokenIssuer) Issue(user *models.User, remember bool) (string, time.Time, error) {
	ttl := SessionTokenTTL
	if remember {
		ttl = RememberTokenTTL
	}

	now := time.Now()
	expiresAt := now.Add(ttl)
	claims := &TokenClaims{
		UserID: user.ID.Hex(),
		Name:   user.Name,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ti.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %v", err)
	}
	return signed, expiresAt, nil
}

// Parse verifies signature and expiry and returns the embedded claims.
func (ti *TokenIssuer) Parse(tokenStr string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &TokenClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ti.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %v", err)
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}
	return claims, nil
}
