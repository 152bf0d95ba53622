// Package auth issues and verifies the signed session tokens that identify
// callers to the HTTP and WebSocket transports.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for tokens with a bad signature, a wrong
// signing method, or a malformed structure.
var ErrInvalidToken = errors.New("invalid token")

// Claims binds a username to the standard registered claims.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies session tokens. The secret is injected at
// construction; there is no package-level signing state.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

// Issue produces a signed token asserting the given username.
func (m *TokenManager) Issue(username string) (string, error) {
	now := time.Now()
	claims := Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Verify checks the token signature and structure and returns the username it
// asserts. Any failure surfaces as ErrInvalidToken.
func (m *TokenManager) Verify(tokenString string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}
	if claims.Username == "" {
		return "", ErrInvalidToken
	}
	return claims.Username, nil
}
