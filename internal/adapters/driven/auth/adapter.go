// Package auth verifies the bearer JWT the HTTP boundary requires on
// every request (§6). There is no password/login surface in this system:
// tokens are issued by an upstream identity provider, and the adapter
// only parses and validates them.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ragcore-labs/ragcore/internal/core/domain"
	"github.com/ragcore-labs/ragcore/internal/core/ports/driven"
)

var _ driven.TokenVerifier = (*Adapter)(nil)

// jwtClaims wraps domain.Claims for JWT compatibility.
type jwtClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// Adapter verifies HS256 bearer tokens signed with jwtSecret.
type Adapter struct {
	jwtSecret []byte
}

// NewAdapter creates an auth adapter with the given JWT secret.
func NewAdapter(jwtSecret string) *Adapter {
	return &Adapter{jwtSecret: []byte(jwtSecret)}
}

// GenerateToken signs a token for userID, valid until expiresAt. Used by
// local/dev tooling that stands in for the upstream identity provider.
func (a *Adapter) GenerateToken(userID string, issuedAt, expiresAt time.Time) (string, error) {
	claims := jwtClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.jwtSecret)
}

// ParseToken validates a JWT and extracts its claims.
func (a *Adapter) ParseToken(tokenString string) (*domain.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwtClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*jwtClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	return &domain.Claims{
		UserID:    claims.UserID,
		IssuedAt:  claims.IssuedAt.Unix(),
		ExpiresAt: claims.ExpiresAt.Unix(),
	}, nil
}
