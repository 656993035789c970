package driven

import "github.com/ragcore-labs/ragcore/internal/core/domain"

// TokenVerifier validates the bearer JWT the HTTP boundary requires on
// every request. Tokens are issued upstream; this system only verifies
// and extracts the subject, it never mints credentials for a login flow.
type TokenVerifier interface {
	ParseToken(tokenString string) (*domain.Claims, error)
}
