package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ExpiryOf lê o "exp" de um token JWT sem verificar a assinatura (o segredo é do backend).
// Tokens opacos, ou JWT sem exp, expiram em now+fallback.
func ExpiryOf(token string, now time.Time, fallback time.Duration) time.Time {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err == nil && claims.ExpiresAt != nil {
		return claims.ExpiresAt.Time
	}
	return now.Add(fallback)
}
