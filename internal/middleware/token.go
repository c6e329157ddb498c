package middleware

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const DefaultTokenTTL = 24 * time.Hour

// SignToken issues the HS256 token AuthMiddleware accepts.
func SignToken(
	secret string,
	staffID uuid.UUID,
	clinicID uuid.UUID,
	role string,
	ttl time.Duration,
) (string, error) {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      staffID.String(),
		"clinicId": clinicID.String(),
		"role":     role,
		"exp":      now.Add(ttl).Unix(),
		"iat":      now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
