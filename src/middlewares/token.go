package middlewares

import (
	"strconv"
	"time"

	"tickethub/src/models"
	"tickethub/src/types"

	"github.com/golang-jwt/jwt/v4"
)

// GenerateToken signs a bearer token for the user, valid for 24 hours.
func GenerateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := &types.Claims{
		Role: string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(24 * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret())
}
