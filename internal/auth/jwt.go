package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the token claims issued by the user subsystem. This core only
// reads them; it never mints tokens outside of tests.
type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"` // USER/ADMIN
	jwt.RegisteredClaims
}

func GenerateToken(secret, username, role string, ttl time.Duration) (string, error) {
	c := Claims{
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return t.SignedString([]byte(secret))
}

func ParseToken(secret, tokenStr string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := t.Claims.(*Claims); ok && t.Valid {
		return claims, nil
	}
	return nil, jwt.ErrTokenInvalidClaims
}
