package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrInvalidClaims = errors.New("invalid claims")
)

// Claims is the payload carried by a session token. The subject of the
// embedded RegisteredClaims holds the user id.
type Claims struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// GenerateToken issues an HS256-signed token for the given user, valid for ttl.
func GenerateToken(secret string, userID uuid.UUID, email, username string, ttl time.Duration) (string, error) {
	return GenerateTokenAt(secret, userID, email, username, ttl, time.Now())
}

// GenerateTokenAt is GenerateToken with an explicit issue time.
func GenerateTokenAt(secret string, userID uuid.UUID, email, username string, ttl time.Duration, now time.Time) (string, error) {
	claims := Claims{
		Email:    email,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken verifies the signature and expiry of tokenStr and returns its
// claims. It never panics on malformed input; any failure is reported as an
// error.
func ParseToken(secret, tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || claims.Subject == "" || claims.Email == "" || claims.Username == "" ||
		claims.IssuedAt == nil || claims.ExpiresAt == nil {
		return nil, ErrInvalidClaims
	}

	return claims, nil
}
