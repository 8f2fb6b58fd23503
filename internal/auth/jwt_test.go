package auth_test

import (
	"testing"
	"time"

	"todoapp/internal/auth"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

const testSecret = "test-secret-key"

func TestGenerateAndParseToken(t *testing.T) {
	userID := uuid.New()
	token, err := auth.GenerateToken(testSecret, userID, "test@example.com", "tester", 24*time.Hour)

	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := auth.ParseToken(testSecret, token)

	assert.NoError(t, err)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.Equal(t, "test@example.com", claims.Email)
	assert.Equal(t, "tester", claims.Username)
}

func TestParseToken_InvalidToken(t *testing.T) {
	_, err := auth.ParseToken(testSecret, "invalid-token")

	assert.Error(t, err)
	assert.Equal(t, auth.ErrInvalidToken, err)
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, err := auth.GenerateToken(testSecret, uuid.New(), "test@example.com", "tester", 24*time.Hour)
	assert.NoError(t, err)

	_, err = auth.ParseToken("another-secret", token)

	assert.Error(t, err)
	assert.Equal(t, auth.ErrInvalidToken, err)
}

func TestParseToken_ExpiredToken(t *testing.T) {
	// Issued long enough ago that the TTL has already elapsed.
	issuedAt := time.Now().Add(-2 * time.Hour)
	token, err := auth.GenerateTokenAt(testSecret, uuid.New(), "test@example.com", "tester", time.Hour, issuedAt)
	assert.NoError(t, err)

	_, err = auth.ParseToken(testSecret, token)

	assert.Error(t, err)
	assert.Equal(t, auth.ErrInvalidToken, err)
}

func TestParseToken_Tampered(t *testing.T) {
	token, err := auth.GenerateToken(testSecret, uuid.New(), "test@example.com", "tester", 24*time.Hour)
	assert.NoError(t, err)

	// Flip one character in the payload and one in the signature.
	for _, i := range []int{len(token) / 2, len(token) - 10} {
		b := []byte(token)
		if b[i] == 'x' {
			b[i] = 'y'
		} else {
			b[i] = 'x'
		}

		_, err := auth.ParseToken(testSecret, string(b))
		assert.Error(t, err)
	}
}

func TestParseToken_MissingClaims(t *testing.T) {
	// Token without email and username claims.
	claims := jwt.MapClaims{
		"sub": uuid.New().String(),
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(24 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	incomplete, _ := token.SignedString([]byte(testSecret))

	_, err := auth.ParseToken(testSecret, incomplete)

	assert.Error(t, err)
	assert.Equal(t, auth.ErrInvalidClaims, err)
}
