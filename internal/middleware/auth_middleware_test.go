package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"todoapp/internal/auth"
	"todoapp/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

const jwtSecret = "test-secret-key"

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	r.Use(middleware.Authenticate(jwtSecret))

	// Public route: reachable with or without an identity.
	r.POST("/api/auth/login", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "public"})
	})

	// Identity-required routes.
	protected := r.Group("/api")
	protected.Use(middleware.RequireIdentity())
	protected.GET("/todos", func(c *gin.Context) {
		userID, ok := middleware.CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "User ID not found in context"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Access granted",
			"user_id": userID.String(),
		})
	})

	return r
}

func generateTestToken(t *testing.T, userID uuid.UUID) string {
	token, err := auth.GenerateToken(jwtSecret, userID, "test@example.com", "tester", 24*time.Hour)
	assert.NoError(t, err)
	return token
}

func TestAuthenticate_ValidToken(t *testing.T) {
	router := setupRouter()
	userID := uuid.New()
	token := generateTestToken(t, userID)

	req, _ := http.NewRequest("GET", "/api/todos", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "Access granted")
	assert.Contains(t, resp.Body.String(), userID.String())
}

func TestAuthenticate_PublicRouteWithoutToken(t *testing.T) {
	router := setupRouter()

	req, _ := http.NewRequest("POST", "/api/auth/login", nil)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestRequireIdentity_NoAuthHeader(t *testing.T) {
	router := setupRouter()

	req, _ := http.NewRequest("GET", "/api/todos", nil)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Contains(t, resp.Body.String(), "Authentication required")
}

func TestRequireIdentity_WrongHeaderFormat(t *testing.T) {
	router := setupRouter()

	req, _ := http.NewRequest("GET", "/api/todos", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestRequireIdentity_InvalidToken(t *testing.T) {
	router := setupRouter()

	req, _ := http.NewRequest("GET", "/api/todos", nil)
	req.Header.Set("Authorization", "Bearer invalid-token")

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestRequireIdentity_ExpiredToken(t *testing.T) {
	router := setupRouter()

	issuedAt := time.Now().Add(-2 * time.Hour)
	expired, err := auth.GenerateTokenAt(jwtSecret, uuid.New(), "test@example.com", "tester", time.Hour, issuedAt)
	assert.NoError(t, err)

	req, _ := http.NewRequest("GET", "/api/todos", nil)
	req.Header.Set("Authorization", "Bearer "+expired)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}
