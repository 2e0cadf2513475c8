package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushq/its-api/internal/models"
	"github.com/campushq/its-api/internal/service"
)

const testSecret = "test-secret"

func newJWTEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc := service.NewAuthService(nil, nil, nil, nil, nil, service.AuthConfig{
		Secret:            testSecret,
		Issuer:            "its-api-test",
		AccessExpiration:  15 * time.Minute,
		RefreshExpiration: 24 * time.Hour,
	})
	r := gin.New()
	r.GET("/protected", JWT(svc), func(c *gin.Context) {
		claims := c.MustGet(ContextUserKey).(*models.AccessClaims)
		c.JSON(http.StatusOK, gin.H{"user_id": claims.UserID})
	})
	return r
}

func signAccessToken(t *testing.T, secret string, expires time.Duration) string {
	t.Helper()
	now := time.Now().UTC()
	claims := &models.AccessClaims{
		UserID:    7,
		IsStudent: true,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(expires)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestJWTMiddlewareAcceptsValidToken(t *testing.T) {
	r := newJWTEngine(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signAccessToken(t, testSecret, 15*time.Minute))
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":7`)
}

func TestJWTMiddlewareMissingHeader(t *testing.T) {
	r := newJWTEngine(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTMiddlewareMalformedHeader(t *testing.T) {
	r := newJWTEngine(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Token abc")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTMiddlewareWrongSecret(t *testing.T) {
	r := newJWTEngine(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signAccessToken(t, "other-secret", 15*time.Minute))
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTMiddlewareExpiredToken(t *testing.T) {
	r := newJWTEngine(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signAccessToken(t, testSecret, -time.Minute))
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}
