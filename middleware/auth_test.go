package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

const testSecret = "test-secret"

func newGuardedRouter(secret string) *gin.Engine {
	router := gin.New()
	router.GET("/admin/ping", AdminAuthMiddleware(secret), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": c.GetString(AdminKey)})
	})
	return router
}

func getWithToken(router *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestAdminAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("Valid Token - 200 With Admin User", func(t *testing.T) {
		router := newGuardedRouter(testSecret)

		token, err := IssueAdminToken(testSecret, "admin")
		assert.NoError(t, err)

		w := getWithToken(router, "Bearer "+token)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"user":"admin"`)
	})

	t.Run("Missing Header - 401", func(t *testing.T) {
		router := newGuardedRouter(testSecret)

		w := getWithToken(router, "")

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Wrong Secret - 401", func(t *testing.T) {
		router := newGuardedRouter(testSecret)

		token, err := IssueAdminToken("another-secret", "admin")
		assert.NoError(t, err)

		w := getWithToken(router, "Bearer "+token)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Wrong Role - 403", func(t *testing.T) {
		router := newGuardedRouter(testSecret)

		claims := jwt.MapClaims{
			"sub":  "viewer",
			"role": "viewer",
			"exp":  time.Now().Add(time.Hour).Unix(),
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		assert.NoError(t, err)

		w := getWithToken(router, "Bearer "+token)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Expired Token - 401", func(t *testing.T) {
		router := newGuardedRouter(testSecret)

		claims := jwt.MapClaims{
			"sub":  "admin",
			"role": "admin",
			"exp":  time.Now().Add(-time.Hour).Unix(),
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		assert.NoError(t, err)

		w := getWithToken(router, "Bearer "+token)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
