package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aponomy/schema-ehnemark/internal/auth"
)

func newAuthedRouter(jwtService *auth.JWTService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS())
	r.GET("/protected", RequireAuth(jwtService), func(c *gin.Context) {
		party, _ := GetAuthParty(c)
		c.JSON(http.StatusOK, gin.H{"party": party})
	})
	return r
}

func TestCORSPreflight(t *testing.T) {
	r := newAuthedRouter(auth.NewJWTService("secret", "test"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/protected", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "PUT")
}

func TestRequireAuthMissingHeader(t *testing.T) {
	r := newAuthedRouter(auth.NewJWTService("secret", "test"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuthBadToken(t *testing.T) {
	r := newAuthedRouter(auth.NewJWTService("secret", "test"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuthValidToken(t *testing.T) {
	jwtService := auth.NewJWTService("secret", "test")
	r := newAuthedRouter(jwtService)

	token, err := jwtService.GenerateToken(uuid.New(), "Klas")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Klas")
}

func TestRequireAuthUnknownParty(t *testing.T) {
	jwtService := auth.NewJWTService("secret", "test")
	r := newAuthedRouter(jwtService)

	token, err := jwtService.GenerateToken(uuid.New(), "mallory")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}
