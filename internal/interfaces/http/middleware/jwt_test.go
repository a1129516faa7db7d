package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/erp/accounting/internal/infrastructure/auth"
	"github.com/erp/accounting/internal/infrastructure/config"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:          "test-secret-key-at-least-32-chars",
		TokenExpiration: 15 * time.Minute,
		Issuer:          "test-issuer",
	})
}

func issueClerkToken(t *testing.T, jwtService *auth.JWTService) (*auth.Token, auth.GenerateTokenInput) {
	t.Helper()
	input := auth.GenerateTokenInput{
		UserID:   uuid.New(),
		Username: "ledger-clerk",
		Roles:    []string{"admin", "employee"},
	}
	token, err := jwtService.GenerateToken(input)
	require.NoError(t, err)
	return token, input
}

// protectedRouter wires the middleware in front of handler on GET /test.
func protectedRouter(mw gin.HandlerFunc, handler gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(mw)
	if handler == nil {
		handler = func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		}
	}
	router.GET("/test", handler)
	return router
}

func getWithAuth(router *gin.Engine, path, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuthMiddlewareValidToken(t *testing.T) {
	jwtService := newTestJWTService()
	token, input := issueClerkToken(t, jwtService)

	router := protectedRouter(JWTAuthMiddleware(jwtService), func(c *gin.Context) {
		claims := GetJWTClaims(c)
		require.NotNil(t, claims)
		assert.Equal(t, input.UserID.String(), claims.UserID)
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	rec := getWithAuth(router, "/test", "Bearer "+token.Value)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestJWTAuthMiddlewareRejects(t *testing.T) {
	jwtService := newTestJWTService()
	router := protectedRouter(JWTAuthMiddleware(jwtService), nil)

	cases := map[string]string{
		"missing header":     "",
		"wrong auth scheme":  "Basic dXNlcjpwYXNz",
		"empty bearer token": "Bearer ",
		"garbage token":      "Bearer not-a-jwt",
	}

	for name, authorization := range cases {
		t.Run(name, func(t *testing.T) {
			rec := getWithAuth(router, "/test", authorization)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestJWTAuthMiddlewareExpiredToken(t *testing.T) {
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:          "test-secret-key-at-least-32-chars",
		TokenExpiration: -time.Hour,
		Issuer:          "test-issuer",
	})
	token, _ := issueClerkToken(t, jwtService)

	router := protectedRouter(JWTAuthMiddleware(jwtService), nil)

	rec := getWithAuth(router, "/test", "Bearer "+token.Value)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "TOKEN_EXPIRED")
}

func TestJWTAuthMiddlewareSkipPaths(t *testing.T) {
	jwtService := newTestJWTService()

	cfg := DefaultJWTConfig(jwtService)
	cfg.SkipPaths = append(cfg.SkipPaths, "/public")
	cfg.SkipPathPrefixes = []string{"/static"}

	router := gin.New()
	router.Use(JWTAuthMiddlewareWithConfig(cfg))
	open := func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) }

	openPaths := append(DefaultJWTConfig(jwtService).SkipPaths,
		"/public",
		"/static/assets/logo.png",
	)
	for _, path := range openPaths {
		router.GET(path, open)
	}

	for _, path := range openPaths {
		t.Run(path, func(t *testing.T) {
			rec := getWithAuth(router, path, "")
			assert.Equal(t, http.StatusOK, rec.Code)
		})
	}

	t.Run("other paths still require auth", func(t *testing.T) {
		router.GET("/accounts", open)
		rec := getWithAuth(router, "/accounts", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestJWTAuthMiddlewareContextValues(t *testing.T) {
	jwtService := newTestJWTService()
	token, input := issueClerkToken(t, jwtService)

	var gotUserID, gotUsername string
	var gotRoles []string

	router := protectedRouter(JWTAuthMiddleware(jwtService), func(c *gin.Context) {
		gotUserID = GetJWTUserID(c)
		gotUsername = GetJWTUsername(c)
		gotRoles = GetJWTRoles(c)
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	rec := getWithAuth(router, "/test", "Bearer "+token.Value)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, input.UserID.String(), gotUserID)
	assert.Equal(t, input.Username, gotUsername)
	assert.Equal(t, input.Roles, gotRoles)
}

func TestContextGettersBeforeAuth(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.Nil(t, GetJWTClaims(c))
	assert.Empty(t, GetJWTUserID(c))
	assert.Empty(t, GetJWTUsername(c))
	assert.Nil(t, GetJWTRoles(c))
}

func TestJWTAuthMiddlewareCustomOnError(t *testing.T) {
	jwtService := newTestJWTService()

	onErrorCalled := false
	cfg := DefaultJWTConfig(jwtService)
	cfg.OnError = func(c *gin.Context, err error) {
		onErrorCalled = true
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"custom": "error"})
	}

	router := protectedRouter(JWTAuthMiddlewareWithConfig(cfg), nil)

	rec := getWithAuth(router, "/test", "")

	assert.True(t, onErrorCalled)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
