package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/erp/accounting/internal/infrastructure/auth"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestTokenWithRoles(jwtService *auth.JWTService, roles []string) *auth.Token {
	input := auth.GenerateTokenInput{
		UserID:   uuid.New(),
		Username: "testuser",
		Roles:    roles,
	}
	token, _ := jwtService.GenerateToken(input)
	return token
}

func setupRouterWithJWT(jwtService *auth.JWTService) *gin.Engine {
	router := gin.New()
	router.Use(JWTAuthMiddleware(jwtService))
	return router
}

func TestRequireRole_WithMatchingRole(t *testing.T) {
	jwtService := newTestJWTService()
	token := newTestTokenWithRoles(jwtService, []string{RoleAdmin})

	router := setupRouterWithJWT(jwtService)
	router.POST("/accounts", RequireRole(RoleAdmin), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	req := httptest.NewRequest(http.MethodPost, "/accounts", nil)
	req.Header.Set("Authorization", "Bearer "+token.Value)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRole_WithoutMatchingRole(t *testing.T) {
	jwtService := newTestJWTService()
	token := newTestTokenWithRoles(jwtService, []string{RoleEmployee})

	router := setupRouterWithJWT(jwtService)
	router.POST("/accounts", RequireRole(RoleAdmin), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	req := httptest.NewRequest(http.MethodPost, "/accounts", nil)
	req.Header.Set("Authorization", "Bearer "+token.Value)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRole_NoClaims(t *testing.T) {
	router := gin.New()
	router.GET("/accounts", RequireRole(RoleAdmin), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	req := httptest.NewRequest(http.MethodGet, "/accounts", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireAnyRole_FirstRoleMatches(t *testing.T) {
	jwtService := newTestJWTService()
	token := newTestTokenWithRoles(jwtService, []string{RoleAdmin})

	router := setupRouterWithJWT(jwtService)
	router.GET("/reports", RequireAnyRole(RoleAdmin, RoleEmployee), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	req := httptest.NewRequest(http.MethodGet, "/reports", nil)
	req.Header.Set("Authorization", "Bearer "+token.Value)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAnyRole_SecondRoleMatches(t *testing.T) {
	jwtService := newTestJWTService()
	token := newTestTokenWithRoles(jwtService, []string{RoleEmployee})

	router := setupRouterWithJWT(jwtService)
	router.GET("/reports", RequireAnyRole(RoleAdmin, RoleEmployee), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	req := httptest.NewRequest(http.MethodGet, "/reports", nil)
	req.Header.Set("Authorization", "Bearer "+token.Value)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAnyRole_NoRoleMatches(t *testing.T) {
	jwtService := newTestJWTService()
	token := newTestTokenWithRoles(jwtService, []string{"auditor"})

	router := setupRouterWithJWT(jwtService)
	router.GET("/reports", RequireAnyRole(RoleAdmin, RoleEmployee), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	req := httptest.NewRequest(http.MethodGet, "/reports", nil)
	req.Header.Set("Authorization", "Bearer "+token.Value)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireAnyRole_EmptyRolesInToken(t *testing.T) {
	jwtService := newTestJWTService()
	token := newTestTokenWithRoles(jwtService, []string{})

	router := setupRouterWithJWT(jwtService)
	router.GET("/reports", RequireAnyRole(RoleAdmin), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	req := httptest.NewRequest(http.MethodGet, "/reports", nil)
	req.Header.Set("Authorization", "Bearer "+token.Value)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireAnyRole_DeniedResponseBody(t *testing.T) {
	jwtService := newTestJWTService()
	token := newTestTokenWithRoles(jwtService, []string{RoleEmployee})

	router := setupRouterWithJWT(jwtService)
	router.DELETE("/accounts/:id", RequireAnyRole(RoleAdmin), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	req := httptest.NewRequest(http.MethodDelete, "/accounts/123", nil)
	req.Header.Set("Authorization", "Bearer "+token.Value)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	errInfo, ok := body["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "ERR_FORBIDDEN", errInfo["code"])
}

func TestRequireAnyRoleWithConfig_Logger(t *testing.T) {
	jwtService := newTestJWTService()
	token := newTestTokenWithRoles(jwtService, []string{RoleEmployee})

	cfg := RoleConfig{Logger: zaptest.NewLogger(t)}

	router := setupRouterWithJWT(jwtService)
	router.POST("/transactions", RequireAnyRoleWithConfig(cfg, RoleAdmin), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	req := httptest.NewRequest(http.MethodPost, "/transactions", nil)
	req.Header.Set("Authorization", "Bearer "+token.Value)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireAnyRoleWithConfig_CustomOnDenied(t *testing.T) {
	jwtService := newTestJWTService()
	token := newTestTokenWithRoles(jwtService, []string{RoleEmployee})

	var deniedRoles []string
	cfg := RoleConfig{
		OnDenied: func(c *gin.Context, requiredRoles []string) {
			deniedRoles = requiredRoles
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"custom": "denied"})
		},
	}

	router := setupRouterWithJWT(jwtService)
	router.POST("/transactions", RequireAnyRoleWithConfig(cfg, RoleAdmin), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	req := httptest.NewRequest(http.MethodPost, "/transactions", nil)
	req.Header.Set("Authorization", "Bearer "+token.Value)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, []string{RoleAdmin}, deniedRoles)
}

func TestRequireAnyRole_HandlerNotReachedOnDenial(t *testing.T) {
	jwtService := newTestJWTService()
	token := newTestTokenWithRoles(jwtService, []string{RoleEmployee})

	handlerCalled := false
	router := setupRouterWithJWT(jwtService)
	router.POST("/accounts", RequireAnyRole(RoleAdmin), func(c *gin.Context) {
		handlerCalled = true
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	req := httptest.NewRequest(http.MethodPost, "/accounts", nil)
	req.Header.Set("Authorization", "Bearer "+token.Value)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.False(t, handlerCalled)
}
