package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Well-known roles
const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

// RoleConfig holds configuration for role middleware
type RoleConfig struct {
	// Logger for middleware logging
	Logger *zap.Logger
	// OnDenied is called when access is denied (optional)
	OnDenied func(c *gin.Context, requiredRoles []string)
}

// RequireRole creates middleware that requires a specific role
func RequireRole(role string) gin.HandlerFunc {
	return RequireAnyRole(role)
}

// RequireAnyRole creates middleware that requires any of the specified roles.
// The user must hold at least one of the listed roles to proceed.
func RequireAnyRole(roles ...string) gin.HandlerFunc {
	return RequireAnyRoleWithConfig(RoleConfig{}, roles...)
}

// RequireAnyRoleWithConfig creates middleware that requires any of the specified roles with custom config
func RequireAnyRoleWithConfig(cfg RoleConfig, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			handleRoleDenied(c, cfg, roles, "No authentication claims found")
			return
		}

		if !claims.HasAnyRole(roles...) {
			handleRoleDenied(c, cfg, roles, "User lacks required role")
			return
		}

		if cfg.Logger != nil {
			cfg.Logger.Debug("Role check passed",
				zap.String("user_id", claims.UserID),
				zap.Strings("required_any", roles),
				zap.Strings("user_roles", claims.Roles),
			)
		}

		c.Next()
	}
}

// handleRoleDenied handles access denied scenarios
func handleRoleDenied(c *gin.Context, cfg RoleConfig, requiredRoles []string, reason string) {
	if cfg.OnDenied != nil {
		cfg.OnDenied(c, requiredRoles)
		return
	}

	if cfg.Logger != nil {
		claims := GetJWTClaims(c)
		userID := ""
		userRoles := []string{}
		if claims != nil {
			userID = claims.UserID
			userRoles = claims.Roles
		}

		cfg.Logger.Warn("Access denied",
			zap.String("reason", reason),
			zap.String("user_id", userID),
			zap.Strings("required_roles", requiredRoles),
			zap.Strings("user_roles", userRoles),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
		)
	}

	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "ERR_FORBIDDEN",
			"message": "Access denied: insufficient role",
		},
	})
}
