package middleware

import (
	"net/http"
	"strings"

	"github.com/erp/accounting/internal/infrastructure/auth"
	"github.com/erp/accounting/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Keys under which the middleware stores token data in the gin context,
// plus the header conventions it reads.
const (
	JWTClaimsKey   = "jwt_claims"
	JWTUserIDKey   = "jwt_user_id"
	JWTUsernameKey = "jwt_username"
	JWTRolesKey    = "jwt_roles"
	AuthHeaderKey  = "Authorization"
	BearerPrefix   = "Bearer "
)

// JWTMiddlewareConfig controls token validation behavior.
type JWTMiddlewareConfig struct {
	// JWTService validates incoming tokens. Required.
	JWTService *auth.JWTService
	// SkipPaths lists exact paths served without authentication.
	SkipPaths []string
	// SkipPathPrefixes lists path prefixes served without authentication.
	SkipPathPrefixes []string
	// OnError replaces the default 401 response when set.
	OnError func(c *gin.Context, err error)
	// Logger records authentication outcomes when set.
	Logger *zap.Logger
}

// DefaultJWTConfig skips the health probes and authenticates everything else.
func DefaultJWTConfig(jwtService *auth.JWTService) JWTMiddlewareConfig {
	return JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/health",
			"/healthz",
			"/ready",
			"/api/v1/health",
		},
	}
}

// JWTAuthMiddleware authenticates requests with the default configuration.
func JWTAuthMiddleware(jwtService *auth.JWTService) gin.HandlerFunc {
	return JWTAuthMiddlewareWithConfig(DefaultJWTConfig(jwtService))
}

// JWTAuthMiddlewareWithConfig authenticates requests against cfg. On
// success the claims land in the gin context and the user ID is pushed
// into the request context so downstream log lines carry it.
func JWTAuthMiddlewareWithConfig(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if pathExempt(cfg, c.Request.URL.Path) {
			c.Next()
			return
		}

		tokenString, reason := bearerToken(c)
		if reason != "" {
			rejectRequest(c, cfg, auth.ErrInvalidToken, reason)
			return
		}

		claims, err := cfg.JWTService.ValidateToken(tokenString)
		if err != nil {
			rejectRequest(c, cfg, err, "Token validation failed")
			return
		}

		c.Set(JWTClaimsKey, claims)
		c.Set(JWTUserIDKey, claims.UserID)
		c.Set(JWTUsernameKey, claims.Username)
		c.Set(JWTRolesKey, claims.Roles)

		ctx := c.Request.Context()
		ctx, _ = logger.WithUserID(ctx, logger.FromContext(ctx), claims.UserID)
		c.Request = c.Request.WithContext(ctx)

		if cfg.Logger != nil {
			cfg.Logger.Debug("JWT authentication successful",
				zap.String("user_id", claims.UserID),
				zap.String("username", claims.Username),
			)
		}

		c.Next()
	}
}

func pathExempt(cfg JWTMiddlewareConfig, path string) bool {
	for _, skip := range cfg.SkipPaths {
		if path == skip {
			return true
		}
	}
	for _, prefix := range cfg.SkipPathPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// bearerToken pulls the token out of the Authorization header. A
// non-empty reason means the header was absent or malformed.
func bearerToken(c *gin.Context) (token, reason string) {
	header := c.GetHeader(AuthHeaderKey)
	switch {
	case header == "":
		return "", "Missing authorization header"
	case !strings.HasPrefix(header, BearerPrefix):
		return "", "Invalid authorization header format"
	}
	token = strings.TrimPrefix(header, BearerPrefix)
	if token == "" {
		return "", "Missing token"
	}
	return token, ""
}

func rejectRequest(c *gin.Context, cfg JWTMiddlewareConfig, err error, message string) {
	if cfg.OnError != nil {
		cfg.OnError(c, err)
		return
	}

	if cfg.Logger != nil {
		cfg.Logger.Warn("JWT authentication failed",
			zap.Error(err),
			zap.String("message", message),
			zap.String("path", c.Request.URL.Path),
		)
	}

	code, msg := authErrorResponse(err)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": msg,
		},
	})
}

func authErrorResponse(err error) (code, message string) {
	switch err {
	case auth.ErrExpiredToken:
		return "TOKEN_EXPIRED", "Token has expired"
	case auth.ErrInvalidToken:
		return "INVALID_TOKEN", "Invalid token"
	case auth.ErrTokenNotYetValid:
		return "TOKEN_NOT_VALID", "Token is not yet valid"
	}
	return "UNAUTHORIZED", "Authentication required"
}

// GetJWTClaims returns the validated claims, or nil before authentication.
func GetJWTClaims(c *gin.Context) *auth.Claims {
	if v, ok := c.Get(JWTClaimsKey); ok {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}

// GetJWTUserID returns the authenticated user ID, or "".
func GetJWTUserID(c *gin.Context) string {
	return stringFromContext(c, JWTUserIDKey)
}

// GetJWTUsername returns the authenticated username, or "".
func GetJWTUsername(c *gin.Context) string {
	return stringFromContext(c, JWTUsernameKey)
}

// GetJWTRoles returns the authenticated user's roles, or nil.
func GetJWTRoles(c *gin.Context) []string {
	if v, ok := c.Get(JWTRolesKey); ok {
		if roles, ok := v.([]string); ok {
			return roles
		}
	}
	return nil
}

func stringFromContext(c *gin.Context, key string) string {
	if v, ok := c.Get(key); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
