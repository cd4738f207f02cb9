package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/campusmart/internal/auth"
	"github.com/01moynul/campusmart/internal/models"
)

// Context keys set by the auth middlewares.
const (
	CtxUserID   = "userID"
	CtxUserRole = "userRole"
)

// TokenValidator verifies bearer tokens.
type TokenValidator interface {
	ValidateToken(token string) (*auth.Claims, error)
}

func abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "message": message})
}

// bearer pulls the token out of "Authorization: Bearer <token>".
func bearer(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func authenticate(c *gin.Context, tokens TokenValidator) (*auth.Claims, bool) {
	token, ok := bearer(c)
	if !ok {
		abort(c, http.StatusUnauthorized, "Authorization header required")
		return nil, false
	}
	claims, err := tokens.ValidateToken(token)
	if err != nil {
		abort(c, http.StatusUnauthorized, "Invalid or expired token")
		return nil, false
	}
	return claims, true
}

// AuthMiddleware admits buyers and sellers and puts their id and role on
// the context. Admin tokens are refused here; the admin namespace has its
// own guard.
func AuthMiddleware(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := authenticate(c, tokens)
		if !ok {
			return
		}
		if claims.Role != models.RoleBuyer && claims.Role != models.RoleSeller {
			abort(c, http.StatusForbidden, "Access denied")
			return
		}
		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxUserRole, claims.Role)
		c.Next()
	}
}

// AdminMiddleware admits admin tokens only.
func AdminMiddleware(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := authenticate(c, tokens)
		if !ok {
			return
		}
		if claims.Role != models.RoleAdmin {
			abort(c, http.StatusForbidden, "Access denied: Admin role required")
			return
		}
		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxUserRole, claims.Role)
		c.Next()
	}
}

// RequireRole must run after AuthMiddleware.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(CtxUserRole)
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		abort(c, http.StatusForbidden, "Access denied: "+strings.Join(roles, " or ")+" role required")
	}
}
