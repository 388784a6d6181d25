package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/zulfalsa/danusan-x/internal/domain/model"
	pkgAuth "github.com/zulfalsa/danusan-x/internal/pkg/auth"
	"github.com/zulfalsa/danusan-x/internal/server/http/dto"
)

const (
	// PrincipalContextKey is a gin context key for the authenticated principal.
	PrincipalContextKey = "principal"
	authCookieName      = "danusan_token"
)

// PrincipalResolver turns a bearer token into a principal.
type PrincipalResolver interface {
	Resolve(ctx context.Context, token string) (model.Principal, error)
}

// AuthRequired ensures user is authenticated before accessing handler.
func AuthRequired(resolver PrincipalResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "authentication required"})
			return
		}

		principal, err := resolver.Resolve(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, pkgAuth.ErrInvalidToken) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "invalid auth token"})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal error"})
			return
		}

		c.Set(PrincipalContextKey, principal)
		c.Next()
	}
}

// RequireRole rejects principals without role. It expects AuthRequired to
// run first.
func RequireRole(role model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !Principal(c).Is(role) {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.ErrorResponse{Error: "forbidden"})
			return
		}
		c.Next()
	}
}

// Principal returns the authenticated caller or the anonymous principal.
func Principal(c *gin.Context) model.Principal {
	val, ok := c.Get(PrincipalContextKey)
	if !ok {
		return model.Principal{}
	}
	p, _ := val.(model.Principal)
	return p
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	if cookie, err := c.Cookie(authCookieName); err == nil {
		return cookie
	}
	return ""
}

// SetAuthCookie writes auth token cookie to response.
func SetAuthCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(authCookieName, token, 0, "/", "", false, true)
	c.Header("Authorization", "Bearer "+token)
}
