package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zulfalsa/danusan-x/internal/server/http/dto"
)

const (
	gateCookieName = "danusan_gate"
	// GatePassHeader lets API clients present the gate pass without cookies.
	GatePassHeader = "X-Gate-Pass"
)

// GateChecker validates gate passes.
type GateChecker interface {
	GatePassValid(pass string) bool
}

// GateRequired blocks requests that do not carry a valid gate pass.
func GateRequired(checker GateChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		pass := c.GetHeader(GatePassHeader)
		if pass == "" {
			pass, _ = c.Cookie(gateCookieName)
		}
		if !checker.GatePassValid(pass) {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.ErrorResponse{Error: "gate locked"})
			return
		}
		c.Next()
	}
}

// SetGateCookie stores pass for subsequent staff requests.
func SetGateCookie(c *gin.Context, pass string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(gateCookieName, pass, 0, "/", "", false, true)
}
