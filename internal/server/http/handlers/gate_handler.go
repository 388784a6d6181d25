package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zulfalsa/danusan-x/internal/server/http/dto"
	"github.com/zulfalsa/danusan-x/internal/server/http/middleware"
)

type GateHandler struct {
	facade GateFacade
}

func NewGateHandler(facade GateFacade) *GateHandler {
	return &GateHandler{facade: facade}
}

// Unlock handles POST /api/gate/unlock. The pass is returned in the body
// for API clients and stored in a cookie for browsers.
func (h *GateHandler) Unlock(c *gin.Context) {
	var req dto.GateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	pass, err := h.facade.UnlockGate(req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	middleware.SetGateCookie(c, pass)
	c.JSON(http.StatusOK, dto.TokenResponse{Token: pass})
}
