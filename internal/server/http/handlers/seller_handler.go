package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zulfalsa/danusan-x/internal/server/http/middleware"
)

// SellerHandler serves the fulfillment board.
type SellerHandler struct {
	facade SellerFacade
}

func NewSellerHandler(facade SellerFacade) *SellerHandler {
	return &SellerHandler{facade: facade}
}

// Orders handles GET /api/seller/orders.
func (h *SellerHandler) Orders(c *gin.Context) {
	orders, err := h.facade.SellerOrders(c.Request.Context(), middleware.Principal(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderResponses(orders))
}

// Complete handles POST /api/seller/orders/:id/complete.
func (h *SellerHandler) Complete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	order, err := h.facade.CompleteOrder(c.Request.Context(), middleware.Principal(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderResponse(order))
}
