package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zulfalsa/danusan-x/internal/domain/model"
	"github.com/zulfalsa/danusan-x/internal/server/http/dto"
	"github.com/zulfalsa/danusan-x/internal/server/http/middleware"
)

// AdminHandler serves the payment verification queue.
type AdminHandler struct {
	facade AdminFacade
}

func NewAdminHandler(facade AdminFacade) *AdminHandler {
	return &AdminHandler{facade: facade}
}

// Pending handles GET /api/admin/payments.
func (h *AdminHandler) Pending(c *gin.Context) {
	payments, err := h.facade.PendingPayments(c.Request.Context(), middleware.Principal(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, paymentResponses(payments))
}

// Verify handles POST /api/admin/payments/:id/verify.
func (h *AdminHandler) Verify(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	payment, err := h.facade.VerifyPayment(c.Request.Context(), middleware.Principal(c), id, model.PaymentStatus(req.Status), req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, paymentResponse(payment))
}
