package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/zulfalsa/danusan-x/internal/domain/model"
	"github.com/zulfalsa/danusan-x/internal/server/http/dto"
	"github.com/zulfalsa/danusan-x/internal/usecase"
)

// OrderHandler serves anonymous buyers: checkout, tracking and proof upload.
type OrderHandler struct {
	facade    OrderFacade
	maxUpload int64
}

// NewOrderHandler creates OrderHandler instance.
func NewOrderHandler(facade OrderFacade, maxUpload int64) *OrderHandler {
	return &OrderHandler{facade: facade, maxUpload: maxUpload}
}

// Checkout handles POST /api/orders. The cart is either the JSON body or the
// "order" field of a multipart form carrying the "proof" file.
func (h *OrderHandler) Checkout(c *gin.Context) {
	var (
		req   dto.CheckoutRequest
		proof *usecase.Upload
	)
	if isMultipart(c) {
		if err := json.Unmarshal([]byte(c.PostForm("order")), &req); err != nil {
			badRequest(c, "invalid order field")
			return
		}
		upload, err := readUpload(c, "proof", h.maxUpload)
		if err != nil {
			badRequest(c, "invalid proof upload")
			return
		}
		proof = upload
	} else if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	in := usecase.CheckoutInput{
		Buyer: model.Buyer{
			Name:    req.Buyer.Name,
			Phone:   req.Buyer.Phone,
			Address: req.Buyer.Address,
			Notes:   req.Buyer.Notes,
		},
		Items: make([]usecase.CartLine, 0, len(req.Items)),
		Proof: proof,
	}
	for _, item := range req.Items {
		in.Items = append(in.Items, usecase.CartLine{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	order, err := h.facade.Checkout(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, orderResponse(order))
}

// Track handles GET /api/orders/track?code=.
func (h *OrderHandler) Track(c *gin.Context) {
	h.lookup(c, c.Query("code"))
}

// Show handles GET /api/orders/:code, the payment page snapshot.
func (h *OrderHandler) Show(c *gin.Context) {
	h.lookup(c, c.Param("code"))
}

func (h *OrderHandler) lookup(c *gin.Context, code string) {
	order, err := h.facade.Track(c.Request.Context(), strings.TrimSpace(code))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderResponse(order))
}

// UploadProof handles POST /api/orders/:code/payment.
func (h *OrderHandler) UploadProof(c *gin.Context) {
	if !isMultipart(c) {
		badRequest(c, "multipart form expected")
		return
	}
	proof, err := readUpload(c, "proof", h.maxUpload)
	if err != nil {
		badRequest(c, "invalid proof upload")
		return
	}

	payment, err := h.facade.UploadProof(c.Request.Context(), c.Param("code"), proof)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, paymentResponse(payment))
}
