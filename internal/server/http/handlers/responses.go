package handlers

import (
	"github.com/zulfalsa/danusan-x/internal/domain/model"
	"github.com/zulfalsa/danusan-x/internal/server/http/dto"
)

func productResponse(p model.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:          p.ID,
		SellerID:    p.SellerID,
		Name:        p.Name,
		Category:    p.Category,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		Image:       p.Image,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func productResponses(products []model.Product) []dto.ProductResponse {
	resp := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		resp = append(resp, productResponse(p))
	}
	return resp
}

func orderResponse(o *model.Order) dto.OrderResponse {
	resp := dto.OrderResponse{
		ID:           o.ID,
		TrackingCode: o.TrackingCode,
		Buyer: dto.BuyerResponse{
			Name:    o.Buyer.Name,
			Phone:   o.Buyer.Phone,
			Address: o.Buyer.Address,
			Notes:   o.Buyer.Notes,
		},
		TotalPrice: o.TotalPrice,
		Status:     string(o.Status),
		CreatedAt:  o.CreatedAt,
		Items:      make([]dto.OrderItemResponse, 0, len(o.Items)),
	}
	for _, item := range o.Items {
		resp.Items = append(resp.Items, dto.OrderItemResponse{
			ID:              item.ID,
			ProductID:       item.ProductID,
			ProductName:     item.ProductName,
			ProductCategory: item.ProductCategory,
			ProductImage:    item.ProductImage,
			Quantity:        item.Quantity,
			UnitPrice:       item.UnitPrice,
			Subtotal:        item.Subtotal,
		})
	}
	if o.Payment != nil {
		payment := paymentResponse(o.Payment)
		resp.Payment = &payment
	}
	return resp
}

func orderResponses(orders []model.Order) []dto.OrderResponse {
	resp := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		resp = append(resp, orderResponse(&orders[i]))
	}
	return resp
}

// paymentResponse does not follow Order.Payment back, so an order carrying
// its payment and a payment carrying its order never recurse.
func paymentResponse(p *model.Payment) dto.PaymentResponse {
	resp := dto.PaymentResponse{
		ID:         p.ID,
		OrderID:    p.OrderID,
		Proof:      p.Proof,
		Status:     string(p.Status),
		AdminID:    p.AdminID,
		Notes:      p.Notes,
		CreatedAt:  p.CreatedAt,
		VerifiedAt: p.VerifiedAt,
	}
	if p.Order != nil {
		order := *p.Order
		order.Payment = nil
		nested := orderResponse(&order)
		resp.Order = &nested
	}
	return resp
}

func paymentResponses(payments []model.Payment) []dto.PaymentResponse {
	resp := make([]dto.PaymentResponse, 0, len(payments))
	for i := range payments {
		resp = append(resp, paymentResponse(&payments[i]))
	}
	return resp
}
