package dto

import "time"

type BuyerRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
}

type CartItemRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// CheckoutRequest is the JSON cart. In multipart requests it travels in the
// "order" form field next to the "proof" file.
type CheckoutRequest struct {
	Buyer BuyerRequest      `json:"buyer"`
	Items []CartItemRequest `json:"items"`
}

type BuyerResponse struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Notes   string `json:"notes,omitempty"`
}

type OrderItemResponse struct {
	ID              int64  `json:"id"`
	ProductID       int64  `json:"product_id"`
	ProductName     string `json:"product_name,omitempty"`
	ProductCategory string `json:"product_category,omitempty"`
	ProductImage    string `json:"product_image,omitempty"`
	Quantity        int    `json:"quantity"`
	UnitPrice       int64  `json:"unit_price"`
	Subtotal        int64  `json:"subtotal"`
}

// OrderResponse is the order snapshot shown to buyers, sellers and admins.
type OrderResponse struct {
	ID           int64               `json:"id"`
	TrackingCode string              `json:"tracking_code"`
	Buyer        BuyerResponse       `json:"buyer"`
	TotalPrice   int64               `json:"total_price"`
	Status       string              `json:"status"`
	CreatedAt    time.Time           `json:"created_at"`
	Items        []OrderItemResponse `json:"items"`
	Payment      *PaymentResponse    `json:"payment,omitempty"`
}
