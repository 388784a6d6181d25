package dto

import "time"

type PaymentResponse struct {
	ID         int64          `json:"id"`
	OrderID    int64          `json:"order_id"`
	Proof      string         `json:"proof"`
	Status     string         `json:"status"`
	AdminID    *int64         `json:"admin_id,omitempty"`
	Notes      *string        `json:"notes,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	VerifiedAt *time.Time     `json:"verified_at,omitempty"`
	Order      *OrderResponse `json:"order,omitempty"`
}

// VerifyRequest is the admin decision on a payment proof.
type VerifyRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}
