package model

import "time"

// PaymentStatus describes review state of an uploaded payment proof.
type PaymentStatus string

const (
	PaymentStatusAwaitingVerification PaymentStatus = "awaiting_verification"
	PaymentStatusValid                PaymentStatus = "valid"
	PaymentStatusInvalid              PaymentStatus = "invalid"
)

// Decision reports whether status is a verdict an admin may hand down.
func (s PaymentStatus) Decision() bool {
	return s == PaymentStatusValid || s == PaymentStatusInvalid
}

// OrderStatus returns the order status a verdict cascades to.
func (s PaymentStatus) OrderStatus() (OrderStatus, bool) {
	switch s {
	case PaymentStatusValid:
		return OrderStatusProcessingBySeller, true
	case PaymentStatusInvalid:
		return OrderStatusCancelled, true
	}
	return "", false
}

// Payment is the manual proof of transfer attached to an order.
type Payment struct {
	ID         int64
	OrderID    int64
	AdminID    *int64
	Proof      string
	Status     PaymentStatus
	Notes      *string
	CreatedAt  time.Time
	VerifiedAt *time.Time

	// Order is populated by listings that need the buyer context.
	Order *Order
}
