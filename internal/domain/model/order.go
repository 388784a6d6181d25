package model

import "time"

// OrderStatus describes order lifecycle.
type OrderStatus string

const (
	OrderStatusAwaitingVerification OrderStatus = "awaiting_verification"
	OrderStatusProcessingBySeller   OrderStatus = "processing_by_seller"
	OrderStatusCompleted            OrderStatus = "completed"
	OrderStatusCancelled            OrderStatus = "cancelled"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusAwaitingVerification: {OrderStatusProcessingBySeller, OrderStatusCancelled},
	OrderStatusProcessingBySeller:   {OrderStatusCompleted},
}

// Valid reports whether status is one of the known order states.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusAwaitingVerification, OrderStatusProcessingBySeller, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether the order may move from s to next.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transitions are possible.
func (s OrderStatus) Terminal() bool {
	return len(orderTransitions[s]) == 0
}

// Buyer holds contact details supplied at checkout.
type Buyer struct {
	Name    string
	Phone   string
	Address string
	Notes   string
}

// Order is the aggregate root of a checkout. Items and Payment are loaded
// on read and are nil/empty when the caller did not ask for them.
type Order struct {
	ID           int64
	TrackingCode string
	Buyer        Buyer
	TotalPrice   int64
	Status       OrderStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Items   []OrderItem
	Payment *Payment
}

// OrderItem is a purchased line with the unit price captured at checkout.
type OrderItem struct {
	ID        int64
	OrderID   int64
	ProductID int64
	Quantity  int
	UnitPrice int64
	Subtotal  int64

	// Display fields joined from the current catalog row.
	ProductName     string
	ProductCategory string
	ProductImage    string
}
