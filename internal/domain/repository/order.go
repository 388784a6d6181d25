package repository

import (
	"context"

	"github.com/zulfalsa/danusan-x/internal/domain/model"
)

// OrderRepository describes persistence operations with orders.
type OrderRepository interface {
	// Create inserts the order header. created is false when the tracking
	// code already belongs to another order; nothing is written then.
	Create(ctx context.Context, order *model.Order) (created bool, err error)
	AddItems(ctx context.Context, orderID int64, items []model.OrderItem) ([]model.OrderItem, error)
	GetByID(ctx context.Context, id int64) (*model.Order, error)
	// GetByIDForUpdate locks the order row for the enclosing transaction.
	GetByIDForUpdate(ctx context.Context, id int64) (*model.Order, error)
	// GetByTrackingCode expects an already normalized code.
	GetByTrackingCode(ctx context.Context, code string) (*model.Order, error)
	ListItems(ctx context.Context, orderID int64) ([]model.OrderItem, error)
	ListByStatus(ctx context.Context, statuses ...model.OrderStatus) ([]model.Order, error)
	// UpdateStatus moves the order from one status to another and returns
	// ErrIllegalTransition when the row is not currently in from.
	UpdateStatus(ctx context.Context, orderID int64, from, to model.OrderStatus) error
}
