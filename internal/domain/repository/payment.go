package repository

import (
	"context"
	"time"

	"github.com/zulfalsa/danusan-x/internal/domain/model"
)

// PaymentRepository describes persistence operations with payment proofs.
type PaymentRepository interface {
	// Create returns ErrPaymentExists when the order already has a payment.
	Create(ctx context.Context, orderID int64, proof string) (*model.Payment, error)
	GetByID(ctx context.Context, id int64) (*model.Payment, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*model.Payment, error)
	GetByOrderID(ctx context.Context, orderID int64) (*model.Payment, error)
	ListByStatus(ctx context.Context, status model.PaymentStatus) ([]model.Payment, error)
	// Verify records the decision and returns ErrIllegalTransition unless the
	// payment is awaiting verification.
	Verify(ctx context.Context, id int64, status model.PaymentStatus, adminID int64, notes *string, at time.Time) (*model.Payment, error)
}
