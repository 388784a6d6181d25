package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	domainErrors "github.com/zulfalsa/danusan-x/internal/domain/errors"
	"github.com/zulfalsa/danusan-x/internal/domain/model"
	"github.com/zulfalsa/danusan-x/internal/domain/repository"
)

// VerificationUseCase lets admins rule on uploaded payment proofs.
type VerificationUseCase struct {
	store  repository.Store
	cache  repository.TrackingCache
	logger *slog.Logger
	now    func() time.Time
}

// NewVerificationUseCase constructs VerificationUseCase.
func NewVerificationUseCase(store repository.Store, cache repository.TrackingCache, logger *slog.Logger) *VerificationUseCase {
	return &VerificationUseCase{
		store:  store,
		cache:  cache,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Verify records decision on a pending payment and moves its order to
// processing_by_seller (valid) or cancelled (invalid) in the same
// transaction. A payment that was already ruled on is rejected with
// ErrIllegalTransition and nothing changes.
func (u *VerificationUseCase) Verify(ctx context.Context, principal model.Principal, paymentID int64, decision model.PaymentStatus, notes string) (*model.Payment, error) {
	if !principal.Is(model.RoleAdmin) {
		return nil, domainErrors.ErrForbidden
	}

	verr := domainErrors.NewValidationError()
	next, ok := decision.OrderStatus()
	if !ok {
		verr.Add("status", "must be valid or invalid")
	}
	notes = checkText(verr, "notes", notes, maxVerifyNotesLen, false)
	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	var notesPtr *string
	if notes != "" {
		notesPtr = &notes
	}

	var (
		payment *model.Payment
		order   *model.Order
	)
	err := u.store.WithinTransaction(ctx, func(ctx context.Context, tx repository.Factory) error {
		current, err := tx.Payments().GetByIDForUpdate(ctx, paymentID)
		if err != nil {
			return err
		}
		if current.Status != model.PaymentStatusAwaitingVerification {
			return fmt.Errorf("payment %d is %s: %w", current.ID, current.Status, domainErrors.ErrIllegalTransition)
		}
		if order, err = tx.Orders().GetByIDForUpdate(ctx, current.OrderID); err != nil {
			return fmt.Errorf("load order %d: %w", current.OrderID, err)
		}

		if payment, err = tx.Payments().Verify(ctx, current.ID, decision, principal.UserID, notesPtr, u.now()); err != nil {
			return err
		}
		if err := tx.Orders().UpdateStatus(ctx, order.ID, model.OrderStatusAwaitingVerification, next); err != nil {
			return fmt.Errorf("cascade order %d: %w", order.ID, err)
		}
		order.Status = next
		return nil
	})
	if err != nil {
		if errors.Is(err, domainErrors.ErrIllegalTransition) {
			u.logger.Warn("verification rejected", slog.Int64("payment_id", paymentID), slog.Any("error", err))
		}
		return nil, err
	}

	invalidate(ctx, u.cache, u.logger, order.TrackingCode)
	u.logger.Info("payment verified",
		slog.Int64("payment_id", payment.ID),
		slog.Int64("order_id", order.ID),
		slog.String("decision", string(decision)),
		slog.Int64("admin_id", principal.UserID),
	)
	payment.Order = order
	return payment, nil
}

// ListPending returns payments waiting for a decision, oldest first, each
// with its order and items.
func (u *VerificationUseCase) ListPending(ctx context.Context, principal model.Principal) ([]model.Payment, error) {
	if !principal.Is(model.RoleAdmin) {
		return nil, domainErrors.ErrForbidden
	}
	payments, err := u.store.Payments().ListByStatus(ctx, model.PaymentStatusAwaitingVerification)
	if err != nil {
		return nil, err
	}
	for i := range payments {
		if payments[i].Order == nil {
			continue
		}
		items, err := u.store.Orders().ListItems(ctx, payments[i].OrderID)
		if err != nil {
			return nil, fmt.Errorf("list items of order %d: %w", payments[i].OrderID, err)
		}
		payments[i].Order.Items = items
	}
	return payments, nil
}

// invalidate drops the cached tracking snapshot. Failures only cost
// staleness up to the cache TTL, so they are logged.
func invalidate(ctx context.Context, cache repository.TrackingCache, logger *slog.Logger, code string) {
	if err := cache.Invalidate(context.WithoutCancel(ctx), code); err != nil {
		logger.Error("invalidate tracking cache", slog.String("tracking_code", code), slog.Any("error", err))
	}
}
