package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	domainErrors "github.com/zulfalsa/danusan-x/internal/domain/errors"
	"github.com/zulfalsa/danusan-x/internal/domain/model"
	"github.com/zulfalsa/danusan-x/internal/domain/repository"
)

// FulfillmentUseCase lets sellers close out verified orders.
type FulfillmentUseCase struct {
	store  repository.Store
	cache  repository.TrackingCache
	logger *slog.Logger
}

// NewFulfillmentUseCase constructs FulfillmentUseCase.
func NewFulfillmentUseCase(store repository.Store, cache repository.TrackingCache, logger *slog.Logger) *FulfillmentUseCase {
	return &FulfillmentUseCase{store: store, cache: cache, logger: logger}
}

// Complete moves an order from processing_by_seller to completed. Any other
// current status, including completed itself, yields ErrIllegalTransition.
func (u *FulfillmentUseCase) Complete(ctx context.Context, principal model.Principal, orderID int64) (*model.Order, error) {
	if !principal.Is(model.RoleSeller) {
		return nil, domainErrors.ErrForbidden
	}

	var order *model.Order
	err := u.store.WithinTransaction(ctx, func(ctx context.Context, tx repository.Factory) error {
		var err error
		if order, err = tx.Orders().GetByIDForUpdate(ctx, orderID); err != nil {
			return err
		}
		if err := tx.Orders().UpdateStatus(ctx, order.ID, model.OrderStatusProcessingBySeller, model.OrderStatusCompleted); err != nil {
			return err
		}
		order.Status = model.OrderStatusCompleted
		return nil
	})
	if err != nil {
		if errors.Is(err, domainErrors.ErrIllegalTransition) {
			u.logger.Warn("fulfillment rejected", slog.Int64("order_id", orderID), slog.Any("error", err))
		}
		return nil, err
	}

	invalidate(ctx, u.cache, u.logger, order.TrackingCode)
	u.logger.Info("order completed", slog.Int64("order_id", order.ID), slog.Int64("seller_id", principal.UserID))
	return order, nil
}

// Board lists orders a seller can act on or has finished, newest first.
func (u *FulfillmentUseCase) Board(ctx context.Context, principal model.Principal) ([]model.Order, error) {
	if !principal.Is(model.RoleSeller) {
		return nil, domainErrors.ErrForbidden
	}
	orders, err := u.store.Orders().ListByStatus(ctx, model.OrderStatusProcessingBySeller, model.OrderStatusCompleted)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		items, err := u.store.Orders().ListItems(ctx, orders[i].ID)
		if err != nil {
			return nil, fmt.Errorf("list items of order %d: %w", orders[i].ID, err)
		}
		orders[i].Items = items
	}
	return orders, nil
}
