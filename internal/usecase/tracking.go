package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	domainErrors "github.com/zulfalsa/danusan-x/internal/domain/errors"
	"github.com/zulfalsa/danusan-x/internal/domain/model"
	"github.com/zulfalsa/danusan-x/internal/domain/repository"
	"github.com/zulfalsa/danusan-x/internal/pkg/trackcode"
)

// TrackingUseCase answers anonymous order lookups by tracking code.
type TrackingUseCase struct {
	store  repository.Store
	cache  repository.TrackingCache
	logger *slog.Logger
}

// NewTrackingUseCase constructs TrackingUseCase.
func NewTrackingUseCase(store repository.Store, cache repository.TrackingCache, logger *slog.Logger) *TrackingUseCase {
	return &TrackingUseCase{store: store, cache: cache, logger: logger}
}

// Lookup returns the order owning code with its items and payment. The code
// is matched ignoring case and surrounding whitespace.
func (u *TrackingUseCase) Lookup(ctx context.Context, code string) (*model.Order, error) {
	code = trackcode.Normalize(code)
	if code == "" {
		return nil, domainErrors.ErrNotFound
	}

	cached, ok, err := u.cache.Get(ctx, code)
	switch {
	case err != nil:
		u.logger.Warn("read tracking cache", slog.String("tracking_code", code), slog.Any("error", err))
	case ok:
		return cached, nil
	}

	order, err := u.store.Orders().GetByTrackingCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if err := loadSnapshot(ctx, u.store, order); err != nil {
		return nil, err
	}

	if err := u.cache.Set(ctx, code, order); err != nil {
		u.logger.Warn("write tracking cache", slog.String("tracking_code", code), slog.Any("error", err))
	}
	return order, nil
}

// loadSnapshot fills the items and payment of order.
func loadSnapshot(ctx context.Context, repos repository.Factory, order *model.Order) error {
	items, err := repos.Orders().ListItems(ctx, order.ID)
	if err != nil {
		return fmt.Errorf("list items of order %d: %w", order.ID, err)
	}
	order.Items = items

	payment, err := repos.Payments().GetByOrderID(ctx, order.ID)
	switch {
	case errors.Is(err, domainErrors.ErrNotFound):
		order.Payment = nil
	case err != nil:
		return fmt.Errorf("load payment of order %d: %w", order.ID, err)
	default:
		order.Payment = payment
	}
	return nil
}
