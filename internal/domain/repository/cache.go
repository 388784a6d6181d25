package repository

import (
	"context"

	"github.com/zulfalsa/danusan-x/internal/domain/model"
)

// TrackingCache stores tracking lookup snapshots by normalized code.
type TrackingCache interface {
	Get(ctx context.Context, code string) (*model.Order, bool, error)
	Set(ctx context.Context, code string, order *model.Order) error
	Invalidate(ctx context.Context, code string) error
}
