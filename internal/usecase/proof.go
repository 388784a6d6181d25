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

// ProofUseCase attaches a payment proof to an order placed without one.
type ProofUseCase struct {
	store  repository.Store
	blobs  repository.BlobStore
	cache  repository.TrackingCache
	policy Policy
	logger *slog.Logger
}

// NewProofUseCase constructs ProofUseCase.
func NewProofUseCase(store repository.Store, blobs repository.BlobStore, cache repository.TrackingCache, policy Policy, logger *slog.Logger) *ProofUseCase {
	return &ProofUseCase{store: store, blobs: blobs, cache: cache, policy: policy, logger: logger}
}

// Upload stores proof for the order owning code. The order must still be
// awaiting verification and must not have a payment yet; a concurrent
// second upload loses with ErrPaymentExists.
func (u *ProofUseCase) Upload(ctx context.Context, code string, proof *Upload) (*model.Payment, error) {
	code = trackcode.Normalize(code)
	if code == "" {
		return nil, domainErrors.ErrNotFound
	}
	if proof == nil {
		return nil, domainErrors.ErrProofRequired
	}
	verr := domainErrors.NewValidationError()
	contentType := checkImage(verr, "proof", proof, u.policy.MaxUploadBytes)
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	order, err := u.store.Orders().GetByTrackingCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if err := acceptsProof(ctx, u.store, order); err != nil {
		return nil, err
	}

	ref, err := u.blobs.Put(ctx, proof.Data, contentType)
	if err != nil {
		u.logger.Error("store payment proof", slog.Int64("order_id", order.ID), slog.Any("error", err))
		return nil, fmt.Errorf("store payment proof: %w", err)
	}

	var payment *model.Payment
	err = u.store.WithinTransaction(ctx, func(ctx context.Context, tx repository.Factory) error {
		locked, err := tx.Orders().GetByIDForUpdate(ctx, order.ID)
		if err != nil {
			return err
		}
		if locked.Status != model.OrderStatusAwaitingVerification {
			return fmt.Errorf("order %d is %s: %w", locked.ID, locked.Status, domainErrors.ErrIllegalTransition)
		}
		payment, err = tx.Payments().Create(ctx, locked.ID, ref)
		return err
	})
	if err != nil {
		if derr := u.blobs.Delete(context.WithoutCancel(ctx), ref); derr != nil {
			u.logger.Error("delete orphaned payment proof", slog.String("ref", ref), slog.Any("error", derr))
		}
		return nil, err
	}

	invalidate(ctx, u.cache, u.logger, order.TrackingCode)
	u.logger.Info("payment proof uploaded", slog.Int64("order_id", order.ID), slog.Int64("payment_id", payment.ID))
	return payment, nil
}

// acceptsProof rejects orders that cannot take a proof before any blob is
// written.
func acceptsProof(ctx context.Context, repos repository.Factory, order *model.Order) error {
	if order.Status != model.OrderStatusAwaitingVerification {
		return fmt.Errorf("order %d is %s: %w", order.ID, order.Status, domainErrors.ErrIllegalTransition)
	}
	_, err := repos.Payments().GetByOrderID(ctx, order.ID)
	switch {
	case err == nil:
		return domainErrors.ErrPaymentExists
	case errors.Is(err, domainErrors.ErrNotFound):
		return nil
	default:
		return fmt.Errorf("load payment of order %d: %w", order.ID, err)
	}
}
