package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/zulfalsa/danusan-x/internal/config"
	domainErrors "github.com/zulfalsa/danusan-x/internal/domain/errors"
	"github.com/zulfalsa/danusan-x/internal/domain/model"
	"github.com/zulfalsa/danusan-x/internal/domain/repository"
)

// maxCodeAttempts bounds tracking code regeneration on collision.
const maxCodeAttempts = 5

// CodeGenerator produces candidate tracking codes.
type CodeGenerator interface {
	Generate() (string, error)
}

// Policy holds the upload rules shared by checkout, proof upload and catalog.
type Policy struct {
	RequireProof   bool
	MaxUploadBytes int64
}

// NewPolicy reads upload rules from configuration.
func NewPolicy(cfg *config.Config) Policy {
	return Policy{RequireProof: cfg.RequirePaymentProof, MaxUploadBytes: cfg.MaxUploadBytes}
}

// CheckoutInput is a submitted cart with buyer details.
type CheckoutInput struct {
	Buyer model.Buyer
	Items []CartLine
	Proof *Upload
}

// CheckoutUseCase turns a cart into an order.
type CheckoutUseCase struct {
	store  repository.Store
	blobs  repository.BlobStore
	codes  CodeGenerator
	policy Policy
	logger *slog.Logger
}

// NewCheckoutUseCase constructs CheckoutUseCase.
func NewCheckoutUseCase(store repository.Store, blobs repository.BlobStore, codes CodeGenerator, policy Policy, logger *slog.Logger) *CheckoutUseCase {
	return &CheckoutUseCase{store: store, blobs: blobs, codes: codes, policy: policy, logger: logger}
}

// Checkout validates the cart, reserves stock for every line and persists
// the order with its items and optional payment proof. Either all of it is
// stored or none of it is.
func (u *CheckoutUseCase) Checkout(ctx context.Context, in CheckoutInput) (*model.Order, error) {
	verr := domainErrors.NewValidationError()
	buyer := validateBuyer(verr, in.Buyer)
	lines := mergeCart(verr, in.Items)

	var proofType string
	switch {
	case in.Proof != nil:
		proofType = checkImage(verr, "proof", in.Proof, u.policy.MaxUploadBytes)
	case u.policy.RequireProof && verr.Empty():
		return nil, domainErrors.ErrProofRequired
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	if err := u.checkProducts(ctx, lines); err != nil {
		return nil, err
	}

	var proofRef string
	if in.Proof != nil {
		ref, err := u.blobs.Put(ctx, in.Proof.Data, proofType)
		if err != nil {
			u.logger.Error("store payment proof", slog.Any("error", err))
			return nil, fmt.Errorf("store payment proof: %w", err)
		}
		proofRef = ref
	}

	order := &model.Order{Buyer: buyer, Status: model.OrderStatusAwaitingVerification}
	err := u.store.WithinTransaction(ctx, func(ctx context.Context, tx repository.Factory) error {
		items, err := reserveLines(ctx, tx, lines)
		if err != nil {
			return err
		}
		order.TotalPrice = 0
		for _, item := range items {
			order.TotalPrice += item.Subtotal
		}

		if err := u.insertOrder(ctx, tx, order); err != nil {
			return err
		}
		if order.Items, err = tx.Orders().AddItems(ctx, order.ID, items); err != nil {
			return fmt.Errorf("add order items: %w", err)
		}
		if proofRef != "" {
			if order.Payment, err = tx.Payments().Create(ctx, order.ID, proofRef); err != nil {
				return fmt.Errorf("create payment: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		if proofRef != "" {
			if derr := u.blobs.Delete(context.WithoutCancel(ctx), proofRef); derr != nil {
				u.logger.Error("delete orphaned payment proof", slog.String("ref", proofRef), slog.Any("error", derr))
			}
		}
		if errors.Is(err, domainErrors.ErrInsufficientStock) {
			u.logger.Warn("checkout rejected", slog.Any("error", err))
		}
		return nil, err
	}

	u.logger.Info("order created",
		slog.Int64("order_id", order.ID),
		slog.String("tracking_code", order.TrackingCode),
		slog.Int64("total_price", order.TotalPrice),
	)
	return order, nil
}

// checkProducts rejects lines naming unknown products before anything is
// written.
func (u *CheckoutUseCase) checkProducts(ctx context.Context, lines []cartLine) error {
	verr := domainErrors.NewValidationError()
	for _, line := range lines {
		if _, err := u.store.Products().GetByID(ctx, line.ProductID); err != nil {
			if errors.Is(err, domainErrors.ErrNotFound) {
				verr.Add(fmt.Sprintf("items[%d].product_id", line.index), "product does not exist")
				continue
			}
			return fmt.Errorf("load product %d: %w", line.ProductID, err)
		}
	}
	return verr.OrNil()
}

// reserveLines decrements stock for every line and snapshots the price.
// Stock is reserved before the price is read so the row is already held by
// the transaction.
func reserveLines(ctx context.Context, tx repository.Factory, lines []cartLine) ([]model.OrderItem, error) {
	items := make([]model.OrderItem, 0, len(lines))
	for _, line := range lines {
		if err := tx.Inventory().Reserve(ctx, line.ProductID, line.Quantity); err != nil {
			if errors.Is(err, domainErrors.ErrNotFound) {
				verr := domainErrors.NewValidationError()
				verr.Add(fmt.Sprintf("items[%d].product_id", line.index), "product does not exist")
				return nil, verr
			}
			return nil, err
		}
		product, err := tx.Products().GetByID(ctx, line.ProductID)
		if err != nil {
			return nil, fmt.Errorf("load product %d: %w", line.ProductID, err)
		}
		items = append(items, model.OrderItem{
			ProductID:       product.ID,
			Quantity:        line.Quantity,
			UnitPrice:       product.Price,
			Subtotal:        product.Price * int64(line.Quantity),
			ProductName:     product.Name,
			ProductCategory: product.Category,
			ProductImage:    product.Image,
		})
	}
	return items, nil
}

func (u *CheckoutUseCase) insertOrder(ctx context.Context, tx repository.Factory, order *model.Order) error {
	for attempt := 1; attempt <= maxCodeAttempts; attempt++ {
		code, err := u.codes.Generate()
		if err != nil {
			return fmt.Errorf("generate tracking code: %w", err)
		}
		order.TrackingCode = code
		created, err := tx.Orders().Create(ctx, order)
		if err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		if created {
			return nil
		}
		u.logger.Warn("tracking code collision", slog.Int("attempt", attempt))
	}
	return domainErrors.ErrTrackingCodeExhausted
}
