package usecase

import (
	"context"
	"fmt"
	"log/slog"

	domainErrors "github.com/zulfalsa/danusan-x/internal/domain/errors"
	"github.com/zulfalsa/danusan-x/internal/domain/model"
	"github.com/zulfalsa/danusan-x/internal/domain/repository"
)

// ProductInput carries seller supplied product fields. A nil Image keeps
// the current image on update.
type ProductInput struct {
	Name        string
	Category    string
	Description string
	Price       int64
	Stock       int
	Image       *Upload
}

// CatalogUseCase serves the public catalog and seller product management.
type CatalogUseCase struct {
	store  repository.Store
	blobs  repository.BlobStore
	policy Policy
	logger *slog.Logger
}

// NewCatalogUseCase constructs CatalogUseCase.
func NewCatalogUseCase(store repository.Store, blobs repository.BlobStore, policy Policy, logger *slog.Logger) *CatalogUseCase {
	return &CatalogUseCase{store: store, blobs: blobs, policy: policy, logger: logger}
}

// List returns every product, newest first.
func (u *CatalogUseCase) List(ctx context.Context) ([]model.Product, error) {
	return u.store.Products().List(ctx)
}

// Get returns a single product.
func (u *CatalogUseCase) Get(ctx context.Context, id int64) (*model.Product, error) {
	return u.store.Products().GetByID(ctx, id)
}

// ListOwn returns the products of the calling seller.
func (u *CatalogUseCase) ListOwn(ctx context.Context, principal model.Principal) ([]model.Product, error) {
	if !principal.Is(model.RoleSeller) {
		return nil, domainErrors.ErrForbidden
	}
	return u.store.Products().ListBySeller(ctx, principal.UserID)
}

func (u *CatalogUseCase) Create(ctx context.Context, principal model.Principal, in ProductInput) (*model.Product, error) {
	if !principal.Is(model.RoleSeller) {
		return nil, domainErrors.ErrForbidden
	}
	in, contentType, err := u.validate(in)
	if err != nil {
		return nil, err
	}

	product := &model.Product{
		SellerID:    principal.UserID,
		Name:        in.Name,
		Category:    in.Category,
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
	}
	if in.Image != nil {
		if product.Image, err = u.blobs.Put(ctx, in.Image.Data, contentType); err != nil {
			return nil, fmt.Errorf("store product image: %w", err)
		}
	}

	created, err := u.store.Products().Create(ctx, product)
	if err != nil {
		u.discard(ctx, product.Image)
		return nil, err
	}
	u.logger.Info("product created", slog.Int64("product_id", created.ID), slog.Int64("seller_id", principal.UserID))
	return created, nil
}

// Update replaces the fields of a product owned by the caller. A replaced
// image is removed from the blob store once the row is updated.
func (u *CatalogUseCase) Update(ctx context.Context, principal model.Principal, id int64, in ProductInput) (*model.Product, error) {
	if !principal.Is(model.RoleSeller) {
		return nil, domainErrors.ErrForbidden
	}
	in, contentType, err := u.validate(in)
	if err != nil {
		return nil, err
	}
	current, err := u.owned(ctx, u.store, principal, id)
	if err != nil {
		return nil, err
	}

	var newImage string
	if in.Image != nil {
		if newImage, err = u.blobs.Put(ctx, in.Image.Data, contentType); err != nil {
			return nil, fmt.Errorf("store product image: %w", err)
		}
	}

	var (
		updated  *model.Product
		oldImage string
	)
	err = u.store.WithinTransaction(ctx, func(ctx context.Context, tx repository.Factory) error {
		current, err := u.owned(ctx, tx, principal, current.ID)
		if err != nil {
			return err
		}
		next := *current
		next.Name, next.Category, next.Description = in.Name, in.Category, in.Description
		next.Price, next.Stock = in.Price, in.Stock
		if newImage != "" {
			next.Image = newImage
			oldImage = current.Image
		}
		updated, err = tx.Products().Update(ctx, &next)
		return err
	})
	if err != nil {
		u.discard(ctx, newImage)
		return nil, err
	}
	u.discard(ctx, oldImage)
	return updated, nil
}

// Delete removes a product owned by the caller together with its image.
// Products referenced by orders are kept and ErrProductInUse is returned.
func (u *CatalogUseCase) Delete(ctx context.Context, principal model.Principal, id int64) error {
	if !principal.Is(model.RoleSeller) {
		return domainErrors.ErrForbidden
	}
	var image string
	err := u.store.WithinTransaction(ctx, func(ctx context.Context, tx repository.Factory) error {
		current, err := u.owned(ctx, tx, principal, id)
		if err != nil {
			return err
		}
		image = current.Image
		return tx.Products().Delete(ctx, current.ID)
	})
	if err != nil {
		return err
	}
	u.discard(ctx, image)
	u.logger.Info("product deleted", slog.Int64("product_id", id), slog.Int64("seller_id", principal.UserID))
	return nil
}

func (u *CatalogUseCase) validate(in ProductInput) (ProductInput, string, error) {
	verr := domainErrors.NewValidationError()
	in = validateProduct(verr, in)
	var contentType string
	if in.Image != nil {
		contentType = checkImage(verr, "image", in.Image, u.policy.MaxUploadBytes)
	}
	return in, contentType, verr.OrNil()
}

func (u *CatalogUseCase) owned(ctx context.Context, repos repository.Factory, principal model.Principal, id int64) (*model.Product, error) {
	product, err := repos.Products().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product.SellerID != principal.UserID {
		return nil, domainErrors.ErrForbidden
	}
	return product, nil
}

func (u *CatalogUseCase) discard(ctx context.Context, ref string) {
	if ref == "" {
		return
	}
	if err := u.blobs.Delete(context.WithoutCancel(ctx), ref); err != nil {
		u.logger.Error("delete product image", slog.String("ref", ref), slog.Any("error", err))
	}
}
