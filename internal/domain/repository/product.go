package repository

import (
	"context"

	"github.com/zulfalsa/danusan-x/internal/domain/model"
)

// ProductRepository is the catalog collaborator.
type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) (*model.Product, error)
	Update(ctx context.Context, p *model.Product) (*model.Product, error)
	// Delete returns ErrProductInUse when order items reference the product.
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*model.Product, error)
	List(ctx context.Context) ([]model.Product, error)
	ListBySeller(ctx context.Context, sellerID int64) ([]model.Product, error)
}

// InventoryLedger owns stock counters.
type InventoryLedger interface {
	// Reserve decrements stock by quantity in one conditional step. It
	// returns *InsufficientStockError when stock is lower than quantity and
	// ErrNotFound for an unknown product.
	Reserve(ctx context.Context, productID int64, quantity int) error
}
