package handlers

import (
	"context"

	"github.com/zulfalsa/danusan-x/internal/domain/model"
	"github.com/zulfalsa/danusan-x/internal/server/http/middleware"
	"github.com/zulfalsa/danusan-x/internal/usecase"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	Register(ctx context.Context, login, password string, role model.Role) (string, error)
	Authenticate(ctx context.Context, login, password string) (string, error)
}

// GateFacade unlocks staff pages.
type GateFacade interface {
	UnlockGate(password string) (string, error)
}

// CatalogFacade exposes the product catalog.
type CatalogFacade interface {
	Products(ctx context.Context) ([]model.Product, error)
	Product(ctx context.Context, id int64) (*model.Product, error)
}

// OrderFacade encapsulates buyer facing order operations.
type OrderFacade interface {
	Checkout(ctx context.Context, in usecase.CheckoutInput) (*model.Order, error)
	Track(ctx context.Context, code string) (*model.Order, error)
	UploadProof(ctx context.Context, code string, proof *usecase.Upload) (*model.Payment, error)
}

// SellerFacade covers product management and the fulfillment board.
type SellerFacade interface {
	SellerProducts(ctx context.Context, principal model.Principal) ([]model.Product, error)
	CreateProduct(ctx context.Context, principal model.Principal, in usecase.ProductInput) (*model.Product, error)
	UpdateProduct(ctx context.Context, principal model.Principal, id int64, in usecase.ProductInput) (*model.Product, error)
	DeleteProduct(ctx context.Context, principal model.Principal, id int64) error
	SellerOrders(ctx context.Context, principal model.Principal) ([]model.Order, error)
	CompleteOrder(ctx context.Context, principal model.Principal, orderID int64) (*model.Order, error)
}

// AdminFacade covers payment verification.
type AdminFacade interface {
	PendingPayments(ctx context.Context, principal model.Principal) ([]model.Payment, error)
	VerifyPayment(ctx context.Context, principal model.Principal, paymentID int64, decision model.PaymentStatus, notes string) (*model.Payment, error)
}

// HealthFacade reports storage availability.
type HealthFacade interface {
	Health(ctx context.Context) error
}

// StorefrontFacade aggregates the full set of operations used across handlers.
type StorefrontFacade interface {
	middleware.PrincipalResolver
	middleware.GateChecker
	AuthFacade
	GateFacade
	CatalogFacade
	OrderFacade
	SellerFacade
	AdminFacade
	HealthFacade
}
