package app

import (
	"context"

	"go.uber.org/fx"

	"github.com/zulfalsa/danusan-x/internal/domain/model"
	"github.com/zulfalsa/danusan-x/internal/domain/repository"
	"github.com/zulfalsa/danusan-x/internal/metrics"
	pkgAuth "github.com/zulfalsa/danusan-x/internal/pkg/auth"
	"github.com/zulfalsa/danusan-x/internal/usecase"
)

// FacadeParams lists the collaborators of StorefrontFacade.
type FacadeParams struct {
	fx.In

	Store        repository.Store
	Auth         *usecase.AuthUseCase
	Catalog      *usecase.CatalogUseCase
	Checkout     *usecase.CheckoutUseCase
	Proofs       *usecase.ProofUseCase
	Verification *usecase.VerificationUseCase
	Fulfillment  *usecase.FulfillmentUseCase
	Tracking     *usecase.TrackingUseCase
	Gate         *pkgAuth.Gate
	Metrics      *metrics.Recorder
}

// StorefrontFacade is the single entry point the HTTP layer talks to. It
// records workflow outcomes as metrics.
type StorefrontFacade struct {
	store        repository.Store
	auth         *usecase.AuthUseCase
	catalog      *usecase.CatalogUseCase
	checkout     *usecase.CheckoutUseCase
	proofs       *usecase.ProofUseCase
	verification *usecase.VerificationUseCase
	fulfillment  *usecase.FulfillmentUseCase
	tracking     *usecase.TrackingUseCase
	gate         *pkgAuth.Gate
	metrics      *metrics.Recorder
}

func NewStorefrontFacade(p FacadeParams) *StorefrontFacade {
	return &StorefrontFacade{
		store:        p.Store,
		auth:         p.Auth,
		catalog:      p.Catalog,
		checkout:     p.Checkout,
		proofs:       p.Proofs,
		verification: p.Verification,
		fulfillment:  p.Fulfillment,
		tracking:     p.Tracking,
		gate:         p.Gate,
		metrics:      p.Metrics,
	}
}

func (f *StorefrontFacade) Register(ctx context.Context, login, password string, role model.Role) (string, error) {
	_, token, err := f.auth.Register(ctx, login, password, role)
	return token, err
}

func (f *StorefrontFacade) Authenticate(ctx context.Context, login, password string) (string, error) {
	_, token, err := f.auth.Authenticate(ctx, login, password)
	return token, err
}

func (f *StorefrontFacade) Resolve(ctx context.Context, token string) (model.Principal, error) {
	return f.auth.Resolve(ctx, token)
}

func (f *StorefrontFacade) UnlockGate(password string) (string, error) {
	return f.gate.Unlock(password)
}

func (f *StorefrontFacade) GatePassValid(pass string) bool {
	return f.gate.Valid(pass)
}

func (f *StorefrontFacade) Products(ctx context.Context) ([]model.Product, error) {
	return f.catalog.List(ctx)
}

func (f *StorefrontFacade) Product(ctx context.Context, id int64) (*model.Product, error) {
	return f.catalog.Get(ctx, id)
}

func (f *StorefrontFacade) SellerProducts(ctx context.Context, principal model.Principal) ([]model.Product, error) {
	return f.catalog.ListOwn(ctx, principal)
}

func (f *StorefrontFacade) CreateProduct(ctx context.Context, principal model.Principal, in usecase.ProductInput) (*model.Product, error) {
	return f.catalog.Create(ctx, principal, in)
}

func (f *StorefrontFacade) UpdateProduct(ctx context.Context, principal model.Principal, id int64, in usecase.ProductInput) (*model.Product, error) {
	return f.catalog.Update(ctx, principal, id, in)
}

func (f *StorefrontFacade) DeleteProduct(ctx context.Context, principal model.Principal, id int64) error {
	return f.catalog.Delete(ctx, principal, id)
}

func (f *StorefrontFacade) Checkout(ctx context.Context, in usecase.CheckoutInput) (*model.Order, error) {
	order, err := f.checkout.Checkout(ctx, in)
	f.metrics.ObserveCheckout(err)
	return order, err
}

func (f *StorefrontFacade) Track(ctx context.Context, code string) (*model.Order, error) {
	order, err := f.tracking.Lookup(ctx, code)
	f.metrics.ObserveTrackingLookup(err)
	return order, err
}

func (f *StorefrontFacade) UploadProof(ctx context.Context, code string, proof *usecase.Upload) (*model.Payment, error) {
	return f.proofs.Upload(ctx, code, proof)
}

func (f *StorefrontFacade) PendingPayments(ctx context.Context, principal model.Principal) ([]model.Payment, error) {
	return f.verification.ListPending(ctx, principal)
}

func (f *StorefrontFacade) VerifyPayment(ctx context.Context, principal model.Principal, paymentID int64, decision model.PaymentStatus, notes string) (*model.Payment, error) {
	payment, err := f.verification.Verify(ctx, principal, paymentID, decision, notes)
	f.metrics.ObserveVerification(string(decision), err)
	return payment, err
}

func (f *StorefrontFacade) SellerOrders(ctx context.Context, principal model.Principal) ([]model.Order, error) {
	return f.fulfillment.Board(ctx, principal)
}

func (f *StorefrontFacade) CompleteOrder(ctx context.Context, principal model.Principal, orderID int64) (*model.Order, error) {
	order, err := f.fulfillment.Complete(ctx, principal, orderID)
	f.metrics.ObserveFulfillment(err)
	return order, err
}

func (f *StorefrontFacade) Health(ctx context.Context) error {
	return f.store.HealthCheck(ctx)
}
