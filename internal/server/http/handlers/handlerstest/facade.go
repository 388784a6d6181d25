// Package handlerstest provides a configurable facade for exercising the
// HTTP layer without use cases behind it.
package handlerstest

import (
	"context"

	"github.com/zulfalsa/danusan-x/internal/domain/model"
	"github.com/zulfalsa/danusan-x/internal/usecase"
)

// StorefrontFacadeStub implements every facade consumed by the HTTP layer.
// Unset functions succeed with zero values.
type StorefrontFacadeStub struct {
	ResolveFn        func(context.Context, string) (model.Principal, error)
	GatePassValidFn  func(string) bool
	RegisterFn       func(context.Context, string, string, model.Role) (string, error)
	AuthenticateFn   func(context.Context, string, string) (string, error)
	UnlockGateFn     func(string) (string, error)
	ProductsFn       func(context.Context) ([]model.Product, error)
	ProductFn        func(context.Context, int64) (*model.Product, error)
	CheckoutFn       func(context.Context, usecase.CheckoutInput) (*model.Order, error)
	TrackFn          func(context.Context, string) (*model.Order, error)
	UploadProofFn    func(context.Context, string, *usecase.Upload) (*model.Payment, error)
	SellerProductsFn func(context.Context, model.Principal) ([]model.Product, error)
	CreateProductFn  func(context.Context, model.Principal, usecase.ProductInput) (*model.Product, error)
	UpdateProductFn  func(context.Context, model.Principal, int64, usecase.ProductInput) (*model.Product, error)
	DeleteProductFn  func(context.Context, model.Principal, int64) error
	SellerOrdersFn   func(context.Context, model.Principal) ([]model.Order, error)
	CompleteOrderFn  func(context.Context, model.Principal, int64) (*model.Order, error)
	PendingFn        func(context.Context, model.Principal) ([]model.Payment, error)
	VerifyFn         func(context.Context, model.Principal, int64, model.PaymentStatus, string) (*model.Payment, error)
	HealthFn         func(context.Context) error
}

func (s StorefrontFacadeStub) Resolve(ctx context.Context, token string) (model.Principal, error) {
	if s.ResolveFn != nil {
		return s.ResolveFn(ctx, token)
	}
	return model.Principal{}, nil
}

func (s StorefrontFacadeStub) GatePassValid(pass string) bool {
	if s.GatePassValidFn != nil {
		return s.GatePassValidFn(pass)
	}
	return pass != ""
}

func (s StorefrontFacadeStub) Register(ctx context.Context, login, password string, role model.Role) (string, error) {
	if s.RegisterFn != nil {
		return s.RegisterFn(ctx, login, password, role)
	}
	return "token", nil
}

func (s StorefrontFacadeStub) Authenticate(ctx context.Context, login, password string) (string, error) {
	if s.AuthenticateFn != nil {
		return s.AuthenticateFn(ctx, login, password)
	}
	return "token", nil
}

func (s StorefrontFacadeStub) UnlockGate(password string) (string, error) {
	if s.UnlockGateFn != nil {
		return s.UnlockGateFn(password)
	}
	return "pass", nil
}

func (s StorefrontFacadeStub) Products(ctx context.Context) ([]model.Product, error) {
	if s.ProductsFn != nil {
		return s.ProductsFn(ctx)
	}
	return nil, nil
}

func (s StorefrontFacadeStub) Product(ctx context.Context, id int64) (*model.Product, error) {
	if s.ProductFn != nil {
		return s.ProductFn(ctx, id)
	}
	return &model.Product{ID: id}, nil
}

func (s StorefrontFacadeStub) Checkout(ctx context.Context, in usecase.CheckoutInput) (*model.Order, error) {
	if s.CheckoutFn != nil {
		return s.CheckoutFn(ctx, in)
	}
	return &model.Order{ID: 1}, nil
}

func (s StorefrontFacadeStub) Track(ctx context.Context, code string) (*model.Order, error) {
	if s.TrackFn != nil {
		return s.TrackFn(ctx, code)
	}
	return &model.Order{TrackingCode: code}, nil
}

func (s StorefrontFacadeStub) UploadProof(ctx context.Context, code string, proof *usecase.Upload) (*model.Payment, error) {
	if s.UploadProofFn != nil {
		return s.UploadProofFn(ctx, code, proof)
	}
	return &model.Payment{ID: 1}, nil
}

func (s StorefrontFacadeStub) SellerProducts(ctx context.Context, principal model.Principal) ([]model.Product, error) {
	if s.SellerProductsFn != nil {
		return s.SellerProductsFn(ctx, principal)
	}
	return nil, nil
}

func (s StorefrontFacadeStub) CreateProduct(ctx context.Context, principal model.Principal, in usecase.ProductInput) (*model.Product, error) {
	if s.CreateProductFn != nil {
		return s.CreateProductFn(ctx, principal, in)
	}
	return &model.Product{ID: 1, SellerID: principal.UserID, Name: in.Name}, nil
}

func (s StorefrontFacadeStub) UpdateProduct(ctx context.Context, principal model.Principal, id int64, in usecase.ProductInput) (*model.Product, error) {
	if s.UpdateProductFn != nil {
		return s.UpdateProductFn(ctx, principal, id, in)
	}
	return &model.Product{ID: id, SellerID: principal.UserID, Name: in.Name}, nil
}

func (s StorefrontFacadeStub) DeleteProduct(ctx context.Context, principal model.Principal, id int64) error {
	if s.DeleteProductFn != nil {
		return s.DeleteProductFn(ctx, principal, id)
	}
	return nil
}

func (s StorefrontFacadeStub) SellerOrders(ctx context.Context, principal model.Principal) ([]model.Order, error) {
	if s.SellerOrdersFn != nil {
		return s.SellerOrdersFn(ctx, principal)
	}
	return nil, nil
}

func (s StorefrontFacadeStub) CompleteOrder(ctx context.Context, principal model.Principal, orderID int64) (*model.Order, error) {
	if s.CompleteOrderFn != nil {
		return s.CompleteOrderFn(ctx, principal, orderID)
	}
	return &model.Order{ID: orderID, Status: model.OrderStatusCompleted}, nil
}

func (s StorefrontFacadeStub) PendingPayments(ctx context.Context, principal model.Principal) ([]model.Payment, error) {
	if s.PendingFn != nil {
		return s.PendingFn(ctx, principal)
	}
	return nil, nil
}

func (s StorefrontFacadeStub) VerifyPayment(ctx context.Context, principal model.Principal, paymentID int64, decision model.PaymentStatus, notes string) (*model.Payment, error) {
	if s.VerifyFn != nil {
		return s.VerifyFn(ctx, principal, paymentID, decision, notes)
	}
	return &model.Payment{ID: paymentID, Status: decision}, nil
}

func (s StorefrontFacadeStub) Health(ctx context.Context) error {
	if s.HealthFn != nil {
		return s.HealthFn(ctx)
	}
	return nil
}
