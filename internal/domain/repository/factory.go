package repository

import "context"

// Factory describes access to different domain repositories.
type Factory interface {
	Users() UserRepository
	Products() ProductRepository
	Inventory() InventoryLedger
	Orders() OrderRepository
	Payments() PaymentRepository
}

// Store is the persistence entry point. Repositories returned by the Factory
// methods run each call on its own; WithinTransaction hands fn a Factory whose
// repositories share one transaction that commits when fn returns nil.
type Store interface {
	Factory
	WithinTransaction(ctx context.Context, fn func(ctx context.Context, tx Factory) error) error
	HealthCheck(ctx context.Context) error
}
