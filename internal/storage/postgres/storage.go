package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zulfalsa/danusan-x/internal/domain/repository"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type pgxPool interface {
	querier
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   pgxPool
	logger *slog.Logger
}

var _ repository.Store = (*Storage)(nil)

// repositories binds every repository to one querier, either the pool or a
// running transaction.
type repositories struct {
	db querier
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) Users() repository.UserRepository {
	return repositories{db: s.pool}.Users()
}

func (s *Storage) Products() repository.ProductRepository {
	return repositories{db: s.pool}.Products()
}

func (s *Storage) Inventory() repository.InventoryLedger {
	return repositories{db: s.pool}.Inventory()
}

func (s *Storage) Orders() repository.OrderRepository {
	return repositories{db: s.pool}.Orders()
}

func (s *Storage) Payments() repository.PaymentRepository {
	return repositories{db: s.pool}.Payments()
}

func (r repositories) Users() repository.UserRepository {
	return &userRepository{db: r.db}
}

func (r repositories) Products() repository.ProductRepository {
	return &productRepository{db: r.db}
}

func (r repositories) Inventory() repository.InventoryLedger {
	return &inventoryLedger{db: r.db}
}

func (r repositories) Orders() repository.OrderRepository {
	return &orderRepository{db: r.db}
}

func (r repositories) Payments() repository.PaymentRepository {
	return &paymentRepository{db: r.db}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
            user_id BIGSERIAL PRIMARY KEY,
            login TEXT UNIQUE NOT NULL,
            password_hash TEXT NOT NULL,
            role TEXT NOT NULL CHECK (role IN ('seller', 'admin')),
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS products (
            product_id BIGSERIAL PRIMARY KEY,
            seller_id BIGINT NOT NULL REFERENCES users(user_id),
            name VARCHAR(150) NOT NULL,
            category VARCHAR(100) NOT NULL DEFAULT '',
            description TEXT NOT NULL DEFAULT '',
            price BIGINT NOT NULL CHECK (price >= 0),
            stock INTEGER NOT NULL CHECK (stock >= 0),
            image TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS orders (
            order_id BIGSERIAL PRIMARY KEY,
            tracking_code VARCHAR(32) UNIQUE NOT NULL,
            buyer_name VARCHAR(150) NOT NULL,
            buyer_phone VARCHAR(20) NOT NULL,
            buyer_address VARCHAR(255) NOT NULL,
            buyer_notes TEXT NOT NULL DEFAULT '',
            total_price BIGINT NOT NULL CHECK (total_price >= 0),
            status TEXT NOT NULL CHECK (status IN ('awaiting_verification', 'processing_by_seller', 'completed', 'cancelled')),
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS order_items (
            item_id BIGSERIAL PRIMARY KEY,
            order_id BIGINT NOT NULL REFERENCES orders(order_id) ON DELETE CASCADE,
            product_id BIGINT NOT NULL REFERENCES products(product_id),
            quantity INTEGER NOT NULL CHECK (quantity > 0),
            unit_price BIGINT NOT NULL CHECK (unit_price >= 0),
            subtotal BIGINT NOT NULL CHECK (subtotal >= 0),
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS payments (
            payment_id BIGSERIAL PRIMARY KEY,
            order_id BIGINT UNIQUE NOT NULL REFERENCES orders(order_id) ON DELETE CASCADE,
            admin_id BIGINT REFERENCES users(user_id) ON DELETE SET NULL,
            proof TEXT NOT NULL,
            status TEXT NOT NULL CHECK (status IN ('awaiting_verification', 'valid', 'invalid')),
            notes TEXT,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            verified_at TIMESTAMPTZ
        )`,
		`CREATE INDEX IF NOT EXISTS idx_products_seller ON products(seller_id)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id)`,
		`CREATE INDEX IF NOT EXISTS idx_payments_status ON payments(status, created_at)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// WithinTransaction executes fn inside a transaction boundary. Repositories
// handed to fn share the transaction; it commits when fn returns nil.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(ctx context.Context, tx repository.Factory) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				s.logger.Error("rollback failed", slog.String("error", rbErr.Error()))
			}
			return
		}
		if err = tx.Commit(ctx); err != nil {
			err = fmt.Errorf("commit tx: %w", err)
		}
	}()

	err = fn(ctx, repositories{db: tx})
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

func isPgError(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
