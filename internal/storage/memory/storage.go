// Package memory keeps all aggregates in process. Transactions run one at a
// time against a copy of the state that replaces the live state on commit.
package memory

import (
	"context"
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/zulfalsa/danusan-x/internal/domain/model"
	"github.com/zulfalsa/danusan-x/internal/domain/repository"
)

type state struct {
	users    map[int64]model.User
	products map[int64]model.Product
	orders   map[int64]model.Order
	items    map[int64][]model.OrderItem
	payments map[int64]model.Payment

	trackingIndex map[string]int64
	paymentIndex  map[int64]int64
	loginIndex    map[string]int64

	seq sequences
}

type sequences struct {
	user, product, order, item, payment int64
}

func newState() *state {
	return &state{
		users:         make(map[int64]model.User),
		products:      make(map[int64]model.Product),
		orders:        make(map[int64]model.Order),
		items:         make(map[int64][]model.OrderItem),
		payments:      make(map[int64]model.Payment),
		trackingIndex: make(map[string]int64),
		paymentIndex:  make(map[int64]int64),
		loginIndex:    make(map[string]int64),
	}
}

// clone copies every map. Stored values never share Items or Order with the
// caller, and item slices are copied since AddItems appends to them.
func (s *state) clone() *state {
	c := &state{
		users:         maps.Clone(s.users),
		products:      maps.Clone(s.products),
		orders:        maps.Clone(s.orders),
		items:         make(map[int64][]model.OrderItem, len(s.items)),
		payments:      maps.Clone(s.payments),
		trackingIndex: maps.Clone(s.trackingIndex),
		paymentIndex:  maps.Clone(s.paymentIndex),
		loginIndex:    maps.Clone(s.loginIndex),
		seq:           s.seq,
	}
	for id, items := range s.items {
		c.items[id] = append([]model.OrderItem(nil), items...)
	}
	return c
}

// Storage is an in-process repository.Store.
type Storage struct {
	mu    sync.Mutex
	state *state
	now   func() time.Time
}

var _ repository.Store = (*Storage)(nil)

// New returns an empty store.
func New() *Storage {
	return &Storage{state: newState(), now: time.Now}
}

// Close is a no-op kept for lifecycle symmetry with the postgres store.
func (s *Storage) Close() {}

func (s *Storage) Users() repository.UserRepository {
	return &userRepository{run: s.autocommit}
}

func (s *Storage) Products() repository.ProductRepository {
	return &productRepository{run: s.autocommit}
}

func (s *Storage) Inventory() repository.InventoryLedger {
	return &inventoryLedger{run: s.autocommit}
}

func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{run: s.autocommit}
}

func (s *Storage) Payments() repository.PaymentRepository {
	return &paymentRepository{run: s.autocommit}
}

// WithinTransaction runs fn while holding the store lock. Changes made
// through tx become visible only when fn returns nil.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(ctx context.Context, tx repository.Factory) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t := &txn{state: s.state.clone(), now: s.now}
	err := fn(ctx, t)
	t.done = true
	if err != nil {
		return err
	}
	s.state = t.state
	return nil
}

// HealthCheck always succeeds for the in-process store.
func (s *Storage) HealthCheck(ctx context.Context) error {
	return ctx.Err()
}

// autocommit runs op as its own transaction.
func (s *Storage) autocommit(ctx context.Context, op func(st *state, now time.Time) error) error {
	return s.WithinTransaction(ctx, func(ctx context.Context, tx repository.Factory) error {
		t := tx.(*txn)
		return op(t.state, t.now())
	})
}

type runner func(ctx context.Context, op func(st *state, now time.Time) error) error

// txn is the repository.Factory handed to transaction bodies.
type txn struct {
	state *state
	now   func() time.Time
	done  bool
}

func (t *txn) run(ctx context.Context, op func(st *state, now time.Time) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if t.done {
		return fmt.Errorf("transaction already closed")
	}
	return op(t.state, t.now())
}

func (t *txn) Users() repository.UserRepository       { return &userRepository{run: t.run} }
func (t *txn) Products() repository.ProductRepository { return &productRepository{run: t.run} }
func (t *txn) Inventory() repository.InventoryLedger  { return &inventoryLedger{run: t.run} }
func (t *txn) Orders() repository.OrderRepository     { return &orderRepository{run: t.run} }
func (t *txn) Payments() repository.PaymentRepository { return &paymentRepository{run: t.run} }
