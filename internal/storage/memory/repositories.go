package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	domainErrors "github.com/zulfalsa/danusan-x/internal/domain/errors"
	"github.com/zulfalsa/danusan-x/internal/domain/model"
)

type userRepository struct{ run runner }

func (r *userRepository) Create(ctx context.Context, login, passwordHash string, role model.Role) (*model.User, error) {
	var created model.User
	err := r.run(ctx, func(st *state, now time.Time) error {
		if _, ok := st.loginIndex[login]; ok {
			return domainErrors.ErrAlreadyExists
		}
		st.seq.user++
		created = model.User{ID: st.seq.user, Login: login, PasswordHash: passwordHash, Role: role, CreatedAt: now}
		st.users[created.ID] = created
		st.loginIndex[login] = created.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *userRepository) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	var u model.User
	err := r.run(ctx, func(st *state, _ time.Time) error {
		id, ok := st.loginIndex[login]
		if !ok {
			return domainErrors.ErrNotFound
		}
		u = st.users[id]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	var u model.User
	err := r.run(ctx, func(st *state, _ time.Time) error {
		var ok bool
		if u, ok = st.users[id]; !ok {
			return domainErrors.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &u, nil
}

type productRepository struct{ run runner }

func (r *productRepository) Create(ctx context.Context, p *model.Product) (*model.Product, error) {
	created := *p
	err := r.run(ctx, func(st *state, now time.Time) error {
		if _, ok := st.users[p.SellerID]; !ok {
			return fmt.Errorf("seller %d: %w", p.SellerID, domainErrors.ErrNotFound)
		}
		st.seq.product++
		created.ID = st.seq.product
		created.CreatedAt = now
		created.UpdatedAt = now
		st.products[created.ID] = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *productRepository) Update(ctx context.Context, p *model.Product) (*model.Product, error) {
	var updated model.Product
	err := r.run(ctx, func(st *state, now time.Time) error {
		current, ok := st.products[p.ID]
		if !ok {
			return domainErrors.ErrNotFound
		}
		updated = *p
		updated.SellerID = current.SellerID
		updated.CreatedAt = current.CreatedAt
		updated.UpdatedAt = now
		st.products[p.ID] = updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *productRepository) Delete(ctx context.Context, id int64) error {
	return r.run(ctx, func(st *state, _ time.Time) error {
		if _, ok := st.products[id]; !ok {
			return domainErrors.ErrNotFound
		}
		for _, items := range st.items {
			for _, it := range items {
				if it.ProductID == id {
					return domainErrors.ErrProductInUse
				}
			}
		}
		delete(st.products, id)
		return nil
	})
}

func (r *productRepository) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	var p model.Product
	err := r.run(ctx, func(st *state, _ time.Time) error {
		var ok bool
		if p, ok = st.products[id]; !ok {
			return domainErrors.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepository) List(ctx context.Context) ([]model.Product, error) {
	return r.list(ctx, func(model.Product) bool { return true })
}

func (r *productRepository) ListBySeller(ctx context.Context, sellerID int64) ([]model.Product, error) {
	return r.list(ctx, func(p model.Product) bool { return p.SellerID == sellerID })
}

func (r *productRepository) list(ctx context.Context, keep func(model.Product) bool) ([]model.Product, error) {
	var result []model.Product
	err := r.run(ctx, func(st *state, _ time.Time) error {
		for _, p := range st.products {
			if keep(p) {
				result = append(result, p)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.SortFunc(result, func(a, b model.Product) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return result, nil
}

type inventoryLedger struct{ run runner }

func (l *inventoryLedger) Reserve(ctx context.Context, productID int64, quantity int) error {
	if quantity < 1 {
		verr := domainErrors.NewValidationError()
		verr.Add("quantity", "must be at least 1")
		return verr
	}
	return l.run(ctx, func(st *state, now time.Time) error {
		p, ok := st.products[productID]
		if !ok {
			return fmt.Errorf("product %d: %w", productID, domainErrors.ErrNotFound)
		}
		if p.Stock < quantity {
			return &domainErrors.InsufficientStockError{
				ProductID: productID,
				Name:      p.Name,
				Requested: quantity,
				Available: p.Stock,
			}
		}
		p.Stock -= quantity
		p.UpdatedAt = now
		st.products[productID] = p
		return nil
	})
}

type orderRepository struct{ run runner }

func (r *orderRepository) Create(ctx context.Context, order *model.Order) (bool, error) {
	var created bool
	err := r.run(ctx, func(st *state, now time.Time) error {
		if _, taken := st.trackingIndex[order.TrackingCode]; taken {
			return nil
		}
		st.seq.order++
		order.ID = st.seq.order
		order.CreatedAt = now
		order.UpdatedAt = now
		stored := *order
		stored.Items = nil
		stored.Payment = nil
		st.orders[order.ID] = stored
		st.trackingIndex[order.TrackingCode] = order.ID
		created = true
		return nil
	})
	return created, err
}

func (r *orderRepository) AddItems(ctx context.Context, orderID int64, items []model.OrderItem) ([]model.OrderItem, error) {
	result := make([]model.OrderItem, 0, len(items))
	err := r.run(ctx, func(st *state, _ time.Time) error {
		if _, ok := st.orders[orderID]; !ok {
			return fmt.Errorf("order %d: %w", orderID, domainErrors.ErrNotFound)
		}
		for _, it := range items {
			if _, ok := st.products[it.ProductID]; !ok {
				return fmt.Errorf("order item for product %d: %w", it.ProductID, domainErrors.ErrNotFound)
			}
			st.seq.item++
			it.ID = st.seq.item
			it.OrderID = orderID
			result = append(result, it)
			it.ProductName, it.ProductCategory, it.ProductImage = "", "", ""
			st.items[orderID] = append(st.items[orderID], it)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *orderRepository) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	return r.get(ctx, func(st *state) (int64, bool) { return id, true })
}

// GetByIDForUpdate needs no extra locking: transactions are serialized.
func (r *orderRepository) GetByIDForUpdate(ctx context.Context, id int64) (*model.Order, error) {
	return r.GetByID(ctx, id)
}

func (r *orderRepository) GetByTrackingCode(ctx context.Context, code string) (*model.Order, error) {
	return r.get(ctx, func(st *state) (int64, bool) {
		id, ok := st.trackingIndex[code]
		return id, ok
	})
}

func (r *orderRepository) get(ctx context.Context, resolve func(st *state) (int64, bool)) (*model.Order, error) {
	var o model.Order
	err := r.run(ctx, func(st *state, _ time.Time) error {
		id, ok := resolve(st)
		if !ok {
			return domainErrors.ErrNotFound
		}
		if o, ok = st.orders[id]; !ok {
			return domainErrors.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *orderRepository) ListItems(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	var result []model.OrderItem
	err := r.run(ctx, func(st *state, _ time.Time) error {
		for _, it := range st.items[orderID] {
			if p, ok := st.products[it.ProductID]; ok {
				it.ProductName = p.Name
				it.ProductCategory = p.Category
				it.ProductImage = p.Image
			}
			result = append(result, it)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *orderRepository) ListByStatus(ctx context.Context, statuses ...model.OrderStatus) ([]model.Order, error) {
	var result []model.Order
	err := r.run(ctx, func(st *state, _ time.Time) error {
		for _, o := range st.orders {
			if slices.Contains(statuses, o.Status) {
				result = append(result, o)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.SortFunc(result, func(a, b model.Order) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return result, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, orderID int64, from, to model.OrderStatus) error {
	if !from.CanTransitionTo(to) {
		return fmt.Errorf("%s -> %s: %w", from, to, domainErrors.ErrIllegalTransition)
	}
	return r.run(ctx, func(st *state, now time.Time) error {
		o, ok := st.orders[orderID]
		if !ok {
			return domainErrors.ErrNotFound
		}
		if o.Status != from {
			return fmt.Errorf("order is %s, not %s: %w", o.Status, from, domainErrors.ErrIllegalTransition)
		}
		o.Status = to
		o.UpdatedAt = now
		st.orders[orderID] = o
		return nil
	})
}

type paymentRepository struct{ run runner }

func (r *paymentRepository) Create(ctx context.Context, orderID int64, proof string) (*model.Payment, error) {
	var created model.Payment
	err := r.run(ctx, func(st *state, now time.Time) error {
		if _, ok := st.orders[orderID]; !ok {
			return fmt.Errorf("order %d: %w", orderID, domainErrors.ErrNotFound)
		}
		if _, exists := st.paymentIndex[orderID]; exists {
			return domainErrors.ErrPaymentExists
		}
		st.seq.payment++
		created = model.Payment{
			ID:        st.seq.payment,
			OrderID:   orderID,
			Proof:     proof,
			Status:    model.PaymentStatusAwaitingVerification,
			CreatedAt: now,
		}
		st.payments[created.ID] = created
		st.paymentIndex[orderID] = created.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *paymentRepository) GetByID(ctx context.Context, id int64) (*model.Payment, error) {
	var p model.Payment
	err := r.run(ctx, func(st *state, _ time.Time) error {
		var ok bool
		if p, ok = st.payments[id]; !ok {
			return domainErrors.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByIDForUpdate needs no extra locking: transactions are serialized.
func (r *paymentRepository) GetByIDForUpdate(ctx context.Context, id int64) (*model.Payment, error) {
	return r.GetByID(ctx, id)
}

func (r *paymentRepository) GetByOrderID(ctx context.Context, orderID int64) (*model.Payment, error) {
	var p model.Payment
	err := r.run(ctx, func(st *state, _ time.Time) error {
		id, ok := st.paymentIndex[orderID]
		if !ok {
			return domainErrors.ErrNotFound
		}
		p = st.payments[id]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *paymentRepository) ListByStatus(ctx context.Context, status model.PaymentStatus) ([]model.Payment, error) {
	var result []model.Payment
	err := r.run(ctx, func(st *state, _ time.Time) error {
		for _, p := range st.payments {
			if p.Status != status {
				continue
			}
			if o, ok := st.orders[p.OrderID]; ok {
				p.Order = &o
			}
			result = append(result, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.SortFunc(result, func(a, b model.Payment) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return result, nil
}

func (r *paymentRepository) Verify(ctx context.Context, id int64, status model.PaymentStatus, adminID int64, notes *string, at time.Time) (*model.Payment, error) {
	if !status.Decision() {
		return nil, fmt.Errorf("payment status %q: %w", status, domainErrors.ErrIllegalTransition)
	}
	var verified model.Payment
	err := r.run(ctx, func(st *state, _ time.Time) error {
		p, ok := st.payments[id]
		if !ok {
			return domainErrors.ErrNotFound
		}
		if p.Status != model.PaymentStatusAwaitingVerification {
			return fmt.Errorf("payment is %s: %w", p.Status, domainErrors.ErrIllegalTransition)
		}
		p.Status = status
		p.AdminID = &adminID
		if notes != nil {
			n := *notes
			p.Notes = &n
		}
		verifiedAt := at
		p.VerifiedAt = &verifiedAt
		st.payments[id] = p
		verified = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &verified, nil
}
