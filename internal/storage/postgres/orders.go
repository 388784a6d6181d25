package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/zulfalsa/danusan-x/internal/domain/errors"
	"github.com/zulfalsa/danusan-x/internal/domain/model"
)

type orderRepository struct {
	db querier
}

const orderColumns = `order_id, tracking_code, buyer_name, buyer_phone, buyer_address, buyer_notes, total_price, status, created_at, updated_at`

func (r *orderRepository) Create(ctx context.Context, order *model.Order) (bool, error) {
	const query = `INSERT INTO orders (tracking_code, buyer_name, buyer_phone, buyer_address, buyer_notes, total_price, status)
                   VALUES ($1, $2, $3, $4, $5, $6, $7)
                   ON CONFLICT (tracking_code) DO NOTHING
                   RETURNING order_id, created_at, updated_at`
	err := r.db.QueryRow(ctx, query,
		order.TrackingCode,
		order.Buyer.Name,
		order.Buyer.Phone,
		order.Buyer.Address,
		order.Buyer.Notes,
		order.TotalPrice,
		string(order.Status),
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *orderRepository) AddItems(ctx context.Context, orderID int64, items []model.OrderItem) ([]model.OrderItem, error) {
	const query = `INSERT INTO order_items (order_id, product_id, quantity, unit_price, subtotal)
                   VALUES ($1, $2, $3, $4, $5)
                   RETURNING item_id`
	result := make([]model.OrderItem, 0, len(items))
	for _, item := range items {
		item.OrderID = orderID
		if err := r.db.QueryRow(ctx, query, orderID, item.ProductID, item.Quantity, item.UnitPrice, item.Subtotal).Scan(&item.ID); err != nil {
			if isPgError(err, pgForeignKeyViolation) {
				return nil, fmt.Errorf("order item for product %d: %w", item.ProductID, domainErrors.ErrNotFound)
			}
			return nil, err
		}
		result = append(result, item)
	}
	return result, nil
}

func (r *orderRepository) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders WHERE order_id=$1`
	return scanSingleOrder(r.db.QueryRow(ctx, query, id))
}

func (r *orderRepository) GetByIDForUpdate(ctx context.Context, id int64) (*model.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders WHERE order_id=$1 FOR UPDATE`
	return scanSingleOrder(r.db.QueryRow(ctx, query, id))
}

func (r *orderRepository) GetByTrackingCode(ctx context.Context, code string) (*model.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders WHERE tracking_code=$1`
	return scanSingleOrder(r.db.QueryRow(ctx, query, code))
}

func (r *orderRepository) ListItems(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	const query = `SELECT i.item_id, i.order_id, i.product_id, i.quantity, i.unit_price, i.subtotal,
                          p.name, p.category, p.image
                   FROM order_items i
                   JOIN products p ON p.product_id = i.product_id
                   WHERE i.order_id=$1
                   ORDER BY i.item_id`
	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.OrderItem
	for rows.Next() {
		var it model.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &it.UnitPrice, &it.Subtotal,
			&it.ProductName, &it.ProductCategory, &it.ProductImage); err != nil {
			return nil, err
		}
		result = append(result, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *orderRepository) ListByStatus(ctx context.Context, statuses ...model.OrderStatus) ([]model.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders
                   WHERE status = ANY($1)
                   ORDER BY created_at DESC, order_id DESC`
	names := make([]string, 0, len(statuses))
	for _, s := range statuses {
		names = append(names, string(s))
	}

	rows, err := r.db.Query(ctx, query, names)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateStatus applies a transition from the order state table. The status
// guard in the WHERE clause rejects a row that moved on concurrently.
func (r *orderRepository) UpdateStatus(ctx context.Context, orderID int64, from, to model.OrderStatus) error {
	if !from.CanTransitionTo(to) {
		return fmt.Errorf("%s -> %s: %w", from, to, domainErrors.ErrIllegalTransition)
	}

	const update = `UPDATE orders SET status=$3, updated_at=NOW() WHERE order_id=$1 AND status=$2`
	tag, err := r.db.Exec(ctx, update, orderID, string(from), string(to))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var current string
	if err := r.db.QueryRow(ctx, `SELECT status FROM orders WHERE order_id=$1`, orderID).Scan(&current); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domainErrors.ErrNotFound
		}
		return err
	}
	return fmt.Errorf("order is %s, not %s: %w", current, from, domainErrors.ErrIllegalTransition)
}

func scanSingleOrder(row pgx.Row) (*model.Order, error) {
	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return o, nil
}

func scanOrder(row pgx.Row) (*model.Order, error) {
	var (
		o      model.Order
		status string
	)
	err := row.Scan(&o.ID, &o.TrackingCode, &o.Buyer.Name, &o.Buyer.Phone, &o.Buyer.Address, &o.Buyer.Notes,
		&o.TotalPrice, &status, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	o.Status = model.OrderStatus(status)
	return &o, nil
}
