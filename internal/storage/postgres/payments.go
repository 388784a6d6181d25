package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/zulfalsa/danusan-x/internal/domain/errors"
	"github.com/zulfalsa/danusan-x/internal/domain/model"
)

type paymentRepository struct {
	db querier
}

const paymentColumns = `payment_id, order_id, admin_id, proof, status, notes, created_at, verified_at`

func (r *paymentRepository) Create(ctx context.Context, orderID int64, proof string) (*model.Payment, error) {
	const query = `INSERT INTO payments (order_id, proof, status) VALUES ($1, $2, $3) RETURNING payment_id, created_at`
	p := model.Payment{OrderID: orderID, Proof: proof, Status: model.PaymentStatusAwaitingVerification}
	err := r.db.QueryRow(ctx, query, orderID, proof, string(p.Status)).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		switch {
		case isPgError(err, pgUniqueViolation):
			return nil, domainErrors.ErrPaymentExists
		case isPgError(err, pgForeignKeyViolation):
			return nil, fmt.Errorf("order %d: %w", orderID, domainErrors.ErrNotFound)
		}
		return nil, err
	}
	return &p, nil
}

func (r *paymentRepository) GetByID(ctx context.Context, id int64) (*model.Payment, error) {
	const query = `SELECT ` + paymentColumns + ` FROM payments WHERE payment_id=$1`
	return scanSinglePayment(r.db.QueryRow(ctx, query, id))
}

func (r *paymentRepository) GetByIDForUpdate(ctx context.Context, id int64) (*model.Payment, error) {
	const query = `SELECT ` + paymentColumns + ` FROM payments WHERE payment_id=$1 FOR UPDATE`
	return scanSinglePayment(r.db.QueryRow(ctx, query, id))
}

func (r *paymentRepository) GetByOrderID(ctx context.Context, orderID int64) (*model.Payment, error) {
	const query = `SELECT ` + paymentColumns + ` FROM payments WHERE order_id=$1`
	return scanSinglePayment(r.db.QueryRow(ctx, query, orderID))
}

// ListByStatus returns payments oldest first with their order header.
func (r *paymentRepository) ListByStatus(ctx context.Context, status model.PaymentStatus) ([]model.Payment, error) {
	const query = `SELECT p.payment_id, p.order_id, p.admin_id, p.proof, p.status, p.notes, p.created_at, p.verified_at,
                          o.order_id, o.tracking_code, o.buyer_name, o.buyer_phone, o.buyer_address, o.buyer_notes,
                          o.total_price, o.status, o.created_at, o.updated_at
                   FROM payments p
                   JOIN orders o ON o.order_id = p.order_id
                   WHERE p.status=$1
                   ORDER BY p.created_at, p.payment_id`
	rows, err := r.db.Query(ctx, query, string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Payment
	for rows.Next() {
		var (
			p             model.Payment
			o             model.Order
			paymentStatus string
			orderStatus   string
		)
		if err := rows.Scan(&p.ID, &p.OrderID, &p.AdminID, &p.Proof, &paymentStatus, &p.Notes, &p.CreatedAt, &p.VerifiedAt,
			&o.ID, &o.TrackingCode, &o.Buyer.Name, &o.Buyer.Phone, &o.Buyer.Address, &o.Buyer.Notes,
			&o.TotalPrice, &orderStatus, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		p.Status = model.PaymentStatus(paymentStatus)
		o.Status = model.OrderStatus(orderStatus)
		p.Order = &o
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Verify records the admin decision once. A payment that already carries a
// verdict is left untouched.
func (r *paymentRepository) Verify(ctx context.Context, id int64, status model.PaymentStatus, adminID int64, notes *string, at time.Time) (*model.Payment, error) {
	if !status.Decision() {
		return nil, fmt.Errorf("payment status %q: %w", status, domainErrors.ErrIllegalTransition)
	}

	const query = `UPDATE payments
                   SET status=$2, admin_id=$3, notes=$4, verified_at=$5
                   WHERE payment_id=$1 AND status='awaiting_verification'
                   RETURNING ` + paymentColumns
	p, err := scanPayment(r.db.QueryRow(ctx, query, id, string(status), adminID, notes, at))
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("payment is %s: %w", current.Status, domainErrors.ErrIllegalTransition)
}

func scanSinglePayment(row pgx.Row) (*model.Payment, error) {
	p, err := scanPayment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func scanPayment(row pgx.Row) (*model.Payment, error) {
	var (
		p      model.Payment
		status string
	)
	if err := row.Scan(&p.ID, &p.OrderID, &p.AdminID, &p.Proof, &status, &p.Notes, &p.CreatedAt, &p.VerifiedAt); err != nil {
		return nil, err
	}
	p.Status = model.PaymentStatus(status)
	return &p, nil
}
