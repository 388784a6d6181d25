package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/zulfalsa/danusan-x/internal/domain/errors"
	"github.com/zulfalsa/danusan-x/internal/domain/model"
)

type productRepository struct {
	db querier
}

type inventoryLedger struct {
	db querier
}

const productColumns = `product_id, seller_id, name, category, description, price, stock, image, created_at, updated_at`

func (r *productRepository) Create(ctx context.Context, p *model.Product) (*model.Product, error) {
	const query = `INSERT INTO products (seller_id, name, category, description, price, stock, image)
                   VALUES ($1, $2, $3, $4, $5, $6, $7)
                   RETURNING product_id, created_at, updated_at`
	created := *p
	err := r.db.QueryRow(ctx, query, p.SellerID, p.Name, p.Category, p.Description, p.Price, p.Stock, p.Image).
		Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		if isPgError(err, pgForeignKeyViolation) {
			return nil, fmt.Errorf("seller %d: %w", p.SellerID, domainErrors.ErrNotFound)
		}
		return nil, err
	}
	return &created, nil
}

func (r *productRepository) Update(ctx context.Context, p *model.Product) (*model.Product, error) {
	const query = `UPDATE products
                   SET name=$2, category=$3, description=$4, price=$5, stock=$6, image=$7, updated_at=NOW()
                   WHERE product_id=$1
                   RETURNING seller_id, created_at, updated_at`
	updated := *p
	err := r.db.QueryRow(ctx, query, p.ID, p.Name, p.Category, p.Description, p.Price, p.Stock, p.Image).
		Scan(&updated.SellerID, &updated.CreatedAt, &updated.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &updated, nil
}

func (r *productRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE product_id=$1`, id)
	if err != nil {
		if isPgError(err, pgForeignKeyViolation) {
			return domainErrors.ErrProductInUse
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *productRepository) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	const query = `SELECT ` + productColumns + ` FROM products WHERE product_id=$1`
	p, err := scanProduct(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *productRepository) List(ctx context.Context) ([]model.Product, error) {
	const query = `SELECT ` + productColumns + ` FROM products ORDER BY created_at DESC, product_id DESC`
	return r.list(ctx, query)
}

func (r *productRepository) ListBySeller(ctx context.Context, sellerID int64) ([]model.Product, error) {
	const query = `SELECT ` + productColumns + ` FROM products WHERE seller_id=$1 ORDER BY created_at DESC, product_id DESC`
	return r.list(ctx, query, sellerID)
}

func (r *productRepository) list(ctx context.Context, query string, args ...any) ([]model.Product, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func scanProduct(row pgx.Row) (*model.Product, error) {
	var p model.Product
	err := row.Scan(&p.ID, &p.SellerID, &p.Name, &p.Category, &p.Description, &p.Price, &p.Stock, &p.Image, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Reserve decrements stock only when enough is left. The guard in the WHERE
// clause makes check and decrement one statement under the row lock.
func (l *inventoryLedger) Reserve(ctx context.Context, productID int64, quantity int) error {
	if quantity < 1 {
		verr := domainErrors.NewValidationError()
		verr.Add("quantity", "must be at least 1")
		return verr
	}

	const reserve = `UPDATE products SET stock = stock - $2, updated_at=NOW() WHERE product_id=$1 AND stock >= $2`
	tag, err := l.db.Exec(ctx, reserve, productID, quantity)
	if err != nil {
		return fmt.Errorf("reserve product %d: %w", productID, err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	const current = `SELECT name, stock FROM products WHERE product_id=$1`
	var (
		name  string
		stock int
	)
	if err := l.db.QueryRow(ctx, current, productID).Scan(&name, &stock); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("product %d: %w", productID, domainErrors.ErrNotFound)
		}
		return err
	}
	return &domainErrors.InsufficientStockError{
		ProductID: productID,
		Name:      name,
		Requested: quantity,
		Available: stock,
	}
}
