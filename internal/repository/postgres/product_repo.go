package postgres

import (
	"context"
	"errors"
	"fmt"

	"storefront-service/internal/domain/product"
	xerrors "storefront-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type ProductRepository struct {
	db *pgxpool.Pool
}

func NewProductRepository(db *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) scanProduct(row pgx.Row) (*product.Product, error) {
	var p product.Product
	var tags []string
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.Sold, &p.UserID,
		pq.Array(&tags), &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan product: %w", err)
	}
	p.Tags = pq.StringArray(tags)
	return &p, nil
}

// Create inserts a new product listing owned by userID
func (r *ProductRepository) Create(ctx context.Context, p *product.Product) error {
	query := `
		INSERT INTO products (name, description, price, user_id, tags)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, sold, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		p.Name, p.Description, p.Price, p.UserID, pq.Array(p.Tags),
	).Scan(&p.ID, &p.Sold, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// FindByID retrieves a single product
func (r *ProductRepository) FindByID(ctx context.Context, id int64) (*product.Product, error) {
	query := `
		SELECT id, name, description, price, sold, user_id, tags, created_at, updated_at
		FROM products
		WHERE id = $1
	`
	return r.scanProduct(r.db.QueryRow(ctx, query, id))
}

// List returns products, optionally only unsold ones
func (r *ProductRepository) List(ctx context.Context, availableOnly bool) ([]*product.Product, error) {
	query := `
		SELECT id, name, description, price, sold, user_id, tags, created_at, updated_at
		FROM products
	`
	if availableOnly {
		query += ` WHERE sold = FALSE`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var products []*product.Product
	for rows.Next() {
		p, err := r.scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read products: %w", err)
	}

	return products, nil
}

// MarkSold flags a product as sold
func (r *ProductRepository) MarkSold(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `UPDATE products SET sold = TRUE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to mark product sold: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

// DeleteOwned removes a product only if userID owns it
func (r *ProductRepository) DeleteOwned(ctx context.Context, userID, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}
