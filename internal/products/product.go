// Package products lists the product catalogue used by entry forms.
package products

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vr-inventory/vr-inventory/internal/platform/db"
)

// Product is a catalogue entry.
type Product struct {
	ID   int64   `json:"id"`
	Name string  `json:"name"`
	Size *string `json:"size,omitempty"`
}

// Label is the option text shown in product selects.
func (p Product) Label() string {
	if p.Size == nil || *p.Size == "" {
		return p.Name
	}
	return fmt.Sprintf("%s (%s)", p.Name, *p.Size)
}

// Lister returns the catalogue.
type Lister interface {
	List(ctx context.Context) ([]Product, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository returns a pgx backed Lister.
func NewRepository(pool *pgxpool.Pool) Lister {
	return &repository{pool: pool}
}

func (r *repository) List(ctx context.Context) ([]Product, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, size FROM products ORDER BY name, size NULLS FIRST, id`)
	if err != nil {
		return nil, fmt.Errorf("products: list: %w", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Product, error) {
		var (
			p    Product
			size pgtype.Text
		)
		if err := row.Scan(&p.ID, &p.Name, &size); err != nil {
			return Product{}, err
		}
		p.Size = db.TextPtr(size)
		return p, nil
	})
	if err != nil {
		return nil, fmt.Errorf("products: scan: %w", err)
	}
	return out, nil
}
