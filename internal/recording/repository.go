package recording

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vr-inventory/vr-inventory/internal/platform/db"
)

// Store persists ledger writes.
type Store interface {
	InsertStockMoves(ctx context.Context, moves []NewStockMove) error
	SaveSaleAndPayment(ctx context.Context, params SaleParams) (int64, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository returns a pgx backed Store.
func NewRepository(pool *pgxpool.Pool) Store {
	return &repository{pool: pool}
}

const insertStockMoveSQL = `
INSERT INTO stock_moves (kind, party_id, product_id, qty, price_per_unit, notes)
VALUES ($1, $2, $3, $4, $5, $6)`

// InsertStockMoves sends every row in one batch inside one transaction, so
// either all rows land or none do.
func (r *repository) InsertStockMoves(ctx context.Context, moves []NewStockMove) error {
	if len(moves) == 0 {
		return nil
	}
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, m := range moves {
			batch.Queue(insertStockMoveSQL,
				string(m.Kind), m.PartyID, m.ProductID,
				db.Numeric(m.Qty), db.Numeric(m.PricePerUnit), db.Text(m.Notes))
		}
		results := tx.SendBatch(ctx, batch)
		for i := range moves {
			if _, err := results.Exec(); err != nil {
				_ = results.Close()
				return fmt.Errorf("insert stock move %d: %w", i, err)
			}
		}
		return results.Close()
	})
}

type saleItemJSON struct {
	ProductID int64  `json:"product_id"`
	Qty       string `json:"qty"`
	Rate      string `json:"rate"`
}

const saveSaleSQL = `
SELECT party_id
FROM save_sale_and_payment($1, $2, $3::jsonb, $4, $5, $6)`

func (r *repository) SaveSaleAndPayment(ctx context.Context, p SaleParams) (int64, error) {
	items := make([]saleItemJSON, 0, len(p.Items))
	for _, it := range p.Items {
		items = append(items, saleItemJSON{ProductID: it.ProductID, Qty: it.Qty.String(), Rate: it.Rate.String()})
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return 0, fmt.Errorf("encode sale items: %w", err)
	}

	var partyID int64
	err = r.pool.QueryRow(ctx, saveSaleSQL,
		p.PartyName, db.Text(p.BillNo), string(payload),
		db.Numeric(p.PaymentAmount), db.Text(p.PaymentMethod), db.Text(p.PaymentRecipient),
	).Scan(&partyID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNoResult
		}
		return 0, err
	}
	return partyID, nil
}
