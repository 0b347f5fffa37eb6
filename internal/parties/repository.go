package parties

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vr-inventory/vr-inventory/internal/ledger"
	"github.com/vr-inventory/vr-inventory/internal/platform/db"
)

// Repository reads and creates parties and their ledger rows.
type Repository interface {
	ListWithTotals(ctx context.Context) ([]PartyWithTotals, error)
	Get(ctx context.Context, id int64) (Party, error)
	ListStockMoves(ctx context.Context, partyID int64) ([]ledger.StockMove, error)
	ListPayments(ctx context.Context, partyID int64) ([]ledger.Payment, error)
	FindByName(ctx context.Context, name string) (Party, error)
	Create(ctx context.Context, name string, role Role) (int64, error)
}

type dbtx interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Query(context.Context, string, ...any) (pgx.Rows, error)
	QueryRow(context.Context, string, ...any) pgx.Row
}

type repository struct {
	db dbtx
}

// NewRepository returns a pgx backed Repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool}
}

const listWithTotalsSQL = `
SELECT id, name, phone, role, total_sales, total_purchases
FROM get_parties_with_totals()`

func (r *repository) ListWithTotals(ctx context.Context) ([]PartyWithTotals, error) {
	rows, err := r.db.Query(ctx, listWithTotalsSQL)
	if err != nil {
		return nil, fmt.Errorf("parties: list with totals: %w", err)
	}
	defer rows.Close()

	var out []PartyWithTotals
	for rows.Next() {
		var (
			p         PartyWithTotals
			phone     pgtype.Text
			role      string
			sales     pgtype.Numeric
			purchases pgtype.Numeric
		)
		if err := rows.Scan(&p.ID, &p.Name, &phone, &role, &sales, &purchases); err != nil {
			return nil, fmt.Errorf("parties: scan totals: %w", err)
		}
		p.Phone = db.TextPtr(phone)
		p.Role = Role(role)
		p.TotalSales = db.Decimal(sales)
		p.TotalPurchases = db.Decimal(purchases)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("parties: list with totals: %w", err)
	}
	return out, nil
}

func (r *repository) Get(ctx context.Context, id int64) (Party, error) {
	row := r.db.QueryRow(ctx, `SELECT id, name, phone, role FROM parties WHERE id = $1`, id)
	p, err := scanParty(row)
	if err != nil {
		return Party{}, fmt.Errorf("parties: get %d: %w", id, err)
	}
	return p, nil
}

func (r *repository) FindByName(ctx context.Context, name string) (Party, error) {
	row := r.db.QueryRow(ctx, `SELECT id, name, phone, role FROM parties WHERE lower(name) = lower($1) LIMIT 1`, name)
	p, err := scanParty(row)
	if err != nil {
		return Party{}, fmt.Errorf("parties: find %q: %w", name, err)
	}
	return p, nil
}

func (r *repository) Create(ctx context.Context, name string, role Role) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `INSERT INTO parties (name, role) VALUES ($1, $2) RETURNING id`, name, string(role)).Scan(&id)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return 0, fmt.Errorf("parties: create %q: %w", name, ErrAlreadyExists)
		}
		return 0, fmt.Errorf("parties: create %q: %w", name, err)
	}
	return id, nil
}

const listStockMovesSQL = `
SELECT sm.id, sm.kind, sm.party_id, sm.product_id, COALESCE(p.name, ''), p.size,
       sm.qty, sm.price_per_unit, sm.ts, sm.notes, sm.bill_no
FROM stock_moves sm
LEFT JOIN products p ON p.id = sm.product_id
WHERE sm.party_id = $1
ORDER BY sm.ts DESC, sm.id DESC`

func (r *repository) ListStockMoves(ctx context.Context, partyID int64) ([]ledger.StockMove, error) {
	rows, err := r.db.Query(ctx, listStockMovesSQL, partyID)
	if err != nil {
		return nil, fmt.Errorf("parties: list stock moves: %w", err)
	}
	defer rows.Close()

	var out []ledger.StockMove
	for rows.Next() {
		var (
			m          ledger.StockMove
			kind       string
			size       pgtype.Text
			qty, price pgtype.Numeric
			notes      pgtype.Text
			billNo     pgtype.Text
		)
		if err := rows.Scan(&m.ID, &kind, &m.PartyID, &m.ProductID, &m.ProductName, &size,
			&qty, &price, &m.TS, &notes, &billNo); err != nil {
			return nil, fmt.Errorf("parties: scan stock move: %w", err)
		}
		m.Kind = ledger.MoveKind(kind)
		m.ProductSize = db.TextPtr(size)
		m.Qty = db.Decimal(qty)
		m.PricePerUnit = db.Decimal(price)
		m.Notes = db.TextPtr(notes)
		m.BillNo = db.TextPtr(billNo)
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("parties: list stock moves: %w", err)
	}
	return out, nil
}

const listPaymentsSQL = `
SELECT id, party_id, amount, direction, method, instrument_ref, created_at
FROM payments
WHERE party_id = $1
ORDER BY created_at DESC, id DESC`

func (r *repository) ListPayments(ctx context.Context, partyID int64) ([]ledger.Payment, error) {
	rows, err := r.db.Query(ctx, listPaymentsSQL, partyID)
	if err != nil {
		return nil, fmt.Errorf("parties: list payments: %w", err)
	}
	defer rows.Close()

	var out []ledger.Payment
	for rows.Next() {
		var (
			p         ledger.Payment
			amount    pgtype.Numeric
			direction string
			ref       pgtype.Text
		)
		if err := rows.Scan(&p.ID, &p.PartyID, &amount, &direction, &p.Method, &ref, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("parties: scan payment: %w", err)
		}
		p.Amount = db.Decimal(amount)
		p.Direction = ledger.Direction(direction)
		p.InstrumentRef = db.TextPtr(ref)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("parties: list payments: %w", err)
	}
	return out, nil
}

func scanParty(row pgx.Row) (Party, error) {
	var (
		p     Party
		phone pgtype.Text
		role  string
	)
	if err := row.Scan(&p.ID, &p.Name, &phone, &role); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Party{}, ErrNotFound
		}
		return Party{}, err
	}
	p.Phone = db.TextPtr(phone)
	p.Role = Role(role)
	return p, nil
}
