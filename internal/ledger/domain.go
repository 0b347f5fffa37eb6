// Package ledger derives party totals and a merged transaction/payment timeline
// from raw store rows. It performs no I/O.
package ledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// MoveKind enumerates stock movement kinds.
type MoveKind string

const (
	// KindSale is goods leaving to a customer.
	KindSale MoveKind = "sale"
	// KindPurchase is goods arriving from a supplier.
	KindPurchase MoveKind = "purchase"
)

// Valid reports whether k is a known kind.
func (k MoveKind) Valid() bool {
	return k == KindSale || k == KindPurchase
}

// Direction enumerates payment directions.
type Direction string

const (
	// DirectionIn is money received from the party.
	DirectionIn Direction = "in"
	// DirectionOut is money paid to the party.
	DirectionOut Direction = "out"
)

// Valid reports whether d is a known direction.
func (d Direction) Valid() bool {
	return d == DirectionIn || d == DirectionOut
}

// StockMove is a single product movement row joined with its product.
type StockMove struct {
	ID           int64           `json:"id"`
	Kind         MoveKind        `json:"kind"`
	PartyID      int64           `json:"party_id"`
	ProductID    int64           `json:"product_id"`
	ProductName  string          `json:"product_name"`
	ProductSize  *string         `json:"product_size,omitempty"`
	Qty          decimal.Decimal `json:"qty"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
	TS           time.Time       `json:"ts"`
	Notes        *string         `json:"notes,omitempty"`
	BillNo       *string         `json:"bill_no,omitempty"`
}

// LineTotal returns qty × price per unit.
func (m StockMove) LineTotal() decimal.Decimal {
	return m.Qty.Mul(m.PricePerUnit)
}

// Payment is a money movement row.
type Payment struct {
	ID            int64           `json:"id"`
	PartyID       int64           `json:"party_id"`
	Amount        decimal.Decimal `json:"amount"`
	Direction     Direction       `json:"direction"`
	Method        string          `json:"method"`
	InstrumentRef *string         `json:"instrument_ref,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// RecordType tags the variants of Record.
type RecordType string

const (
	// RecordTransaction tags stock movement records.
	RecordTransaction RecordType = "transaction"
	// RecordPayment tags payment records.
	RecordPayment RecordType = "payment"
)

// Record is either a TransactionRecord or a PaymentRecord.
type Record interface {
	Type() RecordType
	Timestamp() time.Time
	record()
}

// TransactionRecord wraps a validated stock movement.
type TransactionRecord struct {
	Move StockMove
}

// Type implements Record.
func (TransactionRecord) Type() RecordType { return RecordTransaction }

// Timestamp implements Record.
func (r TransactionRecord) Timestamp() time.Time { return r.Move.TS }

func (TransactionRecord) record() {}

// PaymentRecord wraps a validated payment.
type PaymentRecord struct {
	Payment Payment
}

// Type implements Record.
func (PaymentRecord) Type() RecordType { return RecordPayment }

// Timestamp implements Record.
func (r PaymentRecord) Timestamp() time.Time { return r.Payment.CreatedAt }

func (PaymentRecord) record() {}

// ErrInvalidRecord is returned when a store row cannot be tagged.
var ErrInvalidRecord = errors.New("ledger: invalid record")

// FromStockMove validates a stock movement row.
func FromStockMove(m StockMove) (Record, error) {
	if !m.Kind.Valid() {
		return nil, fmt.Errorf("%w: stock move %d has kind %q", ErrInvalidRecord, m.ID, m.Kind)
	}
	return TransactionRecord{Move: m}, nil
}

// FromPayment validates a payment row.
func FromPayment(p Payment) (Record, error) {
	if !p.Direction.Valid() {
		return nil, fmt.Errorf("%w: payment %d has direction %q", ErrInvalidRecord, p.ID, p.Direction)
	}
	return PaymentRecord{Payment: p}, nil
}

// Records tags moves followed by payments, preserving their order.
func Records(moves []StockMove, payments []Payment) ([]Record, error) {
	out := make([]Record, 0, len(moves)+len(payments))
	for _, m := range moves {
		rec, err := FromStockMove(m)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	for _, p := range payments {
		rec, err := FromPayment(p)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}
