package parties

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vr-inventory/vr-inventory/internal/ledger"
)

// Role classifies a party.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleSupplier Role = "supplier"
	RoleBoth     Role = "both"
)

// RoleForKind infers the role of a party first seen on a stock movement.
func RoleForKind(kind ledger.MoveKind) Role {
	if kind == ledger.KindPurchase {
		return RoleSupplier
	}
	return RoleCustomer
}

// Party is a customer, supplier or both.
type Party struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Phone *string `json:"phone,omitempty"`
	Role  Role    `json:"role"`
}

// PartyWithTotals is a directory row with totals aggregated by the store.
type PartyWithTotals struct {
	Party
	TotalSales     decimal.Decimal `json:"total_sales"`
	TotalPurchases decimal.Decimal `json:"total_purchases"`
}

// Detail groups the raw rows backing a party detail page.
type Detail struct {
	Party    Party              `json:"party"`
	Moves    []ledger.StockMove `json:"moves"`
	Payments []ledger.Payment   `json:"payments"`
}

// Ledger tags the detail rows and aggregates them.
func (d Detail) Ledger() (ledger.Ledger, error) {
	records, err := ledger.Records(d.Moves, d.Payments)
	if err != nil {
		return ledger.Ledger{}, err
	}
	return ledger.Aggregate(records), nil
}

var (
	// ErrNotFound indicates no party matched.
	ErrNotFound = errors.New("parties: not found")
	// ErrAlreadyExists indicates a party with the same normalised name exists.
	ErrAlreadyExists = errors.New("parties: already exists")
)

// NormalizeName trims the name and collapses inner whitespace runs to one space.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}
