// Package recording writes sales, payments and stock movements against parties
// resolved by name.
package recording

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/vr-inventory/vr-inventory/internal/ledger"
	"github.com/vr-inventory/vr-inventory/internal/parties"
	"github.com/vr-inventory/vr-inventory/internal/platform/httpx"
)

// User-facing messages.
const (
	MsgMissingFields  = "Missing required fields."
	MsgSaleRequired   = "Customer Name and at least one item are required."
	MsgSaveFailed     = "Failed to save transaction."
	MsgSaleSaved      = "Sale saved successfully!"
	MsgBadIdempotency = "Idempotency-Key must be a UUID."
)

const (
	idempotencyModule  = "sales"
	operationSale      = "sale"
	operationStockMove = "stock_move"
)

// ItemRequest is one product line of a stock movement.
type ItemRequest struct {
	ProductID    int64           `json:"product_id" validate:"required,gt=0"`
	Qty          decimal.Decimal `json:"qty" validate:"gt=0,maxscale=3"`
	PricePerUnit decimal.Decimal `json:"price_per_unit" validate:"gte=0,maxscale=2"`
}

// StockMoveRequest records one or more movements for a party named by the user.
type StockMoveRequest struct {
	Kind      ledger.MoveKind `json:"kind" validate:"required,oneof=sale purchase"`
	PartyName string          `json:"party_name" validate:"required,max=200"`
	Notes     *string         `json:"notes,omitempty" validate:"omitempty,max=500"`
	Items     []ItemRequest   `json:"items" validate:"required,min=1,dive"`
}

// SaleItem is one product line of a sale.
type SaleItem struct {
	ProductID int64           `json:"product_id" validate:"required,gt=0"`
	Qty       decimal.Decimal `json:"qty" validate:"gt=0,maxscale=3"`
	Rate      decimal.Decimal `json:"rate" validate:"gte=0,maxscale=2"`
}

// PaymentRequest is the optional payment taken with a sale.
type PaymentRequest struct {
	Amount    decimal.Decimal `json:"amount" validate:"gte=0,maxscale=2"`
	Method    string          `json:"method" validate:"max=50"`
	Recipient string          `json:"recipient" validate:"max=200"`
}

// SaleRequest records a sale and an optional payment atomically.
type SaleRequest struct {
	PartyName string          `json:"party_name" validate:"required,max=200"`
	BillNo    *string         `json:"bill_no,omitempty" validate:"omitempty,max=100"`
	Items     []SaleItem      `json:"items" validate:"required,min=1,dive"`
	Payment   *PaymentRequest `json:"payment,omitempty"`
}

// NewStockMove is a row to insert into stock_moves.
type NewStockMove struct {
	Kind         ledger.MoveKind
	PartyID      int64
	ProductID    int64
	Qty          decimal.Decimal
	PricePerUnit decimal.Decimal
	Notes        *string
}

// SaleParams are the arguments of the atomic sale procedure.
type SaleParams struct {
	PartyName        string
	BillNo           *string
	Items            []SaleItem
	PaymentAmount    decimal.Decimal
	PaymentMethod    *string
	PaymentRecipient *string
}

// SaleResult is returned to the caller after a sale is saved.
type SaleResult struct {
	Message string `json:"message"`
	PartyID int64  `json:"party_id"`
}

// StockMoveResult is returned after stock moves are saved.
type StockMoveResult struct {
	PartyID int64 `json:"party_id"`
}

// ValidationError is a client input error. It matches httpx.ErrValidation.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Unwrap lets errors.Is match httpx.ErrValidation.
func (e *ValidationError) Unwrap() error { return httpx.ErrValidation }

// StoreError carries a persistence failure. Its message is the store's own.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return e.Err.Error() }

// Unwrap returns the underlying store error.
func (e *StoreError) Unwrap() error { return e.Err }

// ErrNoResult is returned when the sale procedure yields no party.
var ErrNoResult = errors.New("recording: sale procedure returned no rows")

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	// maxscale=N rejects values with more than N fractional digits, matching
	// the scale of the numeric columns they are stored in.
	_ = v.RegisterValidation("maxscale", func(fl validator.FieldLevel) bool {
		limit, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		if fl.Field().Kind() != reflect.Float64 {
			return false
		}
		return decimal.NewFromFloat(fl.Field().Float()).Exponent() >= -int32(limit)
	})
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Normalize trims free text and drops empty optional values.
func (r *StockMoveRequest) Normalize() {
	r.PartyName = parties.NormalizeName(r.PartyName)
	r.Kind = ledger.MoveKind(strings.ToLower(strings.TrimSpace(string(r.Kind))))
	r.Notes = trimmedOrNil(r.Notes)
}

// Validate checks the request after Normalize.
func (r StockMoveRequest) Validate() error {
	if r.Kind == "" || r.PartyName == "" || len(r.Items) == 0 {
		return &ValidationError{Message: MsgMissingFields}
	}
	return structError(validate.Struct(r))
}

// Normalize trims free text and drops empty optional values.
func (r *SaleRequest) Normalize() {
	r.PartyName = parties.NormalizeName(r.PartyName)
	r.BillNo = trimmedOrNil(r.BillNo)
	if r.Payment != nil {
		r.Payment.Method = strings.TrimSpace(r.Payment.Method)
		r.Payment.Recipient = strings.TrimSpace(r.Payment.Recipient)
	}
}

// Validate checks the request after Normalize.
func (r SaleRequest) Validate() error {
	if r.PartyName == "" || len(r.Items) == 0 {
		return &ValidationError{Message: MsgSaleRequired}
	}
	return structError(validate.Struct(r))
}

// Params maps the request to procedure arguments. A missing payment becomes
// amount zero, which the procedure treats as no payment.
func (r SaleRequest) Params() SaleParams {
	p := SaleParams{
		PartyName:     r.PartyName,
		BillNo:        r.BillNo,
		Items:         r.Items,
		PaymentAmount: decimal.Zero,
	}
	if r.Payment != nil {
		p.PaymentAmount = r.Payment.Amount
		p.PaymentMethod = nonEmpty(r.Payment.Method)
		p.PaymentRecipient = nonEmpty(r.Payment.Recipient)
	}
	return p
}

func structError(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		field := fe.Namespace()
		if i := strings.Index(field, "."); i >= 0 {
			field = field[i+1:]
		}
		return &ValidationError{Message: fmt.Sprintf("Invalid %s.", field)}
	}
	return &ValidationError{Message: err.Error()}
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	return nonEmpty(strings.TrimSpace(*s))
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
