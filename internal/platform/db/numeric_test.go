package db

import (
	"errors"
	"fmt"
	"math/big"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDecimalFromNumeric(t *testing.T) {
	n := pgtype.Numeric{Int: big.NewInt(12345), Exp: -2, Valid: true}
	assert.True(t, Decimal(n).Equal(decimal.RequireFromString("123.45")))

	assert.True(t, Decimal(pgtype.Numeric{}).IsZero())
	assert.True(t, Decimal(pgtype.Numeric{Valid: true, NaN: true}).IsZero())
}

func TestNumericFromDecimal(t *testing.T) {
	n := Numeric(decimal.RequireFromString("20.50"))
	assert.True(t, n.Valid)
	assert.True(t, Decimal(n).Equal(decimal.RequireFromString("20.5")))
}

func TestTextHelpers(t *testing.T) {
	assert.Nil(t, TextPtr(pgtype.Text{}))
	v := "note"
	assert.Equal(t, &v, TextPtr(Text(&v)))
	assert.False(t, Text(nil).Valid)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(fmt.Errorf("wrap: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsUniqueViolation(errors.New("boom")))
}
