package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/vr-inventory/vr-inventory/internal/ledger"
)

func sampleLedger() ledger.Ledger {
	at := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)
	return ledger.Ledger{
		Totals: ledger.Totals{
			Sales:            decimal.NewFromInt(700),
			Purchases:        decimal.Zero,
			PaymentsReceived: decimal.NewFromInt(500),
			PaymentsMade:     decimal.Zero,
		},
		History: []ledger.HistoryEntry{
			{Type: ledger.RecordPayment, ID: 2, Label: ledger.LabelPayment, Description: "Payment via Cash", Amount: decimal.NewFromInt(500), At: at},
			{Type: ledger.RecordTransaction, ID: 1, Label: ledger.LabelSale, Description: "Tyre (N/A)", Amount: decimal.NewFromInt(700), At: at},
		},
	}
}

func TestLedgerWorkbookSheets(t *testing.T) {
	f, err := LedgerWorkbook("Ravi", sampleLedger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	require.Equal(t, []string{summarySheet, historySheet}, f.GetSheetList())

	party, err := f.GetCellValue(summarySheet, "B1")
	require.NoError(t, err)
	require.Equal(t, "Ravi", party)

	balance, err := f.GetCellValue(summarySheet, "B6")
	require.NoError(t, err)
	require.Equal(t, "200", balance)

	rows, err := f.GetRows(historySheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, historyHeadings, rows[0])
	require.Equal(t, "Payment", rows[1][1])
	require.Equal(t, "Tyre (N/A)", rows[2][2])
}

func TestWriteLedgerProducesReadableWorkbook(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteLedger(&buf, "Ravi", ledger.Ledger{}))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	rows, err := f.GetRows(historySheet)
	require.NoError(t, err)
	require.Len(t, rows, 1)
}
