// Package export renders party ledgers as Excel workbooks.
package export

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/vr-inventory/vr-inventory/internal/ledger"
)

const (
	summarySheet = "Summary"
	historySheet = "History"
	// ContentType is the MIME type of the generated workbook.
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var historyHeadings = []string{"Date", "Type", "Description", "Amount"}

// LedgerWorkbook builds a two-sheet workbook: totals and the full history.
func LedgerWorkbook(partyName string, l ledger.Ledger) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(historySheet); err != nil {
		return nil, err
	}

	summary := [][]any{
		{"Party", partyName},
		{"Total Sales", money(l.Totals.Sales)},
		{"Total Purchases", money(l.Totals.Purchases)},
		{"Payments Received", money(l.Totals.PaymentsReceived)},
		{"Payments Made", money(l.Totals.PaymentsMade)},
		{"Balance", money(l.Balance())},
	}
	for i, row := range summary {
		if err := setRow(f, summarySheet, i+1, row); err != nil {
			return nil, err
		}
	}

	header := make([]any, len(historyHeadings))
	for i, h := range historyHeadings {
		header[i] = h
	}
	if err := setRow(f, historySheet, 1, header); err != nil {
		return nil, err
	}
	for i, entry := range l.History {
		row := []any{entry.At.Format("2006-01-02 15:04"), entry.Label, entry.Description, money(entry.Amount)}
		if err := setRow(f, historySheet, i+2, row); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// WriteLedger streams the workbook for a party ledger to w.
func WriteLedger(w io.Writer, partyName string, l ledger.Ledger) error {
	f, err := LedgerWorkbook(partyName, l)
	if err != nil {
		return fmt.Errorf("export: build workbook: %w", err)
	}
	defer func() { _ = f.Close() }()
	if err := f.Write(w); err != nil {
		return fmt.Errorf("export: write workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, rowNo int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNo)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func money(d decimal.Decimal) float64 {
	v, _ := d.Round(2).Float64()
	return v
}
