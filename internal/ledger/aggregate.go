package ledger

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// History labels.
const (
	LabelSale        = "Sale"
	LabelPurchase    = "Purchase"
	LabelPayment     = "Payment"
	LabelPaymentMade = "Payment Made"
)

// Totals holds the four running sums of a party ledger.
type Totals struct {
	Sales            decimal.Decimal
	Purchases        decimal.Decimal
	PaymentsReceived decimal.Decimal
	PaymentsMade     decimal.Decimal
}

// HistoryEntry is one display row of the merged timeline.
type HistoryEntry struct {
	Type        RecordType
	ID          int64
	Label       string
	Description string
	Qty         decimal.Decimal
	Amount      decimal.Decimal
	At          time.Time
	Kind        MoveKind
	Direction   Direction
}

// Ledger is the derived view of a party's records.
type Ledger struct {
	Totals  Totals
	History []HistoryEntry
}

// Empty reports whether the ledger has no history.
func (l Ledger) Empty() bool {
	return len(l.History) == 0
}

// Balance returns what the party owes net of payments. Positive means receivable.
func (l Ledger) Balance() decimal.Decimal {
	receivable := l.Totals.Sales.Sub(l.Totals.PaymentsReceived)
	payable := l.Totals.Purchases.Sub(l.Totals.PaymentsMade)
	return receivable.Sub(payable)
}

// Aggregate computes totals and the merged history, newest first. Entries that
// share a timestamp keep their input order. The input slice is not modified.
func Aggregate(records []Record) Ledger {
	l := Ledger{
		Totals: Totals{
			Sales:            decimal.Zero,
			Purchases:        decimal.Zero,
			PaymentsReceived: decimal.Zero,
			PaymentsMade:     decimal.Zero,
		},
		History: make([]HistoryEntry, 0, len(records)),
	}
	for _, rec := range records {
		switch r := rec.(type) {
		case TransactionRecord:
			amount := r.Move.LineTotal()
			entry := HistoryEntry{
				Type:        RecordTransaction,
				ID:          r.Move.ID,
				Description: productDescription(r.Move),
				Qty:         r.Move.Qty,
				Amount:      amount,
				At:          r.Move.TS,
				Kind:        r.Move.Kind,
			}
			switch r.Move.Kind {
			case KindSale:
				entry.Label = LabelSale
				l.Totals.Sales = l.Totals.Sales.Add(amount)
			case KindPurchase:
				entry.Label = LabelPurchase
				l.Totals.Purchases = l.Totals.Purchases.Add(amount)
			default:
				// Not counted in any total, so it stays out of the history too.
				continue
			}
			l.History = append(l.History, entry)
		case PaymentRecord:
			entry := HistoryEntry{
				Type:        RecordPayment,
				ID:          r.Payment.ID,
				Description: paymentDescription(r.Payment),
				Amount:      r.Payment.Amount,
				At:          r.Payment.CreatedAt,
				Direction:   r.Payment.Direction,
			}
			switch r.Payment.Direction {
			case DirectionIn:
				entry.Label = LabelPayment
				l.Totals.PaymentsReceived = l.Totals.PaymentsReceived.Add(r.Payment.Amount)
			case DirectionOut:
				entry.Label = LabelPaymentMade
				l.Totals.PaymentsMade = l.Totals.PaymentsMade.Add(r.Payment.Amount)
			default:
				continue
			}
			l.History = append(l.History, entry)
		}
	}
	sort.SliceStable(l.History, func(i, j int) bool {
		return l.History[i].At.After(l.History[j].At)
	})
	return l
}

func productDescription(m StockMove) string {
	size := "N/A"
	if m.ProductSize != nil && *m.ProductSize != "" {
		size = *m.ProductSize
	}
	return m.ProductName + " (" + size + ")"
}

func paymentDescription(p Payment) string {
	desc := "Payment via " + p.Method
	if p.InstrumentRef != nil && *p.InstrumentRef != "" {
		desc += " to " + *p.InstrumentRef
	}
	return desc
}
