package recording

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vr-inventory/vr-inventory/internal/ledger"
	"github.com/vr-inventory/vr-inventory/internal/parties"
	"github.com/vr-inventory/vr-inventory/internal/platform/httpx"
	"github.com/vr-inventory/vr-inventory/internal/products"
	"github.com/vr-inventory/vr-inventory/internal/shared"
	"github.com/vr-inventory/vr-inventory/internal/view"
)

const blankRows = 3

var paymentMethods = []string{"Cash", "UPI", "Bank Transfer", "Cheque"}

type formRow struct {
	ProductID int64
	Qty       string
	Rate      string
}

type saleForm struct {
	IdempotencyKey   string
	PartyName        string
	BillNo           string
	Rows             []formRow
	PaymentAmount    string
	PaymentMethod    string
	PaymentRecipient string
	Methods          []string
	Products         []products.Product
}

type stockMoveForm struct {
	Kind      string
	PartyName string
	Notes     string
	Rows      []formRow
	Products  []products.Product
}

// SaleForm renders the empty sale entry form.
func (h *Handler) SaleForm(w http.ResponseWriter, r *http.Request) {
	form := &saleForm{IdempotencyKey: uuid.NewString(), PaymentMethod: paymentMethods[0], Rows: padRows(nil)}
	h.renderForm(w, r, http.StatusOK, "pages/sale_form.html", "New Sale", form, nil)
}

// SubmitSale records a sale posted from the form and redirects to the party.
func (h *Handler) SubmitSale(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	form := &saleForm{
		IdempotencyKey:   r.PostFormValue("idempotency_key"),
		PartyName:        r.PostFormValue("party_name"),
		BillNo:           r.PostFormValue("bill_no"),
		Rows:             formRows(r, "rate"),
		PaymentAmount:    r.PostFormValue("payment_amount"),
		PaymentMethod:    r.PostFormValue("payment_method"),
		PaymentRecipient: r.PostFormValue("payment_recipient"),
	}

	req, err := form.request()
	if err == nil {
		var result SaleResult
		result, err = h.service.RecordSale(r.Context(), req, form.IdempotencyKey)
		if err == nil {
			http.Redirect(w, r, fmt.Sprintf("/customers/%d?saved=%s", result.PartyID, parties.SavedSale), http.StatusSeeOther)
			return
		}
	}
	form.Rows = padRows(form.Rows)
	h.renderForm(w, r, httpx.StatusFor(err), "pages/sale_form.html", "New Sale", form, err)
}

// StockMoveForm renders the empty stock movement form, defaulting to a purchase.
func (h *Handler) StockMoveForm(w http.ResponseWriter, r *http.Request) {
	kind := string(ledger.KindPurchase)
	if r.URL.Query().Get("kind") == string(ledger.KindSale) {
		kind = string(ledger.KindSale)
	}
	form := &stockMoveForm{Kind: kind, Rows: padRows(nil)}
	h.renderForm(w, r, http.StatusOK, "pages/stock_move_form.html", "New Stock Movement", form, nil)
}

// SubmitStockMoves records movements posted from the form and redirects to the party.
func (h *Handler) SubmitStockMoves(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	form := &stockMoveForm{
		Kind:      r.PostFormValue("kind"),
		PartyName: r.PostFormValue("party_name"),
		Notes:     r.PostFormValue("notes"),
		Rows:      formRows(r, "price_per_unit"),
	}

	req, err := form.request()
	if err == nil {
		var result StockMoveResult
		result, err = h.service.RecordStockMoves(r.Context(), req)
		if err == nil {
			http.Redirect(w, r, fmt.Sprintf("/customers/%d?saved=%s", result.PartyID, parties.SavedStockMove), http.StatusSeeOther)
			return
		}
	}
	form.Rows = padRows(form.Rows)
	h.renderForm(w, r, httpx.StatusFor(err), "pages/stock_move_form.html", "New Stock Movement", form, err)
}

func (f *saleForm) request() (SaleRequest, error) {
	req := SaleRequest{PartyName: f.PartyName}
	if f.BillNo != "" {
		billNo := f.BillNo
		req.BillNo = &billNo
	}
	for i, row := range f.Rows {
		qty, rate, err := row.amounts(i)
		if err != nil {
			return SaleRequest{}, err
		}
		req.Items = append(req.Items, SaleItem{ProductID: row.ProductID, Qty: qty, Rate: rate})
	}
	if strings.TrimSpace(f.PaymentAmount) != "" {
		amount, err := decimal.NewFromString(strings.TrimSpace(f.PaymentAmount))
		if err != nil {
			return SaleRequest{}, &ValidationError{Message: "Invalid payment amount."}
		}
		req.Payment = &PaymentRequest{Amount: amount, Method: f.PaymentMethod, Recipient: f.PaymentRecipient}
	}
	return req, nil
}

func (f *stockMoveForm) request() (StockMoveRequest, error) {
	req := StockMoveRequest{Kind: ledger.MoveKind(f.Kind), PartyName: f.PartyName}
	if f.Notes != "" {
		notes := f.Notes
		req.Notes = &notes
	}
	for i, row := range f.Rows {
		qty, price, err := row.amounts(i)
		if err != nil {
			return StockMoveRequest{}, err
		}
		req.Items = append(req.Items, ItemRequest{ProductID: row.ProductID, Qty: qty, PricePerUnit: price})
	}
	return req, nil
}

func (row formRow) amounts(i int) (decimal.Decimal, decimal.Decimal, error) {
	qty, err := decimal.NewFromString(strings.TrimSpace(row.Qty))
	if err != nil {
		return decimal.Zero, decimal.Zero, &ValidationError{Message: fmt.Sprintf("Invalid quantity in row %d.", i+1)}
	}
	rate := decimal.Zero
	if s := strings.TrimSpace(row.Rate); s != "" {
		rate, err = decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero, decimal.Zero, &ValidationError{Message: fmt.Sprintf("Invalid price in row %d.", i+1)}
		}
	}
	return qty, rate, nil
}

// formRows zips the repeated item inputs, skipping rows with no product chosen.
func formRows(r *http.Request, rateField string) []formRow {
	ids := r.PostForm["product_id"]
	qtys := r.PostForm["qty"]
	rates := r.PostForm[rateField]
	rows := make([]formRow, 0, len(ids))
	for i, raw := range ids {
		id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil || id <= 0 {
			continue
		}
		rows = append(rows, formRow{ProductID: id, Qty: at(qtys, i), Rate: at(rates, i)})
	}
	return rows
}

func padRows(rows []formRow) []formRow {
	for len(rows) < blankRows {
		rows = append(rows, formRow{})
	}
	return rows
}

func at(values []string, i int) string {
	if i < len(values) {
		return values[i]
	}
	return ""
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, status int, name, title string, form any, formErr error) {
	list, err := h.products.List(r.Context())
	if err != nil {
		h.logger.Error("list products for form failed", slog.Any("error", err))
	}
	switch f := form.(type) {
	case *saleForm:
		f.Products = list
		f.Methods = paymentMethods
	case *stockMoveForm:
		f.Products = list
	}

	var alert *view.Alert
	if formErr != nil {
		alert = &view.Alert{Kind: view.AlertError, Message: shared.UserSafeMessage(formErr, MsgSaveFailed)}
	}
	err = h.templates.Render(w, status, name, view.TemplateData{
		Title:       title,
		CurrentPath: r.URL.Path,
		Alert:       alert,
		Data:        form,
	})
	if err != nil {
		h.logger.Error("render form failed", slog.String("template", name), slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
