package parties

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/vr-inventory/vr-inventory/internal/export"
	"github.com/vr-inventory/vr-inventory/internal/ledger"
	"github.com/vr-inventory/vr-inventory/internal/view"
)

// Reader is the read side the handler depends on.
type Reader interface {
	Directory(ctx context.Context) (Directory, error)
	Ledger(ctx context.Context, id int64) (Party, ledger.Ledger, error)
}

// Handler serves the party directory and detail pages.
type Handler struct {
	logger    *slog.Logger
	service   Reader
	templates *view.Engine
}

// NewHandler builds the handler.
func NewHandler(logger *slog.Logger, service Reader, templates *view.Engine) *Handler {
	return &Handler{logger: logger, service: service, templates: templates}
}

// Tab is one filter link on the directory page.
type Tab struct {
	Filter Filter
	Label  string
	Count  int
	Active bool
}

type listPage struct {
	Filter  Filter
	Tabs    []Tab
	Parties []PartyWithTotals
}

type detailPage struct {
	Party   Party
	Ledger  ledger.Ledger
	Balance decimal.Decimal
}

// Values of the ?saved= flag the entry forms append when redirecting here.
const (
	SavedSale      = "sale"
	SavedStockMove = "stock"
)

var savedMessages = map[string]string{
	SavedSale:      "Sale saved successfully!",
	SavedStockMove: "Stock movement saved.",
}

var tabLabels = []struct {
	filter Filter
	label  string
}{
	{FilterAll, "All"},
	{FilterCustomer, "Customers"},
	{FilterSupplier, "Suppliers"},
}

// List renders the directory filtered by ?filter=.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filter := ParseFilter(r.URL.Query().Get("filter"))

	dir, err := h.service.Directory(r.Context())
	if err != nil {
		h.logger.Error("load party directory failed", slog.Any("error", err))
		dir = NewDirectory(nil)
	}

	counts := dir.Counts()
	tabs := make([]Tab, 0, len(tabLabels))
	for _, t := range tabLabels {
		tabs = append(tabs, Tab{Filter: t.filter, Label: t.label, Count: counts[t.filter], Active: t.filter == filter})
	}

	h.render(w, r, http.StatusOK, "pages/customers.html", "Parties", nil, listPage{
		Filter:  filter,
		Tabs:    tabs,
		Parties: dir.Filter(filter),
	})
}

// Show renders one party with totals and history.
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := h.partyID(w, r)
	if !ok {
		return
	}
	party, l, err := h.service.Ledger(r.Context(), id)
	if err != nil {
		h.fail(w, r, id, err)
		return
	}
	var alert *view.Alert
	if msg, ok := savedMessages[r.URL.Query().Get("saved")]; ok {
		alert = &view.Alert{Kind: view.AlertSuccess, Message: msg}
	}
	h.render(w, r, http.StatusOK, "pages/customer_detail.html", party.Name, alert, detailPage{
		Party:   party,
		Ledger:  l,
		Balance: l.Balance(),
	})
}

// Export downloads the party ledger as a workbook.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	id, ok := h.partyID(w, r)
	if !ok {
		return
	}
	party, l, err := h.service.Ledger(r.Context(), id)
	if err != nil {
		h.fail(w, r, id, err)
		return
	}
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=party-%d-ledger.xlsx", id))
	if err := export.WriteLedger(w, party.Name, l); err != nil {
		h.logger.Error("export ledger failed", slog.Int64("party_id", id), slog.Any("error", err))
	}
}

func (h *Handler) partyID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		h.render(w, r, http.StatusBadRequest, "pages/error.html", "Invalid party ID", nil, nil)
		return 0, false
	}
	return id, true
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, id int64, err error) {
	if errors.Is(err, ErrNotFound) {
		h.render(w, r, http.StatusNotFound, "pages/error.html", "Party not found", nil, nil)
		return
	}
	h.logger.Error("load party ledger failed", slog.Int64("party_id", id), slog.Any("error", err))
	h.render(w, r, http.StatusInternalServerError, "pages/error.html", "Failed to load party", nil, nil)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, name, title string, alert *view.Alert, data any) {
	err := h.templates.Render(w, status, name, view.TemplateData{
		Title:       title,
		CurrentPath: r.URL.Path,
		Alert:       alert,
		Data:        data,
	})
	if err != nil {
		h.logger.Error("render template failed", slog.String("template", name), slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
