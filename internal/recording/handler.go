package recording

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/vr-inventory/vr-inventory/internal/platform/httpx"
	"github.com/vr-inventory/vr-inventory/internal/products"
	"github.com/vr-inventory/vr-inventory/internal/view"
)

// Recorder is the write side the handlers depend on.
type Recorder interface {
	RecordStockMoves(ctx context.Context, req StockMoveRequest) (StockMoveResult, error)
	RecordSale(ctx context.Context, req SaleRequest, idempotencyKey string) (SaleResult, error)
}

// IdempotencyHeader carries the optional client supplied request key.
const IdempotencyHeader = "Idempotency-Key"

// Handler serves the JSON write API and the HTML entry forms.
type Handler struct {
	logger    *slog.Logger
	service   Recorder
	products  products.Lister
	templates *view.Engine
}

// NewHandler builds the handler. products and templates are only needed by the forms.
func NewHandler(logger *slog.Logger, service Recorder, productLister products.Lister, templates *view.Engine) *Handler {
	return &Handler{logger: logger, service: service, products: productLister, templates: templates}
}

// CreateStockMoves handles POST /api/stock-moves.
func (h *Handler) CreateStockMoves(w http.ResponseWriter, r *http.Request) {
	var req StockMoveRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid JSON body.")
		return
	}
	result, err := h.service.RecordStockMoves(r.Context(), req)
	if err != nil {
		var storeErr *StoreError
		if errors.As(err, &storeErr) {
			httpx.Error(w, http.StatusInternalServerError, storeErr.Error())
			return
		}
		httpx.RespondError(w, err, MsgSaveFailed)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

// CreateSale handles POST /api/sales.
func (h *Handler) CreateSale(w http.ResponseWriter, r *http.Request) {
	var req SaleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid JSON body.")
		return
	}
	result, err := h.service.RecordSale(r.Context(), req, r.Header.Get(IdempotencyHeader))
	if err != nil {
		httpx.RespondError(w, err, MsgSaveFailed)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}
