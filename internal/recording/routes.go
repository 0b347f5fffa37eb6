package recording

import "github.com/go-chi/chi/v5"

// MountAPI registers the JSON write endpoints under /api.
func (h *Handler) MountAPI(r chi.Router) {
	r.Post("/stock-moves", h.CreateStockMoves)
	r.Post("/sales", h.CreateSale)
}

// MountForms registers the HTML entry forms at the root router.
func (h *Handler) MountForms(r chi.Router) {
	r.Get("/sales/new", h.SaleForm)
	r.Post("/sales", h.SubmitSale)
	r.Get("/stock-moves/new", h.StockMoveForm)
	r.Post("/stock-moves", h.SubmitStockMoves)
}
