package products

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vr-inventory/vr-inventory/internal/view"
)

// Handler serves the product catalogue page.
type Handler struct {
	logger    *slog.Logger
	lister    Lister
	templates *view.Engine
}

// NewHandler builds the handler.
func NewHandler(logger *slog.Logger, lister Lister, templates *view.Engine) *Handler {
	return &Handler{logger: logger, lister: lister, templates: templates}
}

// MountRoutes registers the catalogue page.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
}

// List renders every product.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.lister.List(r.Context())
	status := http.StatusOK
	var alert *view.Alert
	if err != nil {
		h.logger.Error("list products failed", slog.Any("error", err))
		status = http.StatusInternalServerError
		alert = &view.Alert{Kind: view.AlertError, Message: "Failed to load products."}
	}
	err = h.templates.Render(w, status, "pages/products.html", view.TemplateData{
		Title:       "Products",
		CurrentPath: r.URL.Path,
		Alert:       alert,
		Data:        map[string]any{"Products": list},
	})
	if err != nil {
		h.logger.Error("render products failed", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
