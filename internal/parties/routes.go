package parties

import "github.com/go-chi/chi/v5"

// MountRoutes registers the party pages.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{id}", h.Show)
	r.Get("/{id}/export.xlsx", h.Export)
}
