// internal/app/features/pricelist/routes.go
package pricelist

import (
	"github.com/dalemusser/canopyhub/internal/app/system/ratelimit"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the price list, typically at "/api/priceList".
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeList)
	r.Post("/", h.HandleCreate)

	// Registered before /{id} so they are not read as ids.
	r.Get("/export", h.ServeExport)
	if h.ImportLimiter != nil {
		r.With(ratelimit.Middleware(h.ImportLimiter, h.Log)).Post("/import", h.HandleImport)
	} else {
		r.Post("/import", h.HandleImport)
	}

	r.Get("/{id}", h.ServeItem)
	r.Put("/{id}", h.HandleUpdate)
	r.Delete("/{id}", h.HandleDelete)

	return r
}
