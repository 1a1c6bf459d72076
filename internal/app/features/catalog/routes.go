// internal/app/features/catalog/routes.go
package catalog

import "github.com/go-chi/chi/v5"

// Routes mounts the catalog, typically at "/api/database".
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.ServeProducts)
		r.Post("/", h.HandleCreateProduct)
		r.Get("/{id}", h.ServeProduct)
		r.Put("/{id}", h.HandleUpdateProduct)
		r.Delete("/{id}", h.HandleDeleteProduct)
	})

	r.Route("/customFields", func(r chi.Router) {
		r.Get("/", h.ServeFields)
		r.Post("/", h.HandleCreateField)
		r.Get("/{id}", h.ServeField)
		r.Put("/{id}", h.HandleUpdateField)
		r.Delete("/{id}", h.HandleDeleteField)
	})

	r.Route("/forms", func(r chi.Router) {
		r.Get("/", h.ServeForms)
		r.Post("/", h.HandleCreateForm)
		r.Get("/{id}", h.ServeForm)
		r.Put("/{id}", h.HandleUpdateForm)
		r.Delete("/{id}", h.HandleDeleteForm)
	})

	r.Route("/parts", func(r chi.Router) {
		r.Get("/", h.ServeParts)
		r.Post("/", h.HandleCreatePart)
		r.Get("/{id}", h.ServePart)
		r.Put("/{id}", h.HandleUpdatePart)
		r.Delete("/{id}", h.HandleDeletePart)
	})

	return r
}
