// internal/app/features/clients/routes.go
package clients

import "github.com/go-chi/chi/v5"

// Routes mounts client entity CRUD, typically at "/api/database/clients".
//
//	GET    /{kind}        list (?search=, ?limit=)
//	POST   /{kind}        create
//	GET    /{kind}/{id}   fetch
//	PUT    /{kind}/{id}   update submitted fields
//	DELETE /{kind}/{id}   remove back-references, then the entity
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Route("/{kind}", func(r chi.Router) {
		r.Get("/", h.ServeList)
		r.Post("/", h.HandleCreate)
		r.Get("/{id}", h.ServeGet)
		r.Put("/{id}", h.HandleUpdate)
		r.Delete("/{id}", h.HandleDelete)
	})
	return r
}
