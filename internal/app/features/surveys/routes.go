// internal/app/features/surveys/routes.go
package surveys

import "github.com/go-chi/chi/v5"

// Routes mounts the survey API, typically at "/api/surveys".
//
// Example from bootstrap:
//
//	sh := surveys.NewHandler(db, cfg.RefMaxAttempts, logger)
//	r.Mount("/api/surveys", surveys.Routes(sh))
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Route("/kitchenSurveys", func(r chi.Router) {
		r.Post("/", h.HandleCreate)
		r.Get("/checkRef", h.ServeCheckRef)
		r.Post("/combine", h.HandleCombine)

		r.Get("/viewAll", h.ServeList)
		r.Get("/viewAll/{id}", h.ServeView)
		r.Put("/viewAll/{id}", h.HandleUpdate)
		r.Delete("/viewAll/{id}", h.HandleDelete)
		r.Patch("/viewAll/{id}", h.HandleNewVersion)
		r.Post("/viewAll/{id}/areas", h.HandleAddArea)
	})

	r.Route("/collections", func(r chi.Router) {
		r.Get("/", h.ServeCollections)
		r.Post("/", h.HandleCreateCollection)
		r.Get("/{id}", h.ServeCollection)
		r.Put("/{id}", h.HandleUpdateCollection)
		r.Delete("/{id}", h.HandleDeleteCollection)
	})

	return r
}
