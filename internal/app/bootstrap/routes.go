// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"time"

	catalogfeature "github.com/dalemusser/canopyhub/internal/app/features/catalog"
	clientsfeature "github.com/dalemusser/canopyhub/internal/app/features/clients"
	healthfeature "github.com/dalemusser/canopyhub/internal/app/features/health"
	pricelistfeature "github.com/dalemusser/canopyhub/internal/app/features/pricelist"
	surveysfeature "github.com/dalemusser/canopyhub/internal/app/features/surveys"
	"github.com/dalemusser/canopyhub/internal/app/system/ratelimit"
	"github.com/dalemusser/canopyhub/internal/app/system/respond"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed.
//
// CanopyHub is a JSON API: client entities under /api/database/{kind},
// the product catalog beside them, the price list under /api/priceList and
// surveys with their collections under /api/surveys.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.MongoDatabase

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(db, appCfg.Version, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	r.Route("/api", func(api chi.Router) {
		api.Route("/database", func(dbr chi.Router) {
			clientsHandler := clientsfeature.NewHandler(db, logger)
			dbr.Mount("/clients", clientsfeature.Routes(clientsHandler))

			// products, customFields, forms and parts
			catalogHandler := catalogfeature.NewHandler(db, logger)
			dbr.Mount("/", catalogfeature.Routes(catalogHandler))
		})

		priceHandler := pricelistfeature.NewHandler(db, logger)
		priceHandler.MaxImportSize = appCfg.MaxImportSize
		if appCfg.ImportRateLimit > 0 {
			priceHandler.ImportLimiter = ratelimit.New(appCfg.ImportRateLimit, time.Minute)
		}
		api.Mount("/priceList", pricelistfeature.Routes(priceHandler))

		surveysHandler := surveysfeature.NewHandler(db, appCfg.RefMaxAttempts, logger)
		api.Mount("/surveys", surveysfeature.Routes(surveysHandler))
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		respond.NotFound(w, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		respond.Fail(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	return r, nil
}
