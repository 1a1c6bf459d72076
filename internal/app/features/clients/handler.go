// internal/app/features/clients/handler.go
package clients

import (
	"net/http"

	clientstore "github.com/dalemusser/canopyhub/internal/app/store/clients"
	"github.com/dalemusser/canopyhub/internal/app/system/respond"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves CRUD for every client entity kind (sites, groups, chains,
// contacts and suppliers). The kind comes from the {kind} route segment.
type Handler struct {
	DB  *mongo.Database
	Log *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Log: logger}
}

// store resolves the {kind} segment. Unknown kinds get a 404.
func (h *Handler) store(w http.ResponseWriter, r *http.Request) (*clientstore.Store, bool) {
	kind, ok := clientstore.Lookup(chi.URLParam(r, "kind"))
	if !ok {
		respond.NotFound(w, "Unknown client type")
		return nil, false
	}
	return clientstore.New(h.DB, kind), true
}
