// internal/app/features/health/handler.go
package health

import (
	"context"
	"net/http"

	"github.com/dalemusser/canopyhub/internal/app/system/indexes"
	"github.com/dalemusser/canopyhub/internal/app/system/respond"
	"github.com/dalemusser/canopyhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Handler reports whether the service can reach its database and whether
// the unique indexes that keep REF ids, price list keys and idempotency
// keys distinct are in place.
type Handler struct {
	DB      *mongo.Database
	Version string
	Log     *zap.Logger
}

func NewHandler(db *mongo.Database, version string, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Version: version, Log: logger}
}

type report struct {
	Status         string   `json:"status"`
	Database       string   `json:"database"`
	Schema         string   `json:"schema,omitempty"`
	MissingIndexes []string `json:"missingIndexes,omitempty"`
	Version        string   `json:"version,omitempty"`
	Error          string   `json:"error,omitempty"`
}

// Serve handles GET /health.
//
// 200 with status "ok" when the database answers and every guard index
// exists; 200 with status "degraded" and the missing index names when it
// answers without them; 503 when the database is unreachable.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	rep := report{Status: "ok", Database: "connected", Version: h.Version}

	if err := h.DB.Client().Ping(ctx, readpref.Primary()); err != nil {
		h.Log.Error("health-check: mongo ping failed", zap.Error(err))
		rep.Status = "error"
		rep.Database = "disconnected"
		rep.Error = err.Error()
		respond.JSON(w, http.StatusServiceUnavailable, rep)
		return
	}

	missing, err := indexes.MissingGuards(ctx, h.DB)
	switch {
	case err != nil:
		h.Log.Warn("health-check: index listing failed", zap.Error(err))
		rep.Schema = "unknown"
	case len(missing) > 0:
		h.Log.Warn("health-check: guard indexes missing", zap.Strings("indexes", missing))
		rep.Status = "degraded"
		rep.Schema = "missing-indexes"
		rep.MissingIndexes = missing
	default:
		rep.Schema = "ok"
	}
	respond.JSON(w, http.StatusOK, rep)
}
