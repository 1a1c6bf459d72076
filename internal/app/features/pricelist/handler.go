// internal/app/features/pricelist/handler.go
package pricelist

import (
	"github.com/dalemusser/canopyhub/internal/app/system/csvutil"
	"github.com/dalemusser/canopyhub/internal/app/system/ratelimit"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the price list: CRUD on items plus CSV/XLSX export and
// bulk import. MaxImportSize caps import bodies in bytes; zero means
// csvutil.MaxUploadSize. A non-nil ImportLimiter throttles imports per
// client address.
type Handler struct {
	DB            *mongo.Database
	Log           *zap.Logger
	MaxImportSize int64
	ImportLimiter *ratelimit.Limiter
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Log: logger}
}

func (h *Handler) importLimit() int64 {
	if h.MaxImportSize <= 0 {
		return csvutil.MaxUploadSize
	}
	return h.MaxImportSize
}
