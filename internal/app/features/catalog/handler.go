// internal/app/features/catalog/handler.go
package catalog

import (
	"net/http"

	"github.com/dalemusser/canopyhub/internal/app/system/inputval"
	"github.com/dalemusser/canopyhub/internal/app/system/respond"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the product catalog: products, the custom fields and forms
// that describe them, and the schematic parts library.
type Handler struct {
	DB  *mongo.Database
	Log *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Log: logger}
}

// decodeValid reads the JSON body into v and validates it. On failure the
// 400 has already been written.
func decodeValid(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := respond.Decode(w, r, v); err != nil {
		respond.BadRequest(w, err.Error())
		return false
	}
	if res := inputval.Validate(v); res.HasErrors() {
		respond.BadRequest(w, res.Error())
		return false
	}
	return true
}
