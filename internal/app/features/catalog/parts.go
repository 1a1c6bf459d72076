// internal/app/features/catalog/parts.go
package catalog

import (
	"context"
	"errors"
	"net/http"

	partstore "github.com/dalemusser/canopyhub/internal/app/store/parts"
	"github.com/dalemusser/canopyhub/internal/app/system/respond"
	"github.com/dalemusser/canopyhub/internal/app/system/timeouts"
	"github.com/dalemusser/canopyhub/internal/domain/models"
	"go.uber.org/zap"
)

// ServeParts handles GET /parts (?category=).
func (h *Handler) ServeParts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	items, err := partstore.New(h.DB).List(ctx, r.URL.Query().Get("category"))
	if err != nil {
		respond.ServerError(w, h.Log, "Error fetching parts", err)
		return
	}
	respond.OK(w, items)
}

// ServePart handles GET /parts/{id}.
func (h *Handler) ServePart(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.PathID(w, r, "id")
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p, err := partstore.New(h.DB).GetByID(ctx, id)
	if errors.Is(err, partstore.ErrNotFound) {
		respond.NotFound(w, "Part not found")
		return
	}
	if err != nil {
		respond.ServerError(w, h.Log, "Error fetching part", err, zap.String("id", id.Hex()))
		return
	}
	respond.OK(w, p)
}

// HandleCreatePart handles POST /parts.
func (h *Handler) HandleCreatePart(w http.ResponseWriter, r *http.Request) {
	var p models.Part
	if !decodeValid(w, r, &p) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	created, err := partstore.New(h.DB).Create(ctx, p)
	if err != nil {
		respond.ServerError(w, h.Log, "Error creating part", err)
		return
	}
	respond.Created(w, created)
}

// HandleUpdatePart handles PUT /parts/{id}.
func (h *Handler) HandleUpdatePart(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.PathID(w, r, "id")
	if !ok {
		return
	}
	var p models.Part
	if !decodeValid(w, r, &p) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	updated, err := partstore.New(h.DB).Update(ctx, id, p)
	if errors.Is(err, partstore.ErrNotFound) {
		respond.NotFound(w, "Part not found")
		return
	}
	if err != nil {
		respond.ServerError(w, h.Log, "Error updating part", err, zap.String("id", id.Hex()))
		return
	}
	respond.OK(w, updated)
}

// HandleDeletePart handles DELETE /parts/{id}.
func (h *Handler) HandleDeletePart(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.PathID(w, r, "id")
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	err := partstore.New(h.DB).Delete(ctx, id)
	if errors.Is(err, partstore.ErrNotFound) {
		respond.NotFound(w, "Part not found")
		return
	}
	if err != nil {
		respond.ServerError(w, h.Log, "Error deleting part", err, zap.String("id", id.Hex()))
		return
	}
	respond.Message(w, "Part deleted successfully")
}
