// internal/app/features/clients/write.go
package clients

import (
	"context"
	"errors"
	"net/http"

	clientstore "github.com/dalemusser/canopyhub/internal/app/store/clients"
	"github.com/dalemusser/canopyhub/internal/app/system/inputval"
	"github.com/dalemusser/canopyhub/internal/app/system/respond"
	"github.com/dalemusser/canopyhub/internal/app/system/timeouts"
	"github.com/dalemusser/canopyhub/internal/app/system/txn"
	"go.uber.org/zap"
)

// HandleCreate handles POST /{kind}.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	store, ok := h.store(w, r)
	if !ok {
		return
	}
	var body map[string]any
	if err := respond.Decode(w, r, &body); err != nil {
		respond.BadRequest(w, err.Error())
		return
	}
	kind := store.Kind()
	doc, err := prepare(kind, body, nil)
	if err != nil {
		h.payloadError(w, kind.Label, "Error creating", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	var created any
	err = txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
		var err error
		created, err = store.Create(ctx, doc)
		return err
	})
	if err != nil {
		respond.ServerError(w, h.Log, "Error creating "+kind.Label, err)
		return
	}
	respond.Created(w, created)
}

// HandleUpdate handles PUT /{kind}/{id}. Only submitted fields change.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	store, ok := h.store(w, r)
	if !ok {
		return
	}
	id, ok := respond.PathID(w, r, "id")
	if !ok {
		return
	}
	var body map[string]any
	if err := respond.Decode(w, r, &body); err != nil {
		respond.BadRequest(w, err.Error())
		return
	}
	kind := store.Kind()

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	current, err := store.Get(ctx, id)
	if err != nil {
		h.notFoundOr500(w, kind.Label, "Error updating", err, zap.String("id", id.Hex()))
		return
	}
	doc, err := prepare(kind, body, current)
	if err != nil {
		h.payloadError(w, kind.Label, "Error updating", err)
		return
	}

	var updated any
	err = txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
		var err error
		updated, err = store.Update(ctx, id, doc)
		return err
	})
	if err != nil {
		h.notFoundOr500(w, kind.Label, "Error updating", err, zap.String("id", id.Hex()))
		return
	}
	respond.OK(w, updated)
}

// HandleDelete handles DELETE /{kind}/{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	store, ok := h.store(w, r)
	if !ok {
		return
	}
	id, ok := respond.PathID(w, r, "id")
	if !ok {
		return
	}
	kind := store.Kind()

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	err := txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
		return store.Delete(ctx, id)
	})
	if err != nil {
		h.notFoundOr500(w, kind.Label, "Error deleting", err, zap.String("id", id.Hex()))
		return
	}
	respond.Message(w, kind.Label+" deleted successfully")
}

func (h *Handler) notFoundOr500(w http.ResponseWriter, label, what string, err error, fields ...zap.Field) {
	if errors.Is(err, clientstore.ErrNotFound) {
		respond.NotFound(w, label+" not found")
		return
	}
	respond.ServerError(w, h.Log, what+" "+label, err, fields...)
}

func (h *Handler) payloadError(w http.ResponseWriter, label, what string, err error) {
	var res inputval.Result
	switch {
	case errors.As(err, &res):
		respond.BadRequest(w, res.Error())
	case errors.Is(err, errInvalidPayload):
		respond.BadRequest(w, err.Error())
	default:
		respond.ServerError(w, h.Log, what+" "+label, err)
	}
}
