// internal/app/features/catalog/fields.go
package catalog

import (
	"context"
	"errors"
	"net/http"
	"strings"

	fieldstore "github.com/dalemusser/canopyhub/internal/app/store/customfields"
	"github.com/dalemusser/canopyhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/canopyhub/internal/app/system/respond"
	"github.com/dalemusser/canopyhub/internal/app/system/timeouts"
	"github.com/dalemusser/canopyhub/internal/app/system/txn"
	"github.com/dalemusser/canopyhub/internal/domain/models"
	"go.uber.org/zap"
)

// ServeFields handles GET /customFields (?category=).
func (h *Handler) ServeFields(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	items, err := fieldstore.New(h.DB).List(ctx, r.URL.Query().Get("category"))
	if err != nil {
		respond.ServerError(w, h.Log, "Error fetching custom fields", err)
		return
	}
	respond.OK(w, items)
}

// ServeField handles GET /customFields/{id}.
func (h *Handler) ServeField(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.PathID(w, r, "id")
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	f, err := fieldstore.New(h.DB).GetByID(ctx, id)
	if errors.Is(err, fieldstore.ErrNotFound) {
		respond.NotFound(w, "Custom field not found")
		return
	}
	if err != nil {
		respond.ServerError(w, h.Log, "Error fetching custom field", err, zap.String("id", id.Hex()))
		return
	}
	respond.OK(w, f)
}

// HandleCreateField handles POST /customFields.
func (h *Handler) HandleCreateField(w http.ResponseWriter, r *http.Request) {
	var f models.CustomField
	if !decodeValid(w, r, &f) || !checkField(w, &f) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	created, err := fieldstore.New(h.DB).Create(ctx, f)
	if err != nil {
		respond.ServerError(w, h.Log, "Error creating custom field", err)
		return
	}
	respond.Created(w, created)
}

// HandleUpdateField handles PUT /customFields/{id}.
func (h *Handler) HandleUpdateField(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.PathID(w, r, "id")
	if !ok {
		return
	}
	var f models.CustomField
	if !decodeValid(w, r, &f) || !checkField(w, &f) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	updated, err := fieldstore.New(h.DB).Update(ctx, id, f)
	if errors.Is(err, fieldstore.ErrNotFound) {
		respond.NotFound(w, "Custom field not found")
		return
	}
	if err != nil {
		respond.ServerError(w, h.Log, "Error updating custom field", err, zap.String("id", id.Hex()))
		return
	}
	respond.OK(w, updated)
}

// HandleDeleteField handles DELETE /customFields/{id}. The field is also
// removed from every form that lists it.
func (h *Handler) HandleDeleteField(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.PathID(w, r, "id")
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	store := fieldstore.New(h.DB)
	err := txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
		return store.Delete(ctx, id)
	})
	if errors.Is(err, fieldstore.ErrNotFound) {
		respond.NotFound(w, "Custom field not found")
		return
	}
	if err != nil {
		respond.ServerError(w, h.Log, "Error deleting custom field", err, zap.String("id", id.Hex()))
		return
	}
	respond.Message(w, "Custom field deleted successfully")
}

// checkField cleans the label and options and requires options for selects.
func checkField(w http.ResponseWriter, f *models.CustomField) bool {
	f.Label = htmlsanitize.PlainText(f.Label)
	opts := f.Options[:0]
	for _, o := range f.Options {
		if o = htmlsanitize.PlainText(o); o != "" {
			opts = append(opts, o)
		}
	}
	f.Options = opts
	if f.FieldType == models.FieldSelect && len(f.Options) == 0 {
		respond.BadRequest(w, "Select fields need at least one option.")
		return false
	}
	if strings.TrimSpace(f.Label) == "" {
		respond.BadRequest(w, "Label is required.")
		return false
	}
	return true
}
