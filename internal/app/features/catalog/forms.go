// internal/app/features/catalog/forms.go
package catalog

import (
	"context"
	"errors"
	"net/http"

	fieldstore "github.com/dalemusser/canopyhub/internal/app/store/customfields"
	formstore "github.com/dalemusser/canopyhub/internal/app/store/forms"
	"github.com/dalemusser/canopyhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/canopyhub/internal/app/system/relations"
	"github.com/dalemusser/canopyhub/internal/app/system/respond"
	"github.com/dalemusser/canopyhub/internal/app/system/timeouts"
	"github.com/dalemusser/canopyhub/internal/domain/models"
	"go.uber.org/zap"
)

// ServeForms handles GET /forms.
func (h *Handler) ServeForms(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	items, err := formstore.New(h.DB).List(ctx)
	if err != nil {
		respond.ServerError(w, h.Log, "Error fetching forms", err)
		return
	}
	respond.OK(w, items)
}

// formView is a form with its fields expanded in order.
type formView struct {
	models.Form
	FieldDefs []models.CustomField `json:"fieldDefs"`
}

// ServeForm handles GET /forms/{id}.
func (h *Handler) ServeForm(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.PathID(w, r, "id")
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	f, err := formstore.New(h.DB).GetByID(ctx, id)
	if errors.Is(err, formstore.ErrNotFound) {
		respond.NotFound(w, "Form not found")
		return
	}
	if err != nil {
		respond.ServerError(w, h.Log, "Error fetching form", err, zap.String("id", id.Hex()))
		return
	}
	defs, err := fieldstore.New(h.DB).GetByIDs(ctx, f.Fields)
	if err != nil {
		respond.ServerError(w, h.Log, "Error fetching custom fields", err, zap.String("id", id.Hex()))
		return
	}
	view := formView{Form: f, FieldDefs: make([]models.CustomField, 0, len(f.Fields))}
	for _, fid := range f.Fields {
		if d, ok := defs[fid]; ok {
			view.FieldDefs = append(view.FieldDefs, d)
		}
	}
	respond.OK(w, view)
}

// HandleCreateForm handles POST /forms.
func (h *Handler) HandleCreateForm(w http.ResponseWriter, r *http.Request) {
	var f models.Form
	if !decodeValid(w, r, &f) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if !h.checkForm(ctx, w, &f) {
		return
	}
	created, err := formstore.New(h.DB).Create(ctx, f)
	if err != nil {
		respond.ServerError(w, h.Log, "Error creating form", err)
		return
	}
	respond.Created(w, created)
}

// HandleUpdateForm handles PUT /forms/{id}.
func (h *Handler) HandleUpdateForm(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.PathID(w, r, "id")
	if !ok {
		return
	}
	var f models.Form
	if !decodeValid(w, r, &f) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if !h.checkForm(ctx, w, &f) {
		return
	}
	updated, err := formstore.New(h.DB).Update(ctx, id, f)
	if errors.Is(err, formstore.ErrNotFound) {
		respond.NotFound(w, "Form not found")
		return
	}
	if err != nil {
		respond.ServerError(w, h.Log, "Error updating form", err, zap.String("id", id.Hex()))
		return
	}
	respond.OK(w, updated)
}

// HandleDeleteForm handles DELETE /forms/{id}. Forms used by a product are
// kept and the request fails with 400.
func (h *Handler) HandleDeleteForm(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.PathID(w, r, "id")
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	err := formstore.New(h.DB).Delete(ctx, id)
	switch {
	case errors.Is(err, formstore.ErrInUse):
		respond.BadRequest(w, "Cannot delete form: it is used by one or more products")
		return
	case errors.Is(err, formstore.ErrNotFound):
		respond.NotFound(w, "Form not found")
		return
	case err != nil:
		respond.ServerError(w, h.Log, "Error deleting form", err, zap.String("id", id.Hex()))
		return
	}
	respond.Message(w, "Form deleted successfully")
}

// checkForm de-duplicates the field list and rejects unknown fields.
func (h *Handler) checkForm(ctx context.Context, w http.ResponseWriter, f *models.Form) bool {
	f.Name = htmlsanitize.PlainText(f.Name)
	ids, _ := relations.ObjectIDs(f.Fields)
	f.Fields = ids

	defs, err := fieldstore.New(h.DB).GetByIDs(ctx, f.Fields)
	if err != nil {
		respond.ServerError(w, h.Log, "Error fetching custom fields", err)
		return false
	}
	for _, id := range f.Fields {
		if _, ok := defs[id]; !ok {
			respond.BadRequest(w, "Unknown custom field "+id.Hex())
			return false
		}
	}
	return true
}
