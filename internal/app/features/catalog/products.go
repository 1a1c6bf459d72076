// internal/app/features/catalog/products.go
package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	fieldstore "github.com/dalemusser/canopyhub/internal/app/store/customfields"
	formstore "github.com/dalemusser/canopyhub/internal/app/store/forms"
	productstore "github.com/dalemusser/canopyhub/internal/app/store/products"
	"github.com/dalemusser/canopyhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/canopyhub/internal/app/system/respond"
	"github.com/dalemusser/canopyhub/internal/app/system/timeouts"
	"github.com/dalemusser/canopyhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ServeProducts handles GET /products (?category=, ?type=, ?form=).
func (h *Handler) ServeProducts(w http.ResponseWriter, r *http.Request) {
	form, ok := respond.QueryID(w, r, "form")
	if !ok {
		return
	}
	q := r.URL.Query()

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	items, err := productstore.New(h.DB).List(ctx, productstore.ListFilter{
		Category: q.Get("category"),
		Type:     q.Get("type"),
		Form:     form,
	})
	if err != nil {
		respond.ServerError(w, h.Log, "Error fetching products", err)
		return
	}
	respond.OK(w, items)
}

// ServeProduct handles GET /products/{id}.
func (h *Handler) ServeProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.PathID(w, r, "id")
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p, err := productstore.New(h.DB).GetByID(ctx, id)
	if errors.Is(err, productstore.ErrNotFound) {
		respond.NotFound(w, "Product not found")
		return
	}
	if err != nil {
		respond.ServerError(w, h.Log, "Error fetching product", err, zap.String("id", id.Hex()))
		return
	}
	respond.OK(w, p)
}

// HandleCreateProduct handles POST /products.
func (h *Handler) HandleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var p models.Product
	if !decodeValid(w, r, &p) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if !h.checkProduct(ctx, w, &p) {
		return
	}
	created, err := productstore.New(h.DB).Create(ctx, p)
	if err != nil {
		respond.ServerError(w, h.Log, "Error creating product", err)
		return
	}
	respond.Created(w, created)
}

// HandleUpdateProduct handles PUT /products/{id}.
func (h *Handler) HandleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.PathID(w, r, "id")
	if !ok {
		return
	}
	var p models.Product
	if !decodeValid(w, r, &p) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if !h.checkProduct(ctx, w, &p) {
		return
	}
	updated, err := productstore.New(h.DB).Update(ctx, id, p)
	if errors.Is(err, productstore.ErrNotFound) {
		respond.NotFound(w, "Product not found")
		return
	}
	if err != nil {
		respond.ServerError(w, h.Log, "Error updating product", err, zap.String("id", id.Hex()))
		return
	}
	respond.OK(w, updated)
}

// HandleDeleteProduct handles DELETE /products/{id}.
func (h *Handler) HandleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.PathID(w, r, "id")
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	err := productstore.New(h.DB).Delete(ctx, id)
	if errors.Is(err, productstore.ErrNotFound) {
		respond.NotFound(w, "Product not found")
		return
	}
	if err != nil {
		respond.ServerError(w, h.Log, "Error deleting product", err, zap.String("id", id.Hex()))
		return
	}
	respond.Message(w, "Product deleted successfully")
}

// checkProduct verifies the product against its form and sanitizes its text.
// It writes the 400 or 500 itself and returns false when p must be rejected.
func (h *Handler) checkProduct(ctx context.Context, w http.ResponseWriter, p *models.Product) bool {
	p.Name = htmlsanitize.PlainText(p.Name)
	p.Description = htmlsanitize.Sanitize(p.Description)

	form, err := formstore.New(h.DB).GetByID(ctx, p.Form)
	if errors.Is(err, formstore.ErrNotFound) {
		respond.BadRequest(w, "Form not found")
		return false
	}
	if err != nil {
		respond.ServerError(w, h.Log, "Error fetching form", err)
		return false
	}
	fields, err := fieldstore.New(h.DB).GetByIDs(ctx, form.Fields)
	if err != nil {
		respond.ServerError(w, h.Log, "Error fetching custom fields", err)
		return false
	}
	if msg := checkFieldValues(form, fields, p.CustomFields); msg != "" {
		respond.BadRequest(w, msg)
		return false
	}
	return true
}

// checkFieldValues returns a message describing the first problem with vals,
// or "" when every value belongs to the form and every required field of the
// form has a value.
func checkFieldValues(form models.Form, fields map[primitive.ObjectID]models.CustomField, vals []models.FieldValue) string {
	inForm := make(map[primitive.ObjectID]bool, len(form.Fields))
	for _, id := range form.Fields {
		inForm[id] = true
	}
	given := make(map[primitive.ObjectID]bool, len(vals))
	for _, v := range vals {
		if !inForm[v.FieldID] {
			return fmt.Sprintf("Custom field %s does not belong to form %q.", v.FieldID.Hex(), form.Name)
		}
		if !isBlank(v.Value) {
			given[v.FieldID] = true
		}
	}
	for _, id := range form.Fields {
		f, ok := fields[id]
		if ok && f.Required && !given[id] {
			return f.Label + " is required."
		}
	}
	return ""
}

func isBlank(v any) bool {
	switch tv := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(tv) == ""
	}
	return false
}
