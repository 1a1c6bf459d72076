// internal/app/features/pricelist/items.go
package pricelist

import (
	"context"
	"errors"
	"net/http"

	pricestore "github.com/dalemusser/canopyhub/internal/app/store/pricelist"
	"github.com/dalemusser/canopyhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/canopyhub/internal/app/system/inputval"
	"github.com/dalemusser/canopyhub/internal/app/system/respond"
	"github.com/dalemusser/canopyhub/internal/app/system/timeouts"
	"github.com/dalemusser/canopyhub/internal/domain/models"
	"go.uber.org/zap"
)

// ServeList handles GET / (?category=).
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	items, err := pricestore.New(h.DB).List(ctx, r.URL.Query().Get("category"))
	if err != nil {
		respond.ServerError(w, h.Log, "Error fetching price list", err)
		return
	}
	respond.OK(w, items)
}

// ServeItem handles GET /{id}.
func (h *Handler) ServeItem(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.PathID(w, r, "id")
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	it, err := pricestore.New(h.DB).GetByID(ctx, id)
	if errors.Is(err, pricestore.ErrNotFound) {
		respond.NotFound(w, "Price list item not found")
		return
	}
	if err != nil {
		respond.ServerError(w, h.Log, "Error fetching price list item", err, zap.String("id", id.Hex()))
		return
	}
	respond.OK(w, it)
}

// HandleCreate handles POST /.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	it, ok := decodeItem(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	created, err := pricestore.New(h.DB).Create(ctx, it)
	if errors.Is(err, pricestore.ErrDuplicate) {
		respond.Conflict(w, "An item with this category, subcategory and name already exists")
		return
	}
	if err != nil {
		respond.ServerError(w, h.Log, "Error creating price list item", err)
		return
	}
	respond.Created(w, created)
}

// HandleUpdate handles PUT /{id}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.PathID(w, r, "id")
	if !ok {
		return
	}
	it, ok := decodeItem(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	updated, err := pricestore.New(h.DB).Update(ctx, id, it)
	switch {
	case errors.Is(err, pricestore.ErrNotFound):
		respond.NotFound(w, "Price list item not found")
		return
	case errors.Is(err, pricestore.ErrDuplicate):
		respond.Conflict(w, "An item with this category, subcategory and name already exists")
		return
	case err != nil:
		respond.ServerError(w, h.Log, "Error updating price list item", err, zap.String("id", id.Hex()))
		return
	}
	respond.OK(w, updated)
}

// HandleDelete handles DELETE /{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.PathID(w, r, "id")
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	err := pricestore.New(h.DB).Delete(ctx, id)
	if errors.Is(err, pricestore.ErrNotFound) {
		respond.NotFound(w, "Price list item not found")
		return
	}
	if err != nil {
		respond.ServerError(w, h.Log, "Error deleting price list item", err, zap.String("id", id.Hex()))
		return
	}
	respond.Message(w, "Price list item deleted successfully")
}

func decodeItem(w http.ResponseWriter, r *http.Request) (models.PriceItem, bool) {
	var it models.PriceItem
	if err := respond.Decode(w, r, &it); err != nil {
		respond.BadRequest(w, err.Error())
		return it, false
	}
	it.Category = htmlsanitize.PlainText(it.Category)
	it.Subcategory = htmlsanitize.PlainText(it.Subcategory)
	it.Item = htmlsanitize.PlainText(it.Item)
	if res := inputval.Validate(it); res.HasErrors() {
		respond.BadRequest(w, res.Error())
		return it, false
	}
	return it, true
}
