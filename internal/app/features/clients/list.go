// internal/app/features/clients/list.go
package clients

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	clientstore "github.com/dalemusser/canopyhub/internal/app/store/clients"
	"github.com/dalemusser/canopyhub/internal/app/system/paging"
	"github.com/dalemusser/canopyhub/internal/app/system/respond"
	"github.com/dalemusser/canopyhub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Page cursors ride in headers so the body stays a plain array.
const (
	prevCursorHeader = "X-Prev-Cursor"
	nextCursorHeader = "X-Next-Cursor"
)

// ServeList handles GET /{kind}.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	store, ok := h.store(w, r)
	if !ok {
		return
	}
	var limit int64
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 0 {
			respond.BadRequest(w, "limit must be a positive number")
			return
		}
		limit = n
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	q := r.URL.Query()
	page, err := store.List(ctx, clientstore.ListOptions{
		Search: q.Get("search"),
		Before: q.Get("before"),
		After:  q.Get("after"),
		Limit:  limit,
	})
	if errors.Is(err, paging.ErrBadCursor) {
		respond.BadRequest(w, "Invalid page cursor")
		return
	}
	if err != nil {
		respond.ServerError(w, h.Log, "Error listing "+store.Kind().Name, err)
		return
	}
	if page.PrevCursor != "" {
		w.Header().Set(prevCursorHeader, page.PrevCursor)
	}
	if page.NextCursor != "" {
		w.Header().Set(nextCursorHeader, page.NextCursor)
	}
	respond.OK(w, page.Items)
}

// ServeGet handles GET /{kind}/{id}.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	store, ok := h.store(w, r)
	if !ok {
		return
	}
	id, ok := respond.PathID(w, r, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	item, err := store.Get(ctx, id)
	if err != nil {
		h.notFoundOr500(w, store.Kind().Label, "Error fetching", err, zap.String("id", id.Hex()))
		return
	}
	respond.OK(w, item)
}
