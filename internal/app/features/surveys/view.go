// internal/app/features/surveys/view.go
package surveys

import (
	"context"
	"errors"
	"net/http"
	"strings"

	collectionstore "github.com/dalemusser/canopyhub/internal/app/store/collections"
	surveystore "github.com/dalemusser/canopyhub/internal/app/store/surveys"
	"github.com/dalemusser/canopyhub/internal/app/system/respond"
	"github.com/dalemusser/canopyhub/internal/app/system/timeouts"
	"github.com/dalemusser/canopyhub/internal/domain/models"
	"go.uber.org/zap"
)

// ServeList handles GET /kitchenSurveys/viewAll (?site=, ?collection=).
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	site, ok := respond.QueryID(w, r, "site")
	if !ok {
		return
	}
	coll, ok := respond.QueryID(w, r, "collection")
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	items, err := h.surveys().List(ctx, surveystore.ListFilter{Site: site, Collection: coll})
	if err != nil {
		respond.ServerError(w, h.Log, "Error fetching surveys", err)
		return
	}
	respond.OK(w, items)
}

// surveyView is the GET /viewAll/{id} payload.
type surveyView struct {
	Survey     models.Survey      `json:"survey"`
	Collection *collectionSummary `json:"collection"`
}

// ServeView handles GET /kitchenSurveys/viewAll/{id}: the survey plus a
// summary of its primary collection, or null when it has none.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.PathID(w, r, "id")
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	sv, err := h.surveys().GetByID(ctx, id)
	if err != nil {
		h.fail(w, "Error fetching survey", err, zap.String("survey_id", id.Hex()))
		return
	}
	surveystore.Normalize(&sv)

	view := surveyView{Survey: sv}
	if m, ok := sv.PrimaryMembership(); ok {
		c, err := h.collections().GetByID(ctx, m.CollectionID)
		switch {
		case errors.Is(err, collectionstore.ErrNotFound):
			h.Log.Warn("survey references a missing collection",
				zap.String("survey_id", id.Hex()),
				zap.String("collection_id", m.CollectionID.Hex()))
		case err != nil:
			h.fail(w, "Error fetching collection", err, zap.String("survey_id", id.Hex()))
			return
		default:
			sum, err := h.summarize(ctx, c)
			if err != nil {
				h.fail(w, "Error fetching collection", err, zap.String("survey_id", id.Hex()))
				return
			}
			view.Collection = &sum
		}
	}
	respond.OK(w, view)
}

// ServeCheckRef handles GET /kitchenSurveys/checkRef?refId=...
func (h *Handler) ServeCheckRef(w http.ResponseWriter, r *http.Request) {
	ref := strings.TrimSpace(r.URL.Query().Get("refId"))
	if ref == "" {
		respond.BadRequest(w, "refId is required")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	exists, err := h.surveys().RefExists(ctx, ref)
	if err != nil {
		respond.ServerError(w, h.Log, "Error checking REF", err, zap.String("ref_id", ref))
		return
	}
	respond.OK(w, map[string]bool{"exists": exists})
}
