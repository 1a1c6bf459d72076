// internal/app/features/surveys/version.go
package surveys

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/canopyhub/internal/app/system/refid"
	"github.com/dalemusser/canopyhub/internal/app/system/respond"
	"github.com/dalemusser/canopyhub/internal/app/system/timeouts"
	"github.com/dalemusser/canopyhub/internal/domain/models"
	"go.uber.org/zap"
)

// HandleNewVersion handles PATCH /kitchenSurveys/viewAll/{id}: the survey is
// saved as a new document whose REF has the next free version letter. A
// body, when sent, supplies the content of the new version; otherwise the
// stored survey is copied. The new version belongs to no collection.
func (h *Handler) HandleNewVersion(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.PathID(w, r, "id")
	if !ok {
		return
	}
	var body models.Survey
	hasBody := true
	if err := respond.Decode(w, r, &body); err != nil {
		if !errors.Is(err, respond.ErrEmptyBody) {
			respond.BadRequest(w, err.Error())
			return
		}
		hasBody = false
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	store := h.surveys()
	cur, err := store.GetByID(ctx, id)
	if err != nil {
		h.fail(w, "Error fetching survey", err, zap.String("survey_id", id.Hex()))
		return
	}
	src := cur
	if hasBody {
		sanitize(&body)
		src = body
	}

	var next refid.Ref
	if base, perr := refid.Parse(cur.RefID); perr == nil {
		next, err = h.refs().NextFree(ctx, base)
	} else {
		h.Log.Warn("survey REF is malformed, allocating a new one",
			zap.String("survey_id", id.Hex()), zap.String("ref_id", cur.RefID))
		next, err = h.newRef(ctx, cur.Site)
	}
	if err != nil {
		h.fail(w, "Error allocating REF", err, zap.String("survey_id", id.Hex()))
		return
	}

	clone := cloneContent(src)
	clone.RefID = next.String()
	created, err := store.Create(ctx, clone)
	if err != nil {
		h.fail(w, "Error creating survey version", err, zap.String("survey_id", id.Hex()))
		return
	}
	h.Log.Info("survey version created",
		zap.String("survey_id", id.Hex()),
		zap.String("new_id", created.ID.Hex()),
		zap.String("ref_id", created.RefID))
	respond.Created(w, created)
}
