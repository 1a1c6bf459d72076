// internal/app/features/surveys/create.go
package surveys

import (
	"context"
	"net/http"

	"github.com/dalemusser/canopyhub/internal/app/system/respond"
	"github.com/dalemusser/canopyhub/internal/app/system/timeouts"
	"github.com/dalemusser/canopyhub/internal/app/system/txn"
	"github.com/dalemusser/canopyhub/internal/domain/models"
	"go.uber.org/zap"
)

// HandleCreate handles POST /kitchenSurveys. A REF is generated when the
// body has none; a supplied REF that is already taken is a 409. The survey
// is appended to every collection it claims membership of.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	sv, ok := decodeSurvey(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	store := h.surveys()
	if sv.RefID != "" {
		taken, err := store.RefExists(ctx, sv.RefID)
		if err != nil {
			respond.ServerError(w, h.Log, "Error checking REF", err)
			return
		}
		if taken {
			respond.Conflict(w, "A survey with this REF already exists")
			return
		}
	}

	var created models.Survey
	err := txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
		if sv.RefID == "" {
			ref, err := h.newRef(ctx, sv.Site)
			if err != nil {
				return err
			}
			sv.RefID = ref.String()
		}
		var err error
		created, err = store.Create(ctx, sv)
		if err != nil {
			return err
		}
		return h.join(ctx, created.ID, created.Collections)
	})
	if err != nil {
		h.fail(w, "Error creating survey", err)
		return
	}
	h.Log.Info("survey created", zap.String("survey_id", created.ID.Hex()), zap.String("ref_id", created.RefID))
	respond.Created(w, created)
}
