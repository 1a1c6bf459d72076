// internal/app/features/surveys/delete.go
package surveys

import (
	"context"
	"net/http"

	"github.com/dalemusser/canopyhub/internal/app/system/respond"
	"github.com/dalemusser/canopyhub/internal/app/system/timeouts"
	"github.com/dalemusser/canopyhub/internal/app/system/txn"
	"go.uber.org/zap"
)

// HandleDelete handles DELETE /kitchenSurveys/viewAll/{id}. The survey
// leaves each of its collections first, so the remaining areas are
// renumbered and emptied collections go away with it.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.PathID(w, r, "id")
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	store := h.surveys()
	err := txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
		sv, err := store.GetByID(ctx, id)
		if err != nil {
			return err
		}
		ids := membershipIDs(sv.Collections)
		if sv.CollectionID != nil {
			ids = append(ids, *sv.CollectionID)
		}
		for _, cid := range ids {
			if err := h.leave(ctx, cid, id); err != nil {
				return err
			}
		}
		return store.Delete(ctx, id)
	})
	if err != nil {
		h.fail(w, "Error deleting survey", err, zap.String("survey_id", id.Hex()))
		return
	}
	respond.Message(w, "Survey deleted successfully")
}
