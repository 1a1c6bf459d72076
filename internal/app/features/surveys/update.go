// internal/app/features/surveys/update.go
package surveys

import (
	"context"
	"net/http"

	"github.com/dalemusser/canopyhub/internal/app/system/relations"
	"github.com/dalemusser/canopyhub/internal/app/system/respond"
	"github.com/dalemusser/canopyhub/internal/app/system/timeouts"
	"github.com/dalemusser/canopyhub/internal/app/system/txn"
	"github.com/dalemusser/canopyhub/internal/domain/models"
	"go.uber.org/zap"
)

// HandleUpdate handles PUT /kitchenSurveys/viewAll/{id}.
//
// Only the top-level fields present in the body change; each one sent
// replaces the stored field whole. Memberships are normalized (the legacy
// collectionId is folded in and exactly one entry is primary) and the
// collections' member lists follow any membership change. When the survey
// is the first area of its primary collection and its REF changed, the
// collection takes the new REF.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.PathID(w, r, "id")
	if !ok {
		return
	}
	body, keys, ok := decodeSurveyFields(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	store := h.surveys()
	var updated models.Survey
	err := txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
		cur, err := store.GetByID(ctx, id)
		if err != nil {
			return err
		}
		sv := applyFields(cur, body, keys)
		if sv.RefID == "" {
			sv.RefID = cur.RefID
		}
		updated, err = store.Replace(ctx, id, sv)
		if err != nil {
			return err
		}

		added, removed := relations.Diff(membershipIDs(cur.Collections), membershipIDs(updated.Collections))
		for _, cid := range removed {
			if err := h.leave(ctx, cid, id); err != nil {
				return err
			}
		}
		var joined []models.CollectionMembership
		for _, m := range updated.Collections {
			for _, cid := range added {
				if m.CollectionID == cid {
					joined = append(joined, m)
				}
			}
		}
		if err := h.join(ctx, id, joined); err != nil {
			return err
		}

		prim, ok := updated.PrimaryMembership()
		if !ok || prim.AreaIndex != 0 || updated.RefID == cur.RefID {
			return nil
		}
		if err := h.collections().Rename(ctx, prim.CollectionID, updated.RefID); err != nil {
			return err
		}
		if err := store.SetCollectionRef(ctx, prim.CollectionID, updated.RefID); err != nil {
			return err
		}
		h.Log.Info("collection renamed after REF change",
			zap.String("collection_id", prim.CollectionID.Hex()),
			zap.String("ref_id", updated.RefID))
		updated, err = store.GetByID(ctx, id)
		return err
	})
	if err != nil {
		h.fail(w, "Error updating survey", err, zap.String("survey_id", id.Hex()))
		return
	}
	respond.OK(w, updated)
}
