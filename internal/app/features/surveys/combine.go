// internal/app/features/surveys/combine.go
package surveys

import (
	"context"
	"net/http"

	surveystore "github.com/dalemusser/canopyhub/internal/app/store/surveys"
	"github.com/dalemusser/canopyhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/canopyhub/internal/app/system/relations"
	"github.com/dalemusser/canopyhub/internal/app/system/respond"
	"github.com/dalemusser/canopyhub/internal/app/system/timeouts"
	"github.com/dalemusser/canopyhub/internal/app/system/txn"
	"github.com/dalemusser/canopyhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type combineRequest struct {
	SurveyIDs []primitive.ObjectID `json:"surveyIds"`
	Name      string               `json:"name"`
}

type combineResult struct {
	Collection models.SurveyCollection `json:"collection"`
	Surveys    []models.Survey         `json:"surveys"`
}

// HandleCombine handles POST /kitchenSurveys/combine. Each selected survey
// is copied into a new survey of a new collection, in the order given; the
// originals are left untouched. The first copy's REF is the collection REF.
func (h *Handler) HandleCombine(w http.ResponseWriter, r *http.Request) {
	var req combineRequest
	if err := respond.Decode(w, r, &req); err != nil {
		respond.BadRequest(w, err.Error())
		return
	}
	ids, _ := relations.ObjectIDs(req.SurveyIDs)
	if len(ids) == 0 {
		h.fail(w, "Error combining surveys", errNoSurveys)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Batch(), h.Log, "combine areas")
	defer cancel()

	store := h.surveys()
	var res combineResult
	err := txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
		srcs, err := store.GetByIDs(ctx, ids)
		if err != nil {
			return err
		}
		if len(srcs) != len(ids) {
			return surveystore.ErrNotFound
		}

		cref, err := h.newRef(ctx, srcs[0].Site)
		if err != nil {
			return err
		}
		coll, err := h.collections().Create(ctx, models.SurveyCollection{
			CollectionRef: cref.String(),
			Name:          htmlsanitize.PlainText(req.Name),
			Site:          srcs[0].Site,
		})
		if err != nil {
			return err
		}

		res.Surveys = make([]models.Survey, 0, len(srcs))
		for i, src := range srcs {
			clone := cloneContent(src)
			if i == 0 {
				clone.RefID = cref.String()
			} else {
				ref, err := h.newRef(ctx, src.Site)
				if err != nil {
					return err
				}
				clone.RefID = ref.String()
			}
			clone.Collections = []models.CollectionMembership{{
				CollectionID:  coll.ID,
				AreaIndex:     i,
				CollectionRef: coll.CollectionRef,
				IsPrimary:     true,
			}}
			created, err := store.Create(ctx, clone)
			if err != nil {
				return err
			}
			if err := h.join(ctx, created.ID, created.Collections); err != nil {
				return err
			}
			res.Surveys = append(res.Surveys, created)
		}

		res.Collection, err = h.collections().GetByID(ctx, coll.ID)
		return err
	})
	if err != nil {
		h.fail(w, "Error combining surveys", err)
		return
	}
	h.Log.Info("surveys combined",
		zap.String("collection_id", res.Collection.ID.Hex()),
		zap.Int("areas", len(res.Surveys)))
	respond.Created(w, res)
}
