// internal/app/features/surveys/areas.go
package surveys

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	collectionstore "github.com/dalemusser/canopyhub/internal/app/store/collections"
	surveystore "github.com/dalemusser/canopyhub/internal/app/store/surveys"
	"github.com/dalemusser/canopyhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/canopyhub/internal/app/system/respond"
	"github.com/dalemusser/canopyhub/internal/app/system/timeouts"
	"github.com/dalemusser/canopyhub/internal/app/system/txn"
	"github.com/dalemusser/canopyhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// IdempotencyHeader carries the client's key for retry-safe area creation.
const IdempotencyHeader = "Idempotency-Key"

type addAreaRequest struct {
	CollectionIDs []primitive.ObjectID `json:"collectionIds"`
	AreaName      string               `json:"areaName"`
}

// areaResult is returned by HandleAddArea.
type areaResult struct {
	Survey      models.Survey             `json:"survey"`
	Collections []models.SurveyCollection `json:"collections"`
}

// HandleAddArea handles POST /kitchenSurveys/viewAll/{id}/areas.
//
// The new area joins the collections named in the body, else the current
// survey's collections, else a new collection created around the current
// survey. Its areaIndex in each collection is the member count before it
// joins. A request repeated with the same Idempotency-Key returns the area
// created the first time.
func (h *Handler) HandleAddArea(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.PathID(w, r, "id")
	if !ok {
		return
	}
	var req addAreaRequest
	if err := respond.Decode(w, r, &req); err != nil && !errors.Is(err, respond.ErrEmptyBody) {
		respond.BadRequest(w, err.Error())
		return
	}
	key := r.Header.Get(IdempotencyHeader)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	store := h.surveys()
	if key != "" {
		prev, err := store.GetByIdempotencyKey(ctx, key)
		if err == nil {
			res, err := h.areaResult(ctx, prev)
			if err != nil {
				h.fail(w, "Error fetching area", err)
				return
			}
			respond.OK(w, res)
			return
		}
		if !errors.Is(err, surveystore.ErrNotFound) {
			h.fail(w, "Error checking idempotency key", err)
			return
		}
	}

	var created models.Survey
	err := txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
		cur, err := store.GetByID(ctx, id)
		if err != nil {
			return err
		}
		colls, err := h.resolveCollections(ctx, cur, req.CollectionIDs, key)
		if err != nil {
			return err
		}

		ms := make([]models.CollectionMembership, 0, len(colls))
		for i, c := range colls {
			n, err := store.CountInCollection(ctx, c.ID)
			if err != nil {
				return err
			}
			ms = append(ms, models.CollectionMembership{
				CollectionID:  c.ID,
				AreaIndex:     int(n),
				CollectionRef: c.CollectionRef,
				IsPrimary:     i == 0,
			})
		}

		ref, err := h.newRef(ctx, cur.Site)
		if err != nil {
			return err
		}
		area := newArea(cur, htmlsanitize.PlainText(req.AreaName))
		area.RefID = ref.String()
		area.Collections = ms
		area.IdempotencyKey = key

		created, err = store.Create(ctx, area)
		if err != nil {
			return err
		}
		if err := h.join(ctx, created.ID, ms); err != nil {
			return err
		}
		return h.verifyMembership(ctx, created.ID, ms)
	})
	if err != nil {
		h.fail(w, "Error adding area", err, zap.String("survey_id", id.Hex()))
		return
	}

	res, err := h.areaResult(ctx, created)
	if err != nil {
		h.fail(w, "Error fetching area", err, zap.String("survey_id", created.ID.Hex()))
		return
	}
	h.Log.Info("area added",
		zap.String("from_survey_id", id.Hex()),
		zap.String("survey_id", created.ID.Hex()),
		zap.String("ref_id", created.RefID))
	respond.Created(w, res)
}

// resolveCollections returns the collections a new area of cur joins.
func (h *Handler) resolveCollections(ctx context.Context, cur models.Survey, requested []primitive.ObjectID, key string) ([]models.SurveyCollection, error) {
	colls := h.collections()

	if len(requested) > 0 {
		out := make([]models.SurveyCollection, 0, len(requested))
		for _, cid := range requested {
			c, err := colls.GetByID(ctx, cid)
			if errors.Is(err, collectionstore.ErrNotFound) {
				return nil, fmt.Errorf("%w: %s", errUnknownCollection, cid.Hex())
			}
			if err != nil {
				return nil, err
			}
			out = append(out, c)
		}
		return out, nil
	}

	cur.Collections = models.NormalizeMemberships(cur.Collections, cur.CollectionID)
	out := make([]models.SurveyCollection, 0, len(cur.Collections))
	for _, m := range cur.Collections {
		c, err := colls.GetByID(ctx, m.CollectionID)
		if errors.Is(err, collectionstore.ErrNotFound) {
			h.Log.Warn("survey references a missing collection",
				zap.String("survey_id", cur.ID.Hex()),
				zap.String("collection_id", m.CollectionID.Hex()))
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if len(out) > 0 {
		return out, nil
	}

	// First extra area: build the collection around the current survey.
	if key != "" {
		if c, err := colls.GetByIdempotencyKey(ctx, key); err == nil {
			return []models.SurveyCollection{c}, nil
		}
	}
	c, err := colls.Create(ctx, models.SurveyCollection{
		CollectionRef:  cur.RefID,
		Site:           cur.Site,
		Surveys:        []primitive.ObjectID{cur.ID},
		IdempotencyKey: key,
	})
	if err != nil {
		return nil, err
	}
	ms := []models.CollectionMembership{{CollectionID: c.ID, AreaIndex: 0, CollectionRef: c.CollectionRef, IsPrimary: true}}
	if err := h.surveys().SetCollections(ctx, cur.ID, ms); err != nil {
		return nil, err
	}
	h.Log.Info("collection created for first extra area",
		zap.String("collection_id", c.ID.Hex()),
		zap.String("survey_id", cur.ID.Hex()))
	return []models.SurveyCollection{c}, nil
}

func (h *Handler) areaResult(ctx context.Context, sv models.Survey) (areaResult, error) {
	res := areaResult{Survey: sv, Collections: make([]models.SurveyCollection, 0, len(sv.Collections))}
	for _, m := range sv.Collections {
		c, err := h.collections().GetByID(ctx, m.CollectionID)
		if errors.Is(err, collectionstore.ErrNotFound) {
			continue
		}
		if err != nil {
			return areaResult{}, err
		}
		res.Collections = append(res.Collections, c)
	}
	return res, nil
}
