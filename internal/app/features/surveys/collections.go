// internal/app/features/surveys/collections.go
package surveys

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/canopyhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/canopyhub/internal/app/system/relations"
	"github.com/dalemusser/canopyhub/internal/app/system/respond"
	"github.com/dalemusser/canopyhub/internal/app/system/timeouts"
	"github.com/dalemusser/canopyhub/internal/app/system/txn"
	"github.com/dalemusser/canopyhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type collectionRequest struct {
	CollectionRef string               `json:"collectionRef"`
	Name          string               `json:"name"`
	Site          *primitive.ObjectID  `json:"site"`
	Surveys       []primitive.ObjectID `json:"surveys"`
}

// ServeCollections handles GET /collections (?site=).
func (h *Handler) ServeCollections(w http.ResponseWriter, r *http.Request) {
	site, ok := respond.QueryID(w, r, "site")
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	items, err := h.collections().List(ctx, site)
	if err != nil {
		respond.ServerError(w, h.Log, "Error fetching collections", err)
		return
	}
	respond.OK(w, items)
}

// ServeCollection handles GET /collections/{id}.
func (h *Handler) ServeCollection(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.PathID(w, r, "id")
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	c, err := h.collections().GetByID(ctx, id)
	if err != nil {
		h.fail(w, "Error fetching collection", err, zap.String("collection_id", id.Hex()))
		return
	}
	sum, err := h.summarize(ctx, c)
	if err != nil {
		h.fail(w, "Error fetching collection", err, zap.String("collection_id", id.Hex()))
		return
	}
	respond.OK(w, sum)
}

// HandleCreateCollection handles POST /collections. Listed surveys join the
// new collection in the order given. A REF is generated when none is sent.
func (h *Handler) HandleCreateCollection(w http.ResponseWriter, r *http.Request) {
	var req collectionRequest
	if err := respond.Decode(w, r, &req); err != nil {
		respond.BadRequest(w, err.Error())
		return
	}
	ids, _ := relations.ObjectIDs(req.Surveys)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	store := h.surveys()
	var created models.SurveyCollection
	err := txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
		ref := strings.TrimSpace(req.CollectionRef)
		if ref == "" {
			gen, err := h.newRef(ctx, req.Site)
			if err != nil {
				return err
			}
			ref = gen.String()
		}
		members, err := store.GetByIDs(ctx, ids)
		if err != nil {
			return err
		}
		if len(members) != len(ids) {
			return errUnknownSurvey
		}

		c, err := h.collections().Create(ctx, models.SurveyCollection{
			CollectionRef: ref,
			Name:          htmlsanitize.PlainText(req.Name),
			Site:          req.Site,
			Surveys:       ids,
		})
		if err != nil {
			return err
		}
		for i, sv := range members {
			ms := append(sv.Collections, models.CollectionMembership{
				CollectionID:  c.ID,
				AreaIndex:     i,
				CollectionRef: c.CollectionRef,
			})
			if err := store.SetCollections(ctx, sv.ID, models.NormalizeMemberships(ms, sv.CollectionID)); err != nil {
				return err
			}
		}
		created = c
		return nil
	})
	if err != nil {
		h.fail(w, "Error creating collection", err)
		return
	}
	respond.Created(w, created)
}

// HandleUpdateCollection handles PUT /collections/{id}. A new REF is copied
// onto the members' membership entries.
func (h *Handler) HandleUpdateCollection(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.PathID(w, r, "id")
	if !ok {
		return
	}
	var req collectionRequest
	if err := respond.Decode(w, r, &req); err != nil {
		respond.BadRequest(w, err.Error())
		return
	}
	ref := strings.TrimSpace(req.CollectionRef)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	var updated models.SurveyCollection
	err := txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
		var err error
		updated, err = h.collections().UpdateInfo(ctx, id, htmlsanitize.PlainText(req.Name), ref)
		if err != nil {
			return err
		}
		if ref == "" {
			return nil
		}
		return h.surveys().SetCollectionRef(ctx, id, ref)
	})
	if err != nil {
		h.fail(w, "Error updating collection", err, zap.String("collection_id", id.Hex()))
		return
	}
	respond.OK(w, updated)
}

// HandleDeleteCollection handles DELETE /collections/{id}. The surveys are
// kept; only their membership in this collection is removed.
func (h *Handler) HandleDeleteCollection(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.PathID(w, r, "id")
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	err := txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
		if _, err := h.collections().GetByID(ctx, id); err != nil {
			return err
		}
		if err := h.surveys().RemoveCollection(ctx, id); err != nil {
			return err
		}
		return h.collections().Delete(ctx, id)
	})
	if err != nil {
		h.fail(w, "Error deleting collection", err, zap.String("collection_id", id.Hex()))
		return
	}
	respond.Message(w, "Collection deleted successfully")
}
