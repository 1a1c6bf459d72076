// internal/app/features/surveys/membership.go
package surveys

import (
	"context"
	"errors"
	"fmt"

	collectionstore "github.com/dalemusser/canopyhub/internal/app/store/collections"
	"github.com/dalemusser/canopyhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// join appends survey sid to every collection in ms.
func (h *Handler) join(ctx context.Context, sid primitive.ObjectID, ms []models.CollectionMembership) error {
	colls := h.collections()
	for _, m := range ms {
		if err := colls.AddSurvey(ctx, m.CollectionID, sid); err != nil {
			if errors.Is(err, collectionstore.ErrNotFound) {
				return fmt.Errorf("%w: %s", errUnknownCollection, m.CollectionID.Hex())
			}
			return err
		}
	}
	return nil
}

// leave removes survey sid from collection cid. The remaining members are
// renumbered by their position in the collection; a collection left empty is
// deleted. A missing collection is not an error.
func (h *Handler) leave(ctx context.Context, cid, sid primitive.ObjectID) error {
	colls := h.collections()
	rest, err := colls.RemoveSurvey(ctx, cid, sid)
	if errors.Is(err, collectionstore.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if len(rest) == 0 {
		h.Log.Info("deleting empty collection", zap.String("collection_id", cid.Hex()))
		return colls.Delete(ctx, cid)
	}
	store := h.surveys()
	for i, id := range rest {
		if err := store.SetAreaIndex(ctx, id, cid, i); err != nil {
			return err
		}
	}
	return nil
}

// verifyMembership re-adds sid to any collection in ms that does not list
// it. Nothing should need repair when the writes ran in one transaction;
// the check matters on deployments without transactions.
func (h *Handler) verifyMembership(ctx context.Context, sid primitive.ObjectID, ms []models.CollectionMembership) error {
	colls := h.collections()
	for _, m := range ms {
		ok, err := colls.Contains(ctx, m.CollectionID, sid)
		if err != nil {
			return err
		}
		if ok {
			continue
		}
		h.Log.Warn("survey missing from its collection, repairing",
			zap.String("survey_id", sid.Hex()),
			zap.String("collection_id", m.CollectionID.Hex()))
		if err := colls.AddSurvey(ctx, m.CollectionID, sid); err != nil {
			return err
		}
	}
	return nil
}
