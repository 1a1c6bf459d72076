// internal/app/store/surveys/surveystore.go
package surveystore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/canopyhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection is the surveys collection name.
const Collection = "surveys"

var (
	ErrNotFound     = errors.New("survey not found")
	ErrDuplicateRef = errors.New("a survey with this REF already exists")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection)}
}

// ListFilter narrows List. Zero values match everything.
type ListFilter struct {
	Site       primitive.ObjectID
	Collection primitive.ObjectID
	Limit      int64
}

// List returns surveys newest first. Filtering by collection returns the
// members ordered by area index instead.
func (s *Store) List(ctx context.Context, f ListFilter) ([]models.Survey, error) {
	filter := bson.M{}
	sort := bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}
	if !f.Site.IsZero() {
		filter["site"] = f.Site
	}
	if !f.Collection.IsZero() {
		filter["collections.collectionId"] = f.Collection
		sort = bson.D{{Key: "collections.areaIndex", Value: 1}, {Key: "_id", Value: 1}}
	}
	opts := options.Find().SetSort(sort)
	if f.Limit > 0 {
		opts.SetLimit(f.Limit)
	}
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := make([]models.Survey, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Survey, error) {
	var sv models.Survey
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&sv)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Survey{}, ErrNotFound
	}
	return sv, err
}

// GetByIDs loads surveys in the order of ids. Missing ids are skipped.
func (s *Store) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Survey, error) {
	if len(ids) == 0 {
		return []models.Survey{}, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	byID := make(map[primitive.ObjectID]models.Survey, len(ids))
	for cur.Next(ctx) {
		var sv models.Survey
		if err := cur.Decode(&sv); err != nil {
			return nil, err
		}
		byID[sv.ID] = sv
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	out := make([]models.Survey, 0, len(byID))
	for _, id := range ids {
		if sv, ok := byID[id]; ok {
			out = append(out, sv)
		}
	}
	return out, nil
}

// GetByIdempotencyKey returns the survey created under key.
func (s *Store) GetByIdempotencyKey(ctx context.Context, key string) (models.Survey, error) {
	var sv models.Survey
	err := s.c.FindOne(ctx, bson.M{"idempotencyKey": key}).Decode(&sv)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Survey{}, ErrNotFound
	}
	return sv, err
}

// RefExists reports whether ref is already assigned.
func (s *Store) RefExists(ctx context.Context, ref string) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"refId": ref}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Create inserts sv with a new id, normalizing nil slices and maps.
func (s *Store) Create(ctx context.Context, sv models.Survey) (models.Survey, error) {
	now := time.Now().UTC()
	sv.ID = primitive.NewObjectID()
	sv.CreatedAt = now
	sv.UpdatedAt = now
	Normalize(&sv)
	if _, err := s.c.InsertOne(ctx, sv); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Survey{}, ErrDuplicateRef
		}
		return models.Survey{}, err
	}
	return sv, nil
}

// Replace overwrites survey id with sv, keeping its creation time and
// idempotency key. A legacy collectionId is folded into Collections by
// Normalize and not stored.
func (s *Store) Replace(ctx context.Context, id primitive.ObjectID, sv models.Survey) (models.Survey, error) {
	cur, err := s.GetByID(ctx, id)
	if err != nil {
		return models.Survey{}, err
	}
	sv.ID = id
	sv.CreatedAt = cur.CreatedAt
	sv.IdempotencyKey = cur.IdempotencyKey
	sv.UpdatedAt = time.Now().UTC()
	Normalize(&sv)

	res, err := s.c.ReplaceOne(ctx, bson.M{"_id": id}, sv)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.Survey{}, ErrDuplicateRef
		}
		return models.Survey{}, err
	}
	if res.MatchedCount == 0 {
		return models.Survey{}, ErrNotFound
	}
	return sv, nil
}

// SetCollections replaces the membership list of survey id.
func (s *Store) SetCollections(ctx context.Context, id primitive.ObjectID, ms []models.CollectionMembership) error {
	if ms == nil {
		ms = []models.CollectionMembership{}
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set":   bson.M{"collections": ms, "updatedAt": time.Now().UTC()},
		"$unset": bson.M{"collectionId": ""},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// CountInCollection returns how many surveys belong to collection cid.
func (s *Store) CountInCollection(ctx context.Context, cid primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"collections.collectionId": cid})
}

// SetAreaIndex sets the area index of survey id within collection cid.
func (s *Store) SetAreaIndex(ctx context.Context, id, cid primitive.ObjectID, idx int) error {
	_, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"collections.$[m].areaIndex": idx}},
		options.Update().SetArrayFilters(options.ArrayFilters{
			Filters: []interface{}{bson.M{"m.collectionId": cid}},
		}),
	)
	return err
}

// SetCollectionRef rewrites the cached collectionRef on every member of cid.
func (s *Store) SetCollectionRef(ctx context.Context, cid primitive.ObjectID, ref string) error {
	_, err := s.c.UpdateMany(ctx,
		bson.M{"collections.collectionId": cid},
		bson.M{"$set": bson.M{"collections.$[m].collectionRef": ref}},
		options.Update().SetArrayFilters(options.ArrayFilters{
			Filters: []interface{}{bson.M{"m.collectionId": cid}},
		}),
	)
	return err
}

// RemoveCollection drops collection cid from every survey's memberships and
// re-promotes a primary where the removed entry was primary.
func (s *Store) RemoveCollection(ctx context.Context, cid primitive.ObjectID) error {
	cur, err := s.c.Find(ctx, bson.M{"collections.collectionId": cid},
		options.Find().SetProjection(bson.M{"collections": 1}))
	if err != nil {
		return err
	}
	var docs []models.Survey
	if err := cur.All(ctx, &docs); err != nil {
		return err
	}
	for _, sv := range docs {
		kept := make([]models.CollectionMembership, 0, len(sv.Collections))
		for _, m := range sv.Collections {
			if m.CollectionID != cid {
				kept = append(kept, m)
			}
		}
		if err := s.SetCollections(ctx, sv.ID, models.NormalizeMemberships(kept, nil)); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Normalize replaces nil slices and maps with empty ones and folds the legacy
// collection reference into the membership list.
func Normalize(sv *models.Survey) {
	sv.Collections = models.NormalizeMemberships(sv.Collections, sv.CollectionID)
	sv.CollectionID = nil
	if sv.Contacts == nil {
		sv.Contacts = []primitive.ObjectID{}
	}
	if sv.Totals == nil {
		sv.Totals = map[string]models.PriceTotal{}
	}
	e := &sv.Equipment
	if e.Entries == nil {
		e.Entries = []bson.M{}
	}
	if e.SubcategoryComments == nil {
		e.SubcategoryComments = map[string]string{}
	}
	sp := &sv.Specialist
	if sp.Entries == nil {
		sp.Entries = []bson.M{}
	}
	if sp.CategoryComments == nil {
		sp.CategoryComments = map[string]string{}
	}
	c := &sv.Canopy
	if c.Entries == nil {
		c.Entries = []bson.M{}
	}
	if c.Comments == nil {
		c.Comments = map[string]string{}
	}
	sc := &sv.Schematic
	if sc.PlacedItems == nil {
		sc.PlacedItems = []models.PlacedItem{}
	}
	if sc.Connections == nil {
		sc.Connections = []bson.M{}
	}
	if sc.AccessDoorSelections == nil {
		sc.AccessDoorSelections = []models.DoorSelection{}
	}
}
