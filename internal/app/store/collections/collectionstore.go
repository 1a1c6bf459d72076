// internal/app/store/collections/collectionstore.go
package collectionstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/canopyhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection is the survey collections collection name.
const Collection = "surveyCollections"

var ErrNotFound = errors.New("collection not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection)}
}

func (s *Store) List(ctx context.Context, site primitive.ObjectID) ([]models.SurveyCollection, error) {
	filter := bson.M{}
	if !site.IsZero() {
		filter["site"] = site
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := make([]models.SurveyCollection, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.SurveyCollection, error) {
	var c models.SurveyCollection
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.SurveyCollection{}, ErrNotFound
	}
	return c, err
}

// GetByIdempotencyKey returns the collection created under key.
func (s *Store) GetByIdempotencyKey(ctx context.Context, key string) (models.SurveyCollection, error) {
	var c models.SurveyCollection
	err := s.c.FindOne(ctx, bson.M{"idempotencyKey": key}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.SurveyCollection{}, ErrNotFound
	}
	return c, err
}

func (s *Store) Create(ctx context.Context, c models.SurveyCollection) (models.SurveyCollection, error) {
	now := time.Now().UTC()
	c.ID = primitive.NewObjectID()
	if c.Surveys == nil {
		c.Surveys = []primitive.ObjectID{}
	}
	c.TotalAreas = len(c.Surveys)
	c.CreatedAt = now
	c.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, c); err != nil {
		return models.SurveyCollection{}, err
	}
	return c, nil
}

// UpdateInfo changes the name and reference of collection id.
func (s *Store) UpdateInfo(ctx context.Context, id primitive.ObjectID, name, ref string) (models.SurveyCollection, error) {
	set := bson.M{"updatedAt": time.Now().UTC(), "name": name}
	if ref != "" {
		set["collectionRef"] = ref
	}
	var out models.SurveyCollection
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.SurveyCollection{}, ErrNotFound
	}
	return out, err
}

// Rename sets the collectionRef of collection id.
func (s *Store) Rename(ctx context.Context, id primitive.ObjectID, ref string) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"collectionRef": ref, "updatedAt": time.Now().UTC()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// sizeUpdate keeps totalAreas equal to the length of the surveys array.
var sizeUpdate = bson.M{"$set": bson.M{"totalAreas": bson.M{"$size": "$surveys"}}}

// AddSurvey appends survey sid to collection id (no-op when present).
func (s *Store) AddSurvey(ctx context.Context, id, sid primitive.ObjectID) error {
	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"surveys": bson.M{"$cond": bson.A{
				bson.M{"$in": bson.A{sid, bson.M{"$ifNull": bson.A{"$surveys", bson.A{}}}}},
				"$surveys",
				bson.M{"$concatArrays": bson.A{bson.M{"$ifNull": bson.A{"$surveys", bson.A{}}}, bson.A{sid}}},
			}},
			"updatedAt": time.Now().UTC(),
		}}},
		{{Key: "$set", Value: sizeUpdate["$set"]}},
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, pipeline)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// RemoveSurvey pulls survey sid from collection id and returns the
// remaining member ids in order.
func (s *Store) RemoveSurvey(ctx context.Context, id, sid primitive.ObjectID) ([]primitive.ObjectID, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"surveys": bson.M{"$filter": bson.M{
				"input": bson.M{"$ifNull": bson.A{"$surveys", bson.A{}}},
				"cond":  bson.M{"$ne": bson.A{"$$this", sid}},
			}},
			"updatedAt": time.Now().UTC(),
		}}},
		{{Key: "$set", Value: sizeUpdate["$set"]}},
	}
	var out models.SurveyCollection
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, pipeline,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return out.Surveys, nil
}

// Contains reports whether collection id lists survey sid.
func (s *Store) Contains(ctx context.Context, id, sid primitive.ObjectID) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"_id": id, "surveys": sid}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
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
