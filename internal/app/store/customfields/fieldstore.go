// internal/app/store/customfields/fieldstore.go
package fieldstore

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

var ErrNotFound = errors.New("custom field not found")

type Store struct {
	c     *mongo.Collection
	forms *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("customFields"), forms: db.Collection("forms")}
}

func (s *Store) List(ctx context.Context, category string) ([]models.CustomField, error) {
	filter := bson.M{}
	if category != "" {
		filter["category"] = category
	}
	opts := options.Find().SetSort(bson.D{{Key: "category", Value: 1}, {Key: "label", Value: 1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	fields := make([]models.CustomField, 0)
	if err := cur.All(ctx, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.CustomField, error) {
	var f models.CustomField
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&f)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.CustomField{}, ErrNotFound
	}
	return f, err
}

// GetByIDs loads the given fields keyed by id. Missing ids are absent from
// the map.
func (s *Store) GetByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.CustomField, error) {
	out := make(map[primitive.ObjectID]models.CustomField, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var f models.CustomField
		if err := cur.Decode(&f); err != nil {
			return nil, err
		}
		out[f.ID] = f
	}
	return out, cur.Err()
}

func (s *Store) Create(ctx context.Context, f models.CustomField) (models.CustomField, error) {
	now := time.Now().UTC()
	f.ID = primitive.NewObjectID()
	f.CreatedAt = now
	f.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, f); err != nil {
		return models.CustomField{}, err
	}
	return f, nil
}

func (s *Store) Update(ctx context.Context, id primitive.ObjectID, f models.CustomField) (models.CustomField, error) {
	set := bson.M{
		"label":     f.Label,
		"fieldType": f.FieldType,
		"options":   f.Options,
		"required":  f.Required,
		"category":  f.Category,
		"updatedAt": time.Now().UTC(),
	}
	var out models.CustomField
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.CustomField{}, ErrNotFound
	}
	return out, err
}

// Delete removes the field and pulls it from every form that lists it.
// Run inside txn.Run.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	_, err = s.forms.UpdateMany(ctx, bson.M{"fields": id}, bson.M{
		"$pull": bson.M{"fields": id},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	})
	return err
}
