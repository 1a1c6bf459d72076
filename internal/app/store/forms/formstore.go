// internal/app/store/forms/formstore.go
package formstore

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

var (
	ErrNotFound = errors.New("form not found")
	ErrInUse    = errors.New("form is used by one or more products")
)

type Store struct {
	c        *mongo.Collection
	products *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("forms"), products: db.Collection("products")}
}

func (s *Store) List(ctx context.Context) ([]models.Form, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	forms := make([]models.Form, 0)
	if err := cur.All(ctx, &forms); err != nil {
		return nil, err
	}
	return forms, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Form, error) {
	var f models.Form
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&f)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Form{}, ErrNotFound
	}
	return f, err
}

func (s *Store) Create(ctx context.Context, f models.Form) (models.Form, error) {
	now := time.Now().UTC()
	f.ID = primitive.NewObjectID()
	if f.Fields == nil {
		f.Fields = []primitive.ObjectID{}
	}
	f.CreatedAt = now
	f.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, f); err != nil {
		return models.Form{}, err
	}
	return f, nil
}

func (s *Store) Update(ctx context.Context, id primitive.ObjectID, f models.Form) (models.Form, error) {
	if f.Fields == nil {
		f.Fields = []primitive.ObjectID{}
	}
	set := bson.M{
		"name":      f.Name,
		"category":  f.Category,
		"fields":    f.Fields,
		"updatedAt": time.Now().UTC(),
	}
	var out models.Form
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Form{}, ErrNotFound
	}
	return out, err
}

// Delete refuses to remove a form that products still reference.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	n, err := s.products.CountDocuments(ctx, bson.M{"form": id}, options.Count().SetLimit(1))
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrInUse
	}
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
