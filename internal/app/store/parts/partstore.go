// internal/app/store/parts/partstore.go
package partstore

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

var ErrNotFound = errors.New("part not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("parts")}
}

// List returns parts sorted by category then item.
func (s *Store) List(ctx context.Context, category string) ([]models.Part, error) {
	filter := bson.M{}
	if category != "" {
		filter["category"] = category
	}
	opts := options.Find().SetSort(bson.D{{Key: "category", Value: 1}, {Key: "item", Value: 1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	parts := make([]models.Part, 0)
	if err := cur.All(ctx, &parts); err != nil {
		return nil, err
	}
	return parts, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Part, error) {
	var p models.Part
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Part{}, ErrNotFound
	}
	return p, err
}

func (s *Store) Create(ctx context.Context, p models.Part) (models.Part, error) {
	now := time.Now().UTC()
	p.ID = primitive.NewObjectID()
	p.CreatedAt = now
	p.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.Part{}, err
	}
	return p, nil
}

func (s *Store) Update(ctx context.Context, id primitive.ObjectID, p models.Part) (models.Part, error) {
	set := bson.M{
		"category":    p.Category,
		"item":        p.Item,
		"svgPath":     p.SvgPath,
		"aspectRatio": p.AspectRatio,
		"price":       p.Price,
		"dimensions":  p.Dimensions,
		"updatedAt":   time.Now().UTC(),
	}
	var out models.Part
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Part{}, ErrNotFound
	}
	return out, err
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
