// internal/app/store/products/productstore.go
package productstore

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

var ErrNotFound = errors.New("product not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("products")}
}

// ListFilter narrows List. Zero values match everything.
type ListFilter struct {
	Category string
	Type     string
	Form     primitive.ObjectID
}

func (s *Store) List(ctx context.Context, f ListFilter) ([]models.Product, error) {
	filter := bson.M{}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if f.Type != "" {
		filter["type"] = f.Type
	}
	if !f.Form.IsZero() {
		filter["form"] = f.Form
	}
	opts := options.Find().SetSort(bson.D{{Key: "category", Value: 1}, {Key: "name", Value: 1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	products := make([]models.Product, 0)
	if err := cur.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Product, error) {
	var p models.Product
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Product{}, ErrNotFound
	}
	return p, err
}

func (s *Store) Create(ctx context.Context, p models.Product) (models.Product, error) {
	now := time.Now().UTC()
	p.ID = primitive.NewObjectID()
	if p.CustomFields == nil {
		p.CustomFields = []models.FieldValue{}
	}
	p.CreatedAt = now
	p.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.Product{}, err
	}
	return p, nil
}

func (s *Store) Update(ctx context.Context, id primitive.ObjectID, p models.Product) (models.Product, error) {
	if p.CustomFields == nil {
		p.CustomFields = []models.FieldValue{}
	}
	set := bson.M{
		"category":     p.Category,
		"name":         p.Name,
		"type":         p.Type,
		"form":         p.Form,
		"customFields": p.CustomFields,
		"price":        p.Price,
		"description":  p.Description,
		"updatedAt":    time.Now().UTC(),
	}
	var out models.Product
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Product{}, ErrNotFound
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
