// internal/app/store/pricelist/pricestore.go
package pricestore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/canopyhub/internal/app/system/csvutil"
	"github.com/dalemusser/canopyhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection is the price list collection name.
const Collection = "priceList"

var (
	ErrNotFound  = errors.New("price list item not found")
	ErrDuplicate = errors.New("a price list item with this category, subcategory and item already exists")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection)}
}

var sortNatural = bson.D{
	{Key: "category", Value: 1},
	{Key: "subcategory", Value: 1},
	{Key: "item", Value: 1},
}

// List returns items sorted by natural key, optionally filtered by category.
func (s *Store) List(ctx context.Context, category string) ([]models.PriceItem, error) {
	filter := bson.M{}
	if category != "" {
		filter["category"] = category
	}
	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(sortNatural))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	items := make([]models.PriceItem, 0)
	if err := cur.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.PriceItem, error) {
	var it models.PriceItem
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&it)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.PriceItem{}, ErrNotFound
	}
	return it, err
}

func (s *Store) Create(ctx context.Context, it models.PriceItem) (models.PriceItem, error) {
	now := time.Now().UTC()
	it.ID = primitive.NewObjectID()
	it.CreatedAt = now
	it.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, it); err != nil {
		if wafflemongo.IsDup(err) {
			return models.PriceItem{}, ErrDuplicate
		}
		return models.PriceItem{}, err
	}
	return it, nil
}

// Update replaces the editable fields of item id.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, it models.PriceItem) (models.PriceItem, error) {
	set := bson.M{
		"category":    it.Category,
		"subcategory": it.Subcategory,
		"item":        it.Item,
		"prices":      it.Prices,
		"svgPath":     it.SvgPath,
		"updatedAt":   time.Now().UTC(),
	}
	var out models.PriceItem
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&out)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return models.PriceItem{}, ErrNotFound
	case wafflemongo.IsDup(err):
		return models.PriceItem{}, ErrDuplicate
	case err != nil:
		return models.PriceItem{}, err
	}
	return out, nil
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

// ImportResult counts the outcome of Upsert.
type ImportResult struct {
	Inserted  int64 `json:"inserted"`
	Updated   int64 `json:"updated"`
	Unchanged int64 `json:"unchanged"`
}

// Upsert writes rows keyed on {category, subcategory, item}. Existing items
// get their prices and svgPath replaced; others are inserted. Applying the
// same rows twice changes nothing the second time.
func (s *Store) Upsert(ctx context.Context, rows []csvutil.PriceRow) (ImportResult, error) {
	if len(rows) == 0 {
		return ImportResult{}, nil
	}
	now := time.Now().UTC()
	writes := make([]mongo.WriteModel, 0, len(rows))
	for _, r := range rows {
		filter := bson.M{"category": r.Category, "subcategory": r.Subcategory, "item": r.Item}
		prices := bson.M{"$literal": r.Prices}
		svg := bson.M{"$literal": r.SvgPath}
		// Only bump updatedAt when something differs so re-imports are no-ops.
		changed := bson.M{"$or": bson.A{
			bson.M{"$ne": bson.A{"$prices", prices}},
			bson.M{"$ne": bson.A{"$svgPath", svg}},
		}}
		pipeline := mongo.Pipeline{
			{{Key: "$set", Value: bson.M{
				"createdAt": bson.M{"$ifNull": bson.A{"$createdAt", now}},
				"updatedAt": bson.M{"$cond": bson.A{
					changed, now, bson.M{"$ifNull": bson.A{"$updatedAt", now}},
				}},
				"prices":  prices,
				"svgPath": svg,
			}}},
		}
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(filter).
			SetUpdate(pipeline).
			SetUpsert(true))
	}
	res, err := s.c.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return ImportResult{}, err
	}
	return ImportResult{
		Inserted:  res.UpsertedCount,
		Updated:   res.ModifiedCount,
		Unchanged: res.MatchedCount - res.ModifiedCount,
	}, nil
}
