// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dalemusser/canopyhub/internal/app/system/relations"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	for _, cfg := range relations.All {
		if err := ensureClients(ctx, db, cfg); err != nil {
			problems = append(problems, cfg.Collection+": "+err.Error())
		}
	}
	if err := ensurePriceList(ctx, db); err != nil {
		problems = append(problems, "priceList: "+err.Error())
	}
	if err := ensureParts(ctx, db); err != nil {
		problems = append(problems, "parts: "+err.Error())
	}
	if err := ensureCatalog(ctx, db); err != nil {
		problems = append(problems, "catalog: "+err.Error())
	}
	if err := ensureSurveys(ctx, db); err != nil {
		problems = append(problems, "surveys: "+err.Error())
	}
	if err := ensureSurveyCollections(ctx, db); err != nil {
		problems = append(problems, "surveyCollections: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

// guards are the unique indexes the stores depend on to reject duplicates:
// REF identifiers, price list natural keys and idempotency keys. Without
// them the service still answers but can store duplicates.
var guards = map[string][]string{
	"priceList":         {"uniq_pricelist_natural"},
	"surveyCollections": {"uniq_collections_idempotency"},
	"surveys":           {"uniq_surveys_idempotency", "uniq_surveys_refid"},
}

// MissingGuards returns "collection.index" for each guard index that does
// not exist, in sorted order.
func MissingGuards(ctx context.Context, db *mongo.Database) ([]string, error) {
	colls := make([]string, 0, len(guards))
	for name := range guards {
		colls = append(colls, name)
	}
	sort.Strings(colls)

	var missing []string
	for _, name := range colls {
		cur, err := db.Collection(name).Indexes().List(ctx)
		if isNamespaceNotFound(err) {
			for _, idx := range guards[name] {
				missing = append(missing, name+"."+idx)
			}
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("list indexes of %s: %w", name, err)
		}
		have := map[string]bool{}
		for cur.Next(ctx) {
			var idx existingIndex
			if err := cur.Decode(&idx); err != nil {
				cur.Close(ctx)
				return nil, err
			}
			have[idx.Name] = true
		}
		err = cur.Err()
		cur.Close(ctx)
		if err != nil {
			return nil, err
		}
		for _, idx := range guards[name] {
			if !have[idx] {
				missing = append(missing, name+"."+idx)
			}
		}
	}
	return missing, nil
}

/* -------------------------------------------------------------------------- */
/* Core helper: reconcile a set of desired indexes for one collection         */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func sameBoolPtr(a, b *bool) bool {
	return (a != nil && *a) == (b != nil && *b)
}

// isNamespaceNotFound reports a listIndexes on a collection that does not
// exist yet.
func isNamespaceNotFound(err error) bool {
	var ce mongo.CommandError
	return errors.As(err, &ce) && ce.Code == 26
}

// Best-effort duplicate-detector (works cross-vendors)
func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	if mongo.IsDuplicateKeyError(err) {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "E11000") || strings.Contains(strings.ToLower(s), "duplicate key")
}

// Mongo/DocDB sometimes returns IndexOptionsConflict when an index with the
// same keys already exists under a different name (or options differ).
func isOptionsConflictErr(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "IndexOptionsConflict")
}

func listIndexes(ctx context.Context, coll *mongo.Collection) map[string]existingIndex {
	existing := map[string]existingIndex{} // sig -> index
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return existing
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var idx existingIndex
		if err := cur.Decode(&idx); err != nil {
			zap.L().Warn("failed to decode existing index",
				zap.String("collection", coll.Name()),
				zap.Error(err))
			continue
		}
		existing[keySig(idx.Key)] = idx
	}
	return existing
}

func createErr(coll *mongo.Collection, name string, unique bool, err error) string {
	if isDuplicateKeyErr(err) && unique {
		return fmt.Sprintf("%s(%s): cannot create unique index (duplicates present)", coll.Name(), name)
	}
	return fmt.Sprintf("%s(%s): %v", coll.Name(), name, err)
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	var errs []string

	for _, m := range models {
		var desiredName string
		var desiredUnique *bool
		if m.Options != nil {
			if m.Options.Name != nil {
				desiredName = *m.Options.Name
			}
			desiredUnique = m.Options.Unique
		}
		unique := desiredUnique != nil && *desiredUnique
		desiredSig := keySig(m.Keys.(bson.D))

		start := time.Now()
		zap.L().Info("ensuring index",
			zap.String("collection", coll.Name()),
			zap.String("name", desiredName),
			zap.String("keys", desiredSig),
			zap.Bool("unique", unique))

		ex, ok := listIndexes(ctx, coll)[desiredSig]
		if ok && sameBoolPtr(desiredUnique, ex.Unique) && (desiredName == "" || ex.Name == desiredName) {
			zap.L().Info("reusing existing index",
				zap.String("collection", coll.Name()),
				zap.String("name", ex.Name),
				zap.String("keys", desiredSig),
				zap.Duration("took", time.Since(start)))
			continue
		}

		if ok {
			// Same keys under another name or with other options: drop and recreate.
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				zap.L().Warn("drop existing index failed",
					zap.String("collection", coll.Name()),
					zap.String("name", ex.Name),
					zap.Error(err))
				errs = append(errs, fmt.Sprintf("%s(%s): drop failed: %v", coll.Name(), desiredName, err))
				continue
			}
		}

		created, err := coll.Indexes().CreateOne(ctx, m)
		if err != nil && isOptionsConflictErr(err) {
			if match, found := listIndexes(ctx, coll)[desiredSig]; found {
				if sameBoolPtr(desiredUnique, match.Unique) {
					zap.L().Info("reusing existing index (post-conflict)",
						zap.String("collection", coll.Name()),
						zap.String("name", match.Name),
						zap.String("keys", desiredSig))
					continue
				}
				if _, dropErr := coll.Indexes().DropOne(ctx, match.Name); dropErr != nil {
					zap.L().Warn("failed to drop conflicting index",
						zap.String("collection", coll.Name()),
						zap.String("name", match.Name),
						zap.Error(dropErr))
				}
				created, err = coll.Indexes().CreateOne(ctx, m)
			}
		}
		if err != nil {
			zap.L().Warn("index ensure failed",
				zap.String("collection", coll.Name()),
				zap.String("name", desiredName),
				zap.String("keys", desiredSig),
				zap.Bool("unique", unique),
				zap.Duration("took", time.Since(start)),
				zap.Error(err))
			errs = append(errs, createErr(coll, desiredName, unique, err))
			continue
		}
		zap.L().Info("index ensured",
			zap.String("collection", coll.Name()),
			zap.String("name", desiredName),
			zap.String("created_name", created),
			zap.String("keys", desiredSig),
			zap.Bool("unique", unique),
			zap.Duration("took", time.Since(start)))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Collection-specific index sets                                              */
/* -------------------------------------------------------------------------- */

// ensureClients builds the name search index plus one index per reference
// field, which keeps relationship cleanup ({field: id} filters) off a
// collection scan.
func ensureClients(ctx context.Context, db *mongo.Database, cfg relations.Config) error {
	c := db.Collection(cfg.Collection)
	models := []mongo.IndexModel{
		// Name prefix search + stable sort
		{
			Keys:    bson.D{{Key: "nameCi", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("idx_" + cfg.Collection + "_nameci__id"),
		},
	}
	for _, r := range cfg.Relations {
		models = append(models, mongo.IndexModel{
			Keys:    bson.D{{Key: r.Field, Value: 1}},
			Options: options.Index().SetName("idx_" + cfg.Collection + "_" + r.Field),
		})
	}
	for _, l := range cfg.Legacy {
		models = append(models, mongo.IndexModel{
			Keys:    bson.D{{Key: l.Field, Value: 1}},
			Options: options.Index().SetName("idx_" + cfg.Collection + "_" + l.Field),
		})
	}
	return ensureIndexSet(ctx, c, models)
}

func ensurePriceList(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("priceList")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Natural key used by imports; also serves category filters.
		{
			Keys: bson.D{
				{Key: "category", Value: 1},
				{Key: "subcategory", Value: 1},
				{Key: "item", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetName("uniq_pricelist_natural"),
		},
	})
}

func ensureParts(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("parts")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "category", Value: 1}, {Key: "item", Value: 1}},
			Options: options.Index().SetName("idx_parts_category_item"),
		},
	})
}

func ensureCatalog(ctx context.Context, db *mongo.Database) error {
	var problems []string
	if err := ensureIndexSet(ctx, db.Collection("products"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "category", Value: 1}, {Key: "name", Value: 1}},
			Options: options.Index().SetName("idx_products_category_name"),
		},
		// Form deletion checks for products still using the form.
		{
			Keys:    bson.D{{Key: "form", Value: 1}},
			Options: options.Index().SetName("idx_products_form"),
		},
	}); err != nil {
		problems = append(problems, err.Error())
	}
	if err := ensureIndexSet(ctx, db.Collection("forms"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "fields", Value: 1}},
			Options: options.Index().SetName("idx_forms_fields"),
		},
	}); err != nil {
		problems = append(problems, err.Error())
	}
	if err := ensureIndexSet(ctx, db.Collection("customFields"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "category", Value: 1}, {Key: "label", Value: 1}},
			Options: options.Index().SetName("idx_customfields_category_label"),
		},
	}); err != nil {
		problems = append(problems, err.Error())
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func ensureSurveys(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("surveys")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// REF identifiers are unique once assigned.
		{
			Keys: bson.D{{Key: "refId", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_surveys_refid").
				SetPartialFilterExpression(bson.M{"refId": bson.M{"$gt": ""}}),
		},
		// Member lookups for collections (area counts, reindexing).
		{
			Keys:    bson.D{{Key: "collections.collectionId", Value: 1}, {Key: "collections.areaIndex", Value: 1}},
			Options: options.Index().SetName("idx_surveys_collections"),
		},
		{
			Keys:    bson.D{{Key: "site", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("idx_surveys_site_created"),
		},
		// Retried area creation returns the first result.
		{
			Keys: bson.D{{Key: "idempotencyKey", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_surveys_idempotency").
				SetPartialFilterExpression(bson.M{"idempotencyKey": bson.M{"$gt": ""}}),
		},
	})
}

func ensureSurveyCollections(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("surveyCollections")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "collectionRef", Value: 1}},
			Options: options.Index().SetName("idx_collections_ref"),
		},
		{
			Keys:    bson.D{{Key: "surveys", Value: 1}},
			Options: options.Index().SetName("idx_collections_surveys"),
		},
		{
			Keys: bson.D{{Key: "idempotencyKey", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_collections_idempotency").
				SetPartialFilterExpression(bson.M{"idempotencyKey": bson.M{"$gt": ""}}),
		},
	})
}
