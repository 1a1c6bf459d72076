// internal/app/system/relations/relations.go
//
// Package relations keeps the many-to-many references between client entities
// symmetric: when site S lists group G in "groups", G lists S in "sites".
//
// Each entity kind has a Config naming its array fields, the collection each
// array points into, and the back-reference field on the other side. Deprecated
// single references (site.group, contact.site, ...) are described by LegacyRef
// and kept in step with their array counterpart.
//
// The helpers issue several writes. Callers run them inside txn.Run so the
// writes commit together where the deployment supports transactions.
package relations

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	// ErrNotFound is returned when the entity being synced does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrInvalidID is returned when a submitted reference is not an ObjectID.
	ErrInvalidID = errors.New("invalid reference id")
)

// Relation is one many-to-many array on an entity.
type Relation struct {
	Field        string // array on this entity, e.g. "groups"
	Collection   string // collection the ids point into
	RelatedField string // back-reference array on the related document
}

// LegacyRef is a deprecated single reference that mirrors one element of an
// array relation.
type LegacyRef struct {
	Field        string // single-reference field, e.g. "group"
	Collection   string
	RelatedField string // back-reference array on the referent
	ArrayField   string // this entity's array holding the same relation
}

// Referrer is a single-reference field in another collection that may point
// at this entity.
type Referrer struct {
	Collection string
	Field      string
}

// Config describes the references held by one entity kind.
type Config struct {
	Collection string
	Relations  []Relation
	Legacy     []LegacyRef
	Referrers  []Referrer
}

// Fields reports whether name is managed by the config, either as a relation
// array or a legacy single reference.
func (c Config) Fields(name string) bool {
	for _, r := range c.Relations {
		if r.Field == name {
			return true
		}
	}
	for _, l := range c.Legacy {
		if l.Field == name {
			return true
		}
	}
	return false
}

// Syncer applies relationship changes for one entity kind.
type Syncer struct {
	db  *mongo.Database
	cfg Config
}

// New returns a Syncer bound to db.
func New(db *mongo.Database, cfg Config) *Syncer {
	return &Syncer{db: db, cfg: cfg}
}

// Config returns the syncer's configuration.
func (s *Syncer) Config() Config { return s.cfg }

func (s *Syncer) load(ctx context.Context, id primitive.ObjectID) (bson.M, error) {
	var doc bson.M
	err := s.db.Collection(s.cfg.Collection).FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load %s %s: %w", s.cfg.Collection, id.Hex(), err)
	}
	return doc, nil
}

// UpdateEntityRelationships applies updates to entity id.
//
// For every relation array present in updates, the difference between the
// stored and submitted id sets is pushed to (added) or pulled from (removed)
// the related documents' back-reference arrays, and the entity's array is set
// to the submitted set. Legacy single references in updates are handled by
// UpdateLegacyReferences. A legacy reference whose referent was removed from
// its array is unset. The remaining fields are $set last.
//
// When into is non-nil the refreshed entity is decoded into it.
func (s *Syncer) UpdateEntityRelationships(ctx context.Context, id primitive.ObjectID, updates bson.M, into any) error {
	cur, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	set := bson.M{}
	unset := bson.M{}
	legacy := bson.M{}
	for k, v := range updates {
		if k == "_id" {
			continue
		}
		set[k] = v
	}
	for _, l := range s.cfg.Legacy {
		if v, ok := set[l.Field]; ok {
			legacy[l.Field] = v
			delete(set, l.Field)
		}
	}

	for _, rel := range s.cfg.Relations {
		raw, ok := set[rel.Field]
		if !ok {
			continue
		}
		next, err := ObjectIDs(raw)
		if err != nil {
			return fmt.Errorf("%s.%s: %w", s.cfg.Collection, rel.Field, err)
		}
		prev, _ := ObjectIDs(cur[rel.Field])
		added, removed := Diff(prev, next)

		related := s.db.Collection(rel.Collection)
		if len(added) > 0 {
			if _, err := related.UpdateMany(ctx,
				bson.M{"_id": bson.M{"$in": added}},
				bson.M{"$addToSet": bson.M{rel.RelatedField: id}},
			); err != nil {
				return fmt.Errorf("add %s.%s back-references: %w", rel.Collection, rel.RelatedField, err)
			}
		}
		if len(removed) > 0 {
			if _, err := related.UpdateMany(ctx,
				bson.M{"_id": bson.M{"$in": removed}},
				bson.M{"$pull": bson.M{rel.RelatedField: id}},
			); err != nil {
				return fmt.Errorf("pull %s.%s back-references: %w", rel.Collection, rel.RelatedField, err)
			}
			for _, l := range s.cfg.Legacy {
				if l.ArrayField != rel.Field {
					continue
				}
				if _, submitted := legacy[l.Field]; submitted {
					continue
				}
				if old, ok := ObjectID(cur[l.Field]); ok && contains(removed, old) {
					unset[l.Field] = ""
				}
			}
		}
		set[rel.Field] = next
	}

	c := s.db.Collection(s.cfg.Collection)
	if len(set) > 0 || len(unset) > 0 {
		upd := bson.M{}
		if len(set) > 0 {
			upd["$set"] = set
		}
		if len(unset) > 0 {
			upd["$unset"] = unset
		}
		if _, err := c.UpdateOne(ctx, bson.M{"_id": id}, upd); err != nil {
			return fmt.Errorf("update %s %s: %w", s.cfg.Collection, id.Hex(), err)
		}
	}

	if len(legacy) > 0 {
		if err := s.UpdateLegacyReferences(ctx, id, legacy); err != nil {
			return err
		}
	}

	if into == nil {
		return nil
	}
	if err := c.FindOne(ctx, bson.M{"_id": id}).Decode(into); err != nil {
		return fmt.Errorf("reload %s %s: %w", s.cfg.Collection, id.Hex(), err)
	}
	return nil
}

// UpdateLegacyReferences applies changes to deprecated single-reference
// fields. A nil, empty or zero value clears the field.
//
// On change the entity id is pulled from the old referent's back-array,
// unless the entity's array still lists the old referent, and added to the
// new referent's back-array. The new referent is also added to the entity's
// own array so both representations agree.
func (s *Syncer) UpdateLegacyReferences(ctx context.Context, id primitive.ObjectID, updates bson.M) error {
	cur, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	c := s.db.Collection(s.cfg.Collection)

	for _, l := range s.cfg.Legacy {
		raw, ok := updates[l.Field]
		if !ok {
			continue
		}
		next, hasNext := ObjectID(raw)
		if !hasNext && !isEmptyRef(raw) {
			return fmt.Errorf("%s.%s: %w", s.cfg.Collection, l.Field, ErrInvalidID)
		}
		prev, hasPrev := ObjectID(cur[l.Field])
		if hasPrev && hasNext && prev == next {
			continue
		}

		related := s.db.Collection(l.Collection)
		if hasPrev {
			arr, _ := ObjectIDs(cur[l.ArrayField])
			if !contains(arr, prev) {
				if _, err := related.UpdateOne(ctx,
					bson.M{"_id": prev},
					bson.M{"$pull": bson.M{l.RelatedField: id}},
				); err != nil {
					return fmt.Errorf("pull legacy %s.%s: %w", l.Collection, l.RelatedField, err)
				}
			}
		}

		if !hasNext {
			if _, err := c.UpdateOne(ctx, bson.M{"_id": id},
				bson.M{"$unset": bson.M{l.Field: ""}}); err != nil {
				return fmt.Errorf("unset %s.%s: %w", s.cfg.Collection, l.Field, err)
			}
			continue
		}

		if _, err := related.UpdateOne(ctx,
			bson.M{"_id": next},
			bson.M{"$addToSet": bson.M{l.RelatedField: id}},
		); err != nil {
			return fmt.Errorf("add legacy %s.%s: %w", l.Collection, l.RelatedField, err)
		}
		if _, err := c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
			"$set":      bson.M{l.Field: next},
			"$addToSet": bson.M{l.ArrayField: next},
		}); err != nil {
			return fmt.Errorf("set %s.%s: %w", s.cfg.Collection, l.Field, err)
		}
	}
	return nil
}

// CleanupEntityReferences removes every back-reference to entity id ahead of
// its deletion. It returns ErrNotFound when the entity does not exist.
func (s *Syncer) CleanupEntityReferences(ctx context.Context, id primitive.ObjectID) error {
	if _, err := s.load(ctx, id); err != nil {
		return err
	}
	for _, rel := range s.cfg.Relations {
		if _, err := s.db.Collection(rel.Collection).UpdateMany(ctx,
			bson.M{rel.RelatedField: id},
			bson.M{"$pull": bson.M{rel.RelatedField: id}},
		); err != nil {
			return fmt.Errorf("cleanup %s.%s: %w", rel.Collection, rel.RelatedField, err)
		}
	}
	for _, ref := range s.cfg.Referrers {
		if _, err := s.db.Collection(ref.Collection).UpdateMany(ctx,
			bson.M{ref.Field: id},
			bson.M{"$unset": bson.M{ref.Field: ""}},
		); err != nil {
			return fmt.Errorf("cleanup %s.%s: %w", ref.Collection, ref.Field, err)
		}
	}
	return nil
}

func isEmptyRef(v any) bool {
	switch tv := v.(type) {
	case nil:
		return true
	case string:
		return tv == ""
	case primitive.ObjectID:
		return tv.IsZero()
	case *primitive.ObjectID:
		return tv == nil || tv.IsZero()
	}
	return false
}
