// internal/app/store/clients/clientstore.go
package clientstore

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/dalemusser/canopyhub/internal/app/system/paging"
	"github.com/dalemusser/canopyhub/internal/app/system/relations"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when the entity does not exist.
var ErrNotFound = errors.New("client entity not found")

// DefaultLimit and MaxLimit bound list queries.
const (
	DefaultLimit = 200
	MaxLimit     = 1000
)

// Store persists one client kind. Documents are written as bson.M so partial
// updates touch only the submitted fields; reads decode into the kind's model.
//
// Create, Update and Delete issue several writes (the entity plus the
// back-references on related documents); run them inside txn.Run.
type Store struct {
	kind Kind
	c    *mongo.Collection
	sync *relations.Syncer
}

func New(db *mongo.Database, kind Kind) *Store {
	return &Store{
		kind: kind,
		c:    db.Collection(kind.Name),
		sync: relations.New(db, kind.Relations),
	}
}

// Kind returns the store's kind.
func (s *Store) Kind() Kind { return s.kind }

// ListOptions selects one page of entities. Before and After are opaque
// cursors from a previous Page.
type ListOptions struct {
	Search string
	Before string
	After  string
	Limit  int64
}

// Page is one window of a name-ordered list.
type Page struct {
	Items      []any
	PrevCursor string
	NextCursor string
}

// List returns entities sorted by name. Search is a case-folded prefix match.
// A malformed cursor yields paging.ErrBadCursor.
func (s *Store) List(ctx context.Context, opt ListOptions) (Page, error) {
	limit := opt.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	ks, err := paging.Parse(opt.Before, opt.After, limit)
	if err != nil {
		return Page{}, err
	}

	var conds []bson.M
	if q := text.Fold(opt.Search); q != "" {
		conds = append(conds, bson.M{"nameCi": bson.M{"$regex": "^" + regexp.QuoteMeta(q)}})
	}
	if w := ks.Window("nameCi"); w != nil {
		conds = append(conds, w)
	}
	filter := bson.M{}
	switch len(conds) {
	case 0:
	case 1:
		filter = conds[0]
	default:
		filter = bson.M{"$and": conds}
	}

	find := options.Find()
	ks.ApplyToFind(find, "nameCi")
	cur, err := s.c.Find(ctx, filter, find)
	if err != nil {
		return Page{}, err
	}
	defer cur.Close(ctx)

	type row struct {
		key  string
		id   primitive.ObjectID
		item any
	}
	rows := make([]row, 0)
	for cur.Next(ctx) {
		v := s.kind.New()
		if err := cur.Decode(v); err != nil {
			return Page{}, fmt.Errorf("decode %s: %w", s.kind.Name, err)
		}
		key, _ := cur.Current.Lookup("nameCi").StringValueOK()
		id, _ := cur.Current.Lookup("_id").ObjectIDOK()
		rows = append(rows, row{key: key, id: id, item: v})
	}
	if err := cur.Err(); err != nil {
		return Page{}, err
	}

	rows, res := paging.Trim(rows, ks)
	page := Page{Items: make([]any, 0, len(rows))}
	for _, r := range rows {
		page.Items = append(page.Items, r.item)
	}
	if len(rows) > 0 {
		if res.HasPrev {
			page.PrevCursor = paging.Cursor(rows[0].key, rows[0].id)
		}
		if res.HasNext {
			page.NextCursor = paging.Cursor(rows[len(rows)-1].key, rows[len(rows)-1].id)
		}
	}
	return page, nil
}

// Get loads one entity into the kind's model.
func (s *Store) Get(ctx context.Context, id primitive.ObjectID) (any, error) {
	v := s.kind.New()
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(v)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Create inserts doc, then applies its relationship fields so the related
// documents gain their back-references.
func (s *Store) Create(ctx context.Context, doc bson.M) (any, error) {
	now := time.Now().UTC()
	id := primitive.NewObjectID()

	base := bson.M{}
	rels := bson.M{}
	for k, v := range doc {
		if s.kind.Relations.Fields(k) {
			rels[k] = v
			continue
		}
		base[k] = v
	}
	base["_id"] = id
	base["nameCi"] = s.kind.NameCI(doc)
	base["createdAt"] = now
	base["updatedAt"] = now
	for _, r := range s.kind.Relations.Relations {
		base[r.Field] = bson.A{}
	}

	if _, err := s.c.InsertOne(ctx, base); err != nil {
		return nil, err
	}
	out := s.kind.New()
	if err := s.sync.UpdateEntityRelationships(ctx, id, rels, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Update applies the submitted fields of doc to entity id.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, doc bson.M) (any, error) {
	updates := bson.M{}
	for k, v := range doc {
		switch k {
		case "_id", "createdAt", "nameCi":
			continue
		}
		updates[k] = v
	}

	for _, f := range s.kind.NameFields {
		if _, ok := updates[f]; !ok {
			continue
		}
		var cur bson.M
		err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&cur)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		if err != nil {
			return nil, err
		}
		for _, nf := range s.kind.NameFields {
			if v, ok := updates[nf]; ok {
				cur[nf] = v
			}
		}
		updates["nameCi"] = s.kind.NameCI(cur)
		break
	}
	updates["updatedAt"] = time.Now().UTC()

	out := s.kind.New()
	if err := s.sync.UpdateEntityRelationships(ctx, id, updates, out); err != nil {
		if errors.Is(err, relations.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return out, nil
}

// Delete removes every back-reference to id, then the entity itself.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := s.sync.CleanupEntityReferences(ctx, id); err != nil {
		if errors.Is(err, relations.ErrNotFound) {
			return ErrNotFound
		}
		return err
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

// Name returns the display name of entity id, or "" when it does not exist.
func (s *Store) Name(ctx context.Context, id primitive.ObjectID) (string, error) {
	var doc bson.M
	proj := bson.M{}
	for _, f := range s.kind.NameFields {
		proj[f] = 1
	}
	err := s.c.FindOne(ctx, bson.M{"_id": id}, options.FindOne().SetProjection(proj)).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	name := ""
	for _, f := range s.kind.NameFields {
		if v, ok := doc[f].(string); ok && v != "" {
			if name != "" {
				name += " "
			}
			name += v
		}
	}
	return name, nil
}
