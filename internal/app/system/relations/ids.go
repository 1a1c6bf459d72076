package relations

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ObjectID converts a single reference value (ObjectID, pointer or hex
// string) into an ObjectID. The zero id is reported as absent.
func ObjectID(v any) (primitive.ObjectID, bool) {
	switch tv := v.(type) {
	case primitive.ObjectID:
		return tv, !tv.IsZero()
	case *primitive.ObjectID:
		if tv == nil {
			return primitive.NilObjectID, false
		}
		return *tv, !tv.IsZero()
	case string:
		oid, err := primitive.ObjectIDFromHex(tv)
		if err != nil {
			return primitive.NilObjectID, false
		}
		return oid, !oid.IsZero()
	}
	return primitive.NilObjectID, false
}

// ObjectIDs converts an array value into a de-duplicated id list, keeping
// first-seen order. nil yields an empty, non-nil slice.
func ObjectIDs(v any) ([]primitive.ObjectID, error) {
	var items []any
	switch tv := v.(type) {
	case nil:
		return []primitive.ObjectID{}, nil
	case []primitive.ObjectID:
		items = make([]any, len(tv))
		for i := range tv {
			items[i] = tv[i]
		}
	case []string:
		items = make([]any, len(tv))
		for i := range tv {
			items[i] = tv[i]
		}
	case primitive.A:
		items = tv
	case []any:
		items = tv
	default:
		return nil, fmt.Errorf("%w: expected an array, got %T", ErrInvalidID, v)
	}

	out := make([]primitive.ObjectID, 0, len(items))
	seen := make(map[primitive.ObjectID]struct{}, len(items))
	for _, it := range items {
		oid, ok := ObjectID(it)
		if !ok {
			return nil, fmt.Errorf("%w: %v", ErrInvalidID, it)
		}
		if _, dup := seen[oid]; dup {
			continue
		}
		seen[oid] = struct{}{}
		out = append(out, oid)
	}
	return out, nil
}

// Diff returns the ids in next but not prev (added) and in prev but not next
// (removed).
func Diff(prev, next []primitive.ObjectID) (added, removed []primitive.ObjectID) {
	inPrev := make(map[primitive.ObjectID]struct{}, len(prev))
	for _, id := range prev {
		inPrev[id] = struct{}{}
	}
	inNext := make(map[primitive.ObjectID]struct{}, len(next))
	for _, id := range next {
		inNext[id] = struct{}{}
		if _, ok := inPrev[id]; !ok {
			added = append(added, id)
		}
	}
	for _, id := range prev {
		if _, ok := inNext[id]; !ok {
			removed = append(removed, id)
		}
	}
	return added, removed
}

func contains(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}
