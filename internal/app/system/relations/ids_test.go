package relations

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestObjectIDs(t *testing.T) {
	a, b := primitive.NewObjectID(), primitive.NewObjectID()

	tests := []struct {
		name    string
		in      any
		want    []primitive.ObjectID
		wantErr bool
	}{
		{"nil", nil, []primitive.ObjectID{}, false},
		{"typed", []primitive.ObjectID{a, b}, []primitive.ObjectID{a, b}, false},
		{"hex strings", []string{a.Hex(), b.Hex()}, []primitive.ObjectID{a, b}, false},
		{"bson array dedup", primitive.A{a, b, a}, []primitive.ObjectID{a, b}, false},
		{"mixed any", []any{a, b.Hex()}, []primitive.ObjectID{a, b}, false},
		{"bad hex", []string{"nope"}, nil, true},
		{"not an array", "x", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ObjectIDs(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidID) {
					t.Fatalf("expected ErrInvalidID, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestDiff(t *testing.T) {
	s1, s2, s3 := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()
	added, removed := Diff([]primitive.ObjectID{s1, s3}, []primitive.ObjectID{s1, s2})
	if len(added) != 1 || added[0] != s2 {
		t.Errorf("added = %v, want [s2]", added)
	}
	if len(removed) != 1 || removed[0] != s3 {
		t.Errorf("removed = %v, want [s3]", removed)
	}
}

func TestKindsAreSymmetric(t *testing.T) {
	byColl := map[string]Config{}
	for _, c := range All {
		byColl[c.Collection] = c
	}
	for _, c := range All {
		for _, r := range c.Relations {
			other, ok := byColl[r.Collection]
			if !ok {
				t.Fatalf("%s.%s points at unknown collection %s", c.Collection, r.Field, r.Collection)
			}
			found := false
			for _, back := range other.Relations {
				if back.Field == r.RelatedField && back.Collection == c.Collection && back.RelatedField == r.Field {
					found = true
				}
			}
			if !found {
				t.Errorf("%s.%s has no mirror on %s.%s", c.Collection, r.Field, r.Collection, r.RelatedField)
			}
		}
	}
}
