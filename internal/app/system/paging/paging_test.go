package paging

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func TestParse(t *testing.T) {
	cur := Cursor("burger barn", primitive.NewObjectID())

	ks, err := Parse("", "", 10)
	if err != nil || ks.Cursor != nil || ks.Direction != Forward {
		t.Errorf("first page = %+v, %v", ks, err)
	}

	ks, err = Parse("", cur, 10)
	if err != nil || ks.Cursor == nil || ks.Direction != Forward {
		t.Errorf("after = %+v, %v", ks, err)
	}
	if ks.Cursor != nil && ks.Cursor.CI != "burger barn" {
		t.Errorf("cursor key = %q, want %q", ks.Cursor.CI, "burger barn")
	}

	ks, err = Parse(cur, cur, 10)
	if err != nil || ks.Direction != Backward {
		t.Errorf("before = %+v, %v", ks, err)
	}

	if _, err := Parse("", "%%%not-a-cursor", 10); err != ErrBadCursor {
		t.Errorf("bad cursor: err = %v, want ErrBadCursor", err)
	}
}

func TestWindow(t *testing.T) {
	ks, _ := Parse("", "", 5)
	if w := ks.Window("nameCi"); w != nil {
		t.Errorf("first page window = %v, want nil", w)
	}
	ks, _ = Parse("", Cursor("a", primitive.NewObjectID()), 5)
	if w := ks.Window("nameCi"); w == nil {
		t.Error("cursor page has no window")
	}
}

func TestApplyToFind(t *testing.T) {
	find := options.Find()
	ks := Keyset{Direction: Backward, Limit: 20}
	ks.ApplyToFind(find, "nameCi")
	if find.Limit == nil || *find.Limit != 21 {
		t.Errorf("limit = %v, want 21", find.Limit)
	}
}

func TestTrim(t *testing.T) {
	c := Cursor("x", primitive.NewObjectID())
	fwd, _ := Parse("", "", 3)
	after, _ := Parse("", c, 3)
	back, _ := Parse(c, "", 3)

	tests := []struct {
		name     string
		rows     []int
		ks       Keyset
		wantRows []int
		want     Result
	}{
		{"first page, short", []int{1, 2}, fwd, []int{1, 2}, Result{}},
		{"first page, more", []int{1, 2, 3, 4}, fwd, []int{1, 2, 3}, Result{HasNext: true}},
		{"after cursor, last page", []int{4, 5}, after, []int{4, 5}, Result{HasPrev: true}},
		{"before cursor, more", []int{9, 8, 7, 6}, back, []int{7, 8, 9}, Result{HasPrev: true, HasNext: true}},
		{"before cursor, first page", []int{2, 1}, back, []int{1, 2}, Result{HasNext: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, res := Trim(tt.rows, tt.ks)
			if len(got) != len(tt.wantRows) {
				t.Fatalf("rows = %v, want %v", got, tt.wantRows)
			}
			for i := range got {
				if got[i] != tt.wantRows[i] {
					t.Fatalf("rows = %v, want %v", got, tt.wantRows)
				}
			}
			if res != tt.want {
				t.Errorf("result = %+v, want %+v", res, tt.want)
			}
		})
	}
}
