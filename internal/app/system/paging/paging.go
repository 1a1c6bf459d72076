// internal/app/system/paging/paging.go
//
// Package paging implements keyset pagination over a case-folded sort key
// plus _id. Cursors are the opaque strings produced by waffle's mongo
// pantry, so a page boundary survives inserts and deletes elsewhere in the
// list.
package paging

import (
	"errors"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrBadCursor is returned by Parse for a cursor that does not decode.
var ErrBadCursor = errors.New("invalid page cursor")

// Direction indicates the pagination direction.
type Direction int

const (
	Forward  Direction = iota // Default: sort ascending, use "gt" for cursor
	Backward                  // Sort descending, use "lt" for cursor
)

// Keyset describes one page request.
type Keyset struct {
	Direction Direction
	Cursor    *wafflemongo.Cursor
	Limit     int64
}

// Parse builds a Keyset from the before/after cursors of a request. before
// wins when both are set.
func Parse(before, after string, limit int64) (Keyset, error) {
	ks := Keyset{Direction: Forward, Limit: limit}
	raw := after
	if before != "" {
		ks.Direction = Backward
		raw = before
	}
	if raw == "" {
		return ks, nil
	}
	c, ok := wafflemongo.DecodeCursor(raw)
	if !ok {
		return Keyset{}, ErrBadCursor
	}
	ks.Cursor = &c
	return ks, nil
}

func (ks Keyset) sortOrder() int {
	if ks.Direction == Backward {
		return -1
	}
	return 1
}

// ApplyToFind sorts by sortField then _id in the page direction and fetches
// one row past the limit to detect a further page.
func (ks Keyset) ApplyToFind(find *options.FindOptions, sortField string) {
	find.SetSort(bson.D{
		{Key: sortField, Value: ks.sortOrder()},
		{Key: "_id", Value: ks.sortOrder()},
	}).SetLimit(ks.Limit + 1)
}

// Window returns the cursor condition for the query filter, or nil on the
// first page.
func (ks Keyset) Window(sortField string) bson.M {
	if ks.Cursor == nil {
		return nil
	}
	dir := "gt"
	if ks.Direction == Backward {
		dir = "lt"
	}
	return wafflemongo.KeysetWindow(sortField, dir, ks.Cursor.CI, ks.Cursor.ID)
}

// Result reports whether pages exist on either side of the trimmed rows.
type Result struct {
	HasPrev bool
	HasNext bool
}

// Trim drops the look-ahead row and restores ascending order for a
// backward page.
func Trim[T any](rows []T, ks Keyset) ([]T, Result) {
	var res Result
	extra := int64(len(rows)) > ks.Limit
	if extra {
		rows = rows[:ks.Limit]
	}
	if ks.Direction == Backward {
		Reverse(rows)
		res.HasPrev = extra
		res.HasNext = true
	} else {
		res.HasNext = extra
		res.HasPrev = ks.Cursor != nil
	}
	return rows, res
}

// Reverse reverses a slice in place.
func Reverse[T any](rows []T) {
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
}

// Cursor encodes a page boundary.
func Cursor(key string, id primitive.ObjectID) string {
	return wafflemongo.EncodeCursor(key, id)
}
