// internal/surveyclient/navigator.go
package surveyclient

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var (
	// ErrNoArea is returned when there is no area in the requested direction.
	ErrNoArea = errors.New("no area in that direction")

	// ErrStayed is returned when the current survey could not be saved and
	// Confirm chose to stay on it.
	ErrStayed = errors.New("navigation cancelled after failed save")
)

// ConfirmFunc decides whether to leave an area whose save failed. res is
// the failed save; err is set for a transport error.
type ConfirmFunc func(ctx context.Context, res Result, err error) bool

// Navigator moves between the areas of one collection. Every move saves
// the current area first.
type Navigator struct {
	Client  *Client
	Confirm ConfirmFunc

	areas []Area
	pos   int
}

// Open loads survey id and, when it belongs to a collection, a Navigator
// over that collection's areas. The Navigator is nil for a standalone
// survey.
func (c *Client) Open(ctx context.Context, id primitive.ObjectID, confirm ConfirmFunc) (*State, *Navigator, error) {
	v, err := c.View(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	st := NewState(v.Survey)
	if v.Collection == nil || len(v.Collection.Areas) == 0 {
		return st, nil, nil
	}
	n := &Navigator{Client: c, Confirm: confirm, areas: v.Collection.Areas}
	for i, a := range n.areas {
		if a.ID == id {
			n.pos = i
		}
	}
	return st, n, nil
}

// Areas returns the areas in area order.
func (n *Navigator) Areas() []Area { return n.areas }

// Current returns the position of the current area.
func (n *Navigator) Current() int { return n.pos }

// Next saves st and loads the following area.
func (n *Navigator) Next(ctx context.Context, st *State) (*State, error) {
	return n.Goto(ctx, st, n.pos+1)
}

// Prev saves st and loads the preceding area.
func (n *Navigator) Prev(ctx context.Context, st *State) (*State, error) {
	return n.Goto(ctx, st, n.pos-1)
}

// Goto saves st and loads the area at position i. When the save fails,
// Confirm is asked whether to leave anyway; without a Confirm the move is
// abandoned. On ErrStayed st still holds every edit.
func (n *Navigator) Goto(ctx context.Context, st *State, i int) (*State, error) {
	if i < 0 || i >= len(n.areas) {
		return nil, ErrNoArea
	}

	res, err := n.Client.Save(ctx, st)
	if err != nil || !res.Success {
		n.Client.Log.Warn("auto-save before navigation failed",
			zap.Int("status", res.Status), zap.Error(err))
		if n.Confirm == nil || !n.Confirm(ctx, res, err) {
			return nil, ErrStayed
		}
	}

	sv, err := n.Client.Survey(ctx, n.areas[i].ID)
	if err != nil {
		return nil, err
	}
	n.pos = i
	return NewState(sv), nil
}
