// internal/surveyclient/surveys.go
package surveyclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dalemusser/canopyhub/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// IdempotencyHeader is the header the server reads retry keys from.
const IdempotencyHeader = "Idempotency-Key"

// Area is one member of a collection.
type Area struct {
	ID        primitive.ObjectID `json:"_id"`
	RefID     string             `json:"refId"`
	AreaName  string             `json:"areaName,omitempty"`
	AreaIndex int                `json:"areaIndex"`
}

// CollectionSummary is a collection with its areas in area order.
type CollectionSummary struct {
	ID            primitive.ObjectID  `json:"_id"`
	CollectionRef string              `json:"collectionRef"`
	Name          string              `json:"name,omitempty"`
	Site          *primitive.ObjectID `json:"site,omitempty"`
	TotalAreas    int                 `json:"totalAreas"`
	Areas         []Area              `json:"areas"`
}

// View is a survey with its primary collection, if any.
type View struct {
	Survey     models.Survey      `json:"survey"`
	Collection *CollectionSummary `json:"collection"`
}

// AreaResult is the answer to AddArea.
type AreaResult struct {
	Survey      models.Survey             `json:"survey"`
	Collections []models.SurveyCollection `json:"collections"`
}

// CombineResult is the answer to Combine.
type CombineResult struct {
	Collection models.SurveyCollection `json:"collection"`
	Surveys    []models.Survey         `json:"surveys"`
}

func surveyPath(id primitive.ObjectID) string {
	return fmt.Sprintf("%s/viewAll/%s", surveysPath, id.Hex())
}

// View fetches a survey and its primary collection summary.
func (c *Client) View(ctx context.Context, id primitive.ObjectID) (View, error) {
	var v View
	_, err := c.doJSON(ctx, http.MethodGet, surveyPath(id), nil, &v, nil)
	return v, err
}

// Survey fetches a survey.
func (c *Client) Survey(ctx context.Context, id primitive.ObjectID) (models.Survey, error) {
	v, err := c.View(ctx, id)
	return v.Survey, err
}

// Create stores a new survey. The server generates a REF when sv has none.
func (c *Client) Create(ctx context.Context, sv models.Survey) (models.Survey, error) {
	var out models.Survey
	_, err := c.doJSON(ctx, http.MethodPost, surveysPath, BuildPayload(sv), &out, nil)
	return out, err
}

// NewVersion stores the survey as a new document with the next free
// version letter.
func (c *Client) NewVersion(ctx context.Context, id primitive.ObjectID) (models.Survey, error) {
	var out models.Survey
	_, err := c.doJSON(ctx, http.MethodPatch, surveyPath(id), nil, &out, nil)
	return out, err
}

// CheckRef reports whether a REF is taken.
func (c *Client) CheckRef(ctx context.Context, ref string) (bool, error) {
	var out struct {
		Exists bool `json:"exists"`
	}
	_, err := c.doJSON(ctx, http.MethodGet, surveysPath+"/checkRef?refId="+url.QueryEscape(ref), nil, &out, nil)
	return out.Exists, err
}

// AddArea creates the next area after the survey held by st.
//
// The current survey is saved first. A failed save is returned without
// creating anything, and the caller decides whether to go on. The create
// request carries a fresh Idempotency-Key and is sent a second time with
// the same key if the first attempt gets no answer.
func (c *Client) AddArea(ctx context.Context, st *State, areaName string, collectionIDs []primitive.ObjectID) (AreaResult, Result, error) {
	saved, err := c.Save(ctx, st)
	if err != nil || !saved.Success {
		return AreaResult{}, saved, err
	}

	cur := saved.Survey
	body := struct {
		CollectionIDs []primitive.ObjectID `json:"collectionIds,omitempty"`
		AreaName      string               `json:"areaName,omitempty"`
	}{collectionIDs, areaName}
	header := http.Header{}
	key := uuid.NewString()
	header.Set(IdempotencyHeader, key)

	var out AreaResult
	path := surveyPath(cur.ID) + "/areas"
	_, err = c.doJSON(ctx, http.MethodPost, path, body, &out, header)
	if err != nil && !isAPIError(err) && ctx.Err() == nil {
		c.Log.Warn("add area got no answer, retrying with the same key",
			zap.String("survey_id", cur.ID.Hex()), zap.String("idempotency_key", key), zap.Error(err))
		_, err = c.doJSON(ctx, http.MethodPost, path, body, &out, header)
	}
	return out, saved, err
}

// Combine copies the given surveys, in order, into a new collection.
func (c *Client) Combine(ctx context.Context, ids []primitive.ObjectID, name string) (CombineResult, error) {
	body := struct {
		SurveyIDs []primitive.ObjectID `json:"surveyIds"`
		Name      string               `json:"name,omitempty"`
	}{ids, name}
	var out CombineResult
	_, err := c.doJSON(ctx, http.MethodPost, surveysPath+"/combine", body, &out, nil)
	return out, err
}

// Collection fetches a collection summary.
func (c *Client) Collection(ctx context.Context, id primitive.ObjectID) (CollectionSummary, error) {
	var out CollectionSummary
	_, err := c.doJSON(ctx, http.MethodGet, collectionsPath+"/"+id.Hex(), nil, &out, nil)
	return out, err
}

func isAPIError(err error) bool {
	var ae *APIError
	return errors.As(err, &ae)
}
