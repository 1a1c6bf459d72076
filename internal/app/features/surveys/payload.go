// internal/app/features/surveys/payload.go
package surveys

import (
	"context"
	"encoding/json"
	"net/http"
	"reflect"
	"sort"
	"strings"

	"github.com/dalemusser/canopyhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/canopyhub/internal/app/system/respond"
	"github.com/dalemusser/canopyhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// decodeSurvey reads a survey body and strips markup from its free text.
func decodeSurvey(w http.ResponseWriter, r *http.Request) (models.Survey, bool) {
	var sv models.Survey
	if err := respond.Decode(w, r, &sv); err != nil {
		respond.BadRequest(w, err.Error())
		return sv, false
	}
	sanitize(&sv)
	return sv, true
}

// decodeSurveyFields is decodeSurvey for partial bodies. It also returns
// the top-level keys the body sent, for applyFields.
func decodeSurveyFields(w http.ResponseWriter, r *http.Request) (models.Survey, map[string]json.RawMessage, bool) {
	var raw json.RawMessage
	if err := respond.Decode(w, r, &raw); err != nil {
		respond.BadRequest(w, err.Error())
		return models.Survey{}, nil, false
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keys); err != nil {
		respond.BadRequest(w, "invalid JSON body: expected an object")
		return models.Survey{}, nil, false
	}
	var sv models.Survey
	if err := json.Unmarshal(raw, &sv); err != nil {
		respond.BadRequest(w, "invalid JSON body: "+err.Error())
		return models.Survey{}, nil, false
	}
	sanitize(&sv)
	return sv, keys, true
}

// applyFields returns cur with every top-level field named in keys taken
// from body. A sent field replaces the stored one whole; fields not sent
// keep their stored value.
//
// A legacy collectionId sent without collections names the survey's
// collection: memberships are kept when they already include it and
// rebuilt from it otherwise.
func applyFields(cur, body models.Survey, keys map[string]json.RawMessage) models.Survey {
	out := cur
	dst := reflect.ValueOf(&out).Elem()
	src := reflect.ValueOf(body)
	t := dst.Type()
	for i := 0; i < t.NumField(); i++ {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
		if name == "" || name == "-" {
			continue
		}
		if _, ok := keys[name]; ok {
			dst.Field(i).Set(src.Field(i))
		}
	}

	_, sentColls := keys["collections"]
	if !sentColls && body.CollectionID != nil {
		for _, m := range cur.Collections {
			if m.CollectionID == *body.CollectionID {
				out.CollectionID = nil
				return out
			}
		}
		out.Collections = nil
	}
	return out
}

func sanitize(sv *models.Survey) {
	sv.AreaName = htmlsanitize.PlainText(sv.AreaName)
	for _, m := range []map[string]string{
		sv.Equipment.SubcategoryComments,
		sv.Specialist.CategoryComments,
		sv.Canopy.Comments,
	} {
		for k, v := range m {
			m[k] = htmlsanitize.PlainText(v)
		}
	}
	if sv.Notes != nil {
		htmlsanitize.PlainTextMap(sv.Notes)
	}
}

// newArea starts the next area of cur: site, contacts, survey date,
// operations, notes and access carry over; every other section starts empty.
func newArea(cur models.Survey, name string) models.Survey {
	return models.Survey{
		AreaName:   name,
		SurveyDate: cur.SurveyDate,
		Site:       cur.Site,
		Contacts:   cur.Contacts,
		Operations: cur.Operations,
		Notes:      cur.Notes,
		Access:     cur.Access,
	}
}

// cloneContent copies every content section of src into a survey that has
// no identity, REF or collection membership yet.
func cloneContent(src models.Survey) models.Survey {
	c := src
	c.ID = primitive.NilObjectID
	c.RefID = ""
	c.Collections = nil
	c.CollectionID = nil
	c.IdempotencyKey = ""
	return c
}

func membershipIDs(ms []models.CollectionMembership) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.CollectionID)
	}
	return out
}

// areaSummary is one member of a collection as listed beside a survey.
type areaSummary struct {
	ID        primitive.ObjectID `json:"_id"`
	RefID     string             `json:"refId"`
	AreaName  string             `json:"areaName,omitempty"`
	AreaIndex int                `json:"areaIndex"`
}

// collectionSummary describes a collection and its areas in area order.
type collectionSummary struct {
	ID            primitive.ObjectID  `json:"_id"`
	CollectionRef string              `json:"collectionRef"`
	Name          string              `json:"name,omitempty"`
	Site          *primitive.ObjectID `json:"site,omitempty"`
	TotalAreas    int                 `json:"totalAreas"`
	Areas         []areaSummary       `json:"areas"`
}

func (h *Handler) summarize(ctx context.Context, c models.SurveyCollection) (collectionSummary, error) {
	members, err := h.surveys().GetByIDs(ctx, c.Surveys)
	if err != nil {
		return collectionSummary{}, err
	}
	out := collectionSummary{
		ID:            c.ID,
		CollectionRef: c.CollectionRef,
		Name:          c.Name,
		Site:          c.Site,
		TotalAreas:    c.TotalAreas,
		Areas:         make([]areaSummary, 0, len(members)),
	}
	for pos, sv := range members {
		idx := pos
		for _, m := range sv.Collections {
			if m.CollectionID == c.ID {
				idx = m.AreaIndex
				break
			}
		}
		out.Areas = append(out.Areas, areaSummary{ID: sv.ID, RefID: sv.RefID, AreaName: sv.AreaName, AreaIndex: idx})
	}
	sort.SliceStable(out.Areas, func(i, j int) bool { return out.Areas[i].AreaIndex < out.Areas[j].AreaIndex })
	return out, nil
}
