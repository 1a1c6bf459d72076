// internal/domain/models/survey.go
package models

import (
	"encoding/json"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Survey is one surveyed kitchen area. Several surveys of the same visit are
// grouped through SurveyCollection documents.
//
// CollectionID is the single-collection shape used before Collections
// existed; it is read for migration and never written by new code.
type Survey struct {
	ID           primitive.ObjectID     `bson:"_id" json:"_id"`
	RefID        string                 `bson:"refId" json:"refId"`
	AreaName     string                 `bson:"areaName,omitempty" json:"areaName,omitempty"`
	SurveyDate   *time.Time             `bson:"surveyDate,omitempty" json:"surveyDate,omitempty"`
	Site         *primitive.ObjectID    `bson:"site,omitempty" json:"site,omitempty"`
	Contacts     []primitive.ObjectID   `bson:"contacts" json:"contacts"`
	Structure    bson.M                 `bson:"structure,omitempty" json:"structure,omitempty"`
	Equipment    EquipmentSection       `bson:"equipmentSurvey" json:"equipmentSurvey"`
	Specialist   SpecialistSection      `bson:"specialistEquipmentSurvey" json:"specialistEquipmentSurvey"`
	Canopy       CanopySection          `bson:"canopySurvey" json:"canopySurvey"`
	Schematic    Schematic              `bson:"schematic" json:"schematic"`
	Ventilation  bson.M                 `bson:"ventilation,omitempty" json:"ventilation,omitempty"`
	Access       bson.M                 `bson:"access,omitempty" json:"access,omitempty"`
	Operations   bson.M                 `bson:"operations,omitempty" json:"operations,omitempty"`
	Notes        bson.M                 `bson:"notes,omitempty" json:"notes,omitempty"`
	Images       []string               `bson:"images,omitempty" json:"images,omitempty"`
	Totals       map[string]PriceTotal  `bson:"totals" json:"totals"`
	Collections  []CollectionMembership `bson:"collections" json:"collections"`
	CollectionID *primitive.ObjectID    `bson:"collectionId,omitempty" json:"collectionId,omitempty"`

	IdempotencyKey string    `bson:"idempotencyKey,omitempty" json:"-"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time `bson:"updatedAt" json:"updatedAt"`
}

// EquipmentSection holds standard equipment rows and per-subcategory comments.
type EquipmentSection struct {
	Entries             []bson.M          `bson:"entries" json:"entries"`
	SubcategoryComments map[string]string `bson:"subcategoryComments" json:"subcategoryComments"`
}

// SpecialistSection holds specialist equipment rows and per-category comments.
type SpecialistSection struct {
	Entries          []bson.M          `bson:"entries" json:"entries"`
	CategoryComments map[string]string `bson:"categoryComments" json:"categoryComments"`
}

// CanopySection holds canopy rows and free comments keyed by canopy.
type CanopySection struct {
	Entries  []bson.M          `bson:"entries" json:"entries"`
	Comments map[string]string `bson:"comments" json:"comments"`
}

// PlacedItem is a part dropped on the schematic canvas.
type PlacedItem struct {
	ID       string              `bson:"id" json:"id"`
	PartID   *primitive.ObjectID `bson:"partId,omitempty" json:"partId,omitempty"`
	Category string              `bson:"category" json:"category"`
	Item     string              `bson:"item" json:"item"`
	X        float64             `bson:"x" json:"x"`
	Y        float64             `bson:"y" json:"y"`
	Rotation float64             `bson:"rotation,omitempty" json:"rotation,omitempty"`
	Price    float64             `bson:"price,omitempty" json:"price,omitempty"`
}

// DoorSelection is one itemized access door on the schematic.
type DoorSelection struct {
	Door     string  `bson:"door" json:"door"`
	Price    float64 `bson:"price" json:"price"`
	Quantity int     `bson:"quantity" json:"quantity"`
}

// Schematic is the drawn layout of the area.
type Schematic struct {
	PlacedItems          []PlacedItem    `bson:"placedItems" json:"placedItems"`
	Connections          []bson.M        `bson:"connections" json:"connections"`
	AccessDoorSelections []DoorSelection `bson:"accessDoorSelections" json:"accessDoorSelections"`
	AccessDoorPrice      float64         `bson:"accessDoorPrice" json:"accessDoorPrice"`
	PartsTotal           PriceTotal      `bson:"partsTotal" json:"partsTotal"`
}

// DoorTotal sums the itemized door selections. A zero quantity counts as one.
func (s Schematic) DoorTotal() float64 {
	var total float64
	for _, d := range s.AccessDoorSelections {
		q := d.Quantity
		if q <= 0 {
			q = 1
		}
		total += d.Price * float64(q)
	}
	return total
}

// PriceTotal is a money total with an optional per-category breakdown.
// It decodes from a bare number or from {overall, breakdown} and always
// encodes as the object form.
type PriceTotal struct {
	Overall   float64            `bson:"overall" json:"overall"`
	Breakdown map[string]float64 `bson:"breakdown,omitempty" json:"breakdown,omitempty"`
}

type priceTotalDoc PriceTotal

// UnmarshalJSON accepts either a number or an object.
func (p *PriceTotal) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*p = PriceTotal{}
		return nil
	}
	var n float64
	if err := json.Unmarshal(b, &n); err == nil {
		*p = PriceTotal{Overall: n}
		return nil
	}
	var doc priceTotalDoc
	if err := json.Unmarshal(b, &doc); err != nil {
		return fmt.Errorf("price total: %w", err)
	}
	*p = PriceTotal(doc)
	return nil
}

// UnmarshalBSONValue accepts either a numeric BSON value or a document.
func (p *PriceTotal) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	rv := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.Null, bsontype.Undefined:
		*p = PriceTotal{}
		return nil
	case bsontype.Double:
		*p = PriceTotal{Overall: rv.Double()}
		return nil
	case bsontype.Int32:
		*p = PriceTotal{Overall: float64(rv.Int32())}
		return nil
	case bsontype.Int64:
		*p = PriceTotal{Overall: float64(rv.Int64())}
		return nil
	case bsontype.EmbeddedDocument:
		var doc priceTotalDoc
		if err := rv.Unmarshal(&doc); err != nil {
			return fmt.Errorf("price total: %w", err)
		}
		*p = PriceTotal(doc)
		return nil
	}
	return fmt.Errorf("price total: unsupported BSON type %s", t)
}

// CollectionMembership links a survey to one SurveyCollection.
type CollectionMembership struct {
	CollectionID  primitive.ObjectID `bson:"collectionId" json:"collectionId"`
	AreaIndex     int                `bson:"areaIndex" json:"areaIndex"`
	CollectionRef string             `bson:"collectionRef,omitempty" json:"collectionRef,omitempty"`
	IsPrimary     bool               `bson:"isPrimary" json:"isPrimary"`
}

func (m *CollectionMembership) Primary() bool     { return m.IsPrimary }
func (m *CollectionMembership) SetPrimary(v bool) { m.IsPrimary = v }

// NormalizeMemberships returns the membership list with the legacy single
// collection folded in, entries without a collection or repeating one dropped,
// and exactly one primary entry.
func NormalizeMemberships(ms []CollectionMembership, legacy *primitive.ObjectID) []CollectionMembership {
	out := make([]CollectionMembership, 0, len(ms)+1)
	seen := make(map[primitive.ObjectID]bool, len(ms))
	for _, m := range ms {
		if m.CollectionID.IsZero() || seen[m.CollectionID] {
			continue
		}
		seen[m.CollectionID] = true
		out = append(out, m)
	}
	if len(out) == 0 && legacy != nil && !legacy.IsZero() {
		out = append(out, CollectionMembership{CollectionID: *legacy, IsPrimary: true})
	}
	EnforcePrimary(out)
	return out
}

// PrimaryMembership returns the primary membership, if any.
func (s *Survey) PrimaryMembership() (CollectionMembership, bool) {
	for _, m := range s.Collections {
		if m.IsPrimary {
			return m, true
		}
	}
	if len(s.Collections) > 0 {
		return s.Collections[0], true
	}
	return CollectionMembership{}, false
}

// SurveyCollection groups the areas of one site visit.
type SurveyCollection struct {
	ID             primitive.ObjectID   `bson:"_id" json:"_id"`
	CollectionRef  string               `bson:"collectionRef" json:"collectionRef"`
	Name           string               `bson:"name,omitempty" json:"name,omitempty"`
	Site           *primitive.ObjectID  `bson:"site,omitempty" json:"site,omitempty"`
	Surveys        []primitive.ObjectID `bson:"surveys" json:"surveys"`
	TotalAreas     int                  `bson:"totalAreas" json:"totalAreas"`
	IdempotencyKey string               `bson:"idempotencyKey,omitempty" json:"-"`
	CreatedAt      time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time            `bson:"updatedAt" json:"updatedAt"`
}
