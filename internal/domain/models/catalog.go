// internal/domain/models/catalog.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PriceBands are the letters a price list item can be quoted in.
var PriceBands = []string{"A", "B", "C", "D", "E"}

// Prices holds one price per band.
type Prices struct {
	A float64 `bson:"A" json:"A"`
	B float64 `bson:"B" json:"B"`
	C float64 `bson:"C" json:"C"`
	D float64 `bson:"D" json:"D"`
	E float64 `bson:"E" json:"E"`
}

// Band returns the price for a band letter and whether the letter is known.
func (p Prices) Band(letter string) (float64, bool) {
	switch letter {
	case "A":
		return p.A, true
	case "B":
		return p.B, true
	case "C":
		return p.C, true
	case "D":
		return p.D, true
	case "E":
		return p.E, true
	}
	return 0, false
}

// SetBand sets the price for a band letter. Unknown letters are ignored.
func (p *Prices) SetBand(letter string, v float64) {
	switch letter {
	case "A":
		p.A = v
	case "B":
		p.B = v
	case "C":
		p.C = v
	case "D":
		p.D = v
	case "E":
		p.E = v
	}
}

// PriceItem is one row of the price list. {Category, Subcategory, Item} is the
// natural key used by imports.
type PriceItem struct {
	ID          primitive.ObjectID `bson:"_id" json:"_id"`
	Category    string             `bson:"category" json:"category" validate:"required,max=200" label:"Category"`
	Subcategory string             `bson:"subcategory" json:"subcategory" validate:"max=200" label:"Subcategory"`
	Item        string             `bson:"item" json:"item" validate:"required,max=300" label:"Item"`
	Prices      Prices             `bson:"prices" json:"prices"`
	SvgPath     string             `bson:"svgPath" json:"svgPath"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Dimensions is the default drawing size of a schematic part.
type Dimensions struct {
	Width  float64 `bson:"width" json:"width"`
	Height float64 `bson:"height" json:"height"`
}

// Part is a drawable item in the schematic parts catalog.
type Part struct {
	ID          primitive.ObjectID `bson:"_id" json:"_id"`
	Category    string             `bson:"category" json:"category" validate:"required,max=200" label:"Category"`
	Item        string             `bson:"item" json:"item" validate:"required,max=300" label:"Item"`
	SvgPath     string             `bson:"svgPath" json:"svgPath"`
	AspectRatio float64            `bson:"aspectRatio,omitempty" json:"aspectRatio,omitempty" validate:"gte=0" label:"Aspect ratio"`
	Price       float64            `bson:"price,omitempty" json:"price,omitempty" validate:"gte=0" label:"Price"`
	Dimensions  Dimensions         `bson:"dimensions" json:"dimensions"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Custom field types accepted by forms.
const (
	FieldText     = "text"
	FieldTextarea = "textarea"
	FieldNumber   = "number"
	FieldSelect   = "select"
	FieldCheckbox = "checkbox"
	FieldDate     = "date"
)

// CustomField is a reusable input definition that forms are assembled from.
type CustomField struct {
	ID        primitive.ObjectID `bson:"_id" json:"_id"`
	Label     string             `bson:"label" json:"label" validate:"required,max=200" label:"Label"`
	FieldType string             `bson:"fieldType" json:"fieldType" validate:"required,oneof=text textarea number select checkbox date" label:"Field type"`
	Options   []string           `bson:"options,omitempty" json:"options,omitempty"`
	Required  bool               `bson:"required" json:"required"`
	Category  string             `bson:"category,omitempty" json:"category,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Form is an ordered set of custom fields that a product type fills in.
type Form struct {
	ID        primitive.ObjectID   `bson:"_id" json:"_id"`
	Name      string               `bson:"name" json:"name" validate:"required,max=200" label:"Form name"`
	Category  string               `bson:"category,omitempty" json:"category,omitempty"`
	Fields    []primitive.ObjectID `bson:"fields" json:"fields"`
	CreatedAt time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// FieldValue is a product's answer for one custom field.
type FieldValue struct {
	FieldID primitive.ObjectID `bson:"fieldId" json:"fieldId"`
	Value   any                `bson:"value" json:"value"`
}

// Product is a catalog entry described by a form.
type Product struct {
	ID           primitive.ObjectID `bson:"_id" json:"_id"`
	Category     string             `bson:"category" json:"category" validate:"required,max=200" label:"Category"`
	Name         string             `bson:"name" json:"name" validate:"required,max=300" label:"Name"`
	Type         string             `bson:"type" json:"type" validate:"required,max=100" label:"Type"`
	Form         primitive.ObjectID `bson:"form" json:"form" validate:"required" label:"Form"`
	CustomFields []FieldValue       `bson:"customFields" json:"customFields"`
	Price        float64            `bson:"price,omitempty" json:"price,omitempty" validate:"gte=0" label:"Price"`
	Description  string             `bson:"description,omitempty" json:"description,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}
