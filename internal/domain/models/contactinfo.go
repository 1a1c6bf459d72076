// internal/domain/models/contactinfo.go
package models

// Address is embedded on every client entity.
type Address struct {
	Line1    string `bson:"line1" json:"line1"`
	Line2    string `bson:"line2,omitempty" json:"line2,omitempty"`
	Town     string `bson:"town,omitempty" json:"town,omitempty"`
	County   string `bson:"county,omitempty" json:"county,omitempty"`
	Postcode string `bson:"postcode,omitempty" json:"postcode,omitempty"`
	Country  string `bson:"country,omitempty" json:"country,omitempty"`
}

// Email is one entry of an entity's structured email list.
type Email struct {
	Email     string `bson:"email" json:"email"`
	Location  string `bson:"location" json:"location"`
	IsPrimary bool   `bson:"isPrimary" json:"isPrimary"`
}

func (e *Email) Primary() bool     { return e.IsPrimary }
func (e *Email) SetPrimary(v bool) { e.IsPrimary = v }

// PhoneNumber is one entry of an entity's structured phone list.
type PhoneNumber struct {
	PhoneNumber string `bson:"phoneNumber" json:"phoneNumber"`
	Location    string `bson:"location" json:"location"`
	IsPrimary   bool   `bson:"isPrimary" json:"isPrimary"`
}

func (p *PhoneNumber) Primary() bool     { return p.IsPrimary }
func (p *PhoneNumber) SetPrimary(v bool) { p.IsPrimary = v }

// Flagged is implemented by repeated sub-documents that carry a primary flag.
type Flagged interface {
	Primary() bool
	SetPrimary(bool)
}

// EnforcePrimary leaves exactly one element flagged when items is non-empty.
// The first flagged element wins; if none is flagged the first is promoted.
func EnforcePrimary[T any, P interface {
	*T
	Flagged
}](items []T) {
	if len(items) == 0 {
		return
	}
	seen := false
	for i := range items {
		p := P(&items[i])
		if !p.Primary() {
			continue
		}
		if seen {
			p.SetPrimary(false)
			continue
		}
		seen = true
	}
	if !seen {
		P(&items[0]).SetPrimary(true)
	}
}
