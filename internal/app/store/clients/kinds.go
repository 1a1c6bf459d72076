// internal/app/store/clients/kinds.go
package clientstore

import (
	"strings"

	"github.com/dalemusser/canopyhub/internal/app/system/relations"
	"github.com/dalemusser/canopyhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
)

// Kind describes one client entity type.
type Kind struct {
	Name       string   // collection and route segment, e.g. "sites"
	Prefix     string   // field-name prefix, e.g. "site"
	Label      string   // singular, for messages
	NameFields []string // fields folded into nameCi
	Relations  relations.Config
	New        func() any // pointer to a zero model value
}

// LegacyRefs maps each deprecated single reference to its array field.
func (k Kind) LegacyRefs() map[string]string {
	out := make(map[string]string, len(k.Relations.Legacy))
	for _, l := range k.Relations.Legacy {
		out[l.Field] = l.ArrayField
	}
	return out
}

// NameCI folds the kind's name fields taken from doc.
func (k Kind) NameCI(doc bson.M) string {
	parts := make([]string, 0, len(k.NameFields))
	for _, f := range k.NameFields {
		if s, ok := doc[f].(string); ok && strings.TrimSpace(s) != "" {
			parts = append(parts, strings.TrimSpace(s))
		}
	}
	return text.Fold(strings.Join(parts, " "))
}

var (
	Sites = Kind{
		Name:       "sites",
		Prefix:     "site",
		Label:      "Site",
		NameFields: []string{"siteName"},
		Relations:  relations.Sites,
		New:        func() any { return &models.Site{} },
	}
	Groups = Kind{
		Name:       "groups",
		Prefix:     "group",
		Label:      "Group",
		NameFields: []string{"groupName"},
		Relations:  relations.Groups,
		New:        func() any { return &models.Group{} },
	}
	Chains = Kind{
		Name:       "chains",
		Prefix:     "chain",
		Label:      "Chain",
		NameFields: []string{"chainName"},
		Relations:  relations.Chains,
		New:        func() any { return &models.Chain{} },
	}
	Contacts = Kind{
		Name:       "contacts",
		Prefix:     "contact",
		Label:      "Contact",
		NameFields: []string{"firstName", "lastName"},
		Relations:  relations.Contacts,
		New:        func() any { return &models.Contact{} },
	}
	Suppliers = Kind{
		Name:       "suppliers",
		Prefix:     "supplier",
		Label:      "Supplier",
		NameFields: []string{"supplierName"},
		Relations:  relations.Suppliers,
		New:        func() any { return &models.Supplier{} },
	}
)

var kinds = map[string]Kind{
	Sites.Name:     Sites,
	Groups.Name:    Groups,
	Chains.Name:    Chains,
	Contacts.Name:  Contacts,
	Suppliers.Name: Suppliers,
}

// Lookup returns the kind for a route segment.
func Lookup(name string) (Kind, bool) {
	k, ok := kinds[name]
	return k, ok
}
