// internal/surveyclient/payload.go
package surveyclient

import (
	"github.com/dalemusser/canopyhub/internal/domain/models"
)

// BuildPayload prepares a flushed survey for a PUT.
//
// Price totals are already in their object form once decoded; empty maps
// are filled so the server stores {} rather than null. When door selections
// are itemized the access door price is their total. Memberships are
// normalized: the legacy collectionId is folded into the collections array
// and exactly one entry is primary.
func BuildPayload(sv models.Survey) models.Survey {
	if sv.Totals == nil {
		sv.Totals = map[string]models.PriceTotal{}
	}
	if sv.Equipment.SubcategoryComments == nil {
		sv.Equipment.SubcategoryComments = map[string]string{}
	}
	if sv.Specialist.CategoryComments == nil {
		sv.Specialist.CategoryComments = map[string]string{}
	}
	if sv.Canopy.Comments == nil {
		sv.Canopy.Comments = map[string]string{}
	}

	if len(sv.Schematic.AccessDoorSelections) > 0 {
		sv.Schematic.AccessDoorPrice = sv.Schematic.DoorTotal()
	}

	sv.Collections = models.NormalizeMemberships(sv.Collections, sv.CollectionID)
	sv.CollectionID = nil
	return sv
}
