// internal/surveyclient/verify.go
package surveyclient

import (
	"fmt"
	"math"

	"github.com/dalemusser/canopyhub/internal/domain/models"
)

// doorPriceTolerance is the largest door price drift not reported.
const doorPriceTolerance = 0.01

// footprint is what a save is checked against after the read-back.
type footprint struct {
	Structure           bool
	EquipmentComments   int
	SpecialistComments  int
	CanopyComments      int
	PlacedItems         int
	BreakdownCategories int
	AccessDoorPrice     float64
	Collections         int
}

func footprintOf(sv models.Survey) footprint {
	return footprint{
		Structure:           len(sv.Structure) > 0,
		EquipmentComments:   len(sv.Equipment.SubcategoryComments),
		SpecialistComments:  len(sv.Specialist.CategoryComments),
		CanopyComments:      len(sv.Canopy.Comments),
		PlacedItems:         len(sv.Schematic.PlacedItems),
		BreakdownCategories: len(sv.Schematic.PartsTotal.Breakdown),
		AccessDoorPrice:     sv.Schematic.AccessDoorPrice,
		Collections:         len(sv.Collections),
	}
}

// compare lists every way stored falls short of sent. Stored counts may
// exceed sent ones; the server can hold data the client never loaded.
func compare(sent, stored footprint) []string {
	var out []string
	if sent.Structure && !stored.Structure {
		out = append(out, "structure section missing after save")
	}
	fewer := func(what string, want, got int) {
		if got < want {
			out = append(out, fmt.Sprintf("%s: sent %d, stored %d", what, want, got))
		}
	}
	fewer("equipment comments", sent.EquipmentComments, stored.EquipmentComments)
	fewer("specialist comments", sent.SpecialistComments, stored.SpecialistComments)
	fewer("canopy comments", sent.CanopyComments, stored.CanopyComments)
	fewer("placed schematic items", sent.PlacedItems, stored.PlacedItems)
	fewer("schematic breakdown categories", sent.BreakdownCategories, stored.BreakdownCategories)
	fewer("collection memberships", sent.Collections, stored.Collections)
	if math.Abs(sent.AccessDoorPrice-stored.AccessDoorPrice) > doorPriceTolerance {
		out = append(out, fmt.Sprintf("access door price: sent %.2f, stored %.2f", sent.AccessDoorPrice, stored.AccessDoorPrice))
	}
	return out
}
