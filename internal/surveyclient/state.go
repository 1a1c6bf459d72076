// internal/surveyclient/state.go
package surveyclient

import (
	"maps"
	"slices"
	"sync"

	"github.com/dalemusser/canopyhub/internal/domain/models"
)

// State is the single copy of a survey being edited. Editors change it
// through its methods; nothing else holds survey data.
//
// Comment text and door selections are staged as pending edits while the
// user types and folded into the survey by Flush. A pending value replaces
// the stored one with the same key.
//
// Every edit bumps a generation counter. Flush records the generation it
// sent, so Settle can tell whether the user kept editing while a save was
// in flight.
type State struct {
	mu      sync.Mutex
	survey  models.Survey
	gen     uint64
	flushed uint64

	equipmentComments  map[string]string
	specialistComments map[string]string
	canopyComments     map[string]string
	doors              []models.DoorSelection
	doorsPending       bool
}

// NewState starts editing sv.
func NewState(sv models.Survey) *State {
	return &State{survey: sv}
}

// Update applies fn to the survey.
func (s *State) Update(fn func(*models.Survey)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.survey)
	s.gen++
}

// Survey returns the survey without pending edits.
func (s *State) Survey() models.Survey {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.survey
}

// Replace swaps in sv and drops pending edits, as after loading the stored
// copy.
func (s *State) Replace(sv models.Survey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.survey = sv
	s.clearPending()
	s.flushed = s.gen
}

// Settle takes in the stored copy after a save. With no edits since the
// last Flush it behaves like Replace. Otherwise the local survey and any
// staged edits are kept, and only the fields the server owns (memberships
// and timestamps) are taken from stored. It reports whether local edits
// were kept.
func (s *State) Settle(stored models.Survey) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen == s.flushed {
		s.survey = stored
		return false
	}
	s.survey.Collections = stored.Collections
	s.survey.CollectionID = nil
	s.survey.CreatedAt = stored.CreatedAt
	s.survey.UpdatedAt = stored.UpdatedAt
	return true
}

func (s *State) SetEquipmentComment(subcategory, text string) {
	s.stage(&s.equipmentComments, subcategory, text)
}

func (s *State) SetSpecialistComment(category, text string) {
	s.stage(&s.specialistComments, category, text)
}

func (s *State) SetCanopyComment(canopy, text string) {
	s.stage(&s.canopyComments, canopy, text)
}

// SetDoorSelections stages the itemized access doors.
func (s *State) SetDoorSelections(doors []models.DoorSelection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doors = slices.Clone(doors)
	s.doorsPending = true
	s.gen++
}

// Pending reports whether there are staged edits.
func (s *State) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doorsPending ||
		len(s.equipmentComments) > 0 ||
		len(s.specialistComments) > 0 ||
		len(s.canopyComments) > 0
}

// Flush folds the pending edits into the survey and returns a copy of it
// whose comment maps and door list are not shared with the State.
func (s *State) Flush() models.Survey {
	s.mu.Lock()
	defer s.mu.Unlock()

	sv := &s.survey
	sv.Equipment.SubcategoryComments = merge(sv.Equipment.SubcategoryComments, s.equipmentComments)
	sv.Specialist.CategoryComments = merge(sv.Specialist.CategoryComments, s.specialistComments)
	sv.Canopy.Comments = merge(sv.Canopy.Comments, s.canopyComments)
	if s.doorsPending {
		sv.Schematic.AccessDoorSelections = s.doors
	}
	s.clearPending()
	s.flushed = s.gen

	out := s.survey
	out.Equipment.SubcategoryComments = maps.Clone(sv.Equipment.SubcategoryComments)
	out.Specialist.CategoryComments = maps.Clone(sv.Specialist.CategoryComments)
	out.Canopy.Comments = maps.Clone(sv.Canopy.Comments)
	out.Schematic.AccessDoorSelections = slices.Clone(sv.Schematic.AccessDoorSelections)
	out.Collections = slices.Clone(sv.Collections)
	return out
}

func (s *State) stage(m *map[string]string, key, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if *m == nil {
		*m = make(map[string]string)
	}
	(*m)[key] = text
	s.gen++
}

func (s *State) clearPending() {
	s.equipmentComments = nil
	s.specialistComments = nil
	s.canopyComments = nil
	s.doors = nil
	s.doorsPending = false
}

func merge(dst, pending map[string]string) map[string]string {
	if len(pending) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]string, len(pending))
	}
	maps.Copy(dst, pending)
	return dst
}
