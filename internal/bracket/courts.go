package bracket

import (
	"slices"

	"github.com/google/uuid"
)

// AllocateCourts hands courts out round robin over the match order: match i gets
// courtIDs[i mod len(courtIDs)]. The input matches are left untouched.
func AllocateCourts(matches []Match, courtIDs []uuid.UUID) ([]Match, error) {
	if len(courtIDs) == 0 {
		return nil, ErrNoCourts
	}
	allocated := slices.Clone(matches)
	for i := range allocated {
		courtID := courtIDs[i%len(courtIDs)]
		allocated[i].CourtID = &courtID
	}
	return allocated, nil
}
