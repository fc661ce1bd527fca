package bracket

import (
	"cmp"
	"slices"

	"github.com/google/uuid"
)

// Seed orders participants by rating, highest first. Equal ratings keep their input order.
func Seed(participants []Participant) []Participant {
	seeded := slices.Clone(participants)
	slices.SortStableFunc(seeded, func(a, b Participant) int {
		return cmp.Compare(b.Rating, a.Rating)
	})
	return seeded
}

func participantIDs(participants []Participant) []uuid.UUID {
	ids := make([]uuid.UUID, len(participants))
	for i, p := range participants {
		ids[i] = p.ID
	}
	return ids
}
