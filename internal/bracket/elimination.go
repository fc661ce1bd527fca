package bracket

import "github.com/google/uuid"

// Pairing is one generated match before it is given an id, round and court.
type Pairing struct {
	A      *uuid.UUID
	B      *uuid.UUID
	Status MatchStatus
	Winner *uuid.UUID
}

func newPairing(a, b *uuid.UUID) Pairing {
	if b == nil {
		return Pairing{A: a, Status: MatchCompleted, Winner: a}
	}
	return Pairing{A: a, B: b, Status: MatchScheduled}
}

func (p Pairing) IsBye() bool {
	return p.B == nil
}

type Bracket struct {
	Size     int
	Byes     int
	Pairings []Pairing
	// Set when there is nobody to play, i.e. a single participant.
	Champion *uuid.UUID
}

// Gets the nearest power of 2 while rounding up, so with input 5 it returns 8 and so on
func calcBracketSize(count int) int {
	if count <= 0 {
		return 0
	}
	size := 1
	for size < count {
		size <<= 1
	}
	return size
}

// Top seed faces the last slot, second seed the second-to-last, and so on.
func generateRound1Pairs(bracketSize int) [][2]int {
	pairs := make([][2]int, 0, bracketSize/2)
	for i := 0; i < bracketSize/2; i++ {
		pairs = append(pairs, [2]int{i, bracketSize - 1 - i})
	}
	return pairs
}

// BuildBracket lays seeded participants into a power-of-two bracket and pairs round 1.
// Empty slots at the bottom of the bracket are byes, which are decided immediately.
func BuildBracket(seeded []Participant) Bracket {
	n := len(seeded)
	if n == 0 {
		return Bracket{}
	}
	if n == 1 {
		id := seeded[0].ID
		return Bracket{Size: 1, Champion: &id}
	}

	size := calcBracketSize(n)
	slots := make([]*uuid.UUID, size)
	for i, id := range participantIDs(seeded) {
		slots[i] = &id
	}

	pairings := make([]Pairing, 0, size/2)
	for _, pair := range generateRound1Pairs(size) {
		pairings = append(pairings, newPairing(slots[pair[0]], slots[pair[1]]))
	}

	return Bracket{
		Size:     size,
		Byes:     size - n,
		Pairings: pairings,
	}
}
