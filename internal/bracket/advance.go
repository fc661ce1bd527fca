package bracket

import (
	"cmp"
	"slices"

	"github.com/google/uuid"
)

// Advancement is the outcome of resolving the current round. Exactly one of Champion
// or Pairings is set.
type Advancement struct {
	CurrentRound int
	NextRound    int
	Winners      []uuid.UUID
	Pairings     []Pairing
	Champion     *uuid.UUID
}

// CurrentRound is the highest round number present, or 0 with no matches.
func CurrentRound(matches []Match) int {
	current := 0
	for _, m := range matches {
		current = max(current, m.Round)
	}
	return current
}

// RoundMatches returns the matches of one round in match order.
func RoundMatches(matches []Match, round int) []Match {
	var inRound []Match
	for _, m := range matches {
		if m.Round == round {
			inRound = append(inRound, m)
		}
	}
	slices.SortStableFunc(inRound, func(a, b Match) int {
		return cmp.Compare(a.MatchOrder, b.MatchOrder)
	})
	return inRound
}

// Advance validates that the current round is fully decided and pairs its winners for the
// next round. A lone winner is the champion. With an odd number of winners the last one
// gets a bye that is decided on creation. Winners are counted once, so a pool player who
// won several matches advances a single time and is never paired against themselves.
func Advance(matches []Match) (*Advancement, error) {
	if len(matches) == 0 {
		return nil, ErrNoMatches
	}

	current := CurrentRound(matches)
	inRound := RoundMatches(matches, current)

	incomplete := 0
	for _, m := range inRound {
		if !m.Status.IsTerminal() {
			incomplete++
		}
	}
	if incomplete > 0 {
		return nil, &RoundIncompleteError{Round: current, Incomplete: incomplete}
	}

	winners := make([]uuid.UUID, 0, len(inRound))
	seen := make(map[uuid.UUID]bool, len(inRound))
	for _, m := range inRound {
		if m.Winner != nil && !seen[*m.Winner] {
			seen[*m.Winner] = true
			winners = append(winners, *m.Winner)
		}
	}

	adv := &Advancement{CurrentRound: current, Winners: winners}
	switch len(winners) {
	case 0:
		return nil, ErrInvalidWinnerCount
	case 1:
		adv.Champion = &winners[0]
		return adv, nil
	}

	adv.NextRound = current + 1
	for i := 0; i < len(winners); i += 2 {
		a := winners[i]
		var b *uuid.UUID
		if i+1 < len(winners) {
			b = &winners[i+1]
		}
		adv.Pairings = append(adv.Pairings, newPairing(&a, b))
	}
	return adv, nil
}
