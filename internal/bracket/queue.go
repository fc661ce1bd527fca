package bracket

import (
	"cmp"
	"slices"
	"time"

	"github.com/google/uuid"
)

type QueuedMatch struct {
	Match                Match `json:"match"`
	MatchesAhead         int   `json:"matches_ahead"`
	EstimatedWaitMinutes int   `json:"estimated_wait_minutes"`
}

// Queue is a court's outstanding work: what is on now, what is next, and everything after.
type Queue struct {
	Current  *QueuedMatch  `json:"current_match"`
	Next     *QueuedMatch  `json:"next_match"`
	Upcoming []QueuedMatch `json:"upcoming_matches"`
}

// CourtOrder sorts matches the way a court plays them: earlier rounds first, then match order,
// then creation time.
func CourtOrder(matches []Match) []Match {
	ordered := slices.Clone(matches)
	slices.SortStableFunc(ordered, func(a, b Match) int {
		if c := cmp.Compare(a.Round, b.Round); c != 0 {
			return c
		}
		if c := cmp.Compare(a.MatchOrder, b.MatchOrder); c != 0 {
			return c
		}
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return ordered
}

// BuildQueue orders a court's active matches. A live match is always current; otherwise the
// earliest scheduled match is. Each entry carries how many matches play before it and the
// wait that implies at perMatch per match.
func BuildQueue(matches []Match, perMatch time.Duration) Queue {
	var live, scheduled []Match
	for _, m := range CourtOrder(matches) {
		switch m.Status {
		case MatchLive:
			live = append(live, m)
		case MatchScheduled:
			scheduled = append(scheduled, m)
		}
	}

	ordered := append(live, scheduled...)
	queue := Queue{Upcoming: []QueuedMatch{}}
	for i, m := range ordered {
		wait := time.Duration(i) * perMatch
		qm := QueuedMatch{Match: m, MatchesAhead: i, EstimatedWaitMinutes: int(wait.Minutes())}
		switch i {
		case 0:
			queue.Current = &qm
		case 1:
			queue.Next = &qm
		default:
			queue.Upcoming = append(queue.Upcoming, qm)
		}
	}
	return queue
}

// Position finds a match in the queue, returning false when it is not waiting on this court.
func (q Queue) Position(matchID uuid.UUID) (QueuedMatch, bool) {
	for _, qm := range q.all() {
		if qm.Match.ID == matchID {
			return qm, true
		}
	}
	return QueuedMatch{}, false
}

func (q Queue) all() []QueuedMatch {
	var all []QueuedMatch
	if q.Current != nil {
		all = append(all, *q.Current)
	}
	if q.Next != nil {
		all = append(all, *q.Next)
	}
	return append(all, q.Upcoming...)
}
