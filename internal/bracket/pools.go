package bracket

import "github.com/google/uuid"

const DefaultPerPool = 4

var DefaultPoolLabels = []string{"A", "B", "C", "D"}

type Pool struct {
	Label   string      `json:"label"`
	Members []uuid.UUID `json:"members"`
}

type PoolPairing struct {
	Pool string
	A    uuid.UUID
	B    uuid.UUID
}

// DistributePools deals participants into pools by index modulo the pool count, so
// participant i lands in pool i mod len(labels). When the count does not divide evenly
// the earlier pools get one extra member each, rather than the last pool coming up short.
func DistributePools(labels []string, participants []uuid.UUID) []Pool {
	if len(labels) == 0 {
		labels = DefaultPoolLabels
	}
	pools := make([]Pool, len(labels))
	for i, label := range labels {
		pools[i] = Pool{Label: label, Members: []uuid.UUID{}}
	}
	for i, id := range participants {
		p := &pools[i%len(pools)]
		p.Members = append(p.Members, id)
	}
	return pools
}

// BuildPools distributes participants and generates a full round robin inside each pool,
// in pool order then pairing order.
func BuildPools(labels []string, participants []uuid.UUID) ([]Pool, []PoolPairing) {
	pools := DistributePools(labels, participants)

	var pairings []PoolPairing
	for _, pool := range pools {
		members := pool.Members
		for i := 0; i < len(members); i++ {
			for j := i + 1; j < len(members); j++ {
				pairings = append(pairings, PoolPairing{Pool: pool.Label, A: members[i], B: members[j]})
			}
		}
	}
	return pools, pairings
}

// NewPoolMatch builds the round 1 match for a pool pairing.
func NewPoolMatch(tournamentID uuid.UUID, kind ParticipantKind, order int, p PoolPairing) Match {
	a, b := p.A, p.B
	m := NewMatch(tournamentID, kind, 1, order, Pairing{A: &a, B: &b, Status: MatchScheduled})
	label := p.Pool
	m.Pool = &label
	return m
}
