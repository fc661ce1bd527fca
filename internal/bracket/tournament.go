package bracket

import (
	"time"

	"github.com/google/uuid"
)

type TournamentStatus string

const (
	TournamentDraft     TournamentStatus = "draft"
	TournamentStarted   TournamentStatus = "started"
	TournamentCompleted TournamentStatus = "completed"
)

type TournamentFormat string

const (
	SingleElimination TournamentFormat = "single-elim"
	RoundRobin        TournamentFormat = "round-robin"
	PoolPlay          TournamentFormat = "pool-play"
)

func (f TournamentFormat) Valid() bool {
	switch f {
	case SingleElimination, RoundRobin, PoolPlay:
		return true
	}
	return false
}

type TournamentType string

const (
	Singles TournamentType = "singles"
	Doubles TournamentType = "doubles"
)

func (t TournamentType) Valid() bool {
	return t == Singles || t == Doubles
}

// ParticipantKind reports what a tournament's matches are played between.
func (t TournamentType) ParticipantKind() ParticipantKind {
	if t == Doubles {
		return TeamParticipant
	}
	return PlayerParticipant
}

type Tournament struct {
	ID         uuid.UUID        `db:"id" json:"id"`
	Name       string           `db:"name" json:"name"`
	Date       *time.Time       `db:"date" json:"date,omitempty"`
	Location   *string          `db:"location" json:"location,omitempty"`
	Format     TournamentFormat `db:"format" json:"format"`
	Type       TournamentType   `db:"tournament_type" json:"tournament_type"`
	Status     TournamentStatus `db:"status" json:"status"`
	ChampionID *uuid.UUID       `db:"champion_id" json:"champion_id,omitempty"`
	CreatedAt  time.Time        `db:"created_at" json:"created_at"`
}
