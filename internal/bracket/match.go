package bracket

import (
	"time"

	"github.com/google/uuid"
)

type MatchStatus string

const (
	MatchScheduled MatchStatus = "scheduled"
	MatchLive      MatchStatus = "live"
	MatchCompleted MatchStatus = "completed"

	// Older rows were written with "finished" for the same terminal state.
	matchFinishedAlias MatchStatus = "finished"
)

// ParseMatchStatus normalises a status string, folding the legacy "finished" spelling into completed.
func ParseMatchStatus(s string) (MatchStatus, error) {
	switch MatchStatus(s) {
	case MatchScheduled, MatchLive, MatchCompleted:
		return MatchStatus(s), nil
	case matchFinishedAlias:
		return MatchCompleted, nil
	}
	return "", ErrInvalidStatus
}

func (s MatchStatus) IsTerminal() bool {
	return s == MatchCompleted || s == matchFinishedAlias
}

func (s MatchStatus) IsActive() bool {
	return s == MatchScheduled || s == MatchLive
}

type Match struct {
	ID           uuid.UUID `db:"id" json:"id"`
	TournamentID uuid.UUID `db:"tournament_id" json:"tournament_id"`

	Round      int     `db:"round" json:"round"`
	MatchOrder int     `db:"match_order" json:"match_order"`
	Pool       *string `db:"pool" json:"pool,omitempty"`

	// Singles matches use the slot columns, doubles matches the team columns.
	SlotA *uuid.UUID `db:"slot_a" json:"slot_a,omitempty"`
	SlotB *uuid.UUID `db:"slot_b" json:"slot_b,omitempty"`
	TeamA *uuid.UUID `db:"team_a_id" json:"team_a_id,omitempty"`
	TeamB *uuid.UUID `db:"team_b_id" json:"team_b_id,omitempty"`

	Status MatchStatus `db:"status" json:"status"`
	ScoreA *int        `db:"score_a" json:"score_a,omitempty"`
	ScoreB *int        `db:"score_b" json:"score_b,omitempty"`
	Winner *uuid.UUID  `db:"winner" json:"winner,omitempty"`

	CourtID *uuid.UUID `db:"court_id" json:"court_id,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// NewMatch places a pairing into the participant columns for the given kind.
func NewMatch(tournamentID uuid.UUID, kind ParticipantKind, round, order int, p Pairing) Match {
	m := Match{
		ID:           uuid.New(),
		TournamentID: tournamentID,
		Round:        round,
		MatchOrder:   order,
		Status:       p.Status,
		Winner:       p.Winner,
	}
	if kind == TeamParticipant {
		m.TeamA, m.TeamB = p.A, p.B
	} else {
		m.SlotA, m.SlotB = p.A, p.B
	}
	return m
}

func (m *Match) SideA() *uuid.UUID {
	if m.SlotA != nil {
		return m.SlotA
	}
	return m.TeamA
}

func (m *Match) SideB() *uuid.UUID {
	if m.SlotB != nil {
		return m.SlotB
	}
	return m.TeamB
}

// Involves reports whether the participant occupies either side of the match.
func (m *Match) Involves(id uuid.UUID) bool {
	a, b := m.SideA(), m.SideB()
	return (a != nil && *a == id) || (b != nil && *b == id)
}

func (m *Match) IsBye() bool {
	return m.SideA() != nil && m.SideB() == nil
}

func (m *Match) IsWinner(id uuid.UUID) bool {
	return m.Status.IsTerminal() && m.Winner != nil && *m.Winner == id
}

// Opponent returns the other side of the match from id, or nil for a bye or when id is not playing.
func (m *Match) Opponent(id uuid.UUID) *uuid.UUID {
	a, b := m.SideA(), m.SideB()
	switch {
	case a != nil && *a == id:
		return b
	case b != nil && *b == id:
		return a
	}
	return nil
}

type MatchScore struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	MatchID   uuid.UUID  `db:"match_id" json:"match_id"`
	ScorerID  *uuid.UUID `db:"scorer_id" json:"scorer_id,omitempty"`
	ScoreJSON string     `db:"score_json" json:"score_json"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
}
