package bracket

import (
	"time"

	"github.com/google/uuid"
)

type ParticipantKind string

const (
	PlayerParticipant ParticipantKind = "player"
	TeamParticipant   ParticipantKind = "team"
)

// Participant is anything that can occupy a match slot: a player in singles, a team in doubles.
type Participant struct {
	ID     uuid.UUID `db:"id" json:"id"`
	Rating float64   `db:"rating" json:"rating"`
}

type Player struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     *string   `db:"email" json:"email,omitempty"`
	DUPR      *float64  `db:"dupr" json:"dupr,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type Registration struct {
	ID           uuid.UUID `db:"id" json:"id"`
	TournamentID uuid.UUID `db:"tournament_id" json:"tournament_id"`
	PlayerID     uuid.UUID `db:"player_id" json:"player_id"`
	Seed         *int      `db:"seed" json:"seed,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

type Team struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	TournamentID uuid.UUID  `db:"tournament_id" json:"tournament_id"`
	TeamName     string     `db:"team_name" json:"team_name"`
	Player1ID    uuid.UUID  `db:"player1_id" json:"player1_id"`
	Player2ID    *uuid.UUID `db:"player2_id" json:"player2_id,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
}

// HasPlayer reports whether the player is on the team.
func (t *Team) HasPlayer(playerID uuid.UUID) bool {
	return t.Player1ID == playerID || (t.Player2ID != nil && *t.Player2ID == playerID)
}

// TeamRating averages the members' ratings. A missing rating counts as 0 and a team
// without a second player is rated on its first player alone.
func TeamRating(player1, player2 *float64, hasPlayer2 bool) float64 {
	r1 := 0.0
	if player1 != nil {
		r1 = *player1
	}
	if !hasPlayer2 {
		return r1
	}
	r2 := 0.0
	if player2 != nil {
		r2 = *player2
	}
	return (r1 + r2) / 2
}

type Court struct {
	ID            uuid.UUID `db:"id" json:"id"`
	TournamentID  uuid.UUID `db:"tournament_id" json:"tournament_id"`
	Name          string    `db:"name" json:"name"`
	LocationNotes *string   `db:"location_notes" json:"location_notes,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}
