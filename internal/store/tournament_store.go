package store

import (
	"context"
	"database/sql"

	"github.com/AdamBeresnev/tournament-scheduler/internal/bracket"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type TournamentStore struct {
	db *sqlx.DB
}

func NewTournamentStore(db *sqlx.DB) *TournamentStore {
	return &TournamentStore{db: db}
}

// RegisteredPlayer is a registration joined with the player it registers.
type RegisteredPlayer struct {
	bracket.Registration
	PlayerName  string   `db:"player_name" json:"player_name"`
	PlayerEmail *string  `db:"player_email" json:"player_email,omitempty"`
	PlayerDUPR  *float64 `db:"player_dupr" json:"player_dupr,omitempty"`
}

const (
	createTournamentQuery = `INSERT INTO tournaments (id, name, date, location, format, tournament_type, status, champion_id, created_at)
		VALUES (:id, :name, :date, :location, :format, :tournament_type, :status, :champion_id, :created_at)`
	updateTournamentStatusQuery = `UPDATE tournaments SET status = :status, champion_id = :champion_id WHERE id = :id`

	createRegistrationQuery = `INSERT INTO registrations (id, tournament_id, player_id, seed, created_at)
		VALUES (:id, :tournament_id, :player_id, :seed, :created_at)`
	getRegistrationsQuery = `
		SELECT r.id, r.tournament_id, r.player_id, r.seed, r.created_at,
			p.name AS player_name, p.email AS player_email, p.dupr AS player_dupr
		FROM registrations r
		JOIN players p ON p.id = r.player_id
		WHERE r.tournament_id = ?
		ORDER BY r.seed IS NULL, r.seed, r.created_at, r.id`

	createTeamQuery = `INSERT INTO teams (id, tournament_id, team_name, player1_id, player2_id, created_at)
		VALUES (:id, :tournament_id, :team_name, :player1_id, :player2_id, :created_at)`

	getPlayerParticipantsQuery = `
		SELECT r.player_id AS id, COALESCE(p.dupr, 0) AS rating
		FROM registrations r
		JOIN players p ON p.id = r.player_id
		WHERE r.tournament_id = ?
		ORDER BY r.created_at, r.id`
	getTeamRatingsQuery = `
		SELECT t.id, t.player2_id, p1.dupr AS dupr1, p2.dupr AS dupr2
		FROM teams t
		JOIN players p1 ON p1.id = t.player1_id
		LEFT JOIN players p2 ON p2.id = t.player2_id
		WHERE t.tournament_id = ?
		ORDER BY t.created_at, t.id`
)

func (s *TournamentStore) CreateTournament(ctx context.Context, tx *sqlx.Tx, tournament *bracket.Tournament) error {
	_, err := tx.NamedExecContext(ctx, createTournamentQuery, tournament)
	return err
}

func (s *TournamentStore) GetTournament(ctx context.Context, id uuid.UUID) (*bracket.Tournament, error) {
	return s.getTournament(ctx, s.db, id)
}

func (s *TournamentStore) GetTournamentTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*bracket.Tournament, error) {
	return s.getTournament(ctx, tx, id)
}

func (s *TournamentStore) getTournament(ctx context.Context, q sqlx.ExtContext, id uuid.UUID) (*bracket.Tournament, error) {
	var tournament bracket.Tournament
	if err := get(ctx, q, &tournament, "SELECT * FROM tournaments WHERE id = ?", id); err != nil {
		return nil, err
	}
	return &tournament, nil
}

func (s *TournamentStore) ListTournaments(ctx context.Context) ([]bracket.Tournament, error) {
	tournaments := []bracket.Tournament{}
	err := sel(ctx, s.db, &tournaments, "SELECT * FROM tournaments ORDER BY date IS NULL, date, created_at")
	return tournaments, err
}

// UpdateTournamentStatus writes status and champion_id.
func (s *TournamentStore) UpdateTournamentStatus(ctx context.Context, tx *sqlx.Tx, tournament *bracket.Tournament) error {
	res, err := tx.NamedExecContext(ctx, updateTournamentStatusQuery, tournament)
	if err != nil {
		return err
	}
	return expectRow(res)
}

func (s *TournamentStore) CreateRegistration(ctx context.Context, tx *sqlx.Tx, registration *bracket.Registration) error {
	_, err := tx.NamedExecContext(ctx, createRegistrationQuery, registration)
	return err
}

func (s *TournamentStore) GetRegistrations(ctx context.Context, tournamentID uuid.UUID) ([]RegisteredPlayer, error) {
	registrations := []RegisteredPlayer{}
	err := sel(ctx, s.db, &registrations, getRegistrationsQuery, tournamentID)
	return registrations, err
}

func (s *TournamentStore) IsRegistered(ctx context.Context, tournamentID, playerID uuid.UUID) (bool, error) {
	var count int
	err := get(ctx, s.db, &count, "SELECT count(*) FROM registrations WHERE tournament_id = ? AND player_id = ?", tournamentID, playerID)
	return count > 0, err
}

// SetSeeds stores each player's seed, keyed by player id.
func (s *TournamentStore) SetSeeds(ctx context.Context, tx *sqlx.Tx, tournamentID uuid.UUID, seeds map[uuid.UUID]int) error {
	query := tx.Rebind("UPDATE registrations SET seed = ? WHERE tournament_id = ? AND player_id = ?")
	for playerID, seed := range seeds {
		if _, err := tx.ExecContext(ctx, query, seed, tournamentID, playerID); err != nil {
			return err
		}
	}
	return nil
}

func (s *TournamentStore) CreateTeam(ctx context.Context, tx *sqlx.Tx, team *bracket.Team) error {
	_, err := tx.NamedExecContext(ctx, createTeamQuery, team)
	return err
}

func (s *TournamentStore) GetTeams(ctx context.Context, tournamentID uuid.UUID) ([]bracket.Team, error) {
	teams := []bracket.Team{}
	err := sel(ctx, s.db, &teams, "SELECT * FROM teams WHERE tournament_id = ? ORDER BY created_at, id", tournamentID)
	return teams, err
}

func (s *TournamentStore) GetTeam(ctx context.Context, id uuid.UUID) (*bracket.Team, error) {
	var team bracket.Team
	if err := get(ctx, s.db, &team, "SELECT * FROM teams WHERE id = ?", id); err != nil {
		return nil, err
	}
	return &team, nil
}

// GetParticipantsTx loads the tournament's participants in registration order, rated for seeding.
// Singles are rated by player DUPR, doubles by the team's mean DUPR.
func (s *TournamentStore) GetParticipantsTx(ctx context.Context, tx *sqlx.Tx, tournamentID uuid.UUID, kind bracket.ParticipantKind) ([]bracket.Participant, error) {
	if kind == bracket.PlayerParticipant {
		participants := []bracket.Participant{}
		err := sel(ctx, tx, &participants, getPlayerParticipantsQuery, tournamentID)
		return participants, err
	}

	var rows []struct {
		ID        uuid.UUID  `db:"id"`
		Player2ID *uuid.UUID `db:"player2_id"`
		DUPR1     *float64   `db:"dupr1"`
		DUPR2     *float64   `db:"dupr2"`
	}
	if err := sel(ctx, tx, &rows, getTeamRatingsQuery, tournamentID); err != nil {
		return nil, err
	}
	participants := make([]bracket.Participant, len(rows))
	for i, row := range rows {
		participants[i] = bracket.Participant{
			ID:     row.ID,
			Rating: bracket.TeamRating(row.DUPR1, row.DUPR2, row.Player2ID != nil),
		}
	}
	return participants, nil
}

func expectRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
