package store

import (
	"context"

	"github.com/AdamBeresnev/tournament-scheduler/internal/bracket"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type MatchStore struct {
	db *sqlx.DB
}

func NewMatchStore(db *sqlx.DB) *MatchStore {
	return &MatchStore{db: db}
}

const (
	createMatchesQuery = `INSERT INTO matches (id, tournament_id, round, match_order, pool, slot_a, slot_b, team_a_id, team_b_id, status, score_a, score_b, winner, court_id, created_at)
		VALUES (:id, :tournament_id, :round, :match_order, :pool, :slot_a, :slot_b, :team_a_id, :team_b_id, :status, :score_a, :score_b, :winner, :court_id, :created_at)`
	updateMatchQuery = `UPDATE matches SET
		status = :status,
		score_a = :score_a,
		score_b = :score_b,
		winner = :winner,
		court_id = :court_id
		WHERE id = :id`
	createMatchScoreQuery = `INSERT INTO match_scores (id, match_id, scorer_id, score_json, created_at)
		VALUES (:id, :match_id, :scorer_id, :score_json, :created_at)`
)

// CreateMatches inserts all matches in one statement. A clash on (tournament, round, match_order)
// surfaces as a unique constraint error.
func (s *MatchStore) CreateMatches(ctx context.Context, tx *sqlx.Tx, matches []bracket.Match) error {
	if len(matches) == 0 {
		return nil
	}
	_, err := tx.NamedExecContext(ctx, createMatchesQuery, matches)
	return err
}

func (s *MatchStore) GetMatch(ctx context.Context, id uuid.UUID) (*bracket.Match, error) {
	return s.getMatch(ctx, s.db, id)
}

func (s *MatchStore) GetMatchTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*bracket.Match, error) {
	return s.getMatch(ctx, tx, id)
}

func (s *MatchStore) getMatch(ctx context.Context, q sqlx.ExtContext, id uuid.UUID) (*bracket.Match, error) {
	var match bracket.Match
	if err := get(ctx, q, &match, "SELECT * FROM matches WHERE id = ?", id); err != nil {
		return nil, err
	}
	return &match, nil
}

func (s *MatchStore) GetMatches(ctx context.Context, tournamentID uuid.UUID) ([]bracket.Match, error) {
	return s.getMatches(ctx, s.db, tournamentID)
}

func (s *MatchStore) GetMatchesTx(ctx context.Context, tx *sqlx.Tx, tournamentID uuid.UUID) ([]bracket.Match, error) {
	return s.getMatches(ctx, tx, tournamentID)
}

func (s *MatchStore) getMatches(ctx context.Context, q sqlx.ExtContext, tournamentID uuid.UUID) ([]bracket.Match, error) {
	matches := []bracket.Match{}
	err := sel(ctx, q, &matches, "SELECT * FROM matches WHERE tournament_id = ? ORDER BY round ASC, match_order ASC", tournamentID)
	return matches, err
}

func (s *MatchStore) CountMatchesTx(ctx context.Context, tx *sqlx.Tx, tournamentID uuid.UUID) (int, error) {
	var count int
	err := get(ctx, tx, &count, "SELECT count(*) FROM matches WHERE tournament_id = ?", tournamentID)
	return count, err
}

func (s *MatchStore) GetCourtMatches(ctx context.Context, courtID uuid.UUID) ([]bracket.Match, error) {
	matches := []bracket.Match{}
	err := sel(ctx, s.db, &matches, "SELECT * FROM matches WHERE court_id = ? ORDER BY round ASC, match_order ASC, created_at ASC", courtID)
	return matches, err
}

func (s *MatchStore) UpdateMatch(ctx context.Context, tx *sqlx.Tx, match *bracket.Match) error {
	res, err := tx.NamedExecContext(ctx, updateMatchQuery, match)
	if err != nil {
		return err
	}
	return expectRow(res)
}

func (s *MatchStore) CreateMatchScore(ctx context.Context, tx *sqlx.Tx, score *bracket.MatchScore) error {
	_, err := tx.NamedExecContext(ctx, createMatchScoreQuery, score)
	return err
}

func (s *MatchStore) GetMatchScores(ctx context.Context, matchID uuid.UUID) ([]bracket.MatchScore, error) {
	scores := []bracket.MatchScore{}
	err := sel(ctx, s.db, &scores, "SELECT * FROM match_scores WHERE match_id = ? ORDER BY created_at", matchID)
	return scores, err
}
