package store

import (
	"context"

	"github.com/AdamBeresnev/tournament-scheduler/internal/bracket"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type CourtStore struct {
	db *sqlx.DB
}

func NewCourtStore(db *sqlx.DB) *CourtStore {
	return &CourtStore{db: db}
}

func (s *CourtStore) CreateCourt(ctx context.Context, tx *sqlx.Tx, court *bracket.Court) error {
	_, err := tx.NamedExecContext(ctx, `INSERT INTO courts (id, tournament_id, name, location_notes, created_at)
		VALUES (:id, :tournament_id, :name, :location_notes, :created_at)`, court)
	return err
}

func (s *CourtStore) GetCourt(ctx context.Context, id uuid.UUID) (*bracket.Court, error) {
	return s.getCourt(ctx, s.db, id)
}

func (s *CourtStore) GetCourtTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*bracket.Court, error) {
	return s.getCourt(ctx, tx, id)
}

func (s *CourtStore) getCourt(ctx context.Context, q sqlx.ExtContext, id uuid.UUID) (*bracket.Court, error) {
	var court bracket.Court
	if err := get(ctx, q, &court, "SELECT * FROM courts WHERE id = ?", id); err != nil {
		return nil, err
	}
	return &court, nil
}

func (s *CourtStore) GetCourts(ctx context.Context, tournamentID uuid.UUID) ([]bracket.Court, error) {
	return s.getCourts(ctx, s.db, tournamentID)
}

func (s *CourtStore) GetCourtsTx(ctx context.Context, tx *sqlx.Tx, tournamentID uuid.UUID) ([]bracket.Court, error) {
	return s.getCourts(ctx, tx, tournamentID)
}

// Courts come back by name. Allocation walks them in this order.
func (s *CourtStore) getCourts(ctx context.Context, q sqlx.ExtContext, tournamentID uuid.UUID) ([]bracket.Court, error) {
	courts := []bracket.Court{}
	err := sel(ctx, q, &courts, "SELECT * FROM courts WHERE tournament_id = ? ORDER BY name, created_at, id", tournamentID)
	return courts, err
}

func (s *CourtStore) UpdateCourt(ctx context.Context, tx *sqlx.Tx, court *bracket.Court) error {
	res, err := tx.NamedExecContext(ctx, `UPDATE courts SET name = :name, location_notes = :location_notes WHERE id = :id`, court)
	if err != nil {
		return err
	}
	return expectRow(res)
}

// DeleteCourt removes the court. Matches on it keep their state and lose the court reference.
func (s *CourtStore) DeleteCourt(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error {
	res, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM courts WHERE id = ?"), id)
	if err != nil {
		return err
	}
	return expectRow(res)
}
