package store

import (
	"context"

	"github.com/AdamBeresnev/tournament-scheduler/internal/bracket"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type PlayerStore struct {
	db *sqlx.DB
}

const (
	createPlayerQuery = `
		INSERT INTO players (id, name, email, dupr, created_at) VALUES
		(:id, :name, :email, :dupr, :created_at)
	`
)

func NewPlayerStore(db *sqlx.DB) *PlayerStore {
	return &PlayerStore{db: db}
}

func (s *PlayerStore) CreatePlayer(ctx context.Context, tx *sqlx.Tx, player *bracket.Player) error {
	_, err := tx.NamedExecContext(ctx, createPlayerQuery, player)
	return err
}

func (s *PlayerStore) GetPlayer(ctx context.Context, id uuid.UUID) (*bracket.Player, error) {
	return s.getPlayer(ctx, s.db, id)
}

func (s *PlayerStore) GetPlayerTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*bracket.Player, error) {
	return s.getPlayer(ctx, tx, id)
}

func (s *PlayerStore) getPlayer(ctx context.Context, q sqlx.ExtContext, id uuid.UUID) (*bracket.Player, error) {
	var player bracket.Player
	if err := get(ctx, q, &player, "SELECT * FROM players WHERE id = ?", id); err != nil {
		return nil, err
	}
	return &player, nil
}

func (s *PlayerStore) ListPlayers(ctx context.Context) ([]bracket.Player, error) {
	players := []bracket.Player{}
	err := sel(ctx, s.db, &players, "SELECT * FROM players ORDER BY name, id")
	return players, err
}
