package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/AdamBeresnev/tournament-scheduler/internal/bracket"
	"github.com/AdamBeresnev/tournament-scheduler/internal/store"
	"github.com/AdamBeresnev/tournament-scheduler/internal/utils"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type CourtService struct {
	db            *sqlx.DB
	store         *store.CourtStore
	tournaments   *store.TournamentStore
	matches       *store.MatchStore
	matchDuration time.Duration
}

func NewCourtService(db *sqlx.DB, store *store.CourtStore, tournaments *store.TournamentStore, matches *store.MatchStore, matchDuration time.Duration) *CourtService {
	return &CourtService{db: db, store: store, tournaments: tournaments, matches: matches, matchDuration: matchDuration}
}

type CourtInput struct {
	Name          string `json:"name"`
	LocationNotes string `json:"location_notes"`
}

type CourtUpdate struct {
	Name          *string `json:"name"`
	LocationNotes *string `json:"location_notes"`
}

type CourtQueue struct {
	Court *bracket.Court `json:"court"`
	bracket.Queue
}

func (s *CourtService) CreateCourt(ctx context.Context, tournamentID uuid.UUID, input CourtInput) (*bracket.Court, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, invalid("name is required")
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := s.tournaments.GetTournamentTx(ctx, tx, tournamentID); err != nil {
		return nil, err
	}

	court := &bracket.Court{
		ID:            uuid.New(),
		TournamentID:  tournamentID,
		Name:          name,
		LocationNotes: utils.StringOrNil(input.LocationNotes),
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.store.CreateCourt(ctx, tx, court); err != nil {
		return nil, fmt.Errorf("failed to create court: %w", err)
	}

	return court, tx.Commit()
}

func (s *CourtService) ListCourts(ctx context.Context, tournamentID uuid.UUID) ([]bracket.Court, error) {
	if _, err := s.tournaments.GetTournament(ctx, tournamentID); err != nil {
		return nil, err
	}
	return s.store.GetCourts(ctx, tournamentID)
}

func (s *CourtService) GetCourt(ctx context.Context, id uuid.UUID) (*bracket.Court, error) {
	return s.store.GetCourt(ctx, id)
}

func (s *CourtService) UpdateCourt(ctx context.Context, id uuid.UUID, update CourtUpdate) (*bracket.Court, error) {
	if update.Name == nil && update.LocationNotes == nil {
		return nil, invalid("no fields to update")
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	court, err := s.store.GetCourtTx(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, invalid("name must not be empty")
		}
		court.Name = name
	}
	if update.LocationNotes != nil {
		court.LocationNotes = utils.StringOrNil(*update.LocationNotes)
	}

	if err := s.store.UpdateCourt(ctx, tx, court); err != nil {
		return nil, fmt.Errorf("failed to update court: %w", err)
	}

	return court, tx.Commit()
}

func (s *CourtService) DeleteCourt(ctx context.Context, id uuid.UUID) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.store.DeleteCourt(ctx, tx, id); err != nil {
		return err
	}
	return tx.Commit()
}

// CourtQueue lists what is playing on a court now and what is waiting for it.
func (s *CourtService) CourtQueue(ctx context.Context, id uuid.UUID) (*CourtQueue, error) {
	court, err := s.store.GetCourt(ctx, id)
	if err != nil {
		return nil, err
	}

	matches, err := s.matches.GetCourtMatches(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get court matches: %w", err)
	}

	return &CourtQueue{Court: court, Queue: bracket.BuildQueue(matches, s.matchDuration)}, nil
}
