package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/AdamBeresnev/tournament-scheduler/internal/bracket"
	"github.com/AdamBeresnev/tournament-scheduler/internal/store"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type GenerationService struct {
	db      *sqlx.DB
	store   *store.TournamentStore
	courts  *store.CourtStore
	matches *store.MatchStore
}

func NewGenerationService(db *sqlx.DB, store *store.TournamentStore, courts *store.CourtStore, matches *store.MatchStore) *GenerationService {
	return &GenerationService{db: db, store: store, courts: courts, matches: matches}
}

type PoolOptions struct {
	Labels  []string `json:"pools"`
	PerPool int      `json:"teams_per_pool"`
}

type GenerationResult struct {
	Tournament  *bracket.Tournament `json:"tournament"`
	Matches     []bracket.Match     `json:"matches"`
	BracketSize int                 `json:"bracket_size,omitempty"`
	Byes        int                 `json:"byes,omitempty"`
	Champion    *uuid.UUID          `json:"champion,omitempty"`
	Pools       []bracket.Pool      `json:"pool_assignments,omitempty"`
}

// GenerateBracket seeds the tournament's participants and creates round 1 of a single
// elimination bracket, with courts allocated over the new matches.
func (s *GenerationService) GenerateBracket(ctx context.Context, tournamentID uuid.UUID) (*GenerationResult, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	tournament, participants, err := s.prepare(ctx, tx, tournamentID)
	if err != nil {
		return nil, err
	}

	seeded := bracket.Seed(participants)
	if tournament.Type.ParticipantKind() == bracket.PlayerParticipant {
		seeds := make(map[uuid.UUID]int, len(seeded))
		for i, p := range seeded {
			seeds[p.ID] = i + 1
		}
		if err := s.store.SetSeeds(ctx, tx, tournamentID, seeds); err != nil {
			return nil, fmt.Errorf("failed to store seeds: %w", err)
		}
	}

	b := bracket.BuildBracket(seeded)
	result := &GenerationResult{Tournament: tournament, Matches: []bracket.Match{}, BracketSize: b.Size, Byes: b.Byes}

	if b.Champion != nil {
		tournament.Status = bracket.TournamentCompleted
		tournament.ChampionID = b.Champion
		if err := s.store.UpdateTournamentStatus(ctx, tx, tournament); err != nil {
			return nil, fmt.Errorf("failed to update tournament: %w", err)
		}
		slog.Info("single participant declared champion", "tournament_id", tournamentID, "champion", *b.Champion)
		result.Champion = b.Champion
		return result, tx.Commit()
	}

	kind := tournament.Type.ParticipantKind()
	matches := make([]bracket.Match, len(b.Pairings))
	for i, p := range b.Pairings {
		matches[i] = bracket.NewMatch(tournamentID, kind, 1, i, p)
	}

	result.Matches, err = s.persist(ctx, tx, tournament, matches)
	if err != nil {
		return nil, err
	}
	if b.Byes > 0 {
		slog.Info("byes auto-advanced", "tournament_id", tournamentID, "byes", b.Byes)
	}
	return result, tx.Commit()
}

// GeneratePools deals seeded participants into pools and creates a round robin inside each.
func (s *GenerationService) GeneratePools(ctx context.Context, tournamentID uuid.UUID, opts PoolOptions) (*GenerationResult, error) {
	if opts.PerPool < 0 {
		return nil, invalid("teams_per_pool must not be negative")
	}
	if opts.PerPool == 0 {
		opts.PerPool = bracket.DefaultPerPool
	}
	seen := make(map[string]bool, len(opts.Labels))
	for _, label := range opts.Labels {
		if label == "" || seen[label] {
			return nil, invalid("pool labels must be unique and non-empty")
		}
		seen[label] = true
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	tournament, participants, err := s.prepare(ctx, tx, tournamentID)
	if err != nil {
		return nil, err
	}

	seeded := bracket.Seed(participants)
	ids := make([]uuid.UUID, len(seeded))
	for i, p := range seeded {
		ids[i] = p.ID
	}
	pools, pairings := bracket.BuildPools(opts.Labels, ids)
	for _, pool := range pools {
		if len(pool.Members) > opts.PerPool {
			slog.Warn("pool larger than requested", "tournament_id", tournamentID, "pool", pool.Label,
				"members", len(pool.Members), "per_pool", opts.PerPool)
		}
	}

	kind := tournament.Type.ParticipantKind()
	matches := make([]bracket.Match, len(pairings))
	for i, p := range pairings {
		matches[i] = bracket.NewPoolMatch(tournamentID, kind, i, p)
	}

	result := &GenerationResult{Tournament: tournament, Pools: pools}
	result.Matches, err = s.persist(ctx, tx, tournament, matches)
	if err != nil {
		return nil, err
	}
	return result, tx.Commit()
}

// prepare loads the tournament and its rated participants, refusing to generate twice.
func (s *GenerationService) prepare(ctx context.Context, tx *sqlx.Tx, tournamentID uuid.UUID) (*bracket.Tournament, []bracket.Participant, error) {
	tournament, err := s.store.GetTournamentTx(ctx, tx, tournamentID)
	if err != nil {
		return nil, nil, err
	}

	count, err := s.matches.CountMatchesTx(ctx, tx, tournamentID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to count matches: %w", err)
	}
	if count > 0 {
		return nil, nil, bracket.ErrAlreadyGenerated
	}

	participants, err := s.store.GetParticipantsTx(ctx, tx, tournamentID, tournament.Type.ParticipantKind())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get participants: %w", err)
	}
	if len(participants) == 0 {
		return nil, nil, bracket.ErrNoParticipants
	}
	return tournament, participants, nil
}

// persist allocates courts, inserts the matches and marks the tournament started.
func (s *GenerationService) persist(ctx context.Context, tx *sqlx.Tx, tournament *bracket.Tournament, matches []bracket.Match) ([]bracket.Match, error) {
	allocated, err := allocateCourts(ctx, tx, s.courts, tournament.ID, matches)
	if err != nil {
		return nil, err
	}

	if err := s.matches.CreateMatches(ctx, tx, allocated); err != nil {
		return nil, fmt.Errorf("failed to create matches: %w", err)
	}

	tournament.Status = bracket.TournamentStarted
	if err := s.store.UpdateTournamentStatus(ctx, tx, tournament); err != nil {
		return nil, fmt.Errorf("failed to update tournament: %w", err)
	}
	return allocated, nil
}

// allocateCourts stamps creation time and hands the tournament's courts out over matches.
func allocateCourts(ctx context.Context, tx *sqlx.Tx, courts *store.CourtStore, tournamentID uuid.UUID, matches []bracket.Match) ([]bracket.Match, error) {
	list, err := courts.GetCourtsTx(ctx, tx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get courts: %w", err)
	}
	courtIDs := make([]uuid.UUID, len(list))
	for i, c := range list {
		courtIDs[i] = c.ID
	}

	allocated, err := bracket.AllocateCourts(matches, courtIDs)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	for i := range allocated {
		allocated[i].CreatedAt = now
	}
	return allocated, nil
}
