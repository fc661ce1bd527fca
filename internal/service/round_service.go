package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/AdamBeresnev/tournament-scheduler/internal/bracket"
	"github.com/AdamBeresnev/tournament-scheduler/internal/db"
	"github.com/AdamBeresnev/tournament-scheduler/internal/store"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type RoundService struct {
	db      *sqlx.DB
	store   *store.TournamentStore
	courts  *store.CourtStore
	matches *store.MatchStore

	mu    sync.Mutex
	locks map[uuid.UUID]*roundLock
}

// roundLock counts holders plus waiters so idle entries can be dropped.
type roundLock struct {
	sync.Mutex
	refs int
}

func NewRoundService(db *sqlx.DB, store *store.TournamentStore, courts *store.CourtStore, matches *store.MatchStore) *RoundService {
	return &RoundService{
		db:      db,
		store:   store,
		courts:  courts,
		matches: matches,
		locks:   make(map[uuid.UUID]*roundLock),
	}
}

type AdvanceResult struct {
	CurrentRound    int             `json:"current_round"`
	NextRound       int             `json:"next_round,omitempty"`
	MatchesCreated  int             `json:"matches_created"`
	WinnersAdvanced int             `json:"winners_advanced"`
	Matches         []bracket.Match `json:"matches,omitempty"`
	Champion        *uuid.UUID      `json:"champion,omitempty"`
	FinalRound      int             `json:"final_round,omitempty"`
}

// lock serialises advancement per tournament within this process.
func (s *RoundService) lock(tournamentID uuid.UUID) func() {
	s.mu.Lock()
	l, ok := s.locks[tournamentID]
	if !ok {
		l = &roundLock{}
		s.locks[tournamentID] = l
	}
	l.refs++
	s.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		s.mu.Lock()
		if l.refs--; l.refs == 0 {
			delete(s.locks, tournamentID)
		}
		s.mu.Unlock()
	}
}

// AdvanceRound closes the current round and creates the next one from its winners, or
// records the champion when only one winner is left. When expectedRound is given it must
// match the current round, so a stale caller cannot advance twice.
func (s *RoundService) AdvanceRound(ctx context.Context, tournamentID uuid.UUID, expectedRound *int) (*AdvanceResult, error) {
	defer s.lock(tournamentID)()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	tournament, err := s.store.GetTournamentTx(ctx, tx, tournamentID)
	if err != nil {
		return nil, err
	}

	matches, err := s.matches.GetMatchesTx(ctx, tx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get matches: %w", err)
	}

	if expectedRound != nil && len(matches) > 0 && bracket.CurrentRound(matches) != *expectedRound {
		return nil, bracket.ErrRoundChanged
	}

	adv, err := bracket.Advance(matches)
	if err != nil {
		return nil, err
	}

	if adv.Champion != nil {
		tournament.Status = bracket.TournamentCompleted
		tournament.ChampionID = adv.Champion
		if err := s.store.UpdateTournamentStatus(ctx, tx, tournament); err != nil {
			return nil, fmt.Errorf("failed to update tournament: %w", err)
		}
		slog.Info("champion decided", "tournament_id", tournamentID, "champion", *adv.Champion, "round", adv.CurrentRound)
		return &AdvanceResult{
			CurrentRound:    adv.CurrentRound,
			WinnersAdvanced: 1,
			Champion:        adv.Champion,
			FinalRound:      adv.CurrentRound,
		}, tx.Commit()
	}

	kind := tournament.Type.ParticipantKind()
	next := make([]bracket.Match, len(adv.Pairings))
	for i, p := range adv.Pairings {
		next[i] = bracket.NewMatch(tournamentID, kind, adv.NextRound, i, p)
	}

	allocated, err := allocateCourts(ctx, tx, s.courts, tournamentID, next)
	if err != nil {
		return nil, err
	}

	if err := s.matches.CreateMatches(ctx, tx, allocated); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, bracket.ErrRoundChanged
		}
		return nil, fmt.Errorf("failed to create matches: %w", err)
	}

	slog.Info("round advanced", "tournament_id", tournamentID, "from", adv.CurrentRound, "to", adv.NextRound,
		"matches", len(allocated), "winners", len(adv.Winners))

	return &AdvanceResult{
		CurrentRound:    adv.CurrentRound,
		NextRound:       adv.NextRound,
		MatchesCreated:  len(allocated),
		WinnersAdvanced: len(adv.Winners),
		Matches:         allocated,
	}, tx.Commit()
}
