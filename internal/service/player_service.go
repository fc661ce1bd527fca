package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/AdamBeresnev/tournament-scheduler/internal/bracket"
	"github.com/AdamBeresnev/tournament-scheduler/internal/store"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

type PlayerService struct {
	db            *sqlx.DB
	store         *store.PlayerStore
	tournaments   *store.TournamentStore
	courts        *store.CourtStore
	matches       *store.MatchStore
	matchDuration time.Duration
}

func NewPlayerService(db *sqlx.DB, store *store.PlayerStore, tournaments *store.TournamentStore, courts *store.CourtStore, matches *store.MatchStore, matchDuration time.Duration) *PlayerService {
	return &PlayerService{db: db, store: store, tournaments: tournaments, courts: courts, matches: matches, matchDuration: matchDuration}
}

type PlayerStatus string

const (
	PlayerActive     PlayerStatus = "active"
	PlayerWaiting    PlayerStatus = "waiting"
	PlayerEliminated PlayerStatus = "eliminated"
	PlayerChampion   PlayerStatus = "champion"
)

type MatchResult string

const (
	ResultWon  MatchResult = "won"
	ResultLost MatchResult = "lost"
	ResultBye  MatchResult = "bye"
)

type Estimate struct {
	StartTime         time.Time `json:"start_time"`
	MinutesUntilStart int       `json:"minutes_until_start"`
	MatchesAhead      int       `json:"matches_ahead"`
}

type NextMatch struct {
	ID       uuid.UUID      `json:"id"`
	Round    int            `json:"round"`
	Pool     *string        `json:"pool,omitempty"`
	Opponent *Side          `json:"opponent"`
	Court    *bracket.Court `json:"court,omitempty"`
	Estimate *Estimate      `json:"estimate,omitempty"`
}

type HistoryEntry struct {
	ID       uuid.UUID   `json:"id"`
	Round    int         `json:"round"`
	Opponent *Side       `json:"opponent"`
	Result   MatchResult `json:"result"`
	ScoreA   *int        `json:"score_a,omitempty"`
	ScoreB   *int        `json:"score_b,omitempty"`
}

type PlayerStats struct {
	Wins         int `json:"wins"`
	Losses       int `json:"losses"`
	TotalMatches int `json:"total_matches"`
}

type PlayerView struct {
	Tournament   *bracket.Tournament `json:"tournament"`
	Player       *bracket.Player     `json:"player"`
	Status       PlayerStatus        `json:"status"`
	NextMatch    *NextMatch          `json:"next_match"`
	MatchHistory []HistoryEntry      `json:"match_history"`
	Stats        PlayerStats         `json:"stats"`
}

// SearchPlayers ranks players by how closely their name fuzzily matches q, ignoring case.
// An empty query lists everyone by name.
func (s *PlayerService) SearchPlayers(ctx context.Context, q string) ([]bracket.Player, error) {
	players, err := s.store.ListPlayers(ctx)
	if err != nil {
		return nil, err
	}
	q = strings.TrimSpace(q)
	if q == "" {
		return players, nil
	}

	names := make([]string, len(players))
	for i, p := range players {
		names[i] = p.Name
	}
	ranks := fuzzy.RankFindFold(q, names)
	// Stable so equally close names keep alphabetical order.
	sort.Stable(ranks)

	found := make([]bracket.Player, len(ranks))
	for i, r := range ranks {
		found[i] = players[r.OriginalIndex]
	}
	return found, nil
}

// GetPlayerView summarises one player's tournament: where they stand, what they play next
// and how their finished matches went. Team matches count for every member of the team.
func (s *PlayerService) GetPlayerView(ctx context.Context, tournamentID, playerID uuid.UUID) (*PlayerView, error) {
	tournament, err := s.tournaments.GetTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	player, err := s.store.GetPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}

	registered, err := s.tournaments.IsRegistered(ctx, tournamentID, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to check registration: %w", err)
	}
	teams, err := s.tournaments.GetTeams(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get teams: %w", err)
	}

	ids := map[uuid.UUID]bool{playerID: true}
	for _, t := range teams {
		if t.HasPlayer(playerID) {
			ids[t.ID] = true
		}
	}
	if !registered && len(ids) == 1 {
		return nil, bracket.ErrNotRegistered
	}

	all, err := s.matches.GetMatches(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get matches: %w", err)
	}

	view := &PlayerView{Tournament: tournament, Player: player, MatchHistory: []HistoryEntry{}}
	var next *bracket.Match
	var lastResult MatchResult
	for i := range all {
		m := &all[i]
		self := participantIn(m, ids)
		if self == nil {
			continue
		}

		if !m.Status.IsTerminal() {
			if next == nil {
				next = m
			}
			continue
		}

		opponent, err := resolveSide(ctx, s.store, s.tournaments, m, m.Opponent(*self))
		if err != nil {
			return nil, err
		}
		result := ResultLost
		switch {
		case m.IsBye():
			result = ResultBye
		case m.IsWinner(*self):
			result = ResultWon
			view.Stats.Wins++
		default:
			view.Stats.Losses++
		}
		lastResult = result
		view.MatchHistory = append(view.MatchHistory, HistoryEntry{
			ID: m.ID, Round: m.Round, Opponent: opponent, Result: result, ScoreA: m.ScoreA, ScoreB: m.ScoreB,
		})
	}
	view.Stats.TotalMatches = view.Stats.Wins + view.Stats.Losses

	switch {
	case tournament.ChampionID != nil && ids[*tournament.ChampionID]:
		view.Status = PlayerChampion
	case next != nil:
		view.Status = PlayerActive
	case lastResult == ResultLost:
		view.Status = PlayerEliminated
	default:
		view.Status = PlayerWaiting
	}

	if next != nil {
		view.NextMatch, err = s.nextMatch(ctx, next, *participantIn(next, ids))
		if err != nil {
			return nil, err
		}
	}
	return view, nil
}

func (s *PlayerService) nextMatch(ctx context.Context, m *bracket.Match, self uuid.UUID) (*NextMatch, error) {
	opponent, err := resolveSide(ctx, s.store, s.tournaments, m, m.Opponent(self))
	if err != nil {
		return nil, err
	}
	next := &NextMatch{ID: m.ID, Round: m.Round, Pool: m.Pool, Opponent: opponent}
	if m.CourtID == nil {
		return next, nil
	}

	next.Court, err = s.courts.GetCourt(ctx, *m.CourtID)
	if err != nil {
		return nil, fmt.Errorf("failed to get court: %w", err)
	}
	onCourt, err := s.matches.GetCourtMatches(ctx, *m.CourtID)
	if err != nil {
		return nil, fmt.Errorf("failed to get court matches: %w", err)
	}
	if pos, ok := bracket.BuildQueue(onCourt, s.matchDuration).Position(m.ID); ok {
		next.Estimate = &Estimate{
			StartTime:         time.Now().UTC().Add(time.Duration(pos.EstimatedWaitMinutes) * time.Minute),
			MinutesUntilStart: pos.EstimatedWaitMinutes,
			MatchesAhead:      pos.MatchesAhead,
		}
	}
	return next, nil
}

// participantIn returns which of ids plays in m, if any.
func participantIn(m *bracket.Match, ids map[uuid.UUID]bool) *uuid.UUID {
	for _, side := range []*uuid.UUID{m.SideA(), m.SideB()} {
		if side != nil && ids[*side] {
			return side
		}
	}
	return nil
}
