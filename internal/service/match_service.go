package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/AdamBeresnev/tournament-scheduler/internal/bracket"
	"github.com/AdamBeresnev/tournament-scheduler/internal/store"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type MatchService struct {
	db          *sqlx.DB
	store       *store.MatchStore
	tournaments *store.TournamentStore
	players     *store.PlayerStore
	courts      *store.CourtStore
}

func NewMatchService(db *sqlx.DB, store *store.MatchStore, tournaments *store.TournamentStore, players *store.PlayerStore, courts *store.CourtStore) *MatchService {
	return &MatchService{db: db, store: store, tournaments: tournaments, players: players, courts: courts}
}

// Side is one resolved participant of a match.
type Side struct {
	ID      uuid.UUID               `json:"id"`
	Kind    bracket.ParticipantKind `json:"kind"`
	Name    string                  `json:"name"`
	Players []bracket.Player        `json:"players"`
}

type MatchDetail struct {
	Match  bracket.Match        `json:"match"`
	SideA  *Side                `json:"side_a"`
	SideB  *Side                `json:"side_b"`
	Court  *bracket.Court       `json:"court,omitempty"`
	Scores []bracket.MatchScore `json:"scores"`
}

type Game struct {
	A int `json:"a"`
	B int `json:"b"`
}

type ScoreInput struct {
	Games  []Game     `json:"games"`
	Winner *uuid.UUID `json:"winner"`
}

type MatchUpdate struct {
	ScoreA *int       `json:"score_a"`
	ScoreB *int       `json:"score_b"`
	Status *string    `json:"status"`
	Winner *uuid.UUID `json:"winner"`
}

func (s *MatchService) GetMatch(ctx context.Context, id uuid.UUID) (*MatchDetail, error) {
	match, err := s.store.GetMatch(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &MatchDetail{Match: *match}
	if detail.SideA, err = resolveSide(ctx, s.players, s.tournaments, match, match.SideA()); err != nil {
		return nil, err
	}
	if detail.SideB, err = resolveSide(ctx, s.players, s.tournaments, match, match.SideB()); err != nil {
		return nil, err
	}

	if match.CourtID != nil {
		detail.Court, err = s.courts.GetCourt(ctx, *match.CourtID)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("failed to get court: %w", err)
		}
	}

	detail.Scores, err = s.store.GetMatchScores(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get match scores: %w", err)
	}
	return detail, nil
}

// resolveSide loads the player or team behind one side of a match. A nil id resolves to nil.
func resolveSide(ctx context.Context, players *store.PlayerStore, teams *store.TournamentStore, match *bracket.Match, id *uuid.UUID) (*Side, error) {
	if id == nil {
		return nil, nil
	}
	if match.SlotA != nil || match.SlotB != nil {
		player, err := players.GetPlayer(ctx, *id)
		if err != nil {
			return nil, fmt.Errorf("failed to get player: %w", err)
		}
		return &Side{ID: *id, Kind: bracket.PlayerParticipant, Name: player.Name, Players: []bracket.Player{*player}}, nil
	}

	team, err := teams.GetTeam(ctx, *id)
	if err != nil {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}
	side := &Side{ID: *id, Kind: bracket.TeamParticipant, Name: team.TeamName, Players: []bracket.Player{}}
	for _, pid := range []*uuid.UUID{&team.Player1ID, team.Player2ID} {
		if pid == nil {
			continue
		}
		player, err := players.GetPlayer(ctx, *pid)
		if err != nil {
			return nil, fmt.Errorf("failed to get team player: %w", err)
		}
		side.Players = append(side.Players, *player)
	}
	return side, nil
}

// SubmitScore records the games of a match and completes it. The winner is whoever won more
// games; a submitted winner only stands when it agrees with the tally.
func (s *MatchService) SubmitScore(ctx context.Context, id uuid.UUID, input ScoreInput) (*bracket.Match, error) {
	if len(input.Games) == 0 {
		return nil, invalid("games (non-empty array) is required")
	}
	for _, g := range input.Games {
		if g.A < 0 || g.B < 0 {
			return nil, invalid("game points must not be negative")
		}
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	match, err := s.store.GetMatchTx(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	sideA, sideB := match.SideA(), match.SideB()
	if sideA == nil || sideB == nil {
		return nil, bracket.ErrMatchNotReady
	}

	wonA, wonB := 0, 0
	for _, g := range input.Games {
		switch {
		case g.A > g.B:
			wonA++
		case g.B > g.A:
			wonB++
		}
	}

	var winner uuid.UUID
	switch {
	case wonA > wonB:
		winner = *sideA
	case wonB > wonA:
		winner = *sideB
	default:
		return nil, bracket.ErrTie
	}

	scoreJSON, err := json.Marshal(map[string][]Game{"games": input.Games})
	if err != nil {
		return nil, fmt.Errorf("failed to encode score: %w", err)
	}
	score := &bracket.MatchScore{
		ID:        uuid.New(),
		MatchID:   id,
		ScoreJSON: string(scoreJSON),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.CreateMatchScore(ctx, tx, score); err != nil {
		return nil, fmt.Errorf("failed to save score: %w", err)
	}

	match.ScoreA = &wonA
	match.ScoreB = &wonB
	match.Winner = &winner
	match.Status = bracket.MatchCompleted
	if err := s.store.UpdateMatch(ctx, tx, match); err != nil {
		return nil, fmt.Errorf("failed to update match: %w", err)
	}

	return match, tx.Commit()
}

// UpdateMatch applies a partial update. When both scores are given and differ, the higher
// side becomes the winner unless a winner is named explicitly.
func (s *MatchService) UpdateMatch(ctx context.Context, id uuid.UUID, update MatchUpdate) (*bracket.Match, error) {
	if update.ScoreA == nil && update.ScoreB == nil && update.Status == nil && update.Winner == nil {
		return nil, invalid("no fields to update")
	}
	if (update.ScoreA != nil && *update.ScoreA < 0) || (update.ScoreB != nil && *update.ScoreB < 0) {
		return nil, invalid("scores must not be negative")
	}

	var status bracket.MatchStatus
	if update.Status != nil {
		parsed, err := bracket.ParseMatchStatus(*update.Status)
		if err != nil {
			return nil, err
		}
		status = parsed
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	match, err := s.store.GetMatchTx(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if update.ScoreA != nil {
		match.ScoreA = update.ScoreA
	}
	if update.ScoreB != nil {
		match.ScoreB = update.ScoreB
	}
	if status != "" {
		match.Status = status
	}

	if update.ScoreA != nil && update.ScoreB != nil {
		switch {
		case *update.ScoreA > *update.ScoreB && match.SideA() != nil:
			match.Winner = match.SideA()
		case *update.ScoreB > *update.ScoreA && match.SideB() != nil:
			match.Winner = match.SideB()
		}
	}

	if update.Winner != nil {
		if !match.Involves(*update.Winner) {
			return nil, bracket.ErrWinnerNotInMatch
		}
		match.Winner = update.Winner
	}

	if match.Status.IsTerminal() && match.Winner == nil {
		return nil, bracket.ErrWinnerRequired
	}

	if err := s.store.UpdateMatch(ctx, tx, match); err != nil {
		return nil, fmt.Errorf("failed to update match: %w", err)
	}

	return match, tx.Commit()
}

// AssignCourt moves a match onto a court of its own tournament, or off any court when courtID is nil.
func (s *MatchService) AssignCourt(ctx context.Context, id uuid.UUID, courtID *uuid.UUID) (*bracket.Match, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	match, err := s.store.GetMatchTx(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if courtID != nil {
		court, err := s.courts.GetCourtTx(ctx, tx, *courtID)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, invalid("court %s does not exist", courtID)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to get court: %w", err)
		}
		if court.TournamentID != match.TournamentID {
			return nil, invalid("court belongs to a different tournament")
		}
	}

	match.CourtID = courtID
	if err := s.store.UpdateMatch(ctx, tx, match); err != nil {
		return nil, fmt.Errorf("failed to update match: %w", err)
	}

	return match, tx.Commit()
}
