package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/AdamBeresnev/tournament-scheduler/internal/bracket"
	"github.com/AdamBeresnev/tournament-scheduler/internal/db"
	"github.com/AdamBeresnev/tournament-scheduler/internal/store"
	"github.com/AdamBeresnev/tournament-scheduler/internal/utils"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/sync/errgroup"
)

type TournamentService struct {
	db      *sqlx.DB
	store   *store.TournamentStore
	players *store.PlayerStore
	courts  *store.CourtStore
	matches *store.MatchStore
}

func NewTournamentService(db *sqlx.DB, store *store.TournamentStore, players *store.PlayerStore, courts *store.CourtStore, matches *store.MatchStore) *TournamentService {
	return &TournamentService{db: db, store: store, players: players, courts: courts, matches: matches}
}

type TournamentInput struct {
	Name     string                   `json:"name"`
	Date     string                   `json:"date"`
	Location string                   `json:"location"`
	Format   bracket.TournamentFormat `json:"format"`
	Type     bracket.TournamentType   `json:"tournament_type"`
}

type TournamentData struct {
	Tournament    *bracket.Tournament      `json:"tournament"`
	Registrations []store.RegisteredPlayer `json:"registrations"`
	Teams         []bracket.Team           `json:"teams"`
	Courts        []bracket.Court          `json:"courts"`
	Matches       []bracket.Match          `json:"matches"`
	CurrentRound  int                      `json:"current_round"`
}

type RegistrationInput struct {
	PlayerID *uuid.UUID `json:"player_id"`
	Name     string     `json:"name"`
	Email    string     `json:"email"`
	DUPR     *float64   `json:"dupr"`
}

type RegistrationResult struct {
	Registration bracket.Registration `json:"registration"`
	Player       bracket.Player       `json:"player"`
}

type TeamInput struct {
	TeamName  string     `json:"team_name"`
	Player1ID uuid.UUID  `json:"player1_id"`
	Player2ID *uuid.UUID `json:"player2_id"`
}

func (s *TournamentService) CreateTournament(ctx context.Context, input TournamentInput) (*bracket.Tournament, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, invalid("name is required")
	}
	if input.Format == "" {
		input.Format = bracket.SingleElimination
	}
	if !input.Format.Valid() {
		return nil, invalid("unknown format %q", input.Format)
	}
	if input.Type == "" {
		input.Type = bracket.Singles
	}
	if !input.Type.Valid() {
		return nil, invalid("unknown tournament type %q", input.Type)
	}

	date, err := parseDate(input.Date)
	if err != nil {
		return nil, err
	}

	tournament := &bracket.Tournament{
		ID:        uuid.New(),
		Name:      name,
		Date:      date,
		Location:  utils.StringOrNil(input.Location),
		Format:    input.Format,
		Type:      input.Type,
		Status:    bracket.TournamentDraft,
		CreatedAt: time.Now().UTC(),
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := s.store.CreateTournament(ctx, tx, tournament); err != nil {
		return nil, fmt.Errorf("failed to create tournament: %w", err)
	}

	return tournament, tx.Commit()
}

// Dates are accepted as a plain calendar day or a full RFC 3339 timestamp.
func parseDate(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	for _, layout := range []string{time.DateOnly, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, invalid("date %q is not YYYY-MM-DD", value)
}

func (s *TournamentService) ListTournaments(ctx context.Context) ([]bracket.Tournament, error) {
	return s.store.ListTournaments(ctx)
}

// GetTournamentData loads a tournament with everything attached to it.
func (s *TournamentService) GetTournamentData(ctx context.Context, id uuid.UUID) (*TournamentData, error) {
	tournament, err := s.store.GetTournament(ctx, id)
	if err != nil {
		return nil, err
	}

	data := &TournamentData{Tournament: tournament}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		data.Registrations, err = s.store.GetRegistrations(gctx, id)
		return err
	})
	g.Go(func() (err error) {
		data.Teams, err = s.store.GetTeams(gctx, id)
		return err
	})
	g.Go(func() (err error) {
		data.Courts, err = s.courts.GetCourts(gctx, id)
		return err
	})
	g.Go(func() (err error) {
		data.Matches, err = s.matches.GetMatches(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load tournament data: %w", err)
	}

	data.CurrentRound = bracket.CurrentRound(data.Matches)
	return data, nil
}

// RegisterPlayer registers an existing player, or creates one first when no id is given.
func (s *TournamentService) RegisterPlayer(ctx context.Context, tournamentID uuid.UUID, input RegistrationInput) (*RegistrationResult, error) {
	if input.PlayerID == nil && strings.TrimSpace(input.Name) == "" {
		return nil, invalid("player_id or name is required")
	}
	if input.DUPR != nil && *input.DUPR < 0 {
		return nil, invalid("dupr must not be negative")
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := s.store.GetTournamentTx(ctx, tx, tournamentID); err != nil {
		return nil, err
	}

	var player *bracket.Player
	if input.PlayerID != nil {
		player, err = s.players.GetPlayerTx(ctx, tx, *input.PlayerID)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, invalid("player %s does not exist", input.PlayerID)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to get player: %w", err)
		}
	} else {
		player = &bracket.Player{
			ID:        uuid.New(),
			Name:      strings.TrimSpace(input.Name),
			Email:     utils.StringOrNil(input.Email),
			DUPR:      input.DUPR,
			CreatedAt: time.Now().UTC(),
		}
		if err := s.players.CreatePlayer(ctx, tx, player); err != nil {
			return nil, fmt.Errorf("failed to create player: %w", err)
		}
	}

	registration := bracket.Registration{
		ID:           uuid.New(),
		TournamentID: tournamentID,
		PlayerID:     player.ID,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.store.CreateRegistration(ctx, tx, &registration); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, invalid("player is already registered")
		}
		return nil, fmt.Errorf("failed to create registration: %w", err)
	}

	return &RegistrationResult{Registration: registration, Player: *player}, tx.Commit()
}

func (s *TournamentService) CreateTeam(ctx context.Context, tournamentID uuid.UUID, input TeamInput) (*bracket.Team, error) {
	name := strings.TrimSpace(input.TeamName)
	if name == "" {
		return nil, invalid("team_name is required")
	}
	if input.Player1ID == uuid.Nil {
		return nil, invalid("player1_id is required")
	}
	if input.Player2ID != nil && *input.Player2ID == input.Player1ID {
		return nil, invalid("a team needs two different players")
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := s.store.GetTournamentTx(ctx, tx, tournamentID); err != nil {
		return nil, err
	}
	for _, id := range []*uuid.UUID{&input.Player1ID, input.Player2ID} {
		if id == nil {
			continue
		}
		if _, err := s.players.GetPlayerTx(ctx, tx, *id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, invalid("player %s does not exist", id)
			}
			return nil, fmt.Errorf("failed to get player: %w", err)
		}
	}

	team := &bracket.Team{
		ID:           uuid.New(),
		TournamentID: tournamentID,
		TeamName:     name,
		Player1ID:    input.Player1ID,
		Player2ID:    input.Player2ID,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.store.CreateTeam(ctx, tx, team); err != nil {
		return nil, fmt.Errorf("failed to create team: %w", err)
	}

	return team, tx.Commit()
}

func (s *TournamentService) ListTeams(ctx context.Context, tournamentID uuid.UUID) ([]bracket.Team, error) {
	if _, err := s.store.GetTournament(ctx, tournamentID); err != nil {
		return nil, err
	}
	return s.store.GetTeams(ctx, tournamentID)
}
