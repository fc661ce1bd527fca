package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/AdamBeresnev/tournament-scheduler/internal/bracket"
	"github.com/AdamBeresnev/tournament-scheduler/internal/db"
	"github.com/AdamBeresnev/tournament-scheduler/internal/store"
	"github.com/AdamBeresnev/tournament-scheduler/internal/utils"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// EntryService registers a whole roster at once.
type EntryService struct {
	db      *sqlx.DB
	store   *store.TournamentStore
	players *store.PlayerStore
}

func NewEntryService(db *sqlx.DB, store *store.TournamentStore, players *store.PlayerStore) *EntryService {
	return &EntryService{db: db, store: store, players: players}
}

// ImportRoster creates and registers one player per non-blank line of the form
// "name[, dupr[, email]]". Either every line is registered or none is.
func (s *EntryService) ImportRoster(ctx context.Context, tournamentID uuid.UUID, roster string) ([]RegistrationResult, error) {
	var players []bracket.Player
	for i, line := range strings.Split(roster, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		p, err := parseEntry(line)
		if err != nil {
			return nil, invalid("line %d: %v", i+1, err)
		}
		players = append(players, p)
	}
	if len(players) == 0 {
		return nil, invalid("roster is empty")
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := s.store.GetTournamentTx(ctx, tx, tournamentID); err != nil {
		return nil, err
	}

	// One microsecond apart so roster order survives in created_at, which orders seeding ties.
	registeredAt := time.Now().UTC().Truncate(time.Microsecond)
	results := make([]RegistrationResult, 0, len(players))
	for i, p := range players {
		if err := s.players.CreatePlayer(ctx, tx, &p); err != nil {
			return nil, fmt.Errorf("failed to create player %q: %w", p.Name, err)
		}
		registration := bracket.Registration{
			ID:           uuid.New(),
			TournamentID: tournamentID,
			PlayerID:     p.ID,
			CreatedAt:    registeredAt.Add(time.Duration(i) * time.Microsecond),
		}
		if err := s.store.CreateRegistration(ctx, tx, &registration); err != nil {
			if db.IsUniqueViolation(err) {
				return nil, invalid("player %q is already registered", p.Name)
			}
			return nil, fmt.Errorf("failed to register player %q: %w", p.Name, err)
		}
		results = append(results, RegistrationResult{Registration: registration, Player: p})
	}

	return results, tx.Commit()
}

func parseEntry(line string) (bracket.Player, error) {
	fields := strings.Split(line, ",")
	player := bracket.Player{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(fields[0]),
		CreatedAt: time.Now().UTC(),
	}
	if player.Name == "" {
		return player, fmt.Errorf("name is required")
	}
	if len(fields) > 1 {
		if raw := strings.TrimSpace(fields[1]); raw != "" {
			dupr, err := strconv.ParseFloat(raw, 64)
			if err != nil || dupr < 0 {
				return player, fmt.Errorf("invalid dupr %q", raw)
			}
			player.DUPR = &dupr
		}
	}
	if len(fields) > 2 {
		player.Email = utils.StringOrNil(fields[2])
	}
	if len(fields) > 3 {
		return player, fmt.Errorf("too many fields")
	}
	return player, nil
}
