package service

import (
	"context"
	"testing"
	"time"

	"github.com/AdamBeresnev/tournament-scheduler/internal/bracket"
	"github.com/AdamBeresnev/tournament-scheduler/internal/store"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates an in-memory SQLite database and applies migrations
func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	database, err := sqlx.Connect("sqlite3", "file::memory:")
	require.NoError(t, err, "Failed to connect to in-memory DB")
	database.SetMaxOpenConns(1)

	_, err = database.Exec("PRAGMA foreign_keys = ON;")
	require.NoError(t, err)

	driver, err := sqlite3.WithInstance(database.DB, &sqlite3.Config{})
	require.NoError(t, err, "Failed to create migrate driver instance")

	m, err := migrate.NewWithDatabaseInstance(
		"file://../../migrations",
		"sqlite3",
		driver,
	)
	require.NoError(t, err, "Failed to create migrate instance")

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		require.NoError(t, err, "Failed to apply migrations")
	}

	t.Cleanup(func() { database.Close() })
	return database
}

type testEnv struct {
	db          *sqlx.DB
	tournaments *TournamentService
	entries     *EntryService
	generation  *GenerationService
	rounds      *RoundService
	matches     *MatchService
	courts      *CourtService
	players     *PlayerService

	matchStore *store.MatchStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := setupTestDB(t)

	tournamentStore := store.NewTournamentStore(db)
	playerStore := store.NewPlayerStore(db)
	courtStore := store.NewCourtStore(db)
	matchStore := store.NewMatchStore(db)

	return &testEnv{
		db:          db,
		tournaments: NewTournamentService(db, tournamentStore, playerStore, courtStore, matchStore),
		entries:     NewEntryService(db, tournamentStore, playerStore),
		generation:  NewGenerationService(db, tournamentStore, courtStore, matchStore),
		rounds:      NewRoundService(db, tournamentStore, courtStore, matchStore),
		matches:     NewMatchService(db, matchStore, tournamentStore, playerStore, courtStore),
		courts:      NewCourtService(db, courtStore, tournamentStore, matchStore, 30*time.Minute),
		players:     NewPlayerService(db, playerStore, tournamentStore, courtStore, matchStore, 30*time.Minute),
		matchStore:  matchStore,
	}
}

func (e *testEnv) createTournament(t *testing.T, tournamentType bracket.TournamentType) uuid.UUID {
	t.Helper()
	tournament, err := e.tournaments.CreateTournament(context.Background(), TournamentInput{Name: "Club Night", Type: tournamentType})
	require.NoError(t, err)
	return tournament.ID
}

func (e *testEnv) register(t *testing.T, tournamentID uuid.UUID, name string, dupr float64) uuid.UUID {
	t.Helper()
	res, err := e.tournaments.RegisterPlayer(context.Background(), tournamentID, RegistrationInput{Name: name, DUPR: &dupr})
	require.NoError(t, err)
	return res.Player.ID
}

func (e *testEnv) addCourts(t *testing.T, tournamentID uuid.UUID, names ...string) []uuid.UUID {
	t.Helper()
	ids := make([]uuid.UUID, len(names))
	for i, name := range names {
		court, err := e.courts.CreateCourt(context.Background(), tournamentID, CourtInput{Name: name})
		require.NoError(t, err)
		ids[i] = court.ID
	}
	return ids
}

func (e *testEnv) countMatches(t *testing.T, tournamentID uuid.UUID) int {
	t.Helper()
	matches, err := e.matchStore.GetMatches(context.Background(), tournamentID)
	require.NoError(t, err)
	return len(matches)
}

// playRound completes every open match in the round with side A winning.
func (e *testEnv) playRound(t *testing.T, tournamentID uuid.UUID, round int) {
	t.Helper()
	matches, err := e.matchStore.GetMatches(context.Background(), tournamentID)
	require.NoError(t, err)
	for _, m := range bracket.RoundMatches(matches, round) {
		if m.Status.IsTerminal() {
			continue
		}
		_, err := e.matches.SubmitScore(context.Background(), m.ID, ScoreInput{Games: []Game{{A: 11, B: 5}, {A: 11, B: 9}}})
		require.NoError(t, err)
	}
}
