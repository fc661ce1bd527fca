package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/AdamBeresnev/tournament-scheduler/internal/bracket"
	"github.com/AdamBeresnev/tournament-scheduler/internal/utils"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCourts(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	store := NewCourtStore(db)
	tournament := createTestTournament(t, db, bracket.Singles)

	courtB := &bracket.Court{ID: uuid.New(), TournamentID: tournament.ID, Name: "Court B", CreatedAt: time.Now().UTC()}
	courtA := &bracket.Court{ID: uuid.New(), TournamentID: tournament.ID, Name: "Court A", LocationNotes: utils.StringOrNil("by the gate"), CreatedAt: time.Now().UTC()}
	inTx(t, db, func(tx *sqlx.Tx) error {
		if err := store.CreateCourt(context.Background(), tx, courtB); err != nil {
			return err
		}
		return store.CreateCourt(context.Background(), tx, courtA)
	})

	courts, err := store.GetCourts(context.Background(), tournament.ID)
	require.NoError(t, err)
	require.Len(t, courts, 2)
	assert.Equal(t, "Court A", courts[0].Name)
	assert.Equal(t, "by the gate", *courts[0].LocationNotes)
	assert.Equal(t, "Court B", courts[1].Name)

	courtB.Name = "Center Court"
	inTx(t, db, func(tx *sqlx.Tx) error {
		return store.UpdateCourt(context.Background(), tx, courtB)
	})
	fetched, err := store.GetCourt(context.Background(), courtB.ID)
	require.NoError(t, err)
	assert.Equal(t, "Center Court", fetched.Name)

	inTx(t, db, func(tx *sqlx.Tx) error {
		return store.DeleteCourt(context.Background(), tx, courtA.ID)
	})
	_, err = store.GetCourt(context.Background(), courtA.ID)
	assert.ErrorIs(t, err, sql.ErrNoRows)

	tx, err := db.BeginTxx(context.Background(), nil)
	require.NoError(t, err)
	defer tx.Rollback()
	assert.ErrorIs(t, store.DeleteCourt(context.Background(), tx, courtA.ID), sql.ErrNoRows)
}

func TestDeleteCourt_MatchesKeepRunning(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	courtStore := NewCourtStore(db)
	matchStore := NewMatchStore(db)
	tournament := createTestTournament(t, db, bracket.Singles)
	court := &bracket.Court{ID: uuid.New(), TournamentID: tournament.ID, Name: "Court 1", CreatedAt: time.Now().UTC()}
	match := bracket.Match{ID: uuid.New(), TournamentID: tournament.ID, Round: 1, Status: bracket.MatchLive, CourtID: &court.ID, CreatedAt: time.Now().UTC()}

	inTx(t, db, func(tx *sqlx.Tx) error {
		if err := courtStore.CreateCourt(context.Background(), tx, court); err != nil {
			return err
		}
		return matchStore.CreateMatches(context.Background(), tx, []bracket.Match{match})
	})
	inTx(t, db, func(tx *sqlx.Tx) error {
		return courtStore.DeleteCourt(context.Background(), tx, court.ID)
	})

	fetched, err := matchStore.GetMatch(context.Background(), match.ID)
	require.NoError(t, err)
	assert.Nil(t, fetched.CourtID)
	assert.Equal(t, bracket.MatchLive, fetched.Status)
}

func TestPlayers(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	store := NewPlayerStore(db)
	createTestPlayer(t, db, "Zed", nil)
	ann := createTestPlayer(t, db, "Ann", utils.Ptr(3.75))

	players, err := store.ListPlayers(context.Background())
	require.NoError(t, err)
	require.Len(t, players, 2)
	assert.Equal(t, "Ann", players[0].Name)

	fetched, err := store.GetPlayer(context.Background(), ann.ID)
	require.NoError(t, err)
	assert.Equal(t, 3.75, *fetched.DUPR)
	assert.Nil(t, fetched.Email)
}
