package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/AdamBeresnev/tournament-scheduler/internal/bracket"
	"github.com/AdamBeresnev/tournament-scheduler/internal/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCourtCRUD(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tournamentID := env.createTournament(t, bracket.Singles)

	_, err := env.courts.CreateCourt(ctx, tournamentID, CourtInput{Name: "   "})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = env.courts.CreateCourt(ctx, uuid.New(), CourtInput{Name: "Court 1"})
	assert.ErrorIs(t, err, sql.ErrNoRows)

	court, err := env.courts.CreateCourt(ctx, tournamentID, CourtInput{Name: " Court 1 ", LocationNotes: "north side"})
	require.NoError(t, err)
	assert.Equal(t, "Court 1", court.Name)
	assert.Equal(t, "north side", *court.LocationNotes)

	_, err = env.courts.UpdateCourt(ctx, court.ID, CourtUpdate{})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = env.courts.UpdateCourt(ctx, court.ID, CourtUpdate{Name: utils.Ptr("")})
	assert.ErrorIs(t, err, ErrInvalidInput)

	updated, err := env.courts.UpdateCourt(ctx, court.ID, CourtUpdate{Name: utils.Ptr("Stadium"), LocationNotes: utils.Ptr("")})
	require.NoError(t, err)
	assert.Equal(t, "Stadium", updated.Name)
	assert.Nil(t, updated.LocationNotes)

	courts, err := env.courts.ListCourts(ctx, tournamentID)
	require.NoError(t, err)
	require.Len(t, courts, 1)
	assert.Equal(t, "Stadium", courts[0].Name)

	require.NoError(t, env.courts.DeleteCourt(ctx, court.ID))
	_, err = env.courts.GetCourt(ctx, court.ID)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.ErrorIs(t, env.courts.DeleteCourt(ctx, court.ID), sql.ErrNoRows)
}

func TestCourtQueue(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tournamentID := env.createTournament(t, bracket.Singles)
	for i := 0; i < 8; i++ {
		env.register(t, tournamentID, string(rune('A'+i)), float64(i))
	}
	court := env.addCourts(t, tournamentID, "Court 1")[0]
	result, err := env.generation.GenerateBracket(ctx, tournamentID)
	require.NoError(t, err)
	require.Len(t, result.Matches, 4)

	_, err = env.matches.SubmitScore(ctx, result.Matches[0].ID, ScoreInput{Games: []Game{{A: 11, B: 2}}})
	require.NoError(t, err)
	_, err = env.matches.UpdateMatch(ctx, result.Matches[2].ID, MatchUpdate{Status: utils.Ptr("live")})
	require.NoError(t, err)

	queue, err := env.courts.CourtQueue(ctx, court)
	require.NoError(t, err)
	assert.Equal(t, "Court 1", queue.Court.Name)

	require.NotNil(t, queue.Current)
	assert.Equal(t, result.Matches[2].ID, queue.Current.Match.ID)
	require.NotNil(t, queue.Next)
	assert.Equal(t, result.Matches[1].ID, queue.Next.Match.ID)
	assert.Equal(t, 30, queue.Next.EstimatedWaitMinutes)
	require.Len(t, queue.Upcoming, 1)
	assert.Equal(t, result.Matches[3].ID, queue.Upcoming[0].Match.ID)
	assert.Equal(t, 60, queue.Upcoming[0].EstimatedWaitMinutes)

	_, err = env.courts.CourtQueue(ctx, uuid.New())
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
