package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/AdamBeresnev/tournament-scheduler/internal/bracket"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchPlayers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tournamentID := env.createTournament(t, bracket.Singles)
	for _, name := range []string{"Jordan Lee", "Jo Park", "Sam Jones", "Alex Kim"} {
		env.register(t, tournamentID, name, 3)
	}

	all, err := env.players.SearchPlayers(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "Alex Kim", all[0].Name)

	found, err := env.players.SearchPlayers(ctx, "JO")
	require.NoError(t, err)
	names := make([]string, len(found))
	for i, p := range found {
		names[i] = p.Name
	}
	assert.ElementsMatch(t, []string{"Jordan Lee", "Jo Park", "Sam Jones"}, names)
	assert.Equal(t, "Jo Park", names[0], "closest match first")

	none, err := env.players.SearchPlayers(ctx, "zzz")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestGetPlayerView_Singles(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tournamentID := env.createTournament(t, bracket.Singles)

	ids := map[float64]uuid.UUID{}
	for i, dupr := range []float64{3.0, 4.5, 3.5, 4.0} {
		ids[dupr] = env.register(t, tournamentID, string(rune('A'+i)), dupr)
	}
	env.addCourts(t, tournamentID, "Court 1")

	view, err := env.players.GetPlayerView(ctx, tournamentID, ids[4.5])
	require.NoError(t, err)
	assert.Equal(t, PlayerWaiting, view.Status)
	assert.Nil(t, view.NextMatch)

	_, err = env.generation.GenerateBracket(ctx, tournamentID)
	require.NoError(t, err)

	view, err = env.players.GetPlayerView(ctx, tournamentID, ids[3.5])
	require.NoError(t, err)
	assert.Equal(t, PlayerActive, view.Status)
	require.NotNil(t, view.NextMatch)
	assert.Equal(t, "D", view.NextMatch.Opponent.Name)
	require.NotNil(t, view.NextMatch.Estimate)
	assert.Equal(t, 1, view.NextMatch.Estimate.MatchesAhead, "both round 1 matches share the court")
	assert.Equal(t, 30, view.NextMatch.Estimate.MinutesUntilStart)

	env.playRound(t, tournamentID, 1)

	loser, err := env.players.GetPlayerView(ctx, tournamentID, ids[3.5])
	require.NoError(t, err)
	assert.Equal(t, PlayerEliminated, loser.Status)
	assert.Equal(t, PlayerStats{Wins: 0, Losses: 1, TotalMatches: 1}, loser.Stats)
	require.Len(t, loser.MatchHistory, 1)
	assert.Equal(t, ResultLost, loser.MatchHistory[0].Result)

	winner, err := env.players.GetPlayerView(ctx, tournamentID, ids[4.5])
	require.NoError(t, err)
	assert.Equal(t, PlayerWaiting, winner.Status, "won and waiting for the next round")

	_, err = env.rounds.AdvanceRound(ctx, tournamentID, nil)
	require.NoError(t, err)
	env.playRound(t, tournamentID, 2)
	_, err = env.rounds.AdvanceRound(ctx, tournamentID, nil)
	require.NoError(t, err)

	champion, err := env.players.GetPlayerView(ctx, tournamentID, ids[4.5])
	require.NoError(t, err)
	assert.Equal(t, PlayerChampion, champion.Status)
	assert.Equal(t, 2, champion.Stats.Wins)
	assert.Nil(t, champion.NextMatch)
}

func TestGetPlayerView_ByeIsNotAResult(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tournamentID := env.createTournament(t, bracket.Singles)
	top := env.register(t, tournamentID, "Top", 5)
	env.register(t, tournamentID, "Mid", 4)
	env.register(t, tournamentID, "Low", 3)
	env.addCourts(t, tournamentID, "Court 1")
	_, err := env.generation.GenerateBracket(ctx, tournamentID)
	require.NoError(t, err)

	view, err := env.players.GetPlayerView(ctx, tournamentID, top)
	require.NoError(t, err)
	require.Len(t, view.MatchHistory, 1)
	assert.Equal(t, ResultBye, view.MatchHistory[0].Result)
	assert.Nil(t, view.MatchHistory[0].Opponent)
	assert.Zero(t, view.Stats.TotalMatches)
	assert.Equal(t, PlayerWaiting, view.Status)
}

func TestGetPlayerView_DoublesThroughTeam(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tournamentID := env.createTournament(t, bracket.Doubles)
	env.addCourts(t, tournamentID, "Court 1")

	p1 := env.register(t, tournamentID, "P1", 4)
	p2 := env.register(t, tournamentID, "P2", 4)
	p3 := env.register(t, tournamentID, "P3", 3)
	_, err := env.tournaments.CreateTeam(ctx, tournamentID, TeamInput{TeamName: "Home", Player1ID: p1, Player2ID: &p2})
	require.NoError(t, err)
	_, err = env.tournaments.CreateTeam(ctx, tournamentID, TeamInput{TeamName: "Away", Player1ID: p3})
	require.NoError(t, err)
	_, err = env.generation.GenerateBracket(ctx, tournamentID)
	require.NoError(t, err)

	view, err := env.players.GetPlayerView(ctx, tournamentID, p2)
	require.NoError(t, err)
	assert.Equal(t, PlayerActive, view.Status)
	require.NotNil(t, view.NextMatch)
	assert.Equal(t, "Away", view.NextMatch.Opponent.Name)
	assert.Equal(t, bracket.TeamParticipant, view.NextMatch.Opponent.Kind)
}

func TestGetPlayerView_Failures(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tournamentID := env.createTournament(t, bracket.Singles)
	other := env.createTournament(t, bracket.Singles)
	outsider := env.register(t, other, "Outsider", 3)

	_, err := env.players.GetPlayerView(ctx, tournamentID, outsider)
	assert.ErrorIs(t, err, bracket.ErrNotRegistered)

	_, err = env.players.GetPlayerView(ctx, tournamentID, uuid.New())
	assert.ErrorIs(t, err, sql.ErrNoRows)

	_, err = env.players.GetPlayerView(ctx, uuid.New(), outsider)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
