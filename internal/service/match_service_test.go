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

// twoPlayerMatch generates a one-match bracket and returns the match with its players.
func twoPlayerMatch(t *testing.T, env *testEnv) (tournamentID uuid.UUID, match bracket.Match, a, b uuid.UUID) {
	t.Helper()
	tournamentID = env.createTournament(t, bracket.Singles)
	a = env.register(t, tournamentID, "Alpha", 4.0)
	b = env.register(t, tournamentID, "Bravo", 3.0)
	env.addCourts(t, tournamentID, "Court 1")
	result, err := env.generation.GenerateBracket(context.Background(), tournamentID)
	require.NoError(t, err)
	require.Len(t, result.Matches, 1)
	return tournamentID, result.Matches[0], a, b
}

func TestSubmitScore(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, match, a, b := twoPlayerMatch(t, env)

	updated, err := env.matches.SubmitScore(ctx, match.ID, ScoreInput{
		Games:  []Game{{A: 11, B: 8}, {A: 6, B: 11}, {A: 9, B: 11}},
		Winner: &a,
	})
	require.NoError(t, err)
	assert.Equal(t, bracket.MatchCompleted, updated.Status)
	assert.Equal(t, b, *updated.Winner, "tally wins over a disagreeing submitted winner")
	assert.Equal(t, 1, *updated.ScoreA)
	assert.Equal(t, 2, *updated.ScoreB)

	detail, err := env.matches.GetMatch(ctx, match.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alpha", detail.SideA.Name)
	assert.Equal(t, "Bravo", detail.SideB.Name)
	assert.Equal(t, bracket.PlayerParticipant, detail.SideA.Kind)
	require.NotNil(t, detail.Court)
	assert.Equal(t, "Court 1", detail.Court.Name)
	require.Len(t, detail.Scores, 1)
	assert.JSONEq(t, `{"games":[{"a":11,"b":8},{"a":6,"b":11},{"a":9,"b":11}]}`, detail.Scores[0].ScoreJSON)
}

func TestSubmitScore_Failures(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, match, _, _ := twoPlayerMatch(t, env)

	testCases := []struct {
		name    string
		input   ScoreInput
		wantErr error
	}{
		{"no games", ScoreInput{}, ErrInvalidInput},
		{"negative points", ScoreInput{Games: []Game{{A: -1, B: 11}}}, ErrInvalidInput},
		{"tie", ScoreInput{Games: []Game{{A: 11, B: 5}, {A: 5, B: 11}}}, bracket.ErrTie},
		{"drawn games only", ScoreInput{Games: []Game{{A: 10, B: 10}}}, bracket.ErrTie},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.matches.SubmitScore(ctx, match.ID, tc.input)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}

	_, err := env.matches.SubmitScore(ctx, uuid.New(), ScoreInput{Games: []Game{{A: 11, B: 1}}})
	assert.ErrorIs(t, err, sql.ErrNoRows)

	fetched, err := env.matches.GetMatch(ctx, match.ID)
	require.NoError(t, err)
	assert.Equal(t, bracket.MatchScheduled, fetched.Match.Status)
	assert.Empty(t, fetched.Scores)
}

func TestSubmitScore_ByeIsNotReady(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tournamentID := env.createTournament(t, bracket.Singles)
	for i := 0; i < 3; i++ {
		env.register(t, tournamentID, string(rune('A'+i)), float64(i))
	}
	env.addCourts(t, tournamentID, "Court 1")
	result, err := env.generation.GenerateBracket(ctx, tournamentID)
	require.NoError(t, err)
	require.True(t, result.Matches[0].IsBye())

	_, err = env.matches.SubmitScore(ctx, result.Matches[0].ID, ScoreInput{Games: []Game{{A: 11, B: 0}}})
	assert.ErrorIs(t, err, bracket.ErrMatchNotReady)

	detail, err := env.matches.GetMatch(ctx, result.Matches[0].ID)
	require.NoError(t, err)
	assert.NotNil(t, detail.SideA)
	assert.Nil(t, detail.SideB)
}

func TestUpdateMatch(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, match, a, b := twoPlayerMatch(t, env)

	live, err := env.matches.UpdateMatch(ctx, match.ID, MatchUpdate{Status: utils.Ptr("live"), ScoreA: utils.Ptr(3)})
	require.NoError(t, err)
	assert.Equal(t, bracket.MatchLive, live.Status)
	assert.Equal(t, 3, *live.ScoreA)
	assert.Nil(t, live.Winner)

	done, err := env.matches.UpdateMatch(ctx, match.ID, MatchUpdate{Status: utils.Ptr("finished"), ScoreA: utils.Ptr(9), ScoreB: utils.Ptr(11)})
	require.NoError(t, err)
	assert.Equal(t, bracket.MatchCompleted, done.Status, "finished is stored as completed")
	assert.Equal(t, b, *done.Winner)

	overridden, err := env.matches.UpdateMatch(ctx, match.ID, MatchUpdate{Winner: &a})
	require.NoError(t, err)
	assert.Equal(t, a, *overridden.Winner)
}

func TestUpdateMatch_Failures(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, match, _, _ := twoPlayerMatch(t, env)
	stranger := uuid.New()

	testCases := []struct {
		name    string
		update  MatchUpdate
		wantErr error
	}{
		{"empty", MatchUpdate{}, ErrInvalidInput},
		{"negative score", MatchUpdate{ScoreA: utils.Ptr(-2)}, ErrInvalidInput},
		{"unknown status", MatchUpdate{Status: utils.Ptr("paused")}, bracket.ErrInvalidStatus},
		{"winner not playing", MatchUpdate{Winner: &stranger}, bracket.ErrWinnerNotInMatch},
		{"completed without winner", MatchUpdate{Status: utils.Ptr("completed")}, bracket.ErrWinnerRequired},
		{"completed on a tied score", MatchUpdate{Status: utils.Ptr("completed"), ScoreA: utils.Ptr(5), ScoreB: utils.Ptr(5)}, bracket.ErrWinnerRequired},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.matches.UpdateMatch(ctx, match.ID, tc.update)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestUpdateMatch_DoublesScoreDerivesTeamWinner(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tournamentID := env.createTournament(t, bracket.Doubles)
	env.addCourts(t, tournamentID, "Court 1")
	var teams []uuid.UUID
	for i := 0; i < 2; i++ {
		p1 := env.register(t, tournamentID, string(rune('a'+2*i)), 3)
		p2 := env.register(t, tournamentID, string(rune('b'+2*i)), 3)
		team, err := env.tournaments.CreateTeam(ctx, tournamentID, TeamInput{TeamName: string(rune('X' + i)), Player1ID: p1, Player2ID: &p2})
		require.NoError(t, err)
		teams = append(teams, team.ID)
	}
	result, err := env.generation.GeneratePools(ctx, tournamentID, PoolOptions{Labels: []string{"A"}})
	require.NoError(t, err)
	require.Len(t, result.Matches, 1)

	updated, err := env.matches.UpdateMatch(ctx, result.Matches[0].ID, MatchUpdate{ScoreA: utils.Ptr(4), ScoreB: utils.Ptr(11), Status: utils.Ptr("completed")})
	require.NoError(t, err)
	assert.Equal(t, teams[1], *updated.Winner)

	detail, err := env.matches.GetMatch(ctx, updated.ID)
	require.NoError(t, err)
	assert.Equal(t, bracket.TeamParticipant, detail.SideA.Kind)
	assert.Len(t, detail.SideA.Players, 2)
}

func TestAssignCourt(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tournamentID, match, _, _ := twoPlayerMatch(t, env)
	second := env.addCourts(t, tournamentID, "Court 2")[0]

	moved, err := env.matches.AssignCourt(ctx, match.ID, &second)
	require.NoError(t, err)
	assert.Equal(t, second, *moved.CourtID)

	cleared, err := env.matches.AssignCourt(ctx, match.ID, nil)
	require.NoError(t, err)
	assert.Nil(t, cleared.CourtID)

	otherTournament := env.createTournament(t, bracket.Singles)
	foreign := env.addCourts(t, otherTournament, "Elsewhere")[0]
	_, err = env.matches.AssignCourt(ctx, match.ID, &foreign)
	assert.ErrorIs(t, err, ErrInvalidInput)

	missing := uuid.New()
	_, err = env.matches.AssignCourt(ctx, match.ID, &missing)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
