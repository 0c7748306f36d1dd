package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prodehub/prode-api/internal/domain/tournament"
)

func newOutcomeFixtureRepo() *stubTournamentRepository {
	return &stubTournamentRepository{
		tournaments: []tournament.Tournament{
			{ID: "world-cup-2026", Name: "World Cup 2026", Status: tournament.StatusRunning},
		},
		teams: map[string][]tournament.Team{
			"world-cup-2026": {
				{ID: "arg", TournamentID: "world-cup-2026", Name: "Argentina", Group: "A"},
				{ID: "fra", TournamentID: "world-cup-2026", Name: "France", Group: "A"},
				{ID: "bra", TournamentID: "world-cup-2026", Name: "Brazil", Group: "B"},
				{ID: "ger", TournamentID: "world-cup-2026", Name: "Germany", Group: "B"},
			},
		},
	}
}

func TestTournamentServiceSetOutcome(t *testing.T) {
	t.Parallel()

	repo := newOutcomeFixtureRepo()
	scoringSvc := &recordingScoring{}
	svc := NewTournamentService(repo, scoringSvc, nil)
	svc.now = func() time.Time { return time.Date(2026, 7, 19, 20, 0, 0, 0, time.UTC) }

	outcome, err := svc.SetOutcome(context.Background(), SetOutcomeInput{
		TournamentID:    "world-cup-2026",
		ChampionTeamID:  "arg",
		RunnerUpTeamID:  "fra",
		TopScorerPlayer: " Julián Álvarez ",
	})
	require.NoError(t, err)

	assert.Equal(t, "arg", outcome.ChampionTeamID)
	assert.Equal(t, "fra", outcome.RunnerUpTeamID)
	assert.Equal(t, "Julián Álvarez", outcome.TopScorerPlayer)
	assert.Equal(t, time.Date(2026, 7, 19, 20, 0, 0, 0, time.UTC), outcome.UpdatedAt)

	stored, exists := repo.outcomes["world-cup-2026"]
	require.True(t, exists, "outcome must be persisted")
	assert.Equal(t, outcome, stored)
	assert.Equal(t, []string{"world-cup-2026"}, scoringSvc.recomputed)
}

func TestTournamentServiceSetOutcomeRejectsBadInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   SetOutcomeInput
		wantErr error
	}{
		{
			name:    "missing tournament id",
			input:   SetOutcomeInput{ChampionTeamID: "arg"},
			wantErr: ErrInvalidInput,
		},
		{
			name: "champion equals runner-up",
			input: SetOutcomeInput{
				TournamentID:   "world-cup-2026",
				ChampionTeamID: "arg",
				RunnerUpTeamID: "arg",
			},
			wantErr: ErrInvalidInput,
		},
		{
			name: "unknown champion team",
			input: SetOutcomeInput{
				TournamentID:   "world-cup-2026",
				ChampionTeamID: "esp",
			},
			wantErr: ErrNotFound,
		},
		{
			name:    "unknown tournament",
			input:   SetOutcomeInput{TournamentID: "copa-1916"},
			wantErr: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := NewTournamentService(newOutcomeFixtureRepo(), &recordingScoring{}, nil)
			_, err := svc.SetOutcome(context.Background(), tt.input)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestTournamentServiceSetGroupResults(t *testing.T) {
	t.Parallel()

	repo := newOutcomeFixtureRepo()
	scoringSvc := &recordingScoring{}
	svc := NewTournamentService(repo, scoringSvc, nil)

	err := svc.SetGroupResults(context.Background(), "world-cup-2026", []SetGroupResultInput{
		{Group: "a", OrderedTeamIDs: []string{"arg", "fra"}},
		{Group: "B", OrderedTeamIDs: []string{"ger", "bra"}},
	})
	require.NoError(t, err)

	rows := repo.groupResults["world-cup-2026"]
	require.Len(t, rows, 2)
	assert.Equal(t, "A", rows[0].Group)
	assert.Equal(t, []string{"arg", "fra"}, rows[0].OrderedTeamIDs)
	assert.Equal(t, "B", rows[1].Group)
	assert.Equal(t, []string{"ger", "bra"}, rows[1].OrderedTeamIDs)
	assert.Equal(t, []string{"world-cup-2026"}, scoringSvc.recomputed)
}

func TestTournamentServiceSetGroupResultsRejectsBadInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		inputs  []SetGroupResultInput
		wantErr error
	}{
		{
			name:    "empty results",
			inputs:  nil,
			wantErr: ErrInvalidInput,
		},
		{
			name: "duplicate group",
			inputs: []SetGroupResultInput{
				{Group: "A", OrderedTeamIDs: []string{"arg"}},
				{Group: "a", OrderedTeamIDs: []string{"fra"}},
			},
			wantErr: ErrInvalidInput,
		},
		{
			name: "unknown group",
			inputs: []SetGroupResultInput{
				{Group: "Z", OrderedTeamIDs: []string{"arg"}},
			},
			wantErr: ErrNotFound,
		},
		{
			name: "team outside group",
			inputs: []SetGroupResultInput{
				{Group: "A", OrderedTeamIDs: []string{"arg", "bra"}},
			},
			wantErr: ErrInvalidInput,
		},
		{
			name: "duplicate team in order",
			inputs: []SetGroupResultInput{
				{Group: "A", OrderedTeamIDs: []string{"arg", "arg"}},
			},
			wantErr: ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := NewTournamentService(newOutcomeFixtureRepo(), &recordingScoring{}, nil)
			err := svc.SetGroupResults(context.Background(), "world-cup-2026", tt.inputs)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}
