package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/prodehub/prode-api/internal/domain/tournament"
)

type TournamentRepository struct {
	mu             sync.RWMutex
	tournaments    map[string]tournament.Tournament
	teamsByT       map[string][]tournament.Team
	outcomes       map[string]tournament.Outcome
	groupResultsBy map[string][]tournament.GroupResult
}

func NewTournamentRepository(tournaments []tournament.Tournament, teams []tournament.Team) *TournamentRepository {
	byID := make(map[string]tournament.Tournament, len(tournaments))
	for _, item := range tournaments {
		byID[item.ID] = item
	}

	teamsByT := make(map[string][]tournament.Team)
	for _, item := range teams {
		teamsByT[item.TournamentID] = append(teamsByT[item.TournamentID], item)
	}

	return &TournamentRepository{
		tournaments:    byID,
		teamsByT:       teamsByT,
		outcomes:       make(map[string]tournament.Outcome),
		groupResultsBy: make(map[string][]tournament.GroupResult),
	}
}

func (r *TournamentRepository) List(_ context.Context) ([]tournament.Tournament, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]tournament.Tournament, 0, len(r.tournaments))
	for _, item := range r.tournaments {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartsAt.Equal(out[j].StartsAt) {
			return out[i].StartsAt.Before(out[j].StartsAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *TournamentRepository) GetByID(_ context.Context, tournamentID string) (tournament.Tournament, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.tournaments[tournamentID]
	return item, ok, nil
}

func (r *TournamentRepository) ListTeams(_ context.Context, tournamentID string) ([]tournament.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := r.teamsByT[tournamentID]
	out := make([]tournament.Team, 0, len(items))
	out = append(out, items...)
	return out, nil
}

func (r *TournamentRepository) GetOutcome(_ context.Context, tournamentID string) (tournament.Outcome, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.outcomes[tournamentID]
	return item, ok, nil
}

func (r *TournamentRepository) UpsertOutcome(_ context.Context, outcome tournament.Outcome) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	outcome.UpdatedAt = time.Now().UTC()
	r.outcomes[outcome.TournamentID] = outcome
	return nil
}

func (r *TournamentRepository) ListGroupResults(_ context.Context, tournamentID string) ([]tournament.GroupResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := r.groupResultsBy[tournamentID]
	out := make([]tournament.GroupResult, 0, len(items))
	out = append(out, items...)
	return out, nil
}

func (r *TournamentRepository) ReplaceGroupResults(_ context.Context, tournamentID string, rows []tournament.GroupResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.groupResultsBy[tournamentID] = append([]tournament.GroupResult(nil), rows...)
	return nil
}
