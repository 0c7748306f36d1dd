package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/prodehub/prode-api/internal/domain/game"
)

type GameRepository struct {
	mu       sync.RWMutex
	gamesByT map[string][]game.Game
}

func NewGameRepository(games []game.Game) *GameRepository {
	gamesByT := make(map[string][]game.Game)
	for _, item := range games {
		gamesByT[item.TournamentID] = append(gamesByT[item.TournamentID], item)
	}
	return &GameRepository{gamesByT: gamesByT}
}

func (r *GameRepository) ListByTournament(_ context.Context, tournamentID string) ([]game.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := r.gamesByT[tournamentID]
	out := make([]game.Game, 0, len(items))
	out = append(out, items...)
	sort.Slice(out, func(i, j int) bool {
		if !out[i].KickoffAt.Equal(out[j].KickoffAt) {
			return out[i].KickoffAt.Before(out[j].KickoffAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *GameRepository) GetByID(_ context.Context, tournamentID, gameID string) (game.Game, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.gamesByT[tournamentID] {
		if item.ID == gameID {
			return item, true, nil
		}
	}
	return game.Game{}, false, nil
}

func (r *GameRepository) UpsertGames(_ context.Context, tournamentID string, items []game.Game) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range items {
		item.TournamentID = tournamentID
		r.upsertLocked(tournamentID, item)
	}
	return nil
}

func (r *GameRepository) UpsertResults(_ context.Context, tournamentID string, items []game.Game) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range items {
		existing := r.gamesByT[tournamentID]
		updated := false
		for i := range existing {
			if existing[i].ID != item.ID {
				continue
			}
			existing[i].Status = game.NormalizeStatus(item.Status)
			existing[i].HomeScore = item.HomeScore
			existing[i].AwayScore = item.AwayScore
			existing[i].HomePenaltyScore = item.HomePenaltyScore
			existing[i].AwayPenaltyScore = item.AwayPenaltyScore
			if item.FinishedAt != nil {
				existing[i].FinishedAt = item.FinishedAt
			}
			updated = true
			break
		}
		if !updated {
			item.TournamentID = tournamentID
			r.upsertLocked(tournamentID, item)
		}
	}
	return nil
}

func (r *GameRepository) upsertLocked(tournamentID string, item game.Game) {
	existing := r.gamesByT[tournamentID]
	for i := range existing {
		if existing[i].ID == item.ID {
			existing[i] = item
			return
		}
	}
	r.gamesByT[tournamentID] = append(existing, item)
}
