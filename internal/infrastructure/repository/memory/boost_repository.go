package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/prodehub/prode-api/internal/domain/boost"
)

type BoostRepository struct {
	mu     sync.RWMutex
	boosts map[string]boost.Boost
}

func NewBoostRepository() *BoostRepository {
	return &BoostRepository{boosts: make(map[string]boost.Boost)}
}

func boostKey(tournamentID, userID, gameID string) string {
	return tournamentID + "|" + userID + "|" + gameID
}

func (r *BoostRepository) ListByTournamentAndUser(_ context.Context, tournamentID, userID string) ([]boost.Boost, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]boost.Boost, 0)
	for _, item := range r.boosts {
		if item.TournamentID == tournamentID && item.UserID == userID {
			out = append(out, item)
		}
	}
	sortBoosts(out)
	return out, nil
}

func (r *BoostRepository) ListByTournament(_ context.Context, tournamentID string) ([]boost.Boost, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]boost.Boost, 0)
	for _, item := range r.boosts {
		if item.TournamentID == tournamentID {
			out = append(out, item)
		}
	}
	sortBoosts(out)
	return out, nil
}

func (r *BoostRepository) Create(_ context.Context, b boost.Boost) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.boosts[boostKey(b.TournamentID, b.UserID, b.GameID)] = b
	return nil
}

func (r *BoostRepository) Delete(_ context.Context, tournamentID, userID, gameID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.boosts, boostKey(tournamentID, userID, gameID))
	return nil
}

func sortBoosts(items []boost.Boost) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].UserID != items[j].UserID {
			return items[i].UserID < items[j].UserID
		}
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.Before(items[j].CreatedAt)
		}
		return items[i].GameID < items[j].GameID
	})
}
