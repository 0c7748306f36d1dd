package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/prodehub/prode-api/internal/domain/guess"
)

type GuessRepository struct {
	mu         sync.RWMutex
	guesses    map[string]guess.Guess
	picks      map[string]guess.TournamentPicks
	orderPicks map[string]guess.GroupOrderPick
}

func NewGuessRepository() *GuessRepository {
	return &GuessRepository{
		guesses:    make(map[string]guess.Guess),
		picks:      make(map[string]guess.TournamentPicks),
		orderPicks: make(map[string]guess.GroupOrderPick),
	}
}

func guessKey(tournamentID, gameID, userID string) string {
	return tournamentID + "|" + gameID + "|" + userID
}

func picksKey(tournamentID, userID string) string {
	return tournamentID + "|" + userID
}

func orderPickKey(tournamentID, userID, group string) string {
	return tournamentID + "|" + userID + "|" + group
}

func (r *GuessRepository) ListByTournament(_ context.Context, tournamentID string) ([]guess.Guess, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]guess.Guess, 0)
	for _, item := range r.guesses {
		if item.TournamentID == tournamentID {
			out = append(out, item)
		}
	}
	sortGuesses(out)
	return out, nil
}

func (r *GuessRepository) ListByTournamentAndUser(_ context.Context, tournamentID, userID string) ([]guess.Guess, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]guess.Guess, 0)
	for _, item := range r.guesses {
		if item.TournamentID == tournamentID && item.UserID == userID {
			out = append(out, item)
		}
	}
	sortGuesses(out)
	return out, nil
}

func (r *GuessRepository) UpsertGuesses(_ context.Context, items []guess.Guess) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range items {
		item.UpdatedAt = time.Now().UTC()
		r.guesses[guessKey(item.TournamentID, item.GameID, item.UserID)] = item
	}
	return nil
}

func (r *GuessRepository) GetTournamentPicks(_ context.Context, tournamentID, userID string) (guess.TournamentPicks, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.picks[picksKey(tournamentID, userID)]
	return item, ok, nil
}

func (r *GuessRepository) ListTournamentPicks(_ context.Context, tournamentID string) ([]guess.TournamentPicks, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]guess.TournamentPicks, 0)
	for _, item := range r.picks {
		if item.TournamentID == tournamentID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (r *GuessRepository) UpsertTournamentPicks(_ context.Context, picks guess.TournamentPicks) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	picks.UpdatedAt = time.Now().UTC()
	r.picks[picksKey(picks.TournamentID, picks.UserID)] = picks
	return nil
}

func (r *GuessRepository) ListGroupOrderPicksByUser(_ context.Context, tournamentID, userID string) ([]guess.GroupOrderPick, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]guess.GroupOrderPick, 0)
	for _, item := range r.orderPicks {
		if item.TournamentID == tournamentID && item.UserID == userID {
			out = append(out, item)
		}
	}
	sortGroupOrderPicks(out)
	return out, nil
}

func (r *GuessRepository) ListGroupOrderPicks(_ context.Context, tournamentID string) ([]guess.GroupOrderPick, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]guess.GroupOrderPick, 0)
	for _, item := range r.orderPicks {
		if item.TournamentID == tournamentID {
			out = append(out, item)
		}
	}
	sortGroupOrderPicks(out)
	return out, nil
}

func (r *GuessRepository) UpsertGroupOrderPick(_ context.Context, pick guess.GroupOrderPick) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	pick.UpdatedAt = time.Now().UTC()
	pick.OrderedTeamIDs = append([]string(nil), pick.OrderedTeamIDs...)
	r.orderPicks[orderPickKey(pick.TournamentID, pick.UserID, pick.Group)] = pick
	return nil
}

func sortGuesses(items []guess.Guess) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].UserID != items[j].UserID {
			return items[i].UserID < items[j].UserID
		}
		return items[i].GameID < items[j].GameID
	})
}

func sortGroupOrderPicks(items []guess.GroupOrderPick) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].UserID != items[j].UserID {
			return items[i].UserID < items[j].UserID
		}
		return items[i].Group < items[j].Group
	})
}
