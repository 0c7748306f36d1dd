package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/prodehub/prode-api/internal/domain/boost"
	"github.com/prodehub/prode-api/internal/domain/game"
	"github.com/prodehub/prode-api/internal/domain/guess"
	"github.com/prodehub/prode-api/internal/domain/leaderboard"
	"github.com/prodehub/prode-api/internal/domain/rawdata"
	"github.com/prodehub/prode-api/internal/domain/tournament"
	"github.com/prodehub/prode-api/internal/domain/user"
)

func intp(v int) *int { return &v }

func boolp(v bool) *bool { return &v }

type stubTournamentRepository struct {
	tournaments  []tournament.Tournament
	teams        map[string][]tournament.Team
	outcomes     map[string]tournament.Outcome
	groupResults map[string][]tournament.GroupResult
}

func (r *stubTournamentRepository) List(_ context.Context) ([]tournament.Tournament, error) {
	return r.tournaments, nil
}

func (r *stubTournamentRepository) GetByID(_ context.Context, tournamentID string) (tournament.Tournament, bool, error) {
	for _, t := range r.tournaments {
		if t.ID == tournamentID {
			return t, true, nil
		}
	}
	return tournament.Tournament{}, false, nil
}

func (r *stubTournamentRepository) ListTeams(_ context.Context, tournamentID string) ([]tournament.Team, error) {
	return r.teams[tournamentID], nil
}

func (r *stubTournamentRepository) GetOutcome(_ context.Context, tournamentID string) (tournament.Outcome, bool, error) {
	outcome, exists := r.outcomes[tournamentID]
	return outcome, exists, nil
}

func (r *stubTournamentRepository) UpsertOutcome(_ context.Context, outcome tournament.Outcome) error {
	if r.outcomes == nil {
		r.outcomes = make(map[string]tournament.Outcome)
	}
	r.outcomes[outcome.TournamentID] = outcome
	return nil
}

func (r *stubTournamentRepository) ListGroupResults(_ context.Context, tournamentID string) ([]tournament.GroupResult, error) {
	return r.groupResults[tournamentID], nil
}

func (r *stubTournamentRepository) ReplaceGroupResults(_ context.Context, tournamentID string, rows []tournament.GroupResult) error {
	if r.groupResults == nil {
		r.groupResults = make(map[string][]tournament.GroupResult)
	}
	r.groupResults[tournamentID] = rows
	return nil
}

type stubGameRepository struct {
	byTournament map[string][]game.Game
}

func (r *stubGameRepository) ListByTournament(_ context.Context, tournamentID string) ([]game.Game, error) {
	return r.byTournament[tournamentID], nil
}

func (r *stubGameRepository) GetByID(_ context.Context, tournamentID, gameID string) (game.Game, bool, error) {
	for _, g := range r.byTournament[tournamentID] {
		if g.ID == gameID {
			return g, true, nil
		}
	}
	return game.Game{}, false, nil
}

func (r *stubGameRepository) UpsertGames(_ context.Context, tournamentID string, items []game.Game) error {
	if r.byTournament == nil {
		r.byTournament = make(map[string][]game.Game)
	}
	for _, item := range items {
		replaced := false
		for idx, existing := range r.byTournament[tournamentID] {
			if existing.ID == item.ID {
				r.byTournament[tournamentID][idx] = item
				replaced = true
				break
			}
		}
		if !replaced {
			r.byTournament[tournamentID] = append(r.byTournament[tournamentID], item)
		}
	}
	return nil
}

func (r *stubGameRepository) UpsertResults(ctx context.Context, tournamentID string, items []game.Game) error {
	return r.UpsertGames(ctx, tournamentID, items)
}

type stubGuessRepository struct {
	guesses    []guess.Guess
	picks      map[string]guess.TournamentPicks
	orderPicks []guess.GroupOrderPick
}

func picksKey(tournamentID, userID string) string {
	return tournamentID + "/" + userID
}

func (r *stubGuessRepository) ListByTournament(_ context.Context, tournamentID string) ([]guess.Guess, error) {
	out := make([]guess.Guess, 0)
	for _, item := range r.guesses {
		if item.TournamentID == tournamentID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *stubGuessRepository) ListByTournamentAndUser(_ context.Context, tournamentID, userID string) ([]guess.Guess, error) {
	out := make([]guess.Guess, 0)
	for _, item := range r.guesses {
		if item.TournamentID == tournamentID && item.UserID == userID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *stubGuessRepository) UpsertGuesses(_ context.Context, items []guess.Guess) error {
	for _, item := range items {
		replaced := false
		for idx, existing := range r.guesses {
			if existing.TournamentID == item.TournamentID && existing.GameID == item.GameID && existing.UserID == item.UserID {
				r.guesses[idx] = item
				replaced = true
				break
			}
		}
		if !replaced {
			r.guesses = append(r.guesses, item)
		}
	}
	return nil
}

func (r *stubGuessRepository) GetTournamentPicks(_ context.Context, tournamentID, userID string) (guess.TournamentPicks, bool, error) {
	picks, exists := r.picks[picksKey(tournamentID, userID)]
	return picks, exists, nil
}

func (r *stubGuessRepository) ListTournamentPicks(_ context.Context, tournamentID string) ([]guess.TournamentPicks, error) {
	out := make([]guess.TournamentPicks, 0)
	for _, picks := range r.picks {
		if picks.TournamentID == tournamentID {
			out = append(out, picks)
		}
	}
	return out, nil
}

func (r *stubGuessRepository) UpsertTournamentPicks(_ context.Context, picks guess.TournamentPicks) error {
	if r.picks == nil {
		r.picks = make(map[string]guess.TournamentPicks)
	}
	r.picks[picksKey(picks.TournamentID, picks.UserID)] = picks
	return nil
}

func (r *stubGuessRepository) ListGroupOrderPicksByUser(_ context.Context, tournamentID, userID string) ([]guess.GroupOrderPick, error) {
	out := make([]guess.GroupOrderPick, 0)
	for _, pick := range r.orderPicks {
		if pick.TournamentID == tournamentID && pick.UserID == userID {
			out = append(out, pick)
		}
	}
	return out, nil
}

func (r *stubGuessRepository) ListGroupOrderPicks(_ context.Context, tournamentID string) ([]guess.GroupOrderPick, error) {
	out := make([]guess.GroupOrderPick, 0)
	for _, pick := range r.orderPicks {
		if pick.TournamentID == tournamentID {
			out = append(out, pick)
		}
	}
	return out, nil
}

func (r *stubGuessRepository) UpsertGroupOrderPick(_ context.Context, pick guess.GroupOrderPick) error {
	for idx, existing := range r.orderPicks {
		if existing.TournamentID == pick.TournamentID && existing.UserID == pick.UserID && existing.Group == pick.Group {
			r.orderPicks[idx] = pick
			return nil
		}
	}
	r.orderPicks = append(r.orderPicks, pick)
	return nil
}

type stubBoostRepository struct {
	boosts []boost.Boost
}

func (r *stubBoostRepository) ListByTournamentAndUser(_ context.Context, tournamentID, userID string) ([]boost.Boost, error) {
	out := make([]boost.Boost, 0)
	for _, b := range r.boosts {
		if b.TournamentID == tournamentID && b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *stubBoostRepository) ListByTournament(_ context.Context, tournamentID string) ([]boost.Boost, error) {
	out := make([]boost.Boost, 0)
	for _, b := range r.boosts {
		if b.TournamentID == tournamentID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *stubBoostRepository) Create(_ context.Context, b boost.Boost) error {
	r.boosts = append(r.boosts, b)
	return nil
}

func (r *stubBoostRepository) Delete(_ context.Context, tournamentID, userID, gameID string) error {
	for idx, b := range r.boosts {
		if b.TournamentID == tournamentID && b.UserID == userID && b.GameID == gameID {
			r.boosts = append(r.boosts[:idx], r.boosts[idx+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: boost", ErrNotFound)
}

type stubUserRepository struct {
	records map[string]user.Record
}

func (r *stubUserRepository) GetByID(_ context.Context, userID string) (user.Record, bool, error) {
	record, exists := r.records[userID]
	return record, exists, nil
}

func (r *stubUserRepository) ListByIDs(_ context.Context, userIDs []string) ([]user.Record, error) {
	out := make([]user.Record, 0, len(userIDs))
	for _, userID := range userIDs {
		if record, exists := r.records[userID]; exists {
			out = append(out, record)
		}
	}
	return out, nil
}

func (r *stubUserRepository) Upsert(_ context.Context, record user.Record) error {
	if r.records == nil {
		r.records = make(map[string]user.Record)
	}
	r.records[record.ID] = record
	return nil
}

type stubLeaderboardRepository struct {
	mu        sync.Mutex
	entries   map[string][]leaderboard.Entry
	snapshots []leaderboard.Snapshot
}

func (r *stubLeaderboardRepository) ListByTournament(_ context.Context, tournamentID string) ([]leaderboard.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]leaderboard.Entry(nil), r.entries[tournamentID]...), nil
}

func (r *stubLeaderboardRepository) ReplaceByTournament(_ context.Context, tournamentID string, entries []leaderboard.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.entries == nil {
		r.entries = make(map[string][]leaderboard.Entry)
	}
	r.entries[tournamentID] = append([]leaderboard.Entry(nil), entries...)
	return nil
}

func (r *stubLeaderboardRepository) ListSnapshotsBefore(_ context.Context, tournamentID, day string) ([]leaderboard.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	latestByUser := make(map[string]leaderboard.Snapshot)
	for _, snapshot := range r.snapshots {
		if snapshot.TournamentID != tournamentID || snapshot.Day >= day {
			continue
		}
		current, exists := latestByUser[snapshot.UserID]
		if !exists || snapshot.Day > current.Day {
			latestByUser[snapshot.UserID] = snapshot
		}
	}

	out := make([]leaderboard.Snapshot, 0, len(latestByUser))
	for _, snapshot := range latestByUser {
		out = append(out, snapshot)
	}
	return out, nil
}

func (r *stubLeaderboardRepository) UpsertSnapshots(_ context.Context, snapshots []leaderboard.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, snapshot := range snapshots {
		exists := false
		for _, existing := range r.snapshots {
			if existing.TournamentID == snapshot.TournamentID && existing.UserID == snapshot.UserID && existing.Day == snapshot.Day {
				exists = true
				break
			}
		}
		if !exists {
			r.snapshots = append(r.snapshots, snapshot)
		}
	}
	return nil
}

type stubRawDataRepository struct {
	items []rawdata.Payload
}

func (r *stubRawDataRepository) UpsertMany(_ context.Context, items []rawdata.Payload) error {
	r.items = append(r.items, items...)
	return nil
}

type stubIDGenerator struct {
	next int
}

func (g *stubIDGenerator) NewID() (string, error) {
	g.next++
	return fmt.Sprintf("id-%d", g.next), nil
}

type stubFeed struct {
	games    map[int64][]ExternalGame
	payloads map[int64][]rawdata.Payload
	err      error
}

func (f *stubFeed) FetchTournamentGames(_ context.Context, feedRefID int64) ([]ExternalGame, []rawdata.Payload, error) {
	if f.err != nil {
		return nil, nil, f.err
	}
	return f.games[feedRefID], f.payloads[feedRefID], nil
}
