package cache

import (
	"context"

	"github.com/prodehub/prode-api/internal/domain/game"
	"github.com/prodehub/prode-api/internal/domain/tournament"
	basecache "github.com/prodehub/prode-api/internal/platform/cache"
)

type TournamentRepository struct {
	next  tournament.Repository
	cache *basecache.Store
}

func NewTournamentRepository(next tournament.Repository, cache *basecache.Store) *TournamentRepository {
	return &TournamentRepository{next: next, cache: cache}
}

func (r *TournamentRepository) List(ctx context.Context) ([]tournament.Tournament, error) {
	v, err := r.cache.GetOrLoad(ctx, "tournament:list", func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]tournament.Tournament(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]tournament.Tournament)
	return append([]tournament.Tournament(nil), items...), nil
}

func (r *TournamentRepository) GetByID(ctx context.Context, tournamentID string) (tournament.Tournament, bool, error) {
	key := "tournament:id:" + tournamentID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, tournamentID)
		if err != nil {
			return nil, err
		}
		return cachedTournamentByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return tournament.Tournament{}, false, err
	}

	cached, _ := v.(cachedTournamentByID)
	return cached.value, cached.exists, nil
}

type cachedTournamentByID struct {
	value  tournament.Tournament
	exists bool
}

func (r *TournamentRepository) ListTeams(ctx context.Context, tournamentID string) ([]tournament.Team, error) {
	key := "tournament:teams:" + tournamentID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListTeams(ctx, tournamentID)
		if err != nil {
			return nil, err
		}
		return append([]tournament.Team(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]tournament.Team)
	return append([]tournament.Team(nil), items...), nil
}

func (r *TournamentRepository) GetOutcome(ctx context.Context, tournamentID string) (tournament.Outcome, bool, error) {
	key := "tournament:outcome:" + tournamentID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetOutcome(ctx, tournamentID)
		if err != nil {
			return nil, err
		}
		return cachedOutcome{value: item, exists: exists}, nil
	})
	if err != nil {
		return tournament.Outcome{}, false, err
	}

	cached, _ := v.(cachedOutcome)
	return cached.value, cached.exists, nil
}

type cachedOutcome struct {
	value  tournament.Outcome
	exists bool
}

func (r *TournamentRepository) UpsertOutcome(ctx context.Context, outcome tournament.Outcome) error {
	if err := r.next.UpsertOutcome(ctx, outcome); err != nil {
		return err
	}
	r.cache.Delete(ctx, "tournament:outcome:"+outcome.TournamentID)
	return nil
}

func (r *TournamentRepository) ListGroupResults(ctx context.Context, tournamentID string) ([]tournament.GroupResult, error) {
	key := "tournament:groups:" + tournamentID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListGroupResults(ctx, tournamentID)
		if err != nil {
			return nil, err
		}
		return append([]tournament.GroupResult(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]tournament.GroupResult)
	return append([]tournament.GroupResult(nil), items...), nil
}

func (r *TournamentRepository) ReplaceGroupResults(ctx context.Context, tournamentID string, rows []tournament.GroupResult) error {
	if err := r.next.ReplaceGroupResults(ctx, tournamentID, rows); err != nil {
		return err
	}
	r.cache.Delete(ctx, "tournament:groups:"+tournamentID)
	return nil
}

type GameRepository struct {
	next  game.Repository
	cache *basecache.Store
}

func NewGameRepository(next game.Repository, cache *basecache.Store) *GameRepository {
	return &GameRepository{next: next, cache: cache}
}

func (r *GameRepository) ListByTournament(ctx context.Context, tournamentID string) ([]game.Game, error) {
	key := "game:list:" + tournamentID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListByTournament(ctx, tournamentID)
		if err != nil {
			return nil, err
		}
		return append([]game.Game(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]game.Game)
	return append([]game.Game(nil), items...), nil
}

func (r *GameRepository) GetByID(ctx context.Context, tournamentID, gameID string) (game.Game, bool, error) {
	key := "game:id:" + tournamentID + ":" + gameID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, tournamentID, gameID)
		if err != nil {
			return nil, err
		}
		return cachedGameByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return game.Game{}, false, err
	}

	cached, _ := v.(cachedGameByID)
	return cached.value, cached.exists, nil
}

type cachedGameByID struct {
	value  game.Game
	exists bool
}

func (r *GameRepository) UpsertGames(ctx context.Context, tournamentID string, items []game.Game) error {
	if err := r.next.UpsertGames(ctx, tournamentID, items); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "game:")
	return nil
}

func (r *GameRepository) UpsertResults(ctx context.Context, tournamentID string, items []game.Game) error {
	if err := r.next.UpsertResults(ctx, tournamentID, items); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "game:")
	return nil
}
