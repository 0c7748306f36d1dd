package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/prodehub/prode-api/internal/domain/guess"
	qb "github.com/prodehub/prode-api/internal/platform/querybuilder"
)

type GuessRepository struct {
	db *sqlx.DB
}

func NewGuessRepository(db *sqlx.DB) *GuessRepository {
	return &GuessRepository{db: db}
}

func (r *GuessRepository) ListByTournament(ctx context.Context, tournamentID string) ([]guess.Guess, error) {
	query, args, err := qb.Select("*").From("guesses").
		Where(
			qb.Eq("tournament_public_id", tournamentID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("user_id", "game_public_id", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list guesses query: %w", err)
	}

	var rows []guessTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list guesses: %w", err)
	}

	return guessesFromRows(rows), nil
}

func (r *GuessRepository) ListByTournamentAndUser(ctx context.Context, tournamentID, userID string) ([]guess.Guess, error) {
	query, args, err := qb.Select("*").From("guesses").
		Where(
			qb.Eq("tournament_public_id", tournamentID),
			qb.Eq("user_id", userID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("game_public_id", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list user guesses query: %w", err)
	}

	var rows []guessTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list user guesses: %w", err)
	}

	return guessesFromRows(rows), nil
}

func (r *GuessRepository) UpsertGuesses(ctx context.Context, items []guess.Guess) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx upsert guesses: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, item := range items {
		insertModel := guessInsertModel{
			TournamentID:      item.TournamentID,
			GameID:            item.GameID,
			UserID:            item.UserID,
			HomeScore:         intPtrToNullInt64(item.HomeScore),
			AwayScore:         intPtrToNullInt64(item.AwayScore),
			HomePenaltyWinner: boolPtrToNullBool(item.HomePenaltyWinner),
			AwayPenaltyWinner: boolPtrToNullBool(item.AwayPenaltyWinner),
		}
		query, args, err := qb.InsertModel("guesses", insertModel, `ON CONFLICT (tournament_public_id, game_public_id, user_id) WHERE deleted_at IS NULL
DO UPDATE SET
    home_score = EXCLUDED.home_score,
    away_score = EXCLUDED.away_score,
    home_penalty_winner = EXCLUDED.home_penalty_winner,
    away_penalty_winner = EXCLUDED.away_penalty_winner,
    updated_at = NOW(),
    deleted_at = NULL`)
		if err != nil {
			return fmt.Errorf("build upsert guess query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert guess game=%s user=%s: %w", item.GameID, item.UserID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert guesses tx: %w", err)
	}
	return nil
}

func (r *GuessRepository) GetTournamentPicks(ctx context.Context, tournamentID, userID string) (guess.TournamentPicks, bool, error) {
	query, args, err := qb.Select("*").From("tournament_picks").
		Where(
			qb.Eq("tournament_public_id", tournamentID),
			qb.Eq("user_id", userID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return guess.TournamentPicks{}, false, fmt.Errorf("build get tournament picks query: %w", err)
	}

	var row tournamentPicksTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return guess.TournamentPicks{}, false, nil
		}
		return guess.TournamentPicks{}, false, fmt.Errorf("get tournament picks: %w", err)
	}

	return tournamentPicksFromRow(row), true, nil
}

func (r *GuessRepository) ListTournamentPicks(ctx context.Context, tournamentID string) ([]guess.TournamentPicks, error) {
	query, args, err := qb.Select("*").From("tournament_picks").
		Where(
			qb.Eq("tournament_public_id", tournamentID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("user_id", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list tournament picks query: %w", err)
	}

	var rows []tournamentPicksTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list tournament picks: %w", err)
	}

	out := make([]guess.TournamentPicks, 0, len(rows))
	for _, row := range rows {
		out = append(out, tournamentPicksFromRow(row))
	}
	return out, nil
}

func (r *GuessRepository) UpsertTournamentPicks(ctx context.Context, picks guess.TournamentPicks) error {
	insertModel := tournamentPicksInsertModel{
		TournamentID:    picks.TournamentID,
		UserID:          picks.UserID,
		ChampionTeamID:  nullableString(picks.ChampionTeamID),
		RunnerUpTeamID:  nullableString(picks.RunnerUpTeamID),
		TopScorerPlayer: nullableString(picks.TopScorerPlayer),
	}

	query, args, err := qb.InsertModel("tournament_picks", insertModel, `ON CONFLICT (tournament_public_id, user_id) WHERE deleted_at IS NULL
DO UPDATE SET
    champion_team_public_id = EXCLUDED.champion_team_public_id,
    runner_up_team_public_id = EXCLUDED.runner_up_team_public_id,
    top_scorer_player = EXCLUDED.top_scorer_player,
    updated_at = NOW(),
    deleted_at = NULL`)
	if err != nil {
		return fmt.Errorf("build upsert tournament picks query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert tournament picks user=%s: %w", picks.UserID, err)
	}
	return nil
}

func (r *GuessRepository) ListGroupOrderPicksByUser(ctx context.Context, tournamentID, userID string) ([]guess.GroupOrderPick, error) {
	query, args, err := qb.Select("*").From("group_order_picks").
		Where(
			qb.Eq("tournament_public_id", tournamentID),
			qb.Eq("user_id", userID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("group_name", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list user group order picks query: %w", err)
	}

	var rows []groupOrderPickTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list user group order picks: %w", err)
	}

	return groupOrderPicksFromRows(rows), nil
}

func (r *GuessRepository) ListGroupOrderPicks(ctx context.Context, tournamentID string) ([]guess.GroupOrderPick, error) {
	query, args, err := qb.Select("*").From("group_order_picks").
		Where(
			qb.Eq("tournament_public_id", tournamentID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("user_id", "group_name", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list group order picks query: %w", err)
	}

	var rows []groupOrderPickTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list group order picks: %w", err)
	}

	return groupOrderPicksFromRows(rows), nil
}

func (r *GuessRepository) UpsertGroupOrderPick(ctx context.Context, pick guess.GroupOrderPick) error {
	insertModel := groupOrderPickInsertModel{
		TournamentID:   pick.TournamentID,
		UserID:         pick.UserID,
		GroupName:      pick.Group,
		OrderedTeamIDs: pq.StringArray(pick.OrderedTeamIDs),
	}

	query, args, err := qb.InsertModel("group_order_picks", insertModel, `ON CONFLICT (tournament_public_id, user_id, group_name) WHERE deleted_at IS NULL
DO UPDATE SET
    ordered_team_ids = EXCLUDED.ordered_team_ids,
    updated_at = NOW(),
    deleted_at = NULL`)
	if err != nil {
		return fmt.Errorf("build upsert group order pick query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert group order pick user=%s group=%s: %w", pick.UserID, pick.Group, err)
	}
	return nil
}

func guessesFromRows(rows []guessTableModel) []guess.Guess {
	out := make([]guess.Guess, 0, len(rows))
	for _, row := range rows {
		out = append(out, guess.Guess{
			TournamentID:      row.TournamentID,
			GameID:            row.GameID,
			UserID:            row.UserID,
			HomeScore:         nullInt64ToIntPtr(row.HomeScore),
			AwayScore:         nullInt64ToIntPtr(row.AwayScore),
			HomePenaltyWinner: nullBoolToBoolPtr(row.HomePenaltyWinner),
			AwayPenaltyWinner: nullBoolToBoolPtr(row.AwayPenaltyWinner),
			UpdatedAt:         row.UpdatedAt,
		})
	}
	return out
}

func tournamentPicksFromRow(row tournamentPicksTableModel) guess.TournamentPicks {
	return guess.TournamentPicks{
		TournamentID:    row.TournamentID,
		UserID:          row.UserID,
		ChampionTeamID:  nullStringToString(row.ChampionTeamID),
		RunnerUpTeamID:  nullStringToString(row.RunnerUpTeamID),
		TopScorerPlayer: nullStringToString(row.TopScorerPlayer),
		UpdatedAt:       row.UpdatedAt,
	}
}

func groupOrderPicksFromRows(rows []groupOrderPickTableModel) []guess.GroupOrderPick {
	out := make([]guess.GroupOrderPick, 0, len(rows))
	for _, row := range rows {
		out = append(out, guess.GroupOrderPick{
			TournamentID:   row.TournamentID,
			UserID:         row.UserID,
			Group:          row.GroupName,
			OrderedTeamIDs: append([]string(nil), row.OrderedTeamIDs...),
			UpdatedAt:      row.UpdatedAt,
		})
	}
	return out
}
