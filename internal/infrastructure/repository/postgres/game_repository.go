package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/prodehub/prode-api/internal/domain/game"
	qb "github.com/prodehub/prode-api/internal/platform/querybuilder"
)

type GameRepository struct {
	db *sqlx.DB
}

func NewGameRepository(db *sqlx.DB) *GameRepository {
	return &GameRepository{db: db}
}

func (r *GameRepository) ListByTournament(ctx context.Context, tournamentID string) ([]game.Game, error) {
	query, args, err := qb.Select("*").From("games").
		Where(
			qb.Eq("tournament_public_id", tournamentID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("kickoff_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list games query: %w", err)
	}

	var rows []gameTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}

	out := make([]game.Game, 0, len(rows))
	for _, row := range rows {
		out = append(out, gameFromRow(row))
	}
	return out, nil
}

func (r *GameRepository) GetByID(ctx context.Context, tournamentID, gameID string) (game.Game, bool, error) {
	query, args, err := qb.Select("*").From("games").
		Where(
			qb.Eq("tournament_public_id", tournamentID),
			qb.Eq("public_id", gameID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return game.Game{}, false, fmt.Errorf("build get game query: %w", err)
	}

	var row gameTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return game.Game{}, false, nil
		}
		return game.Game{}, false, fmt.Errorf("get game: %w", err)
	}

	return gameFromRow(row), true, nil
}

func (r *GameRepository) UpsertGames(ctx context.Context, tournamentID string, items []game.Game) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx upsert games: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, item := range items {
		insertModel := gameInsertModelFromDomain(tournamentID, item)
		query, args, err := qb.InsertModel("games", insertModel, `ON CONFLICT (tournament_public_id, public_id) WHERE deleted_at IS NULL
DO UPDATE SET
    stage = EXCLUDED.stage,
    group_name = EXCLUDED.group_name,
    home_team_public_id = EXCLUDED.home_team_public_id,
    away_team_public_id = EXCLUDED.away_team_public_id,
    home_team = EXCLUDED.home_team,
    away_team = EXCLUDED.away_team,
    kickoff_at = EXCLUDED.kickoff_at,
    venue = EXCLUDED.venue,
    status = EXCLUDED.status,
    home_score = EXCLUDED.home_score,
    away_score = EXCLUDED.away_score,
    home_penalty_score = EXCLUDED.home_penalty_score,
    away_penalty_score = EXCLUDED.away_penalty_score,
    feed_ref_id = EXCLUDED.feed_ref_id,
    finished_at = EXCLUDED.finished_at,
    updated_at = NOW(),
    deleted_at = NULL`)
		if err != nil {
			return fmt.Errorf("build upsert game query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert game id=%s: %w", item.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert games tx: %w", err)
	}
	return nil
}

func (r *GameRepository) UpsertResults(ctx context.Context, tournamentID string, items []game.Game) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx upsert game results: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, item := range items {
		builder := qb.Update("games").
			Set("status", game.NormalizeStatus(item.Status)).
			Set("home_score", intPtrToNullInt64(item.HomeScore)).
			Set("away_score", intPtrToNullInt64(item.AwayScore)).
			Set("home_penalty_score", intPtrToNullInt64(item.HomePenaltyScore)).
			Set("away_penalty_score", intPtrToNullInt64(item.AwayPenaltyScore)).
			SetExpr("updated_at", "NOW()").
			Where(
				qb.Eq("tournament_public_id", tournamentID),
				qb.Eq("public_id", item.ID),
				qb.IsNull("deleted_at"),
			)
		if item.FinishedAt != nil {
			builder = builder.Set("finished_at", *item.FinishedAt)
		}

		query, args, err := builder.ToSQL()
		if err != nil {
			return fmt.Errorf("build upsert game result query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert game result id=%s: %w", item.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert game results tx: %w", err)
	}
	return nil
}

func gameFromRow(row gameTableModel) game.Game {
	return game.Game{
		ID:               row.PublicID,
		TournamentID:     row.TournamentID,
		Stage:            row.Stage,
		Group:            row.GroupName,
		HomeTeamID:       nullStringToString(row.HomeTeamID),
		AwayTeamID:       nullStringToString(row.AwayTeamID),
		HomeTeam:         row.HomeTeam,
		AwayTeam:         row.AwayTeam,
		KickoffAt:        row.KickoffAt,
		Venue:            row.Venue,
		Status:           row.Status,
		HomeScore:        nullInt64ToIntPtr(row.HomeScore),
		AwayScore:        nullInt64ToIntPtr(row.AwayScore),
		HomePenaltyScore: nullInt64ToIntPtr(row.HomePenaltyScore),
		AwayPenaltyScore: nullInt64ToIntPtr(row.AwayPenaltyScore),
		FeedRefID:        nullInt64ToInt64(row.FeedRefID),
		FinishedAt:       nullTimeToTimePtr(row.FinishedAt),
	}
}

func gameInsertModelFromDomain(tournamentID string, item game.Game) gameInsertModel {
	feedRefID := sql.NullInt64{}
	if item.FeedRefID > 0 {
		feedRefID = sql.NullInt64{Int64: item.FeedRefID, Valid: true}
	}

	finishedAt := sql.NullTime{}
	if item.FinishedAt != nil {
		finishedAt = sql.NullTime{Time: *item.FinishedAt, Valid: true}
	}

	return gameInsertModel{
		PublicID:         item.ID,
		TournamentID:     tournamentID,
		Stage:            game.NormalizeStage(item.Stage),
		GroupName:        item.Group,
		HomeTeamID:       nullableString(item.HomeTeamID),
		AwayTeamID:       nullableString(item.AwayTeamID),
		HomeTeam:         item.HomeTeam,
		AwayTeam:         item.AwayTeam,
		KickoffAt:        item.KickoffAt,
		Venue:            item.Venue,
		Status:           game.NormalizeStatus(item.Status),
		HomeScore:        intPtrToNullInt64(item.HomeScore),
		AwayScore:        intPtrToNullInt64(item.AwayScore),
		HomePenaltyScore: intPtrToNullInt64(item.HomePenaltyScore),
		AwayPenaltyScore: intPtrToNullInt64(item.AwayPenaltyScore),
		FeedRefID:        feedRefID,
		FinishedAt:       finishedAt,
	}
}
