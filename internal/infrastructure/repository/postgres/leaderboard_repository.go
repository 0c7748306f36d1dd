package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/prodehub/prode-api/internal/domain/leaderboard"
	qb "github.com/prodehub/prode-api/internal/platform/querybuilder"
)

type LeaderboardRepository struct {
	db *sqlx.DB
}

func NewLeaderboardRepository(db *sqlx.DB) *LeaderboardRepository {
	return &LeaderboardRepository{db: db}
}

func (r *LeaderboardRepository) ListByTournament(ctx context.Context, tournamentID string) ([]leaderboard.Entry, error) {
	query, args, err := qb.Select("*").From("leaderboard_entries").
		Where(
			qb.Eq("tournament_public_id", tournamentID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("score DESC", "user_id", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list leaderboard entries query: %w", err)
	}

	var rows []leaderboardEntryTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list leaderboard entries: %w", err)
	}

	out := make([]leaderboard.Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, leaderboard.Entry{
			TournamentID: row.TournamentID,
			UserID:       row.UserID,
			Username:     row.Username,
			Score:        nullInt64ToIntPtr(row.Score),
			UpdatedAt:    row.UpdatedAt,
		})
	}
	return out, nil
}

func (r *LeaderboardRepository) ReplaceByTournament(ctx context.Context, tournamentID string, entries []leaderboard.Entry) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace leaderboard entries: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	clearQuery, clearArgs, err := qb.Update("leaderboard_entries").
		SetExpr("deleted_at", "NOW()").
		Where(
			qb.Eq("tournament_public_id", tournamentID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build clear leaderboard entries query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, clearQuery, clearArgs...); err != nil {
		return fmt.Errorf("clear leaderboard entries: %w", err)
	}

	for _, item := range entries {
		insertModel := leaderboardEntryInsertModel{
			TournamentID: tournamentID,
			UserID:       item.UserID,
			Username:     item.Username,
			Score:        intPtrToNullInt64(item.Score),
		}
		query, args, err := qb.InsertModel("leaderboard_entries", insertModel, `ON CONFLICT (tournament_public_id, user_id) WHERE deleted_at IS NULL
DO UPDATE SET
    username = EXCLUDED.username,
    score = EXCLUDED.score,
    updated_at = NOW(),
    deleted_at = NULL`)
		if err != nil {
			return fmt.Errorf("build upsert leaderboard entry query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert leaderboard entry user=%s: %w", item.UserID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace leaderboard entries tx: %w", err)
	}
	return nil
}

func (r *LeaderboardRepository) ListSnapshotsBefore(ctx context.Context, tournamentID, day string) ([]leaderboard.Snapshot, error) {
	query, args, err := qb.Select("DISTINCT ON (user_id) *").
		From("leaderboard_snapshots").
		Where(
			qb.Eq("tournament_public_id", tournamentID),
			qb.Lt("day", day),
			qb.IsNull("deleted_at"),
		).
		OrderBy("user_id", "day DESC", "id DESC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list leaderboard snapshots query: %w", err)
	}

	var rows []leaderboardSnapshotTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list leaderboard snapshots: %w", err)
	}

	out := make([]leaderboard.Snapshot, 0, len(rows))
	for _, row := range rows {
		out = append(out, leaderboard.Snapshot{
			TournamentID: row.TournamentID,
			UserID:       row.UserID,
			Day:          row.Day,
			Score:        row.Score,
			CreatedAt:    row.CreatedAt,
		})
	}
	return out, nil
}

func (r *LeaderboardRepository) UpsertSnapshots(ctx context.Context, snapshots []leaderboard.Snapshot) error {
	if len(snapshots) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx upsert leaderboard snapshots: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, item := range snapshots {
		insertModel := leaderboardSnapshotInsertModel{
			TournamentID: item.TournamentID,
			UserID:       item.UserID,
			Day:          item.Day,
			Score:        item.Score,
		}
		// First write of the day wins so the snapshot stays the
		// start-of-day score.
		query, args, err := qb.InsertModel("leaderboard_snapshots", insertModel, `ON CONFLICT (tournament_public_id, user_id, day) WHERE deleted_at IS NULL
DO NOTHING`)
		if err != nil {
			return fmt.Errorf("build upsert leaderboard snapshot query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert leaderboard snapshot user=%s day=%s: %w", item.UserID, item.Day, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert leaderboard snapshots tx: %w", err)
	}
	return nil
}
