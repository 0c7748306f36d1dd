package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/prodehub/prode-api/internal/domain/boost"
	qb "github.com/prodehub/prode-api/internal/platform/querybuilder"
)

type BoostRepository struct {
	db *sqlx.DB
}

func NewBoostRepository(db *sqlx.DB) *BoostRepository {
	return &BoostRepository{db: db}
}

type boostTableModel struct {
	ID           int64      `db:"id"`
	PublicID     string     `db:"public_id"`
	TournamentID string     `db:"tournament_public_id"`
	UserID       string     `db:"user_id"`
	GameID       string     `db:"game_public_id"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
	DeletedAt    *time.Time `db:"deleted_at"`
}

type boostInsertModel struct {
	PublicID     string `db:"public_id"`
	TournamentID string `db:"tournament_public_id"`
	UserID       string `db:"user_id"`
	GameID       string `db:"game_public_id"`
}

func (r *BoostRepository) ListByTournamentAndUser(ctx context.Context, tournamentID, userID string) ([]boost.Boost, error) {
	query, args, err := qb.Select("*").From("boosts").
		Where(
			qb.Eq("tournament_public_id", tournamentID),
			qb.Eq("user_id", userID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("created_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list user boosts query: %w", err)
	}

	var rows []boostTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list user boosts: %w", err)
	}

	return boostsFromRows(rows), nil
}

func (r *BoostRepository) ListByTournament(ctx context.Context, tournamentID string) ([]boost.Boost, error) {
	query, args, err := qb.Select("*").From("boosts").
		Where(
			qb.Eq("tournament_public_id", tournamentID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("user_id", "created_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list boosts query: %w", err)
	}

	var rows []boostTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list boosts: %w", err)
	}

	return boostsFromRows(rows), nil
}

func (r *BoostRepository) Create(ctx context.Context, b boost.Boost) error {
	insertModel := boostInsertModel{
		PublicID:     b.ID,
		TournamentID: b.TournamentID,
		UserID:       b.UserID,
		GameID:       b.GameID,
	}

	query, args, err := qb.InsertModel("boosts", insertModel, `ON CONFLICT (tournament_public_id, user_id, game_public_id) WHERE deleted_at IS NULL
DO NOTHING`)
	if err != nil {
		return fmt.Errorf("build create boost query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("create boost game=%s user=%s: %w", b.GameID, b.UserID, err)
	}
	return nil
}

func (r *BoostRepository) Delete(ctx context.Context, tournamentID, userID, gameID string) error {
	query, args, err := qb.Update("boosts").
		SetExpr("deleted_at", "NOW()").
		Where(
			qb.Eq("tournament_public_id", tournamentID),
			qb.Eq("user_id", userID),
			qb.Eq("game_public_id", gameID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete boost query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete boost game=%s user=%s: %w", gameID, userID, err)
	}
	return nil
}

func boostsFromRows(rows []boostTableModel) []boost.Boost {
	out := make([]boost.Boost, 0, len(rows))
	for _, row := range rows {
		out = append(out, boost.Boost{
			ID:           row.PublicID,
			TournamentID: row.TournamentID,
			UserID:       row.UserID,
			GameID:       row.GameID,
			CreatedAt:    row.CreatedAt,
		})
	}
	return out
}
