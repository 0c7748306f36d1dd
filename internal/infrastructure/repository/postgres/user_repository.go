package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/prodehub/prode-api/internal/domain/user"
	qb "github.com/prodehub/prode-api/internal/platform/querybuilder"
)

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

type userTableModel struct {
	ID        int64      `db:"id"`
	PublicID  string     `db:"public_id"`
	Username  string     `db:"username"`
	Email     string     `db:"email"`
	LastSeen  time.Time  `db:"last_seen"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at"`
}

type userInsertModel struct {
	PublicID string    `db:"public_id"`
	Username string    `db:"username"`
	Email    string    `db:"email"`
	LastSeen time.Time `db:"last_seen"`
}

func (r *UserRepository) GetByID(ctx context.Context, userID string) (user.Record, bool, error) {
	query, args, err := qb.Select("*").From("users").
		Where(
			qb.Eq("public_id", userID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return user.Record{}, false, fmt.Errorf("build get user query: %w", err)
	}

	var row userTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return user.Record{}, false, nil
		}
		return user.Record{}, false, fmt.Errorf("get user: %w", err)
	}

	return userFromRow(row), true, nil
}

func (r *UserRepository) ListByIDs(ctx context.Context, userIDs []string) ([]user.Record, error) {
	if len(userIDs) == 0 {
		return []user.Record{}, nil
	}

	values := make([]any, 0, len(userIDs))
	for _, id := range userIDs {
		values = append(values, id)
	}

	query, args, err := qb.Select("*").From("users").
		Where(
			qb.In("public_id", values),
			qb.IsNull("deleted_at"),
		).
		OrderBy("public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list users by ids query: %w", err)
	}

	var rows []userTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list users by ids: %w", err)
	}

	out := make([]user.Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, userFromRow(row))
	}
	return out, nil
}

func (r *UserRepository) Upsert(ctx context.Context, record user.Record) error {
	insertModel := userInsertModel{
		PublicID: record.ID,
		Username: record.Username,
		Email:    record.Email,
		LastSeen: record.LastSeen,
	}

	query, args, err := qb.InsertModel("users", insertModel, `ON CONFLICT (public_id) WHERE deleted_at IS NULL
DO UPDATE SET
    username = EXCLUDED.username,
    email = EXCLUDED.email,
    last_seen = EXCLUDED.last_seen,
    updated_at = NOW(),
    deleted_at = NULL`)
	if err != nil {
		return fmt.Errorf("build upsert user query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert user id=%s: %w", record.ID, err)
	}
	return nil
}

func userFromRow(row userTableModel) user.Record {
	return user.Record{
		ID:        row.PublicID,
		Username:  row.Username,
		Email:     row.Email,
		LastSeen:  row.LastSeen,
		CreatedAt: row.CreatedAt,
	}
}
