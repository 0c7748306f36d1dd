package user

import (
	"context"
	"time"
)

// Record is the locally stored mirror of an authenticated user, refreshed
// every time their token is introspected.
type Record struct {
	ID        string    `json:"id" db:"id"`
	Username  string    `json:"username" db:"username"`
	Email     string    `json:"email" db:"email"`
	LastSeen  time.Time `json:"lastSeen" db:"last_seen"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

type Repository interface {
	GetByID(ctx context.Context, userID string) (Record, bool, error)
	ListByIDs(ctx context.Context, userIDs []string) ([]Record, error)
	Upsert(ctx context.Context, record Record) error
}
