package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/prodehub/prode-api/internal/domain/user"
)

type UserRepository struct {
	mu      sync.RWMutex
	records map[string]user.Record
}

func NewUserRepository() *UserRepository {
	return &UserRepository{records: make(map[string]user.Record)}
}

func (r *UserRepository) GetByID(_ context.Context, userID string) (user.Record, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.records[userID]
	return record, ok, nil
}

func (r *UserRepository) ListByIDs(_ context.Context, userIDs []string) ([]user.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]user.Record, 0, len(userIDs))
	for _, id := range userIDs {
		if record, ok := r.records[id]; ok {
			out = append(out, record)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *UserRepository) Upsert(_ context.Context, record user.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records[record.ID] = record
	return nil
}
