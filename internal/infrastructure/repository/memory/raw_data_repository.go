package memory

import (
	"context"
	"sync"

	"github.com/prodehub/prode-api/internal/domain/rawdata"
)

type RawDataRepository struct {
	mu       sync.Mutex
	payloads map[string]rawdata.Payload
}

func NewRawDataRepository() *RawDataRepository {
	return &RawDataRepository{payloads: make(map[string]rawdata.Payload)}
}

func (r *RawDataRepository) UpsertMany(_ context.Context, items []rawdata.Payload) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range items {
		key := item.Source + "|" + item.EntityType + "|" + item.EntityKey
		r.payloads[key] = item
	}
	return nil
}
