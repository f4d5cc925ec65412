package store

import (
	"context"
	"iter"
	"sync"

	"knitting-catalog-service/internal/domain"
)

// MemoryStore is an in-memory DesignStorer. Designs are yielded in the order
// they were added.
type MemoryStore struct {
	mu      sync.RWMutex
	designs []domain.Design
}

func NewMemoryStore(designs ...domain.Design) *MemoryStore {
	return &MemoryStore{designs: append([]domain.Design(nil), designs...)}
}

// Add appends designs to the catalog.
func (s *MemoryStore) Add(designs ...domain.Design) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.designs = append(s.designs, designs...)
}

func (s *MemoryStore) GetAll(ctx context.Context) iter.Seq2[domain.Design, error] {
	s.mu.RLock()
	snapshot := append([]domain.Design(nil), s.designs...)
	s.mu.RUnlock()

	return func(yield func(domain.Design, error) bool) {
		for _, d := range snapshot {
			if err := ctx.Err(); err != nil {
				yield(domain.Design{}, upstream("GetAll", err))
				return
			}
			if !yield(d, nil) {
				return
			}
		}
	}
}
