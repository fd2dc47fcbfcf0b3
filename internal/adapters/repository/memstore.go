package repository

import (
	"context"
	"sync"

	"github.com/okian/scorecard/internal/domain/types"
	"github.com/okian/scorecard/pkg/metrics"
)

// MemoryStore is a bounded, insertion-ordered report cache. When full, the
// oldest report is evicted first.
type MemoryStore struct {
	mu       sync.RWMutex
	capacity int
	byID     map[string]types.ReportEnvelope
	order    []string // oldest first
}

// NewMemoryStore creates an empty store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{capacity: defaultCapacity}
	for _, opt := range opts {
		opt(s)
	}
	s.byID = make(map[string]types.ReportEnvelope, s.capacity)
	s.order = make([]string, 0, s.capacity)
	return s
}

// Put implements Store. Storing an existing id replaces it and refreshes its
// position.
func (s *MemoryStore) Put(_ context.Context, env types.ReportEnvelope) error {
	if env.ID == "" {
		return ErrMissingID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[env.ID]; ok {
		s.removeFromOrder(env.ID)
	}
	for len(s.order) >= s.capacity {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.byID, oldest)
		metrics.RecordReportCacheEviction()
	}
	s.byID[env.ID] = env
	s.order = append(s.order, env.ID)
	metrics.UpdateReportCacheSize(len(s.order))
	return nil
}

func (s *MemoryStore) removeFromOrder(id string) {
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, id string) (types.ReportEnvelope, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	env, ok := s.byID[id]
	if !ok {
		return types.ReportEnvelope{}, ErrNotFound
	}
	return env, nil
}

// List implements Store.
func (s *MemoryStore) List(_ context.Context, limit int) ([]types.ReportInfo, error) {
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit > len(s.order) {
		limit = len(s.order)
	}
	out := make([]types.ReportInfo, 0, limit)
	for i := len(s.order) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.byID[s.order[i]].Info())
	}
	return out, nil
}

// Count implements Store.
func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}
