package history

import (
	"context"
	"sync"

	"gridline-schedule-engine/pkg/types"
)

type counter struct {
	attempts  int64
	successes int64
}

// MemoryStore keeps outcome counters in process memory. It is the
// default backend and the one tests use.
type MemoryStore struct {
	mu      sync.RWMutex
	counts  map[string]*counter
	records []types.ResolutionHistoryRecord
	prior   float64
}

// NewMemoryStore creates an in-memory store with the given neutral
// prior for unknown (strategy, conflict type) pairs.
func NewMemoryStore(prior float64) *MemoryStore {
	return &MemoryStore{
		counts: make(map[string]*counter),
		prior:  prior,
	}
}

// RecordResolution appends one outcome sample.
func (s *MemoryStore) RecordResolution(_ context.Context, record types.ResolutionHistoryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := outcomeKey(record.Strategy, record.ConflictType)
	c, ok := s.counts[key]
	if !ok {
		c = &counter{}
		s.counts[key] = c
	}
	c.attempts++
	if record.Success {
		c.successes++
	}
	s.records = append(s.records, record)
	return nil
}

// GetSuccessRate returns the observed success fraction for the pair.
func (s *MemoryStore) GetSuccessRate(_ context.Context, strategy string, conflictType types.ConflictType) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.counts[outcomeKey(strategy, conflictType)]
	if !ok {
		return s.prior, nil
	}
	return rate(c.successes, c.attempts, s.prior), nil
}

// Records returns a copy of every recorded sample, in insertion order.
func (s *MemoryStore) Records() []types.ResolutionHistoryRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.ResolutionHistoryRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Close is a no-op for the in-memory backend.
func (s *MemoryStore) Close() error {
	return nil
}
