package stats

import (
	"context"
	"sync"

	"github.com/ethanbaker/refbot/pkg/stats"
)

// InMemoryStore provides an in-memory implementation of StoreInterface for testing
// and for running the console without touching disk
type InMemoryStore struct {
	names    []string
	counters stats.Counters
	saves    int
	mutex    sync.RWMutex
}

// NewInMemoryStore creates an empty in-memory store for the given destinations
func NewInMemoryStore(names []string) *InMemoryStore {
	return &InMemoryStore{
		names:    append([]string(nil), names...),
		counters: stats.NewCounters(names),
	}
}

// Load returns a copy of the stored counters
func (s *InMemoryStore) Load(ctx context.Context) stats.Counters {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.counters.Clone().Backfill(s.names)
}

// Save replaces the stored counters with a copy of the given ones
func (s *InMemoryStore) Save(ctx context.Context, counters stats.Counters) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.counters = counters.Clone()
	s.saves++
}

// Saves returns how many times Save was called
func (s *InMemoryStore) Saves() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.saves
}
