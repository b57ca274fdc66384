package store

import (
	"errors"
	"sync"
	"time"

	"github.com/greenroot/growth-data-aggregation/internal/dataset"
)

var (
	// ErrNotLoaded is returned when a dataset has not been loaded yet.
	ErrNotLoaded = errors.New("dataset not loaded")

	// ErrNoSchool is returned when a loaded dataset has no records for the
	// requested school.
	ErrNoSchool = errors.New("no records for school")
)

// MemoryStore is a concurrency-safe in-memory holder for the loaded
// datasets. It is populated once at startup (or replaced wholesale by the
// optional reload job) and read for the remainder of the process lifetime;
// records are never mutated after a swap.
type MemoryStore struct {
	mu sync.RWMutex

	environment dataset.EnvironmentData
	growth      dataset.GrowthData
	loadedAt    time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Replace swaps in a freshly loaded pair of datasets atomically.
func (s *MemoryStore) Replace(env dataset.EnvironmentData, growth dataset.GrowthData) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.environment = env
	s.growth = growth
	s.loadedAt = time.Now().UTC()
}

// Environment returns the environment dataset.
func (s *MemoryStore) Environment() (dataset.EnvironmentData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.environment) == 0 {
		return nil, ErrNotLoaded
	}
	return s.environment, nil
}

// EnvironmentSeries returns one school's environment series.
func (s *MemoryStore) EnvironmentSeries(school dataset.School) ([]dataset.EnvironmentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.environment) == 0 {
		return nil, ErrNotLoaded
	}
	records, ok := s.environment[school]
	if !ok || len(records) == 0 {
		return nil, ErrNoSchool
	}
	return records, nil
}

// Growth returns the growth dataset.
func (s *MemoryStore) Growth() (dataset.GrowthData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.growth) == 0 {
		return nil, ErrNotLoaded
	}
	return s.growth, nil
}

// GrowthRecords returns one school's growth records.
func (s *MemoryStore) GrowthRecords(school dataset.School) ([]dataset.GrowthRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.growth) == 0 {
		return nil, ErrNotLoaded
	}
	records, ok := s.growth[school]
	if !ok || len(records) == 0 {
		return nil, ErrNoSchool
	}
	return records, nil
}

// LoadedAt returns when the datasets were last replaced; zero if never.
func (s *MemoryStore) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}
