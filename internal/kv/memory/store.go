// Package memory provides the in-memory kv.Store used by tests and ephemeral
// deployments.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"accreditex/internal/kv"
)

// Store is a mutex-guarded map store. Values are copied on the way in and out
// so callers cannot alias internal state.
type Store struct {
	mu   sync.RWMutex
	data map[string][]byte
}

var _ kv.Store = (*Store)(nil)

// New constructs an empty in-memory store.
func New() *Store {
	return &Store{data: make(map[string][]byte)}
}

func (s *Store) Driver() kv.Driver { return kv.DriverMemory }

// Get returns the value stored under key, reporting absence via the bool.
func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.data[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, true, nil
}

// Set stores value under key, replacing any prior value.
func (s *Store) Set(_ context.Context, key string, value []byte) error {
	cpy := make([]byte, len(value))
	copy(cpy, value)
	s.mu.Lock()
	s.data[key] = cpy
	s.mu.Unlock()
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.data, key)
	s.mu.Unlock()
	return nil
}

// Keys lists stored keys with the given prefix in ascending order.
func (s *Store) Keys(_ context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var keys []string
	for key := range s.data {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Len reports the number of stored keys (test helper).
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
