// Package memory is an in-process KeyValue store, used by default and in tests.
package memory

import (
	"context"
	"sync"

	"financeflow/internal/store"
)

type Store struct {
	mu    sync.Mutex
	items map[string][]byte
}

var _ store.KeyValue = (*Store)(nil)

func New() *Store {
	return &Store{items: map[string][]byte{}}
}

func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.items[key]
	if !ok {
		return nil, store.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (s *Store) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = append([]byte(nil), value...)
	return nil
}

// Remove deletes key. Removing a missing key is not an error.
func (s *Store) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
	return nil
}

// Len returns the number of stored keys.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
