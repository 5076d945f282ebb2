package memory

import (
	"context"
	"sync"

	"github.com/patrickmn/go-cache"

	"github.com/njprem/NoirBrew_Web/internal/repository/ports"
)

// KeyValueStore keeps values in process memory. Entries never expire.
type KeyValueStore struct {
	mu    sync.Mutex
	items *cache.Cache
}

func NewKeyValueStore() *KeyValueStore {
	return &KeyValueStore{items: cache.New(cache.NoExpiration, 0)}
}

func (s *KeyValueStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.items.Get(key)
	if !ok {
		return "", false, nil
	}
	str, ok := v.(string)
	if !ok {
		return "", false, nil
	}
	return str, true, nil
}

func (s *KeyValueStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items.Set(key, value, cache.NoExpiration)
	return nil
}

func (s *KeyValueStore) SetMany(_ context.Context, entries []ports.KeyValue) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range entries {
		s.items.Set(e.Key, e.Value, cache.NoExpiration)
	}
	return nil
}

var (
	_ ports.KeyValueStore = (*KeyValueStore)(nil)
	_ ports.BatchWriter   = (*KeyValueStore)(nil)
)
