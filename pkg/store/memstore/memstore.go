package memstore

import (
	"context"
	"sync"

	"github.com/patrickmn/go-cache"
)

// Store is a go-cache backed DocumentStore for tests and local simulation.
// Documents never expire; the cache is used purely as a process-local map.
type Store struct {
	mu    sync.Mutex
	cache *cache.Cache
}

func New() *Store {
	return &Store{
		cache: cache.New(cache.NoExpiration, 0),
	}
}

func key(collection, id string) string {
	return collection + ":" + id
}

func (s *Store) GetDocument(_ context.Context, collection, id string) (map[string]interface{}, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, found := s.cache.Get(key(collection, id))
	if !found {
		return nil, false, nil
	}
	stored := raw.(map[string]interface{})
	// Shallow copy so callers mutating the result still have to SetDocument.
	doc := make(map[string]interface{}, len(stored))
	for k, v := range stored {
		doc[k] = v
	}
	return doc, true, nil
}

func (s *Store) SetDocument(_ context.Context, collection, id string, doc map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make(map[string]interface{}, len(doc))
	for k, v := range doc {
		stored[k] = v
	}
	s.cache.Set(key(collection, id), stored, cache.NoExpiration)
	return nil
}

func (s *Store) Increment(_ context.Context, collection, id, field string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key(collection, id)
	var doc map[string]interface{}
	if raw, found := s.cache.Get(k); found {
		doc = raw.(map[string]interface{})
	} else {
		doc = make(map[string]interface{})
	}

	var current int64
	if v, ok := doc[field]; ok {
		switch n := v.(type) {
		case int64:
			current = n
		case int:
			current = int64(n)
		case float64:
			current = int64(n)
		}
	}
	current++
	doc[field] = current
	s.cache.Set(k, doc, cache.NoExpiration)
	return current, nil
}
