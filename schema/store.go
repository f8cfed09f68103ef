package schema

import (
	"context"
	"sort"

	"go.uber.org/atomic"

	"github.com/soqlgen/soqlgen/log"
)

// Store holds the current cache snapshot. Snapshots are immutable and
// swapped whole, so the completer can read while a background fetch
// replaces the cache.
type Store struct {
	value atomic.Value
}

func NewStore(cache *Cache) *Store {
	s := &Store{}
	if cache != nil {
		s.value.Store(cache)
	}
	return s
}

// Get returns the current snapshot, nil before the first Set.
func (s *Store) Get() *Cache {
	cache, _ := s.value.Load().(*Cache)
	return cache
}

// Set swaps in a new snapshot.
func (s *Store) Set(cache *Cache) {
	s.value.Store(cache)
}

// Objects returns the cached object names.
func (s *Store) Objects() []string {
	cache := s.Get()
	if cache == nil {
		return nil
	}
	return cache.Objects
}

// HasObject reports whether name is a known object.
func (s *Store) HasObject(name string) bool {
	for _, object := range s.Objects() {
		if object == name {
			return true
		}
	}
	return false
}

// FieldsFor returns the cached field names of an object, nil when they
// have not been fetched yet.
func (s *Store) FieldsFor(object string) []string {
	cache := s.Get()
	if cache == nil {
		return nil
	}
	return cache.ObjectFields[object]
}

// PrefetchFields fetches and caches the field list of object unless it
// is already present. Safe to call from a background goroutine; the
// updated snapshot replaces the old one atomically.
func (s *Store) PrefetchFields(ctx context.Context, d Describer, object string, logger log.Logger) {
	cache := s.Get()
	if cache == nil || len(cache.ObjectFields[object]) > 0 {
		return
	}

	describe, err := d.DescribeObject(ctx, object)
	if err != nil {
		logger.Debug("field prefetch failed",
			"object", object,
			"error", err)
		return
	}

	fields := make([]string, 0, len(describe.Fields))
	for _, field := range describe.Fields {
		fields = append(fields, field.Name)
	}
	sort.Strings(fields)

	next := &Cache{
		Objects:      cache.Objects,
		ObjectFields: make(map[string][]string, len(cache.ObjectFields)+1),
		LastCached:   cache.LastCached,
	}
	for name, list := range cache.ObjectFields {
		next.ObjectFields[name] = list
	}
	next.ObjectFields[object] = fields
	s.Set(next)
}
