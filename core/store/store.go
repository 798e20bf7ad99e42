// Package store keeps decoded section models between the decode and
// projection phases of a run. Models are held as any; Get is the one place
// where a stored value is checked against the type the caller expects.
package store

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/kilianp07/sectionfeed/core/section"
)

// Store maps section ids to decoded models. It is safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	models map[int]any
}

// New returns an empty Store.
func New() *Store {
	return &Store{models: make(map[int]any)}
}

// Put stores model under id, replacing any previous value.
func (s *Store) Put(id int, model any) {
	s.mu.Lock()
	s.models[id] = model
	s.mu.Unlock()
}

// Has reports whether a model is stored under id.
func (s *Store) Has(id int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.models[id]
	return ok
}

// Len returns the number of stored models.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.models)
}

// IDs returns the stored ids in ascending order.
func (s *Store) IDs() []int {
	s.mu.RLock()
	ids := make([]int, 0, len(s.models))
	for id := range s.models {
		ids = append(ids, id)
	}
	s.mu.RUnlock()
	sort.Ints(ids)
	return ids
}

func (s *Store) load(id int) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.models[id]
	return v, ok
}

// Get returns the model stored under id as M. A missing entry yields
// MissingSectionData and a value of another type yields TypeMismatch.
func Get[M any](s *Store, id int) (M, error) {
	var zero M
	v, ok := s.load(id)
	if !ok {
		return zero, section.MissingSectionData(id)
	}
	m, ok := v.(M)
	if !ok {
		return zero, section.TypeMismatch(id, TypeName[M](), typeNameOf(v))
	}
	return m, nil
}

// TypeName returns a readable name for M.
func TypeName[M any]() string {
	return reflect.TypeOf((*M)(nil)).Elem().String()
}

func typeNameOf(v any) string {
	if v == nil {
		return "nil"
	}
	return fmt.Sprintf("%T", v)
}
