package configurator

import (
	"errors"
	"reflect"
	"sync"

	"github.com/kilianp07/sectionfeed/core/section"
)

// ErrNilConfigurator is returned when Register receives nil, including a
// nil pointer wrapped in the interface.
var ErrNilConfigurator = errors.New("configurator is nil")

// Registry stores configurators by section id and remembers registration
// order. It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	byID  map[int]Configurator
	order []Configurator
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[int]Configurator)}
}

// Register adds c under c.ID(). A second configurator for the same id is
// rejected with DuplicateConfigurator and the registry is left unchanged.
func (r *Registry) Register(c Configurator) error {
	if isNil(c) {
		return ErrNilConfigurator
	}
	id := c.ID()
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; ok {
		return section.DuplicateConfigurator(id)
	}
	r.byID[id] = c
	r.order = append(r.order, c)
	return nil
}

func isNil(c Configurator) bool {
	if c == nil {
		return true
	}
	v := reflect.ValueOf(c)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return v.IsNil()
	}
	return false
}

// MustRegister is Register for static wiring; it panics on error.
func (r *Registry) MustRegister(cs ...Configurator) {
	for _, c := range cs {
		if err := r.Register(c); err != nil {
			panic(err)
		}
	}
}

// Lookup returns the configurator for id.
func (r *Registry) Lookup(id int) (Configurator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byID[id]
	return c, ok
}

// All returns the configurators in registration order.
func (r *Registry) All() []Configurator {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Configurator, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of registered configurators.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Snapshot returns a read-only copy of the current registrations. Later
// calls to Register do not affect it.
func (r *Registry) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s := Snapshot{byID: make(map[int]Configurator, len(r.byID)), order: make([]Configurator, len(r.order))}
	for id, c := range r.byID {
		s.byID[id] = c
	}
	copy(s.order, r.order)
	return s
}

// Snapshot is an immutable view of a Registry at one point in time.
type Snapshot struct {
	byID  map[int]Configurator
	order []Configurator
}

// Lookup returns the configurator for id.
func (s Snapshot) Lookup(id int) (Configurator, bool) {
	c, ok := s.byID[id]
	return c, ok
}

// All returns the configurators in registration order.
func (s Snapshot) All() []Configurator {
	out := make([]Configurator, len(s.order))
	copy(out, s.order)
	return out
}

// Len returns the number of configurators in the snapshot.
func (s Snapshot) Len() int { return len(s.order) }
