// Package configurator holds the handlers providers register for their
// section ids and the registry the pipeline routes sections through.
//
// Providers never implement Configurator by hand. They describe their item
// type and projection and let New build the handler:
//
//	type club struct {
//	    ID   *int   `json:"id" validate:"required"`
//	    Name string `json:"name" validate:"required"`
//	}
//	c := configurator.New[club](123, "clubs", func(m section.Model[club]) section.DisplaySection {
//	    ...
//	})
package configurator

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/kilianp07/sectionfeed/core/section"
	"github.com/kilianp07/sectionfeed/core/store"
)

// Configurator is the type-erased view of a provider handler. The pipeline
// only sees this interface; the concrete item type stays inside the
// implementation.
type Configurator interface {
	// ID is the section id this configurator handles.
	ID() int
	Name() string
	// ModelType names the model type stored by Decode and expected by Project.
	ModelType() string
	// Decode parses raw and stores the typed model in s under ID.
	Decode(raw section.RawSection, s *store.Store) error
	// Project reads the model for ID from s and renders it.
	Project(s *store.Store) (section.DisplaySection, error)
}

// ProjectFunc renders a decoded model into the shared display form.
type ProjectFunc[I any] func(section.Model[I]) section.DisplaySection

type settings struct {
	validate *validator.Validate
}

// Option customises a configurator built by New.
type Option func(*settings)

// WithValidator replaces the default item validator, for providers that
// register custom validation tags.
func WithValidator(v *validator.Validate) Option {
	return func(s *settings) { s.validate = v }
}

// Typed is the generic Configurator for sections whose items have type I.
type Typed[I any] struct {
	id       int
	name     string
	project  ProjectFunc[I]
	validate *validator.Validate
}

// New builds a configurator for section id. A nil project falls back to
// DefaultProjection.
func New[I any](id int, name string, project ProjectFunc[I], opts ...Option) *Typed[I] {
	st := settings{}
	for _, o := range opts {
		o(&st)
	}
	if st.validate == nil {
		st.validate = section.DefaultValidator()
	}
	if project == nil {
		project = DefaultProjection[I]
	}
	return &Typed[I]{id: id, name: name, project: project, validate: st.validate}
}

func (c *Typed[I]) ID() int      { return c.id }
func (c *Typed[I]) Name() string { return c.name }

func (c *Typed[I]) ModelType() string { return store.TypeName[section.Model[I]]() }

// Decode implements Configurator.
func (c *Typed[I]) Decode(raw section.RawSection, s *store.Store) error {
	if raw.ID != c.id {
		return section.TypeMismatch(raw.ID, fmt.Sprintf("section %d", c.id), fmt.Sprintf("section %d", raw.ID))
	}
	m, err := section.Decode[I](raw, c.validate)
	if err != nil {
		return err
	}
	s.Put(c.id, m)
	return nil
}

// Project implements Configurator.
func (c *Typed[I]) Project(s *store.Store) (section.DisplaySection, error) {
	m, err := store.Get[section.Model[I]](s, c.id)
	if err != nil {
		return section.DisplaySection{}, err
	}
	return c.project(m), nil
}

// DefaultProjection uses the section name as description and the default
// formatting of each item as content.
func DefaultProjection[I any](m section.Model[I]) section.DisplaySection {
	out := section.DisplaySection{
		Description: m.Name,
		Contents:    make([]section.DisplayItem, 0, len(m.Items)),
	}
	for _, it := range m.Items {
		out.Contents = append(out.Contents, section.DisplayItem{Content: fmt.Sprint(it)})
	}
	return out
}
