package configurator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/sectionfeed/core/section"
	"github.com/kilianp07/sectionfeed/core/store"
)

type named struct {
	Name string `json:"name" validate:"required"`
}

func upper(m section.Model[named]) section.DisplaySection {
	out := section.DisplaySection{Description: m.Name}
	for _, it := range m.Items {
		out.Contents = append(out.Contents, section.DisplayItem{Content: "* " + it.Name})
	}
	return out
}

func TestTyped_DecodeProject(t *testing.T) {
	c := New[named](5, "names", upper)
	s := store.New()
	err := c.Decode(section.RawSection{ID: 5, Payload: []byte(`{"id":5,"name":"Names","items":[{"name":"a"},{"name":"b"}]}`)}, s)
	require.NoError(t, err)

	ds, err := c.Project(s)
	require.NoError(t, err)
	assert.Equal(t, section.DisplaySection{
		Description: "Names",
		Contents:    []section.DisplayItem{{Content: "* a"}, {Content: "* b"}},
	}, ds)
}

func TestTyped_DecodeFailureStoresNothing(t *testing.T) {
	c := New[named](5, "names", upper)
	s := store.New()
	err := c.Decode(section.RawSection{ID: 5, Payload: []byte(`{"id":5,"name":"Names","items":[{"name":"a"},{"name":""}]}`)}, s)
	assert.ErrorIs(t, err, section.ErrDecodingFailed)
	assert.False(t, s.Has(5))
}

func TestTyped_DecodeWrongSection(t *testing.T) {
	c := New[named](5, "names", upper)
	err := c.Decode(section.RawSection{ID: 6, Payload: []byte(`{"id":6,"name":"x","items":[]}`)}, store.New())
	assert.ErrorIs(t, err, section.ErrTypeMismatch)
}

func TestTyped_ProjectMissingModel(t *testing.T) {
	c := New[named](5, "names", upper)
	_, err := c.Project(store.New())
	assert.ErrorIs(t, err, section.ErrMissingSectionData)
}

func TestTyped_ProjectForeignModel(t *testing.T) {
	s := store.New()
	s.Put(5, section.Model[item]{ID: 5})
	c := New[named](5, "names", upper)
	_, err := c.Project(s)
	var se *section.Error
	require.True(t, errors.As(err, &se))
	assert.Equal(t, section.KindTypeMismatch, se.Kind)
	assert.Equal(t, c.ModelType(), se.Expected)
}

func TestDefaultProjection(t *testing.T) {
	ds := DefaultProjection(section.Model[item]{Name: "ids", Items: []item{{ID: 1}, {ID: 2}}})
	assert.Equal(t, "ids", ds.Description)
	assert.Equal(t, []section.DisplayItem{{Content: "{1}"}, {Content: "{2}"}}, ds.Contents)
}
