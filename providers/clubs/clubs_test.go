package clubs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/sectionfeed/core/section"
	"github.com/kilianp07/sectionfeed/core/store"
)

func TestClubs_DecodeProject(t *testing.T) {
	c := New()
	s := store.New()
	payload := `{"id":123,"name":"Clubs","items":[{"id":1,"name":"Lions"},{"id":2,"name":"Otters"}]}`
	require.NoError(t, c.Decode(section.RawSection{ID: SectionID, Payload: []byte(payload)}, s))
	ds, err := c.Project(s)
	require.NoError(t, err)
	assert.Equal(t, section.DisplaySection{
		Description: "Clubs",
		Contents:    []section.DisplayItem{{Content: "Lions"}, {Content: "Otters"}},
	}, ds)
}

func TestClubs_MissingName(t *testing.T) {
	payload := `{"id":123,"name":"Clubs","items":[{"id":1}]}`
	err := New().Decode(section.RawSection{ID: SectionID, Payload: []byte(payload)}, store.New())
	assert.ErrorIs(t, err, section.ErrDecodingFailed)
}

func TestClubs_ZeroItemID(t *testing.T) {
	c := New()
	s := store.New()
	payload := `{"id":123,"name":"Clubs","items":[{"id":0,"name":"Lions"}]}`
	require.NoError(t, c.Decode(section.RawSection{ID: SectionID, Payload: []byte(payload)}, s))
	ds, err := c.Project(s)
	require.NoError(t, err)
	assert.Equal(t, []section.DisplayItem{{Content: "Lions"}}, ds.Contents)
}

func TestClubs_MissingItemID(t *testing.T) {
	payload := `{"id":123,"name":"Clubs","items":[{"name":"Lions"}]}`
	err := New().Decode(section.RawSection{ID: SectionID, Payload: []byte(payload)}, store.New())
	assert.ErrorIs(t, err, section.ErrDecodingFailed)
}
