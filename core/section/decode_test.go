package section

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type team struct {
	ID    int    `json:"id" validate:"required"`
	Name  string `json:"name" validate:"required"`
	Score int    `json:"score" validate:"gte=0"`
}

func raw(id int, payload string) RawSection {
	return RawSection{ID: id, Payload: []byte(payload)}
}

func TestDecode_OK(t *testing.T) {
	m, err := Decode[team](raw(321, `{"id":321,"name":"Standings","items":[{"id":1,"name":"Lions","score":250}],"season":2024}`), nil)
	require.NoError(t, err)
	assert.Equal(t, 321, m.ID)
	assert.Equal(t, "Standings", m.Name)
	require.Len(t, m.Items, 1)
	assert.Equal(t, team{ID: 1, Name: "Lions", Score: 250}, m.Items[0])
	assert.JSONEq(t, `2024`, string(m.Extra["season"]))
}

func TestDecode_EmptyItems(t *testing.T) {
	m, err := Decode[team](raw(1, `{"id":1,"name":"x","items":[]}`), nil)
	require.NoError(t, err)
	assert.Empty(t, m.Items)
	assert.Nil(t, m.Extra)
}

func TestDecode_TypeMismatch(t *testing.T) {
	cases := map[string]string{
		"not object":    `[1,2]`,
		"items string":  `{"id":1,"name":"x","items":"nope"}`,
		"items null":    `{"id":1,"name":"x","items":null}`,
		"items missing": `{"id":1,"name":"x"}`,
		"name number":   `{"id":1,"name":5,"items":[]}`,
		"name missing":  `{"id":1,"items":[]}`,
		"id string":     `{"id":"1","name":"x","items":[]}`,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode[team](raw(1, payload), nil)
			require.Error(t, err)
			var se *Error
			require.True(t, errors.As(err, &se), "got %v", err)
			assert.Equal(t, KindTypeMismatch, se.Kind)
			assert.Equal(t, 1, se.SectionID)
			assert.NotEmpty(t, se.Expected)
			assert.NotEmpty(t, se.Actual)
		})
	}
}

func TestDecode_DecodingFailed(t *testing.T) {
	cases := map[string]string{
		"score wrong kind":  `{"id":9,"name":"x","items":[{"id":1,"name":"a","score":"high"}]}`,
		"item not object":   `{"id":9,"name":"x","items":[{"id":1,"name":"a"},3]}`,
		"name missing":      `{"id":9,"name":"x","items":[{"id":1}]}`,
		"negative score":    `{"id":9,"name":"x","items":[{"id":1,"name":"a","score":-1}]}`,
		"one bad among ok":  `{"id":9,"name":"x","items":[{"id":1,"name":"a"},{"id":2,"name":"b"},{"id":3}]}`,
		"truncated payload": `{"id":9,"name":"x","items":[{"id":1,"name":"a"}`,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			m, err := Decode[team](raw(9, payload), nil)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrDecodingFailed), "got %v", err)
			assert.Nil(t, m.Items)
			var se *Error
			require.True(t, errors.As(err, &se))
			assert.Equal(t, 9, se.SectionID)
			assert.Error(t, se.Err)
		})
	}
}

func TestDecode_ValidationErrorsUseJSONNames(t *testing.T) {
	_, err := Decode[team](raw(9, `{"id":9,"name":"x","items":[{"id":1}]}`), NewValidator())
	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	require.NotEmpty(t, verrs)
	assert.Equal(t, "name", verrs[0].Field())
}

func TestDecode_IDMismatch(t *testing.T) {
	_, err := Decode[team](raw(1, `{"id":2,"name":"x","items":[]}`), nil)
	assert.True(t, errors.Is(err, ErrTypeMismatch))
}
