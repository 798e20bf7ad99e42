package section

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	defaultValidate     *validator.Validate
	defaultValidateOnce sync.Once
)

// NewValidator returns a validator that reports field names by their json tag.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// DefaultValidator is the validator used when Decode receives nil.
func DefaultValidator() *validator.Validate {
	defaultValidateOnce.Do(func() { defaultValidate = NewValidator() })
	return defaultValidate
}

// Decode turns raw into a Model[I]. The section shape (id, name, items) is
// checked first and reported as TypeMismatch; anything wrong inside items,
// including failed validate tags on I, is reported as DecodingFailed. The
// whole section fails on the first bad item.
func Decode[I any](raw RawSection, v *validator.Validate) (Model[I], error) {
	if v == nil {
		v = DefaultValidator()
	}
	fields, err := checkShape(raw)
	if err != nil {
		return Model[I]{}, err
	}

	var m Model[I]
	dec := json.NewDecoder(bytes.NewReader(raw.Payload))
	if err := dec.Decode(&m); err != nil {
		return Model[I]{}, DecodingFailed(raw.ID, err)
	}
	if m.ID != raw.ID {
		return Model[I]{}, TypeMismatch(raw.ID, fmt.Sprintf("id %d", raw.ID), fmt.Sprintf("id %d", m.ID))
	}
	if err := v.Struct(m); err != nil {
		return Model[I]{}, DecodingFailed(raw.ID, err)
	}

	for k, val := range fields {
		switch k {
		case "id", "name", "items":
			continue
		}
		if m.Extra == nil {
			m.Extra = make(map[string]json.RawMessage)
		}
		m.Extra[k] = val
	}
	return m, nil
}

func checkShape(raw RawSection) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	kind := rawKind(raw.Payload)
	if kind != "object" {
		return nil, TypeMismatch(raw.ID, "object", kind)
	}
	if err := json.Unmarshal(raw.Payload, &fields); err != nil {
		return nil, DecodingFailed(raw.ID, err)
	}
	want := []struct {
		key  string
		kind string
	}{
		{"id", "number"},
		{"name", "string"},
		{"items", "array"},
	}
	for _, w := range want {
		val, ok := fields[w.key]
		if !ok {
			return nil, TypeMismatch(raw.ID, fmt.Sprintf("%s %s", w.key, w.kind), w.key+" missing")
		}
		if got := rawKind(val); got != w.kind {
			return nil, TypeMismatch(raw.ID, fmt.Sprintf("%s %s", w.key, w.kind), fmt.Sprintf("%s %s", w.key, got))
		}
	}
	return fields, nil
}

// rawKind names the JSON kind of an encoded value from its first byte.
func rawKind(raw []byte) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return "empty"
	}
	switch c := trimmed[0]; {
	case c == '{':
		return "object"
	case c == '[':
		return "array"
	case c == '"':
		return "string"
	case c == 't' || c == 'f':
		return "boolean"
	case c == 'n':
		return "null"
	case c == '-' || (c >= '0' && c <= '9'):
		return "number"
	default:
		return "invalid"
	}
}
