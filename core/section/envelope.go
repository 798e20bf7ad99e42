package section

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ParseEnvelope splits data into raw sections. Only the top-level shape and
// each section's integer id are checked here; section bodies are validated
// later by Decode.
func ParseEnvelope(data []byte) (Envelope, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Envelope{}, MalformedEnvelope("payload is not a JSON object", nil)
	}
	var top map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &top); err != nil {
		return Envelope{}, MalformedEnvelope("invalid JSON", err)
	}
	rawSections, ok := top["sections"]
	if !ok || isNull(rawSections) {
		return Envelope{}, MalformedEnvelope(`missing "sections"`, nil)
	}
	var items []json.RawMessage
	if err := json.Unmarshal(rawSections, &items); err != nil {
		return Envelope{}, MalformedEnvelope(`"sections" is not an array`, err)
	}

	env := Envelope{Sections: make([]RawSection, 0, len(items))}
	seen := make(map[int]int, len(items))
	for i, item := range items {
		id, err := sectionID(i, item)
		if err != nil {
			return Envelope{}, err
		}
		if prev, dup := seen[id]; dup {
			return Envelope{}, MalformedEnvelope(
				fmt.Sprintf("section id %d repeated at index %d and %d", id, prev, i), nil)
		}
		seen[id] = i
		payload := make([]byte, len(item))
		copy(payload, item)
		env.Sections = append(env.Sections, RawSection{ID: id, Index: i, Payload: payload})
	}
	return env, nil
}

func sectionID(index int, item json.RawMessage) (int, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(item, &fields); err != nil || fields == nil {
		return 0, MissingSectionID(index, "section is not an object")
	}
	rawID, ok := fields["id"]
	if !ok || isNull(rawID) {
		return 0, MissingSectionID(index, `no "id" field`)
	}
	dec := json.NewDecoder(bytes.NewReader(rawID))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return 0, MissingSectionID(index, "unreadable id")
	}
	num, ok := v.(json.Number)
	if !ok {
		return 0, MissingSectionID(index, fmt.Sprintf("id is %s, not an integer", jsonKind(v)))
	}
	id, err := strconv.Atoi(num.String())
	if err != nil {
		return 0, MissingSectionID(index, fmt.Sprintf("id %s is not an integer", num))
	}
	return id, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "a boolean"
	case string:
		return "a string"
	case json.Number, float64:
		return "a number"
	case []any:
		return "an array"
	case map[string]any:
		return "an object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
