package section

import "encoding/json"

// RawSection is one undecoded section of an envelope. Payload holds the
// section object exactly as received so provider-specific fields survive
// until decode.
type RawSection struct {
	ID      int
	Index   int
	Payload []byte
}

// Envelope is the ordered list of sections parsed from one fetched payload.
type Envelope struct {
	Sections []RawSection
}

// IDs returns the section ids in envelope order.
func (e Envelope) IDs() []int {
	ids := make([]int, len(e.Sections))
	for i, s := range e.Sections {
		ids[i] = s.ID
	}
	return ids
}

// Model is the decoded form of a section whose items have type I.
// Extra holds the top-level section fields other than id, name and items.
type Model[I any] struct {
	ID    int                        `json:"id"`
	Name  string                     `json:"name"`
	Items []I                        `json:"items" validate:"required,dive"`
	Extra map[string]json.RawMessage `json:"-"`
}

// DisplayItem is one rendered line of a display section.
type DisplayItem struct {
	Content string `json:"content" yaml:"content"`
}

// DisplaySection is the provider-agnostic projection handed to consumers.
type DisplaySection struct {
	Description string        `json:"description" yaml:"description"`
	Contents    []DisplayItem `json:"contents" yaml:"contents"`
}
