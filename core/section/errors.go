package section

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a pipeline error.
type Kind int

const (
	KindUnknown Kind = iota
	KindMalformedEnvelope
	KindMissingSectionID
	KindDuplicateConfigurator
	KindMissingConfigurator
	KindMissingSectionData
	KindTypeMismatch
	KindDecodingFailed
	KindFetchFailed
)

func (k Kind) String() string {
	switch k {
	case KindMalformedEnvelope:
		return "malformed_envelope"
	case KindMissingSectionID:
		return "missing_section_id"
	case KindDuplicateConfigurator:
		return "duplicate_configurator"
	case KindMissingConfigurator:
		return "missing_configurator"
	case KindMissingSectionData:
		return "missing_section_data"
	case KindTypeMismatch:
		return "type_mismatch"
	case KindDecodingFailed:
		return "decoding_failed"
	case KindFetchFailed:
		return "fetch_failed"
	default:
		return "unknown"
	}
}

// Error carries the kind of failure and whatever context is needed to
// diagnose it without re-running. Fields that do not apply to a kind are
// left zero.
type Error struct {
	Kind      Kind
	SectionID int
	// Index is the position of the section in the envelope, -1 when not relevant.
	Index    int
	Expected string
	Actual   string
	Detail   string
	Err      error
}

// Sentinels for errors.Is. Matching compares Kind only.
var (
	ErrMalformedEnvelope     = &Error{Kind: KindMalformedEnvelope}
	ErrMissingSectionID      = &Error{Kind: KindMissingSectionID}
	ErrDuplicateConfigurator = &Error{Kind: KindDuplicateConfigurator}
	ErrMissingConfigurator   = &Error{Kind: KindMissingConfigurator}
	ErrMissingSectionData    = &Error{Kind: KindMissingSectionData}
	ErrTypeMismatch          = &Error{Kind: KindTypeMismatch}
	ErrDecodingFailed        = &Error{Kind: KindDecodingFailed}
	ErrFetchFailed           = &Error{Kind: KindFetchFailed}
)

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	switch e.Kind {
	case KindMissingSectionID:
		fmt.Fprintf(&b, ": section at index %d", e.Index)
	case KindDuplicateConfigurator, KindMissingConfigurator, KindMissingSectionData, KindDecodingFailed:
		fmt.Fprintf(&b, ": section %d", e.SectionID)
	case KindTypeMismatch:
		fmt.Fprintf(&b, ": section %d: expected %s, got %s", e.SectionID, e.Expected, e.Actual)
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// MalformedEnvelope reports a payload whose top-level shape is wrong.
func MalformedEnvelope(detail string, cause error) *Error {
	return &Error{Kind: KindMalformedEnvelope, Index: -1, Detail: detail, Err: cause}
}

// MissingSectionID reports a section without a well-typed integer id.
func MissingSectionID(index int, detail string) *Error {
	return &Error{Kind: KindMissingSectionID, Index: index, Detail: detail}
}

// DuplicateConfigurator reports a second registration for the same id.
func DuplicateConfigurator(id int) *Error {
	return &Error{Kind: KindDuplicateConfigurator, SectionID: id, Index: -1}
}

// MissingConfigurator reports a fetched section nobody registered for.
func MissingConfigurator(id int) *Error {
	return &Error{Kind: KindMissingConfigurator, SectionID: id, Index: -1}
}

// MissingSectionData reports a registered configurator whose section was
// not part of the fetched payload.
func MissingSectionData(id int) *Error {
	return &Error{Kind: KindMissingSectionData, SectionID: id, Index: -1}
}

// TypeMismatch reports a value whose shape differs from what the
// configurator for id expects.
func TypeMismatch(id int, expected, actual string) *Error {
	return &Error{Kind: KindTypeMismatch, SectionID: id, Index: -1, Expected: expected, Actual: actual}
}

// DecodingFailed reports items that failed the provider's item schema.
func DecodingFailed(id int, cause error) *Error {
	return &Error{Kind: KindDecodingFailed, SectionID: id, Index: -1, Err: cause}
}

// FetchFailed wraps a transport failure of the fetch collaborator.
func FetchFailed(cause error) *Error {
	return &Error{Kind: KindFetchFailed, Index: -1, Err: cause}
}

// KindOf returns the Kind of err, or KindUnknown when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
