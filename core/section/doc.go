// Package section defines the wire and display types shared by every
// provider, the envelope parser that splits a combined payload into raw
// sections, and the generic decoder that turns one raw section into a
// provider's typed model.
//
// A payload looks like:
//
//	{"sections": [{"id": 123, "name": "Clubs", "items": [{"id": 1, "name": "Lions"}]}]}
//
// Every error returned by this package (and by the configurator, store and
// pipeline packages) is a *Error whose Kind can be matched with errors.Is
// against the Err* sentinels.
package section
