// Package pipeline runs the fetch, parse, decode and project cycle over the
// configurators held in a registry.
//
// A run moves through Idle, Fetching, Parsing, Decoding, Projecting and Done.
// The first error moves it to Failed and aborts the run: no display sections
// are returned for a failed run, even for sections that decoded fine.
//
// Runs on one Pipeline are serialized. Each run decodes into its own model
// store and works from a snapshot of the registry taken when decoding
// starts, so a Register call made during a run takes effect on the next one.
package pipeline
