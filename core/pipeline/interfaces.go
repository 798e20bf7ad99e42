package pipeline

import (
	"context"

	"github.com/kilianp07/sectionfeed/core/section"
)

// Fetcher retrieves the combined payload. Any error is fatal for the run.
type Fetcher interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context) ([]byte, error)

func (f FetcherFunc) Fetch(ctx context.Context) ([]byte, error) { return f(ctx) }

// Consumer receives the display sections of a successful run in one call.
type Consumer interface {
	Consume(ctx context.Context, sections []section.DisplaySection) error
}

// ConsumerFunc adapts a function to Consumer.
type ConsumerFunc func(ctx context.Context, sections []section.DisplaySection) error

func (f ConsumerFunc) Consume(ctx context.Context, sections []section.DisplaySection) error {
	return f(ctx, sections)
}
