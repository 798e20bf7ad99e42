package output

import (
	"context"
	"errors"
	"io"

	"github.com/kilianp07/sectionfeed/core/pipeline"
	"github.com/kilianp07/sectionfeed/core/section"
)

// MultiOutput forwards every hand-off to all outputs. Each output receives
// the sections even when an earlier one fails; the errors are joined.
type MultiOutput struct {
	Outputs []pipeline.Consumer
}

// NewMultiOutput creates a MultiOutput with the provided outputs.
func NewMultiOutput(outs ...pipeline.Consumer) *MultiOutput {
	return &MultiOutput{Outputs: outs}
}

// Consume implements pipeline.Consumer.
func (m *MultiOutput) Consume(ctx context.Context, sections []section.DisplaySection) error {
	var errs []error
	for _, o := range m.Outputs {
		if err := o.Consume(ctx, sections); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes the outputs implementing io.Closer.
func (m *MultiOutput) Close() error {
	var errs []error
	for _, o := range m.Outputs {
		if c, ok := o.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
