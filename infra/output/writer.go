// Package output holds the consumers that receive the display sections of a
// successful run.
package output

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/sectionfeed/core/section"
)

// Formats supported by WriterOutput.
const (
	FormatJSON = "json"
	FormatText = "text"
	FormatYAML = "yaml"
)

// WriterConfig configures a WriterOutput. An empty Path writes to stdout.
type WriterConfig struct {
	Format string `json:"format"`
	Path   string `json:"path"`
	Indent bool   `json:"indent"`
}

// WriterOutput renders display sections to an io.Writer.
type WriterOutput struct {
	mu     sync.Mutex
	w      io.Writer
	closer io.Closer
	format string
	indent bool
}

// NewWriterOutput returns an output writing in format to w.
func NewWriterOutput(w io.Writer, format string, indent bool) (*WriterOutput, error) {
	if format == "" {
		format = FormatJSON
	}
	switch format {
	case FormatJSON, FormatText, FormatYAML:
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
	return &WriterOutput{w: w, format: format, indent: indent}, nil
}

// OpenWriterOutput opens cfg.Path for appending, or uses stdout.
func OpenWriterOutput(cfg WriterConfig) (*WriterOutput, error) {
	if cfg.Path == "" {
		return NewWriterOutput(os.Stdout, cfg.Format, cfg.Indent)
	}
	f, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open output: %w", err)
	}
	out, err := NewWriterOutput(f, cfg.Format, cfg.Indent)
	if err != nil {
		f.Close()
		return nil, err
	}
	out.closer = f
	return out, nil
}

// Consume implements pipeline.Consumer.
func (o *WriterOutput) Consume(ctx context.Context, sections []section.DisplaySection) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	switch o.format {
	case FormatText:
		return writeText(o.w, sections)
	case FormatYAML:
		return writeYAML(o.w, sections)
	}
	enc := json.NewEncoder(o.w)
	if o.indent {
		enc.SetIndent("", "  ")
	}
	if sections == nil {
		sections = []section.DisplaySection{}
	}
	return enc.Encode(sections)
}

func writeText(w io.Writer, sections []section.DisplaySection) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for i, s := range sections {
		if i > 0 {
			fmt.Fprintln(tw)
		}
		fmt.Fprintf(tw, "%s\t(%d)\n", s.Description, len(s.Contents))
		for n, c := range s.Contents {
			fmt.Fprintf(tw, "  %d.\t%s\n", n+1, c.Content)
		}
	}
	return tw.Flush()
}

// writeYAML emits one YAML document per hand-off.
func writeYAML(w io.Writer, sections []section.DisplaySection) error {
	if _, err := io.WriteString(w, "---\n"); err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if sections == nil {
		sections = []section.DisplaySection{}
	}
	if err := enc.Encode(sections); err != nil {
		return err
	}
	return enc.Close()
}

// Close closes the underlying file when the output owns one.
func (o *WriterOutput) Close() error {
	if o.closer == nil {
		return nil
	}
	return o.closer.Close()
}
