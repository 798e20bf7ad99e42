package fetch

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// FileConfig configures a FileFetcher.
type FileConfig struct {
	Path string `json:"path"`
}

// FileFetcher reads the envelope from a local file on every run.
type FileFetcher struct {
	path string
}

// NewFileFetcher returns a fetcher for cfg.Path. The file is not opened
// until Fetch.
func NewFileFetcher(cfg FileConfig) (*FileFetcher, error) {
	if cfg.Path == "" {
		return nil, errors.New("file fetcher: path is required")
	}
	return &FileFetcher{path: cfg.Path}, nil
}

// Fetch implements pipeline.Fetcher.
func (f *FileFetcher) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.path, err)
	}
	return data, nil
}
