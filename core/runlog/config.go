package runlog

import "fmt"

// Backends accepted by Open.
const (
	BackendNone   = "none"
	BackendJSONL  = "jsonl"
	BackendSQLite = "sqlite"
)

// Config selects and configures the run log backend. The JSONL backend
// rotates its file when MaxSizeMB is positive.
type Config struct {
	Backend    string `json:"backend"`
	Path       string `json:"path"`
	MaxSizeMB  int    `json:"max_size_mb"`
	MaxBackups int    `json:"max_backups"`
	MaxAgeDays int    `json:"max_age_days"`
}

// SetDefaults fills empty fields.
func (c *Config) SetDefaults() {
	if c.Backend == "" {
		c.Backend = BackendJSONL
	}
	if c.Path == "" {
		switch c.Backend {
		case BackendSQLite:
			c.Path = "runs.db"
		case BackendJSONL:
			c.Path = "runs.jsonl"
		}
	}
}

// Validate checks the backend name.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendNone, BackendJSONL, BackendSQLite:
		return nil
	default:
		return fmt.Errorf("runlog: unknown backend %q", c.Backend)
	}
}

// Open creates the store described by cfg.
func Open(cfg Config) (LogStore, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var (
		store LogStore
		err   error
	)
	switch cfg.Backend {
	case BackendSQLite:
		store, err = NewSQLiteStore(cfg.Path)
	case BackendJSONL:
		if cfg.MaxSizeMB > 0 {
			store, err = NewRotatingJSONLStore(cfg.Path, cfg.MaxSizeMB, cfg.MaxBackups, cfg.MaxAgeDays)
		} else {
			store, err = NewJSONLStore(cfg.Path)
		}
	default:
		return NopStore{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open %s run log: %w", cfg.Backend, err)
	}
	return store, nil
}
