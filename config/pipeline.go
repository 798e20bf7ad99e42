package config

import (
	"fmt"
	"time"
)

// PipelineConfig controls which providers are registered and how often watch
// mode runs the pipeline.
type PipelineConfig struct {
	IntervalSeconds int `json:"interval_seconds"`
	// Providers lists the built-in providers to register, in order. Empty
	// registers all of them.
	Providers []string `json:"providers"`
}

// SetDefaults applies sane defaults.
func (c *PipelineConfig) SetDefaults() {
	if c.IntervalSeconds == 0 {
		c.IntervalSeconds = 60
	}
}

// Validate checks the interval.
func (c PipelineConfig) Validate() error {
	if c.IntervalSeconds < 0 {
		return fmt.Errorf("pipeline.interval_seconds must be positive, got %d", c.IntervalSeconds)
	}
	return nil
}

// Interval returns the watch period.
func (c PipelineConfig) Interval() time.Duration {
	return time.Duration(c.IntervalSeconds) * time.Second
}
