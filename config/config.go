package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/sectionfeed/core/factory"
	"github.com/kilianp07/sectionfeed/core/metrics"
	"github.com/kilianp07/sectionfeed/core/runlog"
)

// EnvPrefix marks environment variables overriding file settings. Nested
// keys are separated by a double underscore: K_PIPELINE__INTERVAL_SECONDS.
const EnvPrefix = "K_"

type Config struct {
	Fetch    factory.ModuleConfig   `json:"fetch"`
	Outputs  []factory.ModuleConfig `json:"outputs"`
	Metrics  metrics.Config         `json:"metrics"`
	RunLog   runlog.Config          `json:"runlog"`
	Logging  LoggingConfig          `json:"logging"`
	Pipeline PipelineConfig         `json:"pipeline"`
	Sentry   SentryConfig           `json:"sentry"`
	API      APIConfig              `json:"api"`
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults applies the defaults of every section.
func (c *Config) SetDefaults() {
	c.Logging.SetDefaults()
	c.Pipeline.SetDefaults()
	c.RunLog.SetDefaults()
	if len(c.Outputs) == 0 {
		c.Outputs = []factory.ModuleConfig{{Type: "stdout"}}
	}
}

// Validate checks every section.
func (c Config) Validate() error {
	if c.Fetch.Type == "" {
		return errors.New("fetch.type is required")
	}
	for i, o := range c.Outputs {
		if o.Type == "" {
			return fmt.Errorf("outputs[%d].type is required", i)
		}
	}
	for i, s := range c.Metrics.Sinks {
		if s.Type == "" {
			return fmt.Errorf("metrics.sinks[%d].type is required", i)
		}
	}
	if err := c.RunLog.Validate(); err != nil {
		return err
	}
	if err := c.Logging.Validate(); err != nil {
		return err
	}
	if err := c.Pipeline.Validate(); err != nil {
		return err
	}
	if err := c.Sentry.Validate(); err != nil {
		return err
	}
	return c.API.Validate()
}
