// Package scenarios runs end-to-end pipeline cases described in YAML files:
// the providers to register, the payload the fetcher returns and what the
// run must produce.
package scenarios

import (
	"os"

	"gopkg.in/yaml.v3"
)

type ExpectedSection struct {
	Description string   `yaml:"description"`
	Contents    []string `yaml:"contents"`
}

// Expected is either a list of sections or a failure. ErrorKind uses the
// names reported in run records, e.g. missing_configurator.
type Expected struct {
	Sections  []ExpectedSection `yaml:"sections,omitempty"`
	ErrorKind string            `yaml:"error_kind,omitempty"`
	SectionID int               `yaml:"section_id,omitempty"`
}

type Scenario struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description,omitempty"`
	Providers   []string `yaml:"providers,omitempty"`
	Payload     string   `yaml:"payload"`
	Expected    Expected `yaml:"expected"`
}

// Failure reports whether the scenario expects the run to fail.
func (s Scenario) Failure() bool { return s.Expected.ErrorKind != "" }

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}
