// Package plugins holds the factories that turn configuration into fetchers,
// outputs and section providers.
package plugins

import (
	"fmt"

	"github.com/kilianp07/sectionfeed/core/configurator"
	"github.com/kilianp07/sectionfeed/core/factory"
	"github.com/kilianp07/sectionfeed/core/pipeline"
)

var (
	Fetchers  = factory.NewRegistry[pipeline.Fetcher]()
	Outputs   = factory.NewRegistry[pipeline.Consumer]()
	providers = map[string]func() configurator.Configurator{}
	// providerOrder keeps the registration order used when no explicit
	// provider list is configured.
	providerOrder []string
)

func RegisterFetcher(name string, f factory.Factory[pipeline.Fetcher]) error {
	return Fetchers.Register(name, f)
}

func RegisterOutput(name string, f factory.Factory[pipeline.Consumer]) error {
	return Outputs.Register(name, f)
}

// RegisterProvider adds a named built-in configurator constructor.
func RegisterProvider(name string, newFn func() configurator.Configurator) error {
	if newFn == nil {
		return fmt.Errorf("provider constructor nil for %s", name)
	}
	if _, ok := providers[name]; ok {
		return fmt.Errorf("%w: %s", factory.ErrDuplicateModule, name)
	}
	providers[name] = newFn
	providerOrder = append(providerOrder, name)
	return nil
}

// ProviderNames lists the built-in providers in registration order.
func ProviderNames() []string {
	return append([]string(nil), providerOrder...)
}

// Providers builds the configurators named in names, in that order. An empty
// list builds every registered provider.
func Providers(names []string) ([]configurator.Configurator, error) {
	if len(names) == 0 {
		names = providerOrder
	}
	out := make([]configurator.Configurator, 0, len(names))
	for _, n := range names {
		newFn, ok := providers[n]
		if !ok {
			return nil, fmt.Errorf("%w: provider %q", factory.ErrUnknownModule, n)
		}
		out = append(out, newFn())
	}
	return out, nil
}
