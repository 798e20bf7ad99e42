package plugins

import (
	"os"

	"github.com/kilianp07/sectionfeed/core/configurator"
	"github.com/kilianp07/sectionfeed/core/factory"
	"github.com/kilianp07/sectionfeed/core/pipeline"
	"github.com/kilianp07/sectionfeed/infra/fetch"
	"github.com/kilianp07/sectionfeed/infra/mqtt"
	"github.com/kilianp07/sectionfeed/infra/output"
	"github.com/kilianp07/sectionfeed/providers/clubs"
	"github.com/kilianp07/sectionfeed/providers/standings"
)

func init() {
	_ = RegisterFetcher("http", func(conf map[string]any) (pipeline.Fetcher, error) {
		var c fetch.HTTPConfig
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return fetch.NewHTTPFetcher(c)
	})
	_ = RegisterFetcher("file", func(conf map[string]any) (pipeline.Fetcher, error) {
		var c fetch.FileConfig
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return fetch.NewFileFetcher(c)
	})
	_ = RegisterFetcher("mqtt", func(conf map[string]any) (pipeline.Fetcher, error) {
		var c mqtt.FetcherConfig
		if err := decodeMQTT(conf, &c, &c.Config); err != nil {
			return nil, err
		}
		return mqtt.NewFetcher(c)
	})

	_ = RegisterOutput("stdout", func(conf map[string]any) (pipeline.Consumer, error) {
		var c output.WriterConfig
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return output.NewWriterOutput(os.Stdout, c.Format, c.Indent)
	})
	_ = RegisterOutput("file", func(conf map[string]any) (pipeline.Consumer, error) {
		var c output.WriterConfig
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return output.OpenWriterOutput(c)
	})
	_ = RegisterOutput("mqtt", func(conf map[string]any) (pipeline.Consumer, error) {
		var c mqtt.PublisherConfig
		if err := decodeMQTT(conf, &c, &c.Config); err != nil {
			return nil, err
		}
		return mqtt.NewPublisher(c)
	})

	_ = RegisterProvider("clubs", func() configurator.Configurator { return clubs.New() })
	_ = RegisterProvider("standings", func() configurator.Configurator { return standings.New() })
}

// decodeMQTT fills both the component settings and the embedded connection
// settings from the same flat map.
func decodeMQTT(conf map[string]any, component any, conn *mqtt.Config) error {
	if err := factory.Decode(conf, component); err != nil {
		return err
	}
	return factory.Decode(conf, conn)
}
