// Package factory provides a small generic registry used to instantiate
// pluggable modules (fetchers, outputs, metrics sinks) from configuration.
// A module is described by a type string and a map of raw settings;
// factories decode the settings into typed structs and return the concrete
// implementation.
//
// Example usage:
//
//	reg := factory.NewRegistry[pipeline.Fetcher]()
//	reg.Register("file", func(conf map[string]any) (pipeline.Fetcher, error) {
//	    var c struct{ Path string `json:"path"` }
//	    if err := factory.Decode(conf, &c); err != nil {
//	        return nil, err
//	    }
//	    return fetch.NewFileFetcher(c.Path), nil
//	})
//	f, err := reg.Create(factory.ModuleConfig{Type: "file", Conf: map[string]any{"path": "feed.json"}})
package factory
