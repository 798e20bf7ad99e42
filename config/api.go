package config

import (
	"fmt"
	"net"
)

// APIConfig enables the HTTP API when Addr is set. A non-empty Token is
// required as a bearer token on the run endpoints.
type APIConfig struct {
	Addr  string `json:"addr"`
	Token string `json:"token"`
}

func (c APIConfig) Validate() error {
	if c.Addr == "" {
		return nil
	}
	if _, _, err := net.SplitHostPort(c.Addr); err != nil {
		return fmt.Errorf("api.addr: %w", err)
	}
	return nil
}
