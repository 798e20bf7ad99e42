// Package fetch provides the payload sources of the pipeline that are not
// message-broker based: an HTTP endpoint and a local file.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2/clientcredentials"

	"github.com/kilianp07/sectionfeed/infra/logger"
)

// ErrStatus is returned when the endpoint answers with a non-2xx status.
var ErrStatus = errors.New("unexpected status code")

// DefaultMaxBytes bounds the size of a fetched payload.
const DefaultMaxBytes = 8 << 20

// OAuthConfig enables the OAuth2 client credentials flow for HTTP fetches.
type OAuthConfig struct {
	ClientID     string   `json:"client_id"`
	ClientSecret string   `json:"client_secret"`
	TokenURL     string   `json:"token_url"`
	Scopes       []string `json:"scopes"`
}

// HTTPConfig configures an HTTPFetcher.
type HTTPConfig struct {
	URL      string            `json:"url"`
	Timeout  time.Duration     `json:"timeout"`
	Headers  map[string]string `json:"headers"`
	MaxBytes int64             `json:"max_bytes"`
	OAuth    *OAuthConfig      `json:"oauth"`
}

// HTTPFetcher retrieves the envelope with a GET request.
type HTTPFetcher struct {
	url      string
	headers  map[string]string
	maxBytes int64
	client   *http.Client
	log      logger.Logger
}

// NewHTTPFetcher validates cfg and builds the fetcher. When cfg.OAuth is set
// requests carry a bearer token obtained with client credentials.
func NewHTTPFetcher(cfg HTTPConfig) (*HTTPFetcher, error) {
	if cfg.URL == "" {
		return nil, errors.New("http fetcher: url is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = DefaultMaxBytes
	}
	client := &http.Client{Timeout: cfg.Timeout}
	if cfg.OAuth != nil {
		cc := clientcredentials.Config{
			ClientID:     cfg.OAuth.ClientID,
			ClientSecret: cfg.OAuth.ClientSecret,
			TokenURL:     cfg.OAuth.TokenURL,
			Scopes:       cfg.OAuth.Scopes,
		}
		client = cc.Client(context.Background())
		client.Timeout = cfg.Timeout
	}
	return &HTTPFetcher{
		url:      cfg.URL,
		headers:  cfg.Headers,
		maxBytes: cfg.MaxBytes,
		client:   client,
		log:      logger.New("http-fetcher"),
	}, nil
}

// Fetch implements pipeline.Fetcher.
func (f *HTTPFetcher) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range f.headers {
		req.Header.Set(k, v)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: %d, body: %s", ErrStatus, resp.StatusCode, body)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if int64(len(body)) > f.maxBytes {
		return nil, fmt.Errorf("response exceeds %d bytes", f.maxBytes)
	}
	f.log.Debugf("fetched %d bytes from %s", len(body), f.url)
	return body, nil
}
