package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kilianp07/sectionfeed/core/section"
)

// PublisherConfig configures a Publisher.
type PublisherConfig struct {
	Config
	Topic      string `json:"topic"`
	QoS        byte   `json:"qos"`
	Retain     bool   `json:"retain"`
	MaxRetries int    `json:"max_retries"`
	BackoffMS  int    `json:"backoff_ms"`
}

// Publisher hands the display sections of a run off to an MQTT topic as one
// JSON document.
type Publisher struct {
	conn       *conn
	topic      string
	qos        byte
	retain     bool
	maxRetries int
	backoff    time.Duration
}

// NewPublisher connects to the broker.
func NewPublisher(cfg PublisherConfig) (*Publisher, error) {
	if cfg.Topic == "" {
		return nil, errors.New("mqtt publisher: topic is required")
	}
	c, err := dial(cfg.Config, "mqtt-publisher")
	if err != nil {
		return nil, err
	}
	return newPublisher(c, cfg), nil
}

func newPublisher(c *conn, cfg PublisherConfig) *Publisher {
	p := &Publisher{
		conn:       c,
		topic:      cfg.Topic,
		qos:        cfg.QoS,
		retain:     cfg.Retain,
		maxRetries: cfg.MaxRetries,
		backoff:    time.Duration(cfg.BackoffMS) * time.Millisecond,
	}
	if p.maxRetries <= 0 {
		p.maxRetries = 3
	}
	if p.backoff <= 0 {
		p.backoff = 100 * time.Millisecond
	}
	return p
}

type displayDocument struct {
	Sections []section.DisplaySection `json:"sections"`
}

// Consume implements pipeline.Consumer. Failed publishes are retried with
// exponential backoff.
func (p *Publisher) Consume(ctx context.Context, sections []section.DisplaySection) error {
	payload, err := json.Marshal(displayDocument{Sections: sections})
	if err != nil {
		return fmt.Errorf("encode sections: %w", err)
	}
	var publishErr error
	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		token := p.conn.cli.Publish(p.topic, p.qos, p.retain, payload)
		token.Wait()
		publishErr = token.Error()
		if publishErr == nil {
			p.conn.log.Infof("published %d sections to %s", len(sections), p.topic)
			return nil
		}
		p.conn.log.Errorf("publish attempt %d failed: %v", attempt+1, publishErr)
		if attempt == p.maxRetries {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.backoff * time.Duration(1<<attempt)):
		}
	}
	return fmt.Errorf("publish %s: %w", p.topic, publishErr)
}

// Close disconnects from the broker.
func (p *Publisher) Close() error {
	p.conn.close()
	return nil
}
