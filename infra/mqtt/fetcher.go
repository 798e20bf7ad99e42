package mqtt

import (
	"context"
	"errors"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

// ErrNoMessage is returned when no envelope arrives before the wait timeout.
var ErrNoMessage = errors.New("no message received")

// FetcherConfig configures a Fetcher.
type FetcherConfig struct {
	Config
	Topic  string `json:"topic"`
	QoS    byte   `json:"qos"`
	WaitMS int    `json:"wait_ms"`
}

// Fetcher reads the envelope published on a topic. The producer is expected
// to publish it retained so every run sees the latest payload on subscribe.
type Fetcher struct {
	conn  *conn
	topic string
	qos   byte
	wait  time.Duration
}

// NewFetcher connects to the broker.
func NewFetcher(cfg FetcherConfig) (*Fetcher, error) {
	if cfg.Topic == "" {
		return nil, errors.New("mqtt fetcher: topic is required")
	}
	c, err := dial(cfg.Config, "mqtt-fetcher")
	if err != nil {
		return nil, err
	}
	return newFetcher(c, cfg), nil
}

func newFetcher(c *conn, cfg FetcherConfig) *Fetcher {
	wait := 5 * time.Second
	if cfg.WaitMS > 0 {
		wait = time.Duration(cfg.WaitMS) * time.Millisecond
	}
	return &Fetcher{conn: c, topic: cfg.Topic, qos: cfg.QoS, wait: wait}
}

// Fetch subscribes to the topic and returns the first payload received. The
// subscription is dropped before returning.
func (f *Fetcher) Fetch(ctx context.Context) ([]byte, error) {
	msgs := make(chan []byte, 1)
	handler := func(_ paho.Client, m paho.Message) {
		payload := append([]byte(nil), m.Payload()...)
		select {
		case msgs <- payload:
		default:
		}
	}
	token := f.conn.cli.Subscribe(f.topic, f.qos, handler)
	token.Wait()
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", f.topic, err)
	}
	defer func() {
		if t := f.conn.cli.Unsubscribe(f.topic); t.Wait() && t.Error() != nil {
			f.conn.log.Warnf("unsubscribe %s: %v", f.topic, t.Error())
		}
	}()

	timer := time.NewTimer(f.wait)
	defer timer.Stop()
	select {
	case payload := <-msgs:
		f.conn.log.Debugf("received %d bytes on %s", len(payload), f.topic)
		return payload, nil
	case <-timer.C:
		return nil, fmt.Errorf("%w on %s after %s", ErrNoMessage, f.topic, f.wait)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close disconnects from the broker.
func (f *Fetcher) Close() error {
	f.conn.close()
	return nil
}
