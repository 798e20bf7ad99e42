package mqtt

import (
	"sync"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

// mockClient implements pahoClient for tests. Subscribing to a topic with a
// retained payload delivers it immediately, like a broker would.
type mockClient struct {
	mu          sync.Mutex
	opts        *paho.ClientOptions
	retained    map[string][]byte
	subscribed  []string
	unsubbed    []string
	published   []published
	publishErrs []error
	subErr      error
	connected   bool
}

type published struct {
	topic   string
	qos     byte
	retain  bool
	payload []byte
}

func (m *mockClient) IsConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connected
}

func (m *mockClient) Connect() paho.Token {
	m.mu.Lock()
	m.connected = true
	m.mu.Unlock()
	if m.opts != nil && m.opts.OnConnect != nil {
		m.opts.OnConnect(nil)
	}
	return &dummyToken{}
}

func (m *mockClient) Disconnect(uint) {
	m.mu.Lock()
	m.connected = false
	m.mu.Unlock()
}

func (m *mockClient) Publish(topic string, qos byte, retain bool, payload interface{}) paho.Token {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published = append(m.published, published{topic, qos, retain, payload.([]byte)})
	if len(m.publishErrs) > 0 {
		err := m.publishErrs[0]
		m.publishErrs = m.publishErrs[1:]
		return &dummyToken{err: err}
	}
	return &dummyToken{}
}

func (m *mockClient) Subscribe(topic string, _ byte, cb paho.MessageHandler) paho.Token {
	m.mu.Lock()
	m.subscribed = append(m.subscribed, topic)
	payload, ok := m.retained[topic]
	err := m.subErr
	m.mu.Unlock()
	if err != nil {
		return &dummyToken{err: err}
	}
	if ok {
		cb(nil, mockMessage{topic: topic, p: payload})
	}
	return &dummyToken{}
}

func (m *mockClient) Unsubscribe(topics ...string) paho.Token {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unsubbed = append(m.unsubbed, topics...)
	return &dummyToken{}
}

type dummyToken struct{ err error }

func (d dummyToken) Wait() bool                     { return true }
func (d dummyToken) WaitTimeout(time.Duration) bool { return true }
func (d dummyToken) Done() <-chan struct{}          { ch := make(chan struct{}); close(ch); return ch }
func (d dummyToken) Error() error                   { return d.err }

type mockMessage struct {
	topic string
	p     []byte
}

func (m mockMessage) Duplicate() bool   { return false }
func (m mockMessage) Qos() byte         { return 0 }
func (m mockMessage) Retained() bool    { return true }
func (m mockMessage) Topic() string     { return m.topic }
func (m mockMessage) MessageID() uint16 { return 0 }
func (m mockMessage) Payload() []byte   { return m.p }
func (m mockMessage) Ack()              {}

// useMock swaps the client constructor for the duration of the test.
func useMock(t *testing.T, mc *mockClient) {
	t.Helper()
	prev := newMQTTClient
	newMQTTClient = func(o *paho.ClientOptions) pahoClient { mc.opts = o; return mc }
	t.Cleanup(func() { newMQTTClient = prev })
}
