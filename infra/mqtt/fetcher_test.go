package mqtt

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetcher_RetainedEnvelope(t *testing.T) {
	env := []byte(`{"sections":[{"id":123,"name":"Clubs","items":[]}]}`)
	mc := &mockClient{retained: map[string][]byte{"feed/envelope": env}}
	useMock(t, mc)

	f, err := NewFetcher(FetcherConfig{Config: Config{Broker: "tcp://localhost:1883"}, Topic: "feed/envelope", QoS: 1})
	require.NoError(t, err)
	defer f.Close()

	got, err := f.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, env, got)
	assert.Equal(t, []string{"feed/envelope"}, mc.subscribed)
	assert.Equal(t, []string{"feed/envelope"}, mc.unsubbed)

	_, err = f.Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, mc.subscribed, 2)
}

func TestFetcher_NoMessage(t *testing.T) {
	mc := &mockClient{}
	useMock(t, mc)
	f, err := NewFetcher(FetcherConfig{Config: Config{Broker: "tcp://localhost:1883"}, Topic: "feed/envelope", WaitMS: 10})
	require.NoError(t, err)

	_, err = f.Fetch(context.Background())
	assert.ErrorIs(t, err, ErrNoMessage)
	assert.Equal(t, []string{"feed/envelope"}, mc.unsubbed)
}

func TestFetcher_ContextCanceled(t *testing.T) {
	mc := &mockClient{}
	useMock(t, mc)
	f, err := NewFetcher(FetcherConfig{Config: Config{Broker: "tcp://localhost:1883"}, Topic: "feed/envelope", WaitMS: 60000})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = f.Fetch(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFetcher_SubscribeError(t *testing.T) {
	mc := &mockClient{subErr: errors.New("not authorized")}
	useMock(t, mc)
	f, err := NewFetcher(FetcherConfig{Config: Config{Broker: "tcp://localhost:1883"}, Topic: "feed/envelope"})
	require.NoError(t, err)

	_, err = f.Fetch(context.Background())
	assert.ErrorContains(t, err, "not authorized")
	assert.Empty(t, mc.unsubbed)
}

func TestNewFetcher_RequiresTopic(t *testing.T) {
	_, err := NewFetcher(FetcherConfig{Config: Config{Broker: "tcp://localhost:1883"}})
	assert.Error(t, err)
}
