package poller

import (
	"context"
	"encoding/json"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// decode mirrors how practicumhttp decodes bodies.
func decode(t *testing.T, body string) any {
	t.Helper()
	dec := json.NewDecoder(strings.NewReader(body))
	dec.UseNumber()
	var v any
	require.NoError(t, dec.Decode(&v))
	return v
}

type clientResp struct {
	payload any
	err     error
}

type scriptedClient struct {
	responses []clientResp
	calls     int
	froms     []time.Time
}

func (c *scriptedClient) GetStatuses(ctx context.Context, from time.Time) (any, error) {
	c.froms = append(c.froms, from)
	i := c.calls
	c.calls++
	if i >= len(c.responses) {
		i = len(c.responses) - 1
	}
	return c.responses[i].payload, c.responses[i].err
}

type countingClient struct {
	calls   atomic.Int64
	payload any
	err     error
}

func (c *countingClient) GetStatuses(ctx context.Context, from time.Time) (any, error) {
	c.calls.Add(1)
	return c.payload, c.err
}

type panicClient struct{}

func (panicClient) GetStatuses(ctx context.Context, from time.Time) (any, error) {
	panic("nil map somewhere")
}

type notifierMock struct {
	mock.Mock
}

func (m *notifierMock) Send(ctx context.Context, text string) error {
	return m.Called(ctx, text).Error(0)
}

func textContaining(sub string) any {
	return mock.MatchedBy(func(text string) bool { return strings.Contains(text, sub) })
}

type noopNotifier struct{}

func (noopNotifier) Send(ctx context.Context, text string) error { return nil }

type fakeProducer struct {
	topic string
	key   []byte
	value []byte
	calls int
	err   error
}

func (p *fakeProducer) Publish(ctx context.Context, topic string, key, value []byte) error {
	p.calls++
	p.topic, p.key, p.value = topic, key, value
	return p.err
}
