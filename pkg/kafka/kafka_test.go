package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	msgs   []kafka.Message
	closed bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func TestNewClientTrimsBrokers(t *testing.T) {
	c := NewClient([]string{" a:9092 ", "", "b:9092"})
	assert.Equal(t, []string{"a:9092", "b:9092"}, c.Brokers)
	assert.True(t, c.Enabled())
	assert.False(t, NewClient(nil).Enabled())
}

func TestPublishJSON(t *testing.T) {
	w := &recordingWriter{}
	p := NewPublisher(w)

	err := p.PublishJSON(context.Background(), "42", map[string]string{"status": "ready"})
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "42", string(w.msgs[0].Key))

	var payload map[string]string
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &payload))
	assert.Equal(t, "ready", payload["status"])

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestNilPublisherIsDisabled(t *testing.T) {
	var p *Publisher
	err := p.PublishJSON(context.Background(), "1", struct{}{})
	assert.True(t, errors.Is(err, ErrDisabled))
	assert.NoError(t, p.Close())
}

func TestNewWriterFlushesPromptly(t *testing.T) {
	w := NewClient([]string{"localhost:9092"}).NewWriter("order-status-changed")
	assert.Equal(t, "order-status-changed", w.Topic)
	assert.LessOrEqual(t, w.BatchTimeout, 50*time.Millisecond)
	assert.Greater(t, w.BatchTimeout, time.Duration(0))
}
