package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

var ErrDisabled = errors.New("kafka disabled")

// writerBatchTimeout bounds how long a status event waits for a batch to fill.
const writerBatchTimeout = 10 * time.Millisecond

type Client struct {
	Brokers []string
}

func NewClient(brokers []string) *Client {
	clean := []string{}
	for _, b := range brokers {
		b = strings.TrimSpace(b)
		if b != "" {
			clean = append(clean, b)
		}
	}
	return &Client{Brokers: clean}
}

func (c *Client) Enabled() bool {
	return c != nil && len(c.Brokers) > 0
}

func (c *Client) NewWriter(topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(c.Brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: writerBatchTimeout,
	}
}

// MessageWriter is the subset of *kafka.Writer used for publishing.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher writes JSON events keyed by aggregate id so all events of one
// order land on the same partition.
type Publisher struct {
	writer MessageWriter
}

func NewPublisher(w MessageWriter) *Publisher {
	return &Publisher{writer: w}
}

func (p *Publisher) PublishJSON(ctx context.Context, key string, payload any) error {
	if p == nil || p.writer == nil {
		return ErrDisabled
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{Key: []byte(key), Value: data, Time: time.Now().UTC()})
}

func (p *Publisher) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
