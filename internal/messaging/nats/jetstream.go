// Package nats provides JetStream support for durable, persistent messaging.
package nats

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/dropgate-systems/dropgate/internal/messaging"
)

// JetStreamClient extends Client with JetStream persistence capabilities.
type JetStreamClient struct {
	*Client
	js jetstream.JetStream
}

// StreamConfig defines a JetStream stream configuration.
type StreamConfig struct {
	// Name is the stream name.
	Name string

	// Subjects are the subjects this stream captures.
	Subjects []string

	// MaxAge is the maximum age of messages in the stream.
	MaxAge time.Duration

	// MaxBytes is the maximum total size of the stream.
	MaxBytes int64

	// MaxMsgs is the maximum number of messages in the stream.
	MaxMsgs int64

	// Retention policy (LimitsPolicy, InterestPolicy, WorkQueuePolicy).
	Retention jetstream.RetentionPolicy

	// Storage type (FileStorage, MemoryStorage).
	Storage jetstream.StorageType
}

// RelayStream is the durable work-queue stream for relay messages.
// Each message is delivered to exactly one downstream consumer. The
// wildcard filter keeps configured queue subjects publishable without
// re-provisioning.
var RelayStream = StreamConfig{
	Name:      "DROPGATE_RELAY",
	Subjects:  []string{messaging.SubjectFilesWildcard},
	MaxAge:    24 * time.Hour,
	MaxBytes:  1024 * 1024 * 1024, // 1GB
	MaxMsgs:   1000000,
	Retention: jetstream.WorkQueuePolicy,
	Storage:   jetstream.FileStorage,
}

// RelayDLQStream retains dead-lettered notifications for operator review.
var RelayDLQStream = StreamConfig{
	Name:      "DROPGATE_DLQ",
	Subjects:  []string{messaging.SubjectDLQPrefix + ".>"},
	MaxAge:    7 * 24 * time.Hour,
	MaxBytes:  256 * 1024 * 1024,
	MaxMsgs:   100000,
	Retention: jetstream.LimitsPolicy,
	Storage:   jetstream.FileStorage,
}

// RelayStreamFor returns the relay stream configuration, extended to also
// capture subject when it falls outside the default wildcard filter. The
// queue subject is environment-configurable; the stream must capture
// whatever subject publishes go to, or every publish fails.
func RelayStreamFor(subject string) StreamConfig {
	cfg := RelayStream
	if subject == "" || strings.HasPrefix(subject, "relay.files.") {
		return cfg
	}
	cfg.Subjects = append(append([]string{}, RelayStream.Subjects...), subject)
	return cfg
}

// NewJetStreamClient creates a JetStream-enabled client.
func NewJetStreamClient(cfg Config) (*JetStreamClient, error) {
	client, err := NewClient(cfg)
	if err != nil {
		return nil, err
	}

	js, err := jetstream.New(client.conn)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	return &JetStreamClient{
		Client: client,
		js:     js,
	}, nil
}

// CreateOrUpdateStream creates or updates a stream.
func (c *JetStreamClient) CreateOrUpdateStream(ctx context.Context, cfg StreamConfig) (jetstream.Stream, error) {
	streamCfg := jetstream.StreamConfig{
		Name:      cfg.Name,
		Subjects:  cfg.Subjects,
		MaxAge:    cfg.MaxAge,
		MaxBytes:  cfg.MaxBytes,
		MaxMsgs:   cfg.MaxMsgs,
		Retention: cfg.Retention,
		Storage:   cfg.Storage,
	}

	stream, err := c.js.CreateOrUpdateStream(ctx, streamCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create/update stream %s: %w", cfg.Name, err)
	}

	return stream, nil
}

// Publish sends a message to JetStream and waits for acknowledgment.
// Overrides the plain NATS publish so relay messages are durably accepted
// before the invocation reports success.
func (c *JetStreamClient) Publish(ctx context.Context, subject string, data []byte) error {
	_, err := c.js.Publish(ctx, subject, data)
	return err
}

// PublishSync publishes a message and returns the broker acknowledgment.
func (c *JetStreamClient) PublishSync(ctx context.Context, subject string, data []byte) (*jetstream.PubAck, error) {
	return c.js.Publish(ctx, subject, data)
}

// Fetch reads up to limit messages from a stream through an ephemeral
// consumer without consuming them (AckNone). Used by operator tooling.
func (c *JetStreamClient) Fetch(ctx context.Context, streamName, filterSubject string, limit int) ([]*messaging.Message, error) {
	if limit <= 0 {
		limit = 100
	}

	stream, err := c.js.Stream(ctx, streamName)
	if err != nil {
		return nil, fmt.Errorf("failed to get stream %s: %w", streamName, err)
	}

	consumer, err := stream.CreateOrUpdateConsumer(ctx, jetstream.ConsumerConfig{
		FilterSubject: filterSubject,
		AckPolicy:     jetstream.AckNonePolicy,
		DeliverPolicy: jetstream.DeliverAllPolicy,
	})
	if err != nil {
		return nil, fmt.Errorf("create fetch consumer: %w", err)
	}

	batch, err := consumer.Fetch(limit, jetstream.FetchMaxWait(2*time.Second))
	if err != nil {
		return nil, fmt.Errorf("fetch messages: %w", err)
	}

	var msgs []*messaging.Message
	for msg := range batch.Messages() {
		msgs = append(msgs, &messaging.Message{
			Subject:   msg.Subject(),
			Data:      msg.Data(),
			Timestamp: time.Now(),
		})
	}

	return msgs, nil
}

// StreamInfo returns state for the named stream.
func (c *JetStreamClient) StreamInfo(ctx context.Context, streamName string) (*jetstream.StreamInfo, error) {
	stream, err := c.js.Stream(ctx, streamName)
	if err != nil {
		return nil, fmt.Errorf("failed to get stream %s: %w", streamName, err)
	}
	return stream.Info(ctx)
}
