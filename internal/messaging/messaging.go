// Package messaging provides abstractions for queue sink communication.
// It defines interfaces that let the relay publish messages without being
// coupled to a specific broker implementation.
package messaging

import (
	"context"
	"time"
)

// Message represents a message sent to the queue sink.
type Message struct {
	// Subject is the topic/channel the message is published to.
	Subject string

	// Data is the raw message payload.
	Data []byte

	// Metadata contains optional key-value pairs for message headers.
	Metadata map[string]string

	// Timestamp is when the message was published.
	Timestamp time.Time
}

// Publisher publishes messages to subjects.
type Publisher interface {
	// Publish sends a message to the specified subject and waits for the
	// broker to accept it. Exactly-one-slot semantics per call.
	Publish(ctx context.Context, subject string, data []byte) error

	// Close releases any resources held by the publisher.
	Close() error
}
