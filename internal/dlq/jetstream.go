package dlq

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/dropgate-systems/dropgate/internal/messaging"
	"github.com/dropgate-systems/dropgate/internal/messaging/nats"
	"github.com/dropgate-systems/dropgate/internal/models"
)

// JetStreamQueue writes failed notifications to NATS JetStream for a
// centralized DLQ. Safe for use across multiple relay instances.
type JetStreamQueue struct {
	js      *nats.JetStreamClient
	written uint64
}

// NewJetStreamQueue creates a DLQ backed by NATS JetStream.
func NewJetStreamQueue(ctx context.Context, js *nats.JetStreamClient) (*JetStreamQueue, error) {
	if js == nil {
		return nil, fmt.Errorf("jetstream client is nil")
	}

	if _, err := js.CreateOrUpdateStream(ctx, nats.RelayDLQStream); err != nil {
		return nil, fmt.Errorf("create dlq stream: %w", err)
	}

	log.Printf("DLQ: JetStream stream %s ready", nats.RelayDLQStream.Name)

	return &JetStreamQueue{js: js}, nil
}

// Write records a failed notification to the JetStream DLQ.
func (q *JetStreamQueue) Write(ctx context.Context, n *models.Notification, err error, reason string) error {
	if q == nil {
		return nil
	}

	failed := FailedNotification{
		Timestamp:    time.Now().UTC(),
		Notification: n,
		Error:        err.Error(),
		Reason:       reason,
		Attempts:     1,
		LastAttempt:  time.Now().UTC(),
	}

	data, marshalErr := json.Marshal(failed)
	if marshalErr != nil {
		log.Printf("ERROR: failed to marshal DLQ entry: %v", marshalErr)
		return marshalErr
	}

	if _, pubErr := q.js.PublishSync(ctx, messaging.DLQSubject(reason), data); pubErr != nil {
		log.Printf("ERROR: failed to publish DLQ entry: %v", pubErr)
		return pubErr
	}

	atomic.AddUint64(&q.written, 1)
	log.Printf("DLQ: published failed notification (reason: %s)", reason)

	return nil
}

// Stats returns DLQ metrics from JetStream.
func (q *JetStreamQueue) Stats(ctx context.Context) map[string]interface{} {
	if q == nil {
		return map[string]interface{}{
			"enabled": false,
			"backend": "jetstream",
		}
	}

	info, err := q.js.StreamInfo(ctx, nats.RelayDLQStream.Name)
	if err != nil {
		log.Printf("ERROR: failed to get DLQ stream info: %v", err)
		return map[string]interface{}{
			"enabled":       true,
			"backend":       "jetstream",
			"written_local": atomic.LoadUint64(&q.written),
			"error":         err.Error(),
		}
	}

	return map[string]interface{}{
		"enabled":        true,
		"backend":        "jetstream",
		"written_local":  atomic.LoadUint64(&q.written),
		"total_messages": info.State.Msgs,
		"total_bytes":    info.State.Bytes,
		"first_seq":      info.State.FirstSeq,
		"last_seq":       info.State.LastSeq,
	}
}

// List returns failed notifications from the JetStream DLQ.
func (q *JetStreamQueue) List(ctx context.Context, limit int) ([]FailedNotification, error) {
	if q == nil {
		return nil, fmt.Errorf("dlq not enabled")
	}

	msgs, err := q.js.Fetch(ctx, nats.RelayDLQStream.Name, messaging.SubjectDLQPrefix+".>", limit)
	if err != nil {
		return nil, err
	}

	var entries []FailedNotification
	for _, msg := range msgs {
		var failed FailedNotification
		if err := json.Unmarshal(msg.Data, &failed); err != nil {
			log.Printf("ERROR: failed to parse DLQ message: %v", err)
			continue
		}
		entries = append(entries, failed)
	}

	return entries, nil
}
