// Package dlq captures notifications the relay could not process, so failed
// invocations are never silently dropped.
package dlq

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dropgate-systems/dropgate/internal/models"
)

// Dead-letter reasons.
const (
	ReasonPublishFailed = "publish_failed"
	ReasonLeaseError    = "lease_error"
)

// FailedNotification captures relay failure details for replay.
type FailedNotification struct {
	Timestamp    time.Time            `json:"timestamp"`
	Notification *models.Notification `json:"notification"`
	Error        string               `json:"error"`
	Reason       string               `json:"reason"`
	Attempts     int                  `json:"attempts"`
	LastAttempt  time.Time            `json:"last_attempt"`
}

// Writer records failed notifications.
type Writer interface {
	Write(ctx context.Context, n *models.Notification, err error, reason string) error
}

// Queue writes failed notifications to disk for later analysis/replay.
// Single-instance only; use the JetStream backend in multi-instance setups.
type Queue struct {
	basePath string
	mu       sync.Mutex
	written  uint64
}

// NewQueue creates a DLQ that writes to the specified directory.
func NewQueue(basePath string) (*Queue, error) {
	if basePath == "" {
		basePath = "/var/lib/dropgate/dlq"
	}

	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("create dlq directory: %w", err)
	}

	return &Queue{basePath: basePath}, nil
}

// Write records a failed notification to the dead-letter queue.
func (q *Queue) Write(ctx context.Context, n *models.Notification, err error, reason string) error {
	if q == nil {
		return nil
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	failed := FailedNotification{
		Timestamp:    time.Now().UTC(),
		Notification: n,
		Error:        err.Error(),
		Reason:       reason,
		Attempts:     1,
		LastAttempt:  time.Now().UTC(),
	}

	filename := fmt.Sprintf("failed_%d_%d.json", time.Now().Unix(), q.written)
	filePath := filepath.Join(q.basePath, filename)

	data, marshalErr := json.MarshalIndent(failed, "", "  ")
	if marshalErr != nil {
		log.Printf("ERROR: failed to marshal DLQ entry: %v", marshalErr)
		return marshalErr
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		log.Printf("ERROR: failed to write DLQ entry: %v", err)
		return err
	}

	q.written++
	log.Printf("DLQ: wrote failed notification to %s (reason: %s)", filename, reason)

	return nil
}

// Stats returns DLQ metrics.
func (q *Queue) Stats() map[string]interface{} {
	if q == nil {
		return map[string]interface{}{
			"enabled": false,
		}
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	files, err := os.ReadDir(q.basePath)
	if err != nil {
		log.Printf("ERROR: failed to read DLQ directory: %v", err)
		return map[string]interface{}{
			"enabled":       true,
			"backend":       "file",
			"written":       q.written,
			"pending_files": 0,
			"error":         err.Error(),
		}
	}

	return map[string]interface{}{
		"enabled":       true,
		"backend":       "file",
		"written":       q.written,
		"pending_files": len(files),
		"base_path":     q.basePath,
	}
}

// List returns failed notifications currently on disk, newest last.
func (q *Queue) List(limit int) ([]FailedNotification, error) {
	if q == nil {
		return nil, fmt.Errorf("dlq not enabled")
	}
	if limit <= 0 {
		limit = 100
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	files, err := os.ReadDir(q.basePath)
	if err != nil {
		return nil, fmt.Errorf("read dlq directory: %w", err)
	}

	var entries []FailedNotification
	for _, f := range files {
		if f.IsDir() || filepath.Ext(f.Name()) != ".json" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(q.basePath, f.Name()))
		if err != nil {
			log.Printf("ERROR: failed to read DLQ entry %s: %v", f.Name(), err)
			continue
		}
		var failed FailedNotification
		if err := json.Unmarshal(data, &failed); err != nil {
			log.Printf("ERROR: failed to parse DLQ entry %s: %v", f.Name(), err)
			continue
		}
		entries = append(entries, failed)
		if len(entries) >= limit {
			break
		}
	}

	return entries, nil
}
