// Package relay implements the blob-creation relay: one inbound notification
// becomes at most one queue message, gated by an exclusive lease on the blob.
package relay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dropgate-systems/dropgate/internal/blobstore"
	"github.com/dropgate-systems/dropgate/internal/dlq"
	"github.com/dropgate-systems/dropgate/internal/logging"
	"github.com/dropgate-systems/dropgate/internal/messaging"
	"github.com/dropgate-systems/dropgate/internal/metrics"
	"github.com/dropgate-systems/dropgate/internal/models"
	"github.com/dropgate-systems/dropgate/internal/validator"
)

// ErrInvalidNotification marks notifications the relay cannot process at
// all. Callers should not redeliver these.
var ErrInvalidNotification = errors.New("relay: invalid notification")

// Outcome classifies how an invocation ended.
type Outcome string

const (
	// OutcomeRelayed: lease acquired, exactly one message published.
	OutcomeRelayed Outcome = "relayed"

	// OutcomeLeaseHeld: another invocation holds the lease; benign skip.
	OutcomeLeaseHeld Outcome = "lease_held"

	// OutcomeBlobMissing: the blob disappeared between event and processing.
	OutcomeBlobMissing Outcome = "blob_missing"

	// OutcomeDeadLettered: a transient failure was captured to the DLQ.
	OutcomeDeadLettered Outcome = "dead_lettered"
)

// Result reports the outcome of one invocation.
type Result struct {
	Outcome Outcome
	Message *models.RelayMessage
}

// Service is the blob-creation relay. Each Process call is independent;
// no state carries meaning across invocations.
type Service struct {
	leases    blobstore.LeaseManager
	publisher messaging.Publisher
	validate  *validator.Chain
	dlqWriter dlq.Writer
	logger    *logging.Logger
	subject   string
}

// NewService constructs the relay service publishing to the default
// relay subject.
func NewService(leases blobstore.LeaseManager, publisher messaging.Publisher, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		leases:    leases,
		publisher: publisher,
		validate:  validator.NewChain(validator.BasicValidator{}),
		logger:    logger,
		subject:   messaging.SubjectFilesCreated,
	}
}

// SetDLQ configures dead-letter capture for transient failures.
func (s *Service) SetDLQ(w dlq.Writer) {
	s.dlqWriter = w
}

// SetSubject overrides the queue subject, typically from configuration.
func (s *Service) SetSubject(subject string) {
	if subject != "" {
		s.subject = subject
	}
}

// Subject returns the queue subject messages are published to.
func (s *Service) Subject() string {
	return s.subject
}

// Process handles one blob-creation notification.
//
// A message is produced only if the lease is acquired. If acquisition
// fails for any reason no message is produced, and a lease that was
// obtained is released on every exit path. Lease conflicts and missing
// blobs resolve to a Result with a nil error; only transient failures
// that could not be dead-lettered surface as errors, so the notification
// source can redeliver.
func (s *Service) Process(ctx context.Context, n *models.Notification) (*Result, error) {
	if err := s.validate.Validate(ctx, n); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidNotification, err)
	}

	data, err := n.BlobData()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidNotification, err)
	}

	// Pure data transformation; no failure mode.
	msg := models.NewRelayMessage(n, data)

	leaseStart := time.Now()
	lease, err := s.leases.Acquire(ctx, data.URL)
	metrics.LeaseDuration.Observe(time.Since(leaseStart).Seconds())

	switch {
	case errors.Is(err, blobstore.ErrLeaseHeld):
		s.logger.InfoContext(ctx, "another invocation is leasing the blob, skipping",
			logging.EventID(n.ID),
			logging.BlobName(msg.BlobName),
		)
		metrics.LeaseConflicts.Inc()
		return s.finish(OutcomeLeaseHeld, nil), nil

	case errors.Is(err, blobstore.ErrBlobNotFound):
		s.logger.ErrorContext(ctx, "blob not found, processing halted",
			logging.EventID(n.ID),
			logging.BlobURL(data.URL),
		)
		metrics.BlobsMissing.Inc()
		return s.finish(OutcomeBlobMissing, nil), nil

	case err != nil:
		s.logger.ErrorContext(ctx, "lease acquisition failed",
			logging.EventID(n.ID),
			logging.BlobURL(data.URL),
			logging.Error(err),
		)
		return s.deadLetter(ctx, n, err, dlq.ReasonLeaseError)
	}

	// Release on every exit path, including success: the lease only
	// guards against overlap with concurrent invocations for the same
	// blob. WithoutCancel so a canceled request cannot leak the lease.
	defer func() {
		if err := lease.Release(context.WithoutCancel(ctx)); err != nil {
			s.logger.WarnContext(ctx, "lease release failed",
				logging.EventID(n.ID),
				logging.Error(err),
			)
		}
	}()

	payload, err := json.Marshal(msg)
	if err != nil {
		return s.deadLetter(ctx, n, err, dlq.ReasonPublishFailed)
	}

	publishStart := time.Now()
	err = s.publisher.Publish(ctx, s.subject, payload)
	metrics.PublishDuration.Observe(time.Since(publishStart).Seconds())
	if err != nil {
		metrics.PublishErrors.Inc()
		s.logger.ErrorContext(ctx, "queue publish failed",
			logging.EventID(n.ID),
			logging.Queue(s.subject),
			logging.Error(err),
		)
		return s.deadLetter(ctx, n, err, dlq.ReasonPublishFailed)
	}

	metrics.MessagesPublished.Inc()
	s.logger.InfoContext(ctx, "relayed blob creation",
		logging.EventID(n.ID),
		logging.BlobName(msg.BlobName),
		logging.Queue(s.subject),
	)
	return s.finish(OutcomeRelayed, &msg), nil
}

// deadLetter captures a transiently failed notification. When capture
// succeeds the invocation is acknowledged; when the DLQ itself is
// unavailable the original error surfaces so the platform can retry.
func (s *Service) deadLetter(ctx context.Context, n *models.Notification, cause error, reason string) (*Result, error) {
	if s.dlqWriter == nil {
		metrics.NotificationsTotal.WithLabelValues("error").Inc()
		return nil, cause
	}

	if err := s.dlqWriter.Write(context.WithoutCancel(ctx), n, cause, reason); err != nil {
		metrics.NotificationsTotal.WithLabelValues("error").Inc()
		return nil, cause
	}

	metrics.DLQWritten.WithLabelValues(reason).Inc()
	s.logger.WarnContext(ctx, "notification dead-lettered",
		logging.EventID(n.ID),
		logging.Reason(reason),
	)
	return s.finish(OutcomeDeadLettered, nil), nil
}

func (s *Service) finish(outcome Outcome, msg *models.RelayMessage) *Result {
	metrics.NotificationsTotal.WithLabelValues(string(outcome)).Inc()
	return &Result{Outcome: outcome, Message: msg}
}
