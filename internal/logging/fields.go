package logging

import "log/slog"

// Common field names for consistent logging across the relay.
const (
	FieldService   = "service"
	FieldError     = "error"
	FieldEventID   = "event_id"
	FieldEventType = "event_type"
	FieldBlobName  = "blob_name"
	FieldBlobURL   = "blob_url"
	FieldSubject   = "subject"
	FieldOutcome   = "outcome"
	FieldQueue     = "queue_subject"
	FieldReason    = "reason"
	FieldDuration  = "duration_ms"
)

// Service returns a slog attribute for the service name.
func Service(name string) slog.Attr {
	return slog.String(FieldService, name)
}

// Error returns a slog attribute for an error.
func Error(err error) slog.Attr {
	return slog.String(FieldError, err.Error())
}

// EventID returns a slog attribute for a notification ID.
func EventID(id string) slog.Attr {
	return slog.String(FieldEventID, id)
}

// EventType returns a slog attribute for a notification event type.
func EventType(t string) slog.Attr {
	return slog.String(FieldEventType, t)
}

// BlobName returns a slog attribute for a blob name.
func BlobName(name string) slog.Attr {
	return slog.String(FieldBlobName, name)
}

// BlobURL returns a slog attribute for a blob URL.
func BlobURL(url string) slog.Attr {
	return slog.String(FieldBlobURL, url)
}

// Subject returns a slog attribute for a notification subject.
func Subject(subject string) slog.Attr {
	return slog.String(FieldSubject, subject)
}

// Outcome returns a slog attribute for a relay outcome.
func Outcome(outcome string) slog.Attr {
	return slog.String(FieldOutcome, outcome)
}

// Queue returns a slog attribute for the queue subject.
func Queue(subject string) slog.Attr {
	return slog.String(FieldQueue, subject)
}

// Reason returns a slog attribute for a dead-letter reason.
func Reason(reason string) slog.Attr {
	return slog.String(FieldReason, reason)
}

// Duration returns a slog attribute for duration in milliseconds.
func Duration(ms int64) slog.Attr {
	return slog.Int64(FieldDuration, ms)
}
