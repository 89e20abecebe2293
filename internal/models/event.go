package models

import (
	"encoding/json"
	"strings"
	"time"
)

// Event Grid event types handled by the relay.
const (
	EventTypeBlobCreated            = "Microsoft.Storage.BlobCreated"
	EventTypeSubscriptionValidation = "Microsoft.EventGrid.SubscriptionValidationEvent"
)

// MessageSource identifies relay messages originating from blob drops.
const MessageSource = "file"

// Notification is an inbound Event Grid event describing a blob-creation
// occurrence. Immutable for the lifetime of one invocation.
type Notification struct {
	ID        string          `json:"id"`
	Subject   string          `json:"subject"`
	Topic     string          `json:"topic"`
	EventType string          `json:"eventType"`
	EventTime time.Time       `json:"eventTime,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// BlobCreatedData is the payload of a BlobCreated notification. Every field
// except URL is optional; missing fields must never fail an invocation.
type BlobCreatedData struct {
	URL           string `json:"url"`
	BlobType      string `json:"blobType,omitempty"`
	ContentType   string `json:"contentType,omitempty"`
	ContentLength *int64 `json:"contentLength,omitempty"`
}

// SubscriptionValidationData carries the webhook handshake code.
type SubscriptionValidationData struct {
	ValidationCode string `json:"validationCode"`
	ValidationURL  string `json:"validationUrl,omitempty"`
}

// SubscriptionValidationResponse is echoed back to complete the handshake.
type SubscriptionValidationResponse struct {
	ValidationResponse string `json:"validationResponse"`
}

// BlobName derives the blob name as the last path segment of the subject.
// Example: "/blobServices/default/containers/uploads/blobs/report-2024.csv"
// yields "report-2024.csv".
func (n *Notification) BlobName() string {
	if n.Subject == "" {
		return ""
	}
	idx := strings.LastIndex(n.Subject, "/")
	if idx < 0 {
		return n.Subject
	}
	return n.Subject[idx+1:]
}

// BlobData decodes the embedded payload. A nil or empty payload decodes to
// the zero value rather than failing.
func (n *Notification) BlobData() (BlobCreatedData, error) {
	var data BlobCreatedData
	if len(n.Data) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(n.Data, &data); err != nil {
		return BlobCreatedData{}, err
	}
	return data, nil
}

// ValidationData decodes the payload of a subscription validation event.
func (n *Notification) ValidationData() (SubscriptionValidationData, error) {
	var data SubscriptionValidationData
	if len(n.Data) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(n.Data, &data); err != nil {
		return SubscriptionValidationData{}, err
	}
	return data, nil
}

// RelayMessage is the normalized summary record written to the queue sink.
// Exactly one is produced per successfully leased notification.
type RelayMessage struct {
	ID            string `json:"id"`
	Source        string `json:"source"`
	BlobName      string `json:"blob_name"`
	BlobURL       string `json:"blob_url"`
	BlobType      string `json:"blob_type,omitempty"`
	ContentType   string `json:"content_type,omitempty"`
	ContentLength *int64 `json:"content_length,omitempty"`
	Topic         string `json:"topic"`
	Subject       string `json:"subject"`
	EventType     string `json:"event_type"`
}

// NewRelayMessage builds the outbound record from a notification and its
// decoded payload. Pure data transformation; no failure mode.
func NewRelayMessage(n *Notification, data BlobCreatedData) RelayMessage {
	return RelayMessage{
		ID:            n.ID,
		Source:        MessageSource,
		BlobName:      n.BlobName(),
		BlobURL:       data.URL,
		BlobType:      data.BlobType,
		ContentType:   data.ContentType,
		ContentLength: data.ContentLength,
		Topic:         n.Topic,
		Subject:       n.Subject,
		EventType:     n.EventType,
	}
}
