package validator

import (
	"context"
	"fmt"

	"github.com/dropgate-systems/dropgate/internal/models"
)

// BasicValidator ensures minimal notification fields exist. Optional blob
// metadata (blobType, contentType, contentLength) is deliberately not
// checked: a missing optional field must never fail an invocation.
type BasicValidator struct{}

// Supports returns true for all event types.
func (BasicValidator) Supports(eventType string) bool {
	return true
}

// Validate performs structural validation.
func (BasicValidator) Validate(ctx context.Context, n *models.Notification) error {
	_ = ctx
	if n.ID == "" {
		return fmt.Errorf("missing id")
	}
	if n.EventType == "" {
		return fmt.Errorf("missing eventType")
	}
	if n.EventType != models.EventTypeBlobCreated {
		return nil
	}
	if n.Subject == "" {
		return fmt.Errorf("missing subject")
	}
	data, err := n.BlobData()
	if err != nil {
		return fmt.Errorf("malformed data payload: %w", err)
	}
	if data.URL == "" {
		return fmt.Errorf("missing data.url")
	}
	return nil
}
