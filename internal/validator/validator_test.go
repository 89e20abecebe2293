package validator_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dropgate-systems/dropgate/internal/models"
	"github.com/dropgate-systems/dropgate/internal/validator"
)

// mockValidator for testing
type mockValidator struct {
	supportsType string
	validateFunc func(ctx context.Context, n *models.Notification) error
	callCount    int
}

func (m *mockValidator) Supports(eventType string) bool {
	return m.supportsType == "" || m.supportsType == eventType
}

func (m *mockValidator) Validate(ctx context.Context, n *models.Notification) error {
	m.callCount++
	if m.validateFunc != nil {
		return m.validateFunc(ctx, n)
	}
	return nil
}

func blobCreatedNotification() *models.Notification {
	return &models.Notification{
		ID:        "evt-1",
		Subject:   "/blobServices/default/containers/uploads/blobs/report-2024.csv",
		Topic:     "topic",
		EventType: models.EventTypeBlobCreated,
		Data:      json.RawMessage(`{"url": "https://acct.blob.core.windows.net/uploads/report-2024.csv"}`),
	}
}

func TestChain_Validate_Success(t *testing.T) {
	val1 := &mockValidator{supportsType: models.EventTypeBlobCreated}
	val2 := &mockValidator{supportsType: models.EventTypeBlobCreated}

	chain := validator.NewChain(val1, val2)
	err := chain.Validate(context.Background(), blobCreatedNotification())

	assert.NoError(t, err)
	assert.Equal(t, 1, val1.callCount, "first validator should be called")
	assert.Equal(t, 1, val2.callCount, "second validator should be called")
}

func TestChain_Validate_FirstValidatorFails(t *testing.T) {
	expectedErr := errors.New("validation failed")
	val1 := &mockValidator{
		supportsType: models.EventTypeBlobCreated,
		validateFunc: func(ctx context.Context, n *models.Notification) error {
			return expectedErr
		},
	}
	val2 := &mockValidator{supportsType: models.EventTypeBlobCreated}

	chain := validator.NewChain(val1, val2)
	err := chain.Validate(context.Background(), blobCreatedNotification())

	assert.ErrorIs(t, err, expectedErr)
	assert.Equal(t, 0, val2.callCount, "second validator should not run after failure")
}

func TestChain_Validate_SkipsUnsupported(t *testing.T) {
	val := &mockValidator{supportsType: "Some.Other.Event"}

	chain := validator.NewChain(val)
	err := chain.Validate(context.Background(), blobCreatedNotification())

	assert.NoError(t, err)
	assert.Equal(t, 0, val.callCount)
}

func TestBasicValidator(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(n *models.Notification)
		wantErr string
	}{
		{
			name:   "valid blob created event",
			mutate: func(n *models.Notification) {},
		},
		{
			name:    "missing id",
			mutate:  func(n *models.Notification) { n.ID = "" },
			wantErr: "missing id",
		},
		{
			name:    "missing subject",
			mutate:  func(n *models.Notification) { n.Subject = "" },
			wantErr: "missing subject",
		},
		{
			name:    "missing data url",
			mutate:  func(n *models.Notification) { n.Data = json.RawMessage(`{}`) },
			wantErr: "missing data.url",
		},
		{
			name:    "malformed data",
			mutate:  func(n *models.Notification) { n.Data = json.RawMessage(`{"url"`) },
			wantErr: "malformed data payload",
		},
		{
			name: "missing optional metadata is fine",
			mutate: func(n *models.Notification) {
				n.Data = json.RawMessage(`{"url": "https://acct.blob.core.windows.net/c/a"}`)
			},
		},
		{
			name: "non-blob event types pass structural check only",
			mutate: func(n *models.Notification) {
				n.EventType = models.EventTypeSubscriptionValidation
				n.Subject = ""
				n.Data = nil
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := blobCreatedNotification()
			tt.mutate(n)

			err := validator.BasicValidator{}.Validate(context.Background(), n)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}
