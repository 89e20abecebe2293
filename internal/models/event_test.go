package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotification_BlobName(t *testing.T) {
	tests := []struct {
		name     string
		subject  string
		expected string
	}{
		{
			name:     "standard blob subject",
			subject:  "/blobServices/default/containers/uploads/blobs/report-2024.csv",
			expected: "report-2024.csv",
		},
		{
			name:     "nested blob path",
			subject:  "/blobServices/default/containers/uploads/blobs/2024/q1/data.parquet",
			expected: "data.parquet",
		},
		{
			name:     "no slashes",
			subject:  "orphan.txt",
			expected: "orphan.txt",
		},
		{
			name:     "trailing slash",
			subject:  "/blobServices/default/containers/uploads/blobs/",
			expected: "",
		},
		{
			name:     "empty subject",
			subject:  "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := &Notification{Subject: tt.subject}
			assert.Equal(t, tt.expected, n.BlobName())
		})
	}
}

func TestNotification_BlobData(t *testing.T) {
	t.Run("full payload", func(t *testing.T) {
		n := &Notification{
			Data: json.RawMessage(`{
				"url": "https://acct.blob.core.windows.net/uploads/report-2024.csv",
				"blobType": "BlockBlob",
				"contentType": "text/csv",
				"contentLength": 5242880
			}`),
		}

		data, err := n.BlobData()
		require.NoError(t, err)
		assert.Equal(t, "https://acct.blob.core.windows.net/uploads/report-2024.csv", data.URL)
		assert.Equal(t, "BlockBlob", data.BlobType)
		assert.Equal(t, "text/csv", data.ContentType)
		require.NotNil(t, data.ContentLength)
		assert.Equal(t, int64(5242880), *data.ContentLength)
	})

	t.Run("missing optional fields", func(t *testing.T) {
		n := &Notification{
			Data: json.RawMessage(`{"url": "https://acct.blob.core.windows.net/uploads/a.bin"}`),
		}

		data, err := n.BlobData()
		require.NoError(t, err)
		assert.Equal(t, "https://acct.blob.core.windows.net/uploads/a.bin", data.URL)
		assert.Empty(t, data.BlobType)
		assert.Empty(t, data.ContentType)
		assert.Nil(t, data.ContentLength)
	})

	t.Run("empty payload", func(t *testing.T) {
		n := &Notification{}

		data, err := n.BlobData()
		require.NoError(t, err)
		assert.Empty(t, data.URL)
	})

	t.Run("malformed payload", func(t *testing.T) {
		n := &Notification{Data: json.RawMessage(`{"url": 42`)}

		_, err := n.BlobData()
		assert.Error(t, err)
	})
}

func TestNewRelayMessage(t *testing.T) {
	length := int64(1024)
	n := &Notification{
		ID:        "evt-123",
		Subject:   "/blobServices/default/containers/uploads/blobs/report-2024.csv",
		Topic:     "/subscriptions/sub-1/resourceGroups/rg/providers/Microsoft.Storage/storageAccounts/acct",
		EventType: EventTypeBlobCreated,
	}
	data := BlobCreatedData{
		URL:           "https://acct.blob.core.windows.net/uploads/report-2024.csv",
		BlobType:      "BlockBlob",
		ContentType:   "text/csv",
		ContentLength: &length,
	}

	msg := NewRelayMessage(n, data)

	assert.Equal(t, "evt-123", msg.ID)
	assert.Equal(t, "file", msg.Source)
	assert.Equal(t, "report-2024.csv", msg.BlobName)
	assert.Equal(t, data.URL, msg.BlobURL)
	assert.Equal(t, "BlockBlob", msg.BlobType)
	assert.Equal(t, "text/csv", msg.ContentType)
	assert.Equal(t, &length, msg.ContentLength)
	assert.Equal(t, n.Topic, msg.Topic)
	assert.Equal(t, n.Subject, msg.Subject)
	assert.Equal(t, EventTypeBlobCreated, msg.EventType)
}

func TestRelayMessage_JSONShape(t *testing.T) {
	t.Run("optional fields absent when missing", func(t *testing.T) {
		msg := NewRelayMessage(&Notification{
			ID:        "evt-9",
			Subject:   "/blobServices/default/containers/c/blobs/x.bin",
			Topic:     "topic",
			EventType: EventTypeBlobCreated,
		}, BlobCreatedData{URL: "https://acct.blob.core.windows.net/c/x.bin"})

		raw, err := json.Marshal(msg)
		require.NoError(t, err)

		var decoded map[string]interface{}
		require.NoError(t, json.Unmarshal(raw, &decoded))

		assert.NotContains(t, decoded, "content_length")
		assert.NotContains(t, decoded, "blob_type")
		assert.NotContains(t, decoded, "content_type")
		assert.Equal(t, "file", decoded["source"])
		assert.Equal(t, "x.bin", decoded["blob_name"])
	})

	t.Run("field names are snake_case", func(t *testing.T) {
		length := int64(7)
		msg := RelayMessage{
			ID:            "evt-1",
			Source:        MessageSource,
			BlobName:      "a.txt",
			BlobURL:       "https://acct.blob.core.windows.net/c/a.txt",
			BlobType:      "BlockBlob",
			ContentType:   "text/plain",
			ContentLength: &length,
			Topic:         "t",
			Subject:       "s",
			EventType:     EventTypeBlobCreated,
		}

		raw, err := json.Marshal(msg)
		require.NoError(t, err)

		var decoded map[string]interface{}
		require.NoError(t, json.Unmarshal(raw, &decoded))

		for _, key := range []string{
			"id", "source", "blob_name", "blob_url", "blob_type",
			"content_type", "content_length", "topic", "subject", "event_type",
		} {
			assert.Contains(t, decoded, key)
		}
	})
}

func TestNotification_ValidationData(t *testing.T) {
	n := &Notification{
		EventType: EventTypeSubscriptionValidation,
		Data:      json.RawMessage(`{"validationCode": "abc-123"}`),
	}

	data, err := n.ValidationData()
	require.NoError(t, err)
	assert.Equal(t, "abc-123", data.ValidationCode)
}
