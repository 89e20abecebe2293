package seeder

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"

	"github.com/dropgate-systems/dropgate/internal/models"
)

var containers = []string{"uploads", "exports", "ingest", "backups", "media"}

var contentTypes = map[string]string{
	"pdf":  "application/pdf",
	"csv":  "text/csv",
	"json": "application/json",
	"png":  "image/png",
	"zip":  "application/zip",
	"log":  "text/plain",
}

// Options controls synthetic notification generation.
type Options struct {
	// Account is the storage account name embedded in topic and URL.
	Account string

	// TimeSpread distributes event times over the trailing window.
	// Zero stamps every event with the current time.
	TimeSpread time.Duration

	// MissingMetadataRate is the fraction of events generated without
	// blobType, contentType and contentLength, exercising the optional
	// metadata path. Range 0 to 1.
	MissingMetadataRate float64
}

// GenerateNotification creates one synthetic blob-created notification.
// index and totalCount position the event inside the TimeSpread window.
func GenerateNotification(opts Options, index, totalCount int) *models.Notification {
	account := opts.Account
	if account == "" {
		account = "dropgatedev"
	}

	container := containers[rand.Intn(len(containers))]
	ext := randomExtension()
	name := fmt.Sprintf("%s-%d.%s", gofakeit.Word(), rand.Intn(100000), ext)
	url := fmt.Sprintf("https://%s.blob.core.windows.net/%s/%s", account, container, name)

	data := models.BlobCreatedData{URL: url}
	if rand.Float64() >= opts.MissingMetadataRate {
		length := int64(rand.Intn(10_000_000) + 64)
		data.BlobType = "BlockBlob"
		data.ContentType = contentTypes[ext]
		data.ContentLength = &length
	}
	raw, _ := json.Marshal(data)

	return &models.Notification{
		ID:        uuid.New().String(),
		Topic:     fmt.Sprintf("/subscriptions/%s/resourceGroups/rg-dropgate/providers/Microsoft.Storage/storageAccounts/%s", uuid.New().String(), account),
		Subject:   fmt.Sprintf("/blobServices/default/containers/%s/blobs/%s", container, name),
		EventType: models.EventTypeBlobCreated,
		EventTime: eventTime(opts.TimeSpread, index, totalCount),
		Data:      raw,
	}
}

// GenerateBatch creates count notifications in delivery order.
func GenerateBatch(opts Options, count int) []*models.Notification {
	batch := make([]*models.Notification, 0, count)
	for i := 0; i < count; i++ {
		batch = append(batch, GenerateNotification(opts, i, count))
	}
	return batch
}

func eventTime(spread time.Duration, index, totalCount int) time.Time {
	now := time.Now().UTC()
	if spread <= 0 || totalCount <= 0 {
		return now
	}

	// Jittered distribution: evenly space events with random jitter
	baseInterval := float64(spread) / float64(totalCount)
	baseOffset := time.Duration(float64(index) * baseInterval)

	jitterRange := baseInterval * 0.4
	jitter := time.Duration((rand.Float64()*2.0 - 1.0) * jitterRange)

	totalOffset := baseOffset + jitter
	if totalOffset < 0 {
		totalOffset = 0
	}
	if totalOffset > spread {
		totalOffset = spread
	}

	return now.Add(-(spread - totalOffset))
}

func randomExtension() string {
	exts := make([]string, 0, len(contentTypes))
	for ext := range contentTypes {
		exts = append(exts, ext)
	}
	return exts[rand.Intn(len(exts))]
}
