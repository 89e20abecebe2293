package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dropgate-systems/dropgate/internal/models"
)

func newSendCmd(serverURL, token *string) *cobra.Command {
	var (
		file          string
		blobURL       string
		blobType      string
		contentType   string
		contentLength int64
	)

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Post a blob-created notification to the relay",
		Long: `Send one notification, either built from flags or loaded from a
JSON or YAML file. A file may contain a single notification or a list.

Examples:
  dgctl send --url https://acct.blob.core.windows.net/uploads/report.pdf
  dgctl send -f notification.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var batch []*models.Notification

			switch {
			case file != "":
				loaded, err := loadNotifications(file)
				if err != nil {
					return err
				}
				batch = loaded
			case blobURL != "":
				n, err := buildNotification(blobURL, blobType, contentType, contentLength)
				if err != nil {
					return err
				}
				batch = []*models.Notification{n}
			default:
				return fmt.Errorf("either --url or --file is required")
			}

			results, err := postNotifications(cmd.Context(), *serverURL, *token, batch)
			if err != nil {
				return err
			}

			fmt.Printf("Sent %d notification(s)\n", len(batch))
			printResults(results)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON or YAML file with notification(s)")
	cmd.Flags().StringVar(&blobURL, "url", "", "blob URL")
	cmd.Flags().StringVar(&blobType, "blob-type", "BlockBlob", "blob type")
	cmd.Flags().StringVar(&contentType, "content-type", "", "content type")
	cmd.Flags().Int64Var(&contentLength, "content-length", 0, "content length in bytes")

	return cmd
}

// buildNotification synthesizes an event envelope around a blob URL the way
// the storage platform would emit it.
func buildNotification(blobURL, blobType, contentType string, contentLength int64) (*models.Notification, error) {
	container, name, err := splitBlobURL(blobURL)
	if err != nil {
		return nil, err
	}

	data := models.BlobCreatedData{
		URL:      blobURL,
		BlobType: blobType,
	}
	if contentType != "" {
		data.ContentType = contentType
	}
	if contentLength > 0 {
		data.ContentLength = &contentLength
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &models.Notification{
		ID:        uuid.New().String(),
		Subject:   fmt.Sprintf("/blobServices/default/containers/%s/blobs/%s", container, name),
		Topic:     "/dgctl/manual",
		EventType: models.EventTypeBlobCreated,
		EventTime: time.Now().UTC(),
		Data:      raw,
	}, nil
}

func loadNotifications(path string) ([]*models.Notification, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	if ext := filepath.Ext(path); ext == ".yaml" || ext == ".yml" {
		raw, err = yamlToJSON(raw)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	}

	var batch []*models.Notification
	if err := json.Unmarshal(raw, &batch); err == nil {
		return batch, nil
	}

	var single models.Notification
	if err := json.Unmarshal(raw, &single); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return []*models.Notification{&single}, nil
}

// yamlToJSON re-encodes YAML so the notification JSON tags apply.
func yamlToJSON(raw []byte) ([]byte, error) {
	var v interface{}
	if err := yaml.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return json.Marshal(v)
}

func splitBlobURL(blobURL string) (container, name string, err error) {
	n := &models.Notification{Subject: blobURL}
	name = n.BlobName()
	if name == "" {
		return "", "", fmt.Errorf("cannot derive blob name from %q", blobURL)
	}

	parts := filepath.Dir(blobURL)
	container = filepath.Base(parts)
	if container == "." || container == "/" {
		container = "unknown"
	}
	return container, name, nil
}
