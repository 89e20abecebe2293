package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dropgate-systems/dropgate/internal/dlq"
	natsclient "github.com/dropgate-systems/dropgate/internal/messaging/nats"
)

func newDLQCmd() *cobra.Command {
	var natsURL string

	cmd := &cobra.Command{
		Use:   "dlq",
		Short: "Inspect the dead letter queue",
	}

	cmd.PersistentFlags().StringVar(&natsURL, "nats", "nats://localhost:4222", "NATS server URL")

	cmd.AddCommand(
		newDLQListCmd(&natsURL),
		newDLQStatsCmd(&natsURL),
	)

	return cmd
}

func newDLQListCmd(natsURL *string) *cobra.Command {
	var (
		limit      int
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List captured notifications",
		RunE: func(cmd *cobra.Command, args []string) error {
			queue, cleanup, err := openDLQ(cmd.Context(), *natsURL)
			if err != nil {
				return err
			}
			defer cleanup()

			entries, err := queue.List(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("listing dead letter queue: %w", err)
			}

			if jsonOutput {
				return json.NewEncoder(os.Stdout).Encode(entries)
			}

			if len(entries) == 0 {
				fmt.Println("Dead letter queue is empty")
				return nil
			}

			fmt.Printf("%-25s %-38s %-16s %s\n", "TIMESTAMP", "EVENT ID", "REASON", "ERROR")
			for _, e := range entries {
				id := ""
				if e.Notification != nil {
					id = e.Notification.ID
				}
				fmt.Printf("%-25s %-38s %-16s %s\n",
					e.Timestamp.Format(time.RFC3339), id, e.Reason, e.Error)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "maximum entries to list")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output JSON")

	return cmd
}

func newDLQStatsCmd(natsURL *string) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show dead letter queue totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			queue, cleanup, err := openDLQ(cmd.Context(), *natsURL)
			if err != nil {
				return err
			}
			defer cleanup()

			stats := queue.Stats(cmd.Context())
			for k, v := range stats {
				fmt.Printf("%-20s %v\n", k, v)
			}
			return nil
		},
	}
}

func openDLQ(ctx context.Context, natsURL string) (*dlq.JetStreamQueue, func(), error) {
	jsClient, err := natsclient.NewJetStreamClient(natsclient.Config{
		URL:  natsURL,
		Name: "dgctl",
	})
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to NATS: %w", err)
	}

	queue, err := dlq.NewJetStreamQueue(ctx, jsClient)
	if err != nil {
		jsClient.Close()
		return nil, nil, fmt.Errorf("opening dead letter queue: %w", err)
	}

	return queue, func() { jsClient.Close() }, nil
}
