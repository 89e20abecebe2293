package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dropgate-systems/dropgate/internal/seeder"
)

func newSeedCmd(serverURL, token *string) *cobra.Command {
	var (
		count       int
		batchSize   int
		account     string
		timeSpread  string
		missingRate float64
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Generate and send synthetic blob-created notifications",
		Long: `Generate realistic blob-created traffic against a running relay.

Examples:
  dgctl seed --count 100
  dgctl seed --count 1000 --time-spread 1h --missing-metadata-rate 0.2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			spread, err := parseSpread(timeSpread)
			if err != nil {
				return err
			}

			opts := seeder.Options{
				Account:             account,
				TimeSpread:          spread,
				MissingMetadataRate: missingRate,
			}

			batch := seeder.GenerateBatch(opts, count)
			fmt.Printf("Generated %d notifications\n", len(batch))

			sent := 0
			outcomes := make(map[string]int)
			for start := 0; start < len(batch); start += batchSize {
				end := start + batchSize
				if end > len(batch) {
					end = len(batch)
				}

				results, err := postNotifications(cmd.Context(), *serverURL, *token, batch[start:end])
				if err != nil {
					return fmt.Errorf("after %d sent: %w", sent, err)
				}
				sent += end - start
				for _, r := range results {
					outcomes[r["outcome"]]++
				}
			}

			fmt.Printf("Sent %d notifications\n", sent)
			for outcome, n := range outcomes {
				fmt.Printf("  %-16s %d\n", outcome, n)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&count, "count", 10, "number of notifications to generate")
	cmd.Flags().IntVar(&batchSize, "batch-size", 50, "notifications per webhook delivery")
	cmd.Flags().StringVar(&account, "account", "dropgatedev", "storage account name")
	cmd.Flags().StringVar(&timeSpread, "time-spread", "", "distribute event times over a trailing window, e.g. 1h")
	cmd.Flags().Float64Var(&missingRate, "missing-metadata-rate", 0, "fraction of events without blob metadata (0 to 1)")

	return cmd
}

func parseSpread(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid --time-spread: %w", err)
	}
	return d, nil
}
