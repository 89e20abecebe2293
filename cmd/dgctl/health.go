package main

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"
)

func newHealthCmd(serverURL *string) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check liveness and readiness of a running relay",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := &http.Client{Timeout: 10 * time.Second}

			failed := false
			for _, path := range []string{"/healthz", "/readyz"} {
				req, err := http.NewRequestWithContext(cmd.Context(), http.MethodGet, *serverURL+path, nil)
				if err != nil {
					return err
				}

				resp, err := client.Do(req)
				if err != nil {
					fmt.Printf("%-10s unreachable: %v\n", path, err)
					failed = true
					continue
				}
				body, _ := io.ReadAll(resp.Body)
				resp.Body.Close()

				fmt.Printf("%-10s %d %s\n", path, resp.StatusCode, string(body))
				if resp.StatusCode != http.StatusOK {
					failed = true
				}
			}

			if failed {
				return fmt.Errorf("relay at %s is not healthy", *serverURL)
			}
			return nil
		},
	}
}
