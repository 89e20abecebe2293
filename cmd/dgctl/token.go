package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dropgate-systems/dropgate/internal/auth"
)

func newTokenCmd() *cobra.Command {
	var (
		secret string
		source string
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Sign a bearer token for the webhook endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				return fmt.Errorf("--secret is required")
			}

			token, err := auth.NewVerifier(secret).Sign(source, ttl)
			if err != nil {
				return fmt.Errorf("signing token: %w", err)
			}

			fmt.Println(token)
			return nil
		},
	}

	cmd.Flags().StringVar(&secret, "secret", "", "shared signing secret (matches the relay's auth.secret)")
	cmd.Flags().StringVar(&source, "source", "eventgrid", "subject recorded in the token")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")

	return cmd
}
