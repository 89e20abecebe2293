package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var serverURL string
	var token string

	cmd := &cobra.Command{
		Use:   "dgctl",
		Short: "Dropgate relay operations CLI",
		Long: `dgctl drives a running Dropgate relay: post blob-created
notifications, seed synthetic traffic, sign webhook tokens and inspect
the dead letter queue.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Version = "0.1.0"
	cmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8092", "relay base URL")
	cmd.PersistentFlags().StringVar(&token, "token", "", "bearer token for the webhook endpoint")

	cmd.AddCommand(
		newSendCmd(&serverURL, &token),
		newSeedCmd(&serverURL, &token),
		newDLQCmd(),
		newTokenCmd(),
		newHealthCmd(&serverURL),
	)

	return cmd
}
