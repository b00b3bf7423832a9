package main

import (
	"encoding/json"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/BjornMelin/contribux-sub005/health"
)

func newCheckCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Run the runtime self-checks and print the report as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := clientFromEnv(opts)
			if err != nil {
				return err
			}

			report := client.ValidateRuntime(cmd.Context())

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(report); err != nil {
				return err
			}

			if report.Status == health.StatusUnhealthy {
				return errors.New("runtime validation failed")
			}
			return nil
		},
	}
}
