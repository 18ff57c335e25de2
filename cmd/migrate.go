package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"kardly-server/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the embedded database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		conn, err := db.Open(ctx, log.Named("db"), cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer func() { _ = conn.Close() }()

		names, err := db.MigrationNames()
		if err != nil {
			return err
		}
		if err := db.Migrate(ctx, log.Named("db"), conn); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "applied %d migrations\n", len(names))
		return nil
	},
}
