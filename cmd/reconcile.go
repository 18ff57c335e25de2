package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"kardly-server/app"
	"kardly-server/db"
	"kardly-server/service"
)

var (
	reconcileDryRun    bool
	reconcileOlderThan time.Duration
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Delete uploaded images that no photocard references",
	Long: "Lists the images in the Drive folder that are older than --older-than\n" +
		"(default RECONCILE_GRACE) and deletes those not stored on any photocard.",
	RunE: runReconcile,
}

func init() {
	reconcileCmd.Flags().BoolVar(&reconcileDryRun, "dry-run", false, "report orphans without deleting them")
	reconcileCmd.Flags().DurationVar(&reconcileOlderThan, "older-than", 0, "only consider files older than this (default RECONCILE_GRACE)")
}

func runReconcile(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	olderThan := reconcileOlderThan
	if olderThan == 0 {
		olderThan = cfg.ReconcileGrace
	}

	conn, err := db.Open(ctx, log.Named("db"), cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	reconciler, err := app.NewReconciler(ctx, log, cfg, conn)
	if err != nil {
		return err
	}

	stats, err := reconciler.Sweep(ctx, service.SweepOptions{OlderThan: olderThan, DryRun: reconcileDryRun})
	if err != nil {
		return err
	}

	verb := "deleted"
	if reconcileDryRun {
		verb = "would delete"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "listed %d, referenced %d, skipped %d, %s %d, failed %d\n",
		stats.Listed, stats.Referenced, stats.Skipped, verb, stats.Deleted, stats.Failed)
	if stats.Failed > 0 {
		return fmt.Errorf("%d files could not be reconciled", stats.Failed)
	}
	return nil
}
