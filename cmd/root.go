package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"kardly-server/config"
)

var (
	// Loaded by the root command before any subcommand runs
	cfg *config.Config
	log *zap.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:               "kardly",
	Short:             "kardly photocard catalog server",
	SilenceUsage:      true,
	PersistentPreRunE: initializeApp,
	PersistentPostRun: func(*cobra.Command, []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(reconcileCmd)
}

func initializeApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return err
	}

	log, err = newLogger(cfg)
	if err != nil {
		return err
	}
	return nil
}

// newLogger builds a JSON production logger, or a console logger outside production
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
