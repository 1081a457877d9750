// Package cli provides the command-line interface for leapdal.
package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapdal/internal/cli/commands"
	"github.com/leapstack-labs/leapdal/internal/cli/config"

	// Register the bundled drivers.
	_ "github.com/leapstack-labs/leapdal/pkg/drivers/duckdb"
	_ "github.com/leapstack-labs/leapdal/pkg/drivers/postgres"
	_ "github.com/leapstack-labs/leapdal/pkg/drivers/sqlite"
)

// Version information (set at build time).
var (
	Version = "0.1.0"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var cfgFile string
	rt := &commands.Runtime{}

	rootCmd := &cobra.Command{
		Use:   "leapdal",
		Short: "leapdal - database-agnostic data access",
		Long: `leapdal is a database-agnostic data-access layer over pluggable SQL
drivers, with reference-counted connection lifecycle, security-filter
injection, and packetized streaming of large result sets.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.Load(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			level := slog.LevelInfo
			if cfg.Verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

			if cfg.Verbose && config.FileUsed() != "" {
				logger.Debug("using config file", slog.String("path", config.FileUsed()))
			}

			rt.Config = cfg
			rt.Logger = logger
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default leapdal.yaml)")
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable debug logging")

	rootCmd.AddCommand(
		commands.NewQueryCommand(rt),
		commands.NewSelectCommand(rt),
		commands.NewCountCommand(rt),
		commands.NewTablesCommand(rt),
		commands.NewVersionCommand(Version),
	)

	return rootCmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
