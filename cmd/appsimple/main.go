package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/csheth/appsimple/internal/config"
	"github.com/csheth/appsimple/internal/logging"
)

var (
	// Global flags
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "appsimple",
	Short: "AppSimple marketing site server and hero animation preview",
	Long: `appsimple serves the AppSimple marketing site and previews its hero
typing animation in the terminal.

Configuration is read from a YAML file (--config), then APPSIMPLE_* environment
variables, then command flags.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if verbose {
			loaded.Logging.Level = "debug"
		}
		cfg = loaded
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to the YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(serveCmd, previewCmd, segmentsCmd)
}

// buildLogger initializes the package logger from the loaded config.
func buildLogger() error {
	l, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	logger = l
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "appsimple:", err)
		os.Exit(1)
	}
}
