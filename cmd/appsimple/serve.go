package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/csheth/appsimple/internal/site"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the marketing site",
	Long: `Serves the site pages, static assets and the hero typing plan API.
Templates and markdown content are reloaded on change when server.reload is
set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := buildLogger(); err != nil {
			return err
		}
		if serveAddr != "" {
			cfg.Server.Addr = serveAddr
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		server, err := site.NewServer(*cfg, logger)
		if err != nil {
			return err
		}
		logger.Info("serving site", zap.String("addr", cfg.Server.Addr))
		return server.ListenAndServe(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.addr)")
}
