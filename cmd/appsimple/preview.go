package main

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/csheth/appsimple/internal/showcase"
	"github.com/csheth/appsimple/internal/tui"
	"github.com/csheth/appsimple/internal/typewriter"
)

var (
	noAltScreen bool
	previewText string
	previewSeed uint64
	hyperlinks  bool
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Play the hero typing animation in the terminal",
	Long: `Plays the hero typing animation with the configured timing, then reveals
the option items one by one.

Keys: r restarts, s skips to the end, ? toggles help, q quits.
Logs go to logging.file when set; otherwise they are discarded because the
animation owns the terminal.`,
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().BoolVar(&noAltScreen, "no-alt-screen", false, "disable the alternate screen buffer")
	previewCmd.Flags().StringVar(&previewText, "text", "", "override the typed text")
	previewCmd.Flags().Uint64Var(&previewSeed, "seed", 0, "seed the timing jitter for a repeatable run (0 = random)")
	previewCmd.Flags().BoolVar(&hyperlinks, "hyperlinks", false, "emit OSC 8 terminal hyperlinks")
}

func runPreview(cmd *cobra.Command, args []string) error {
	if cfg.Logging.File != "" {
		if err := buildLogger(); err != nil {
			return err
		}
	} else {
		logger = zap.NewNop()
	}

	opts := cfg.Typing.Options(cfg.Registry())
	if previewText != "" {
		opts.Text = previewText
	}
	if previewSeed != 0 {
		opts.Rand = typewriter.NewRand(previewSeed)
	}

	programOpts := []tea.ProgramOption{}
	if !noAltScreen {
		programOpts = append(programOpts, tea.WithAltScreen())
	}
	program := tea.NewProgram(
		tui.New(tui.Config{
			Typing:     opts,
			Items:      showcase.Build(cfg.Options),
			Stagger:    cfg.Typing.Stagger(),
			Hyperlinks: hyperlinks,
			Logger:     logger,
		}),
		programOpts...,
	)

	started := time.Now()
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("program error: %w", err)
	}
	logger.Debug("preview closed", zap.Duration("elapsed", time.Since(started)))
	return nil
}
