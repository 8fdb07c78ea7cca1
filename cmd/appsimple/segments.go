package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/csheth/appsimple/internal/typewriter"
)

var segmentsSeed uint64

var segmentsCmd = &cobra.Command{
	Use:   "segments [text]",
	Short: "Print how text is split into typed segments",
	Long: `Prints the segment table the hero animation would type: each run of text,
whether it is a special (linked) token or ends a sentence, its total typing
time and the pause that follows it.

Without an argument the configured typing text is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := cfg.Typing.Options(cfg.Registry())
		if len(args) == 1 {
			opts.Text = args[0]
		}
		opts.Rand = typewriter.NewRand(segmentsSeed)
		return printSegments(cmd.OutOrStdout(), typewriter.Plan(opts))
	},
}

func init() {
	segmentsCmd.Flags().Uint64Var(&segmentsSeed, "seed", 1, "seed for the timing jitter")
}

var (
	segHeaderStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	segSpecialStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff8c00"))
	segMutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

func printSegments(w io.Writer, plan []typewriter.PlannedSegment) error {
	rows := []string{segHeaderStyle.Render(fmt.Sprintf("%-3s %-32s %-8s %-6s %8s %7s", "#", "text", "special", "end", "typing", "pause"))}
	total := 0
	for i, ps := range plan {
		typing := 0
		for _, d := range ps.DelaysMS {
			typing += d
		}
		total += typing + ps.PauseMS
		text := strconv.Quote(ps.Text)
		if len([]rune(text)) > 32 {
			text = string([]rune(text)[:31]) + "…"
		}
		special := ""
		if ps.Special {
			special = "link"
			if ps.Link == nil || ps.Link.URL == "" {
				special = "unlinked"
			}
		}
		end := ""
		if ps.EndOfSentence {
			end = "yes"
		}
		row := fmt.Sprintf("%-3d %-32s %-8s %-6s %6dms %5dms", i, text, special, end, typing, ps.PauseMS)
		if ps.Special {
			row = segSpecialStyle.Render(row)
		}
		rows = append(rows, row)
	}
	rows = append(rows, segMutedStyle.Render(fmt.Sprintf("%d segments, %dms of typing after the initial delay", len(plan), total)))
	_, err := fmt.Fprintln(w, strings.Join(rows, "\n"))
	return err
}
