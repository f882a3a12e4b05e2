package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jfmyers9/livesign/internal/journal"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
)

const (
	createdWidth   = 19
	signatureWidth = 18
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recently issued signatures",
	Long: `List signatures recorded in the journal, newest first.

Signatures are recorded by "livesign sign --journal", or by every sign
call when journal.enabled is set in ~/.config/livesign/config.yaml.

Use --prune to drop entries older than a duration before listing,
e.g. --prune 168h.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntP("limit", "n", 20, "Maximum number of entries to show (0=all)")
	historyCmd.Flags().Duration("prune", 0, "Delete entries older than this before listing")
	historyCmd.Flags().IntP("width", "w", 0, "URL column width (overrides config)")
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	j, err := openJournal(cfg.Journal.Path)
	if err != nil {
		return err
	}
	defer j.Close()

	if prune, _ := cmd.Flags().GetDuration("prune"); prune > 0 {
		removed, err := j.Prune(ctx, prune)
		if err != nil {
			return err
		}
		logger.Info().Int64("removed", removed).Dur("older_than", prune).Msg("Pruned journal")
	}

	limit, _ := cmd.Flags().GetInt("limit")
	entries, err := j.Recent(ctx, limit)
	if err != nil {
		return err
	}

	width, _ := cmd.Flags().GetInt("width")
	if width == 0 {
		width = cfg.HistoryWidth
	}

	writeHistory(cmd.OutOrStdout(), entries, width)
	return nil
}

// writeHistory renders entries as a fixed-width table
func writeHistory(w io.Writer, entries []journal.Entry, urlWidth int) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No signatures recorded")
		return
	}

	header := strings.Join([]string{
		padToWidth("CREATED", createdWidth),
		padToWidth("SIGNATURE", signatureWidth),
		padToWidth("URL", urlWidth),
		"STATUS",
	}, "  ")
	fmt.Fprintln(w, strings.TrimRight(header, " "))

	for _, e := range entries {
		status := "ok"
		if e.Faulted {
			status = "fault"
		}
		sig := e.Signature
		if sig == "" {
			sig = "-"
		}

		row := strings.Join([]string{
			padToWidth(e.CreatedAt.Local().Format("2006-01-02 15:04:05"), createdWidth),
			padToWidth(sig, signatureWidth),
			padToWidth(e.URL, urlWidth),
			status,
		}, "  ")
		fmt.Fprintln(w, row)
	}
}

// padToWidth pads or truncates text to a fixed display width.
// Width is measured in display columns, accounting for Unicode characters.
// If width <= 0, returns text unchanged.
// If text is longer than width, truncates with "..." suffix.
// If text is shorter than width, pads with spaces.
func padToWidth(text string, width int) string {
	if width <= 0 {
		return text
	}

	currentWidth := runewidth.StringWidth(text)

	if currentWidth > width {
		ellipsis := "..."
		ellipsisWidth := runewidth.StringWidth(ellipsis)

		if width <= ellipsisWidth {
			return runewidth.Truncate(ellipsis, width, "")
		}

		// Truncate to (width - ellipsisWidth) and add ellipsis
		result := runewidth.Truncate(text, width-ellipsisWidth, "") + ellipsis

		// A wide rune may leave the result one column short
		if resultWidth := runewidth.StringWidth(result); resultWidth < width {
			return result + strings.Repeat(" ", width-resultWidth)
		}
		return result
	} else if currentWidth < width {
		return text + strings.Repeat(" ", width-currentWidth)
	}

	return text
}
