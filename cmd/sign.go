package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jfmyers9/livesign/internal/journal"
	"github.com/jfmyers9/livesign/pkg/livesign"
	"github.com/spf13/cobra"
)

// signCmd represents the sign command
var signCmd = &cobra.Command{
	Use:   "sign URL",
	Short: "Generate a signature for a request URL",
	Long: `Generate a signature for a request URL and print it as JSON:

  {"signature":"4b0038dd6553f100","timestamp":1700000000,"random":"abc123def456ghi"}

The clock and nonce can be pinned with --timestamp and --random, which
makes the output reproducible.

If the URL cannot be signed (for example a value holds a malformed
percent escape) the error is logged to stderr and a result with an
empty signature is still printed.`,
	Args: cobra.ExactArgs(1),
	RunE: runSign,
}

func init() {
	rootCmd.AddCommand(signCmd)

	signCmd.Flags().StringP("user-agent", "u", "", "User agent to sign with (overrides config)")
	signCmd.Flags().Int64("timestamp", 0, "Fixed Unix timestamp instead of the wall clock")
	signCmd.Flags().String("random", "", "Fixed 15 character base-36 nonce")
	signCmd.Flags().Bool("pretty", false, "Indent JSON output")
	signCmd.Flags().Bool("journal", false, "Record the result in the journal (overrides config)")
}

func runSign(cmd *cobra.Command, args []string) error {
	rawURL := args[0]

	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	userAgent, _ := cmd.Flags().GetString("user-agent")
	if userAgent == "" {
		userAgent = cfg.UserAgent
	}

	faulted := false
	genCfg := livesign.Config{
		Logger:  signerLogger{log: logger},
		OnFault: func(error) { faulted = true },
	}

	if cmd.Flags().Changed("timestamp") {
		ts, _ := cmd.Flags().GetInt64("timestamp")
		genCfg.Clock = livesign.FixedClock(time.Unix(ts, 0))
	}
	if random, _ := cmd.Flags().GetString("random"); random != "" {
		if !livesign.ValidToken(random) {
			return fmt.Errorf("invalid --random %q: want %d characters of [0-9a-z]", random, livesign.TokenLength)
		}
		genCfg.Random = livesign.FixedToken(random)
	}

	res := livesign.New(genCfg).Generate(rawURL, userAgent)

	pretty, _ := cmd.Flags().GetBool("pretty")
	if err := writeResult(cmd, res, pretty); err != nil {
		return err
	}

	record := cfg.Journal.Enabled
	if cmd.Flags().Changed("journal") {
		record, _ = cmd.Flags().GetBool("journal")
	}
	if !record {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	j, err := openJournal(cfg.Journal.Path)
	if err != nil {
		logger.Warn().Err(err).Msg("Journal unavailable, result not recorded")
		return nil
	}
	defer j.Close()

	id, err := j.Record(ctx, journal.Entry{
		URL:       rawURL,
		UserAgent: userAgent,
		Signature: res.Signature,
		Timestamp: res.Timestamp,
		Random:    res.Random,
		Faulted:   faulted,
	})
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to record signature")
		return nil
	}

	logger.Debug().Str("id", id).Str("path", cfg.Journal.Path).Msg("Recorded signature")
	return nil
}

// writeResult prints res as a single JSON document
func writeResult(cmd *cobra.Command, res livesign.Result, pretty bool) error {
	var (
		data []byte
		err  error
	)
	if pretty {
		data, err = json.MarshalIndent(res, "", "  ")
	} else {
		data, err = json.Marshal(res)
	}
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
