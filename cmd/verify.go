package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jfmyers9/livesign/pkg/livesign"
	"github.com/spf13/cobra"
)

// errSignatureMismatch makes verify exit non-zero
var errSignatureMismatch = errors.New("signature does not match")

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify URL",
	Short: "Check a signature against a request URL",
	Long: `Recompute the signature for URL with the given timestamp and nonce and
compare it to --signature.

When --timestamp or --random is omitted, both are looked up in the
journal by signature.

Exit codes:
  0 - Signature is valid
  1 - Signature does not match, or inputs could not be signed`,
	Args: cobra.ExactArgs(1),
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)

	verifyCmd.Flags().StringP("signature", "s", "", "Signature to check")
	verifyCmd.Flags().Int64("timestamp", 0, "Unix timestamp the signature was issued with")
	verifyCmd.Flags().String("random", "", "Nonce the signature was issued with")
	_ = verifyCmd.MarkFlagRequired("signature")
}

func runVerify(cmd *cobra.Command, args []string) error {
	rawURL := args[0]

	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	claimed := livesign.Result{}
	claimed.Signature, _ = cmd.Flags().GetString("signature")
	claimed.Timestamp, _ = cmd.Flags().GetInt64("timestamp")
	claimed.Random, _ = cmd.Flags().GetString("random")

	if !cmd.Flags().Changed("timestamp") || claimed.Random == "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		j, err := openJournal(cfg.Journal.Path)
		if err != nil {
			return err
		}
		defer j.Close()

		entry, err := j.FindBySignature(ctx, claimed.Signature)
		if err != nil {
			return fmt.Errorf("failed to look up signature (pass --timestamp and --random): %w", err)
		}
		logger.Debug().Str("id", entry.ID).Msg("Using journal entry")

		claimed.Timestamp = entry.Timestamp
		claimed.Random = entry.Random
	}

	gen := livesign.New(livesign.Config{Logger: signerLogger{log: logger}})
	ok, err := gen.Verify(rawURL, claimed)
	if err != nil {
		return fmt.Errorf("failed to verify: %w", err)
	}

	if !ok {
		fmt.Fprintln(cmd.OutOrStdout(), "invalid")
		return errSignatureMismatch
	}

	fmt.Fprintln(cmd.OutOrStdout(), "valid")
	return nil
}
