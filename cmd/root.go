/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>

*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

// logLevel overrides the configured log level when non-empty
var logLevel string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "livesign",
	Short: "Request signer for live-room API calls",
	Long: `livesign computes request signatures for live-room API URLs.

A signature is derived from the sorted query parameters of the URL,
the current Unix time and a random 15 character base-36 nonce. The
result is printed as JSON so it can be fed straight into other tools.

Issued signatures can optionally be recorded in a local journal and
checked again later with the verify command.`,
	Version:      fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error; default from config)")
}
