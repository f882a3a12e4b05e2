package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/jfmyers9/livesign/internal/config"
	"github.com/spf13/cobra"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Print the configuration after merging defaults, the config file and
LIVESIGN_* environment variables.

With --write the effective configuration is saved to
~/.config/livesign/config.yaml, which is a convenient way to create
a starting config file.`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.Flags().Bool("write", false, "Save the effective configuration to the config file")
	configCmd.Flags().Bool("enable-journal", false, "Turn the journal on before printing or saving")
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if enable, _ := cmd.Flags().GetBool("enable-journal"); enable {
		cfg.Journal.Enabled = true
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "user_agent: %s\n", cfg.UserAgent)
	fmt.Fprintf(out, "log_level: %s\n", cfg.LogLevel)
	fmt.Fprintf(out, "history_width: %d\n", cfg.HistoryWidth)
	fmt.Fprintf(out, "journal.enabled: %t\n", cfg.Journal.Enabled)
	fmt.Fprintf(out, "journal.path: %s\n", cfg.Journal.Path)

	if write, _ := cmd.Flags().GetBool("write"); write {
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		fmt.Fprintf(out, "Saved to %s\n", filepath.Join(config.GetConfigDir(), "config.yaml"))
	}

	return nil
}
