package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// resetFlags restores every flag to its default so rootCmd can be reused
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// runCommand executes rootCmd with args and captures stdout and stderr
func runCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	resetFlags(rootCmd)

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

// isolate points HOME at a fresh directory so config and journal stay local
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

const exampleURL = "https://live.douyin.com/?room_id=123&user_id=abc"

func TestSign_Deterministic(t *testing.T) {
	isolate(t)

	out, _, err := runCommand(t, "sign", exampleURL, "--timestamp", "1700000000", "--random", "abc123def456ghi")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	want := `{"signature":"4b0038dd6553f100","timestamp":1700000000,"random":"abc123def456ghi"}` + "\n"
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestSign_Pretty(t *testing.T) {
	isolate(t)

	out, _, err := runCommand(t, "sign", exampleURL, "--timestamp", "1700000000", "--random", "abc123def456ghi", "--pretty")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if !strings.Contains(out, "\n  \"signature\": \"4b0038dd6553f100\"") {
		t.Errorf("expected indented output, got %q", out)
	}
}

func TestSign_FaultStillPrintsResult(t *testing.T) {
	isolate(t)

	out, stderr, err := runCommand(t, "sign", "https://live.douyin.com/?room_id=%zz", "--timestamp", "1700000000")
	if err != nil {
		t.Fatalf("sign should not fail on a signing fault: %v", err)
	}
	if !strings.HasPrefix(out, `{"signature":"","timestamp":1700000000,"random":"`) {
		t.Errorf("unexpected fallback output %q", out)
	}
	if !strings.Contains(stderr, "query fault") {
		t.Errorf("expected fault to be logged, stderr = %q", stderr)
	}
}

func TestSign_RejectsBadRandomFlag(t *testing.T) {
	isolate(t)

	_, _, err := runCommand(t, "sign", exampleURL, "--random", "NOT-BASE36")
	if err == nil {
		t.Fatal("expected error for invalid --random")
	}
}

func TestJournalFlow(t *testing.T) {
	home := isolate(t)

	if _, _, err := runCommand(t, "sign", exampleURL, "--timestamp", "1700000000", "--random", "abc123def456ghi", "--journal"); err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := os.Stat(filepath.Join(home, ".local", "share", "livesign", "journal.db")); err != nil {
		t.Fatalf("journal not created: %v", err)
	}

	t.Run("history lists the entry", func(t *testing.T) {
		out, _, err := runCommand(t, "history")
		if err != nil {
			t.Fatalf("history: %v", err)
		}
		if !strings.Contains(out, "4b0038dd6553f100") {
			t.Errorf("history missing signature:\n%s", out)
		}
		if !strings.HasPrefix(out, "CREATED") {
			t.Errorf("history missing header:\n%s", out)
		}
	})

	t.Run("verify from journal", func(t *testing.T) {
		out, _, err := runCommand(t, "verify", exampleURL, "--signature", "4b0038dd6553f100")
		if err != nil {
			t.Fatalf("verify: %v", err)
		}
		if out != "valid\n" {
			t.Errorf("output = %q, want valid", out)
		}
	})

	t.Run("verify unknown signature", func(t *testing.T) {
		_, _, err := runCommand(t, "verify", exampleURL, "--signature", "deadbeef")
		if err == nil {
			t.Fatal("expected lookup error")
		}
	})

	t.Run("prune removes everything", func(t *testing.T) {
		out, _, err := runCommand(t, "history", "--prune", "1ns")
		if err != nil {
			t.Fatalf("history --prune: %v", err)
		}
		if !strings.Contains(out, "No signatures recorded") {
			t.Errorf("expected empty history after prune:\n%s", out)
		}
	})
}

func TestSign_JournalDisabledByDefault(t *testing.T) {
	home := isolate(t)

	if _, _, err := runCommand(t, "sign", exampleURL); err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := os.Stat(filepath.Join(home, ".local", "share", "livesign", "journal.db")); !os.IsNotExist(err) {
		t.Errorf("journal should not be created without --journal, stat err = %v", err)
	}
}

func TestVerify(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantOut string
		wantErr error
	}{
		{
			name:    "valid",
			args:    []string{"verify", exampleURL, "-s", "4b0038dd6553f100", "--timestamp", "1700000000", "--random", "abc123def456ghi"},
			wantOut: "valid\n",
		},
		{
			name:    "reordered parameters",
			args:    []string{"verify", "https://live.douyin.com/?user_id=abc&room_id=123", "-s", "4b0038dd6553f100", "--timestamp", "1700000000", "--random", "abc123def456ghi"},
			wantOut: "valid\n",
		},
		{
			name:    "wrong timestamp",
			args:    []string{"verify", exampleURL, "-s", "4b0038dd6553f100", "--timestamp", "1700000001", "--random", "abc123def456ghi"},
			wantOut: "invalid\n",
			wantErr: errSignatureMismatch,
		},
		{
			name:    "tampered url",
			args:    []string{"verify", "https://live.douyin.com/?room_id=999&user_id=abc", "-s", "4b0038dd6553f100", "--timestamp", "1700000000", "--random", "abc123def456ghi"},
			wantOut: "invalid\n",
			wantErr: errSignatureMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)

			out, _, err := runCommand(t, tt.args...)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected error %v, got %v", tt.wantErr, err)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if out != tt.wantOut {
				t.Errorf("output = %q, want %q", out, tt.wantOut)
			}
		})
	}
}

func TestConfig_Write(t *testing.T) {
	home := isolate(t)
	t.Setenv("LIVESIGN_USER_AGENT", "cli-test-agent")

	out, _, err := runCommand(t, "config", "--write", "--enable-journal")
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	if !strings.Contains(out, "user_agent: cli-test-agent") {
		t.Errorf("expected env override in output:\n%s", out)
	}
	if !strings.Contains(out, "journal.enabled: true") {
		t.Errorf("expected journal enabled in output:\n%s", out)
	}

	data, err := os.ReadFile(filepath.Join(home, ".config", "livesign", "config.yaml"))
	if err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if !strings.Contains(string(data), "cli-test-agent") {
		t.Errorf("config file missing user agent:\n%s", data)
	}
}
