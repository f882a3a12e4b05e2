package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jfmyers9/livesign/internal/journal"
)

// openJournal opens the journal at path, creating its directory if needed
func openJournal(path string) (*journal.Journal, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create journal directory: %w", err)
		}
	}

	j, err := journal.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	return j, nil
}
