package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when no entry matches a lookup.
var ErrNotFound = errors.New("journal: entry not found")

// Journal is a persistent record of issued signatures backed by SQLite
type Journal struct {
	db  *sql.DB
	now func() time.Time
}

// Entry represents one signing call in the journal
type Entry struct {
	ID        string
	URL       string
	UserAgent string
	Signature string
	Timestamp int64
	Random    string
	Faulted   bool
	CreatedAt time.Time
}

// Open opens (or creates) the journal database at dbPath.
// ":memory:" gives a throwaway in-memory journal.
func Open(dbPath string) (*Journal, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection keeps in-memory databases consistent
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA busy_timeout = 10000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA journal_mode = WAL",
		"PRAGMA temp_store = MEMORY",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	schema := `
		CREATE TABLE IF NOT EXISTS signatures (
			id TEXT PRIMARY KEY,
			url TEXT NOT NULL,
			user_agent TEXT NOT NULL DEFAULT '',
			signature TEXT NOT NULL,
			timestamp INTEGER NOT NULL,
			random TEXT NOT NULL,
			faulted BOOLEAN NOT NULL DEFAULT 0,
			created_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_signature ON signatures(signature);
		CREATE INDEX IF NOT EXISTS idx_created_at ON signatures(created_at);
	`

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Journal{db: db, now: time.Now}, nil
}

// Close closes the database connection
func (j *Journal) Close() error {
	if j.db != nil {
		return j.db.Close()
	}
	return nil
}

// Record stores e and returns its generated ID.
// ID and CreatedAt on e are ignored.
func (j *Journal) Record(ctx context.Context, e Entry) (string, error) {
	id := uuid.NewString()

	query := `
		INSERT INTO signatures (id, url, user_agent, signature, timestamp, random, faulted, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := j.db.ExecContext(ctx, query,
		id,
		e.URL,
		e.UserAgent,
		e.Signature,
		e.Timestamp,
		e.Random,
		e.Faulted,
		j.now().UnixNano(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert entry: %w", err)
	}

	return id, nil
}

// Recent returns up to limit entries, newest first. A limit <= 0 returns all.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	query := `
		SELECT id, url, user_agent, signature, timestamp, random, faulted, created_at
		FROM signatures
		ORDER BY created_at DESC, rowid DESC
	`

	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := j.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entries: %w", err)
	}

	return entries, nil
}

// FindBySignature returns the most recent entry carrying sig
func (j *Journal) FindBySignature(ctx context.Context, sig string) (*Entry, error) {
	query := `
		SELECT id, url, user_agent, signature, timestamp, random, faulted, created_at
		FROM signatures
		WHERE signature = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT 1
	`

	e, err := scanEntry(j.db.QueryRowContext(ctx, query, sig))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Prune deletes entries recorded more than olderThan ago
func (j *Journal) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := j.now().Add(-olderThan).UnixNano()

	result, err := j.db.ExecContext(ctx, "DELETE FROM signatures WHERE created_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune entries: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rows, nil
}

// Count returns the number of entries in the journal
func (j *Journal) Count(ctx context.Context) (int, error) {
	var count int
	err := j.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM signatures").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count entries: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (Entry, error) {
	var e Entry
	var createdNanos int64

	err := row.Scan(
		&e.ID,
		&e.URL,
		&e.UserAgent,
		&e.Signature,
		&e.Timestamp,
		&e.Random,
		&e.Faulted,
		&createdNanos,
	)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to scan entry: %w", err)
	}

	e.CreatedAt = time.Unix(0, createdNanos)
	return e, nil
}
