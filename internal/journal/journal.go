package journal

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Outcome values recorded for an entry.
const (
	OutcomeApplied  = "applied"
	OutcomeRejected = "rejected"
)

// Entry is one journal record: which operation ran and how it ended.
type Entry struct {
	ID      string // UUIDv7, assigned at record time
	Seq     int64  // caller-assigned logical sequence number
	Op      string // operation name, e.g. "set", "delete", "rename"
	Target  string // what the operation addressed, e.g. a dotted path
	Outcome string // OutcomeApplied or OutcomeRejected
	Error   string // the rejection error, empty when applied
}

// Journal provides durable storage for invocation outcome records.
// Uses SQLite with WAL mode for concurrent read access.
type Journal struct {
	db  *sql.DB
	ids IDGenerator
}

// Open creates or opens a SQLite journal at the given path.
// Applies required pragmas and the schema automatically.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode (balance durability/performance)
//   - 5-second busy timeout for lock contention
//   - Foreign key enforcement
//
// This function is idempotent - safe to call multiple times.
func Open(path string) (*Journal, error) {
	return OpenWithIDs(path, UUIDv7Generator{})
}

// OpenWithIDs opens a journal with a custom id generator.
// Tests use a FixedGenerator for deterministic ids.
func OpenWithIDs(path string, ids IDGenerator) (*Journal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to journal: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Journal{db: db, ids: ids}, nil
}

// Close closes the underlying database connection.
func (j *Journal) Close() error {
	if j.db == nil {
		return nil
	}
	return j.db.Close()
}

// Record appends an entry to the journal and returns it with its assigned id.
// Entries are immutable once written; duplicate ids are silently ignored.
func (j *Journal) Record(ctx context.Context, entry Entry) (Entry, error) {
	entry.ID = j.ids.Generate()

	_, err := j.db.ExecContext(ctx, `
		INSERT INTO entries (id, seq, op, target, outcome, error)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		entry.ID,
		entry.Seq,
		entry.Op,
		entry.Target,
		entry.Outcome,
		entry.Error,
	)
	if err != nil {
		return Entry{}, fmt.Errorf("record entry: %w", err)
	}

	return entry, nil
}

// List returns all entries with deterministic ordering:
// ORDER BY seq ASC, id ASC COLLATE BINARY.
//
// Returns an empty slice (not nil) when the journal holds no entries.
func (j *Journal) List(ctx context.Context) ([]Entry, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT id, seq, op, target, outcome, error
		FROM entries
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Seq, &e.Op, &e.Target, &e.Outcome, &e.Error); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}

	return entries, nil
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}
