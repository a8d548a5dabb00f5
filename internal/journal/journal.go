// Package journal keeps an append-only audit trail of executed engine
// operations in a local SQLite database. The journal is supplemental: a
// failed append is logged by the caller and never rolls back an applied
// operation.
package journal

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // Import the sqlite3 driver
)

// Entry records one executed operation.
type Entry struct {
	ID           string
	SessionID    string
	Timestamp    time.Time
	Op           string
	PositionID   string
	Mark         float64
	Amount       float64
	BalanceAfter float64
}

// Journal wraps the SQLite connection.
type Journal struct {
	db *sql.DB
}

// Open initializes the journal database, creating tables as needed.
func Open(dataSourceName string) (*Journal, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal database: %w", err)
	}

	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to journal database: %w", err)
	}

	if err = createTables(db); err != nil {
		return nil, fmt.Errorf("failed to create journal tables: %w", err)
	}

	return &Journal{db: db}, nil
}

// createTables creates the journal tables if they don't exist.
func createTables(db *sql.DB) error {
	// Entries table stores one row per executed engine operation.
	createEntriesTableSQL := `
	CREATE TABLE IF NOT EXISTS entries (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		timestamp INTEGER NOT NULL,
		op TEXT NOT NULL,
		position_id TEXT,
		mark REAL,
		amount REAL,
		balance_after REAL NOT NULL
	);`

	if _, err := db.Exec(createEntriesTableSQL); err != nil {
		return err
	}

	// Metadata table stores simple key-value metadata, currently just the
	// active session id.
	createMetadataTableSQL := `
	CREATE TABLE IF NOT EXISTS journal_metadata (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);`
	if _, err := db.Exec(createMetadataTableSQL); err != nil {
		return err
	}

	return nil
}

// CurrentSession returns the active session id, minting one if the
// journal has never seen a session.
func (j *Journal) CurrentSession() (string, error) {
	var id string
	err := j.db.QueryRow("SELECT value FROM journal_metadata WHERE key = 'session_id'").Scan(&id)
	if err == sql.ErrNoRows {
		return j.RotateSession()
	}
	if err != nil {
		return "", fmt.Errorf("failed to read session id: %w", err)
	}
	return id, nil
}

// RotateSession mints a new session id and makes it active. Called when a
// session is initialized or reset so journal entries group per session.
func (j *Journal) RotateSession() (string, error) {
	id := uuid.NewString()
	query := `
	INSERT INTO journal_metadata (key, value) VALUES ('session_id', ?)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value;`
	if _, err := j.db.Exec(query, id); err != nil {
		return "", fmt.Errorf("failed to rotate session id: %w", err)
	}
	return id, nil
}

// Append inserts a new entry. A missing entry id is assigned.
func (j *Journal) Append(e Entry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}

	query := `
	INSERT INTO entries (id, session_id, timestamp, op, position_id, mark, amount, balance_after)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := j.db.Exec(query,
		e.ID, e.SessionID, e.Timestamp.UnixMilli(), e.Op,
		e.PositionID, e.Mark, e.Amount, e.BalanceAfter,
	)
	if err != nil {
		return fmt.Errorf("failed to insert journal entry %s: %w", e.ID, err)
	}
	return nil
}

// List retrieves up to limit entries for a session, most recent first.
// A non-positive limit returns everything.
func (j *Journal) List(sessionID string, limit int) ([]Entry, error) {
	query := `
	SELECT id, session_id, timestamp, op, position_id, mark, amount, balance_after
	FROM entries
	WHERE session_id = ?
	ORDER BY timestamp DESC, rowid DESC`
	args := []interface{}{sessionID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := j.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var ts int64
		if err := rows.Scan(
			&e.ID, &e.SessionID, &ts, &e.Op,
			&e.PositionID, &e.Mark, &e.Amount, &e.BalanceAfter,
		); err != nil {
			return nil, fmt.Errorf("failed to scan journal entry row: %w", err)
		}
		e.Timestamp = time.UnixMilli(ts)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Clear removes every entry of the given session.
func (j *Journal) Clear(sessionID string) error {
	if _, err := j.db.Exec("DELETE FROM entries WHERE session_id = ?", sessionID); err != nil {
		return fmt.Errorf("failed to clear journal entries: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (j *Journal) Close() error {
	return j.db.Close()
}
