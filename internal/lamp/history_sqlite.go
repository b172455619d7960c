package lamp

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// historyTimeFormat is fixed width so created_at sorts and compares lexically.
const historyTimeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteHistory implements HistoryRepository on the lamp_history table.
type SQLiteHistory struct {
	db *sql.DB
}

// NewSQLiteHistory creates a history repository over an open, migrated database.
func NewSQLiteHistory(db *sql.DB) *SQLiteHistory {
	return &SQLiteHistory{db: db}
}

// Record inserts a change. A zero timestamp is recorded as now.
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//   - change: Completed status change
//
// Returns:
//   - error: nil on success, otherwise the validation or database error
func (r *SQLiteHistory) Record(ctx context.Context, change Change) error {
	if err := change.Validate(); err != nil {
		return err
	}
	source := change.Source
	if source == "" {
		source = SourceAPI
	}
	at := change.At
	if at.IsZero() {
		at = time.Now()
	}

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO lamp_history (lamp, status, source, created_at) VALUES (?, ?, ?, ?)",
		string(change.Name),
		string(change.Status),
		source,
		at.UTC().Format(historyTimeFormat),
	)
	if err != nil {
		return fmt.Errorf("inserting lamp history: %w", err)
	}
	return nil
}

// Recent returns the latest changes for a lamp, newest first.
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//   - name: Registry lamp
//   - since: Only changes strictly after this instant; zero for all
//   - limit: Maximum entries (default 50, max 200), applied after since
//
// Returns:
//   - []HistoryEntry: Entries ordered newest first (may be empty)
//   - error: ErrUnknownLamp or the underlying query error
func (r *SQLiteHistory) Recent(ctx context.Context, name Name, since time.Time, limit int) ([]HistoryEntry, error) {
	if !name.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLamp, name)
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}

	// Zero since formats as year 0001 and excludes nothing.
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, lamp, status, source, created_at
		 FROM lamp_history
		 WHERE lamp = ? AND created_at > ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		string(name),
		since.UTC().Format(historyTimeFormat),
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying lamp history: %w", err)
	}
	defer rows.Close()

	entries := make([]HistoryEntry, 0, limit)
	for rows.Next() {
		var (
			entry     HistoryEntry
			lamp      string
			status    string
			createdAt string
		)
		if err := rows.Scan(&entry.ID, &lamp, &status, &entry.Source, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning lamp history: %w", err)
		}
		entry.Lamp = Name(lamp)
		entry.Status = Status(status)

		entry.CreatedAt, err = time.Parse(historyTimeFormat, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating lamp history: %w", err)
	}
	return entries, nil
}
