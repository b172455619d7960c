package lamp

import (
	"context"
	"time"
)

// History query bounds.
const (
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 200
)

// HistoryEntry is one recorded status change.
type HistoryEntry struct {
	ID        int64     `json:"id"`
	Lamp      Name      `json:"lamp"`
	Status    Status    `json:"status"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}

// HistoryRepository stores and retrieves lamp status changes.
//
// Implementations must be thread-safe and use UTC timestamps.
type HistoryRepository interface {
	// Record appends a status change.
	Record(ctx context.Context, change Change) error

	// Recent returns up to limit changes for the lamp recorded after since,
	// newest first. A zero since means no lower bound. Implementations may
	// clamp limit.
	Recent(ctx context.Context, name Name, since time.Time, limit int) ([]HistoryEntry, error)
}

// HistoryObserver returns an Observer that records every change in repo.
// Failures are logged; they never fail the write that triggered them.
func HistoryObserver(repo HistoryRepository, logger Logger) Observer {
	if logger == nil {
		logger = noopLogger{}
	}
	return ObserverFunc(func(ctx context.Context, change Change) {
		if err := repo.Record(context.WithoutCancel(ctx), change); err != nil {
			logger.Warn("recording lamp history failed", "lamp", change.Name, "error", err)
		}
	})
}
