package kvstore

import (
	"context"
	"fmt"

	"github.com/nerrad567/gray-logic-lamps/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-lamps/internal/infrastructure/database"
)

// Store is a string-valued key-value store.
//
// Thread Safety:
//   - Implementations are safe for concurrent use.
//   - Concurrent writes to the same key are last-write-wins.
type Store interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// HealthCheck reports whether the store is reachable.
	HealthCheck(ctx context.Context) error

	// Close releases resources held by the store.
	Close() error
}

// Open creates the Store selected by cfg.Backend.
//
// Parameters:
//   - ctx: Context bounding the initial connectivity check
//   - cfg: Store configuration
//   - db: Open database, required for the sqlite backend (may be nil otherwise)
//
// Returns:
//   - Store: Ready-to-use store
//   - error: ErrUnsupportedBackend, ErrUnavailable, or a configuration error
func Open(ctx context.Context, cfg config.StoreConfig, db *database.DB) (Store, error) {
	switch cfg.Backend {
	case config.StoreBackendRedis, "":
		return NewRedis(ctx, cfg)
	case config.StoreBackendSQLite:
		if db == nil {
			return nil, fmt.Errorf("sqlite backend: database not open")
		}
		return NewSQLite(db), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedBackend, cfg.Backend)
	}
}

// unavailable wraps a backend failure so callers can match ErrUnavailable
// without seeing driver error types.
func unavailable(op, key string, err error) error {
	return fmt.Errorf("%w: %s %q: %w", ErrUnavailable, op, key, err)
}
