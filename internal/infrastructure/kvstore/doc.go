// Package kvstore provides the string key-value store holding lamp state.
//
// Two backends implement Store:
//   - Redis (default): a shared network store, selected with store.backend: redis
//   - SQLite: a single-node fallback using the lampd database, store.backend: sqlite
//
// Both map a missing key to ErrNotFound and any transport or driver failure
// to ErrUnavailable, so callers never depend on backend error types.
//
// Every call takes a context; callers are expected to bound it with a deadline
// (store.timeout_ms) so an unreachable store fails fast.
//
// Usage:
//
//	store, err := kvstore.Open(ctx, cfg.Store, db)
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	err = store.Set(ctx, "lamps:lamp1", "off")
package kvstore
