package kvstore

import "errors"

// Sentinel errors for store operations.
//
//	if errors.Is(err, kvstore.ErrUnavailable) {
//	    // store down, report 503
//	}
var (
	// ErrNotFound indicates the key does not exist.
	ErrNotFound = errors.New("kvstore: key not found")

	// ErrUnavailable indicates the store could not be reached or failed the call.
	ErrUnavailable = errors.New("kvstore: store unavailable")

	// ErrUnsupportedBackend indicates store.backend names no known implementation.
	ErrUnsupportedBackend = errors.New("kvstore: unsupported backend")
)
