package lamp

import "errors"

// Domain errors for the lamp package.
//
//	if errors.Is(err, lamp.ErrStoreUnavailable) {
//	    // respond 503
//	}
var (
	// ErrUnknownLamp is returned when a name is not one of the registry lamps.
	ErrUnknownLamp = errors.New("lamp: unknown lamp")

	// ErrInvalidStatus is returned when a status is neither "on" nor "off".
	ErrInvalidStatus = errors.New("lamp: invalid status")

	// ErrMalformedState is returned when the store holds a value that is not a
	// status, or holds nothing at all for a registry lamp.
	ErrMalformedState = errors.New("lamp: malformed stored state")

	// ErrStoreUnavailable is returned when the store cannot be reached.
	ErrStoreUnavailable = errors.New("lamp: store unavailable")
)
