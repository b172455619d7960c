package lampmqtt

import "errors"

var (
	// ErrInvalidTopic is returned for a message outside lamps/command/<lamp>.
	ErrInvalidTopic = errors.New("lampmqtt: invalid topic")

	// ErrInvalidCommand is returned when a command payload cannot be applied.
	ErrInvalidCommand = errors.New("lampmqtt: invalid command")
)
