package lamp

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// keyPrefix namespaces lamp keys in the shared store.
const keyPrefix = "lamps:"

// Name identifies one of the registry lamps.
type Name string

// Registry lamps.
const (
	Lamp1 Name = "lamp1"
	Lamp2 Name = "lamp2"
	Lamp3 Name = "lamp3"
	Lamp4 Name = "lamp4"
)

// ParseName returns the Name for s, or ErrUnknownLamp.
func ParseName(s string) (Name, error) {
	n := Name(s)
	if !n.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownLamp, s)
	}
	return n, nil
}

// Valid reports whether n is a registry lamp.
func (n Name) Valid() bool {
	for _, r := range registry {
		if n == r {
			return true
		}
	}
	return false
}

// Key returns the store key holding the lamp's status.
func (n Name) Key() string {
	return keyPrefix + string(n)
}

// Number returns the trailing numeral of the name ("3" for lamp3).
func (n Name) Number() string {
	return strings.TrimPrefix(string(n), "lamp")
}

// UnmarshalJSON rejects names outside the registry.
func (n *Name) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: name must be a string", ErrUnknownLamp)
	}
	parsed, err := ParseName(s)
	if err != nil {
		return err
	}
	*n = parsed
	return nil
}

// Status is the on/off state of a lamp.
type Status string

// Lamp statuses. These are also the literal stored values.
const (
	StatusOn  Status = "on"
	StatusOff Status = "off"
)

// ParseStatus returns the Status for s, or ErrInvalidStatus.
// Matching is exact: "ON" and " on" are rejected.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusOn, StatusOff:
		return Status(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
}

// UnmarshalJSON rejects statuses other than "on" and "off".
func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: status must be a string", ErrInvalidStatus)
	}
	parsed, err := ParseStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Lamp is the API representation of a lamp and its status.
type Lamp struct {
	Name   Name   `json:"name"`
	Status Status `json:"status"`
}

// Validate checks that both fields hold values from their closed sets.
// Decoding already enforces this; Validate covers zero values (missing fields).
func (l Lamp) Validate() error {
	if !l.Name.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownLamp, l.Name)
	}
	if _, err := ParseStatus(string(l.Status)); err != nil {
		return err
	}
	return nil
}

// HardwareLamp is the compact projection served to the microcontroller client.
type HardwareLamp struct {
	// D is the lamp number, e.g. "1".
	D string `json:"d"`

	// S is "1" for on and "0" otherwise.
	S string `json:"s"`
}

// hardware projects a raw stored value. Anything but exactly "on" is "0".
func hardware(n Name, raw string) HardwareLamp {
	s := "0"
	if Status(raw) == StatusOn {
		s = "1"
	}
	return HardwareLamp{D: n.Number(), S: s}
}

// Change sources.
const (
	SourceAPI     = "api"
	SourceMQTT    = "mqtt"
	SourceStartup = "startup"
)

// Change describes a successful status write.
type Change struct {
	Lamp
	Source string    `json:"source"`
	At     time.Time `json:"at"`
}
