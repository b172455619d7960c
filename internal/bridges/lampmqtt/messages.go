package lampmqtt

import (
	"time"

	"github.com/nerrad567/gray-logic-lamps/internal/lamp"
)

// CommandMessage requests a lamp status.
// Topic: lamps/command/{lamp}
type CommandMessage struct {
	Status lamp.Status `json:"status"`
}

// StateMessage reports a lamp's status after a change.
// Topic: lamps/state/{lamp} (retained)
type StateMessage struct {
	Name      lamp.Name   `json:"name"`
	Status    lamp.Status `json:"status"`
	Source    string      `json:"source"`
	Timestamp time.Time   `json:"timestamp"`
}

func stateMessage(c lamp.Change) StateMessage {
	return StateMessage{
		Name:      c.Name,
		Status:    c.Status,
		Source:    c.Source,
		Timestamp: c.At.UTC(),
	}
}
