package mqtt

import "strings"

// TopicPrefix is the root of every lampd topic.
const TopicPrefix = "lamps"

// Topic kinds under TopicPrefix.
const (
	KindState   = "state"
	KindCommand = "command"
	KindSystem  = "system"
)

// Topics builds lampd MQTT topics.
//
//	lamps/state/<lamp>    retained current status, published by lampd
//	lamps/command/<lamp>  requested status, consumed by lampd
//	lamps/system/status   retained online/offline status of lampd (LWT)
type Topics struct{}

// LampState returns the retained state topic for a lamp.
//
// Example: lamps/state/lamp1
func (Topics) LampState(name string) string {
	return TopicPrefix + "/" + KindState + "/" + name
}

// LampCommand returns the command topic for a lamp.
//
// Example: lamps/command/lamp1
func (Topics) LampCommand(name string) string {
	return TopicPrefix + "/" + KindCommand + "/" + name
}

// AllLampCommands returns the wildcard matching every lamp command topic.
func (Topics) AllLampCommands() string {
	return TopicPrefix + "/" + KindCommand + "/+"
}

// SystemStatus returns the lampd availability topic.
func (Topics) SystemStatus() string {
	return TopicPrefix + "/" + KindSystem + "/status"
}

// ParseLampTopic splits a lamp topic into its kind and lamp name.
// ok is false for topics outside the lamps/<kind>/<name> scheme.
func ParseLampTopic(topic string) (kind, name string, ok bool) {
	parts := strings.Split(topic, "/")
	if len(parts) != 3 || parts[0] != TopicPrefix || parts[2] == "" {
		return "", "", false
	}
	switch parts[1] {
	case KindState, KindCommand:
		return parts[1], parts[2], true
	default:
		return "", "", false
	}
}
