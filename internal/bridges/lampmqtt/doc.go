// Package lampmqtt bridges lamp state to and from MQTT.
//
// Outbound, every lamp change is published as a retained StateMessage on
// lamps/state/<lamp>, so a subscriber always sees the current status.
//
// Inbound, a CommandMessage on lamps/command/<lamp> is applied exactly like
// POST /lamp: the lamp name comes from the topic, the status from the
// payload, and both are validated before the store is written. Invalid
// commands are logged and dropped.
//
//	lamps/command/lamp2  {"status":"on"}
//	lamps/state/lamp2    {"name":"lamp2","status":"on","source":"mqtt","timestamp":"..."}
package lampmqtt
