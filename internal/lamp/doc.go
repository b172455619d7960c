// Package lamp owns the state of the four lamps served by lampd.
//
// The lamp set is fixed at build time (lamp1..lamp4) and each lamp is either
// on or off. State lives in a kvstore.Store under "lamps:<name>" as the
// literal string "on" or "off"; nothing is cached in process, so every read
// is a store round trip and concurrent writers are last-write-wins.
//
// Name and Status are closed types: JSON decoding rejects any value outside
// the set, which is how request validation happens before a store write.
//
// Reads come in two strengths:
//   - strict (List, Get): a stored value other than "on"/"off" is ErrMalformedState
//   - lenient (ListHardware by default): anything but "on" is reported as off
//
// After every successful write the registered observers are told about the
// change (WebSocket hub, MQTT, InfluxDB, history).
package lamp
