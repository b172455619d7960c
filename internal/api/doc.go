// Package api implements the HTTP REST API and WebSocket server for lampd.
//
// This package provides:
//   - REST endpoints for reading and updating lamp state
//   - The compact hardware endpoint (GET /ard) for the microcontroller client
//   - Per-lamp change history when history is enabled
//   - WebSocket hub for real-time lamp change broadcasts
//   - Middleware stack (request ID, logging, recovery, CORS, body limit)
//   - TLS support for production deployments
//
// # Routes
//
//	GET  /lamps                all lamps, registry order
//	GET  /ard                  all lamps as {d, s}; only if api.hardware.enabled
//	POST /lamp                 set one lamp: {"name":"lamp2","status":"on"}
//	GET  /lamp/{name}          one lamp
//	GET  /lamp/{name}/history  recent changes; only if history.enabled
//	GET  /health               store reachability
//	GET  /metrics              runtime, WebSocket, MQTT and database stats
//	GET  /ws                   WebSocket; only if websocket.enabled
//
// # Errors
//
// Every error is a JSON Error{status, code, message}. Store addresses and
// driver errors are logged, never returned.
package api
