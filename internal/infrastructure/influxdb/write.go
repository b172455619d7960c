package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// MeasurementLampState is the measurement holding lamp status changes.
const MeasurementLampState = "lamp_state"

// WriteLampState records a lamp status change.
//
// The point is tagged by lamp and source and carries two fields: "status"
// (the literal "on"/"off") and "on" (1 or 0) for graphing. The write is
// non-blocking and batched.
//
// Parameters:
//   - lamp: Lamp name, e.g. "lamp2"
//   - status: "on" or "off"
//   - source: Origin of the change (api, mqtt, startup)
//   - at: Time of the change
func (c *Client) WriteLampState(lamp, status, source string, at time.Time) {
	if !c.IsConnected() {
		return
	}
	c.writeAPI.WritePoint(lampStatePoint(lamp, status, source, at))
}

func lampStatePoint(lamp, status, source string, at time.Time) *write.Point {
	on := 0
	if status == "on" {
		on = 1
	}
	if at.IsZero() {
		at = time.Now()
	}
	return write.NewPoint(
		MeasurementLampState,
		map[string]string{
			"lamp":   lamp,
			"source": source,
		},
		map[string]interface{}{
			"status": status,
			"on":     on,
		},
		at,
	)
}
