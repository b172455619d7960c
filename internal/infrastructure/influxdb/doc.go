// Package influxdb records lamp state changes in InfluxDB 2.x.
//
// It wraps the official influxdb-client-go v2 library. Recording is optional
// (influxdb.enabled) and never on the request path: points are batched by
// the non-blocking WriteAPI and write failures arrive via SetOnError.
//
// # Usage
//
//	client, err := influxdb.Connect(ctx, cfg.InfluxDB)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	client.WriteLampState("lamp2", "on", "api", time.Now())
//
// Each change becomes a point in the lamp_state measurement, tagged by lamp
// and source, with fields status ("on"/"off") and on (1/0).
package influxdb
