// Package mqtt connects lampd to an MQTT broker.
//
// MQTT is optional (mqtt.enabled). When enabled, lampd publishes every lamp
// change as a retained message on lamps/state/<lamp> and accepts commands on
// lamps/command/<lamp>; see the lampmqtt bridge for the payloads.
//
// The client provides:
//   - Auto-reconnect with subscription restoration
//   - Last Will and Testament on lamps/system/status for offline detection
//   - Panic recovery around message handlers
//
// # Security Considerations
//
//   - Use TLS (mqtt.broker.tls) outside a trusted network
//   - Credentials come from config or LAMPD_MQTT_USERNAME/LAMPD_MQTT_PASSWORD
//
// # Usage
//
//	client, err := mqtt.Connect(ctx, cfg.MQTT)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	err = client.PublishRetained(mqtt.Topics{}.LampState("lamp1"), []byte(`{"status":"on"}`))
package mqtt
