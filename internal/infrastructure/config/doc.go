// Package config handles loading and validating lampd configuration.
//
// This package manages:
//   - Loading configuration from YAML files
//   - Overriding with environment variables (LAMPD_*, plus REDIS_URL)
//   - Validation of required fields
//   - Default value handling
//
// Security Considerations:
//   - Credentials embedded in store.url and the MQTT/InfluxDB secrets should be
//     supplied through environment variables rather than the config file
//
// Usage:
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Store.URL)
package config
