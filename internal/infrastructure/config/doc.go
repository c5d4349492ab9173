// Package config handles loading and validating meetingmap configuration.
//
// This package manages:
//   - Loading configuration from YAML files
//   - Loading a local .env file for development credentials
//   - Overriding with environment variables
//   - Validation of required fields
//
// Security Considerations:
//   - The NLP bearer token and InfluxDB token should be set via environment variables
//   - The config file should have restricted permissions (0600)
//
// Usage:
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.API.Port)
package config
