// Package config provides configuration management for the beta transformation
// tool. It loads settings from multiple sources, validates them, and exposes a
// typed Config consumed by the CLI and the app runner.
//
// # Configuration Sources
//
// Configuration is resolved in the following order (later wins):
//
//	1. Default() values
//	2. YAML file (betas.yaml, configs/betas.yaml, or BETAS_CONFIG)
//	3. Environment variables
//	4. Command line flags (applied by cmd/transform-betas)
//
// # Environment Variables
//
// All environment variables use the BETAS_ prefix followed by the section:
//
//	BETAS_TRANSFORM_PRECISION=3
//	BETAS_INPUT_SHEET=Sheet1
//	BETAS_OUTPUT_FORMAT=csv
//	BETAS_LOGGING_LEVEL=debug
//	BETAS_TELEMETRY_METRICS_FILE=/var/lib/node_exporter/betas.prom
//
// # Validation
//
// Validate checks struct tags with go-playground/validator: precision in
// [0,15], known output format, distinct sheet names no longer than Excel's 31
// character limit, and a log file path whenever file logging is enabled.
package config
