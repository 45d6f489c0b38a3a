// Package config defines the civ7save-server configuration.
//
//   - spec.go: ServerConfig struct definition
//   - default.go: default values
//   - verify.go: validation run after loading
//
// Configuration is loaded via internal/infra/confloader from a YAML file
// and CIV7SAVE_* environment variables.
package config
