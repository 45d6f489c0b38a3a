// Package config defines the civ7save CLI configuration.
//
// Values come from ~/.civ7save/cli.yaml when it exists, then from
// CIV7SAVE_CLI_* environment variables. Command-line flags override both.
package config
