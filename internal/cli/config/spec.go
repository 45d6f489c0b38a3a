package config

// CLIConfig is the configuration for the civ7save CLI.
type CLIConfig struct {
	// Output is the default output format: table, json or yaml.
	Output string `koanf:"output" yaml:"output"`

	// SavesDir is scanned or watched when no directory argument is given.
	SavesDir string `koanf:"saves_dir" yaml:"saves_dir,omitempty"`

	// IndexDir holds the on-disk save index.
	IndexDir string `koanf:"index_dir" yaml:"index_dir"`

	LogLevel string `koanf:"log_level" yaml:"log_level"`
}

// Default returns the default CLI configuration.
func Default() *CLIConfig {
	return &CLIConfig{
		Output:   "table",
		IndexDir: defaultIndexDir(),
		LogLevel: "warn",
	}
}
