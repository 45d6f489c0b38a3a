package config

import "time"

// Default configuration values.
const (
	DefaultHTTPAddr        = "127.0.0.1:5780"
	DefaultMaxBodyBytes    = 64 << 20
	DefaultRateLimit       = 20
	DefaultRateBurst       = 40
	DefaultShutdownTimeout = 10 * time.Second

	DefaultDataDir    = "/var/lib/civ7save-server/index"
	DefaultGCInterval = "10m"

	DefaultCacheMaxCost     = 256 << 20
	DefaultCacheNumCounters = 10_000

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns the default server configuration.
func Default() *ServerConfig {
	return &ServerConfig{
		Server: ServerSection{
			HTTP: HTTPConfig{
				Addr:         DefaultHTTPAddr,
				MaxBodyBytes: DefaultMaxBodyBytes,
				RateLimit:    DefaultRateLimit,
				RateBurst:    DefaultRateBurst,
			},
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		Storage: StorageSection{
			DataDir:    DefaultDataDir,
			GCInterval: DefaultGCInterval,
		},
		Cache: CacheSection{
			MaxCost:     DefaultCacheMaxCost,
			NumCounters: DefaultCacheNumCounters,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
