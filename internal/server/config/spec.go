package config

import "time"

// ServerConfig is the root configuration for civ7save-server.
type ServerConfig struct {
	Server  ServerSection  `koanf:"server"`
	Storage StorageSection `koanf:"storage"`
	Cache   CacheSection   `koanf:"cache"`
	Log     LogSection     `koanf:"log"`
}

// ServerSection configures server endpoints.
type ServerSection struct {
	HTTP HTTPConfig `koanf:"http"`

	// ShutdownTimeout bounds how long in-flight requests may run after a
	// shutdown signal.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// HTTPConfig configures the HTTP server.
type HTTPConfig struct {
	Addr        string `koanf:"addr"`
	TLSCertFile string `koanf:"tls_cert_file"`
	TLSKeyFile  string `koanf:"tls_key_file"`

	// MaxBodyBytes caps the size of an uploaded save.
	MaxBodyBytes int64 `koanf:"max_body_bytes"`

	// RateLimit is the sustained requests per second allowed per client
	// IP. Zero disables rate limiting.
	RateLimit float64 `koanf:"rate_limit"`
	RateBurst int     `koanf:"rate_burst"`

	// TrustProxyHeaders keys clients by X-Forwarded-For / X-Real-IP
	// instead of the peer address.
	TrustProxyHeaders bool `koanf:"trust_proxy_headers"`
}

// StorageSection configures the save index.
type StorageSection struct {
	DataDir    string `koanf:"data_dir"`
	InMemory   bool   `koanf:"in_memory"`
	GCInterval string `koanf:"gc_interval"`
}

// CacheSection configures the decode cache. MaxCost is the estimated
// memory of cached decoded trees in bytes; zero disables the cache.
type CacheSection struct {
	MaxCost     int64 `koanf:"max_cost"`
	NumCounters int64 `koanf:"num_counters"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}
