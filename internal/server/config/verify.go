package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/yndnr/civ7save-go/internal/telemetry/logger"
)

// Verify validates the configuration. It creates the data directory when
// the index is on disk.
func Verify(cfg *ServerConfig) error {
	if err := verifyServer(&cfg.Server); err != nil {
		return err
	}
	if err := verifyStorage(&cfg.Storage); err != nil {
		return err
	}
	if cfg.Cache.MaxCost < 0 {
		return errors.New("cache.max_cost must not be negative")
	}
	if !logger.ValidLevel(cfg.Log.Level) {
		return fmt.Errorf("log.level %q is not one of debug, info, warn, error", cfg.Log.Level)
	}
	if !logger.ValidFormat(cfg.Log.Format) {
		return fmt.Errorf("log.format %q is not one of json, text", cfg.Log.Format)
	}
	return nil
}

func verifyServer(cfg *ServerSection) error {
	http := &cfg.HTTP
	if http.Addr == "" {
		return errors.New("server.http.addr is required")
	}
	if _, _, err := net.SplitHostPort(http.Addr); err != nil {
		return fmt.Errorf("server.http.addr: %w", err)
	}
	if http.MaxBodyBytes <= 0 {
		return errors.New("server.http.max_body_bytes must be positive")
	}
	if http.RateLimit < 0 {
		return errors.New("server.http.rate_limit must not be negative")
	}
	if http.RateLimit > 0 && http.RateBurst < 1 {
		return errors.New("server.http.rate_burst must be at least 1 when rate_limit is set")
	}
	if (http.TLSCertFile == "") != (http.TLSKeyFile == "") {
		return errors.New("server.http.tls_cert_file and tls_key_file must be set together")
	}
	for _, f := range []string{http.TLSCertFile, http.TLSKeyFile} {
		if f == "" {
			continue
		}
		if _, err := os.Stat(f); err != nil {
			return fmt.Errorf("tls file: %w", err)
		}
	}
	if cfg.ShutdownTimeout <= 0 {
		return errors.New("server.shutdown_timeout must be positive")
	}
	return nil
}

func verifyStorage(cfg *StorageSection) error {
	if d, err := time.ParseDuration(cfg.GCInterval); err != nil || d <= 0 {
		return fmt.Errorf("storage.gc_interval %q is not a positive duration", cfg.GCInterval)
	}
	if cfg.InMemory {
		return nil
	}
	if cfg.DataDir == "" {
		return errors.New("storage.data_dir is required unless storage.in_memory is set")
	}
	if err := os.MkdirAll(cfg.DataDir, 0750); err != nil {
		return errors.New("cannot create data directory: " + err.Error())
	}
	return nil
}
