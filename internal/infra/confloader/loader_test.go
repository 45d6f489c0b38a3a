package confloader

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

type testConfig struct {
	Server struct {
		HTTP struct {
			Addr         string `koanf:"addr"`
			MaxBodyBytes int64  `koanf:"max_body_bytes"`
		} `koanf:"http"`
	} `koanf:"server"`
	Storage struct {
		InMemory   bool          `koanf:"in_memory"`
		GCInterval time.Duration `koanf:"gc_interval"`
	} `koanf:"storage"`
	Ignored string
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

func TestNewLoader_WithOptions(t *testing.T) {
	l := NewLoader()
	if l.envPrefix != DefaultEnvPrefix {
		t.Errorf("envPrefix = %q, want %q", l.envPrefix, DefaultEnvPrefix)
	}

	l = NewLoader(WithEnvPrefix("TEST_"), WithConfigFile("/path/to/config.yaml"))
	if l.envPrefix != "TEST_" || l.filePath != "/path/to/config.yaml" || l.optional {
		t.Errorf("options not applied: %+v", l)
	}
}

func TestKeysOf(t *testing.T) {
	got := KeysOf(&testConfig{})
	want := []string{
		"server.http.addr",
		"server.http.max_body_bytes",
		"storage.in_memory",
		"storage.gc_interval",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("KeysOf() = %v, want %v", got, want)
	}
	if KeysOf(42) != nil {
		t.Error("KeysOf(non-struct) should be nil")
	}
}

func TestLoader_Load(t *testing.T) {
	path := writeConfig(t, `
server:
  http:
    addr: "0.0.0.0:7070"
    max_body_bytes: 1024
storage:
  gc_interval: 5m
`)

	cfg := testConfig{}
	cfg.Storage.InMemory = true // default kept when no source sets it

	l := NewLoader(WithConfigFile(path))
	if err := l.Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.HTTP.Addr != "0.0.0.0:7070" {
		t.Errorf("Addr = %q", cfg.Server.HTTP.Addr)
	}
	if cfg.Server.HTTP.MaxBodyBytes != 1024 {
		t.Errorf("MaxBodyBytes = %d", cfg.Server.HTTP.MaxBodyBytes)
	}
	if cfg.Storage.GCInterval != 5*time.Minute {
		t.Errorf("GCInterval = %v", cfg.Storage.GCInterval)
	}
	if !cfg.Storage.InMemory {
		t.Error("default InMemory was overwritten")
	}
}

func TestLoader_Load_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
server:
  http:
    addr: "from-file:7070"
`)
	t.Setenv("CIV7SAVE_SERVER_HTTP_ADDR", "from-env:8080")
	t.Setenv("CIV7SAVE_SERVER_HTTP_MAX_BODY_BYTES", "2048")
	t.Setenv("CIV7SAVE_STORAGE_IN_MEMORY", "true")

	var cfg testConfig
	if err := NewLoader(WithConfigFile(path)).Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.HTTP.Addr != "from-env:8080" {
		t.Errorf("Addr = %q, want from-env:8080 (env should override file)", cfg.Server.HTTP.Addr)
	}
	if cfg.Server.HTTP.MaxBodyBytes != 2048 {
		t.Errorf("MaxBodyBytes = %d, want 2048", cfg.Server.HTTP.MaxBodyBytes)
	}
	if !cfg.Storage.InMemory {
		t.Error("InMemory should be true from env")
	}
}

func TestLoader_LoadEnv_UnknownKey(t *testing.T) {
	t.Setenv("MYAPP_SERVER_PORT", "9090")

	l := NewLoader(WithEnvPrefix("MYAPP_"))
	if err := l.LoadEnv(); err != nil {
		t.Fatalf("LoadEnv() error = %v", err)
	}
	if port := l.String("server.port"); port != "9090" {
		t.Errorf("server.port = %q, want %q", port, "9090")
	}
}

func TestLoader_File(t *testing.T) {
	t.Run("missing required file", func(t *testing.T) {
		var cfg testConfig
		if err := NewLoader(WithConfigFile("/nonexistent/config.yaml")).Load(&cfg); err == nil {
			t.Error("Load() should fail for a missing config file")
		}
	})

	t.Run("missing optional file", func(t *testing.T) {
		var cfg testConfig
		if err := NewLoader(WithOptionalFile("/nonexistent/cli.yaml")).Load(&cfg); err != nil {
			t.Errorf("Load() error = %v", err)
		}
	})

	t.Run("empty path", func(t *testing.T) {
		if err := NewLoader().LoadFile(""); err != nil {
			t.Errorf("LoadFile(\"\") should not error, got: %v", err)
		}
	})
}

func TestLoader_LoadMap(t *testing.T) {
	l := NewLoader()
	err := l.LoadMap(map[string]any{
		"server.http.addr": "localhost:3000",
		"storage.in_memory": true,
		"port":             8080,
	})
	if err != nil {
		t.Fatalf("LoadMap() error = %v", err)
	}

	if addr := l.String("server.http.addr"); addr != "localhost:3000" {
		t.Errorf("server.http.addr = %q", addr)
	}
	if port := l.String("port"); port != "8080" {
		t.Errorf("port = %q, want 8080", port)
	}

	var cfg testConfig
	if err := l.Unmarshal(&cfg); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if cfg.Server.HTTP.Addr != "localhost:3000" || !cfg.Storage.InMemory {
		t.Errorf("Unmarshal() = %+v", cfg)
	}
}
