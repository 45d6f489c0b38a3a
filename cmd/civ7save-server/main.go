package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/yndnr/civ7save-go/internal/core/service"
	"github.com/yndnr/civ7save-go/internal/infra/buildinfo"
	"github.com/yndnr/civ7save-go/internal/infra/confloader"
	"github.com/yndnr/civ7save-go/internal/infra/shutdown"
	"github.com/yndnr/civ7save-go/internal/server/config"
	"github.com/yndnr/civ7save-go/internal/server/httpserver"
	"github.com/yndnr/civ7save-go/internal/storage"
	"github.com/yndnr/civ7save-go/internal/telemetry/logger"
	"github.com/yndnr/civ7save-go/internal/telemetry/metric"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configFile  = flag.String("config", "", "Path to configuration file")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("civ7save-server %s\n", buildinfo.String())
		return nil
	}

	cfg, err := loadConfig(*configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stdout,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logger.SetDefault(log)

	info := buildinfo.Get()
	log.Info("starting civ7save-server",
		"version", info.Version,
		"commit", info.Commit,
		"config", *configFile)

	metrics := metric.Global()

	kv, err := initStorage(cfg, log)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}
	kv.ReportMetrics(metrics, 30*time.Second)
	index := storage.NewSaveIndex(kv, metrics)
	if n, err := index.Count(context.Background()); err == nil {
		metrics.SetIndexedSaves(n)
		log.Info("save index opened", "saves", n)
	}

	saves, err := service.NewSaveService(service.SaveServiceConfig{
		CacheMaxCost:     cfg.Cache.MaxCost,
		CacheNumCounters: cfg.Cache.NumCounters,
	}, log, metrics)
	if err != nil {
		kv.Close()
		return fmt.Errorf("init save service: %w", err)
	}

	router := httpserver.NewRouter(&httpserver.RouterConfig{
		Saves:        saves,
		Index:        index,
		Metrics:      metrics,
		Logger:       log,
		MaxBodyBytes: cfg.Server.HTTP.MaxBodyBytes,
		RateLimit:    cfg.Server.HTTP.RateLimit,
		RateBurst:    cfg.Server.HTTP.RateBurst,

		TrustProxyHeaders: cfg.Server.HTTP.TrustProxyHeaders,
	})
	httpServer, err := httpserver.New(cfg.Server.HTTP, router, log)
	if err != nil {
		saves.Close()
		kv.Close()
		return fmt.Errorf("init http server: %w", err)
	}

	sh := shutdown.NewHandler(cfg.Server.ShutdownTimeout, log)

	// hooks run in reverse: HTTP first, then cache, then storage
	sh.OnShutdown("storage", func(context.Context) error { return kv.Close() })
	sh.OnShutdown("decode-cache", func(context.Context) error { saves.Close(); return nil })
	sh.OnShutdown("http", httpServer.Shutdown)

	if *configFile != "" {
		w, err := watchConfig(*configFile, log)
		if err != nil {
			log.Warn("config reload disabled", "error", err)
		} else {
			sh.OnShutdown("config-watcher", func(context.Context) error { return w.Stop() })
		}
	}

	go func() {
		if err := httpServer.ListenAndServe(); err != nil {
			log.Error("http server error", "error", err)
			sh.Trigger()
		}
	}()

	log.Info("server started, press Ctrl+C to stop")
	if err := sh.Wait(context.Background()); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}

// loadConfig loads configuration from defaults, file and environment.
func loadConfig(configFile string) (*config.ServerConfig, error) {
	cfg := config.Default()

	opts := []confloader.Option{}
	if configFile != "" {
		opts = append(opts, confloader.WithConfigFile(configFile))
	}

	if err := confloader.NewLoader(opts...).Load(cfg); err != nil {
		return nil, err
	}

	if err := config.Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func initStorage(cfg *config.ServerConfig, log logger.Logger) (*storage.BadgerEngine, error) {
	kvCfg := storage.DefaultKVConfig(cfg.Storage.DataDir)
	if cfg.Storage.InMemory {
		kvCfg = storage.InMemoryKVConfig()
	}
	kvCfg.Badger.GCInterval = cfg.Storage.GCInterval
	return storage.NewBadgerEngine(kvCfg, log)
}

// watchConfig re-reads the config file on change and applies settings that
// are safe to change at runtime. Currently that is only log.level.
func watchConfig(path string, log logger.Logger) (*confloader.Watcher, error) {
	w, err := confloader.NewWatcher(
		confloader.WithWatcherLogger(log),
		confloader.WithFilter(func(p string) bool { return filepath.Clean(p) == filepath.Clean(path) }),
		confloader.WithDebounce(200*time.Millisecond),
	)
	if err != nil {
		return nil, err
	}
	if err := w.Watch(path); err != nil {
		w.Stop()
		return nil, err
	}

	w.OnChange(func(string) {
		cfg, err := loadConfig(path)
		if err != nil {
			log.Warn("config reload rejected", "error", err)
			return
		}
		if cfg.Log.Level != logger.GetLevel() {
			logger.SetLevel(cfg.Log.Level)
			log.Info("log level changed", "level", cfg.Log.Level)
		}
	})
	w.StartAsync()
	return w, nil
}
