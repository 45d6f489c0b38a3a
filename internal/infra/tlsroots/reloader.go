package tlsroots

import (
	"crypto/tls"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/yndnr/civ7save-go/internal/infra/confloader"
	"github.com/yndnr/civ7save-go/internal/telemetry/logger"
)

// Reloader serves the certificate found in a cert/key file pair and loads
// it again whenever either file changes. A pair that fails to load leaves
// the previous certificate in place.
type Reloader struct {
	certFile string
	keyFile  string
	log      logger.Logger

	mu   sync.RWMutex
	cert *tls.Certificate

	watcher *confloader.Watcher
}

// NewReloader loads the pair and starts watching both files.
func NewReloader(certFile, keyFile string, debounce time.Duration, log logger.Logger) (*Reloader, error) {
	if log == nil {
		log = logger.Default()
	}
	r := &Reloader{
		certFile: filepath.Clean(certFile),
		keyFile:  filepath.Clean(keyFile),
		log:      log,
	}
	if err := r.Reload(); err != nil {
		return nil, err
	}

	w, err := confloader.NewWatcher(
		confloader.WithWatcherLogger(log),
		confloader.WithDebounce(debounce),
		confloader.WithFilter(func(path string) bool {
			path = filepath.Clean(path)
			return path == r.certFile || path == r.keyFile
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("tlsroots: %w", err)
	}
	if err := w.Watch(r.certFile); err != nil {
		w.Stop()
		return nil, fmt.Errorf("tlsroots: %w", err)
	}
	if filepath.Dir(r.keyFile) != filepath.Dir(r.certFile) {
		if err := w.Watch(r.keyFile); err != nil {
			w.Stop()
			return nil, fmt.Errorf("tlsroots: %w", err)
		}
	}
	w.OnChange(func(string) {
		if err := r.Reload(); err != nil {
			r.log.Error("certificate reload failed", "error", err, "cert_file", r.certFile)
		}
	})
	w.StartAsync()
	r.watcher = w

	return r, nil
}

// Reload reads the pair from disk now.
func (r *Reloader) Reload() error {
	cert, err := tls.LoadX509KeyPair(r.certFile, r.keyFile)
	if err != nil {
		return fmt.Errorf("tlsroots: load key pair: %w", err)
	}

	r.mu.Lock()
	r.cert = &cert
	r.mu.Unlock()

	r.log.Info("certificate loaded", "cert_file", r.certFile)
	return nil
}

// GetCertificate implements tls.Config.GetCertificate.
func (r *Reloader) GetCertificate(*tls.ClientHelloInfo) (*tls.Certificate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cert, nil
}

// TLSConfig returns a server config that always presents the current
// certificate.
func (r *Reloader) TLSConfig() *tls.Config {
	return &tls.Config{
		GetCertificate: r.GetCertificate,
		MinVersion:     tls.VersionTLS12,
	}
}

// Close stops watching the files.
func (r *Reloader) Close() error {
	if r.watcher == nil {
		return nil
	}
	return r.watcher.Stop()
}
