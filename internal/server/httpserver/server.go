package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/yndnr/civ7save-go/internal/infra/tlsroots"
	"github.com/yndnr/civ7save-go/internal/server/config"
	"github.com/yndnr/civ7save-go/internal/telemetry/logger"
)

// certDebounce is how long certificate files must be quiet before they
// are loaded again.
const certDebounce = 500 * time.Millisecond

// Server represents the HTTP server.
type Server struct {
	httpServer *http.Server
	certs      *tlsroots.Reloader
	log        logger.Logger
}

// New creates a new HTTP server. TLS is used when both certificate and key
// files are configured; the pair is reloaded when either file changes.
func New(cfg config.HTTPConfig, handler http.Handler, log logger.Logger) (*Server, error) {
	if log == nil {
		log = logger.Default()
	}
	s := &Server{
		httpServer: &http.Server{
			Addr:              cfg.Addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
			IdleTimeout:       2 * time.Minute,
		},
		log: log,
	}

	if cfg.TLSCertFile != "" && cfg.TLSKeyFile != "" {
		certs, err := tlsroots.NewReloader(cfg.TLSCertFile, cfg.TLSKeyFile, certDebounce, log)
		if err != nil {
			return nil, fmt.Errorf("httpserver: %w", err)
		}
		s.certs = certs
		s.httpServer.TLSConfig = certs.TLSConfig()
	}
	return s, nil
}

// ListenAndServe listens on the configured address and serves until
// Shutdown. It returns nil after a graceful shutdown.
func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve serves on ln until Shutdown.
func (s *Server) Serve(ln net.Listener) error {
	s.log.Info("http server listening", "addr", ln.Addr().String(), "tls", s.certs != nil)

	var err error
	if s.certs != nil {
		// certificates come from TLSConfig.GetCertificate
		err = s.httpServer.ServeTLS(ln, "", "")
	} else {
		err = s.httpServer.Serve(ln)
	}
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown gracefully shuts down the server and stops watching
// certificate files.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	if s.certs != nil {
		err = errors.Join(err, s.certs.Close())
	}
	return err
}
