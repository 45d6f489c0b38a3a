package httpserver

import (
	"context"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/yndnr/civ7save-go/internal/core/service"
	"github.com/yndnr/civ7save-go/internal/server/httpserver/handler"
	"github.com/yndnr/civ7save-go/internal/storage"
	"github.com/yndnr/civ7save-go/internal/telemetry/logger"
	"github.com/yndnr/civ7save-go/internal/telemetry/metric"
)

// RouterConfig holds configuration for the HTTP router.
type RouterConfig struct {
	Saves *service.SaveService

	// Index backs /v1/saves. Optional.
	Index *storage.SaveIndex

	// Metrics is recorded to and served on /metrics. Optional.
	Metrics *metric.Registry

	Logger logger.Logger

	MaxBodyBytes int64

	// RateLimit is requests per second per client IP; zero disables it.
	// /health and /metrics are never limited.
	RateLimit float64
	RateBurst int

	// TrustProxyHeaders takes the client IP from X-Forwarded-For or
	// X-Real-IP. Only enable behind a proxy that overwrites them.
	TrustProxyHeaders bool
}

// NewRouter creates the HTTP handler with all routes and middleware.
//
// Order: RequestID -> ClientAddr -> AccessLog -> Recover -> RateLimit -> route.
func NewRouter(cfg *RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = logger.Default()
	}
	h := handler.New(cfg.Saves, cfg.Index, log, cfg.MaxBodyBytes)

	limited := func(next http.Handler) http.Handler { return next }
	if cfg.RateLimit > 0 {
		limited = RateLimit(cfg.RateLimit, cfg.RateBurst, cfg.Metrics)
	}

	router := httprouter.New()
	router.NotFound = http.HandlerFunc(handler.NotFound)
	router.MethodNotAllowed = http.HandlerFunc(handler.MethodNotAllowed)

	handle := func(method, pattern string, fn httprouter.Handle, mws ...Middleware) {
		inner := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fn(w, r, httprouter.ParamsFromContext(r.Context()))
		}), mws...)
		router.Handle(method, pattern, func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
			withRoute(r, pattern)
			ctx := context.WithValue(r.Context(), httprouter.ParamsKey, ps)
			inner.ServeHTTP(w, r.WithContext(ctx))
		})
	}

	handle(http.MethodGet, "/health", h.Health)
	if cfg.Metrics != nil {
		metrics := cfg.Metrics.Handler()
		handle(http.MethodGet, "/metrics", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
			metrics.ServeHTTP(w, r)
		})
	}

	handle(http.MethodPost, "/v1/decode", h.Decode, limited)
	handle(http.MethodPost, "/v1/saves", h.CreateSave, limited)
	handle(http.MethodGet, "/v1/saves", h.ListSaves, limited)
	handle(http.MethodGet, "/v1/saves/:id", h.GetSave, limited)
	handle(http.MethodDelete, "/v1/saves/:id", h.DeleteSave, limited)

	return Chain(router,
		RequestID(log),
		ClientAddr(cfg.TrustProxyHeaders),
		AccessLog(cfg.Metrics),
		Recover(),
	)
}
