package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/time/rate"

	"github.com/yndnr/civ7save-go/internal/server/httpserver/handler"
	"github.com/yndnr/civ7save-go/internal/telemetry/logger"
	"github.com/yndnr/civ7save-go/internal/telemetry/metric"
)

func TestChain_Order(t *testing.T) {
	var order []string
	mw := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		order = append(order, "handler")
	}), mw("a"), mw("b"))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
	if strings.Join(order, ",") != "a,b,handler" {
		t.Errorf("order = %v", order)
	}
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = logger.RequestIDFromContext(r.Context())
	}))

	tests := []struct {
		name   string
		header string
		keep   bool
	}{
		{"generated", "", false},
		{"client supplied", "trace-abc-123", true},
		{"too long", strings.Repeat("x", 65), false},
		{"control chars", "bad\nid", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				req.Header.Set(HeaderRequestID, tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			got := rec.Header().Get(HeaderRequestID)
			if got != seen {
				t.Errorf("header %q != context %q", got, seen)
			}
			if tt.keep {
				if got != tt.header {
					t.Errorf("request ID = %q, want %q", got, tt.header)
				}
				return
			}
			if _, err := ulid.ParseStrict(got); err != nil {
				t.Errorf("generated request ID %q is not a ULID: %v", got, err)
			}
		})
	}
}

func TestRecover(t *testing.T) {
	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}), RequestID(logger.Nop()), Recover())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	var resp handler.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Error.Code != "CS-SYS-5000" || resp.RequestID == "" {
		t.Errorf("response = %+v", resp)
	}
}

func TestAccessLog_RecordsRoute(t *testing.T) {
	reg := metric.NewRegistry()
	h := AccessLog(reg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		withRoute(r, "/v1/saves/:id")
		w.WriteHeader(http.StatusNotFound)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/v1/saves/01ABC", nil))

	body := scrapeMetrics(t, reg)
	want := `civ7save_requests_total{method="GET",route="/v1/saves/:id",status="404"} 1`
	if !strings.Contains(body, want) {
		t.Errorf("metrics missing %s", want)
	}
}

func TestRateLimit(t *testing.T) {
	reg := metric.NewRegistry()
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}), RateLimit(1, 2, reg))

	send := func(ip string) int {
		req := httptest.NewRequest("POST", "/v1/decode", nil)
		req.RemoteAddr = ip + ":5000"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	if send("10.0.0.1") != 200 || send("10.0.0.1") != 200 {
		t.Fatal("burst requests should pass")
	}
	if code := send("10.0.0.1"); code != http.StatusTooManyRequests {
		t.Errorf("third request status = %d, want 429", code)
	}
	if code := send("10.0.0.2"); code != http.StatusOK {
		t.Errorf("other client status = %d, want 200", code)
	}
	if !strings.Contains(scrapeMetrics(t, reg), "civ7save_rate_limited_total 1") {
		t.Error("rate limited request not counted")
	}
}

func TestIPLimiter_Sweep(t *testing.T) {
	l := newIPLimiter(rate.Limit(1), 1, time.Minute)
	now := time.Now()

	l.allow("10.0.0.1", now)
	l.allow("10.0.0.2", now)
	if l.size() != 2 {
		t.Fatalf("size = %d, want 2", l.size())
	}

	l.allow("10.0.0.3", now.Add(2*time.Minute))
	if l.size() != 1 {
		t.Errorf("size after sweep = %d, want 1", l.size())
	}
}

func TestClientAddr(t *testing.T) {
	xff := map[string]string{"X-Forwarded-For": "203.0.113.5, 10.0.0.1"}
	xri := map[string]string{"X-Real-IP": "198.51.100.7"}
	tests := []struct {
		name       string
		trustProxy bool
		header     map[string]string
		remote     string
		want       string
	}{
		{"remote addr", false, nil, "192.0.2.1:1234", "192.0.2.1"},
		{"ipv6", false, nil, "[::1]:8080", "::1"},
		{"no port", false, nil, "192.0.2.9", "192.0.2.9"},
		{"forwarded untrusted", false, xff, "10.0.0.1:1", "10.0.0.1"},
		{"real ip untrusted", false, xri, "10.0.0.1:1", "10.0.0.1"},
		{"forwarded trusted", true, xff, "10.0.0.1:1", "203.0.113.5"},
		{"real ip trusted", true, xri, "10.0.0.1:1", "198.51.100.7"},
		{"trusted without headers", true, nil, "10.0.0.1:1", "10.0.0.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			h := ClientAddr(tt.trustProxy)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = clientIP(r)
			}))
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}
			h.ServeHTTP(httptest.NewRecorder(), req)
			if got != tt.want {
				t.Errorf("clientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRateLimit_IgnoresSpoofedForwardedFor(t *testing.T) {
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}), ClientAddr(false), RateLimit(1, 1, metric.NewRegistry()))

	send := func(forwarded string) int {
		req := httptest.NewRequest("POST", "/v1/decode", nil)
		req.RemoteAddr = "10.0.0.9:5000"
		req.Header.Set("X-Forwarded-For", forwarded)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := send("203.0.113.1"); code != http.StatusOK {
		t.Fatalf("first request status = %d", code)
	}
	if code := send("203.0.113.2"); code != http.StatusTooManyRequests {
		t.Errorf("rotated X-Forwarded-For status = %d, want 429", code)
	}
}

func scrapeMetrics(t *testing.T, reg *metric.Registry) string {
	t.Helper()
	rec := httptest.NewRecorder()
	reg.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	return rec.Body.String()
}
