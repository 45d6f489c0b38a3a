// Package httpserver provides the civ7save-server HTTP API.
//
// Endpoints:
//
//   - POST /v1/decode?view=summary|tree|raw
//   - POST /v1/saves, GET /v1/saves, GET|DELETE /v1/saves/:id
//   - GET /health, GET /metrics
//
// Routing uses httprouter. Every request passes RequestID, AccessLog and
// Recover; API routes are additionally rate limited per client IP.
//
// With a TLS key pair configured the server presents whatever pair is
// currently on disk, so certificates rotate without a restart.
package httpserver
