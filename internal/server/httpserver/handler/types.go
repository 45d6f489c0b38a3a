package handler

import "github.com/yndnr/civ7save-go/internal/storage"

// Response is the success envelope.
type Response struct {
	RequestID string `json:"request_id"`
	Data      any    `json:"data"`
}

// ErrorResponse is the failure envelope.
type ErrorResponse struct {
	RequestID string    `json:"request_id"`
	Error     ErrorBody `json:"error"`
}

// ErrorBody describes a failed request.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	// Offset is set for decode failures.
	Offset *int `json:"offset,omitempty"`
}

// Decode views.
const (
	ViewSummary = "summary"
	ViewTree    = "tree"
	ViewRaw     = "raw"
)

// ListSavesResponse is the body of GET /v1/saves.
type ListSavesResponse struct {
	Items []*storage.SaveRecord `json:"items"`
	Total int                   `json:"total"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Time    string `json:"time"`
}
