package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/yndnr/civ7save-go/internal/core/codec"
	"github.com/yndnr/civ7save-go/internal/core/domain"
	"github.com/yndnr/civ7save-go/internal/core/service"
	"github.com/yndnr/civ7save-go/internal/storage"
	"github.com/yndnr/civ7save-go/internal/telemetry/logger"
)

// Handler serves the save API.
type Handler struct {
	saves        *service.SaveService
	index        *storage.SaveIndex
	log          logger.Logger
	maxBodyBytes int64
}

// New creates a Handler. index may be nil, in which case the /v1/saves
// endpoints answer 500.
func New(saves *service.SaveService, index *storage.SaveIndex, log logger.Logger, maxBodyBytes int64) *Handler {
	if log == nil {
		log = logger.Default()
	}
	return &Handler{
		saves:        saves,
		index:        index,
		log:          log,
		maxBodyBytes: maxBodyBytes,
	}
}

// writeJSON writes a success envelope.
func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := Response{RequestID: logger.RequestIDFromContext(r.Context()), Data: data}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.L(r.Context()).Error("failed to encode response", "error", err)
	}
}

// WriteError writes err as a failure envelope. Errors that are not domain
// errors are logged and reported as CS-SYS-5000.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	body := ErrorBody{Code: domain.GetErrorCode(err)}

	var de *domain.DomainError
	switch {
	case errors.As(err, &de):
		body.Message = de.Message
		if de.Details != "" {
			body.Message += ": " + de.Details
		}
	default:
		logger.L(r.Context()).Error("internal error", "path", r.URL.Path, "error", err)
		body.Code = domain.ErrInternal.Code
		body.Message = domain.ErrInternal.Message
	}

	// A magic mismatch has no meaningful offset.
	var decErr *codec.DecodeError
	if errors.As(err, &decErr) && !errors.Is(err, domain.ErrNotASaveFile) {
		off := decErr.Offset
		body.Offset = &off
		if decErr.Type != 0 {
			body.Message = fmt.Sprintf("%s %d", body.Message, decErr.Type)
		}
	}

	status := StatusOf(body.Code)
	if status == http.StatusTooManyRequests {
		w.Header().Set("Retry-After", "1")
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Error-Code", body.Code)
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{
		RequestID: logger.RequestIDFromContext(r.Context()),
		Error:     body,
	})
}

// StatusOf maps an error code to its HTTP status: the numeric suffix
// divided by ten (CS-CHNK-4221 -> 422). Unparseable codes map to 500.
func StatusOf(code string) int {
	i := strings.LastIndexByte(code, '-')
	if i < 0 {
		return http.StatusInternalServerError
	}
	n, err := strconv.Atoi(code[i+1:])
	if err != nil || n < 4000 || n > 5999 {
		return http.StatusInternalServerError
	}
	return n / 10
}

// readSave reads the request body, enforcing the size limit.
func (h *Handler) readSave(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	if r.ContentLength > h.maxBodyBytes {
		return nil, domain.ErrSaveTooLarge.WithDetails(
			fmt.Sprintf("%d bytes exceeds limit of %d", r.ContentLength, h.maxBodyBytes))
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return nil, domain.ErrSaveTooLarge.WithDetails(
			fmt.Sprintf("limit is %d bytes", tooLarge.Limit))
	}
	if err != nil {
		return nil, fmt.Errorf("handler: read body: %w", err)
	}
	return data, nil
}
