package handler

import (
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/yndnr/civ7save-go/internal/core/domain"
)

var errNoIndex = errors.New("save index not configured")

// CreateSave handles POST /v1/saves. The body is decoded and its summary
// indexed under the name given by the "name" query parameter. Answers 201
// for a new record and 200 when identical content is already indexed.
func (h *Handler) CreateSave(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if h.index == nil {
		WriteError(w, r, errNoIndex)
		return
	}

	data, err := h.readSave(w, r)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	sum, err := h.saves.Summarize(r.Context(), data)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		name = sum.Fingerprint
	}
	rec, created, err := h.index.Put(r.Context(), name, sum)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
		w.Header().Set("Location", "/v1/saves/"+rec.ID)
	}
	h.writeJSON(w, r, status, rec)
}

// ListSaves handles GET /v1/saves.
func (h *Handler) ListSaves(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if h.index == nil {
		WriteError(w, r, errNoIndex)
		return
	}
	records, err := h.index.List(r.Context())
	if err != nil {
		WriteError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, ListSavesResponse{Items: records, Total: len(records)})
}

// GetSave handles GET /v1/saves/:id.
func (h *Handler) GetSave(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if h.index == nil {
		WriteError(w, r, errNoIndex)
		return
	}
	rec, err := h.index.Get(r.Context(), ps.ByName("id"))
	if err != nil {
		WriteError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, rec)
}

// DeleteSave handles DELETE /v1/saves/:id.
func (h *Handler) DeleteSave(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if h.index == nil {
		WriteError(w, r, errNoIndex)
		return
	}
	if err := h.index.Delete(r.Context(), ps.ByName("id")); err != nil {
		WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// NotFound answers unknown routes.
func NotFound(w http.ResponseWriter, r *http.Request) {
	WriteError(w, r, domain.NewDomainError("CS-REQ-4040", "no such endpoint").WithDetails(r.URL.Path))
}

// MethodNotAllowed answers known routes requested with the wrong method.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	WriteError(w, r, domain.NewDomainError("CS-REQ-4050", "method not allowed").WithDetails(r.Method))
}
