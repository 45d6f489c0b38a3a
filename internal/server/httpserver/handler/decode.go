package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/yndnr/civ7save-go/internal/core/domain"
	"github.com/yndnr/civ7save-go/internal/core/service"
)

// Decode handles POST /v1/decode?view=summary|tree|raw. The body is the
// save file; the default view is summary.
func (h *Handler) Decode(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	view := r.URL.Query().Get("view")
	switch view {
	case "":
		view = ViewSummary
	case ViewSummary, ViewTree, ViewRaw:
	default:
		WriteError(w, r, domain.ErrInvalidView.WithDetails(view))
		return
	}

	data, err := h.readSave(w, r)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	ctx := r.Context()
	var out any
	switch view {
	case ViewSummary:
		out, err = h.saves.Summarize(ctx, data)
	case ViewTree:
		var raw *domain.RawChunkData
		if raw, err = h.saves.DecodeRaw(ctx, data); err == nil {
			out = service.Simplify(raw.All())
		}
	case ViewRaw:
		out, err = h.saves.DecodeRaw(ctx, data)
	}
	if err != nil {
		WriteError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, out)
}
