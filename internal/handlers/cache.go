package handlers

import (
	"net/http"
)

// HandleCache drops cached searches. With q (and optionally limit) only that
// search is dropped; without q everything is.
func (h *Handler) HandleCache(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	params := parseSearchParams(r)
	if params.Keyword == "" {
		if err := h.service.ClearCache(r.Context()); err != nil {
			h.writeError(w, "Failed to clear cache: "+err.Error(), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if err := h.service.Invalidate(r.Context(), params.Keyword, params.Limit); err != nil {
		h.writeError(w, "Failed to invalidate cache: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
