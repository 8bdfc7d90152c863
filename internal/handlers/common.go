package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/kuvahaku/kuvahaku/internal/search"
)

type Handler struct {
	service *search.Service
}

func New(service *search.Service) *Handler {
	return &Handler{
		service: service,
	}
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	slog.Error(message, "status", code)
	http.Error(w, message, code)
}

// Request helpers
type searchParams struct {
	Keyword string
	Limit   int
}

// parseSearchParams reads q and limit. The limit is held to the form range.
func parseSearchParams(r *http.Request) searchParams {
	q := r.URL.Query()
	limit, err := strconv.Atoi(q.Get("limit"))
	if err != nil {
		limit = search.DefaultLimit
	}
	return searchParams{
		Keyword: strings.TrimSpace(q.Get("q")),
		Limit:   search.ClampUILimit(limit),
	}
}

// searchStatus maps a search error to an HTTP status.
func searchStatus(err error) int {
	switch {
	case search.IsInputError(err):
		return http.StatusBadRequest
	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout
	default:
		return http.StatusBadGateway
	}
}

// runSearch writes an error response and returns nil when the search fails.
func (h *Handler) runSearch(w http.ResponseWriter, r *http.Request) (*search.Result, searchParams) {
	params := parseSearchParams(r)
	result, err := h.service.Search(r.Context(), params.Keyword, params.Limit)
	if err != nil {
		h.writeError(w, err.Error(), searchStatus(err))
		return nil, params
	}
	return result, params
}
