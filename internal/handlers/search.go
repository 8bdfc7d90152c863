package handlers

import (
	"log/slog"
	"net/http"

	"github.com/kuvahaku/kuvahaku/internal/charts"
	"github.com/kuvahaku/kuvahaku/internal/export"
)

// HandleSearch answers GET /api/search?q=&limit= with the result as JSON.
// An empty result is a 200 with no records.
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	result, _ := h.runSearch(w, r)
	if result == nil {
		return
	}
	h.writeJSON(w, result)
}

// HandleCharts renders the timeline and map page for a search.
func (h *Handler) HandleCharts(w http.ResponseWriter, r *http.Request) {
	result, params := h.runSearch(w, r)
	if result == nil {
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := charts.Render(w, result.Records, params.Keyword); err != nil {
		slog.Error("Unable to render charts", "err", err)
	}
}

// HandleExport serves the search as an Excel download.
func (h *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	result, params := h.runSearch(w, r)
	if result == nil {
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.ExcelFilename(params.Keyword)+`"`)
	if err := export.WriteExcel(w, result.Records); err != nil {
		slog.Error("Unable to write workbook", "err", err)
	}
}
