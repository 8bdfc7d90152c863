package handlers

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/kuvahaku/kuvahaku/internal/report"
	"github.com/kuvahaku/kuvahaku/internal/search"
)

//go:embed templates/index.html
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

type indexPage struct {
	Keyword  string
	Limit    int
	MinLimit int
	MaxLimit int
	Query    template.URL
	Result   *search.Result
	Summary  string
	Error    string
}

// HandleIndex serves the search form and, when q is set, the results.
func (h *Handler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	params := parseSearchParams(r)
	page := indexPage{
		Keyword:  params.Keyword,
		Limit:    params.Limit,
		MinLimit: search.MinUILimit,
		MaxLimit: search.MaxUILimit,
	}

	status := http.StatusOK
	if params.Keyword != "" {
		result, err := h.service.Search(r.Context(), params.Keyword, params.Limit)
		if err != nil {
			slog.Error("Search failed", "keyword", params.Keyword, "err", err)
			status = searchStatus(err)
			page.Error = "Haku epäonnistui: " + err.Error()
		} else {
			page.Result = result
			page.Summary = report.Summary(result)
			page.Query = template.URL(url.Values{
				"q":     {params.Keyword},
				"limit": {strconv.Itoa(params.Limit)},
			}.Encode())
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := indexTemplate.Execute(w, page); err != nil {
		slog.Error("Unable to render index", "err", err)
	}
}
