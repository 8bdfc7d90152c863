// Package search runs one keyword search end to end: cache lookup, API call,
// normalization.
package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kuvahaku/kuvahaku/internal/cache"
	"github.com/kuvahaku/kuvahaku/internal/finna"
	"github.com/kuvahaku/kuvahaku/internal/records"
	"github.com/kuvahaku/kuvahaku/internal/telemetry"
)

const (
	// DefaultLimit is used when the caller passes no positive limit.
	DefaultLimit = 50
	// MinUILimit and MaxUILimit bound the web form slider.
	MinUILimit = 10
	MaxUILimit = 100
)

// Searcher is the part of the Finna client the service needs.
type Searcher interface {
	Search(ctx context.Context, keyword string, limit int) (*finna.SearchResponse, error)
}

// Result is one finished search. An empty Records table is a valid result,
// not an error. Cached results are shared, so callers must not modify them.
type Result struct {
	Keyword   string        `json:"keyword" yaml:"keyword"`
	Limit     int           `json:"limit" yaml:"limit"`
	RawCount  int           `json:"raw_count" yaml:"raw_count"`
	Records   records.Table `json:"records" yaml:"records"`
	FetchedAt time.Time     `json:"fetched_at" yaml:"fetched_at"`
}

// Empty reports whether nothing could be placed on the timeline.
func (r *Result) Empty() bool {
	return len(r.Records) == 0
}

// Discarded is the number of hits dropped for lack of a year.
func (r *Result) Discarded() int {
	return r.RawCount - len(r.Records)
}

// Config wires optional collaborators into the service.
type Config struct {
	Records records.Options
	Cache   cache.Cache[*Result]
	Metrics *telemetry.Metrics
}

// Service is safe for concurrent use when its cache is.
type Service struct {
	client  Searcher
	opts    records.Options
	cache   cache.Cache[*Result]
	metrics *telemetry.Metrics
	now     func() time.Time
}

// NewService creates a search service. Zero-valued record options fall back
// to records.DefaultOptions.
func NewService(client Searcher, cfg Config) *Service {
	opts := cfg.Records
	if opts.ImageHost == "" {
		opts.ImageHost = records.DefaultOptions.ImageHost
	}
	if opts.RecordURL == "" {
		opts.RecordURL = records.DefaultOptions.RecordURL
	}
	return &Service{
		client:  client,
		opts:    opts,
		cache:   cfg.Cache,
		metrics: cfg.Metrics,
		now:     time.Now,
	}
}

// ClampLimit maps a requested limit onto what the API accepts.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	return min(limit, finna.MaxLimit)
}

// ClampUILimit bounds a limit to the web form range.
func ClampUILimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	return max(MinUILimit, min(limit, MaxUILimit))
}

// Search runs one search. It fails fast on an empty keyword and never
// returns a partial table: on error the result is nil.
func (s *Service) Search(ctx context.Context, keyword string, limit int) (*Result, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		s.metrics.ObserveSearch(telemetry.OutcomeInvalid, 0)
		return nil, finna.ErrEmptyKeyword
	}
	limit = ClampLimit(limit)
	key := cache.Key{Keyword: keyword, Limit: limit}

	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, key)
		switch {
		case err != nil:
			slog.Warn("Cache lookup failed", "key", key.String(), "error", err)
		case ok:
			s.metrics.ObserveCache(true)
			slog.Debug("Serving search from cache", "keyword", keyword, "limit", limit)
			return cached, nil
		}
		s.metrics.ObserveCache(false)
	}

	slog.Info("Searching", "keyword", keyword, "limit", limit)
	start := s.now()
	resp, err := s.client.Search(ctx, keyword, limit)
	elapsed := s.now().Sub(start)
	if err != nil {
		s.metrics.ObserveSearch(telemetry.OutcomeError, elapsed)
		return nil, fmt.Errorf("search %q failed: %w", keyword, err)
	}

	table := records.NormalizeAll(resp.Records, s.opts)
	result := &Result{
		Keyword:   keyword,
		Limit:     limit,
		RawCount:  len(resp.Records),
		Records:   table,
		FetchedAt: s.now().UTC(),
	}

	s.metrics.ObserveRecords(len(table), result.Discarded())
	if result.Empty() {
		s.metrics.ObserveSearch(telemetry.OutcomeEmpty, elapsed)
	} else {
		s.metrics.ObserveSearch(telemetry.OutcomeOK, elapsed)
	}
	slog.Info("Search complete", "keyword", keyword, "hits", result.RawCount, "kept", len(table))

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, result); err != nil {
			slog.Warn("Failed to cache search", "key", key.String(), "error", err)
		}
	}

	return result, nil
}

// Invalidate drops one cached search.
func (s *Service) Invalidate(ctx context.Context, keyword string, limit int) error {
	if s.cache == nil {
		return nil
	}
	key := cache.Key{Keyword: strings.TrimSpace(keyword), Limit: ClampLimit(limit)}
	return s.cache.Invalidate(ctx, key)
}

// ClearCache drops every cached search.
func (s *Service) ClearCache(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Clear(ctx)
}

// IsInputError reports whether err was caused by the caller's input rather
// than by the API.
func IsInputError(err error) bool {
	return errors.Is(err, finna.ErrEmptyKeyword)
}
