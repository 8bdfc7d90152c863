package finna

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the public Finna REST API (VuFind).
	DefaultBaseURL = "https://api.finna.fi/v1"

	// ImageFilter restricts results to image-format records.
	ImageFilter = "format:0/Image/"

	// DateSort orders results from oldest to newest.
	DateSort = "main_date_str asc"

	// MaxLimit is the largest page size the API accepts.
	MaxLimit = 100

	maxErrorBody = 512
)

// ErrEmptyKeyword is returned before any request is made when the search
// keyword is blank.
var ErrEmptyKeyword = errors.New("search keyword is required")

// APIError is a non-success answer from the search API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("finna API returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("finna API returned status %d: %s", e.StatusCode, e.Body)
}

// Client talks to the Finna search endpoint.
type Client struct {
	BaseURL string
	// IncludeGeo adds the geo field to the field selection.
	IncludeGeo bool
	httpClient *http.Client
}

// NewClient creates a new Finna client
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		IncludeGeo: true,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Fields returns the field selection sent with every search. The API names
// the organisation field "buildings", not "building".
func (c *Client) Fields() []string {
	fields := []string{"title", "year", "images", "id", "buildings"}
	if c.IncludeGeo {
		fields = append(fields, "geo")
	}
	return fields
}

// SearchURL builds the request URL for a keyword search.
func (c *Client) SearchURL(keyword string, limit int) string {
	q := url.Values{}
	q.Set("lookfor", keyword)
	q.Add("filter[]", ImageFilter)
	for _, f := range c.Fields() {
		q.Add("field[]", f)
	}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("sort", DateSort)
	return c.BaseURL + "/search?" + q.Encode()
}

// Search issues a single search request and returns the decoded response.
// Nothing is retried.
func (c *Client) Search(ctx context.Context, keyword string, limit int) (*SearchResponse, error) {
	if strings.TrimSpace(keyword) == "" {
		return nil, ErrEmptyKeyword
	}

	searchURL := c.SearchURL(keyword, limit)
	slog.Debug("Searching Finna", "url", searchURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create search request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch from Finna: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var searchResp SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("failed to decode Finna response: %w", err)
	}

	if searchResp.Status != "" && searchResp.Status != "OK" {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: searchResp.StatusMessage}
	}

	slog.Debug("Finna search complete", "result_count", searchResp.ResultCount, "records", len(searchResp.Records))

	return &searchResp, nil
}
