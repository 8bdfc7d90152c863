package finna

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
)

func TestNewClientDefaults(t *testing.T) {
	client := NewClient("", 0)

	if client.BaseURL != DefaultBaseURL {
		t.Errorf("Expected base URL %s, got %s", DefaultBaseURL, client.BaseURL)
	}
	if client.httpClient.Timeout != 30*time.Second {
		t.Errorf("Expected 30s timeout, got %s", client.httpClient.Timeout)
	}
	if !client.IncludeGeo {
		t.Error("Expected geo to be requested by default")
	}
}

func TestSearchURL(t *testing.T) {
	client := NewClient("https://api.example.org/v1/", time.Second)
	client.IncludeGeo = false

	raw := client.SearchURL("Helsinki", 10)
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("Failed to parse URL: %v", err)
	}

	if u.Path != "/v1/search" {
		t.Errorf("Expected path /v1/search, got %s", u.Path)
	}

	q := u.Query()
	if q.Get("lookfor") != "Helsinki" {
		t.Errorf("Expected lookfor=Helsinki, got %s", q.Get("lookfor"))
	}
	if q.Get("filter[]") != ImageFilter {
		t.Errorf("Expected image filter, got %s", q.Get("filter[]"))
	}
	if q.Get("limit") != "10" {
		t.Errorf("Expected limit=10, got %s", q.Get("limit"))
	}
	if q.Get("sort") != DateSort {
		t.Errorf("Expected sort %q, got %q", DateSort, q.Get("sort"))
	}

	fields := strings.Join(q["field[]"], ",")
	if fields != "title,year,images,id,buildings" {
		t.Errorf("Unexpected field selection: %s", fields)
	}

	client.IncludeGeo = true
	u, _ = url.Parse(client.SearchURL("Helsinki", 10))
	if got := u.Query()["field[]"]; got[len(got)-1] != "geo" {
		t.Errorf("Expected geo to be the last field, got %v", got)
	}
}

func TestSearch(t *testing.T) {
	var gotQuery url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"resultCount": 2,
			"status": "OK",
			"records": [
				{"id": "hkm.1", "title": "Senaatintori", "year": "n. 1920", "images": ["/Cover/Show?id=hkm.1"], "geo": [{"lat": 60.1, "lon": 24.9}]},
				{"id": "hkm.2", "year": 1931, "images": [], "geo": "60.2,25.0"}
			]
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	resp, err := client.Search(context.Background(), "Helsinki", 10)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if gotQuery.Get("lookfor") != "Helsinki" {
		t.Errorf("Expected keyword to be sent, got %s", gotQuery.Get("lookfor"))
	}
	if resp.ResultCount != 2 {
		t.Errorf("Expected resultCount 2, got %d", resp.ResultCount)
	}
	if len(resp.Records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(resp.Records))
	}

	first := resp.Records[0]
	if first.Title != "Senaatintori" || first.Year != "n. 1920" {
		t.Errorf("Unexpected first record: %+v", first)
	}
	if first.Geo.Kind != GeoPoints {
		t.Errorf("Expected point geo, got %s", first.Geo.Kind)
	}

	second := resp.Records[1]
	if second.Year != "1931" {
		t.Errorf("Expected numeric year to decode as text, got %q", second.Year)
	}
	if second.Title != "" {
		t.Errorf("Expected empty title, got %q", second.Title)
	}
	if second.Geo.Kind != GeoText || second.Geo.Text != "60.2,25.0" {
		t.Errorf("Unexpected geo: %+v", second.Geo)
	}
}

func TestSearchEmptyKeyword(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	for _, keyword := range []string{"", "   "} {
		_, err := client.Search(context.Background(), keyword, 10)
		if !errors.Is(err, ErrEmptyKeyword) {
			t.Errorf("Expected ErrEmptyKeyword for %q, got %v", keyword, err)
		}
	}
	if called {
		t.Error("Expected no request for an empty keyword")
	}
}

func TestSearchErrors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
	}{
		{
			name:       "server error",
			status:     http.StatusInternalServerError,
			body:       "boom",
			wantStatus: http.StatusInternalServerError,
		},
		{
			name:       "bad request",
			status:     http.StatusBadRequest,
			body:       `{"status":"ERROR","statusMessage":"Invalid sort"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "error status in a 200 body",
			status:     http.StatusOK,
			body:       `{"status":"ERROR","statusMessage":"Invalid field"}`,
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewClient(server.URL, time.Second)
			resp, err := client.Search(context.Background(), "Helsinki", 10)
			if resp != nil {
				t.Errorf("Expected no response, got %+v", resp)
			}

			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("Expected *APIError, got %v", err)
			}
			if apiErr.StatusCode != tt.wantStatus {
				t.Errorf("Expected status %d, got %d", tt.wantStatus, apiErr.StatusCode)
			}
		})
	}
}

func TestSearchMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"records": [`))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	_, err := client.Search(context.Background(), "Helsinki", 10)
	if err == nil {
		t.Fatal("Expected decode error, got nil")
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		t.Errorf("Expected a decode error, not an API error: %v", err)
	}
}

func TestSearchTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := server.URL
	server.Close()

	client := NewClient(baseURL, time.Second)
	if _, err := client.Search(context.Background(), "Helsinki", 10); err == nil {
		t.Fatal("Expected transport error, got nil")
	}
}
