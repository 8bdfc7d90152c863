package download

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/kuvahaku/kuvahaku/internal/records"
)

func TestFilename(t *testing.T) {
	tests := []struct {
		record   records.Record
		expected string
	}{
		{record: records.Record{ID: "hkm.HKMS000005:km0000n4x0"}, expected: "hkm.HKMS000005_km0000n4x0.jpg"},
		{record: records.Record{ID: "a/b c"}, expected: "a_b_c.jpg"},
		{record: records.Record{Year: 1920}, expected: "vuosi_1920.jpg"},
	}

	for _, tt := range tests {
		if got := Filename(tt.record); got != tt.expected {
			t.Errorf("Filename(%q) = %q, want %q", tt.record.ID, got, tt.expected)
		}
	}
}

func TestDownload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("jpegdata"))
	}))
	defer server.Close()

	table := records.Table{
		{ID: "ok", ImageURL: server.URL + "/ok"},
		{ID: "noimage"},
		{ID: "missing", ImageURL: server.URL + "/missing"},
	}

	dir := filepath.Join(t.TempDir(), "kuvat")
	d := New(1000)

	stats, err := d.Download(context.Background(), table, dir)
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}

	if stats.Downloaded != 1 || stats.Skipped != 1 || stats.Failed != 1 {
		t.Errorf("Unexpected stats: %+v", stats)
	}

	data, err := os.ReadFile(filepath.Join(dir, "ok.jpg"))
	if err != nil {
		t.Fatalf("Expected downloaded file: %v", err)
	}
	if string(data) != "jpegdata" {
		t.Errorf("Unexpected file content: %q", data)
	}
}

func TestDownloadTruncatedBodyLeavesNoFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "1024")
		_, _ = w.Write([]byte("jpeg"))
	}))
	defer server.Close()

	dir := t.TempDir()
	d := New(1000)

	stats, err := d.Download(context.Background(), records.Table{{ID: "cut", ImageURL: server.URL}}, dir)
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}
	if stats.Failed != 1 || stats.Downloaded != 0 {
		t.Errorf("Unexpected stats: %+v", stats)
	}
	if _, err := os.Stat(filepath.Join(dir, "cut.jpg")); !os.IsNotExist(err) {
		t.Errorf("Expected partial file to be removed, stat err: %v", err)
	}
}

func TestDownloadCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("jpegdata"))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := New(1000)
	_, err := d.Download(ctx, records.Table{{ID: "a", ImageURL: server.URL}}, t.TempDir())
	if err == nil {
		t.Fatal("Expected an error for a cancelled context")
	}
}
