// Package download saves record images to disk.
package download

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"golang.org/x/time/rate"

	"github.com/kuvahaku/kuvahaku/internal/records"
)

// Stats counts what a Download run did.
type Stats struct {
	Downloaded int
	Skipped    int
	Failed     int
}

// Downloader fetches images politely: one limiter gates every request.
type Downloader struct {
	HTTPClient *http.Client
	limiter    *rate.Limiter
}

// New creates a downloader allowing rps requests per second. rps <= 0 falls
// back to 2.
func New(rps float64) *Downloader {
	if rps <= 0 {
		rps = 2
	}
	return &Downloader{
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
	}
}

var unsafeIDChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Filename is the file a record's image is saved as.
func Filename(r records.Record) string {
	id := unsafeIDChars.ReplaceAllString(r.ID, "_")
	if id == "" {
		id = fmt.Sprintf("vuosi_%d", r.Year)
	}
	return id + ".jpg"
}

// Download saves the image of every record that has one. A failed image is
// logged and counted; only context cancellation or an unusable output
// directory stop the run.
func (d *Downloader) Download(ctx context.Context, table records.Table, dir string) (Stats, error) {
	var stats Stats

	if err := os.MkdirAll(dir, 0755); err != nil {
		return stats, fmt.Errorf("failed to create output directory: %w", err)
	}

	for i, r := range table {
		if r.ImageURL == "" {
			stats.Skipped++
			continue
		}

		if err := d.limiter.Wait(ctx); err != nil {
			return stats, err
		}

		path := filepath.Join(dir, Filename(r))
		slog.Info("Downloading image", "id", r.ID, "progress", fmt.Sprintf("%d/%d", i+1, len(table)))
		if err := d.downloadImage(ctx, r.ImageURL, path); err != nil {
			if ctx.Err() != nil {
				return stats, ctx.Err()
			}
			slog.Warn("Failed to download image", "id", r.ID, "url", r.ImageURL, "error", err)
			stats.Failed++
			continue
		}
		stats.Downloaded++
	}

	return stats, nil
}

func (d *Downloader) downloadImage(ctx context.Context, url, outputPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := d.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("image fetch returned status %d", resp.StatusCode)
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create image file: %w", err)
	}

	if _, err := io.Copy(file, resp.Body); err != nil {
		file.Close()
		os.Remove(outputPath)
		return fmt.Errorf("failed to save image: %w", err)
	}

	return file.Close()
}
