// Package export writes result tables to files and reads snapshots back.
package export

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/kuvahaku/kuvahaku/internal/records"
	"github.com/kuvahaku/kuvahaku/internal/search"
)

// Column headers shared by the spreadsheet and CSV exports.
var Columns = []string{
	"Vuosi (puhdistettu)",
	"Alkuperäinen aikamerkintä",
	"Otsikko",
	"Kuvalinkki",
	"Finna-sivu",
	"Leveysaste",
	"Pituusaste",
}

// Snapshot is a saved search that can be rendered again without the API.
type Snapshot struct {
	Keyword   string        `yaml:"keyword"`
	Limit     int           `yaml:"limit"`
	RawCount  int           `yaml:"raw_count"`
	FetchedAt time.Time     `yaml:"fetched_at"`
	Records   records.Table `yaml:"records"`
}

// FromResult copies the fields of a finished search.
func FromResult(r *search.Result) *Snapshot {
	return &Snapshot{
		Keyword:   r.Keyword,
		Limit:     r.Limit,
		RawCount:  r.RawCount,
		FetchedAt: r.FetchedAt,
		Records:   r.Records,
	}
}

// Save writes a snapshot in the format implied by the file extension.
func Save(path string, snap *Snapshot) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".parquet":
		return SaveParquet(path, snap)
	case ".yaml", ".yml":
		return SaveYAML(path, snap)
	default:
		return fmt.Errorf("unsupported snapshot format: %s (supported: .parquet, .yaml)", ext)
	}
}

// Load reads a snapshot written by Save.
func Load(path string) (*Snapshot, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".parquet":
		return LoadParquet(path)
	case ".yaml", ".yml":
		return LoadYAML(path)
	default:
		return nil, fmt.Errorf("unsupported snapshot format: %s (supported: .parquet, .yaml)", ext)
	}
}

var unsafeFileChars = regexp.MustCompile(`[^\p{L}\p{N}._-]+`)

// SafeName turns a keyword into something usable inside a filename.
func SafeName(keyword string) string {
	name := unsafeFileChars.ReplaceAllString(strings.TrimSpace(keyword), "_")
	name = strings.Trim(name, "_")
	if name == "" {
		return "haku"
	}
	return name
}

// ExcelFilename is the default spreadsheet name for a keyword.
func ExcelFilename(keyword string) string {
	return "tulokset_" + SafeName(keyword) + ".xlsx"
}

// HTMLFilename is the default timeline page name for a keyword.
func HTMLFilename(keyword string) string {
	return "aikajana_" + SafeName(keyword) + ".html"
}

func row(r records.Record) []string {
	return []string{
		strconv.Itoa(r.Year),
		r.OriginalYear,
		r.Title,
		r.ImageURL,
		r.RecordURL,
		formatCoord(r.Latitude),
		formatCoord(r.Longitude),
	}
}

func formatCoord(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
