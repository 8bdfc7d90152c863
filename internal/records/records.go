// Package records turns raw Finna search hits into year-anchored records.
//
// Everything here is a pure function over its input; nothing does I/O.
package records

import (
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/kuvahaku/kuvahaku/internal/finna"
)

// UntitledPlaceholder replaces a missing title.
const UntitledPlaceholder = "Ei otsikkoa"

// Options holds the URL prefixes used when building links.
type Options struct {
	// ImageHost is prepended to the first relative image path.
	ImageHost string
	// RecordURL is the record page prefix; the escaped id is appended.
	RecordURL string
}

// DefaultOptions point at the public Finna services.
var DefaultOptions = Options{
	ImageHost: "https://api.finna.fi",
	RecordURL: "https://www.finna.fi/Record/",
}

// Record is one search hit with a usable year.
type Record struct {
	ID           string   `json:"id" yaml:"id" parquet:"id"`
	Year         int      `json:"year" yaml:"year" parquet:"year"`
	OriginalYear string   `json:"original_year" yaml:"original_year" parquet:"original_year"`
	Title        string   `json:"title" yaml:"title" parquet:"title"`
	ImageURL     string   `json:"image_url" yaml:"image_url" parquet:"image_url"`
	RecordURL    string   `json:"record_url" yaml:"record_url" parquet:"record_url"`
	Latitude     *float64 `json:"latitude,omitempty" yaml:"latitude,omitempty" parquet:"latitude"`
	Longitude    *float64 `json:"longitude,omitempty" yaml:"longitude,omitempty" parquet:"longitude"`
}

// HasCoordinates reports whether the record can be placed on a map.
func (r Record) HasCoordinates() bool {
	return r.Latitude != nil && r.Longitude != nil
}

// Table is an ordered result set. Order is the order the API returned.
type Table []Record

// WithCoordinates returns the records that carry both coordinates, in order.
func (t Table) WithCoordinates() Table {
	out := make(Table, 0, len(t))
	for _, r := range t {
		if r.HasCoordinates() {
			out = append(out, r)
		}
	}
	return out
}

// YearSpan returns the smallest and largest year in the table.
func (t Table) YearSpan() (minYear, maxYear int, ok bool) {
	if len(t) == 0 {
		return 0, 0, false
	}
	minYear, maxYear = t[0].Year, t[0].Year
	for _, r := range t[1:] {
		minYear = min(minYear, r.Year)
		maxYear = max(maxYear, r.Year)
	}
	return minYear, maxYear, true
}

var yearPattern = regexp.MustCompile(`\d{4}`)

// ExtractYear returns the first run of four ASCII digits in text. There is
// no calendar sanity check: "0000" and "9999" are accepted, and a longer
// number yields its first four digits.
func ExtractYear(text string) (int, bool) {
	if text == "" {
		return 0, false
	}
	match := yearPattern.FindString(text)
	if match == "" {
		return 0, false
	}
	year, err := strconv.Atoi(match)
	if err != nil {
		return 0, false
	}
	return year, true
}

// ExtractCoordinates reads a location out of a decoded geo field. It never
// fails; anything unusable comes back as nil, nil. For a point list a
// missing axis is nil on its own.
func ExtractCoordinates(geo finna.Geo) (lat, lon *float64) {
	switch geo.Kind {
	case finna.GeoPoints:
		if len(geo.Points) == 0 {
			return nil, nil
		}
		return finite(geo.Points[0].Lat), finite(geo.Points[0].Lon)
	case finna.GeoText:
		if strings.Count(geo.Text, ",") != 1 {
			return nil, nil
		}
		latText, lonText, _ := strings.Cut(geo.Text, ",")
		la, err := strconv.ParseFloat(strings.TrimSpace(latText), 64)
		if err != nil {
			return nil, nil
		}
		lo, err := strconv.ParseFloat(strings.TrimSpace(lonText), 64)
		if err != nil {
			return nil, nil
		}
		if finite(&la) == nil || finite(&lo) == nil {
			return nil, nil
		}
		return &la, &lo
	default:
		return nil, nil
	}
}

// finite drops NaN and infinities, which cannot be encoded as JSON.
func finite(v *float64) *float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return nil
	}
	return v
}

// Normalize converts one raw item. The second result is false when the item
// has no extractable year and must be dropped.
func Normalize(item finna.RawItem, opts Options) (Record, bool) {
	original := item.Year.String()
	year, ok := ExtractYear(original)
	if !ok {
		return Record{}, false
	}

	title := item.Title.String()
	if strings.TrimSpace(title) == "" {
		title = UntitledPlaceholder
	}

	var imageURL string
	if len(item.Images) > 0 {
		imageURL = opts.ImageHost + item.Images[0]
	}

	rec := Record{
		ID:           item.ID,
		Year:         year,
		OriginalYear: original,
		Title:        title,
		ImageURL:     imageURL,
		RecordURL:    opts.RecordURL + url.PathEscape(item.ID),
	}

	// Coordinates come in pairs or not at all.
	if lat, lon := ExtractCoordinates(item.Geo); lat != nil && lon != nil {
		rec.Latitude = lat
		rec.Longitude = lon
	}

	return rec, true
}

// NormalizeAll normalizes every item and keeps the survivors in order.
func NormalizeAll(items []finna.RawItem, opts Options) Table {
	table := make(Table, 0, len(items))
	for _, item := range items {
		if rec, ok := Normalize(item, opts); ok {
			table = append(table, rec)
		}
	}
	return table
}
