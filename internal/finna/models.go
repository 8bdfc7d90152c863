package finna

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// SearchResponse is the body returned by the /search endpoint.
type SearchResponse struct {
	ResultCount   int       `json:"resultCount"`
	Records       []RawItem `json:"records"`
	Status        string    `json:"status"`
	StatusMessage string    `json:"statusMessage,omitempty"`
}

// RawItem is one search hit as returned by the API. Every field is optional.
type RawItem struct {
	ID       string          `json:"id"`
	Title    Text            `json:"title"`
	Year     Text            `json:"year"`
	Images   []string        `json:"images"`
	Building json.RawMessage `json:"buildings,omitempty"`
	Geo      Geo             `json:"geo"`
}

// Text is a free-text field that tolerates numbers and null in place of a
// string.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	*t = ""
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	switch v := raw.(type) {
	case string:
		*t = Text(v)
	case float64:
		*t = Text(strconv.FormatFloat(v, 'f', -1, 64))
	}
	return nil
}

func (t Text) String() string {
	return string(t)
}

// GeoKind tells which shape the geo field arrived in.
type GeoKind int

const (
	// GeoNone covers an absent, empty or unrecognised geo field.
	GeoNone GeoKind = iota
	// GeoPoints is a list of objects carrying lat and lon.
	GeoPoints
	// GeoText is a single "lat,lon" string.
	GeoText
)

func (k GeoKind) String() string {
	switch k {
	case GeoPoints:
		return "points"
	case GeoText:
		return "text"
	default:
		return "none"
	}
}

// Point is one structured location. A nil axis means the key was missing
// or not numeric.
type Point struct {
	Lat *float64
	Lon *float64
}

// Geo is the decoded geo field. The shape is resolved once while decoding,
// so callers switch on Kind instead of sniffing types.
type Geo struct {
	Kind   GeoKind
	Points []Point
	Text   string
}

// UnmarshalJSON never fails: shapes it does not recognise decode to GeoNone
// so a bad geo value cannot drop the whole search response.
func (g *Geo) UnmarshalJSON(data []byte) error {
	*g = Geo{}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}

	switch v := raw.(type) {
	case []any:
		if len(v) == 0 {
			return nil
		}
		if _, ok := v[0].(map[string]any); !ok {
			return nil
		}
		points := make([]Point, 0, len(v))
		for _, el := range v {
			obj, ok := el.(map[string]any)
			if !ok {
				continue
			}
			points = append(points, Point{Lat: number(obj["lat"]), Lon: number(obj["lon"])})
		}
		g.Kind = GeoPoints
		g.Points = points
	case string:
		g.Kind = GeoText
		g.Text = v
	}

	return nil
}

func number(v any) *float64 {
	switch n := v.(type) {
	case float64:
		return &n
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
		return &f
	default:
		return nil
	}
}
