// Package charts renders a result table as HTML charts.
package charts

import (
	"fmt"
	"io"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/kuvahaku/kuvahaku/internal/records"
)

const (
	timelineHeight = "300px"
	mapHeight      = "600px"
	chartWidth     = "100%"
	markerColor    = "blue"
	markerSize     = 12
	// yearPadding keeps the outermost points off the axis edges.
	yearPadding = 5
)

// PointName is the label shown when hovering over a record.
func PointName(r records.Record) string {
	return fmt.Sprintf("%s (%s)", r.Title, r.OriginalYear)
}

// Timeline plots every record's year against a constant so all points sit
// on one line.
func Timeline(table records.Table, keyword string) *charts.Scatter {
	scatter := charts.NewScatter()

	xAxis := opts.XAxis{Name: "Vuosi", Type: "value"}
	if lo, hi, ok := table.YearSpan(); ok {
		xAxis.Min = lo - yearPadding
		xAxis.Max = hi + yearPadding
	}

	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Aikajana: " + keyword,
			Width:     chartWidth,
			Height:    timelineHeight,
		}),
		charts.WithTitleOpts(opts.Title{Title: "Aikajana: " + keyword}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Formatter: "{b}"}),
		charts.WithXAxisOpts(xAxis),
		charts.WithYAxisOpts(opts.YAxis{Show: opts.Bool(false), Min: 0, Max: 2}),
	)

	data := make([]opts.ScatterData, 0, len(table))
	for _, r := range table {
		data = append(data, opts.ScatterData{
			Name:       PointName(r),
			Value:      []any{r.Year, 1},
			Symbol:     "circle",
			SymbolSize: markerSize,
		})
	}

	scatter.AddSeries(keyword, data,
		charts.WithItemStyleOpts(opts.ItemStyle{Color: markerColor}),
	)

	return scatter
}

// Map places records with coordinates on a world map. It returns nil when no
// record has coordinates.
func Map(table records.Table, keyword string) *charts.Geo {
	located := table.WithCoordinates()
	if len(located) == 0 {
		return nil
	}

	geo := charts.NewGeo()
	geo.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Kartta: " + keyword,
			Width:     chartWidth,
			Height:    mapHeight,
		}),
		charts.WithTitleOpts(opts.Title{Title: "Kartta: " + keyword}),
		charts.WithGeoComponentOpts(opts.GeoComponent{Map: "world"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Formatter: "{b}"}),
	)

	data := make([]opts.GeoData, 0, len(located))
	for _, r := range located {
		data = append(data, opts.GeoData{
			Name:  PointName(r),
			Value: []float64{*r.Longitude, *r.Latitude, float64(r.Year)},
		})
	}

	geo.AddSeries(keyword, types.ChartScatter, data,
		charts.WithItemStyleOpts(opts.ItemStyle{Color: markerColor}),
	)

	return geo
}

// Render writes one HTML page holding the timeline and, when any record has
// coordinates, the map.
func Render(w io.Writer, table records.Table, keyword string) error {
	page := components.NewPage()
	page.PageTitle = "Aikajana: " + keyword
	page.AddCharts(Timeline(table, keyword))
	if m := Map(table, keyword); m != nil {
		page.AddCharts(m)
	}
	if err := page.Render(w); err != nil {
		return fmt.Errorf("failed to render charts: %w", err)
	}
	return nil
}

// SaveHTML renders the chart page to path.
func SaveHTML(path string, table records.Table, keyword string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create HTML file: %w", err)
	}
	defer file.Close()

	return Render(file, table, keyword)
}
