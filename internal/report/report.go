// Package report prints search results to the terminal.
package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-runewidth"
	"gopkg.in/yaml.v3"

	"github.com/kuvahaku/kuvahaku/internal/records"
	"github.com/kuvahaku/kuvahaku/internal/search"
)

// TitleWidth is the display width titles are cut to.
const TitleWidth = 48

// Truncate shortens s to width terminal cells.
func Truncate(s string, width int) string {
	return runewidth.Truncate(s, width, "...")
}

// RenderTable writes the link table.
func RenderTable(w io.Writer, rows records.Table) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	t.AppendHeader(table.Row{"Vuosi", "Aikamerkintä", "Otsikko", "Kuva", "Finna-sivu"})
	for _, r := range rows {
		t.AppendRow(table.Row{
			r.Year,
			r.OriginalYear,
			Truncate(r.Title, TitleWidth),
			r.ImageURL,
			r.RecordURL,
		})
	}

	t.Render()
}

// Summary is a one-line status that tells "no hits" apart from "hits that
// had no usable year".
func Summary(result *search.Result) string {
	switch {
	case result.RawCount == 0:
		return fmt.Sprintf("Ei tuloksia hakusanalla '%s'.", result.Keyword)
	case result.Empty():
		return fmt.Sprintf("Löytyi %d osumaa hakusanalla '%s', mutta niistä ei saatu tunnistettua vuosilukuja aikajanalle.", result.RawCount, result.Keyword)
	default:
		return fmt.Sprintf("Löytyi %d osumaa hakusanalla '%s', aikajanalle %d (%d ilman vuosilukua).", result.RawCount, result.Keyword, len(result.Records), result.Discarded())
	}
}

// WriteJSON writes the whole result as indented JSON.
func WriteJSON(w io.Writer, result *search.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// WriteYAML writes the whole result as YAML.
func WriteYAML(w io.Writer, result *search.Result) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(result); err != nil {
		return err
	}
	return encoder.Close()
}
