package cmd

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"github.com/kuvahaku/kuvahaku/internal/charts"
	"github.com/kuvahaku/kuvahaku/internal/export"
	"github.com/kuvahaku/kuvahaku/internal/report"
	"github.com/kuvahaku/kuvahaku/internal/search"
)

// autoName marks an output flag whose filename is derived from the keyword.
const autoName = "auto"

const keywordPrompt = "Mitä etsitään (esim. paikkakunta tai suku)? "

type searchOptions struct {
	noGeo    bool
	xlsxPath string
	htmlPath string
	open     bool
	format   string
	save     string
}

func newSearchCmd(root *rootOptions) *cobra.Command {
	opts := &searchOptions{}

	cmd := &cobra.Command{
		Use:   "search [keyword]",
		Short: "Search Finna images and build a timeline",
		Long: `Searches Finna for images matching the keyword, extracts a year from each
hit and writes the link table, an Excel file and an HTML timeline.

Hits without a recognisable year are left out. If no keyword is given it is
read from standard input.`,
		Example: `  # Search and write tulokset_Turku.xlsx and aikajana_Turku.html
  kuvahaku search Turku

  # 100 hits, no files, JSON to stdout
  kuvahaku search Helsinki --limit 100 --xlsx "" --html "" --format json

  # Keep a snapshot for later rendering
  kuvahaku search Tampere --save tampere.parquet`,
		RunE: func(cmd *cobra.Command, args []string) error {
			keyword := strings.Join(args, " ")
			if strings.TrimSpace(keyword) == "" {
				var err error
				keyword, err = promptKeyword(cmd.InOrStdin(), cmd.ErrOrStderr())
				if err != nil {
					return err
				}
			}
			if opts.noGeo {
				if err := cmd.Flags().Set("geo", "false"); err != nil {
					return err
				}
			}
			return runSearch(cmd, root, opts, keyword)
		},
	}

	cmd.Flags().Int("limit", search.DefaultLimit, "Number of hits to request (max 100)")
	cmd.Flags().Bool("geo", true, "Request coordinates for the map")
	cmd.Flags().BoolVar(&opts.noGeo, "no-geo", false, "Do not request coordinates")
	cmd.Flags().StringVar(&opts.xlsxPath, "xlsx", autoName, `Excel output path ("auto" for tulokset_<keyword>.xlsx, "" to skip)`)
	cmd.Flags().StringVar(&opts.htmlPath, "html", autoName, `Timeline output path ("auto" for aikajana_<keyword>.html, "" to skip)`)
	cmd.Flags().BoolVar(&opts.open, "open", false, "Open the timeline in a browser")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "table", "Output format: table, json, yaml or csv")
	cmd.Flags().StringVar(&opts.save, "save", "", "Save a snapshot (.parquet or .yaml)")

	return cmd
}

func promptKeyword(in io.Reader, out io.Writer) (string, error) {
	fmt.Fprint(out, keywordPrompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read keyword: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func runSearch(cmd *cobra.Command, root *rootOptions, opts *searchOptions, keyword string) error {
	svc, cfg, err := newService(cmd, root, nil)
	if err != nil {
		return err
	}

	result, err := svc.Search(cmd.Context(), keyword, cfg.Limit)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.ErrOrStderr(), report.Summary(result))
	if result.Empty() {
		return nil
	}

	if err := writeResult(cmd.OutOrStdout(), result, opts.format); err != nil {
		return err
	}

	return writeOutputs(result, outputPaths{
		xlsx: resolveName(opts.xlsxPath, export.ExcelFilename(result.Keyword)),
		html: resolveName(opts.htmlPath, export.HTMLFilename(result.Keyword)),
		save: opts.save,
	}, opts.open)
}

func writeResult(w io.Writer, result *search.Result, format string) error {
	switch strings.ToLower(format) {
	case "table":
		report.RenderTable(w, result.Records)
		return nil
	case "json":
		return report.WriteJSON(w, result)
	case "yaml":
		return report.WriteYAML(w, result)
	case "csv":
		return export.WriteCSV(w, result.Records)
	default:
		return fmt.Errorf("unsupported format: %s (supported: table, json, yaml, csv)", format)
	}
}

func resolveName(flagValue, derived string) string {
	if flagValue == autoName {
		return derived
	}
	return flagValue
}

type outputPaths struct {
	xlsx string
	html string
	save string
}

func writeOutputs(result *search.Result, paths outputPaths, open bool) error {
	if paths.xlsx != "" {
		if err := export.SaveExcel(paths.xlsx, result.Records); err != nil {
			return err
		}
		slog.Info("Excel file written", "path", paths.xlsx)
	}

	if paths.html != "" {
		if err := charts.SaveHTML(paths.html, result.Records, result.Keyword); err != nil {
			return err
		}
		slog.Info("Timeline written", "path", paths.html)

		if open {
			abs, err := filepath.Abs(paths.html)
			if err != nil {
				return err
			}
			if err := browser.OpenFile(abs); err != nil {
				slog.Warn("Unable to open browser", "path", abs, "error", err)
			}
		}
	}

	if paths.save != "" {
		if err := export.Save(paths.save, export.FromResult(result)); err != nil {
			return err
		}
		slog.Info("Snapshot saved", "path", paths.save)
	}

	return nil
}
