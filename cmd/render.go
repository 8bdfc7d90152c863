package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kuvahaku/kuvahaku/internal/export"
	"github.com/kuvahaku/kuvahaku/internal/report"
	"github.com/kuvahaku/kuvahaku/internal/search"
)

func newRenderCmd() *cobra.Command {
	var (
		xlsxPath string
		htmlPath string
		open     bool
		format   string
	)

	cmd := &cobra.Command{
		Use:   "render <snapshot>",
		Short: "Rebuild the timeline and Excel file from a saved snapshot",
		Long: `Reads a snapshot written by "kuvahaku search --save" and writes the same
outputs a search would, without calling the API.`,
		Example: `  kuvahaku render tampere.parquet
  kuvahaku render tampere.yaml --xlsx "" --open`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := export.Load(args[0])
			if err != nil {
				return err
			}

			result := &search.Result{
				Keyword:   snap.Keyword,
				Limit:     snap.Limit,
				RawCount:  snap.RawCount,
				Records:   snap.Records,
				FetchedAt: snap.FetchedAt,
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%s (haettu %s)\n", report.Summary(result), snap.FetchedAt.Local().Format(time.DateTime))
			if result.Empty() {
				return nil
			}

			if err := writeResult(cmd.OutOrStdout(), result, format); err != nil {
				return err
			}
			return writeOutputs(result, outputPaths{
				xlsx: resolveName(xlsxPath, export.ExcelFilename(result.Keyword)),
				html: resolveName(htmlPath, export.HTMLFilename(result.Keyword)),
			}, open)
		},
	}

	cmd.Flags().StringVar(&xlsxPath, "xlsx", autoName, `Excel output path ("auto" for tulokset_<keyword>.xlsx, "" to skip)`)
	cmd.Flags().StringVar(&htmlPath, "html", autoName, `Timeline output path ("auto" for aikajana_<keyword>.html, "" to skip)`)
	cmd.Flags().BoolVar(&open, "open", false, "Open the timeline in a browser")
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format: table, json, yaml or csv")

	return cmd
}
