package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kuvahaku/kuvahaku/internal/download"
	"github.com/kuvahaku/kuvahaku/internal/export"
	"github.com/kuvahaku/kuvahaku/internal/report"
	"github.com/kuvahaku/kuvahaku/internal/search"
)

func newImagesCmd(root *rootOptions) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "images [keyword]",
		Short: "Download the images of a search",
		Long: `Runs a search and saves the image of every dated hit to a directory,
one file per record. Requests are throttled with --rps.`,
		Example: `  kuvahaku images Porvoo --dir porvoo --limit 20`,
		RunE: func(cmd *cobra.Command, args []string) error {
			keyword := strings.Join(args, " ")
			if strings.TrimSpace(keyword) == "" {
				var err error
				keyword, err = promptKeyword(cmd.InOrStdin(), cmd.ErrOrStderr())
				if err != nil {
					return err
				}
			}

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

			if dir == "" {
				dir = "kuvat_" + export.SafeName(result.Keyword)
			}
			stats, err := download.New(cfg.DownloadRPS).Download(cmd.Context(), result.Records, dir)
			fmt.Fprintf(cmd.OutOrStdout(), "Ladattu %d, ohitettu %d, epäonnistui %d -> %s\n",
				stats.Downloaded, stats.Skipped, stats.Failed, dir)
			return err
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Output directory (default kuvat_<keyword>)")
	cmd.Flags().Int("limit", search.DefaultLimit, "Number of hits to request (max 100)")
	cmd.Flags().Float64("rps", 2, "Image requests per second")

	return cmd
}
