package cmd

import (
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/kuvahaku/kuvahaku/internal/finna"
	"github.com/kuvahaku/kuvahaku/internal/records"
)

type rootOptions struct {
	configFile string
	verbose    bool
}

func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "kuvahaku",
		Short: "Search Finna images by keyword and place them on a timeline",
		Long: `Kuvahaku searches the Finna cultural heritage API for images matching a
keyword, picks a year out of each hit and draws the results on a timeline and,
where coordinates are available, a map.

Results can be printed, exported to Excel, saved as snapshots or browsed in a
small web interface.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
			setupLogging(opts.verbose)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "Config file (yaml, json or toml)")
	flags.BoolVar(&opts.verbose, "verbose", false, "Enable debug logging")
	flags.String("api-url", finna.DefaultBaseURL, "Finna API base URL")
	flags.Duration("timeout", 30*time.Second, "HTTP timeout for API requests")
	flags.String("cache", "memory", "Search cache backend: none, memory or redis")
	flags.Duration("cache-ttl", time.Hour, "How long cached searches stay valid")
	flags.String("redis-addr", "localhost:6379", "Redis address for the redis cache backend")
	flags.String("image-host", records.DefaultOptions.ImageHost, "Host prepended to relative image paths")
	flags.String("record-url", records.DefaultOptions.RecordURL, "Record page prefix for links")

	cmd.AddCommand(newSearchCmd(opts))
	cmd.AddCommand(newRenderCmd())
	cmd.AddCommand(newImagesCmd(opts))
	cmd.AddCommand(newServeCmd(opts))

	return cmd
}

func setupLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}
