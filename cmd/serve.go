package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/kuvahaku/kuvahaku/internal/handlers"
	"github.com/kuvahaku/kuvahaku/internal/telemetry"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web search interface",
		Long: `Starts the Kuvahaku web interface on the specified port.

The page has a keyword field and a result-count slider. Submitting it shows
the timeline, the map and the link table, with an Excel download.`,
		Example: `  # Start server on default port 8501
  kuvahaku serve

  # Share a redis cache between instances
  kuvahaku serve --port 3000 --cache redis --redis-addr cache:6379`,
		RunE: func(cmd *cobra.Command, args []string) error {
			metrics := telemetry.New()
			svc, cfg, err := newService(cmd, root, metrics)
			if err != nil {
				return err
			}
			handler := handlers.New(svc)

			mux := http.NewServeMux()
			mux.HandleFunc("/api/search", handler.HandleSearch)
			mux.HandleFunc("/api/cache", handler.HandleCache)
			mux.HandleFunc("/charts", handler.HandleCharts)
			mux.HandleFunc("/export.xlsx", handler.HandleExport)
			mux.Handle("/metrics", metrics.Handler())
			mux.HandleFunc("/", handler.HandleIndex)
			mux.HandleFunc("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
				if _, err := w.Write([]byte("OK")); err != nil {
					slog.Error("Unable to write healthcheck", "err", err)
				}
			})

			addr := ":" + port
			server := &http.Server{
				Addr:              addr,
				Handler:           mux,
				ReadHeaderTimeout: 10 * time.Second,
			}

			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Kuvahaku interface available", "addr", addr, "url", "http://localhost"+addr, "cache", cfg.Cache.Backend)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "8501", "Port to listen on")

	return cmd
}
