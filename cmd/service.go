package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kuvahaku/kuvahaku/internal/cache"
	"github.com/kuvahaku/kuvahaku/internal/config"
	"github.com/kuvahaku/kuvahaku/internal/finna"
	"github.com/kuvahaku/kuvahaku/internal/search"
	"github.com/kuvahaku/kuvahaku/internal/telemetry"
)

// newService resolves the configuration for cmd and builds the search
// service from it. metrics may be nil.
func newService(cmd *cobra.Command, opts *rootOptions, metrics *telemetry.Metrics) (*search.Service, *config.Config, error) {
	cfg, err := config.Load(cmd, opts.configFile)
	if err != nil {
		return nil, nil, err
	}

	client := finna.NewClient(cfg.APIURL, cfg.Timeout)
	client.IncludeGeo = cfg.Geo

	store, err := cache.New[*search.Result](cfg.Cache)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up %s cache: %w", cfg.Cache.Backend, err)
	}

	svc := search.NewService(client, search.Config{
		Records: cfg.Records,
		Cache:   store,
		Metrics: metrics,
	})
	return svc, cfg, nil
}
