// Package config resolves settings from flags, KUVAHAKU_* environment
// variables, an optional config file and defaults, in that order.
package config

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kuvahaku/kuvahaku/internal/cache"
	"github.com/kuvahaku/kuvahaku/internal/finna"
	"github.com/kuvahaku/kuvahaku/internal/records"
	"github.com/kuvahaku/kuvahaku/internal/search"
)

// EnvPrefix is prepended to every environment variable.
const EnvPrefix = "KUVAHAKU"

// Config is the resolved runtime configuration.
type Config struct {
	APIURL      string
	Records     records.Options
	Limit       int
	Timeout     time.Duration
	Geo         bool
	Cache       cache.Options
	DownloadRPS float64
}

// flagBindings maps config keys to the flag names that override them.
// redis.password is env/file only.
var flagBindings = map[string]string{
	"api_url":       "api-url",
	"timeout":       "timeout",
	"limit":         "limit",
	"geo":           "geo",
	"cache.backend": "cache",
	"cache.ttl":     "cache-ttl",
	"redis.address": "redis-addr",
	"download.rps":  "rps",
	"image_host":    "image-host",
	"record_url":    "record-url",
}

// FlagNames lists every flag Load reads, sorted.
func FlagNames() []string {
	names := make([]string, 0, len(flagBindings))
	for _, name := range flagBindings {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api_url", finna.DefaultBaseURL)
	v.SetDefault("image_host", records.DefaultOptions.ImageHost)
	v.SetDefault("record_url", records.DefaultOptions.RecordURL)
	v.SetDefault("limit", search.DefaultLimit)
	v.SetDefault("timeout", 30*time.Second)
	v.SetDefault("geo", true)
	v.SetDefault("cache.backend", cache.BackendMemory)
	v.SetDefault("cache.ttl", time.Hour)
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", cache.DefaultPrefix)
	v.SetDefault("download.rps", 2.0)
}

// Load resolves the configuration for cmd. configFile may be empty.
func Load(cmd *cobra.Command, configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	for key, name := range flagBindings {
		if flag := cmd.Flags().Lookup(name); flag != nil {
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
			}
		}
	}

	cfg := &Config{
		APIURL: v.GetString("api_url"),
		Records: records.Options{
			ImageHost: v.GetString("image_host"),
			RecordURL: v.GetString("record_url"),
		},
		Limit:   v.GetInt("limit"),
		Timeout: v.GetDuration("timeout"),
		Geo:     v.GetBool("geo"),
		Cache: cache.Options{
			Backend: strings.ToLower(v.GetString("cache.backend")),
			TTL:     v.GetDuration("cache.ttl"),
			Redis: cache.RedisConfig{
				Address:  v.GetString("redis.address"),
				Password: v.GetString("redis.password"),
				DB:       v.GetInt("redis.db"),
				Prefix:   v.GetString("redis.prefix"),
			},
		},
		DownloadRPS: v.GetFloat64("download.rps"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings no command can work with.
func (c *Config) Validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("api_url is required")
	}
	if c.Limit < 0 {
		return fmt.Errorf("limit must be non-negative, got %d", c.Limit)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	switch c.Cache.Backend {
	case cache.BackendNone, cache.BackendMemory, cache.BackendRedis:
	default:
		return fmt.Errorf("unsupported cache backend: %s (supported: none, memory, redis)", c.Cache.Backend)
	}
	return nil
}
