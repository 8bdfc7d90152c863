package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kuvahaku/kuvahaku/internal/cache"
	"github.com/kuvahaku/kuvahaku/internal/finna"
)

func newCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().Int("limit", 50, "")
	cmd.Flags().Bool("geo", true, "")
	cmd.Flags().String("cache", "memory", "")
	cmd.Flags().Duration("timeout", 30*time.Second, "")
	return cmd
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(&cobra.Command{Use: "bare"}, "")
	require.NoError(t, err)

	assert.Equal(t, finna.DefaultBaseURL, cfg.APIURL)
	assert.Equal(t, "https://api.finna.fi", cfg.Records.ImageHost)
	assert.Equal(t, "https://www.finna.fi/Record/", cfg.Records.RecordURL)
	assert.Equal(t, 50, cfg.Limit)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.True(t, cfg.Geo)
	assert.Equal(t, cache.BackendMemory, cfg.Cache.Backend)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
	assert.Equal(t, cache.DefaultPrefix, cfg.Cache.Redis.Prefix)
	assert.InDelta(t, 2.0, cfg.DownloadRPS, 1e-9)
}

func TestLoadEnvironment(t *testing.T) {
	t.Setenv("KUVAHAKU_LIMIT", "20")
	t.Setenv("KUVAHAKU_CACHE_BACKEND", "redis")
	t.Setenv("KUVAHAKU_REDIS_ADDRESS", "cache:6379")
	t.Setenv("KUVAHAKU_API_URL", "https://api.example.org/v1")

	cfg, err := Load(&cobra.Command{Use: "bare"}, "")
	require.NoError(t, err)

	assert.Equal(t, 20, cfg.Limit)
	assert.Equal(t, cache.BackendRedis, cfg.Cache.Backend)
	assert.Equal(t, "cache:6379", cfg.Cache.Redis.Address)
	assert.Equal(t, "https://api.example.org/v1", cfg.APIURL)
}

func TestLoadFlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("KUVAHAKU_LIMIT", "20")

	cmd := newCmd()
	require.NoError(t, cmd.Flags().Set("limit", "75"))
	require.NoError(t, cmd.Flags().Set("geo", "false"))
	require.NoError(t, cmd.Flags().Set("cache", "none"))

	cfg, err := Load(cmd, "")
	require.NoError(t, err)

	assert.Equal(t, 75, cfg.Limit)
	assert.False(t, cfg.Geo)
	assert.Equal(t, cache.BackendNone, cfg.Cache.Backend)
}

func TestLoadLinkFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("image-host", "", "")
	cmd.Flags().String("record-url", "", "")
	require.NoError(t, cmd.Flags().Set("image-host", "https://img.example"))
	require.NoError(t, cmd.Flags().Set("record-url", "https://finna.example/Record/"))

	cfg, err := Load(cmd, "")
	require.NoError(t, err)

	assert.Equal(t, "https://img.example", cfg.Records.ImageHost)
	assert.Equal(t, "https://finna.example/Record/", cfg.Records.RecordURL)
}

func TestLoadRedisPasswordFromEnvironment(t *testing.T) {
	t.Setenv("KUVAHAKU_REDIS_PASSWORD", "secret")

	cfg, err := Load(&cobra.Command{Use: "bare"}, "")
	require.NoError(t, err)
	assert.Equal(t, "secret", cfg.Cache.Redis.Password)
	assert.NotContains(t, FlagNames(), "redis-password")
}

func TestLoadUnsetFlagsKeepEnvironment(t *testing.T) {
	t.Setenv("KUVAHAKU_LIMIT", "20")

	cfg, err := Load(newCmd(), "")
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.Limit)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kuvahaku.yaml")
	content := `limit: 30
cache:
  backend: none
  ttl: 5m
record_url: https://finna.example/Record/
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(&cobra.Command{Use: "bare"}, path)
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.Limit)
	assert.Equal(t, cache.BackendNone, cfg.Cache.Backend)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "https://finna.example/Record/", cfg.Records.RecordURL)
}

func TestLoadMissingConfigFile(t *testing.T) {
	_, err := Load(&cobra.Command{Use: "bare"}, filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := Config{APIURL: "https://x", Limit: 10, Timeout: time.Second, Cache: cache.Options{Backend: cache.BackendMemory}}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "missing api url", mutate: func(c *Config) { c.APIURL = "" }, wantErr: true},
		{name: "negative limit", mutate: func(c *Config) { c.Limit = -1 }, wantErr: true},
		{name: "zero timeout", mutate: func(c *Config) { c.Timeout = 0 }, wantErr: true},
		{name: "unknown cache", mutate: func(c *Config) { c.Cache.Backend = "memcached" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
