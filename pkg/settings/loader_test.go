package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("defaults without a file", func(t *testing.T) {
		cfg, err := Load("")
		require.NoError(t, err)
		d := Default()
		assert.Equal(t, d.Queue, cfg.Queue)
		assert.Equal(t, d.Logger, cfg.Logger)
		assert.Equal(t, d.Server, cfg.Server)
		assert.Equal(t, d.Export.KeyPrefix, cfg.Export.KeyPrefix)
		assert.Empty(t, cfg.Export.Sinks)
	})

	t.Run("missing file falls back to defaults", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.NoError(t, err)
		assert.Equal(t, 64, cfg.Queue.Shards)
	})

	t.Run("yaml file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "queue.yaml")
		content := `
queue:
  capacity: 1000
  shards: 8
logger:
  log_level: debug
export:
  sinks: [redis, kafka]
  codec: json
kafka:
  brokers: ["k1:9092", "k2:9092"]
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 1000, cfg.Queue.Capacity)
		assert.Equal(t, 8, cfg.Queue.Shards)
		assert.Equal(t, 256, cfg.Queue.MaxNameLength, "unset keys keep defaults")
		assert.Equal(t, "debug", cfg.Logger.LogLevel)
		assert.Equal(t, []string{"redis", "kafka"}, cfg.Export.Sinks)
		assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("XK6_QUEUE_QUEUE_CAPACITY", "5")
		t.Setenv("XK6_QUEUE_REDIS_HOST", "redis.internal")

		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, 5, cfg.Queue.Capacity)
		assert.Equal(t, "redis.internal", cfg.Redis.Host)
	})

	t.Run("environment list", func(t *testing.T) {
		t.Setenv("XK6_QUEUE_EXPORT_SINKS", "redis,kafka")

		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, []string{"redis", "kafka"}, cfg.Export.Sinks)
	})

	t.Run("invalid file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "broken.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("validation failure", func(t *testing.T) {
		t.Setenv("XK6_QUEUE_QUEUE_CAPACITY", "-1")

		_, err := Load("")
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"unknown sink", func(c *Config) { c.Export.Sinks = []string{"s3"} }, true},
		{"unknown codec", func(c *Config) { c.Export.Codec = "xml" }, true},
		{"bad log level", func(c *Config) { c.Logger.LogLevel = "loud" }, true},
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }, true},
		{"empty log level ok", func(c *Config) { c.Logger.LogLevel = "" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := Validate(cfg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
