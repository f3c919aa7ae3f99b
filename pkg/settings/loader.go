package settings

import (
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. XK6_QUEUE_QUEUE_CAPACITY.
const EnvPrefix = "XK6_QUEUE"

var validate = validator.New()

// Load reads configuration from path (YAML or JSON) and the environment.
// An empty path or a missing file loads defaults plus environment overrides.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, errors.Wrapf(err, "settings: read %s", path)
			}
		} else if !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "settings: stat %s", path)
		}
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "settings: unmarshal")
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cfg against its struct tags.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return errors.Wrap(err, "settings: invalid configuration")
	}
	return nil
}

// setDefaults registers every key so AutomaticEnv can override nested fields.
// Slices default to empty, so they are only bound to the environment.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("queue.capacity", d.Queue.Capacity)
	v.SetDefault("queue.initial_size", d.Queue.InitialSize)
	v.SetDefault("queue.shards", d.Queue.Shards)
	v.SetDefault("queue.max_name_length", d.Queue.MaxNameLength)

	v.SetDefault("logger.log_level", d.Logger.LogLevel)
	v.SetDefault("logger.file_log_name", d.Logger.FileLogName)
	v.SetDefault("logger.max_backups", d.Logger.MaxBackups)
	v.SetDefault("logger.max_age", d.Logger.MaxAge)
	v.SetDefault("logger.max_size", d.Logger.MaxSize)
	v.SetDefault("logger.compress", d.Logger.Compress)

	v.SetDefault("redis.host", d.Redis.Host)
	v.SetDefault("redis.port", d.Redis.Port)
	v.SetDefault("redis.password", d.Redis.Password)
	v.SetDefault("redis.database", d.Redis.Database)
	v.SetDefault("redis.pool_size", d.Redis.PoolSize)
	v.SetDefault("redis.min_idle_conns", d.Redis.MinIdleConns)
	v.SetDefault("redis.pool_timeout", d.Redis.PoolTimeout)
	v.SetDefault("redis.dial_timeout", d.Redis.DialTimeout)
	v.SetDefault("redis.read_timeout", d.Redis.ReadTimeout)
	v.SetDefault("redis.write_timeout", d.Redis.WriteTimeout)
	v.SetDefault("redis.max_retries", d.Redis.MaxRetries)
	v.SetDefault("redis.max_retry_backoff", d.Redis.MaxRetryBackoff)
	v.SetDefault("redis.min_retry_backoff", d.Redis.MinRetryBackoff)

	_ = v.BindEnv("kafka.brokers")
	v.SetDefault("kafka.topic", d.Kafka.Topic)
	v.SetDefault("kafka.max_message_bytes", d.Kafka.MaxMessageBytes)
	v.SetDefault("kafka.timeout", d.Kafka.Timeout)
	v.SetDefault("kafka.max_retries", d.Kafka.MaxRetries)
	v.SetDefault("kafka.retry_backoff", d.Kafka.RetryBackoff)

	v.SetDefault("server.mode", d.Server.Mode)
	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)

	_ = v.BindEnv("export.sinks")
	v.SetDefault("export.key_prefix", d.Export.KeyPrefix)
	v.SetDefault("export.codec", d.Export.Codec)
	v.SetDefault("export.timeout", d.Export.Timeout)
}
