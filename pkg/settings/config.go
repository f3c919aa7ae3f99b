package settings

type Config struct {
	Queue  Queue  `mapstructure:"queue"`
	Logger Logger `mapstructure:"logger"`
	Redis  Redis  `mapstructure:"redis"`
	Kafka  Kafka  `mapstructure:"kafka"`
	Server Server `mapstructure:"server"`
	Export Export `mapstructure:"export"`
}

// Queue is the configuration for the queue registry
type Queue struct {
	// Capacity bounds each queue; 0 means unbounded.
	Capacity      int `mapstructure:"capacity" validate:"gte=0"`
	InitialSize   int `mapstructure:"initial_size" validate:"gte=0"`
	Shards        int `mapstructure:"shards" validate:"gte=0,lte=65536"`
	MaxNameLength int `mapstructure:"max_name_length" validate:"gte=0"`
}

// Logger is the configuration for the logger
type Logger struct {
	LogLevel    string `mapstructure:"log_level" validate:"omitempty,oneof=debug info warn error"`
	FileLogName string `mapstructure:"file_log_name"`
	MaxBackups  int    `mapstructure:"max_backups" validate:"gte=0"`
	MaxAge      int    `mapstructure:"max_age" validate:"gte=0"`
	MaxSize     int    `mapstructure:"max_size" validate:"gte=0"`
	Compress    bool   `mapstructure:"compress"`
}

// Redis is the configuration for Redis
type Redis struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port" validate:"gte=0,lte=65535"`
	Password        string `mapstructure:"password"`
	Database        int    `mapstructure:"database" validate:"gte=0"`
	PoolSize        int    `mapstructure:"pool_size" validate:"gte=0"`
	MinIdleConns    int    `mapstructure:"min_idle_conns" validate:"gte=0"`
	PoolTimeout     int    `mapstructure:"pool_timeout"`  // Seconds
	DialTimeout     int    `mapstructure:"dial_timeout"`  // Seconds
	ReadTimeout     int    `mapstructure:"read_timeout"`  // Seconds
	WriteTimeout    int    `mapstructure:"write_timeout"` // Seconds
	MaxRetries      int    `mapstructure:"max_retries"`
	MaxRetryBackoff int    `mapstructure:"max_retry_backoff"` // Milliseconds
	MinRetryBackoff int    `mapstructure:"min_retry_backoff"` // Milliseconds
}

// Kafka is the configuration for Kafka
type Kafka struct {
	Brokers         []string `mapstructure:"brokers"`
	Topic           string   `mapstructure:"topic"`
	MaxMessageBytes int      `mapstructure:"max_message_bytes"` // Bytes
	Timeout         int      `mapstructure:"timeout"`           // Seconds
	MaxRetries      int      `mapstructure:"max_retries"`       // Number of retries
	RetryBackoff    int      `mapstructure:"retry_backoff"`     // Milliseconds
}

// Server is the configuration for the HTTP server
type Server struct {
	Mode string `mapstructure:"mode" validate:"omitempty,oneof=debug release test"`
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port" validate:"gte=0,lte=65535"`
}

// Export selects the sinks that receive queue contents on shutdown
type Export struct {
	Sinks     []string `mapstructure:"sinks" validate:"dive,oneof=redis kafka"`
	KeyPrefix string   `mapstructure:"key_prefix"`
	Codec     string   `mapstructure:"codec" validate:"omitempty,oneof=json msgpack"`
	Timeout   int      `mapstructure:"timeout" validate:"gte=0"` // Seconds
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Queue: Queue{
			InitialSize:   16,
			Shards:        64,
			MaxNameLength: 256,
		},
		Logger: Logger{
			LogLevel:   "info",
			MaxBackups: 3,
			MaxAge:     7,
			MaxSize:    100,
		},
		Redis: Redis{
			Host: "localhost",
			Port: 6379,
		},
		Kafka: Kafka{
			Topic:   "xk6-queue-snapshots",
			Timeout: 10,
		},
		Server: Server{
			Mode: "release",
			Host: "0.0.0.0",
			Port: 8080,
		},
		Export: Export{
			KeyPrefix: "xk6-queue:",
			Codec:     "msgpack",
			Timeout:   30,
		},
	}
}
