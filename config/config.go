package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"pong/logger"
)

const EnvPrefix = "PONG"

type AppConfig struct {
	Server    ServerConfig
	Game      GameConfig
	Auth      AuthConfig
	WebSocket WebSocketConfig
	Broker    BrokerConfig
	Metrics   MetricsConfig
	Log       LogConfig
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type GameConfig struct {
	TickInterval time.Duration
	WinScore     int
	SendQueue    int // outbound frames buffered per channel
}

type AuthConfig struct {
	JWTSecret       string
	TokenTTL        time.Duration
	TokenQueryParam string
}

type WebSocketConfig struct {
	MessageSizeLimit int64
	PingInterval     time.Duration
	PongTimeout      time.Duration
	WriteTimeout     time.Duration
}

type BrokerConfig struct {
	Type      string // none, log, redis or kafka
	Channel   string
	QueueSize int
	Redis     RedisConfig
	Kafka     KafkaConfig
}

type RedisConfig struct {
	Address  string
	Password string
	DB       int
	PoolSize int
}

type KafkaConfig struct {
	Brokers []string
}

type MetricsConfig struct {
	Enabled bool
	Port    int
	Path    string
}

type LogConfig struct {
	Level string
}

// InitConfig loads a .env file into the process environment if one exists.
func InitConfig() {
	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file loaded", "err", err)
		return
	}
	logger.Info("Successfully loaded environment variables")
}

// Load builds the configuration for env from defaults, an optional
// config.<env>.yaml and PONG_* environment variables, in increasing priority.
func Load(env string, paths ...string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigName(fmt.Sprintf("config.%s", env))
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{"./configs", "."}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	if err := bindEnvVars(v); err != nil {
		return nil, fmt.Errorf("config env binding error: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config file error: %w", err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config unmarshal error: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}
