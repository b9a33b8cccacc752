package config

import (
	"time"

	"github.com/spf13/viper"

	"pong/game"
	"pong/protocol"
)

// DefaultJWTSecret is a placeholder that Validate refuses.
const DefaultJWTSecret = "default-secret"

func setDefaults(v *viper.Viper) {
	// Server
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.readTimeout", 15*time.Second)
	v.SetDefault("server.writeTimeout", 15*time.Second)

	// Game
	v.SetDefault("game.tickInterval", protocol.SimTickInterval)
	v.SetDefault("game.winScore", game.DefaultWinScore)
	v.SetDefault("game.sendQueue", 64)

	// Auth
	v.SetDefault("auth.jwtSecret", DefaultJWTSecret)
	v.SetDefault("auth.tokenTTL", 24*time.Hour)
	v.SetDefault("auth.tokenQueryParam", "token")

	// WebSocket
	v.SetDefault("websocket.messageSizeLimit", 2048)
	v.SetDefault("websocket.pingInterval", 25*time.Second)
	v.SetDefault("websocket.pongTimeout", 60*time.Second)
	v.SetDefault("websocket.writeTimeout", 10*time.Second)

	// Broker
	v.SetDefault("broker.type", "none")
	v.SetDefault("broker.channel", "pong.matches")
	v.SetDefault("broker.queueSize", 256)
	v.SetDefault("broker.redis.address", "localhost:6379")
	v.SetDefault("broker.redis.db", 0)
	v.SetDefault("broker.redis.poolSize", 10)
	v.SetDefault("broker.kafka.brokers", []string{"localhost:9092"})

	// Metrics
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 9090)
	v.SetDefault("metrics.path", "/metrics")

	// Log
	v.SetDefault("log.level", "info")
}

func bindEnvVars(v *viper.Viper) error {
	binds := map[string]string{
		"server.port":          "PONG_PORT",
		"auth.jwtSecret":       "PONG_JWT_SECRET",
		"broker.type":          "PONG_BROKER_TYPE",
		"broker.redis.address": "PONG_REDIS_ADDRESS",
		"broker.kafka.brokers": "PONG_KAFKA_BROKERS",
		"log.level":            "PONG_LOG_LEVEL",
	}
	for key, env := range binds {
		if err := v.BindEnv(key, env); err != nil {
			return err
		}
	}
	return nil
}
