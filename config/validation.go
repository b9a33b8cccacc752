package config

import (
	"errors"
	"fmt"
	"strings"

	"pong/game"
)

func (c *AppConfig) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return errors.New("invalid server port")
	}

	if c.Game.TickInterval <= 0 {
		return errors.New("game.tickInterval must be positive")
	}
	if c.Game.WinScore < 1 || c.Game.WinScore > game.MaxWinScore {
		return fmt.Errorf("game.winScore must be between 1 and %d", game.MaxWinScore)
	}
	if c.Game.SendQueue < 1 {
		return errors.New("game.sendQueue must be positive")
	}

	if c.Auth.JWTSecret == "" || c.Auth.JWTSecret == DefaultJWTSecret {
		return errors.New("auth.jwtSecret must be set to a strong secret")
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("auth.tokenTTL must be positive")
	}
	if c.Auth.TokenQueryParam == "" {
		return errors.New("auth.tokenQueryParam must be configured")
	}

	if c.WebSocket.MessageSizeLimit < 1 {
		return errors.New("websocket.messageSizeLimit must be positive")
	}
	if c.WebSocket.PingInterval >= c.WebSocket.PongTimeout {
		return errors.New("ping interval should be less than pong timeout")
	}

	switch strings.ToLower(c.Broker.Type) {
	case "none", "log":
	case "redis":
		if c.Broker.Redis.Address == "" {
			return errors.New("redis address must be specified for redis broker")
		}
	case "kafka":
		if len(c.Broker.Kafka.Brokers) == 0 {
			return errors.New("kafka brokers must be specified for kafka broker")
		}
	default:
		return fmt.Errorf("invalid broker type: %s. Must be 'none', 'log', 'redis' or 'kafka'", c.Broker.Type)
	}
	if strings.ToLower(c.Broker.Type) != "none" && c.Broker.Channel == "" {
		return errors.New("broker.channel must be set")
	}

	if c.Metrics.Enabled && (c.Metrics.Port < 1 || c.Metrics.Port > 65535) {
		return errors.New("invalid metrics port")
	}
	return nil
}
