package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"pong/broker"
	"pong/config"
	"pong/logger"
	"pong/metrics"
	"pong/network"
	"pong/session"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	config.InitConfig()

	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "dev"
	}
	cfg, err := config.Load(env)
	if err != nil {
		logger.FatalF("Failed to initialize config: %v", err)
	}
	logger.Init(cfg.Log.Level)

	// --- Match event feed ---
	var events session.Events
	var notifier *broker.Notifier
	if mb := newBroker(cfg.Broker); mb != nil {
		defer mb.Close()
		notifier = broker.NewNotifier(mb, broker.NotifierOptions{
			Channel:   cfg.Broker.Channel,
			QueueSize: cfg.Broker.QueueSize,
		})
		events = notifier
		logger.Info("Match events enabled", "broker", mb.Type(), "channel", cfg.Broker.Channel)
	}

	registry := session.NewRegistry(session.Options{
		WinScore:  cfg.Game.WinScore,
		SendQueue: cfg.Game.SendQueue,
		Events:    events,
	})

	scheduler := session.NewScheduler(registry, cfg.Game.TickInterval)
	schedDone := make(chan struct{})
	go func() {
		scheduler.Run(ctx)
		close(schedDone)
	}()

	var metricsSrv *http.Server
	if cfg.Metrics.Enabled {
		metricsSrv = metrics.StartServer(cfg.Metrics.Port, cfg.Metrics.Path)
	}

	auth := network.NewTokenAuth(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	handler := network.NewHandler(registry, auth, cfg.WebSocket, cfg.Auth.TokenQueryParam)

	srv := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Server.Port),
		Handler:      handler.Routes(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		logger.Info("Pong server started", "addr", srv.Addr, "tick", cfg.Game.TickInterval, "winScore", cfg.Game.WinScore)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.FatalF("HTTP server failed: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	logger.Info("Shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP shutdown", "err", err)
	}
	cancel()
	<-schedDone
	registry.Close()

	if notifier != nil {
		if err := notifier.Close(shutdownCtx); err != nil {
			logger.Warn("Event feed not fully flushed", "err", err)
		}
	}
	if metricsSrv != nil {
		_ = metricsSrv.Shutdown(shutdownCtx)
	}
	logger.Info("Shutdown complete")
}

// newBroker builds the configured event publisher, or nil when the feed is off.
func newBroker(cfg config.BrokerConfig) broker.MessageBroker {
	logger.Info("Initializing message broker", "type", cfg.Type)
	switch strings.ToLower(cfg.Type) {
	case "log":
		return broker.NewLogBroker()
	case "redis":
		client, err := broker.NewRedisClient(cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.PoolSize)
		if err != nil {
			logger.FatalF("Failed to connect to Redis: %v", err)
		}
		return broker.NewRedisBroker(client)
	case "kafka":
		mb, err := broker.NewKafkaBroker(cfg.Kafka.Brokers)
		if err != nil {
			logger.FatalF("Failed to create Kafka broker: %v", err)
		}
		return mb
	}
	return nil
}
