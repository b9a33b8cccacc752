package metrics

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pong/logger"
)

var (
	// Session Metrics
	SessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pong_sessions_active",
		Help: "The current number of live game sessions.",
	})
	SessionsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pong_sessions_created_total",
		Help: "The total number of game sessions created.",
	})
	SessionsFinished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pong_sessions_finished_total",
		Help: "The total number of game sessions torn down, by reason.",
	}, []string{"reason"})
	Forfeits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pong_forfeits_total",
		Help: "The total number of matches decided by a disconnect.",
	})

	// Scheduler Metrics
	Ticks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pong_scheduler_ticks_total",
		Help: "The total number of scheduler passes over the registry.",
	})
	TickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pong_scheduler_tick_seconds",
		Help:    "Time spent stepping every live session in one pass.",
		Buckets: []float64{.0001, .00025, .0005, .001, .0025, .005, .01, .016, .025, .05},
	})
	TickFaults = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pong_scheduler_faults_total",
		Help: "The total number of session steps that panicked.",
	})

	// Channel Metrics
	ChannelsBound = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pong_channels_bound",
		Help: "The current number of channels bound to a session.",
	})
	FramesSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pong_frames_sent_total",
		Help: "The total number of frames written to channels.",
	})
	FramesDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pong_frames_dropped_total",
		Help: "The total number of outbound frames dropped on a full queue.",
	})
	MessagesReceived = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pong_messages_received_total",
		Help: "The total number of frames received from clients.",
	})
	MessagesMalformed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pong_messages_malformed_total",
		Help: "The total number of client frames dropped as malformed.",
	})

	// Broker Metrics
	EventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pong_events_published_total",
		Help: "The total number of match events published to the message broker.",
	}, []string{"broker_type"})
	EventsDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pong_events_dropped_total",
		Help: "The total number of match events dropped before publishing.",
	}, []string{"reason"})
	EventPublishRetries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pong_event_publish_retries_total",
		Help: "The total number of retries when publishing to the message broker.",
	}, []string{"broker_type"})

	// Auth Metrics
	AuthFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pong_auth_failures_total",
		Help: "The total number of rejected tokens.",
	}, []string{"reason"})
)

// StartServer serves the Prometheus registry on its own listener.
func StartServer(port int, path string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle(path, promhttp.Handler())

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	logger.Info("Starting metrics server", "addr", srv.Addr, "path", path)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server stopped", "err", err)
		}
	}()
	return srv
}
