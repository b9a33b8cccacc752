package broker

import (
	"context"

	"pong/logger"
)

// LogBroker writes events to the process log. Used when no external broker
// is configured but the feed is still wanted for debugging.
type LogBroker struct{}

func NewLogBroker() *LogBroker { return &LogBroker{} }

func (LogBroker) Publish(_ context.Context, channel string, ev Event) error {
	logger.Info("Match event",
		"channel", channel,
		"kind", ev.Kind,
		"session", ev.SessionID,
		"reason", ev.Reason,
		"winners", ev.Winners,
	)
	return nil
}

func (LogBroker) Type() string { return "log" }

func (LogBroker) Close() error { return nil }
