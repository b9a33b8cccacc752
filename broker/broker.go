package broker

import (
	"context"
	"errors"
	"time"
)

// Match lifecycle event kinds.
const (
	KindCreated  = "match.created"
	KindStarted  = "match.started"
	KindFinished = "match.finished"
)

// Reasons carried by KindFinished events.
const (
	ReasonScore   = "score"
	ReasonForfeit = "forfeit"
	ReasonAborted = "aborted"
	ReasonFault   = "fault"
)

var ErrClosed = errors.New("broker is closed")

// Event is a match lifecycle notification. It is fire-and-forget: nothing in
// the server reads it back.
type Event struct {
	Kind      string    `json:"kind"`
	SessionID string    `json:"sessionId"`
	Players   []string  `json:"players"`
	Scores    []int     `json:"scores,omitempty"`
	Winners   []string  `json:"winners,omitempty"`
	Reason    string    `json:"reason,omitempty"`
	At        time.Time `json:"at"`
}

// MessageBroker publishes events to an external channel or topic.
type MessageBroker interface {
	Publish(ctx context.Context, channel string, ev Event) error
	Type() string
	Close() error
}
