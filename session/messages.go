package session

import (
	"errors"

	"pong/broker"
)

var (
	ErrNotFound           = errors.New("session: not found")
	ErrInvalidComposition = errors.New("session: a match needs 2 or 4 non-empty identities")
	ErrNotInSession       = errors.New("session: identity does not occupy a slot")
)

// Conn is a duplex channel to one client. Send may block; it is only ever
// called from the owning Peer's writer goroutine.
type Conn interface {
	Send([]byte) error
	Close() error
}

// Events receives match lifecycle notifications. Emit must not block.
type Events interface {
	Emit(broker.Event)
}

type discardEvents struct{}

func (discardEvents) Emit(broker.Event) {}
