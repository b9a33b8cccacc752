package session

import (
	"pong/logger"
	"pong/metrics"
)

// Peer is one channel bound to an identity within a session. Outbound frames
// go through a bounded queue drained by a dedicated goroutine, so a slow
// client never holds the session lock.
type Peer struct {
	identity string
	session  *Session
	conn     Conn
	out      chan []byte
	done     chan struct{}

	closed bool // guarded by session.mu
}

func newPeer(s *Session, identity string, conn Conn, queue int) *Peer {
	p := &Peer{
		identity: identity,
		session:  s,
		conn:     conn,
		out:      make(chan []byte, queue),
		done:     make(chan struct{}),
	}
	metrics.ChannelsBound.Inc()
	go p.pump()
	return p
}

func (p *Peer) Identity() string { return p.identity }

func (p *Peer) SessionID() string { return p.session.id }

// Done is closed once the queue has been flushed and the channel closed.
func (p *Peer) Done() <-chan struct{} { return p.done }

// HandleMessage is called by the transport for every inbound frame.
func (p *Peer) HandleMessage(b []byte) {
	p.session.handleMessage(p, b)
}

// HandleClose is called by the transport once the channel is gone.
func (p *Peer) HandleClose() {
	p.session.handleClose(p)
}

func (p *Peer) pump() {
	defer close(p.done)
	for b := range p.out {
		if err := p.conn.Send(b); err != nil {
			logger.Debug("Send failed", "session", p.session.id, "identity", p.identity, "err", err)
			continue
		}
		metrics.FramesSent.Inc()
	}
	if err := p.conn.Close(); err != nil {
		logger.Debug("Close failed", "session", p.session.id, "identity", p.identity, "err", err)
	}
}

// send must be called with session.mu held.
func (p *Peer) send(b []byte) {
	if p.closed || len(b) == 0 {
		return
	}
	select {
	case p.out <- b:
	default:
		metrics.FramesDropped.Inc()
	}
}

// close must be called with session.mu held. Frames already queued are
// still delivered before the channel is closed.
func (p *Peer) close() {
	if p.closed {
		return
	}
	p.closed = true
	close(p.out)
	metrics.ChannelsBound.Dec()
}
