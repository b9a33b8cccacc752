package session

import (
	"math/rand/v2"
	"slices"
	"sync"

	"pong/broker"
	"pong/game"
	"pong/logger"
	"pong/metrics"
	"pong/protocol"
)

// Session is one live match. All state is guarded by mu; a tick, an inbound
// paddle command and a bind/unbind never interleave within a session.
type Session struct {
	id         string
	identities []string // slot order, immutable
	winScore   int
	sendQueue  int
	registry   *Registry

	mu       sync.Mutex
	state    game.State
	rng      *rand.Rand
	peers    map[string]*Peer
	finished bool
}

func (s *Session) ID() string { return s.id }

// Identities returns the slot owners in paddle order.
func (s *Session) Identities() []string {
	return slices.Clone(s.identities)
}

func (s *Session) Snapshot() protocol.GameState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) Finished() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finished
}

func (s *Session) hasIdentity(identity string) bool {
	return slices.Contains(s.identities, identity)
}

// boundLocked reports whether every slot's identity has a live channel.
func (s *Session) boundLocked() bool {
	for _, id := range s.identities {
		if _, ok := s.peers[id]; !ok {
			return false
		}
	}
	return true
}

// advance runs one simulation step and retires the session on a win.
func (s *Session) advance() {
	if ev, done := s.step(); done {
		s.registry.retire(s.id, ev)
	}
}

func (s *Session) step() (broker.Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.finished || s.state.Paused {
		return broker.Event{}, false
	}

	out := game.Step(&s.state, s.rng)
	s.broadcastLocked()

	side := s.state.Leader(s.winScore)
	if side == game.NoSide {
		if out.Scored != game.NoSide {
			logger.Debug("Point scored", "session", s.id, "side", out.Scored.String())
		}
		return broker.Event{}, false
	}

	s.state.DeclareWinner(side)
	s.broadcastLocked()
	return s.teardownLocked(broker.ReasonScore), true
}

func (s *Session) attach(identity string, conn Conn) (*Peer, error) {
	if !s.hasIdentity(identity) {
		return nil, ErrNotInSession
	}

	s.mu.Lock()
	if s.finished {
		s.mu.Unlock()
		return nil, ErrNotFound
	}

	wasBound := s.boundLocked()
	if old, ok := s.peers[identity]; ok {
		old.close()
	}
	p := newPeer(s, identity, conn, s.sendQueue)
	s.peers[identity] = p

	var started *broker.Event
	if !wasBound && s.boundLocked() && s.state.Paused {
		s.state.Paused = false
		ev := s.eventLocked(broker.KindStarted, "")
		started = &ev
	}
	if b := s.encodeLocked(); b != nil {
		p.send(b)
	}
	s.mu.Unlock()

	logger.Info("Channel bound", "session", s.id, "identity", identity)
	if started != nil {
		logger.Info("Session started", "session", s.id)
		s.registry.events.Emit(*started)
	}
	return p, nil
}

func (s *Session) setPaused(paused bool) (protocol.GameState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished {
		return protocol.GameState{}, false
	}
	if s.state.Paused != paused {
		s.state.Paused = paused
		s.broadcastLocked()
	}
	return s.snapshotLocked(), true
}

func (s *Session) handleMessage(p *Peer, b []byte) {
	metrics.MessagesReceived.Inc()

	m, err := protocol.DecodePaddleMove(b, len(s.identities))
	if err != nil {
		metrics.MessagesMalformed.Inc()
		logger.Debug("Dropping malformed frame", "session", s.id, "identity", p.identity, "err", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished || p.closed {
		return
	}
	paddle := &s.state.Players[m.Paddle].Paddle
	paddle.Direction = game.Direction(m.Direction)
	paddle.Moving = m.Moving
}

func (s *Session) handleClose(p *Peer) {
	if ev, done := s.disconnect(p); done {
		s.registry.retire(s.id, ev)
	}
}

func (s *Session) disconnect(p *Peer) (broker.Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// superseded by a rebind, or already torn down
	if s.finished || s.peers[p.identity] != p {
		p.close()
		return broker.Event{}, false
	}
	delete(s.peers, p.identity)
	p.close()

	reason := broker.ReasonScore
	winner := s.state.Leader(s.winScore)
	if winner == game.NoSide {
		slot := slices.Index(s.identities, p.identity)
		winner = game.SideOf(slot).Opposite()
		reason = broker.ReasonForfeit
		metrics.Forfeits.Inc()
		logger.Info("Forfeit", "session", s.id, "identity", p.identity, "winner", winner.String())
	}
	s.state.DeclareWinner(winner)
	s.broadcastLocked()
	return s.teardownLocked(reason), true
}

// terminate tears the session down without declaring a winner.
func (s *Session) terminate(reason string) (broker.Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished {
		return broker.Event{}, false
	}
	return s.teardownLocked(reason), true
}

func (s *Session) teardownLocked(reason string) broker.Event {
	s.finished = true
	for id, p := range s.peers {
		p.close()
		delete(s.peers, id)
	}
	return s.eventLocked(broker.KindFinished, reason)
}
