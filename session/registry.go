package session

import (
	"math/rand/v2"
	"slices"
	"sync"

	"github.com/google/uuid"

	"pong/broker"
	"pong/game"
	"pong/logger"
	"pong/metrics"
	"pong/protocol"
)

const defaultSendQueue = 64

type Options struct {
	WinScore  int    // points needed to win, game.DefaultWinScore if zero
	SendQueue int    // per-channel outbound frame queue
	Events    Events // lifecycle sink, discarded if nil

	// NewRand seeds the per-session serve generator.
	NewRand func() *rand.Rand
}

// Registry owns every live session by id. The map lock is only held for map
// access; per-session work happens under the session's own lock.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	winScore  int
	sendQueue int
	events    Events
	newRand   func() *rand.Rand
}

func NewRegistry(opts Options) *Registry {
	r := &Registry{
		sessions:  make(map[string]*Session),
		winScore:  opts.WinScore,
		sendQueue: opts.SendQueue,
		events:    opts.Events,
		newRand:   opts.NewRand,
	}
	if r.winScore <= 0 {
		r.winScore = game.DefaultWinScore
	}
	if r.sendQueue <= 0 {
		r.sendQueue = defaultSendQueue
	}
	if r.events == nil {
		r.events = discardEvents{}
	}
	if r.newRand == nil {
		r.newRand = func() *rand.Rand {
			return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		}
	}
	return r
}

func (r *Registry) WinScore() int { return r.winScore }

// Create starts a paused match for identities, in slot order.
func (r *Registry) Create(identities []string) (*Session, error) {
	if slices.Contains(identities, "") {
		return nil, ErrInvalidComposition
	}
	rng := r.newRand()
	state, err := game.NewState(identities, rng)
	if err != nil {
		return nil, ErrInvalidComposition
	}

	s := &Session{
		id:         uuid.NewString(),
		identities: slices.Clone(identities),
		winScore:   r.winScore,
		sendQueue:  r.sendQueue,
		registry:   r,
		state:      state,
		rng:        rng,
		peers:      make(map[string]*Peer),
	}

	r.mu.Lock()
	r.sessions[s.id] = s
	r.mu.Unlock()

	metrics.SessionsCreated.Inc()
	metrics.SessionsActive.Inc()
	logger.Info("Session created", "session", s.id, "players", s.identities)

	s.mu.Lock()
	ev := s.eventLocked(broker.KindCreated, "")
	s.mu.Unlock()
	r.events.Emit(ev)
	return s, nil
}

func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

func (r *Registry) Snapshot(id string) (protocol.GameState, bool) {
	s, ok := r.Get(id)
	if !ok {
		return protocol.GameState{}, false
	}
	return s.Snapshot(), true
}

func (r *Registry) SetPaused(id string, paused bool) (protocol.GameState, bool) {
	s, ok := r.Get(id)
	if !ok {
		return protocol.GameState{}, false
	}
	return s.setPaused(paused)
}

// Attach binds conn to identity's slot(s) in session id, replacing any
// previous channel for that identity.
func (r *Registry) Attach(id, identity string, conn Conn) (*Peer, error) {
	s, ok := r.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	return s.attach(identity, conn)
}

// ListForIdentity returns the ids of live sessions identity plays in, sorted.
func (r *Registry) ListForIdentity(identity string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0)
	for id, s := range r.sessions {
		if s.hasIdentity(identity) {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}

// Remove tears a session down, closing its channels. Removing an unknown or
// already finished session is a no-op.
func (r *Registry) Remove(id string) {
	if s, ok := r.Get(id); ok {
		r.terminate(s, broker.ReasonAborted)
	}
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Close tears down every live session.
func (r *Registry) Close() {
	for _, s := range r.live() {
		r.terminate(s, broker.ReasonAborted)
	}
}

func (r *Registry) live() []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}
	return out
}

func (r *Registry) terminate(s *Session, reason string) {
	if ev, ok := s.terminate(reason); ok {
		r.retire(s.id, ev)
	}
}

// retire forgets a session that has already been torn down. It must not be
// called with the session lock held.
func (r *Registry) retire(id string, ev broker.Event) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()

	metrics.SessionsActive.Dec()
	metrics.SessionsFinished.WithLabelValues(ev.Reason).Inc()
	logger.Info("Session finished", "session", id, "reason", ev.Reason, "winners", ev.Winners)
	r.events.Emit(ev)
}
