package session

import (
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"pong/broker"
	"pong/protocol"
)

type fakeConn struct {
	sendCh chan []byte

	mu       sync.Mutex
	closed   bool
	closedCh chan struct{}
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		sendCh:   make(chan []byte, 1024),
		closedCh: make(chan struct{}),
	}
}

func (f *fakeConn) Send(b []byte) error {
	cp := make([]byte, len(b))
	copy(cp, b)
	select {
	case f.sendCh <- cp:
	default:
	}
	return nil
}

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.closed {
		f.closed = true
		close(f.closedCh)
	}
	return nil
}

func (f *fakeConn) waitClosed(t *testing.T) {
	t.Helper()
	select {
	case <-f.closedCh:
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for channel close")
	}
}

func (f *fakeConn) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// nextState returns the next game_state frame sent on f.
func (f *fakeConn) nextState(t *testing.T) protocol.GameState {
	t.Helper()
	timeout := time.After(time.Second)
	for {
		select {
		case b := <-f.sendCh:
			env, err := protocol.DecodeEnvelope(b)
			if err != nil || env.T != protocol.MsgGameState {
				continue
			}
			st, err := protocol.DecodePayload[protocol.GameState](env)
			if err != nil {
				t.Fatalf("decode state: %v", err)
			}
			return st
		case <-timeout:
			t.Fatalf("timed out waiting for game_state")
		}
	}
}

// lastState drains f until it is closed and returns the final game_state.
func (f *fakeConn) lastState(t *testing.T) protocol.GameState {
	t.Helper()
	f.waitClosed(t)
	var last protocol.GameState
	seen := false
	for {
		select {
		case b := <-f.sendCh:
			env, err := protocol.DecodeEnvelope(b)
			if err != nil || env.T != protocol.MsgGameState {
				continue
			}
			st, err := protocol.DecodePayload[protocol.GameState](env)
			if err != nil {
				t.Fatalf("decode state: %v", err)
			}
			last, seen = st, true
		default:
			if !seen {
				t.Fatalf("no game_state sent before close")
			}
			return last
		}
	}
}

type slowConn struct {
	sendCh chan []byte
	block  chan struct{}
}

func (s *slowConn) Send(b []byte) error {
	cp := append([]byte(nil), b...)
	select {
	case s.sendCh <- cp:
	default:
	}
	<-s.block // block until released
	return nil
}

func (s *slowConn) Close() error { return nil }

type recordEvents struct {
	mu  sync.Mutex
	evs []broker.Event
}

func (r *recordEvents) Emit(ev broker.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.evs = append(r.evs, ev)
}

func (r *recordEvents) kinds() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.evs))
	for _, ev := range r.evs {
		out = append(out, ev.Kind)
	}
	return out
}

func (r *recordEvents) last() broker.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.evs) == 0 {
		return broker.Event{}
	}
	return r.evs[len(r.evs)-1]
}

func newTestRegistry(events Events) *Registry {
	return NewRegistry(Options{
		Events: events,
		NewRand: func() *rand.Rand {
			return rand.New(rand.NewPCG(1, 2))
		},
	})
}

// mutate runs fn against the session's internal state under its lock.
func mutate(s *Session, fn func(s *Session)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s)
}
