package session

import (
	"math"

	"pong/broker"
	"pong/game"
	"pong/logger"
	"pong/protocol"
)

func (s *Session) snapshotLocked() protocol.GameState {
	gs := protocol.GameState{
		ID:      s.id,
		Paused:  s.state.Paused,
		Players: make([]protocol.GamePlayer, 0, len(s.state.Players)),
	}
	for _, p := range s.state.Players {
		gs.Players = append(gs.Players, protocol.GamePlayer{
			Player: protocol.Player{Username: p.ID, Score: p.Score, Won: p.Won},
			Paddle: protocol.Paddle{
				Y:         p.Paddle.Y,
				Direction: string(p.Paddle.Direction),
				Moving:    p.Paddle.Moving,
			},
		})
	}
	b := s.state.Ball
	gs.Ball = protocol.Ball{
		X:  roundClamp(b.X, game.MapWidth),
		Y:  roundClamp(b.Y, game.MapHeight),
		VX: b.VX,
		VY: b.VY,
	}
	return gs
}

func roundClamp(v float64, hi int) int {
	return min(max(int(math.Round(v)), 0), hi)
}

func (s *Session) encodeLocked() []byte {
	b, err := protocol.EncodeGameState(s.snapshotLocked())
	if err != nil {
		logger.Error("Failed to encode game state", "session", s.id, "err", err)
		return nil
	}
	return b
}

func (s *Session) broadcastLocked() {
	b := s.encodeLocked()
	if b == nil {
		return
	}
	for _, p := range s.peers {
		p.send(b)
	}
}

func (s *Session) eventLocked(kind, reason string) broker.Event {
	ev := broker.Event{
		Kind:      kind,
		SessionID: s.id,
		Players:   append([]string(nil), s.identities...),
		Reason:    reason,
	}
	for _, p := range s.state.Players {
		ev.Scores = append(ev.Scores, p.Score)
	}
	ev.Winners = s.state.Winners()
	return ev
}
