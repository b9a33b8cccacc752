package protocol

import (
	"encoding/json"
	"time"
)

const (
	MsgGameState  = "game_state"
	MsgPaddleMove = "paddle_move"
)

const (
	SimTickInterval = 16 * time.Millisecond
)

type Envelope struct {
	T string          `json:"type"`
	P json.RawMessage `json:"payload"` // raw payload bytes
}
