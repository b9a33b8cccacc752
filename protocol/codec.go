package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrMalformed = errors.New("protocol: malformed message")

func Encode(t string, payload any) ([]byte, error) {
	if t == "" {
		return nil, fmt.Errorf("trying to encode envelope type nil")
	}
	if payload == nil {
		return nil, fmt.Errorf("trying to encode nil payload")
	}
	pb, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	var e = Envelope{t, pb}

	return json.Marshal(e)
}

func EncodeGameState(s GameState) ([]byte, error) {
	return Encode(MsgGameState, s)
}

func DecodeEnvelope(b []byte) (Envelope, error) {
	if len(b) == 0 {
		return Envelope{}, fmt.Errorf("%w: empty frame", ErrMalformed)
	}
	var e Envelope
	if err := json.Unmarshal(b, &e); err != nil {
		return Envelope{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return e, nil
}

func DecodePayload[T any](env Envelope) (T, error) {
	var out T
	if len(env.P) == 0 {
		return out, fmt.Errorf("%w: empty payload for type %q", ErrMalformed, env.T)
	}
	if err := json.Unmarshal(env.P, &out); err != nil {
		return out, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return out, nil
}

// wire shape with every field required
type paddleMoveWire struct {
	Paddle    *int    `json:"paddle"`
	Direction *string `json:"direction"`
	Moving    *bool   `json:"moving"`
}

// DecodePaddleMove parses a client frame and validates it for a match with
// players slots. Any frame that is not a well-formed paddle_move is rejected
// with an error wrapping ErrMalformed.
func DecodePaddleMove(b []byte, players int) (PaddleMove, error) {
	env, err := DecodeEnvelope(b)
	if err != nil {
		return PaddleMove{}, err
	}
	if env.T != MsgPaddleMove {
		return PaddleMove{}, fmt.Errorf("%w: unexpected message type %q", ErrMalformed, env.T)
	}
	w, err := DecodePayload[paddleMoveWire](env)
	if err != nil {
		return PaddleMove{}, err
	}
	if w.Paddle == nil || w.Direction == nil || w.Moving == nil {
		return PaddleMove{}, fmt.Errorf("%w: paddle_move needs paddle, direction and moving", ErrMalformed)
	}
	m := PaddleMove{Paddle: *w.Paddle, Direction: *w.Direction, Moving: *w.Moving}
	if err := m.Validate(players); err != nil {
		return PaddleMove{}, err
	}
	return m, nil
}
