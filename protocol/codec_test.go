package protocol

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestEncodeGameStateEnvelope(t *testing.T) {
	b, err := EncodeGameState(GameState{
		ID:     "g1",
		Paused: true,
		Players: []GamePlayer{
			{Player: Player{Username: "a"}, Paddle: Paddle{Y: 200, Direction: DirectionUp}},
			{Player: Player{Username: "b", Score: 2}, Paddle: Paddle{Y: 200, Direction: DirectionDown, Moving: true}},
		},
		Ball: Ball{X: 500, Y: 250, VX: -4.5, VY: 1},
	})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if string(raw["type"]) != `"game_state"` {
		t.Fatalf("type = %s, want \"game_state\"", raw["type"])
	}

	env, err := DecodeEnvelope(b)
	if err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	st, err := DecodePayload[GameState](env)
	if err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if st.ID != "g1" || len(st.Players) != 2 || st.Players[1].Player.Score != 2 || !st.Players[1].Paddle.Moving {
		t.Fatalf("unexpected state: %+v", st)
	}
}

func TestEncodeRejectsEmptyInput(t *testing.T) {
	if _, err := Encode("", GameState{}); err == nil {
		t.Fatalf("expected error for empty type")
	}
	if _, err := Encode(MsgGameState, nil); err == nil {
		t.Fatalf("expected error for nil payload")
	}
}

func TestDecodePaddleMove(t *testing.T) {
	m, err := DecodePaddleMove([]byte(`{"type":"paddle_move","payload":{"paddle":1,"direction":"down","moving":true}}`), 2)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if m.Paddle != 1 || m.Direction != DirectionDown || !m.Moving {
		t.Fatalf("unexpected command: %+v", m)
	}
}

func TestDecodePaddleMoveRejectsMalformed(t *testing.T) {
	cases := map[string]string{
		"empty":             ``,
		"not json":          `paddle up`,
		"wrong type":        `{"type":"game_state","payload":{"paddle":0,"direction":"up","moving":true}}`,
		"no payload":        `{"type":"paddle_move"}`,
		"missing moving":    `{"type":"paddle_move","payload":{"paddle":0,"direction":"up"}}`,
		"missing paddle":    `{"type":"paddle_move","payload":{"direction":"up","moving":true}}`,
		"bad direction":     `{"type":"paddle_move","payload":{"paddle":0,"direction":"left","moving":true}}`,
		"negative paddle":   `{"type":"paddle_move","payload":{"paddle":-1,"direction":"up","moving":true}}`,
		"paddle past slots": `{"type":"paddle_move","payload":{"paddle":2,"direction":"up","moving":true}}`,
		"string paddle":     `{"type":"paddle_move","payload":{"paddle":"0","direction":"up","moving":true}}`,
	}
	for name, frame := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodePaddleMove([]byte(frame), 2)
			if !errors.Is(err, ErrMalformed) {
				t.Fatalf("err = %v, want ErrMalformed", err)
			}
		})
	}
}

func TestDecodePaddleMoveAcceptsFourPlayerSlots(t *testing.T) {
	if _, err := DecodePaddleMove([]byte(`{"type":"paddle_move","payload":{"paddle":3,"direction":"up","moving":false}}`), 4); err != nil {
		t.Fatalf("slot 3 of 4 rejected: %v", err)
	}
}
