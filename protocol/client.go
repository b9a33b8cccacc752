package protocol

import "fmt"

//input structs coming in from the client.

const (
	DirectionUp   = "up"
	DirectionDown = "down"
)

type PaddleMove struct {
	Paddle    int    `json:"paddle"`    // slot index
	Direction string `json:"direction"` // "up" or "down"
	Moving    bool   `json:"moving"`
}

// Validate checks the command against a match with players slots.
func (m PaddleMove) Validate(players int) error {
	if m.Paddle < 0 || m.Paddle >= players {
		return fmt.Errorf("%w: paddle %d out of range [0,%d)", ErrMalformed, m.Paddle, players)
	}
	if m.Direction != DirectionUp && m.Direction != DirectionDown {
		return fmt.Errorf("%w: unknown direction %q", ErrMalformed, m.Direction)
	}
	return nil
}
