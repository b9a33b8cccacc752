package game

import (
	"errors"
	"math/rand/v2"
)

// Internal truth authoritative match state

var ErrPlayerCount = errors.New("game: a match needs 2 or 4 players")

type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

func (d Direction) Valid() bool {
	return d == Up || d == Down
}

// Side is the half of the field a slot defends.
type Side uint8

const (
	NoSide Side = iota
	Left
	Right
)

// SideOf maps a paddle slot to its side: even slots defend the left goal.
func SideOf(slot int) Side {
	if slot%2 == 0 {
		return Left
	}
	return Right
}

func (s Side) Opposite() Side {
	switch s {
	case Left:
		return Right
	case Right:
		return Left
	}
	return NoSide
}

func (s Side) String() string {
	switch s {
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return "none"
}

type Paddle struct {
	Y         int
	Direction Direction
	Moving    bool
}

type Player struct {
	ID     string
	Score  int
	Won    bool
	Paddle Paddle
}

type Ball struct {
	X, Y   float64
	VX, VY float64
}

type State struct {
	Tick    int
	Paused  bool
	Players []*Player
	Ball    Ball
}

// NewState lays out a paused match for the given slots and serves the ball
// toward the left.
func NewState(ids []string, rng *rand.Rand) (State, error) {
	if len(ids) != MinPlayers && len(ids) != MaxPlayers {
		return State{}, ErrPlayerCount
	}

	starts := []int{MapHeight/2 - PaddleHeight/2}
	if len(ids) > MinPlayers {
		starts = []int{
			MapHeight/4 - PaddleHeight/2,
			MapHeight*3/4 - PaddleHeight/2,
		}
	}

	s := State{
		Paused:  true,
		Players: make([]*Player, 0, len(ids)),
	}
	for i, id := range ids {
		y := starts[0]
		if i >= 2 {
			y = starts[len(starts)-1]
		}
		s.Players = append(s.Players, &Player{
			ID:     id,
			Paddle: Paddle{Y: y, Direction: Up},
		})
	}
	ResetBall(&s.Ball, -1, rng)
	return s, nil
}

// Leader returns the side whose score reached winScore, or NoSide.
func (s *State) Leader(winScore int) Side {
	for i, p := range s.Players {
		if p.Score >= winScore {
			return SideOf(i)
		}
	}
	return NoSide
}

// DeclareWinner marks every player on side as having won.
func (s *State) DeclareWinner(side Side) {
	for i, p := range s.Players {
		if SideOf(i) == side {
			p.Won = true
		}
	}
}

// Winners lists the ids of players flagged as winners, in slot order.
func (s *State) Winners() []string {
	var out []string
	for _, p := range s.Players {
		if p.Won {
			out = append(out, p.ID)
		}
	}
	return out
}

func (s *State) award(side Side) {
	for i, p := range s.Players {
		if SideOf(i) == side {
			p.Score++
		}
	}
}
