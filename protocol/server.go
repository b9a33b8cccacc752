package protocol

type GameState struct {
	ID      string       `json:"id"`
	Paused  bool         `json:"paused"`
	Players []GamePlayer `json:"players"`
	Ball    Ball         `json:"ball"`
}

type GamePlayer struct {
	Player Player `json:"player"`
	Paddle Paddle `json:"paddle"`
}

type Player struct {
	Username string `json:"username"`
	Score    int    `json:"score"`
	Won      bool   `json:"won"`
}

type Paddle struct {
	Y         int    `json:"y"`
	Direction string `json:"direction"`
	Moving    bool   `json:"moving"`
}

type Ball struct {
	X  int     `json:"x"`
	Y  int     `json:"y"`
	VX float64 `json:"vx"`
	VY float64 `json:"vy"`
}
