package game

import "math"

const (
	MapWidth        = 1000
	MapHeight       = 500
	PaddleWidth     = 10
	PaddleHeight    = 100
	PaddleStep      = 8 // per tick while moving
	MaxPaddleY      = MapHeight - PaddleHeight
	BallDiameter    = 10
	BallSpeed       = 5.0 // speed of a fresh serve
	BounceSpeedup   = 1.2 // applied on every paddle hit, uncapped
	MaxBounceAngle  = math.Pi / 3
	MaxServeAngle   = math.Pi / 6
	DefaultWinScore = 3
	MaxWinScore     = 10
	MinPlayers      = 2
	MaxPlayers      = 4
)
