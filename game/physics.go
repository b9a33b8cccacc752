package game

import (
	"math"
	"math/rand/v2"
)

// ResetBall recenters b and serves it at a random angle within
// ±MaxServeAngle toward dir (-1 left, +1 right).
func ResetBall(b *Ball, dir int, rng *rand.Rand) {
	b.X = MapWidth / 2
	b.Y = MapHeight / 2

	angle := rng.Float64()*2*MaxServeAngle - MaxServeAngle
	b.VX = float64(dir) * BallSpeed * math.Cos(angle)
	b.VY = BallSpeed * math.Sin(angle)
}

// PaddleBounce sends b back toward dir. The exit angle grows with the
// distance from the paddle center and the speed grows by BounceSpeedup.
func PaddleBounce(b *Ball, paddleY int, dir int) {
	center := float64(paddleY) + PaddleHeight/2.0
	normalized := (b.Y - center) / (PaddleHeight / 2.0)
	normalized = math.Max(-1, math.Min(1, normalized))

	speed := math.Hypot(b.VX, b.VY) * BounceSpeedup
	angle := normalized * MaxBounceAngle

	b.VX = float64(dir) * speed * math.Cos(angle)
	b.VY = speed * math.Sin(angle)
}

func MovePaddle(p *Paddle) {
	if !p.Moving {
		return
	}
	switch p.Direction {
	case Down:
		p.Y = min(p.Y+PaddleStep, MaxPaddleY)
	case Up:
		p.Y = max(p.Y-PaddleStep, 0)
	}
}
