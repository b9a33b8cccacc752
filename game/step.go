package game

import "math/rand/v2"

const ballRadius = BallDiameter / 2.0

// Outcome reports what a single Step resolved.
type Outcome struct {
	Collision bool // at least one paddle returned the ball
	Scored    Side // side awarded a point this tick, NoSide if none
}

// Step advances s by one tick. Paddles move before the ball, and a paddle
// hit suppresses scoring for the same tick.
func Step(s *State, rng *rand.Rand) Outcome {
	s.Tick++
	var out Outcome

	for _, p := range s.Players {
		MovePaddle(&p.Paddle)
	}

	b := &s.Ball
	b.X += b.VX
	b.Y += b.VY

	switch {
	case b.Y-ballRadius <= 0:
		if b.VY < 0 {
			b.VY = -b.VY
		}
	case b.Y+ballRadius >= MapHeight:
		if b.VY > 0 {
			b.VY = -b.VY
		}
	default:
		for i, p := range s.Players {
			if hitsPaddle(b, SideOf(i), p.Paddle.Y) {
				returnBall(b, SideOf(i), p.Paddle.Y)
				out.Collision = true
			}
		}
	}

	if out.Collision {
		return out
	}

	switch {
	case b.X-ballRadius <= 0:
		s.award(Right)
		ResetBall(b, -1, rng)
		out.Scored = Right
	case b.X+ballRadius >= MapWidth:
		s.award(Left)
		ResetBall(b, 1, rng)
		out.Scored = Left
	}
	return out
}

// hitsPaddle only counts a ball travelling toward the paddle, so a ball that
// was just returned cannot be bounced a second time on its way out.
func hitsPaddle(b *Ball, side Side, paddleY int) bool {
	overlaps := b.Y+ballRadius >= float64(paddleY) &&
		b.Y-ballRadius <= float64(paddleY+PaddleHeight)
	if !overlaps {
		return false
	}
	switch side {
	case Left:
		return b.VX < 0 && b.X-ballRadius <= PaddleWidth
	case Right:
		return b.VX > 0 && b.X+ballRadius >= MapWidth-PaddleWidth
	}
	return false
}

// returnBall bounces b off the paddle and puts it back on the paddle face.
func returnBall(b *Ball, side Side, paddleY int) {
	if side == Left {
		PaddleBounce(b, paddleY, 1)
		b.X = PaddleWidth + ballRadius
		return
	}
	PaddleBounce(b, paddleY, -1)
	b.X = MapWidth - PaddleWidth - ballRadius
}
