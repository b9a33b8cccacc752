package game

import (
	"math"
	"math/rand/v2"
	"testing"
)

func testRand() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func newTestState(t *testing.T, ids ...string) *State {
	t.Helper()
	s, err := NewState(ids, testRand())
	if err != nil {
		t.Fatalf("NewState(%v): %v", ids, err)
	}
	s.Paused = false
	return &s
}

func TestNewStateRejectsOddComposition(t *testing.T) {
	for _, ids := range [][]string{nil, {"a"}, {"a", "b", "c"}, {"a", "b", "c", "d", "e"}} {
		if _, err := NewState(ids, testRand()); err != ErrPlayerCount {
			t.Fatalf("NewState(%v) err = %v, want ErrPlayerCount", ids, err)
		}
	}
}

func TestNewStateLayout(t *testing.T) {
	s, err := NewState([]string{"a", "b"}, testRand())
	if err != nil {
		t.Fatalf("NewState: %v", err)
	}
	if !s.Paused {
		t.Fatalf("new match should start paused")
	}
	for i, p := range s.Players {
		if p.Paddle.Y != 200 {
			t.Fatalf("slot %d paddle y = %d, want 200", i, p.Paddle.Y)
		}
	}
	if s.Ball.VX >= 0 {
		t.Fatalf("opening serve should travel left, vx = %f", s.Ball.VX)
	}

	s4, err := NewState([]string{"a", "b", "c", "d"}, testRand())
	if err != nil {
		t.Fatalf("NewState: %v", err)
	}
	want := []int{75, 75, 325, 325}
	for i, p := range s4.Players {
		if p.Paddle.Y != want[i] {
			t.Fatalf("slot %d paddle y = %d, want %d", i, p.Paddle.Y, want[i])
		}
	}
}

func TestStepMovesPaddleBeforeBallAndAdvancesTick(t *testing.T) {
	s := newTestState(t, "a", "b")
	s.Ball = Ball{X: 500, Y: 250, VX: 3, VY: 1}
	s.Players[0].Paddle.Moving = true
	s.Players[0].Paddle.Direction = Down

	Step(s, testRand())
	if s.Tick != 1 {
		t.Fatalf("tick after 1 step = %d, want 1", s.Tick)
	}
	if s.Players[0].Paddle.Y != 200+PaddleStep {
		t.Fatalf("paddle y = %d, want %d", s.Players[0].Paddle.Y, 200+PaddleStep)
	}
	if s.Ball.X != 503 || s.Ball.Y != 251 {
		t.Fatalf("ball at (%f,%f), want (503,251)", s.Ball.X, s.Ball.Y)
	}
}

func TestStepReflectsOffTopWall(t *testing.T) {
	s := newTestState(t, "a", "b")
	s.Ball = Ball{X: 500, Y: 6, VX: 2, VY: -3}

	out := Step(s, testRand())
	if s.Ball.VY != 3 {
		t.Fatalf("vy after top wall = %f, want 3", s.Ball.VY)
	}
	if out.Collision || out.Scored != NoSide {
		t.Fatalf("wall bounce should not count as a hit or score: %+v", out)
	}
}

func TestStepReflectsOffBottomWall(t *testing.T) {
	s := newTestState(t, "a", "b")
	s.Ball = Ball{X: 500, Y: MapHeight - 6, VX: 2, VY: 3}

	Step(s, testRand())
	if s.Ball.VY != -3 {
		t.Fatalf("vy after bottom wall = %f, want -3", s.Ball.VY)
	}
}

func TestStepLeftPaddleReturnsBall(t *testing.T) {
	s := newTestState(t, "a", "b")
	s.Ball = Ball{X: 18, Y: 250, VX: -4, VY: 0}

	out := Step(s, testRand())
	if !out.Collision {
		t.Fatalf("expected a paddle collision")
	}
	if out.Scored != NoSide {
		t.Fatalf("collision tick must not score, got %v", out.Scored)
	}
	if s.Ball.VX <= 0 {
		t.Fatalf("ball should head right after left paddle, vx = %f", s.Ball.VX)
	}
	if got := math.Hypot(s.Ball.VX, s.Ball.VY); math.Abs(got-4*BounceSpeedup) > 1e-9 {
		t.Fatalf("speed after bounce = %f, want %f", got, 4*BounceSpeedup)
	}
	if s.Players[0].Score != 0 || s.Players[1].Score != 0 {
		t.Fatalf("scores changed on a collision tick")
	}
}

func TestStepRightPaddleReturnsBall(t *testing.T) {
	s := newTestState(t, "a", "b")
	s.Ball = Ball{X: MapWidth - 18, Y: 260, VX: 4, VY: 0}

	out := Step(s, testRand())
	if !out.Collision {
		t.Fatalf("expected a paddle collision")
	}
	if s.Ball.VX >= 0 {
		t.Fatalf("ball should head left after right paddle, vx = %f", s.Ball.VX)
	}
}

func TestStepCollisionBeyondGoalLineSuppressesScore(t *testing.T) {
	s := newTestState(t, "a", "b")
	// Ball is already past the left boundary but still level with the paddle.
	s.Ball = Ball{X: 6, Y: 250, VX: -8, VY: 0}

	out := Step(s, testRand())
	if !out.Collision || out.Scored != NoSide {
		t.Fatalf("outcome = %+v, want collision without score", out)
	}
	if s.Players[1].Score != 0 {
		t.Fatalf("right side scored on a collision tick")
	}

	// The returned ball must not be scored on the way out either.
	out = Step(s, testRand())
	if out.Scored != NoSide {
		t.Fatalf("returned ball scored on the following tick")
	}
}

func TestStepLeftBoundaryScoresForRight(t *testing.T) {
	s := newTestState(t, "a", "b")
	s.Players[0].Paddle.Y = 0
	s.Ball = Ball{X: 7, Y: 400, VX: -3, VY: 0}

	out := Step(s, testRand())
	if out.Scored != Right {
		t.Fatalf("scored = %v, want right", out.Scored)
	}
	if s.Players[1].Score != 1 || s.Players[0].Score != 0 {
		t.Fatalf("scores = %d:%d, want 0:1", s.Players[0].Score, s.Players[1].Score)
	}
	if s.Ball.X != MapWidth/2 || s.Ball.Y != MapHeight/2 {
		t.Fatalf("ball not recentered: (%f,%f)", s.Ball.X, s.Ball.Y)
	}
	if s.Ball.VX >= 0 {
		t.Fatalf("serve after a left-goal point heads left, vx = %f", s.Ball.VX)
	}
}

func TestStepRightBoundaryScoresForLeft(t *testing.T) {
	s := newTestState(t, "a", "b")
	s.Players[1].Paddle.Y = 0
	s.Ball = Ball{X: MapWidth - 7, Y: 400, VX: 3, VY: 0}

	out := Step(s, testRand())
	if out.Scored != Left {
		t.Fatalf("scored = %v, want left", out.Scored)
	}
	if s.Players[0].Score != 1 {
		t.Fatalf("left score = %d, want 1", s.Players[0].Score)
	}
	if s.Ball.VX <= 0 {
		t.Fatalf("serve after a right-goal point heads right, vx = %f", s.Ball.VX)
	}
}

func TestStepFourPlayersScoreAsTeams(t *testing.T) {
	s := newTestState(t, "a", "b", "c", "d")
	s.Players[1].Paddle.Y = 0
	s.Players[3].Paddle.Y = 0
	s.Ball = Ball{X: MapWidth - 7, Y: 250, VX: 3, VY: 0}

	Step(s, testRand())
	got := []int{s.Players[0].Score, s.Players[1].Score, s.Players[2].Score, s.Players[3].Score}
	want := []int{1, 0, 1, 0}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("scores = %v, want %v", got, want)
		}
	}
}

func TestStepFourPlayersSharedSideBouncesOnce(t *testing.T) {
	s := newTestState(t, "a", "b", "c", "d")
	// Both left paddles overlap the ball.
	s.Players[0].Paddle.Y = 200
	s.Players[2].Paddle.Y = 210
	s.Ball = Ball{X: 18, Y: 250, VX: -5, VY: 0}

	Step(s, testRand())
	if got := math.Hypot(s.Ball.VX, s.Ball.VY); math.Abs(got-5*BounceSpeedup) > 1e-9 {
		t.Fatalf("speed = %f, want a single %.1fx bounce", got, BounceSpeedup)
	}
}

func TestLeaderAndDeclareWinner(t *testing.T) {
	s := newTestState(t, "a", "b")
	if s.Leader(3) != NoSide {
		t.Fatalf("fresh match has no leader")
	}
	s.Players[1].Score = 3
	if got := s.Leader(3); got != Right {
		t.Fatalf("leader = %v, want right", got)
	}
	s.DeclareWinner(Right)
	if s.Players[0].Won || !s.Players[1].Won {
		t.Fatalf("won flags = %v/%v, want false/true", s.Players[0].Won, s.Players[1].Won)
	}
	if w := s.Winners(); len(w) != 1 || w[0] != "b" {
		t.Fatalf("winners = %v, want [b]", w)
	}
}
