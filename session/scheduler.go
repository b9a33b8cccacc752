package session

import (
	"context"
	"runtime/debug"
	"time"

	"pong/broker"
	"pong/logger"
	"pong/metrics"
	"pong/protocol"
)

const defaultMaxCatchUp = 4

// Scheduler drives every live session from a single fixed-rate loop.
type Scheduler struct {
	registry   *Registry
	interval   time.Duration
	maxCatchUp int

	advance func(*Session)
}

func NewScheduler(r *Registry, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = protocol.SimTickInterval
	}
	return &Scheduler{
		registry:   r,
		interval:   interval,
		maxCatchUp: defaultMaxCatchUp,
		advance:    (*Session).advance,
	}
}

// Run ticks until ctx is done. Elapsed time is accumulated against the
// monotonic clock so a late wakeup is made up with extra steps, up to
// maxCatchUp per wakeup; anything beyond that is dropped.
func (sc *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(sc.interval)
	defer ticker.Stop()

	last := time.Now()
	var acc time.Duration
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			acc += now.Sub(last)
			last = now

			steps := 0
			for acc >= sc.interval && steps < sc.maxCatchUp {
				sc.Tick()
				acc -= sc.interval
				steps++
			}
			if acc >= sc.interval {
				logger.Debug("Scheduler behind, dropping steps", "behind", acc)
				acc = 0
			}
		}
	}
}

// Tick advances every unpaused live session by one step.
func (sc *Scheduler) Tick() {
	start := time.Now()
	for _, s := range sc.registry.live() {
		sc.step(s)
	}
	metrics.Ticks.Inc()
	metrics.TickDuration.Observe(time.Since(start).Seconds())
}

func (sc *Scheduler) step(s *Session) {
	defer func() {
		if v := recover(); v != nil {
			metrics.TickFaults.Inc()
			logger.Error("Session step panicked", "session", s.id, "panic", v, "stack", string(debug.Stack()))
			sc.registry.terminate(s, broker.ReasonFault)
		}
	}()
	sc.advance(s)
}
