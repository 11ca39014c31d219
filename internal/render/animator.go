package render

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/sea-level-chart/internal/domain"
	"github.com/couchcryptid/sea-level-chart/internal/observability"
)

// Animator advances the water gauge wave phase on a fixed frame cadence.
// Renderers read the phase; the animator never touches core state.
type Animator struct {
	clock    clockwork.Clock
	interval time.Duration
	metrics  *observability.Metrics

	mu     sync.Mutex
	phase  float64
	frames uint64
}

// NewAnimator creates an Animator ticking every interval on clock.
func NewAnimator(clock clockwork.Clock, interval time.Duration, metrics *observability.Metrics) *Animator {
	return &Animator{clock: clock, interval: interval, metrics: metrics}
}

// Run advances one frame per tick until ctx is cancelled.
func (a *Animator) Run(ctx context.Context) error {
	ticker := a.clock.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.Chan():
			a.Step()
		}
	}
}

// Step advances the phase by one frame and returns it. The phase wraps at 2π.
func (a *Animator) Step() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.phase = math.Mod(a.phase+domain.WaveStep, 2*math.Pi)
	a.frames++
	a.metrics.AnimationFrames.Inc()
	return a.phase
}

// Phase returns the current wave phase.
func (a *Animator) Phase() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.phase
}

// Frames returns how many frames have been advanced.
func (a *Animator) Frames() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.frames
}
