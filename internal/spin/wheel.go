package spin

import (
	"math/rand"
	"sync"
	"time"

	"raffle/internal/models"
)

// Wheel states
const (
	StateIdle     = "idle"
	StateSpinning = "spinning"
)

const defaultSpinDuration = 4 * time.Second

// WheelConfig describes one wheel spin. The winning index comes from the
// resolver; Duration and Iterations shape the animation only.
type WheelConfig struct {
	Segments     []models.WheelSegment
	WinnerIndex  int
	Duration     time.Duration
	Profile      WheelProfile
	Iterations   int
	TickInterval time.Duration // 0 disables cosmetic ticks
	OnEvent      Listener
}

// WheelPlan is the synchronously computed animation target handed back to
// the caller so the front end can run the eased transform.
type WheelPlan struct {
	TargetAngle float64
	Duration    time.Duration
}

// Wheel sequences a single wheel's spins: Idle -> Spinning -> Landed, with
// the landed transition firing exactly once per spin. Re-entrant spins are
// rejected while Spinning.
type Wheel struct {
	mu       sync.Mutex
	clock    Clock
	rng      *rand.Rand
	spinning bool
	spinSeq  uint64
	started  time.Time
	timers   []Timer
}

// NewWheel creates a wheel sequencer. The rng only perturbs where inside
// the winning segment the pointer rests; it never changes the winner.
func NewWheel(clock Clock, rng *rand.Rand) *Wheel {
	return &Wheel{clock: clock, rng: rng}
}

// State reports whether the wheel is idle or mid-spin.
func (w *Wheel) State() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.spinning {
		return StateSpinning
	}
	return StateIdle
}

// Spin validates the config, computes the target rotation, and schedules
// the landed transition. The reported winner is always cfg.WinnerIndex.
func (w *Wheel) Spin(cfg WheelConfig) (*WheelPlan, error) {
	w.mu.Lock()
	if w.spinning {
		w.mu.Unlock()
		return nil, ErrSpinInProgress
	}
	if len(cfg.Segments) < 2 {
		w.mu.Unlock()
		return nil, ErrNotEnoughSegments
	}
	if cfg.WinnerIndex < 0 || cfg.WinnerIndex >= len(cfg.Segments) {
		w.mu.Unlock()
		return nil, ErrWinnerOutOfRange
	}
	if cfg.Duration <= 0 {
		cfg.Duration = defaultSpinDuration
	}
	if cfg.Iterations < 0 {
		cfg.Iterations = 0
	}

	segmentAngle := 360.0 / float64(len(cfg.Segments))
	// Rest somewhere inside the winning slice, away from its edges.
	subOffset := (0.15 + 0.7*w.rng.Float64()) * segmentAngle
	target := 360.0 - (float64(cfg.WinnerIndex)*segmentAngle + subOffset) + 90.0
	target += float64(cfg.Iterations) * 360.0 * cfg.Profile.Multiplier()

	w.spinning = true
	w.spinSeq++
	seq := w.spinSeq
	w.started = w.clock.Now()
	w.timers = nil

	if cfg.TickInterval > 0 && cfg.TickInterval < cfg.Duration {
		w.scheduleTickLocked(cfg, seq, cfg.TickInterval)
	}
	landTimer := w.clock.AfterFunc(cfg.Duration, func() {
		w.land(cfg, seq)
	})
	w.timers = append(w.timers, landTimer)
	w.mu.Unlock()

	emit(cfg.OnEvent, Event{Kind: EventStart, WinnerIndex: cfg.WinnerIndex})

	return &WheelPlan{TargetAngle: target, Duration: cfg.Duration}, nil
}

func (w *Wheel) scheduleTickLocked(cfg WheelConfig, seq uint64, at time.Duration) {
	t := w.clock.AfterFunc(cfg.TickInterval, func() {
		w.mu.Lock()
		if !w.spinning || w.spinSeq != seq {
			w.mu.Unlock()
			return
		}
		if next := at + cfg.TickInterval; next < cfg.Duration {
			w.scheduleTickLocked(cfg, seq, next)
		}
		w.mu.Unlock()
		emit(cfg.OnEvent, Event{Kind: EventTick, WinnerIndex: cfg.WinnerIndex, ElapsedMs: at.Milliseconds()})
	})
	w.timers = append(w.timers, t)
}

func (w *Wheel) land(cfg WheelConfig, seq uint64) {
	w.mu.Lock()
	if !w.spinning || w.spinSeq != seq {
		w.mu.Unlock()
		return
	}
	w.spinning = false
	elapsed := w.clock.Now().Sub(w.started)
	w.stopTimersLocked()
	w.mu.Unlock()

	emit(cfg.OnEvent, Event{Kind: EventEnd, WinnerIndex: cfg.WinnerIndex, ElapsedMs: elapsed.Milliseconds()})
}

// Close stops pending timers. An in-flight spin will never land afterwards;
// owners call this on teardown.
func (w *Wheel) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.spinning = false
	w.spinSeq++
	w.stopTimersLocked()
}

func (w *Wheel) stopTimersLocked() {
	for _, t := range w.timers {
		t.Stop()
	}
	w.timers = nil
}

func emit(l Listener, ev Event) {
	if l != nil {
		l(ev)
	}
}
