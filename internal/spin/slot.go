package spin

import (
	"math/rand"
	"sync"
	"time"

	"raffle/internal/models"
)

// Slot reels replicate the shuffled symbol set three times so the
// deceleration animation has visual room on both sides of the read position.
const reelReplication = 3

const (
	defaultReelCount        = 3
	defaultProgressiveDelay = 500 * time.Millisecond
)

// SlotConfig describes one slot-machine spin. One shared winning record
// drives every reel: each reel strip is shuffled independently but stops
// with the winner's symbol in the read position.
type SlotConfig struct {
	Symbols          []models.ReelSymbol
	WinnerIndex      int
	ReelCount        int
	Duration         time.Duration
	Profile          SlotProfile
	ProgressiveDelay time.Duration
	TickInterval     time.Duration // 0 disables cosmetic ticks
	OnEvent          Listener
}

// SlotPlan is the synchronously computed layout: the generated strips, the
// strip index each reel stops at, and when each reel stops.
type SlotPlan struct {
	Reels       [][]models.ReelSymbol
	StopIndexes []int
	StopTimes   []time.Duration
}

// Slot sequences a slot machine's spins. Each reel independently goes
// Idle -> Spinning -> Stopped; the aggregate lands only once every reel has
// stopped.
type Slot struct {
	mu        sync.Mutex
	clock     Clock
	rng       *rand.Rand
	spinning  bool
	spinSeq   uint64
	started   time.Time
	remaining int
	timers    []Timer
}

// NewSlot creates a slot sequencer.
func NewSlot(clock Clock, rng *rand.Rand) *Slot {
	return &Slot{clock: clock, rng: rng}
}

// State reports whether the machine is idle or mid-spin.
func (s *Slot) State() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.spinning {
		return StateSpinning
	}
	return StateIdle
}

// Spin validates the config, generates the reel strips, and schedules each
// reel's stop. The reported winner is always cfg.WinnerIndex.
func (s *Slot) Spin(cfg SlotConfig) (*SlotPlan, error) {
	s.mu.Lock()
	if s.spinning {
		s.mu.Unlock()
		return nil, ErrSpinInProgress
	}
	if len(cfg.Symbols) < 1 {
		s.mu.Unlock()
		return nil, ErrNoSymbols
	}
	if cfg.WinnerIndex < 0 || cfg.WinnerIndex >= len(cfg.Symbols) {
		s.mu.Unlock()
		return nil, ErrWinnerOutOfRange
	}
	if cfg.ReelCount <= 0 {
		cfg.ReelCount = defaultReelCount
	}
	if cfg.Duration <= 0 {
		cfg.Duration = defaultSpinDuration
	}
	if cfg.ProgressiveDelay <= 0 {
		cfg.ProgressiveDelay = defaultProgressiveDelay
	}

	plan := &SlotPlan{
		Reels:       make([][]models.ReelSymbol, cfg.ReelCount),
		StopIndexes: make([]int, cfg.ReelCount),
		StopTimes:   make([]time.Duration, cfg.ReelCount),
	}
	winnerID := cfg.Symbols[cfg.WinnerIndex].ID
	for i := 0; i < cfg.ReelCount; i++ {
		strip, stop := s.buildStripLocked(cfg.Symbols, winnerID)
		plan.Reels[i] = strip
		plan.StopIndexes[i] = stop
		plan.StopTimes[i] = cfg.Duration
		if cfg.Profile == SlotProgressive {
			plan.StopTimes[i] += time.Duration(i) * cfg.ProgressiveDelay
		}
	}

	s.spinning = true
	s.spinSeq++
	seq := s.spinSeq
	s.started = s.clock.Now()
	s.remaining = cfg.ReelCount
	s.timers = nil

	tickInterval := cfg.TickInterval / time.Duration(cfg.Profile.tickDivisor())
	if tickInterval > 0 && tickInterval < cfg.Duration {
		s.scheduleTickLocked(cfg, seq, tickInterval, tickInterval)
	}
	for i := 0; i < cfg.ReelCount; i++ {
		reel := i
		t := s.clock.AfterFunc(plan.StopTimes[i], func() {
			s.stopReel(cfg, seq, reel)
		})
		s.timers = append(s.timers, t)
	}
	s.mu.Unlock()

	emit(cfg.OnEvent, Event{Kind: EventStart, WinnerIndex: cfg.WinnerIndex})

	return plan, nil
}

// buildStripLocked shuffles a copy of the symbol set, replicates it, and
// returns the strip plus the read-position index of the winner's symbol in
// the middle replication.
func (s *Slot) buildStripLocked(symbols []models.ReelSymbol, winnerID string) ([]models.ReelSymbol, int) {
	shuffled := make([]models.ReelSymbol, len(symbols))
	copy(shuffled, symbols)
	s.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	strip := make([]models.ReelSymbol, 0, len(shuffled)*reelReplication)
	for i := 0; i < reelReplication; i++ {
		strip = append(strip, shuffled...)
	}

	stop := 0
	for i, sym := range shuffled {
		if sym.ID == winnerID {
			stop = len(shuffled) + i // middle replication
			break
		}
	}
	return strip, stop
}

func (s *Slot) scheduleTickLocked(cfg SlotConfig, seq uint64, interval, at time.Duration) {
	t := s.clock.AfterFunc(interval, func() {
		s.mu.Lock()
		if !s.spinning || s.spinSeq != seq {
			s.mu.Unlock()
			return
		}
		if next := at + interval; next < cfg.Duration {
			s.scheduleTickLocked(cfg, seq, interval, next)
		}
		s.mu.Unlock()
		emit(cfg.OnEvent, Event{Kind: EventTick, WinnerIndex: cfg.WinnerIndex, ElapsedMs: at.Milliseconds()})
	})
	s.timers = append(s.timers, t)
}

func (s *Slot) stopReel(cfg SlotConfig, seq uint64, reel int) {
	s.mu.Lock()
	if !s.spinning || s.spinSeq != seq {
		s.mu.Unlock()
		return
	}
	s.remaining--
	last := s.remaining == 0
	elapsed := s.clock.Now().Sub(s.started)
	if last {
		s.spinning = false
		s.stopTimersLocked()
	}
	s.mu.Unlock()

	emit(cfg.OnEvent, Event{Kind: EventReelStop, WinnerIndex: cfg.WinnerIndex, ReelIndex: reel, ElapsedMs: elapsed.Milliseconds()})
	if last {
		emit(cfg.OnEvent, Event{Kind: EventEnd, WinnerIndex: cfg.WinnerIndex, ElapsedMs: elapsed.Milliseconds()})
	}
}

// Close stops pending timers. An in-flight spin will never land afterwards.
func (s *Slot) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.spinning = false
	s.spinSeq++
	s.stopTimersLocked()
}

func (s *Slot) stopTimersLocked() {
	for _, t := range s.timers {
		t.Stop()
	}
	s.timers = nil
}
