// Package spin drives the timed wheel and slot animations. The winning
// index is always supplied by the caller; the sequencer only animates
// toward it and can never land anywhere else.
package spin

import "errors"

// Event kinds, in the order they can occur within one spin.
const (
	EventStart    = "start"
	EventTick     = "tick"
	EventReelStop = "reelStop"
	EventEnd      = "end"
)

// Event is a notification emitted during a spin. Ticks are cosmetic and
// carry no semantic weight; the end event fires exactly once per spin.
type Event struct {
	Kind        string
	WinnerIndex int
	ReelIndex   int // set on reelStop events
	ElapsedMs   int64
}

// Listener receives spin events. Listeners run on the timer goroutine and
// must not block.
type Listener func(Event)

// Result is delivered with the end event of a completed spin.
type Result struct {
	WinnerIndex int
	ElapsedMs   int64
}

var (
	// ErrSpinInProgress rejects re-entrant spins on the same instance.
	ErrSpinInProgress = errors.New("a spin is already in progress")
	// ErrNotEnoughSegments refuses a wheel spin over fewer than two segments.
	ErrNotEnoughSegments = errors.New("a wheel spin needs at least two segments")
	// ErrNoSymbols refuses a slot spin with an empty symbol set.
	ErrNoSymbols = errors.New("a slot spin needs at least one symbol")
	// ErrWinnerOutOfRange rejects a winning index outside the layout.
	ErrWinnerOutOfRange = errors.New("winning index is outside the layout")
)
