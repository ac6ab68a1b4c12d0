// Package effects is the presentation-trigger boundary: sound and confetti
// are fire-and-forget and their failures are never allowed to affect a spin.
package effects

import "github.com/google/logger"

// Trigger plays a sound or celebration keyed by a symbolic event name.
// Implementations must be non-blocking; errors are the implementation's
// problem to log.
type Trigger interface {
	Sound(sessionID, name string)
	Celebrate(sessionID, kind string)
}

// LogTrigger is the default Trigger. The real playback happens client-side;
// the server just records that the cue fired.
type LogTrigger struct{}

// NewLogTrigger creates a LogTrigger.
func NewLogTrigger() *LogTrigger {
	return &LogTrigger{}
}

func (LogTrigger) Sound(sessionID, name string) {
	logger.Infof("sound cue %q for session %s", name, sessionID)
}

func (LogTrigger) Celebrate(sessionID, kind string) {
	logger.Infof("celebration %q for session %s", kind, sessionID)
}

// Multi fans one trigger call out to several implementations. A panicking
// implementation is recovered and logged so a cosmetic failure cannot kill
// the spin that caused it.
type Multi []Trigger

func (m Multi) Sound(sessionID, name string) {
	for _, t := range m {
		fire(func() { t.Sound(sessionID, name) })
	}
}

func (m Multi) Celebrate(sessionID, kind string) {
	for _, t := range m {
		fire(func() { t.Celebrate(sessionID, kind) })
	}
}

func fire(f func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("presentation trigger failed: %v", r)
		}
	}()
	f()
}
