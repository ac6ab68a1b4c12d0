package services

import (
	"time"

	"raffle/internal/models"
	"raffle/internal/spin"
)

const (
	defaultIterations = 5
	tickInterval      = 150 * time.Millisecond
)

// SpinWheel resolves a winner and starts a wheel spin. The animation plan is
// returned synchronously; the landed side effects (sound, confetti, history)
// fire once when the spin duration elapses.
func (s *RaffleService) SpinWheel(sessionID string, req models.SpinRequest) (*models.WheelSpinResponse, error) {
	s.mu.Lock()

	session := s.getSession(sessionID)
	roster := session.Contestants

	winnerIndex, winner, err := s.resolve(roster, req.Mode, req.Ticket)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}

	th := s.themes.Lookup(req.Theme)
	segments := make([]models.WheelSegment, len(roster))
	for i, c := range roster {
		segments[i] = models.WheelSegment{ID: c.ID, Label: c.Name, Color: th.ColorAt(i)}
	}

	record := s.newWinnerRecord(models.TypeWheel, winner, req.Mode)
	wheel := session.Wheel
	s.mu.Unlock()

	plan, err := wheel.Spin(spin.WheelConfig{
		Segments:     segments,
		WinnerIndex:  winnerIndex,
		Duration:     time.Duration(req.DurationMs) * time.Millisecond,
		Profile:      spin.ParseWheelProfile(req.Profile),
		Iterations:   iterations(req.IterationCount),
		TickInterval: tickInterval,
		OnEvent:      s.spinListener(sessionID, record),
	})
	if err != nil {
		return nil, err
	}

	return &models.WheelSpinResponse{
		WinnerIndex: winnerIndex,
		Winner:      *winner,
		Segments:    segments,
		TargetAngle: plan.TargetAngle,
		DurationMs:  plan.Duration.Milliseconds(),
	}, nil
}

// SpinSlot resolves a winner and starts a slot spin. One shared winning
// record drives every reel.
func (s *RaffleService) SpinSlot(sessionID string, req models.SpinRequest) (*models.SlotSpinResponse, error) {
	s.mu.Lock()

	session := s.getSession(sessionID)
	roster := session.Contestants

	winnerIndex, winner, err := s.resolve(roster, req.Mode, req.Ticket)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}

	th := s.themes.Lookup(req.Theme)
	symbols := make([]models.ReelSymbol, len(roster))
	for i, c := range roster {
		symbols[i] = models.ReelSymbol{ID: c.ID, Label: c.Name, Color: th.ColorAt(i)}
	}

	record := s.newWinnerRecord(models.TypeSlot, winner, req.Mode)
	slot := session.Slot
	s.mu.Unlock()

	plan, err := slot.Spin(spin.SlotConfig{
		Symbols:          symbols,
		WinnerIndex:      winnerIndex,
		ReelCount:        req.ReelCount,
		Duration:         time.Duration(req.DurationMs) * time.Millisecond,
		Profile:          spin.ParseSlotProfile(req.Profile),
		ProgressiveDelay: time.Duration(req.ProgressiveDelay) * time.Millisecond,
		TickInterval:     tickInterval,
		OnEvent:          s.spinListener(sessionID, record),
	})
	if err != nil {
		return nil, err
	}

	stopTimes := make([]int64, len(plan.StopTimes))
	for i, st := range plan.StopTimes {
		stopTimes[i] = st.Milliseconds()
	}

	return &models.SlotSpinResponse{
		WinnerIndex: winnerIndex,
		Winner:      *winner,
		Reels:       plan.Reels,
		StopIndexes: plan.StopIndexes,
		StopTimesMs: stopTimes,
		DurationMs:  stopTimes[0], // the base spin duration; staggered reels run longer
	}, nil
}

// spinListener wires a spin's events to sounds, confetti, and the history
// append. Landed side effects fire exactly once, in the order end-sound,
// confetti, history.
func (s *RaffleService) spinListener(sessionID string, record *models.WinnerRecord) spin.Listener {
	return func(ev spin.Event) {
		switch ev.Kind {
		case spin.EventStart:
			s.effects.Sound(sessionID, "start")
		case spin.EventTick:
			s.effects.Sound(sessionID, "tick")
		case spin.EventEnd:
			s.effects.Sound(sessionID, "end")
			s.effects.Celebrate(sessionID, "confetti")
			s.appendHistory(sessionID, record)
		}
	}
}

func iterations(n int) int {
	if n <= 0 {
		return defaultIterations
	}
	return n
}
