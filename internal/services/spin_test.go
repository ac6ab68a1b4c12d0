package services

import (
	"testing"
	"time"

	"raffle/internal/models"
	"raffle/internal/spin"
	"raffle/internal/storage"
)

// waitForHistory polls until the landed side effects have run.
func waitForHistory(t *testing.T, svc *RaffleService, sessionID string, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if len(svc.History(sessionID)) >= want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("Expected %d history records before the deadline, but got %d", want, len(svc.History(sessionID)))
}

func TestSpinWheel(t *testing.T) {
	const sessionID = "test-session"

	setup := func(t *testing.T) (*RaffleService, *fakeTrigger) {
		t.Helper()
		svc, trigger := newTestService(storage.NewMemoryStore(), 42)
		svc.ReplaceContestants(sessionID, testRows(
			[2]string{"Alice", "100"},
			[2]string{"Bob", "101"},
			[2]string{"Carol", "102"},
		))
		return svc, trigger
	}

	t.Run("ticket mode lands on the resolved contestant", func(t *testing.T) {
		svc, _ := setup(t)

		resp, err := svc.SpinWheel(sessionID, models.SpinRequest{Mode: ModeByTicket, Ticket: "102", DurationMs: 20})
		if err != nil {
			t.Fatalf("Expected no error, but got %v", err)
		}
		if resp.WinnerIndex != 2 || resp.Winner.Name != "Carol" {
			t.Errorf("Expected Carol at index 2, but got %+v", resp)
		}
		if len(resp.Segments) != 3 {
			t.Errorf("Expected one segment per contestant, but got %d", len(resp.Segments))
		}
		for i, seg := range resp.Segments {
			if seg.Color == "" {
				t.Errorf("Segment %d has no color", i)
			}
		}

		waitForHistory(t, svc, sessionID, 1)
		record := svc.History(sessionID)[0]
		if record.Label != "Carol" || record.RandomizerType != models.TypeWheel {
			t.Errorf("Unexpected history record: %+v", record)
		}
	})

	t.Run("unknown ticket starts no spin and records nothing", func(t *testing.T) {
		svc, trigger := setup(t)

		_, err := svc.SpinWheel(sessionID, models.SpinRequest{Mode: ModeByTicket, Ticket: "999", DurationMs: 20})
		if err != ErrTicketNotFound {
			t.Fatalf("Expected ErrTicketNotFound, but got %v", err)
		}
		time.Sleep(50 * time.Millisecond)
		if len(svc.History(sessionID)) != 0 {
			t.Error("Expected no history record for a refused spin")
		}
		if len(trigger.snapshot()) != 0 {
			t.Error("Expected no presentation cues for a refused spin")
		}
	})

	t.Run("re-entrant spin is refused while spinning", func(t *testing.T) {
		svc, _ := setup(t)

		if _, err := svc.SpinWheel(sessionID, models.SpinRequest{Mode: ModeRandom, DurationMs: 200}); err != nil {
			t.Fatalf("Expected no error, but got %v", err)
		}
		if _, err := svc.SpinWheel(sessionID, models.SpinRequest{Mode: ModeRandom, DurationMs: 200}); err != spin.ErrSpinInProgress {
			t.Fatalf("Expected ErrSpinInProgress, but got %v", err)
		}

		waitForHistory(t, svc, sessionID, 1)
		time.Sleep(50 * time.Millisecond)
		if got := len(svc.History(sessionID)); got != 1 {
			t.Errorf("Expected exactly one landed record, but got %d", got)
		}
	})

	t.Run("landed cues fire in order", func(t *testing.T) {
		svc, trigger := setup(t)

		if _, err := svc.SpinWheel(sessionID, models.SpinRequest{Mode: ModeRandom, DurationMs: 20}); err != nil {
			t.Fatalf("Expected no error, but got %v", err)
		}
		waitForHistory(t, svc, sessionID, 1)

		calls := trigger.snapshot()
		if len(calls) < 3 {
			t.Fatalf("Expected start, end, and confetti cues, but got %v", calls)
		}
		if calls[0] != "sound:start" {
			t.Errorf("Expected the start cue first, but got %q", calls[0])
		}
		if calls[len(calls)-2] != "sound:end" || calls[len(calls)-1] != "celebrate:confetti" {
			t.Errorf("Expected end sound then confetti last, but got %v", calls)
		}
	})

	t.Run("random draw over a degenerate roster is refused", func(t *testing.T) {
		svc, _ := newTestService(storage.NewMemoryStore(), 1)
		svc.ReplaceContestants(sessionID, testRows([2]string{"Alice", "100"}))
		if _, err := svc.SpinWheel(sessionID, models.SpinRequest{Mode: ModeRandom, DurationMs: 20}); err != ErrRosterTooSmall {
			t.Fatalf("Expected ErrRosterTooSmall, but got %v", err)
		}
	})
}

func TestSpinSlot(t *testing.T) {
	const sessionID = "test-session"

	setup := func(t *testing.T) (*RaffleService, *fakeTrigger) {
		t.Helper()
		svc, trigger := newTestService(storage.NewMemoryStore(), 42)
		svc.ReplaceContestants(sessionID, testRows(
			[2]string{"Alice", "100"},
			[2]string{"Bob", "101"},
			[2]string{"Carol", "102"},
			[2]string{"Dave", "103"},
		))
		return svc, trigger
	}

	t.Run("every reel reads the winner", func(t *testing.T) {
		svc, _ := setup(t)

		resp, err := svc.SpinSlot(sessionID, models.SpinRequest{Mode: ModeByTicket, Ticket: "101", DurationMs: 20, ReelCount: 4})
		if err != nil {
			t.Fatalf("Expected no error, but got %v", err)
		}
		if resp.WinnerIndex != 1 || resp.Winner.Name != "Bob" {
			t.Errorf("Expected Bob at index 1, but got %+v", resp)
		}
		if len(resp.Reels) != 4 {
			t.Fatalf("Expected 4 reels, but got %d", len(resp.Reels))
		}
		for i, strip := range resp.Reels {
			stop := resp.StopIndexes[i]
			if strip[stop].Label != "Bob" {
				t.Errorf("Reel %d: expected Bob at the read position, but got %q", i, strip[stop].Label)
			}
		}

		waitForHistory(t, svc, sessionID, 1)
		if record := svc.History(sessionID)[0]; record.RandomizerType != models.TypeSlot {
			t.Errorf("Expected a slot record, but got %+v", record)
		}
	})

	t.Run("progressive stops are staggered in the plan", func(t *testing.T) {
		svc, _ := setup(t)

		resp, err := svc.SpinSlot(sessionID, models.SpinRequest{
			Mode: ModeRandom, DurationMs: 20, ReelCount: 3,
			Profile: "progressive", ProgressiveDelay: 10,
		})
		if err != nil {
			t.Fatalf("Expected no error, but got %v", err)
		}
		for i, want := range []int64{20, 30, 40} {
			if resp.StopTimesMs[i] != want {
				t.Errorf("Reel %d: expected stop at %dms, but got %d", i, want, resp.StopTimesMs[i])
			}
		}

		waitForHistory(t, svc, sessionID, 1)
	})

	t.Run("empty roster is refused", func(t *testing.T) {
		svc, _ := newTestService(storage.NewMemoryStore(), 1)
		if _, err := svc.SpinSlot(sessionID, models.SpinRequest{Mode: ModeRandom, DurationMs: 20}); err == nil {
			t.Fatal("Expected an error for an empty roster, but got nil")
		}
	})
}
