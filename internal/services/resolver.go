package services

import (
	"errors"

	"raffle/internal/models"
)

// Resolution mode constants as they appear in spin requests.
const (
	ModeRandom   = "random"
	ModeByTicket = "ticket"
)

var (
	// ErrRosterTooSmall refuses a random draw over fewer than two
	// contestants; a single-entry roster is a degenerate case callers must
	// guard explicitly.
	ErrRosterTooSmall = errors.New("the roster needs at least two contestants for a random draw")
	// ErrTicketNotFound signals a manual lookup that matched nothing. No
	// spin happens in that case.
	ErrTicketNotFound = errors.New("no contestant holds that ticket")
	// ErrUnknownMode rejects a spin request with an unrecognized mode.
	ErrUnknownMode = errors.New("unknown resolution mode")
)

// resolve computes the winning index for a roster. It is pure apart from
// consuming the service rng for random draws: it never mutates the roster
// or the history. Callers must hold s.mu.
func (s *RaffleService) resolve(roster []*models.Contestant, mode, ticket string) (int, *models.Contestant, error) {
	switch mode {
	case ModeRandom:
		if len(roster) < 2 {
			return 0, nil, ErrRosterTooSmall
		}
		idx := s.rng.Intn(len(roster))
		return idx, roster[idx], nil
	case ModeByTicket:
		idx, c := findByTicket(roster, ticket)
		if c == nil {
			return 0, nil, ErrTicketNotFound
		}
		return idx, c, nil
	default:
		return 0, nil, ErrUnknownMode
	}
}

// Resolve exposes winner resolution without starting a spin, for callers
// that only want to know who would win (e.g. a dry-run ticket lookup).
func (s *RaffleService) Resolve(sessionID, mode, ticket string) (int, *models.Contestant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session := s.getSession(sessionID)
	return s.resolve(session.Contestants, mode, ticket)
}
