package services

import (
	"fmt"
	"strings"

	"raffle/internal/csvmap"
	"raffle/internal/models"
)

// ReplaceContestants filters the mapped rows to those with a non-empty name
// AND ticket, assigns positional ids over the filtered sequence, and fully
// overwrites the session roster (no merge). It returns the count actually
// stored.
func (s *RaffleService) ReplaceContestants(sessionID string, rows []csvmap.Row) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	session := s.getSession(sessionID)

	contestants := make([]*models.Contestant, 0, len(rows))
	for _, row := range rows {
		name := strings.TrimSpace(row.Name)
		ticket := strings.TrimSpace(row.Ticket)
		if name == "" || ticket == "" {
			continue
		}
		contestants = append(contestants, &models.Contestant{
			ID:     fmt.Sprintf("contestant_%d", len(contestants)),
			Name:   name,
			Ticket: ticket,
			Email:  strings.TrimSpace(row.Email),
			Extra:  row.Extra,
		})
	}

	session.Contestants = contestants
	s.persist(contestantsKey(sessionID), session.Contestants)
	return len(contestants)
}

// Contestants returns the session roster in import order.
func (s *RaffleService) Contestants(sessionID string) []*models.Contestant {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getSession(sessionID).Contestants
}

// FindByTicket returns the first contestant whose ticket matches after both
// sides are trimmed, or nil when there is no match.
func (s *RaffleService) FindByTicket(sessionID, ticket string) *models.Contestant {
	s.mu.Lock()
	defer s.mu.Unlock()

	session := s.getSession(sessionID)
	_, c := findByTicket(session.Contestants, ticket)
	return c
}

// ClearContestants empties the session roster.
func (s *RaffleService) ClearContestants(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session := s.getSession(sessionID)
	session.Contestants = nil
	s.persist(contestantsKey(sessionID), session.Contestants)
}

func findByTicket(roster []*models.Contestant, ticket string) (int, *models.Contestant) {
	want := strings.TrimSpace(ticket)
	for i, c := range roster {
		if strings.TrimSpace(c.Ticket) == want {
			return i, c
		}
	}
	return -1, nil
}
