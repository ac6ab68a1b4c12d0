package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/google/logger"
	"github.com/google/uuid"

	"raffle/internal/models"
)

func (s *RaffleService) newWinnerRecord(randomizerType string, winner *models.Contestant, mode string) *models.WinnerRecord {
	detail := "random draw"
	if mode == ModeByTicket {
		detail = "manual ticket draw"
	}
	return &models.WinnerRecord{
		ID:             uuid.NewString(),
		Timestamp:      s.clock.Now().UnixMilli(),
		RandomizerType: randomizerType,
		Label:          winner.Name,
		Value:          winner.Ticket,
		Detail:         detail,
	}
}

// appendHistory prepends a record so History reads newest-first. Records are
// never mutated after creation.
func (s *RaffleService) appendHistory(sessionID string, record *models.WinnerRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session := s.getSession(sessionID)
	session.History = append([]*models.WinnerRecord{record}, session.History...)
	s.persist(historyKey(sessionID), session.History)
}

// AppendHistory records a winner from outside a spin (e.g. a manual entry).
func (s *RaffleService) AppendHistory(sessionID string, record *models.WinnerRecord) {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.Timestamp == 0 {
		record.Timestamp = s.clock.Now().UnixMilli()
	}
	s.appendHistory(sessionID, record)
}

// History returns the session's winner records, most recent first.
func (s *RaffleService) History(sessionID string) []*models.WinnerRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getSession(sessionID).History
}

// HistoryByType returns the records for one randomizer type, most recent
// first.
func (s *RaffleService) HistoryByType(sessionID, randomizerType string) []*models.WinnerRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	session := s.getSession(sessionID)
	out := make([]*models.WinnerRecord, 0, len(session.History))
	for _, r := range session.History {
		if r.RandomizerType == randomizerType {
			out = append(out, r)
		}
	}
	return out
}

// RemoveHistory deletes a single record by id. Removing an unknown id is a
// no-op.
func (s *RaffleService) RemoveHistory(sessionID, recordID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session := s.getSession(sessionID)
	for i, r := range session.History {
		if r.ID == recordID {
			session.History = append(session.History[:i], session.History[i+1:]...)
			s.persist(historyKey(sessionID), session.History)
			return
		}
	}
}

// ClearHistory destroys the session's history immediately; there is no undo.
func (s *RaffleService) ClearHistory(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session := s.getSession(sessionID)
	session.History = nil
	s.persist(historyKey(sessionID), session.History)
}

// ExportHistoryCSV renders the history as CSV for download, newest first.
// This is a presentation surface; nothing re-imports it.
func (s *RaffleService) ExportHistoryCSV(sessionID string) (string, error) {
	s.mu.Lock()
	history := s.getSession(sessionID).History
	s.mu.Unlock()

	buf := new(bytes.Buffer)
	w := csv.NewWriter(buf)

	if err := w.Write([]string{"Timestamp", "Type", "Winner", "Value", "Details"}); err != nil {
		return "", fmt.Errorf("writing CSV header: %w", err)
	}
	for _, r := range history {
		row := []string{
			time.UnixMilli(r.Timestamp).Format("2006-01-02 15:04:05"),
			r.RandomizerType,
			r.Label,
			r.Value,
			r.Detail,
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("writing CSV row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		logger.Errorf("Error flushing history CSV: %v", err)
		return "", err
	}
	return buf.String(), nil
}
