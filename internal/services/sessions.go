package services

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/logger"

	"raffle/internal/effects"
	"raffle/internal/models"
	"raffle/internal/spin"
	"raffle/internal/storage"
	"raffle/internal/theme"
)

// sessionTTL is how long an untouched presenter session survives before the
// janitor reaps it.
const sessionTTL = time.Hour

// raffleSession holds the data for a single presenter session.
type raffleSession struct {
	Contestants  []*models.Contestant
	History      []*models.WinnerRecord
	Presets      []*models.MappingPreset
	Wheel        *spin.Wheel
	Slot         *spin.Slot
	LastActivity time.Time
}

// RaffleService manages per-session rosters, draws, and history. It is
// constructed once in main and passed by reference to its consumers.
type RaffleService struct {
	mu       sync.Mutex
	sessions map[string]*raffleSession
	store    storage.Store
	themes   *theme.Registry
	effects  effects.Trigger
	clock    spin.Clock
	rng      *rand.Rand
}

// NewRaffleService creates and initializes a RaffleService.
func NewRaffleService(store storage.Store, themes *theme.Registry, trigger effects.Trigger, clock spin.Clock, rng *rand.Rand) *RaffleService {
	return &RaffleService{
		sessions: make(map[string]*raffleSession),
		store:    store,
		themes:   themes,
		effects:  trigger,
		clock:    clock,
		rng:      rng,
	}
}

// Themes exposes the theme registry to the HTTP layer.
func (s *RaffleService) Themes() *theme.Registry {
	return s.themes
}

// getSession returns a session, creating it (and restoring any persisted
// state) if it doesn't exist. Callers must hold s.mu.
func (s *RaffleService) getSession(sessionID string) *raffleSession {
	session, exists := s.sessions[sessionID]
	if !exists {
		session = &raffleSession{
			Wheel: spin.NewWheel(s.clock, rand.New(rand.NewSource(s.rng.Int63()))),
			Slot:  spin.NewSlot(s.clock, rand.New(rand.NewSource(s.rng.Int63()))),
		}
		s.loadSession(sessionID, session)
		s.sessions[sessionID] = session
	}
	session.LastActivity = s.clock.Now()
	return session
}

// loadSession restores persisted state. Persistence is best-effort: a
// failed read is logged and the session starts empty.
func (s *RaffleService) loadSession(sessionID string, session *raffleSession) {
	loadKey(s.store, contestantsKey(sessionID), &session.Contestants)
	loadKey(s.store, historyKey(sessionID), &session.History)
	loadKey(s.store, presetsKey(sessionID), &session.Presets)
}

func loadKey(store storage.Store, key string, out interface{}) {
	raw, ok, err := store.Get(key)
	if err != nil {
		logger.Errorf("Failed to read %s: %v", key, err)
		return
	}
	if !ok {
		return
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		logger.Errorf("Failed to decode %s: %v", key, err)
	}
}

// persist writes a value under key. Failures are logged and the in-memory
// state stays authoritative for the rest of the session.
func (s *RaffleService) persist(key string, value interface{}) {
	raw, err := json.Marshal(value)
	if err != nil {
		logger.Errorf("Failed to encode %s: %v", key, err)
		return
	}
	if err := s.store.Set(key, string(raw)); err != nil {
		logger.Errorf("Failed to persist %s: %v", key, err)
	}
}

func contestantsKey(sessionID string) string {
	return fmt.Sprintf("session:%s:contestants", sessionID)
}

func historyKey(sessionID string) string {
	return fmt.Sprintf("session:%s:history", sessionID)
}

func presetsKey(sessionID string) string {
	return fmt.Sprintf("session:%s:presets", sessionID)
}

// CleanUpInactiveSessions removes sessions that have been inactive for over
// an hour. Persisted state is kept so a returning session can restore it.
func (s *RaffleService) CleanUpInactiveSessions() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for sessionID, session := range s.sessions {
		if s.clock.Now().Sub(session.LastActivity) > sessionTTL {
			session.Wheel.Close()
			session.Slot.Close()
			delete(s.sessions, sessionID)
			logger.Infof("Reaped inactive session %s", sessionID)
		}
	}
}

// ClearSession removes all in-memory and persisted data for a session.
func (s *RaffleService) ClearSession(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if session, ok := s.sessions[sessionID]; ok {
		session.Wheel.Close()
		session.Slot.Close()
		delete(s.sessions, sessionID)
	}
	for _, key := range []string{contestantsKey(sessionID), historyKey(sessionID), presetsKey(sessionID)} {
		if err := s.store.Remove(key); err != nil {
			logger.Errorf("Failed to remove %s: %v", key, err)
		}
	}
	logger.Infof("Cleared session %s", sessionID)
}
