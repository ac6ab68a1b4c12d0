package services

import (
	"errors"

	"raffle/internal/models"
)

// ErrPresetNameRequired rejects a preset with no name.
var ErrPresetNameRequired = errors.New("a mapping preset needs a name")

// SaveMappingPreset stores a named column mapping for reuse across imports.
// Saving under an existing name replaces that preset.
func (s *RaffleService) SaveMappingPreset(sessionID string, preset models.MappingPreset) error {
	if preset.Name == "" {
		return ErrPresetNameRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	session := s.getSession(sessionID)
	replaced := false
	for i, p := range session.Presets {
		if p.Name == preset.Name {
			session.Presets[i] = &preset
			replaced = true
			break
		}
	}
	if !replaced {
		session.Presets = append(session.Presets, &preset)
	}
	s.persist(presetsKey(sessionID), session.Presets)
	return nil
}

// MappingPresets returns the session's saved presets in save order.
func (s *RaffleService) MappingPresets(sessionID string) []*models.MappingPreset {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getSession(sessionID).Presets
}

// DeleteMappingPreset removes a preset by name; unknown names are a no-op.
func (s *RaffleService) DeleteMappingPreset(sessionID, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session := s.getSession(sessionID)
	for i, p := range session.Presets {
		if p.Name == name {
			session.Presets = append(session.Presets[:i], session.Presets[i+1:]...)
			s.persist(presetsKey(sessionID), session.Presets)
			return
		}
	}
}
