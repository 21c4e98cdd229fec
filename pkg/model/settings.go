package model

import "sync"

// Settings holds shell-level state shared by the three orchestrators.
// It is passed by reference into each orchestrator so they stay
// independently testable instead of reading ambient globals.
type Settings struct {
	mu     sync.RWMutex
	locale Locale
}

func NewSettings() *Settings {
	return &Settings{locale: LocaleDefault}
}

func (s *Settings) Locale() Locale {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.locale
}

func (s *Settings) SetLocale(locale Locale) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locale = locale
}
