// Package settingsstore exposes typed accessors over the settings table:
// the theme preference and the markdown export configuration. Export
// settings resolve with priority database > environment > default.
package settingsstore

import (
	"sync"

	"github.com/avolkau/daybook/internal/database/settings"
	"github.com/avolkau/daybook/internal/entities"
)

const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// ThemeStore is a thin cached accessor over the theme setting key. Anything
// other than "dark" resolves to the light theme.
type ThemeStore struct {
	settings *settings.Repository

	mu       sync.RWMutex
	current  string
	onChange func(theme string)
}

// NewThemeStore creates a theme store; the initial theme is light until
// Load is called.
func NewThemeStore(settingsRepo *settings.Repository) *ThemeStore {
	return &ThemeStore{settings: settingsRepo, current: ThemeLight}
}

// Load reads the persisted theme into the cache.
func (s *ThemeStore) Load() error {
	setting, err := s.settings.GetSetting(entities.SettingKeyTheme)
	if err != nil {
		return err
	}

	theme := ThemeLight
	if setting != nil && setting.Value == ThemeDark {
		theme = ThemeDark
	}

	s.mu.Lock()
	s.current = theme
	cb := s.onChange
	s.mu.Unlock()

	if cb != nil {
		cb(theme)
	}
	return nil
}

// Current returns the cached theme.
func (s *ThemeStore) Current() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// CSSClass returns the body class for the current theme; the light theme
// has no class.
func (s *ThemeStore) CSSClass() string {
	if s.Current() == ThemeDark {
		return "theme-dark"
	}
	return ""
}

// Set persists the theme and updates the cache.
func (s *ThemeStore) Set(theme string) error {
	if theme != ThemeDark {
		theme = ThemeLight
	}
	if err := s.settings.SetSetting(entities.SettingKeyTheme, theme); err != nil {
		return err
	}

	s.mu.Lock()
	s.current = theme
	cb := s.onChange
	s.mu.Unlock()

	if cb != nil {
		cb(theme)
	}
	return nil
}

// OnChange registers a callback invoked after every Load or Set.
func (s *ThemeStore) OnChange(cb func(theme string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = cb
}
