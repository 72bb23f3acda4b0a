package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/taskdeck/taskdeck/internal/logger"
	"github.com/taskdeck/taskdeck/internal/settings"
)

var languages = []string{"en", "es", "fr", "de", "it"}

var languageNames = map[string]string{
	"en": "English",
	"es": "Español",
	"fr": "Français",
	"de": "Deutsch",
	"it": "Italiano",
}

// prefRow is one adjustable line on the settings panel
type prefRow struct {
	section string
	label   string
	value   func(s *settings.Settings) string
	change  func(s *settings.Settings)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func prefRows() []prefRow {
	return []prefRow{
		{"Notifications", "Email notifications",
			func(s *settings.Settings) string { return onOff(s.Notifications.Email) },
			func(s *settings.Settings) { s.Notifications.Email = !s.Notifications.Email }},
		{"Notifications", "Push notifications",
			func(s *settings.Settings) string { return onOff(s.Notifications.Push) },
			func(s *settings.Settings) { s.Notifications.Push = !s.Notifications.Push }},
		{"Notifications", "Task updates",
			func(s *settings.Settings) string { return onOff(s.Notifications.TaskUpdates) },
			func(s *settings.Settings) { s.Notifications.TaskUpdates = !s.Notifications.TaskUpdates }},
		{"Notifications", "Project updates",
			func(s *settings.Settings) string { return onOff(s.Notifications.ProjectUpdates) },
			func(s *settings.Settings) { s.Notifications.ProjectUpdates = !s.Notifications.ProjectUpdates }},
		{"Appearance", "Dark mode",
			func(s *settings.Settings) string { return onOff(s.Appearance.DarkMode) },
			func(s *settings.Settings) { s.Appearance.DarkMode = !s.Appearance.DarkMode }},
		{"Appearance", "Compact view",
			func(s *settings.Settings) string { return onOff(s.Appearance.CompactView) },
			func(s *settings.Settings) { s.Appearance.CompactView = !s.Appearance.CompactView }},
		{"Appearance", "Font size",
			func(s *settings.Settings) string { return s.Appearance.FontSize },
			func(s *settings.Settings) { s.Appearance.FontSize = nextFontSize(s.Appearance.FontSize) }},
		{"Language", "Language",
			func(s *settings.Settings) string { return languageNames[s.Language] },
			func(s *settings.Settings) { s.Language = nextLanguage(s.Language) }},
		{"Privacy", "Show profile",
			func(s *settings.Settings) string { return onOff(s.Privacy.ShowProfile) },
			func(s *settings.Settings) { s.Privacy.ShowProfile = !s.Privacy.ShowProfile }},
		{"Privacy", "Activity status",
			func(s *settings.Settings) string { return onOff(s.Privacy.ActivityStatus) },
			func(s *settings.Settings) { s.Privacy.ActivityStatus = !s.Privacy.ActivityStatus }},
		{"Accessibility", "Reduce motion",
			func(s *settings.Settings) string { return onOff(s.Accessibility.ReduceMotion) },
			func(s *settings.Settings) { s.Accessibility.ReduceMotion = !s.Accessibility.ReduceMotion }},
		{"Accessibility", "High contrast",
			func(s *settings.Settings) string { return onOff(s.Accessibility.HighContrast) },
			func(s *settings.Settings) { s.Accessibility.HighContrast = !s.Accessibility.HighContrast }},
	}
}

func nextFontSize(size string) string {
	switch size {
	case settings.FontSmall:
		return settings.FontMedium
	case settings.FontMedium:
		return settings.FontLarge
	default:
		return settings.FontSmall
	}
}

func nextLanguage(lang string) string {
	for i, l := range languages {
		if l == lang {
			return languages[(i+1)%len(languages)]
		}
	}
	return languages[0]
}

func (m Model) handleSettingsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rows := prefRows()

	switch {
	case key.Matches(msg, keys.Up):
		if m.prefCursor > 0 {
			m.prefCursor--
		}

	case key.Matches(msg, keys.Down):
		if m.prefCursor < len(rows)-1 {
			m.prefCursor++
		}

	case key.Matches(msg, keys.Enter), key.Matches(msg, keys.Toggle):
		rows[m.prefCursor].change(&m.prefs)
		m.prefsSaved = false

	case key.Matches(msg, keys.Save):
		if m.storage == nil {
			m.message = "No storage configured"
			return m, clearMessageCmd()
		}
		if err := settings.Save(m.storage, m.prefs); err != nil {
			logger.Error("Failed to save settings", logger.F("error", err))
			m.message = "Failed to save settings"
			return m, clearMessageCmd()
		}
		m.prefsSaved = true
		m.message = "Settings saved"
		return m, clearMessageCmd()

	case key.Matches(msg, keys.Reset):
		m.prefs = settings.Default()
		m.prefsSaved = false

	case key.Matches(msg, keys.Back):
		m.screen = ScreenDashboard
	}
	return m, nil
}
