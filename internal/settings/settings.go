// Package settings holds the user-facing preference panel state. The
// whole blob is JSON-serialized under a single local-storage key,
// written only on an explicit save and read once when the panel opens.
// It is a sibling of the entity store, not part of it.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/taskdeck/taskdeck/internal/localstore"
)

// Font sizes for the appearance section
const (
	FontSmall  = "small"
	FontMedium = "medium"
	FontLarge  = "large"
)

// Notifications settings
type Notifications struct {
	Email          bool `json:"email"`
	Push           bool `json:"push"`
	TaskUpdates    bool `json:"taskUpdates"`
	ProjectUpdates bool `json:"projectUpdates"`
}

// Appearance settings
type Appearance struct {
	DarkMode    bool   `json:"darkMode"`
	CompactView bool   `json:"compactView"`
	FontSize    string `json:"fontSize"`
}

// Privacy settings
type Privacy struct {
	ShowProfile    bool `json:"showProfile"`
	ActivityStatus bool `json:"activityStatus"`
}

// Accessibility settings
type Accessibility struct {
	ReduceMotion bool `json:"reduceMotion"`
	HighContrast bool `json:"highContrast"`
}

// Settings is the full preference blob
type Settings struct {
	Notifications Notifications `json:"notifications"`
	Appearance    Appearance    `json:"appearance"`
	Language      string        `json:"language"`
	Privacy       Privacy       `json:"privacy"`
	Accessibility Accessibility `json:"accessibility"`
}

// Default returns the out-of-the-box settings
func Default() Settings {
	return Settings{
		Notifications: Notifications{
			Email:          true,
			Push:           false,
			TaskUpdates:    true,
			ProjectUpdates: true,
		},
		Appearance: Appearance{
			DarkMode:    false,
			CompactView: false,
			FontSize:    FontMedium,
		},
		Language: "en",
		Privacy: Privacy{
			ShowProfile:    true,
			ActivityStatus: true,
		},
		Accessibility: Accessibility{
			ReduceMotion: false,
			HighContrast: false,
		},
	}
}

// Storage is the key-value store the blob persists to
type Storage interface {
	Get(key string) (string, error)
	Set(key, value string) error
}

// Load reads the saved settings, or defaults when none were saved yet
func Load(storage Storage) (Settings, error) {
	raw, err := storage.Get(localstore.KeySettings)
	if errors.Is(err, localstore.ErrNotFound) {
		return Default(), nil
	}
	if err != nil {
		return Default(), err
	}

	s := Default()
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return Default(), fmt.Errorf("failed to parse settings: %w", err)
	}
	return s, nil
}

// Save writes the settings blob
func Save(storage Storage, s Settings) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	return storage.Set(localstore.KeySettings, string(data))
}
