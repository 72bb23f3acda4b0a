package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskdeck/taskdeck/internal/localstore"
)

type memStorage struct {
	data map[string]string
}

func newMemStorage() *memStorage {
	return &memStorage{data: map[string]string{}}
}

func (m *memStorage) Get(key string) (string, error) {
	v, ok := m.data[key]
	if !ok {
		return "", localstore.ErrNotFound
	}
	return v, nil
}

func (m *memStorage) Set(key, value string) error {
	m.data[key] = value
	return nil
}

func TestDefaults(t *testing.T) {
	d := Default()

	assert.True(t, d.Notifications.Email)
	assert.False(t, d.Notifications.Push)
	assert.True(t, d.Notifications.TaskUpdates)
	assert.True(t, d.Notifications.ProjectUpdates)
	assert.False(t, d.Appearance.DarkMode)
	assert.Equal(t, FontMedium, d.Appearance.FontSize)
	assert.Equal(t, "en", d.Language)
	assert.True(t, d.Privacy.ShowProfile)
	assert.False(t, d.Accessibility.HighContrast)
}

func TestLoadMissingReturnsDefaults(t *testing.T) {
	got, err := Load(newMemStorage())
	require.NoError(t, err)
	assert.Equal(t, Default(), got)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	storage := newMemStorage()

	s := Default()
	s.Appearance.DarkMode = true
	s.Appearance.FontSize = FontLarge
	s.Language = "fr"
	s.Notifications.Push = true

	require.NoError(t, Save(storage, s))

	got, err := Load(storage)
	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestLoadCorruptBlobFallsBackToDefaults(t *testing.T) {
	storage := newMemStorage()
	storage.data[localstore.KeySettings] = "{not json"

	got, err := Load(storage)
	assert.Error(t, err)
	assert.Equal(t, Default(), got)
}

func TestSaveWritesSingleKey(t *testing.T) {
	storage := newMemStorage()
	require.NoError(t, Save(storage, Default()))

	require.Len(t, storage.data, 1)
	assert.Contains(t, storage.data, localstore.KeySettings)
}
