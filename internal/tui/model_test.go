package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taskdeck/taskdeck/internal/model"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "exactly-10", truncate("exactly-10", 10))
	assert.Equal(t, "longer ...", truncate("longer string here", 10))
	assert.Equal(t, "ab", truncate("abcdef", 2))

	// Rune boundaries, not byte boundaries.
	assert.Equal(t, "日本語プロ", truncate("日本語プロ", 5))
	assert.Equal(t, "日本...", truncate("日本語プロジェクト", 5))
	assert.Equal(t, "éé", truncate("ééé", 2))
}

func TestNewProjectFormBlank(t *testing.T) {
	f := newProjectForm(nil)

	assert.Empty(t, f.editingID)
	assert.Equal(t, model.StatusActive, f.status)
	assert.Equal(t, fieldName, f.focus)
	for _, in := range f.inputs {
		assert.Empty(t, in.Value())
	}
}

func TestNewProjectFormPrefill(t *testing.T) {
	p := model.Project{
		ID:        "42",
		Name:      "Website Redesign",
		Owner:     "Alice",
		Status:    model.StatusPending,
		Progress:  70,
		StartDate: "2025-01-01",
		EndDate:   "2025-06-30",
	}

	f := newProjectForm(&p)

	assert.Equal(t, "42", f.editingID)
	assert.Equal(t, model.StatusPending, f.status)
	assert.Equal(t, "Website Redesign", f.inputs[fieldName].Value())
	assert.Equal(t, "Alice", f.inputs[fieldOwner].Value())
	assert.Equal(t, "70", f.inputs[fieldProgress].Value())
	assert.Equal(t, "2025-01-01", f.inputs[fieldStartDate].Value())
	assert.Equal(t, "2025-06-30", f.inputs[fieldEndDate].Value())
}

func TestNextStatusCycles(t *testing.T) {
	s := model.StatusActive
	assert.Equal(t, model.StatusCompleted, nextStatus(s))
	assert.Equal(t, model.StatusPending, nextStatus(nextStatus(s)))
	assert.Equal(t, model.StatusActive, nextStatus(nextStatus(nextStatus(s))))
}

func TestNextFontSizeAndLanguage(t *testing.T) {
	assert.Equal(t, "medium", nextFontSize("small"))
	assert.Equal(t, "large", nextFontSize("medium"))
	assert.Equal(t, "small", nextFontSize("large"))

	assert.Equal(t, "es", nextLanguage("en"))
	assert.Equal(t, "en", nextLanguage("it"))
	assert.Equal(t, "en", nextLanguage("unknown"))
}
