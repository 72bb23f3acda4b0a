// Package tui renders the dashboard and dispatches store operations in
// response to user input. It owns no domain state: every frame renders
// from the latest store snapshot, and all mutation goes through the
// store's operations from command goroutines.
package tui

import (
	"strconv"

	"github.com/charmbracelet/bubbles/textinput"

	"github.com/taskdeck/taskdeck/internal/localstore"
	"github.com/taskdeck/taskdeck/internal/logger"
	"github.com/taskdeck/taskdeck/internal/model"
	"github.com/taskdeck/taskdeck/internal/settings"
	"github.com/taskdeck/taskdeck/internal/store"
)

// Screen is the page currently shown
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenDashboard
	ScreenProjects
	ScreenDetail
	ScreenSettings
)

// Mode is the input mode within a screen
type Mode int

const (
	ModeNormal Mode = iota
	ModeSearch
	ModeProjectForm
	ModeTaskForm
)

// Number of fields in the project form; the last pseudo-field cycles
// the status instead of taking text.
const (
	fieldName = iota
	fieldOwner
	fieldProgress
	fieldStartDate
	fieldEndDate
	fieldDescription
	fieldStatus
	fieldCount
)

// projectForm is the create/edit project modal state
type projectForm struct {
	inputs    []textinput.Model
	status    model.Status
	focus     int
	editingID string
	err       string
}

// Model is the main TUI model
type Model struct {
	st      *store.Store
	storage *localstore.Store
	snap    store.Snapshot

	screen Screen
	mode   Mode
	width  int
	height int

	// Login screen
	emailInput textinput.Model
	passInput  textinput.Model
	loginFocus int

	// Projects screen
	projCursor  int
	searchInput textinput.Model

	// Detail screen
	detailID   string
	taskCursor int

	// Forms
	form       projectForm
	taskInput  textinput.Model
	editTaskID string
	taskErr    string

	// Settings screen
	prefs      settings.Settings
	prefCursor int
	prefsSaved bool

	message string
}

// NewModel creates the TUI model. The session persisted in storage
// decides the opening screen: a stored token skips the login page.
func NewModel(st *store.Store, storage *localstore.Store) Model {
	logger.Info("Initializing TUI model")

	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.CharLimit = 128
	email.Width = 32
	email.Focus()

	pass := textinput.New()
	pass.Placeholder = "password"
	pass.EchoMode = textinput.EchoPassword
	pass.EchoCharacter = '•'
	pass.CharLimit = 128
	pass.Width = 32

	search := textinput.New()
	search.Placeholder = "Search projects..."
	search.CharLimit = 128
	search.Width = 40

	task := textinput.New()
	task.Placeholder = "Enter task title..."
	task.CharLimit = model.TitleMaxLen
	task.Width = 50

	m := Model{
		st:          st,
		storage:     storage,
		snap:        st.Snapshot(),
		emailInput:  email,
		passInput:   pass,
		searchInput: search,
		taskInput:   task,
		prefs:       settings.Default(),
	}

	if m.snap.Auth.IsAuthenticated {
		m.screen = ScreenDashboard
		m.snap.Projects.Loading = true // Init dispatches the first fetch
	} else {
		m.screen = ScreenLogin
	}

	if storage != nil {
		prefs, err := settings.Load(storage)
		if err != nil {
			logger.Warn("Failed to load settings, using defaults", logger.F("error", err))
		}
		m.prefs = prefs
	}

	logger.Debug("TUI model initialized",
		logger.F("authenticated", m.snap.Auth.IsAuthenticated))
	return m
}

func newProjectForm(p *model.Project) projectForm {
	labels := []struct {
		placeholder string
		limit       int
	}{
		{"Project name", model.TitleMaxLen},
		{"Owner", 64},
		{"Progress (0-100)", 3},
		{"Start date (YYYY-MM-DD)", 10},
		{"End date (YYYY-MM-DD)", 10},
		{"Description", 256},
	}

	inputs := make([]textinput.Model, len(labels))
	for i, l := range labels {
		ti := textinput.New()
		ti.Placeholder = l.placeholder
		ti.CharLimit = l.limit
		ti.Width = 40
		inputs[i] = ti
	}
	inputs[fieldName].Focus()

	f := projectForm{
		inputs: inputs,
		status: model.StatusActive,
	}

	if p != nil {
		f.editingID = p.ID
		f.status = p.Status
		f.inputs[fieldName].SetValue(p.Name)
		f.inputs[fieldOwner].SetValue(p.Owner)
		f.inputs[fieldProgress].SetValue(strconv.Itoa(p.Progress))
		f.inputs[fieldStartDate].SetValue(p.StartDate)
		f.inputs[fieldEndDate].SetValue(p.EndDate)
		f.inputs[fieldDescription].SetValue(p.Description)
	}

	return f
}

// visible returns the project list after search and status filtering
func (m *Model) visible() []model.Project {
	return FilterProjects(m.snap.Projects.List, m.snap.Projects.Search, m.snap.Projects.StatusFilter)
}

// detailProject returns the project shown on the detail screen, or nil
func (m *Model) detailProject() *model.Project {
	for i := range m.snap.Projects.List {
		if m.snap.Projects.List[i].ID == m.detailID {
			return &m.snap.Projects.List[i]
		}
	}
	return nil
}

// refresh re-reads the store snapshot and clamps cursors to the new data
func (m *Model) refresh() {
	m.snap = m.st.Snapshot()

	if n := len(m.visible()); m.projCursor >= n {
		m.projCursor = 0
	}
	if p := m.detailProject(); p != nil {
		if m.taskCursor >= len(p.Tasks) {
			m.taskCursor = 0
		}
	} else {
		m.taskCursor = 0
	}
}
