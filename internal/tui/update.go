package tui

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/taskdeck/taskdeck/internal/logger"
	"github.com/taskdeck/taskdeck/internal/model"
	"github.com/taskdeck/taskdeck/internal/settings"
	"github.com/taskdeck/taskdeck/internal/store"
)

// Messages carrying resolved store operations back onto the event loop
type (
	loginResultMsg struct{ err error }
	fetchResultMsg struct{ err error }
	saveProjectMsg struct {
		project model.Project
		err     error
	}
	saveTaskMsg struct {
		task model.Task
		err  error
	}
	toggleResultMsg struct {
		projectID string
		taskID    string
		err       error
	}
	storeEventMsg   store.Event
	clearMessageMsg struct{}
)

// Init kicks off the initial fetch (when already logged in) and the
// store event listener
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, m.waitForEvent()}
	if m.snap.Auth.IsAuthenticated {
		cmds = append(cmds, m.fetchCmd())
	}
	return tea.Batch(cmds...)
}

func (m Model) loginCmd(email, password string) tea.Cmd {
	return func() tea.Msg {
		err := m.st.Login(context.Background(), email, password)
		return loginResultMsg{err}
	}
}

func (m Model) fetchCmd() tea.Cmd {
	return func() tea.Msg {
		err := m.st.FetchProjects(context.Background())
		return fetchResultMsg{err}
	}
}

func (m Model) saveProjectCmd(p model.Project) tea.Cmd {
	return func() tea.Msg {
		saved, err := m.st.SaveProject(context.Background(), p)
		return saveProjectMsg{saved, err}
	}
}

func (m Model) saveTaskCmd(projectID string, t model.Task) tea.Cmd {
	return func() tea.Msg {
		saved, err := m.st.SaveTask(context.Background(), projectID, t)
		return saveTaskMsg{saved, err}
	}
}

func (m Model) toggleCmd(projectID, taskID string) tea.Cmd {
	return func() tea.Msg {
		err := m.st.ToggleTask(context.Background(), projectID, taskID)
		return toggleResultMsg{projectID, taskID, err}
	}
}

// waitForEvent listens for out-of-band store events, re-armed after
// each delivery
func (m Model) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		return storeEventMsg(<-m.st.Events())
	}
}

func clearMessageCmd() tea.Cmd {
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return clearMessageMsg{}
	})
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case loginResultMsg:
		m.refresh()
		if msg.err == nil {
			m.screen = ScreenDashboard
			m.passInput.SetValue("")
			m.snap.Projects.Loading = true // pending frame before the fetch lands
			return m, m.fetchCmd()
		}
		return m, nil

	case fetchResultMsg:
		m.refresh()
		return m, nil

	case saveProjectMsg:
		m.refresh()
		if msg.err != nil {
			m.message = "Failed to save project"
			return m, clearMessageCmd()
		}
		m.mode = ModeNormal
		m.message = "Project saved"
		return m, clearMessageCmd()

	case saveTaskMsg:
		m.refresh()
		if msg.err != nil {
			m.message = "Failed to save task"
			return m, clearMessageCmd()
		}
		m.mode = ModeNormal
		m.taskInput.SetValue("")
		m.editTaskID = ""
		return m, nil

	case toggleResultMsg:
		// State was already reconciled optimistically; rollback
		// feedback arrives separately on the event channel.
		m.refresh()
		return m, nil

	case storeEventMsg:
		switch store.Event(msg).Kind {
		case store.EventToggleApplied:
			// The optimistic frame: the flip is in store state while the
			// service call is still pending.
			m.refresh()
			return m, m.waitForEvent()
		case store.EventToggleRollback:
			m.refresh()
			m.message = "Couldn't update task, change reverted"
		}
		return m, tea.Batch(m.waitForEvent(), clearMessageCmd())

	case clearMessageMsg:
		m.message = ""
		return m, nil

	case tea.KeyMsg:
		if m.screen == ScreenLogin {
			return m.updateLogin(msg)
		}
		switch m.mode {
		case ModeSearch:
			return m.updateSearch(msg)
		case ModeProjectForm:
			return m.updateProjectForm(msg)
		case ModeTaskForm:
			return m.updateTaskForm(msg)
		}
		return m.handleNormalKeys(msg)
	}

	return m, nil
}

// updateLogin handles the login screen. The guard lives here: every
// other screen is unreachable until the store reports authentication.
func (m Model) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "tab", "shift+tab", "up", "down":
		m.loginFocus = (m.loginFocus + 1) % 2
		if m.loginFocus == 0 {
			m.emailInput.Focus()
			m.passInput.Blur()
		} else {
			m.emailInput.Blur()
			m.passInput.Focus()
		}
		return m, nil
	case "enter":
		if m.snap.Auth.Loading {
			return m, nil
		}
		email := strings.TrimSpace(m.emailInput.Value())
		password := m.passInput.Value()
		if email == "" || password == "" {
			return m, nil
		}
		m.snap.Auth.Loading = true // immediate feedback before the snapshot catches up
		return m, m.loginCmd(email, password)
	}

	var cmd tea.Cmd
	if m.loginFocus == 0 {
		m.emailInput, cmd = m.emailInput.Update(msg)
	} else {
		m.passInput, cmd = m.passInput.Update(msg)
	}
	return m, cmd
}

// handleNormalKeys handles key presses outside of any input mode
func (m Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Logout):
		logger.Info("User logged out")
		m.st.Logout()
		m.refresh()
		m.screen = ScreenLogin
		m.loginFocus = 0
		m.emailInput.SetValue("")
		m.emailInput.Focus()
		m.passInput.SetValue("")
		m.passInput.Blur()
		return m, nil

	case key.Matches(msg, keys.Dashboard):
		m.screen = ScreenDashboard
		return m, nil

	case key.Matches(msg, keys.Projects):
		m.screen = ScreenProjects
		return m, nil

	case key.Matches(msg, keys.Settings):
		m.screen = ScreenSettings
		m.prefCursor = 0
		m.prefsSaved = false
		if m.storage != nil {
			if prefs, err := settings.Load(m.storage); err == nil {
				m.prefs = prefs
			}
		}
		return m, nil

	case key.Matches(msg, keys.Refresh):
		m.snap.Projects.Loading = true
		return m, m.fetchCmd()
	}

	switch m.screen {
	case ScreenDashboard:
		return m.handleDashboardKeys(msg)
	case ScreenProjects:
		return m.handleProjectsKeys(msg)
	case ScreenDetail:
		return m.handleDetailKeys(msg)
	case ScreenSettings:
		return m.handleSettingsKeys(msg)
	}
	return m, nil
}

func (m Model) handleDashboardKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.New):
		m.form = newProjectForm(nil)
		m.mode = ModeProjectForm
	case key.Matches(msg, keys.Enter):
		m.screen = ScreenProjects
	}
	return m, nil
}

func (m Model) handleProjectsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	visible := m.visible()

	switch {
	case key.Matches(msg, keys.Up):
		if m.projCursor > 0 {
			m.projCursor--
		}

	case key.Matches(msg, keys.Down):
		if m.projCursor < len(visible)-1 {
			m.projCursor++
		}

	case key.Matches(msg, keys.Search):
		m.mode = ModeSearch
		m.searchInput.SetValue(m.snap.Projects.Search)
		m.searchInput.Focus()

	case key.Matches(msg, keys.Filter):
		m.st.SetStatusFilter(nextFilter(m.snap.Projects.StatusFilter))
		m.refresh()
		m.projCursor = 0

	case key.Matches(msg, keys.New):
		m.form = newProjectForm(nil)
		m.mode = ModeProjectForm

	case key.Matches(msg, keys.Edit):
		if m.projCursor < len(visible) {
			p := visible[m.projCursor]
			m.form = newProjectForm(&p)
			m.mode = ModeProjectForm
		}

	case key.Matches(msg, keys.Enter):
		if m.projCursor < len(visible) {
			m.detailID = visible[m.projCursor].ID
			m.taskCursor = 0
			m.screen = ScreenDetail
		}

	case key.Matches(msg, keys.Back):
		m.screen = ScreenDashboard
	}
	return m, nil
}

func (m Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := m.detailProject()
	if p == nil {
		m.screen = ScreenProjects
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.Up):
		if m.taskCursor > 0 {
			m.taskCursor--
		}

	case key.Matches(msg, keys.Down):
		if m.taskCursor < len(p.Tasks)-1 {
			m.taskCursor++
		}

	case key.Matches(msg, keys.Add):
		m.mode = ModeTaskForm
		m.editTaskID = ""
		m.taskErr = ""
		m.taskInput.SetValue("")
		m.taskInput.Focus()

	case key.Matches(msg, keys.Edit):
		if m.taskCursor < len(p.Tasks) {
			t := p.Tasks[m.taskCursor]
			m.mode = ModeTaskForm
			m.editTaskID = t.ID
			m.taskErr = ""
			m.taskInput.SetValue(t.Title)
			m.taskInput.Focus()
		}

	case key.Matches(msg, keys.Toggle):
		if m.taskCursor < len(p.Tasks) {
			t := p.Tasks[m.taskCursor]
			// The flip itself arrives as an applied event once the
			// command goroutine dispatches it; nothing to render yet.
			return m, m.toggleCmd(p.ID, t.ID)
		}

	case key.Matches(msg, keys.Back):
		m.screen = ScreenProjects
	}
	return m, nil
}

// updateSearch handles live search input; every keystroke lands in the
// store so any derived view stays current
func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.mode = ModeNormal
		m.searchInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.st.SetSearch(m.searchInput.Value())
	m.refresh()
	m.projCursor = 0
	return m, cmd
}

func (m Model) updateProjectForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = ModeNormal
		return m, nil

	case "tab", "down":
		m.form.focus = (m.form.focus + 1) % fieldCount
		m.focusFormField()
		return m, nil

	case "shift+tab", "up":
		m.form.focus = (m.form.focus + fieldCount - 1) % fieldCount
		m.focusFormField()
		return m, nil

	case "left", "right":
		if m.form.focus == fieldStatus {
			m.form.status = nextStatus(m.form.status)
			return m, nil
		}

	case "enter":
		if m.form.focus < fieldStatus {
			m.form.focus++
			m.focusFormField()
			return m, nil
		}
		return m.submitProjectForm()
	}

	if m.form.focus < fieldStatus {
		var cmd tea.Cmd
		m.form.inputs[m.form.focus], cmd = m.form.inputs[m.form.focus].Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) focusFormField() {
	for i := range m.form.inputs {
		if i == m.form.focus {
			m.form.inputs[i].Focus()
		} else {
			m.form.inputs[i].Blur()
		}
	}
}

func (m Model) submitProjectForm() (tea.Model, tea.Cmd) {
	progress := 0
	if v := strings.TrimSpace(m.form.inputs[fieldProgress].Value()); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			m.form.err = "Progress must be a number"
			return m, nil
		}
		progress = n
	}

	p := model.Project{
		ID:          m.form.editingID,
		Name:        strings.TrimSpace(m.form.inputs[fieldName].Value()),
		Owner:       strings.TrimSpace(m.form.inputs[fieldOwner].Value()),
		Status:      m.form.status,
		Progress:    progress,
		StartDate:   strings.TrimSpace(m.form.inputs[fieldStartDate].Value()),
		EndDate:     strings.TrimSpace(m.form.inputs[fieldEndDate].Value()),
		Description: strings.TrimSpace(m.form.inputs[fieldDescription].Value()),
	}

	if m.form.editingID != "" {
		if existing := m.projectByID(m.form.editingID); existing != nil {
			p.CreatedAt = existing.CreatedAt
			p.Tasks = existing.Tasks
		}
	}

	if err := model.ValidateProject(p); err != nil {
		m.form.err = err.Error()
		return m, nil
	}

	m.form.err = ""
	m.snap.Projects.Loading = true
	return m, m.saveProjectCmd(p)
}

func (m *Model) projectByID(id string) *model.Project {
	for i := range m.snap.Projects.List {
		if m.snap.Projects.List[i].ID == id {
			return &m.snap.Projects.List[i]
		}
	}
	return nil
}

func (m Model) updateTaskForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = ModeNormal
		m.taskInput.SetValue("")
		m.editTaskID = ""
		return m, nil

	case "enter":
		title := strings.TrimSpace(m.taskInput.Value())
		if err := model.ValidateTaskTitle(title); err != nil {
			m.taskErr = err.Error()
			return m, nil
		}
		p := m.detailProject()
		if p == nil {
			m.mode = ModeNormal
			return m, nil
		}

		t := model.Task{ID: m.editTaskID, Title: title}
		if m.editTaskID != "" {
			if i := p.FindTask(m.editTaskID); i >= 0 {
				t.Completed = p.Tasks[i].Completed
			}
		}
		m.taskErr = ""
		m.snap.Projects.Loading = true
		return m, m.saveTaskCmd(p.ID, t)
	}

	var cmd tea.Cmd
	m.taskInput, cmd = m.taskInput.Update(msg)
	return m, cmd
}

func nextStatus(s model.Status) model.Status {
	switch s {
	case model.StatusActive:
		return model.StatusCompleted
	case model.StatusCompleted:
		return model.StatusPending
	default:
		return model.StatusActive
	}
}
