package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View renders the UI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var content string
	switch m.screen {
	case ScreenLogin:
		content = m.renderLogin()
	case ScreenDashboard:
		content = m.renderDashboard()
	case ScreenProjects:
		content = m.renderProjects()
	case ScreenDetail:
		content = m.renderDetail()
	case ScreenSettings:
		content = m.renderSettings()
	}

	if m.mode == ModeProjectForm {
		content = m.overlay(m.renderProjectForm())
	}
	if m.mode == ModeTaskForm {
		content = m.overlay(m.renderTaskForm())
	}

	return lipgloss.JoinVertical(lipgloss.Left, content, m.renderStatusBar())
}

func (m Model) overlay(modal string) string {
	return lipgloss.Place(
		m.width, m.height-2,
		lipgloss.Center, lipgloss.Center,
		modal,
		lipgloss.WithWhitespaceChars(" "),
	)
}

func (m Model) renderLogin() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("TaskDeck") + "\n")
	s.WriteString(SubtitleStyle.Render("Sign in to manage your projects") + "\n\n")

	s.WriteString("Email\n")
	s.WriteString(m.emailInput.View() + "\n\n")
	s.WriteString("Password\n")
	s.WriteString(m.passInput.View() + "\n\n")

	switch {
	case m.snap.Auth.Loading:
		s.WriteString(SubtitleStyle.Render("Signing in...") + "\n")
	case m.snap.Auth.Error != "":
		s.WriteString(ErrorStyle.Render(m.snap.Auth.Error) + "\n")
	}

	s.WriteString("\n" + HelpStyle.Render("tab switch field • enter sign in • ctrl+c quit"))

	box := PanelStyle.Render(s.String())
	return lipgloss.Place(
		m.width, m.height-2,
		lipgloss.Center, lipgloss.Center,
		box,
		lipgloss.WithWhitespaceChars(" "),
	)
}

func (m Model) renderDashboard() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("Dashboard") + "\n")
	welcome := "Welcome back!"
	if m.snap.Auth.Email != "" {
		welcome = "Welcome back, " + m.snap.Auth.Email + "!"
	}
	s.WriteString(SubtitleStyle.Render(welcome+" Here's your project overview.") + "\n\n")

	if m.snap.Projects.Loading && len(m.snap.Projects.List) == 0 {
		s.WriteString(SubtitleStyle.Render("Loading projects...") + "\n")
		return s.String()
	}
	if m.snap.Projects.Error != "" {
		s.WriteString(ErrorStyle.Render(m.snap.Projects.Error) + "\n")
		s.WriteString(HelpStyle.Render("r retry") + "\n")
		return s.String()
	}

	counts := CountByStatus(m.snap.Projects.List)
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		m.statCard("Total", counts.Total, Primary),
		m.statCard("Active", counts.Active, ActiveColor),
		m.statCard("Completed", counts.Completed, CompletedColor),
		m.statCard("Pending", counts.Pending, PendingColor),
	)
	s.WriteString(cards + "\n\n")

	s.WriteString(TitleStyle.Render("Recent Projects") + "\n")
	recent := RecentProjects(m.snap.Projects.List, 5)
	if len(recent) == 0 {
		s.WriteString(SubtitleStyle.Render("No projects yet. Create your first project!") + "\n")
	} else {
		for _, p := range recent {
			badge := StatusStyle(string(p.Status)).Render(string(p.Status))
			line := fmt.Sprintf("  %-30s %-10s %s", truncate(p.Name, 30), badge, SubtitleStyle.Render(p.CreatedAt))
			s.WriteString(line + "\n")
		}
	}

	return s.String()
}

func (m Model) statCard(label string, value int, color lipgloss.Color) string {
	num := lipgloss.NewStyle().Bold(true).Foreground(color).Render(fmt.Sprintf("%d", value))
	return StatCardStyle.Render(num + "\n" + SubtitleStyle.Render(label))
}

func (m Model) renderProjects() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("Projects") + "\n\n")

	search := m.snap.Projects.Search
	if m.mode == ModeSearch {
		s.WriteString("Search: " + m.searchInput.View() + "\n")
	} else if search != "" {
		s.WriteString(SubtitleStyle.Render("Search: "+search) + "\n")
	}
	s.WriteString(SubtitleStyle.Render("Filter: "+string(m.snap.Projects.StatusFilter)) + "\n\n")

	if m.snap.Projects.Loading && len(m.snap.Projects.List) == 0 {
		s.WriteString(SubtitleStyle.Render("Loading projects...") + "\n")
		return s.String()
	}
	if m.snap.Projects.Error != "" {
		s.WriteString(ErrorStyle.Render(m.snap.Projects.Error) + "\n")
		s.WriteString(HelpStyle.Render("r retry") + "\n")
		return s.String()
	}

	visible := m.visible()
	if len(visible) == 0 {
		s.WriteString(SubtitleStyle.Render("No projects match.") + "\n")
		return s.String()
	}

	for i, p := range visible {
		cursor := "  "
		style := ItemStyle
		if i == m.projCursor && m.mode != ModeSearch {
			cursor = "❯ "
			style = SelectedStyle
		}
		badge := StatusStyle(string(p.Status)).Render(fmt.Sprintf("%-9s", p.Status))
		line := fmt.Sprintf("%s%-28s %s %3d%%  %s",
			cursor, truncate(p.Name, 28), badge, p.Progress, SubtitleStyle.Render(p.Owner))
		s.WriteString(style.Render(line) + "\n")
	}

	return s.String()
}

func (m Model) renderDetail() string {
	p := m.detailProject()
	if p == nil {
		return SubtitleStyle.Render("Project not found.")
	}

	var s strings.Builder
	s.WriteString(TitleStyle.Render(p.Name) + "  " + StatusStyle(string(p.Status)).Render(string(p.Status)) + "\n")
	s.WriteString(SubtitleStyle.Render(fmt.Sprintf("Owner: %s  •  Progress: %d%%", p.Owner, p.Progress)) + "\n")
	if p.Description != "" {
		s.WriteString(SubtitleStyle.Render(p.Description) + "\n")
	}
	if p.StartDate != "" || p.EndDate != "" {
		s.WriteString(SubtitleStyle.Render(fmt.Sprintf("%s → %s", p.StartDate, p.EndDate)) + "\n")
	}
	s.WriteString("\n")

	done := 0
	for _, t := range p.Tasks {
		if t.Completed {
			done++
		}
	}
	s.WriteString(TitleStyle.Render(fmt.Sprintf("Tasks (%d/%d done)", done, len(p.Tasks))) + "\n")

	if len(p.Tasks) == 0 {
		s.WriteString(SubtitleStyle.Render("No tasks yet. Press a to add one.") + "\n")
	}

	for i, t := range p.Tasks {
		cursor := "  "
		if i == m.taskCursor {
			cursor = "❯ "
		}
		check := "[ ]"
		style := ItemStyle
		if t.Completed {
			check = "[x]"
			style = DoneStyle
		}
		if i == m.taskCursor {
			style = SelectedStyle
		}
		s.WriteString(style.Render(fmt.Sprintf("%s%s %s", cursor, check, t.Title)) + "\n")
	}

	return s.String()
}

func (m Model) renderSettings() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("Settings") + "\n\n")

	rows := prefRows()
	section := ""
	for i, row := range rows {
		if row.section != section {
			if section != "" {
				s.WriteString("\n")
			}
			section = row.section
			s.WriteString(SubtitleStyle.Render(section) + "\n")
		}

		cursor := "  "
		style := ItemStyle
		if i == m.prefCursor {
			cursor = "❯ "
			style = SelectedStyle
		}
		s.WriteString(style.Render(fmt.Sprintf("%s%-22s %s", cursor, row.label, row.value(&m.prefs))) + "\n")
	}

	s.WriteString("\n")
	if m.prefsSaved {
		s.WriteString(SuccessStyle.Render("Settings saved!") + "\n")
	} else {
		s.WriteString(HelpStyle.Render("unsaved changes are kept until you leave") + "\n")
	}

	return s.String()
}

func (m Model) renderProjectForm() string {
	var s strings.Builder

	title := "New Project"
	if m.form.editingID != "" {
		title = "Edit Project"
	}
	s.WriteString(TitleStyle.Render(title) + "\n\n")

	labels := []string{"Name", "Owner", "Progress", "Start date", "End date", "Description"}
	for i, in := range m.form.inputs {
		marker := "  "
		if m.form.focus == i {
			marker = "❯ "
		}
		s.WriteString(fmt.Sprintf("%s%-12s %s\n", marker, labels[i], in.View()))
	}

	marker := "  "
	if m.form.focus == fieldStatus {
		marker = "❯ "
	}
	s.WriteString(fmt.Sprintf("%s%-12s %s\n", marker, "Status",
		StatusStyle(string(m.form.status)).Render("◀ "+string(m.form.status)+" ▶")))

	if m.form.err != "" {
		s.WriteString("\n" + ErrorStyle.Render(m.form.err) + "\n")
	}

	s.WriteString("\n" + HelpStyle.Render("tab next • enter on status saves • esc cancel"))
	return ModalStyle.Render(s.String())
}

func (m Model) renderTaskForm() string {
	var s strings.Builder

	title := "New Task"
	if m.editTaskID != "" {
		title = "Edit Task"
	}
	s.WriteString(TitleStyle.Render(title) + "\n\n")
	s.WriteString(m.taskInput.View() + "\n")

	if m.taskErr != "" {
		s.WriteString("\n" + ErrorStyle.Render(m.taskErr) + "\n")
	}

	s.WriteString("\n" + HelpStyle.Render("enter save • esc cancel"))
	return ModalStyle.Render(s.String())
}

func (m Model) renderStatusBar() string {
	if m.message != "" {
		return SuccessStyle.Render(" " + m.message)
	}

	var help string
	switch m.screen {
	case ScreenLogin:
		help = ""
	case ScreenDashboard:
		help = "p projects • n new • s settings • r refresh • L logout • q quit"
	case ScreenProjects:
		help = "enter open • / search • f filter • n new • e edit • d dashboard • q quit"
	case ScreenDetail:
		help = "a add task • e edit • x toggle • esc back • q quit"
	case ScreenSettings:
		help = "enter toggle • ctrl+s save • ctrl+r reset • esc back • q quit"
	}

	if m.snap.Projects.Loading {
		help = "working... • " + help
	}
	return StatusBarStyle.Render(" " + help)
}
