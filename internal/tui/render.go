package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bitfun/appstate/internal/notify"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57"))

	unreadStyle = lipgloss.NewStyle().Bold(true)
	readStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))

	errorTypeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	warningTypeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	successTypeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	infoTypeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))

	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// View implements tea.Model.
func (m Model) View() string {
	state, err := m.store.State()
	if err != nil {
		return errStyle.Render(fmt.Sprintf("error: %v", err))
	}

	header := fmt.Sprintf("Notifications (%d unread)", state.UnreadCount)
	if m.unreadOnly {
		header += " [unread only]"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(statusStyle.Render(m.footer()))
	return b.String()
}

func (m Model) renderList() string {
	if len(m.records) == 0 {
		return readStyle.Render("no notifications")
	}
	lines := make([]string, 0, len(m.records))
	for i, record := range m.records {
		line := renderRecord(record)
		if i == m.cursor {
			line = selectedStyle.Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func renderRecord(record notify.Record) string {
	badge := typeStyle(record.Type).Render(fmt.Sprintf("%-7s", record.Type))
	mark := "*"
	style := unreadStyle
	if record.Read {
		mark = " "
		style = readStyle
	}
	title := record.Title
	if title == "" {
		title = record.Message
	}
	line := fmt.Sprintf("%s %s  %s  %s", mark,
		record.Timestamp.Format("15:04:05"), badge, style.Render(title))
	if record.Title != "" && record.Message != "" {
		line += readStyle.Render("  " + truncate(record.Message, 48))
	}
	return line
}

func (m Model) footer() string {
	if m.err != nil {
		return errStyle.Render(fmt.Sprintf("error: %v", m.err))
	}
	help := "j/k move  r read  R read all  d dismiss  x delete  u unread  q quit"
	if m.statusMsg != "" {
		return m.statusMsg + "  |  " + help
	}
	return help
}

func typeStyle(t notify.Type) lipgloss.Style {
	switch t {
	case notify.TypeError:
		return errorTypeStyle
	case notify.TypeWarning:
		return warningTypeStyle
	case notify.TypeSuccess:
		return successTypeStyle
	default:
		return infoTypeStyle
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
