package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"siftview/internal/source"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	cursorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	selectedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	categoryStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	highlightStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// View implements tea.Model
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("siftview"))
	if m.remote {
		b.WriteString(statusStyle.Render("  (remote)"))
	}
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	displayed := m.ctrl.Displayed()
	if len(displayed) == 0 {
		b.WriteString(statusStyle.Render(m.emptyLine()))
		b.WriteString("\n")
	}
	for i, entry := range displayed {
		b.WriteString(m.renderEntry(i, entry))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.statusLine(len(displayed)))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *Model) renderEntry(i int, entry source.Entry) string {
	prefix := "  "
	if i == m.cursor {
		prefix = cursorStyle.Render("> ")
	}

	mark := "[ ] "
	if m.ctrl.IsSelected(entry) {
		mark = selectedStyle.Render("[x] ")
	}

	name := m.highlightName(entry)
	line := prefix + mark + name + " " + categoryStyle.Render("("+entry.Category+")")
	if m.cfg.UI.ShowScores {
		if match, _, ok := m.ctrl.MatchFor(entry); ok {
			line += statusStyle.Render(fmt.Sprintf(" %.2f", match.Score))
		}
	}
	return line
}

// highlightName emphasizes the matched runes of the entry name.
// Indices refer to the winning search field; field 0 is the name.
func (m *Model) highlightName(entry source.Entry) string {
	match, field, ok := m.ctrl.MatchFor(entry)
	if !ok || field != 0 {
		return entry.Name
	}

	marked := make(map[int]bool, len(match.Indices))
	for _, idx := range match.Indices {
		marked[idx] = true
	}

	var b strings.Builder
	for i, r := range []rune(entry.Name) {
		if marked[i] {
			b.WriteString(highlightStyle.Render(string(r)))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func (m *Model) emptyLine() string {
	if m.ctrl.Loading() {
		return "  searching..."
	}
	if m.ctrl.HasSearched() {
		return "  no matches"
	}
	return "  nothing to show"
}

func (m *Model) statusLine(shown int) string {
	parts := []string{
		fmt.Sprintf("%d shown", shown),
		fmt.Sprintf("%d selected", m.ctrl.SelectedCount()),
		"sort: " + m.sort.String(),
	}
	if m.ctrl.FuzzyEnabled() {
		parts = append(parts, "fuzzy")
	}
	if m.shortOnly {
		parts = append(parts, "filter: short names")
	}
	if m.ctrl.Loading() {
		parts = append(parts, "loading")
	}
	if m.ctrl.LoadingMore() {
		parts = append(parts, "loading more")
	}
	if m.ctrl.HasMore() {
		parts = append(parts, "more available (ctrl+n)")
	}

	line := statusStyle.Render(strings.Join(parts, " · "))
	if err := m.ctrl.Err(); err != nil {
		line += "\n" + errorStyle.Render("error: "+err.Error()+" (ctrl+t to retry)")
	}
	return line
}
