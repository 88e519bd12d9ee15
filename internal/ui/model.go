package ui

import (
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"siftview/internal/config"
	"siftview/internal/controller"
	"siftview/internal/eventbus"
	"siftview/internal/source"
)

// EventMsg wraps a controller event for the UI
type EventMsg struct {
	Event eventbus.DomainEvent
}

// sortMode cycles through the demo's comparators
type sortMode int

const (
	sortNone sortMode = iota
	sortByName
	sortByCategory
)

func (m sortMode) String() string {
	switch m {
	case sortByName:
		return "name"
	case sortByCategory:
		return "category"
	default:
		return "none"
	}
}

type keyMap struct {
	Up          key.Binding
	Down        key.Binding
	Search      key.Binding
	Clear       key.Binding
	ToggleSel   key.Binding
	SelectAll   key.Binding
	DeselectAll key.Binding
	CycleSort   key.Binding
	ToggleFuzzy key.Binding
	ShortOnly   key.Binding
	LoadMore    key.Binding
	Refresh     key.Binding
	Retry       key.Binding
	Help        key.Binding
	Quit        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:          key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "move up")),
		Down:        key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "move down")),
		Search:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "search now")),
		Clear:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear query")),
		ToggleSel:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "toggle selection")),
		SelectAll:   key.NewBinding(key.WithKeys("ctrl+a"), key.WithHelp("ctrl+a", "select visible")),
		DeselectAll: key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "deselect visible")),
		CycleSort:   key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "cycle sort")),
		ToggleFuzzy: key.NewBinding(key.WithKeys("ctrl+f"), key.WithHelp("ctrl+f", "toggle fuzzy")),
		ShortOnly:   key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "toggle short-name filter")),
		LoadMore:    key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "load more")),
		Refresh:     key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "refresh")),
		Retry:       key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "retry")),
		Help:        key.NewBinding(key.WithKeys("ctrl+g"), key.WithHelp("ctrl+g", "help")),
		Quit:        key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.ToggleSel, k.ToggleFuzzy, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Search, k.Clear},
		{k.ToggleSel, k.SelectAll, k.DeselectAll, k.CycleSort},
		{k.ToggleFuzzy, k.ShortOnly, k.LoadMore, k.Refresh},
		{k.Retry, k.Help, k.Quit},
	}
}

// Model is the demo UI: a thin consumer of the controller that re-reads
// its accessors after every event
type Model struct {
	ctrl *controller.Controller[source.Entry]
	cfg  *config.Config

	input textinput.Model
	help  help.Model
	keys  keyMap

	cursor    int
	width     int
	height    int
	sort      sortMode
	shortOnly bool
	remote    bool

	program *tea.Program
}

// NewModel creates the demo UI model around an existing controller
func NewModel(ctrl *controller.Controller[source.Entry], cfg *config.Config, remote bool) *Model {
	input := textinput.New()
	input.Placeholder = "type to search"
	input.Prompt = "/ "
	input.Focus()

	return &Model{
		ctrl:   ctrl,
		cfg:    cfg,
		input:  input,
		help:   help.New(),
		keys:   defaultKeyMap(),
		remote: remote,
	}
}

// SetProgram hands the model its running program, needed to release the
// terminal for the pager
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case EventMsg:
		// State already changed inside the controller; just keep the
		// cursor within the new view.
		m.clampCursor()
		return m, nil

	case helpPagerMsg:
		if msg.err != nil {
			log.Printf("Help pager error: %v", msg.err)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.keys
	switch {
	case key.Matches(msg, keys.Quit):
		m.ctrl.Dispose()
		return m, tea.Quit

	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.ctrl.Displayed())-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, keys.Search):
		m.ctrl.SearchNow(m.input.Value())
		return m, nil

	case key.Matches(msg, keys.Clear):
		m.input.SetValue("")
		m.ctrl.ClearQuery()
		return m, nil

	case key.Matches(msg, keys.ToggleSel):
		if entry, ok := m.entryAtCursor(); ok {
			m.ctrl.Toggle(entry)
		}
		return m, nil

	case key.Matches(msg, keys.SelectAll):
		m.ctrl.SelectAll()
		return m, nil

	case key.Matches(msg, keys.DeselectAll):
		m.ctrl.DeselectAll()
		return m, nil

	case key.Matches(msg, keys.CycleSort):
		m.sort = (m.sort + 1) % 3
		m.ctrl.SetComparator(comparatorFor(m.sort))
		return m, nil

	case key.Matches(msg, keys.ToggleFuzzy):
		m.ctrl.SetFuzzyEnabled(!m.ctrl.FuzzyEnabled())
		return m, nil

	case key.Matches(msg, keys.ShortOnly):
		m.shortOnly = !m.shortOnly
		if m.shortOnly {
			m.ctrl.SetFilter("short", func(e source.Entry) bool { return len(e.Name) <= 6 })
		} else {
			m.ctrl.RemoveFilter("short")
		}
		return m, nil

	case key.Matches(msg, keys.LoadMore):
		m.ctrl.LoadMore()
		return m, nil

	case key.Matches(msg, keys.Refresh):
		m.ctrl.Refresh()
		return m, nil

	case key.Matches(msg, keys.Retry):
		m.ctrl.Retry()
		return m, nil

	case key.Matches(msg, keys.Help):
		return m, m.showHelpCmd()
	}

	// Everything else edits the query box.
	var cmd tea.Cmd
	before := m.input.Value()
	m.input, cmd = m.input.Update(msg)
	if after := m.input.Value(); after != before {
		m.ctrl.SetQuery(after)
	}
	return m, cmd
}

func (m *Model) entryAtCursor() (source.Entry, bool) {
	displayed := m.ctrl.Displayed()
	if m.cursor < 0 || m.cursor >= len(displayed) {
		return source.Entry{}, false
	}
	return displayed[m.cursor], true
}

func (m *Model) clampCursor() {
	n := len(m.ctrl.Displayed())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func comparatorFor(mode sortMode) controller.Less[source.Entry] {
	switch mode {
	case sortByName:
		return func(a, b source.Entry) bool {
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		}
	case sortByCategory:
		return func(a, b source.Entry) bool {
			if a.Category != b.Category {
				return a.Category < b.Category
			}
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		}
	default:
		return nil
	}
}
