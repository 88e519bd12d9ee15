package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/noborus/ov/oviewer"
)

// helpPagerMsg contains the result of a help pager command
type helpPagerMsg struct {
	err error
}

func (m *Model) showHelpCmd() tea.Cmd {
	return func() tea.Msg {
		return helpPagerMsg{err: m.showHelpInPager()}
	}
}

// showHelpInPager suspends the bubbletea program and opens the help
// text in the ov pager, restoring the terminal afterwards
func (m *Model) showHelpInPager() error {
	if m.program == nil {
		return fmt.Errorf("program not set")
	}

	if err := m.program.ReleaseTerminal(); err != nil {
		return err
	}
	defer func() {
		// Give ov a moment to fully exit before taking the terminal back
		time.Sleep(100 * time.Millisecond)
		_ = m.program.RestoreTerminal()
	}()

	root, err := oviewer.NewRoot(strings.NewReader(helpText))
	if err != nil {
		return err
	}

	cfg := oviewer.NewConfig()
	cfg.IsWriteOnExit = false
	cfg.IsWriteOriginal = false
	root.SetConfig(cfg)

	return root.Run()
}

const helpText = `siftview

Type into the query box to search with a debounce; press enter to
search immediately. Esc clears the query and restores the full view.

Navigation
  up/down     move the cursor
  tab         toggle selection of the item under the cursor
  ctrl+a      select all visible items
  ctrl+d      deselect all visible items

Search
  ctrl+f      toggle fuzzy matching
  ctrl+o      toggle the short-name filter
  ctrl+s      cycle sort: none, name, category

Remote mode (-remote)
  ctrl+n      load the next page
  ctrl+r      refresh: drop the cache and reload page 0
  ctrl+t      retry the last query after an error

Selections survive searching, filtering and sorting: an item selected
while visible stays selected when it is filtered out of view.
`
