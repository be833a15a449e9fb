package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/tui/styles"
)

// View renders the application
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}

	if m.State == StateHelp {
		return m.renderHelp()
	}
	if m.SearchModal.IsVisible() {
		return m.SearchModal.View()
	}

	var body string
	switch m.State {
	case StateDetail:
		body = m.Detail.View()
	default:
		parts := make([]string, 0, 2)
		if strip := m.Strip.View(); strip != "" {
			parts = append(parts, strip)
		}
		parts = append(parts, m.Grid.View())
		body = lipgloss.JoinVertical(lipgloss.Left, parts...)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderTabs(),
		body,
		m.renderStatusBar(),
	)
}

// renderTabs renders the kind tabs and the active category
func (m Model) renderTabs() string {
	var tabs []string
	for _, k := range domain.Kinds {
		if k == m.kind {
			tabs = append(tabs, styles.ActiveTabStyle.Render(k.Label()))
		} else {
			tabs = append(tabs, styles.InactiveTabStyle.Render(k.Label()))
		}
	}
	left := strings.Join(tabs, " ")
	if feed := m.feed(); feed != nil {
		left += "  " + styles.DimBadgeStyle.Render(feed.Category().Label())
	}

	right := styles.AccentStyle.Bold(true).Render("reel")
	gap := m.Width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return left
	}
	return left + strings.Repeat(" ", gap) + right
}

// renderStatusBar renders the status message or contextual key hints
func (m Model) renderStatusBar() string {
	if m.StatusMsg != "" {
		msg := styles.Truncate(m.StatusMsg, m.Width)
		if m.StatusIsErr {
			return styles.ErrorStyle.Render(msg)
		}
		return styles.SuccessStyle.Render(msg)
	}

	var hints [][2]string
	switch m.State {
	case StateDetail:
		hints = [][2]string{{"esc", "back"}, {"j/k", "scroll"}, {"r", "retry"}, {"s", "search"}, {"?", "help"}, {"q", "quit"}}
	default:
		hints = [][2]string{{"enter", "open"}, {"tab", "movies/tv"}, {"c", "category"}, {"/", "filter"}, {"s", "search"}}
		if m.Strip.Len() > 0 {
			hints = append(hints, [2]string{"v", "recent"})
		}
		hints = append(hints, [2]string{"?", "help"}, [2]string{"q", "quit"})
	}

	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = styles.HelpKeyStyle.Render(h[0]) + " " + styles.HelpDescStyle.Render(h[1])
	}
	return strings.Join(parts, "  ")
}

// renderHelp renders the help screen
func (m Model) renderHelp() string {
	help := `
BROWSE                          DETAIL
  h/j/k/l    Move in the grid      j/k        Scroll
  g/G        First/last title      PgUp/PgDn  Scroll page
  enter      Open title            r          Retry failed parts
  tab        Movies / TV Shows     esc        Back
  1/2        Movies / TV Shows
  c          Next category        SEARCH
  /          Filter loaded titles  tab        Movies / TV Shows
  v          Recently viewed       ↑/↓        Select result
  r          Retry failed page     enter      Open result
                                   C-r        Retry search
OTHER                              esc        Close
  s          Search
  ?          This help
  q          Quit

Press ? or esc to return...
`

	return lipgloss.Place(m.Width, m.Height,
		lipgloss.Center, lipgloss.Center,
		styles.ModalStyle.Render(help))
}
