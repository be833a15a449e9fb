package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/service"
	"github.com/mmcdole/reel/internal/tui/styles"
)

// SearchAction tells the caller what a key press in the search modal asks for
type SearchAction int

const (
	SearchActionNone SearchAction = iota
	// SearchActionQuery means the query text or kind changed
	SearchActionQuery
	// SearchActionSelect means the highlighted entry was chosen
	SearchActionSelect
	// SearchActionRetry means the failed search should run again
	SearchActionRetry
)

const maxSearchResults = 10

// SearchModal is the search-as-you-type modal. It renders the debouncer's
// snapshot and, before a query is long enough, the recent searches.
type SearchModal struct {
	input     textinput.Model
	kind      domain.MediaKind
	minLength int

	snapshot service.SearchSnapshot
	recent   domain.HistoryList

	cursor    int
	visible   bool
	width     int
	height    int
	frame     int
	prevQuery string
}

// NewSearchModal creates a new search modal
func NewSearchModal(minLength int) SearchModal {
	ti := textinput.New()
	ti.Placeholder = "Search titles..."
	ti.CharLimit = 100
	ti.Width = 40
	ti.Prompt = "/ "
	ti.PromptStyle = styles.AccentStyle
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle

	if minLength < 1 {
		minLength = service.DefaultMinQueryLength
	}

	return SearchModal{
		input:     ti,
		kind:      domain.KindMovie,
		minLength: minLength,
	}
}

// Show makes the modal visible with an empty query for kind
func (o *SearchModal) Show(kind domain.MediaKind) {
	o.visible = true
	o.kind = kind
	o.input.Focus()
	o.input.SetValue("")
	o.snapshot = service.SearchSnapshot{Kind: kind}
	o.cursor = 0
	o.prevQuery = ""
}

// Hide hides the modal
func (o *SearchModal) Hide() {
	o.visible = false
	o.input.Blur()
}

// IsVisible returns true if the modal is visible
func (o SearchModal) IsVisible() bool {
	return o.visible
}

// Kind returns the media kind being searched
func (o SearchModal) Kind() domain.MediaKind {
	return o.kind
}

// Query returns the current query text
func (o SearchModal) Query() string {
	return o.input.Value()
}

// QueryChanged returns true if the query changed since last check and updates prevQuery
func (o *SearchModal) QueryChanged() bool {
	current := o.input.Value()
	if current != o.prevQuery {
		o.prevQuery = current
		return true
	}
	return false
}

// SetSnapshot shows the latest debouncer state.
// The cursor resets whenever a new search supersedes the old one.
func (o *SearchModal) SetSnapshot(snap service.SearchSnapshot) {
	if snap.Generation != o.snapshot.Generation {
		o.cursor = 0
	}
	o.snapshot = snap
	o.clampCursor()
}

// Snapshot returns the debouncer state being shown
func (o SearchModal) Snapshot() service.SearchSnapshot {
	return o.snapshot
}

// SetRecent sets the recently opened search results
func (o *SearchModal) SetRecent(list domain.HistoryList) {
	o.recent = list
	o.clampCursor()
}

// SetSize updates the component dimensions
func (o *SearchModal) SetSize(width, height int) {
	o.width = width
	o.height = height
	o.input.Width = o.modalWidth() - 10
}

// SetSpinnerFrame advances the loading spinner
func (o *SearchModal) SetSpinnerFrame(frame int) {
	o.frame = frame
}

// showingRecent reports whether the list holds recent searches rather than results
func (o SearchModal) showingRecent() bool {
	return o.snapshot.Status == service.SearchIdle || o.snapshot.Status == service.SearchTooShort
}

// entries returns the selectable list currently on screen
func (o SearchModal) entries() []domain.MediaSummary {
	switch {
	case o.snapshot.Status == service.SearchDone:
		return o.snapshot.Results
	case o.showingRecent():
		matches := service.FilterHistory(o.recent, strings.TrimSpace(o.input.Value()))
		out := make([]domain.MediaSummary, len(matches))
		for i, e := range matches {
			out[i] = e.Summary()
		}
		return out
	default:
		return nil
	}
}

func (o *SearchModal) clampCursor() {
	n := len(o.entries())
	if o.cursor >= n {
		o.cursor = n - 1
	}
	if o.cursor < 0 {
		o.cursor = 0
	}
}

// SelectedResult returns the highlighted entry, or nil when the list is empty
func (o SearchModal) SelectedResult() *domain.MediaSummary {
	entries := o.entries()
	if len(entries) == 0 || o.cursor >= len(entries) {
		return nil
	}
	item := entries[o.cursor]
	return &item
}

// SelectedFromResults reports whether the highlighted entry came from a live search
func (o SearchModal) SelectedFromResults() bool {
	return o.snapshot.Status == service.SearchDone
}

// Init initializes the component
func (o SearchModal) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (o SearchModal) Update(msg tea.Msg) (SearchModal, tea.Cmd, SearchAction) {
	if !o.visible {
		return o, nil, SearchActionNone
	}

	var cmd tea.Cmd
	count := len(o.entries())

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, SearchKeys.Escape):
			o.Hide()
			return o, nil, SearchActionNone

		case key.Matches(msg, SearchKeys.Enter):
			if count > 0 {
				return o, nil, SearchActionSelect
			}
			return o, nil, SearchActionNone

		case key.Matches(msg, SearchKeys.Down):
			if o.cursor < count-1 {
				o.cursor++
			}
			return o, nil, SearchActionNone

		case key.Matches(msg, SearchKeys.Up):
			if o.cursor > 0 {
				o.cursor--
			}
			return o, nil, SearchActionNone

		case key.Matches(msg, SearchKeys.ToggleKind):
			if o.kind == domain.KindMovie {
				o.kind = domain.KindTV
			} else {
				o.kind = domain.KindMovie
			}
			return o, nil, SearchActionQuery

		case key.Matches(msg, SearchKeys.Retry):
			if o.snapshot.Status == service.SearchFailed {
				return o, nil, SearchActionRetry
			}
			return o, nil, SearchActionNone
		}
	}

	o.input, cmd = o.input.Update(msg)
	if o.QueryChanged() {
		o.cursor = 0
		return o, cmd, SearchActionQuery
	}
	return o, cmd, SearchActionNone
}

func (o SearchModal) modalWidth() int {
	w := o.width * 2 / 3
	if w < 40 {
		w = 40
	}
	if w > 80 {
		w = 80
	}
	return w
}

// View renders the component
func (o SearchModal) View() string {
	if !o.visible {
		return ""
	}

	modalWidth := o.modalWidth()
	textWidth := modalWidth - 4

	var b strings.Builder
	b.WriteString(o.renderKindTabs())
	b.WriteString("\n\n")
	b.WriteString(o.input.View())
	b.WriteString("\n\n")

	snap := o.snapshot
	switch snap.Status {
	case service.SearchIdle:
		if len(o.recent) == 0 {
			b.WriteString(styles.DimStyle.Render(fmt.Sprintf("Type at least %d characters to search", o.minLength)))
		} else {
			b.WriteString(styles.DimStyle.Render("Recent searches"))
			b.WriteString("\n")
			o.renderEntries(&b, textWidth)
		}
	case service.SearchTooShort:
		b.WriteString(styles.DimStyle.Render(fmt.Sprintf("Keep typing, searches start at %d characters", o.minLength)))
		if len(o.entries()) > 0 {
			b.WriteString("\n\n")
			b.WriteString(styles.DimStyle.Render("Recent searches"))
			b.WriteString("\n")
			o.renderEntries(&b, textWidth)
		}
	case service.SearchPending, service.SearchLoading:
		b.WriteString(styles.Spinner(o.frame) + " " + styles.DimStyle.Render("Searching..."))
	case service.SearchFailed:
		b.WriteString(styles.RenderError(snap.Err, textWidth, "ctrl+r to retry"))
	case service.SearchDone:
		if len(snap.Results) == 0 {
			b.WriteString(styles.DimStyle.Render(fmt.Sprintf("No results for %q", snap.Query)))
		} else {
			o.renderEntries(&b, textWidth)
		}
	}

	content := lipgloss.NewStyle().
		Width(textWidth).
		Render(b.String())

	modal := styles.ModalStyle.
		Width(modalWidth).
		Render(content)

	// Center horizontally and vertically
	return lipgloss.Place(
		o.width,
		o.height,
		lipgloss.Center,
		lipgloss.Center,
		modal,
	)
}

func (o SearchModal) renderKindTabs() string {
	var tabs []string
	for _, k := range domain.Kinds {
		if k == o.kind {
			tabs = append(tabs, styles.ActiveTabStyle.Render(k.Label()))
		} else {
			tabs = append(tabs, styles.InactiveTabStyle.Render(k.Label()))
		}
	}
	return strings.Join(tabs, " ") + styles.DimStyle.Render("  tab to switch")
}

func (o SearchModal) renderEntries(b *strings.Builder, width int) {
	entries := o.entries()

	// Keep the cursor inside the window
	start := 0
	if o.cursor >= maxSearchResults {
		start = o.cursor - maxSearchResults + 1
	}
	end := start + maxSearchResults
	if end > len(entries) {
		end = len(entries)
	}

	for i := start; i < end; i++ {
		b.WriteString(renderListEntry(entries[i], i == o.cursor, width))
		b.WriteString("\n")
	}

	if len(entries) > end {
		b.WriteString(styles.DimStyle.Render(fmt.Sprintf("... and %d more", len(entries)-end)))
	}
}

// renderListEntry renders one row as a kind badge, the title and its description
func renderListEntry(item domain.ListItem, selected bool, width int) string {
	badge := "MOVIE"
	if item.GetKind() == domain.KindTV {
		badge = "TV"
	}

	style, badgeStyle := styles.NormalItemStyle, styles.DimBadgeStyle
	if selected {
		style, badgeStyle = styles.SelectedItemStyle, styles.BadgeStyle
	}

	line := badgeStyle.Render(badge) + " " + style.Render(styles.Truncate(item.GetTitle(), width-20))
	if desc := item.GetDescription(); desc != "" {
		line += " " + desc
	}
	return line
}
