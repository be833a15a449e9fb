package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/layout"
	"github.com/mmcdole/reel/internal/tui/styles"
	"github.com/sahilm/fuzzy"
)

// Layout constants for grid
const (
	// Border adds 1 char on each side (left+right for width, top+bottom for height)
	BorderWidth  = 2
	BorderHeight = 2

	// Padding inside a cell (Padding(0,1) = 1 left + 1 right)
	HorizontalPadding = 2

	// Title line and rating line inside a bordered cell
	CellHeight = 2 + BorderHeight

	// Blank columns between cells
	CellGap = 1

	// Peek panel: top rule, header, two overview lines, bottom rule
	PeekHeight = 5

	// Breadcrumb line at top, status line at bottom
	HeaderLines = 1
	FooterLines = 1

	DefaultCellWidth = 28
	MinCellWidth     = 12
)

// FeedGrid is the paginated poster grid for one feed.
// The peek panel is drawn beneath the row holding the selected item.
type FeedGrid struct {
	items []domain.MediaSummary

	// Feed status, mirrored from domain.FeedState
	loading   bool
	exhausted bool
	err       error

	// Selection
	cursor    int
	rowOffset int

	// Geometry
	cellWidth int
	cols      int
	width     int
	height    int

	focused  bool
	showPeek bool
	frame    int

	// Border title (breadcrumb)
	breadcrumb string

	// Filter state
	filterActive bool
	filterInput  textinput.Model
	filterQuery  string
	filteredIdx  []int // indices into items
}

// NewFeedGrid creates a new grid component
func NewFeedGrid(cellWidth int, showPeek bool) FeedGrid {
	if cellWidth <= 0 {
		cellWidth = DefaultCellWidth
	}
	if cellWidth < MinCellWidth {
		cellWidth = MinCellWidth
	}

	ti := textinput.New()
	ti.Placeholder = "type to filter..."
	ti.Prompt = "/ "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.TextStyle = styles.FilterStyle

	return FeedGrid{
		cellWidth:   cellWidth,
		cols:        1,
		showPeek:    showPeek,
		filterInput: ti,
	}
}

// SetFeed replaces the grid content with the latest feed snapshot.
// The cursor stays where it is so appended pages do not move the selection.
func (g *FeedGrid) SetFeed(state domain.FeedState) {
	g.items = state.Items
	g.loading = state.FetchInFlight
	g.exhausted = state.Exhausted
	g.err = state.Err
	if g.filterQuery != "" {
		g.applyFilter(false)
	}
	g.SetCursor(g.cursor)
}

// MarkLoading flags a page request as dispatched until the next SetFeed
func (g *FeedGrid) MarkLoading() {
	g.loading = true
	g.err = nil
}

// Reset clears content, selection and filter. Used when the feed is switched.
func (g *FeedGrid) Reset() {
	g.items = nil
	g.loading = false
	g.exhausted = false
	g.err = nil
	g.cursor = 0
	g.rowOffset = 0
	g.clearFilter()
}

// SetSize updates the component dimensions
func (g *FeedGrid) SetSize(width, height int) {
	g.width = width
	g.height = height
	g.cols = layout.Columns(width-BorderWidth, g.cellWidth, CellGap)
	g.ensureVisible()
}

// SetBreadcrumb sets the breadcrumb text displayed on the first line
func (g *FeedGrid) SetBreadcrumb(crumb string) {
	g.breadcrumb = crumb
}

// SetFocused sets the focus state
func (g *FeedGrid) SetFocused(focused bool) {
	g.focused = focused
}

// IsFocused returns the focus state
func (g FeedGrid) IsFocused() bool {
	return g.focused
}

// SetSpinnerFrame advances the loading spinner
func (g *FeedGrid) SetSpinnerFrame(frame int) {
	g.frame = frame
}

// Columns returns the number of cells per row at the current width
func (g FeedGrid) Columns() int {
	return g.cols
}

// Cursor returns the current cursor position (in filtered order when filtering)
func (g FeedGrid) Cursor() int {
	return g.cursor
}

// SetCursor sets the cursor position, clamped to the visible items
func (g *FeedGrid) SetCursor(pos int) {
	max := g.itemCount() - 1
	if max < 0 {
		g.cursor = 0
		g.rowOffset = 0
		return
	}
	if pos < 0 {
		pos = 0
	}
	if pos > max {
		pos = max
	}
	g.cursor = pos
	g.ensureVisible()
}

// CursorRow returns the row holding the cursor
func (g FeedGrid) CursorRow() int {
	return layout.RowIndexOf(g.cursor, g.cols)
}

// TotalRows returns the number of rows of visible items
func (g FeedGrid) TotalRows() int {
	return layout.RowCount(g.cols, g.itemCount())
}

// Selected returns the selected item, or nil when the grid is empty
func (g FeedGrid) Selected() *domain.MediaSummary {
	count := g.itemCount()
	if count == 0 || g.cursor >= count {
		return nil
	}
	item := g.items[g.mapIndex(g.cursor)]
	return &item
}

// IsEmpty returns true if there are no items to show
func (g FeedGrid) IsEmpty() bool {
	return g.itemCount() == 0
}

// NeedsMore reports whether the cursor is within threshold rows of the last
// loaded row while the feed can still grow. Filtering suspends loading.
func (g FeedGrid) NeedsMore(threshold int) bool {
	if g.filterQuery != "" || g.loading || g.exhausted || g.err != nil {
		return false
	}
	return layout.NearBottom(g.CursorRow(), g.TotalRows(), threshold)
}

// visibleRows returns how many cell rows fit under the chrome
func (g FeedGrid) visibleRows() int {
	avail := g.height - BorderHeight - HeaderLines - FooterLines
	if g.filterActive {
		avail--
	}
	if g.showPeek && g.itemCount() > 0 {
		avail -= PeekHeight
	}
	rows := avail / CellHeight
	if rows < 1 {
		rows = 1
	}
	return rows
}

// ensureVisible scrolls so the cursor row is on screen
func (g *FeedGrid) ensureVisible() {
	row := g.CursorRow()
	visible := g.visibleRows()
	if row < g.rowOffset {
		g.rowOffset = row
	}
	if row >= g.rowOffset+visible {
		g.rowOffset = row - visible + 1
	}
	if g.rowOffset < 0 {
		g.rowOffset = 0
	}
}

// ToggleFilter activates the filter input
func (g *FeedGrid) ToggleFilter() {
	g.filterActive = true
	g.filterInput.Focus()
	g.ensureVisible()
}

// IsFiltering returns true if filter mode is active (showing filtered results)
func (g FeedGrid) IsFiltering() bool {
	return g.filterActive
}

// IsFilterTyping returns true if filter is active AND input is focused (typing mode)
func (g FeedGrid) IsFilterTyping() bool {
	return g.filterActive && g.filterInput.Focused()
}

func (g *FeedGrid) clearFilter() {
	// Keep the selected item selected once all items are shown again
	g.cursor = g.mapIndex(g.cursor)
	g.filterActive = false
	g.filterQuery = ""
	g.filteredIdx = nil
	g.filterInput.SetValue("")
	g.filterInput.Blur()
	g.SetCursor(g.cursor)
}

// applyFilter matches the query against loaded titles.
// resetCursor moves the selection to the best match.
func (g *FeedGrid) applyFilter(resetCursor bool) {
	query := g.filterInput.Value()
	g.filterQuery = query

	if query == "" {
		g.filteredIdx = nil
		return
	}

	titles := make([]string, len(g.items))
	for i, item := range g.items {
		titles[i] = strings.ToLower(item.Title)
	}
	matches := fuzzy.Find(strings.ToLower(query), titles)

	g.filteredIdx = make([]int, len(matches))
	for i, match := range matches {
		g.filteredIdx[i] = match.Index
	}

	if resetCursor {
		g.cursor = 0
		g.rowOffset = 0
	}
}

// itemCount returns the number of items (accounting for filter)
func (g FeedGrid) itemCount() int {
	if g.filteredIdx != nil {
		return len(g.filteredIdx)
	}
	return len(g.items)
}

// mapIndex maps a cursor position to the actual index in items
func (g FeedGrid) mapIndex(i int) int {
	if g.filteredIdx != nil && i < len(g.filteredIdx) {
		return g.filteredIdx[i]
	}
	return i
}

// Init initializes the component
func (g FeedGrid) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (g FeedGrid) Update(msg tea.Msg) (FeedGrid, tea.Cmd) {
	if !g.focused {
		return g, nil
	}

	// Filter input is active and focused (typing mode)
	if g.IsFilterTyping() {
		if msg, ok := msg.(tea.KeyMsg); ok {
			switch {
			case key.Matches(msg, GridKeys.Escape):
				g.clearFilter()
				return g, nil
			case key.Matches(msg, GridKeys.Enter):
				g.filterInput.Blur()
				return g, nil
			case msg.Type == tea.KeyBackspace && g.filterInput.Value() == "":
				g.clearFilter()
				return g, nil
			}
		}

		var cmd tea.Cmd
		g.filterInput, cmd = g.filterInput.Update(msg)
		if g.filterInput.Value() != g.filterQuery {
			g.applyFilter(true)
		}
		return g, cmd
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return g, nil
	}

	// Filter is active but blurred (navigating filtered results)
	if g.filterActive {
		switch {
		case key.Matches(keyMsg, GridKeys.Escape):
			g.clearFilter()
			return g, nil
		case key.Matches(keyMsg, GridKeys.Filter):
			g.filterInput.Focus()
			return g, nil
		}
	}

	count := g.itemCount()
	if count == 0 {
		return g, nil
	}

	switch {
	case key.Matches(keyMsg, GridKeys.Left):
		g.SetCursor(g.cursor - 1)
	case key.Matches(keyMsg, GridKeys.Right):
		g.SetCursor(g.cursor + 1)
	case key.Matches(keyMsg, GridKeys.Up):
		if g.cursor-g.cols >= 0 {
			g.SetCursor(g.cursor - g.cols)
		}
	case key.Matches(keyMsg, GridKeys.Down):
		if g.CursorRow() < g.TotalRows()-1 {
			// The last row may be short; land on its final item
			g.SetCursor(g.cursor + g.cols)
		}
	case key.Matches(keyMsg, GridKeys.Home):
		g.SetCursor(0)
	case key.Matches(keyMsg, GridKeys.End):
		g.SetCursor(count - 1)
	}

	return g, nil
}

// View renders the component
func (g FeedGrid) View() string {
	style := styles.InactiveBorder
	if g.focused {
		style = styles.ActiveBorder
	}

	// Subtract frame (border) size so total rendered size equals g.width x g.height
	frameW, frameH := style.GetFrameSize()

	return style.
		Width(g.width - frameW).
		Height(g.height - frameH).
		Render(g.renderContent())
}

func (g FeedGrid) renderContent() string {
	innerWidth := g.width - BorderWidth

	// Breadcrumb is always the first line (even if empty, for consistent layout)
	breadcrumbLine := " "
	if g.breadcrumb != "" {
		breadcrumbLine = styles.AccentStyle.Render(styles.Truncate(g.breadcrumb, innerWidth))
	}

	count := g.itemCount()
	if count == 0 {
		content := breadcrumbLine + "\n\n" + g.renderEmpty(innerWidth)
		if g.filterActive {
			content += "\n" + g.renderFilterBar()
		}
		return content
	}

	total := g.TotalRows()
	end := g.rowOffset + g.visibleRows()
	if end > total {
		end = total
	}
	anchor := layout.PeekAnchor(g.cursor, g.cols, count)
	gap := strings.Repeat(" ", CellGap)

	var lines []string
	for row := g.rowOffset; row < end; row++ {
		idxs := layout.ItemsInRow(row, g.cols, count)
		cells := make([]string, 0, 2*len(idxs))
		for j, i := range idxs {
			if j > 0 {
				cells = append(cells, gap)
			}
			cells = append(cells, g.renderCell(g.items[g.mapIndex(i)], i == g.cursor))
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, cells...))

		if g.showPeek && idxs[len(idxs)-1] == anchor {
			lines = append(lines, g.renderPeek(g.items[g.mapIndex(g.cursor)], innerWidth))
		}
	}

	content := breadcrumbLine + "\n" + strings.Join(lines, "\n") + "\n" + g.renderStatus(end < total, innerWidth)
	if g.filterActive {
		content += "\n" + g.renderFilterBar()
	}
	return content
}

// renderEmpty keeps loading, failure and an empty feed visually distinct
func (g FeedGrid) renderEmpty(width int) string {
	switch {
	case g.filterQuery != "":
		return styles.DimStyle.Render("No matches")
	case g.err != nil:
		return styles.RenderError(g.err, width, "press r to retry")
	case g.exhausted:
		return styles.DimStyle.Render("Nothing here")
	default:
		// Not yet fetched counts as loading
		return styles.Spinner(g.frame) + " " + styles.DimStyle.Render("Loading...")
	}
}

func (g FeedGrid) renderStatus(more bool, width int) string {
	var parts []string

	switch {
	case g.err != nil:
		msg := styles.Truncate("Couldn't load more: "+g.err.Error(), width-20)
		parts = append(parts, styles.ErrorStyle.Render(msg), styles.DimStyle.Render("r to retry"))
	case g.loading:
		parts = append(parts, styles.Spinner(g.frame)+" "+styles.DimStyle.Render("Loading more..."))
	case g.exhausted && !more:
		parts = append(parts, styles.DimStyle.Render("End of list"))
	}

	if g.rowOffset > 0 || more {
		parts = append(parts, styles.DimStyle.Render("↕ more"))
	}
	if len(parts) == 0 {
		return " "
	}
	return strings.Join(parts, "  ")
}

func (g FeedGrid) renderCell(item domain.MediaSummary, selected bool) string {
	style := styles.GridCellStyle
	if selected {
		style = styles.GridCellSelectedStyle
	}

	textWidth := g.cellWidth - BorderWidth - HorizontalPadding
	title := styles.Truncate(item.Title, textWidth)
	if selected {
		title = styles.TitleStyle.Render(title)
	}
	rating := styles.Rating(item.Rating)
	if rating == "" {
		rating = styles.DimStyle.Render("not rated")
	}

	return style.Width(g.cellWidth - BorderWidth).Render(title + "\n" + rating)
}

func (g FeedGrid) renderPeek(item domain.MediaSummary, width int) string {
	textWidth := width - HorizontalPadding
	maxLines := PeekHeight - 3

	overview := item.Overview
	if overview == "" {
		overview = "No overview available."
	}
	lines := strings.Split(styles.WordWrap(overview, textWidth), "\n")
	if len(lines) > maxLines {
		lines = lines[:maxLines]
		last := len(lines) - 1
		lines[last] = styles.Truncate(lines[last]+" ...", textWidth)
	}

	header := styles.TitleStyle.Render(styles.Truncate(item.Title, textWidth-12))
	if r := styles.Rating(item.Rating); r != "" {
		header += "  " + r
	}

	return styles.PeekStyle.
		Width(width).
		Height(PeekHeight - 2).
		Render(header + "\n" + styles.SubtitleStyle.Render(strings.Join(lines, "\n")))
}

// renderFilterBar renders the filter input bar
func (g FeedGrid) renderFilterBar() string {
	input := g.filterInput.View()
	if g.filterQuery == "" {
		return input
	}
	return input + styles.DimStyle.Render(fmt.Sprintf(" [%d/%d]", g.itemCount(), len(g.items)))
}
