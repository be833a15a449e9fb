package components

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/service"
	"github.com/mmcdole/reel/internal/tui/styles"
)

// StripHeight is the number of lines the recently viewed strip occupies
const StripHeight = 1

const stripLabel = "Recently viewed "

// RecentStrip is the single-line bar of recently viewed titles on the home screen
type RecentStrip struct {
	entries domain.HistoryList
	cursor  int
	focused bool
	width   int

	now func() time.Time
}

// NewRecentStrip creates an empty strip
func NewRecentStrip() RecentStrip {
	return RecentStrip{now: time.Now}
}

// SetEntries replaces the strip contents, most recent first
func (s *RecentStrip) SetEntries(list domain.HistoryList) {
	s.entries = list
	if s.cursor >= len(list) {
		s.cursor = len(list) - 1
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
}

// Len returns the number of entries
func (s RecentStrip) Len() int {
	return len(s.entries)
}

// SetFocused sets the focus state
func (s *RecentStrip) SetFocused(focused bool) {
	s.focused = focused
	if focused {
		s.cursor = 0
	}
}

// IsFocused returns the focus state
func (s RecentStrip) IsFocused() bool {
	return s.focused
}

// SetSize updates the component width
func (s *RecentStrip) SetSize(width int) {
	s.width = width
}

// Selected returns the highlighted entry, or nil when empty
func (s RecentStrip) Selected() *domain.MediaSummary {
	if len(s.entries) == 0 {
		return nil
	}
	m := s.entries[s.cursor].Summary()
	return &m
}

// Update handles messages
func (s RecentStrip) Update(msg tea.Msg) (RecentStrip, tea.Cmd) {
	if !s.focused {
		return s, nil
	}
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, StripKeys.Left):
			if s.cursor > 0 {
				s.cursor--
			}
		case key.Matches(msg, StripKeys.Right):
			if s.cursor < len(s.entries)-1 {
				s.cursor++
			}
		}
	}
	return s, nil
}

// View renders the component
func (s RecentStrip) View() string {
	if len(s.entries) == 0 {
		return ""
	}

	labelStyle := styles.DimStyle
	if s.focused {
		labelStyle = styles.AccentStyle
	}
	label := labelStyle.Render(stripLabel)

	now := s.now()
	items := make([]string, len(s.entries))
	for i, e := range s.entries {
		text := styles.Truncate(e.Title, 24)
		if when := service.VisitedLabel(e, now); when != "" {
			text += " " + styles.DimStyle.Render(when)
		}
		if s.focused && i == s.cursor {
			items[i] = styles.SelectedItemStyle.Render(text)
		} else {
			items[i] = styles.NormalItemStyle.Render(text)
		}
	}

	// Slide the window right until the cursor fits
	avail := s.width - lipgloss.Width(label)
	start := 0
	for start < s.cursor && lipgloss.Width(strings.Join(items[start:s.cursor+1], "")) > avail {
		start++
	}

	var b strings.Builder
	used := 0
	for _, item := range items[start:] {
		w := lipgloss.Width(item)
		if used+w > avail {
			break
		}
		b.WriteString(item)
		used += w
	}

	return label + b.String()
}
