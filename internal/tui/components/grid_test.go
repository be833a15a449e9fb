package components

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/reel/internal/domain"
)

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func movies(n int) []domain.MediaSummary {
	out := make([]domain.MediaSummary, n)
	for i := range out {
		out[i] = domain.MediaSummary{
			ID:       i + 1,
			Kind:     domain.KindMovie,
			Title:    fmt.Sprintf("Movie %d", i),
			Overview: fmt.Sprintf("Overview of movie %d", i),
			Rating:   7.5,
		}
	}
	return out
}

// newTestGrid returns a focused grid four cells wide
func newTestGrid(items []domain.MediaSummary) FeedGrid {
	g := NewFeedGrid(20, true)
	g.SetSize(86, 40)
	g.SetFocused(true)
	g.SetFeed(domain.FeedState{Items: items, NextPage: 2})
	return g
}

func TestFeedGridColumns(t *testing.T) {
	g := newTestGrid(nil)
	if g.Columns() != 4 {
		t.Fatalf("expected 4 columns, got %d", g.Columns())
	}
}

func TestFeedGridNavigation(t *testing.T) {
	g := newTestGrid(movies(10))

	steps := []struct {
		key  tea.KeyMsg
		want int
	}{
		{runeKey("h"), 0},
		{runeKey("l"), 1},
		{tea.KeyMsg{Type: tea.KeyDown}, 5},
		{runeKey("j"), 9},
		{runeKey("j"), 9},
		{runeKey("k"), 5},
		{runeKey("G"), 9},
		{runeKey("g"), 0},
	}
	for i, step := range steps {
		g, _ = g.Update(step.key)
		if g.Cursor() != step.want {
			t.Fatalf("step %d (%s): expected cursor %d, got %d", i, step.key, step.want, g.Cursor())
		}
	}
}

func TestFeedGridDownOntoShortLastRow(t *testing.T) {
	g := newTestGrid(movies(10))
	g.SetCursor(7)
	g, _ = g.Update(runeKey("j"))
	if g.Cursor() != 9 {
		t.Fatalf("expected cursor on last item, got %d", g.Cursor())
	}
}

func TestFeedGridSetFeedKeepsCursor(t *testing.T) {
	items := movies(16)
	g := newTestGrid(items[:8])
	g.SetCursor(6)

	g.SetFeed(domain.FeedState{Items: items, NextPage: 3})
	if g.Cursor() != 6 {
		t.Fatalf("appending a page moved the cursor to %d", g.Cursor())
	}
	if sel := g.Selected(); sel == nil || sel.ID != 7 {
		t.Fatalf("unexpected selection: %+v", sel)
	}
}

func TestFeedGridNeedsMore(t *testing.T) {
	g := newTestGrid(movies(8)) // two rows

	if !g.NeedsMore(1) {
		t.Fatal("first row is within one row of the end")
	}
	if g.NeedsMore(0) {
		t.Fatal("first row is not the last row")
	}

	g.MarkLoading()
	if g.NeedsMore(5) {
		t.Fatal("should not request while a fetch is in flight")
	}

	g.SetFeed(domain.FeedState{Items: movies(8), Exhausted: true})
	if g.NeedsMore(5) {
		t.Fatal("should not request past the end of the feed")
	}

	g.SetFeed(domain.FeedState{Items: movies(8), Err: errors.New("boom")})
	if g.NeedsMore(5) {
		t.Fatal("should wait for an explicit retry after a failure")
	}

	empty := newTestGrid(nil)
	if !empty.NeedsMore(0) {
		t.Fatal("an empty feed should request its first page")
	}
}

func TestFeedGridFilter(t *testing.T) {
	items := []domain.MediaSummary{
		{ID: 1, Title: "Alien"},
		{ID: 2, Title: "Aliens"},
		{ID: 3, Title: "Dune"},
		{ID: 4, Title: "Arrival"},
	}
	g := newTestGrid(items)

	g.ToggleFilter()
	if !g.IsFilterTyping() {
		t.Fatal("expected filter input focused")
	}
	g, _ = g.Update(runeKey("dune"))

	if sel := g.Selected(); sel == nil || sel.ID != 3 {
		t.Fatalf("expected Dune selected, got %+v", sel)
	}
	if !strings.Contains(g.View(), "[1/4]") {
		t.Fatal("expected match count in filter bar")
	}
	if g.NeedsMore(5) {
		t.Fatal("filtering should suspend loading")
	}

	// Accept, then clear; the selection survives
	g, _ = g.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if g.IsFilterTyping() || !g.IsFiltering() {
		t.Fatal("enter should keep the filter but leave typing mode")
	}
	g, _ = g.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if g.IsFiltering() {
		t.Fatal("esc should clear the filter")
	}
	if sel := g.Selected(); sel == nil || sel.ID != 3 {
		t.Fatalf("expected Dune still selected, got %+v", sel)
	}
}

func TestFeedGridEmptyStates(t *testing.T) {
	g := newTestGrid(nil)
	if !strings.Contains(g.View(), "Loading...") {
		t.Fatal("unfetched feed should render as loading")
	}

	g.SetFeed(domain.FeedState{Exhausted: true})
	view := g.View()
	if !strings.Contains(view, "Nothing here") || strings.Contains(view, "Loading") {
		t.Fatalf("exhausted empty feed should render as empty:\n%s", view)
	}

	g.SetFeed(domain.FeedState{Err: errors.New("boom")})
	view = g.View()
	if !strings.Contains(view, "boom") || !strings.Contains(view, "press r to retry") {
		t.Fatalf("failed feed should render the error and retry hint:\n%s", view)
	}
}

func TestFeedGridPeekFollowsSelectedRow(t *testing.T) {
	g := newTestGrid(movies(6))

	g.SetCursor(1)
	view := g.View()
	peek := strings.Index(view, "Overview of movie 1")
	if peek < 0 {
		t.Fatalf("expected peek panel for the selected item:\n%s", view)
	}
	if peek < strings.Index(view, "Movie 3") || peek > strings.Index(view, "Movie 4") {
		t.Fatal("peek panel should sit between the first and second rows")
	}

	g.SetCursor(5)
	view = g.View()
	peek = strings.Index(view, "Overview of movie 5")
	if peek < strings.Index(view, "Movie 5") {
		t.Fatal("peek panel should follow the selected item's row")
	}
	if strings.Contains(view, "Overview of movie 1") {
		t.Fatal("only the selected item is peeked")
	}
}
