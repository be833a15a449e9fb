package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/tui/components"
)

// handleKeyMsg handles keyboard input
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.State == StateHelp {
		if key.Matches(msg, Keys.Escape, Keys.Help, Keys.Quit) {
			m.State = m.returnState
		}
		return m, nil
	}

	// Modal and filter input take every key
	if m.SearchModal.IsVisible() {
		return m.handleSearchKey(msg)
	}
	if m.State == StateBrowsing && m.Grid.IsFilterTyping() {
		var cmd tea.Cmd
		m.Grid, cmd = m.Grid.Update(msg)
		return m, cmd
	}

	// Global keys
	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, Keys.Help):
		m.returnState = m.State
		m.State = StateHelp
		return m, nil

	case key.Matches(msg, Keys.Search):
		return m, m.openSearch()
	}

	if m.State == StateDetail {
		return m.handleDetailKey(msg)
	}
	return m.handleBrowseKey(msg)
}

// handleBrowseKey handles keys on the home screen
func (m Model) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Escape):
		if m.Strip.IsFocused() {
			m.focusGrid()
			return m, nil
		}
		if m.Grid.IsFiltering() {
			var cmd tea.Cmd
			m.Grid, cmd = m.Grid.Update(msg)
			return m, tea.Batch(cmd, m.loadMore())
		}
		return m, nil

	case key.Matches(msg, Keys.Filter):
		m.focusGrid()
		if m.Grid.IsFiltering() {
			// Re-focus the existing filter input
			var cmd tea.Cmd
			m.Grid, cmd = m.Grid.Update(msg)
			return m, cmd
		}
		m.Grid.ToggleFilter()
		return m, nil

	case key.Matches(msg, Keys.NextKind):
		next := domain.KindTV
		if m.kind == domain.KindTV {
			next = domain.KindMovie
		}
		return m, m.switchKind(next)

	case key.Matches(msg, Keys.Movies):
		return m, m.switchKind(domain.KindMovie)

	case key.Matches(msg, Keys.TV):
		return m, m.switchKind(domain.KindTV)

	case key.Matches(msg, Keys.Category):
		return m, m.nextCategory()

	case key.Matches(msg, Keys.Recent):
		if m.Strip.IsFocused() {
			m.focusGrid()
		} else {
			m.focusStrip()
		}
		return m, nil

	case key.Matches(msg, Keys.Retry):
		return m, m.retryFeed()

	case key.Matches(msg, Keys.Enter):
		return m.handleEnter()
	}

	var cmd tea.Cmd
	if m.Strip.IsFocused() {
		m.Strip, cmd = m.Strip.Update(msg)
		return m, cmd
	}
	m.Grid, cmd = m.Grid.Update(msg)
	return m, tea.Batch(cmd, m.loadMore())
}

// handleEnter opens the selected title from the strip or the grid
func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	var selected *domain.MediaSummary
	if m.Strip.IsFocused() {
		selected = m.Strip.Selected()
	} else {
		selected = m.Grid.Selected()
	}
	if selected == nil {
		return m, nil
	}
	return m, m.openDetail(*selected)
}

// handleDetailKey handles keys in the detail view
func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Back):
		m.State = StateBrowsing
		return m, m.loadMore()

	case key.Matches(msg, Keys.Retry):
		return m, m.retryDetail()
	}

	// Everything else scrolls the body
	var cmd tea.Cmd
	m.Detail, cmd = m.Detail.Update(msg)
	return m, cmd
}

// handleSearchKey routes keys to the search modal and acts on the result
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var action components.SearchAction
	m.SearchModal, cmd, action = m.SearchModal.Update(msg)

	if !m.SearchModal.IsVisible() {
		// Closing drops any pending or in-flight search
		m.Search.SetQuery("", m.SearchModal.Kind())
		return m, cmd
	}

	switch action {
	case components.SearchActionQuery:
		m.Search.SetQuery(m.SearchModal.Query(), m.SearchModal.Kind())
		m.SearchModal.SetSnapshot(m.Search.Snapshot())

	case components.SearchActionRetry:
		m.Search.Retry()
		m.SearchModal.SetSnapshot(m.Search.Snapshot())

	case components.SearchActionSelect:
		selected := m.SearchModal.SelectedResult()
		if selected == nil {
			return m, cmd
		}
		m.SearchModal.Hide()
		m.Search.SetQuery("", m.SearchModal.Kind())
		return m, tea.Batch(
			cmd,
			m.openDetail(*selected),
			RecordSearchedCmd(m.HistorySvc, *selected),
		)
	}
	return m, cmd
}
