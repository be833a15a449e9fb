package tui

import (
	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/service"
)

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// FeedPageMsg signals that a page request for kind's feed finished.
// Loaded is false when the request was a no-op or was superseded by a reset.
type FeedPageMsg struct {
	Kind   domain.MediaKind
	Loaded bool
	Err    error
}

// DetailLoadedMsg carries the result of a detail fetch
type DetailLoadedMsg struct {
	Key    domain.MediaKey
	Detail *domain.MediaDetail
	Err    error
}

// ExtrasLoadedMsg carries reviews and credits for a title
type ExtrasLoadedMsg struct {
	Key    domain.MediaKey
	Extras service.DetailExtras
}

// SearchChangedMsg signals that the debouncer state changed
type SearchChangedMsg struct{}

// HistoryLoadedMsg carries both history lists
type HistoryLoadedMsg struct {
	Viewed   domain.HistoryList
	Searched domain.HistoryList
}

// TickMsg is a general tick message for animations
type TickMsg struct{}

// ClearStatusMsg clears the status bar message
type ClearStatusMsg struct{}
