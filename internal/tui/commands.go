package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/service"
)

const requestTimeout = 30 * time.Second

// Command factories for async operations

// LoadNextPageCmd requests the next page of a feed
func LoadNextPageCmd(feed *service.Paginator) tea.Cmd {
	kind := feed.Kind()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		loaded, err := feed.RequestNextPage(ctx)
		return FeedPageMsg{Kind: kind, Loaded: loaded, Err: err}
	}
}

// LoadDetailCmd loads the full record for a title (recording the view on success)
func LoadDetailCmd(svc *service.DetailService, key domain.MediaKey) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		detail, err := svc.Load(ctx, key)
		return DetailLoadedMsg{Key: key, Detail: detail, Err: err}
	}
}

// LoadExtrasCmd loads reviews and credits for a title
func LoadExtrasCmd(svc *service.DetailService, key domain.MediaKey) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		return ExtrasLoadedMsg{Key: key, Extras: svc.Extras(ctx, key)}
	}
}

// WaitForSearchCmd blocks until the debouncer signals a change.
// Returns nil once the debouncer is closed.
func WaitForSearchCmd(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return SearchChangedMsg{}
	}
}

// LoadHistoryCmd reads both history lists
func LoadHistoryCmd(svc *service.HistoryService) tea.Cmd {
	return func() tea.Msg {
		return HistoryLoadedMsg{
			Viewed:   svc.Recent(domain.HistoryViewed),
			Searched: svc.Recent(domain.HistorySearched),
		}
	}
}

// RecordSearchedCmd remembers an opened search result and reloads history
func RecordSearchedCmd(svc *service.HistoryService, m domain.MediaSummary) tea.Cmd {
	return func() tea.Msg {
		if err := svc.RecordSearched(m); err != nil {
			return ErrMsg{Err: err, Context: "saving search history"}
		}
		return HistoryLoadedMsg{
			Viewed:   svc.Recent(domain.HistoryViewed),
			Searched: svc.Recent(domain.HistorySearched),
		}
	}
}

// TickCmd returns a command that sends a tick after a delay
func TickCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return TickMsg{}
	})
}

// ClearStatusCmd returns a command that clears status after a delay
func ClearStatusCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
