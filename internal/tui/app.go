package tui

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/service"
	"github.com/mmcdole/reel/internal/tui/components"
)

// ApplicationState represents the current state of the application
type ApplicationState int

const (
	StateBrowsing ApplicationState = iota
	StateDetail
	StateHelp
)

// Vertical chrome: tab bar on top, status line at the bottom
const (
	HeaderHeight = 1
	ChromeHeight = 1
)

const tickInterval = 100 * time.Millisecond

// Services bundles what the browser talks to
type Services struct {
	Feeds   map[domain.MediaKind]*service.Paginator
	Search  *service.Debouncer
	Detail  *service.DetailService
	History *service.HistoryService
}

// Options holds UI settings
type Options struct {
	Kind           domain.MediaKind
	ImageBaseURL   string
	CellWidth      int
	ShowPeek       bool
	PrefetchRows   int
	MinQueryLength int
}

// Model is the main Bubble Tea model for the application
type Model struct {
	// Application state
	State       ApplicationState
	returnState ApplicationState
	Ready       bool

	// Services
	Feeds      map[domain.MediaKind]*service.Paginator
	Search     *service.Debouncer
	DetailSvc  *service.DetailService
	HistorySvc *service.HistoryService

	// UI Components
	Grid        components.FeedGrid
	Strip       components.RecentStrip
	Detail      components.DetailView
	SearchModal components.SearchModal

	kind    domain.MediaKind
	cursors map[domain.MediaKind]int
	opts    Options

	// Dimensions
	Width  int
	Height int

	// UI state
	StatusMsg    string
	StatusIsErr  bool
	SpinnerFrame int

	logger *slog.Logger
}

// NewModel creates a new application model
func NewModel(svc Services, opts Options, logger *slog.Logger) Model {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Kind == "" {
		opts.Kind = domain.KindMovie
	}
	if opts.PrefetchRows < 0 {
		opts.PrefetchRows = 0
	}

	m := Model{
		State:       StateBrowsing,
		Feeds:       svc.Feeds,
		Search:      svc.Search,
		DetailSvc:   svc.Detail,
		HistorySvc:  svc.History,
		Grid:        components.NewFeedGrid(opts.CellWidth, opts.ShowPeek),
		Strip:       components.NewRecentStrip(),
		Detail:      components.NewDetailView(opts.ImageBaseURL),
		SearchModal: components.NewSearchModal(opts.MinQueryLength),
		kind:        opts.Kind,
		cursors:     make(map[domain.MediaKind]int),
		opts:        opts,
		logger:      logger,
	}
	m.Grid.SetFocused(true)
	m.Grid.SetBreadcrumb(m.breadcrumb())
	return m
}

// Kind returns the media kind of the active tab
func (m Model) Kind() domain.MediaKind {
	return m.kind
}

// feed returns the paginator behind the active tab
func (m Model) feed() *service.Paginator {
	return m.Feeds[m.kind]
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		LoadHistoryCmd(m.HistorySvc),
		WaitForSearchCmd(m.Search.Subscribe()),
		TickCmd(tickInterval),
	}
	if feed := m.feed(); feed != nil {
		cmds = append(cmds, LoadNextPageCmd(feed))
	}
	return tea.Batch(cmds...)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.updateLayout()
		// A taller window may show rows past the loaded items
		return m, m.loadMore()

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case TickMsg:
		m.SpinnerFrame++
		m.Grid.SetSpinnerFrame(m.SpinnerFrame)
		m.Detail.SetSpinnerFrame(m.SpinnerFrame)
		m.SearchModal.SetSpinnerFrame(m.SpinnerFrame)
		return m, TickCmd(tickInterval)

	case FeedPageMsg:
		if msg.Err != nil {
			m.logger.Warn("feed page failed", "kind", msg.Kind, "error", msg.Err)
			if errors.Is(msg.Err, domain.ErrUnauthorized) {
				m.setStatus("Catalog token rejected, update catalog.token in your config", true)
			}
		}
		if msg.Kind != m.kind {
			return m, nil
		}
		m.refreshGrid()
		return m, m.loadMore()

	case DetailLoadedMsg:
		if msg.Key == m.Detail.Key() {
			m.Detail.SetDetail(msg.Detail, msg.Err)
		}
		if msg.Err != nil {
			m.logger.Warn("detail load failed", "key", msg.Key.String(), "error", msg.Err)
			return m, nil
		}
		// The view was recorded by the detail service
		return m, LoadHistoryCmd(m.HistorySvc)

	case ExtrasLoadedMsg:
		if msg.Key == m.Detail.Key() {
			m.Detail.SetExtras(msg.Extras)
		}
		return m, nil

	case SearchChangedMsg:
		m.SearchModal.SetSnapshot(m.Search.Snapshot())
		return m, WaitForSearchCmd(m.Search.Subscribe())

	case HistoryLoadedMsg:
		m.Strip.SetEntries(msg.Viewed)
		m.SearchModal.SetRecent(msg.Searched)
		if m.Strip.Len() == 0 && m.Strip.IsFocused() {
			m.focusGrid()
		}
		m.updateLayout()
		return m, nil

	case ErrMsg:
		m.logger.Error(msg.Error())
		m.setStatus(msg.Error(), true)
		return m, ClearStatusCmd(5 * time.Second)

	case ClearStatusMsg:
		m.StatusMsg = ""
		m.StatusIsErr = false
		return m, nil
	}

	// Route other messages (cursor blink) to whichever input is focused
	var cmd tea.Cmd
	switch {
	case m.SearchModal.IsVisible():
		m.SearchModal, cmd, _ = m.SearchModal.Update(msg)
	case m.Grid.IsFilterTyping():
		m.Grid, cmd = m.Grid.Update(msg)
	}
	return m, cmd
}

// updateLayout recalculates component sizes
func (m *Model) updateLayout() {
	if !m.Ready {
		return
	}
	stripHeight := 0
	if m.Strip.Len() > 0 {
		stripHeight = components.StripHeight
	}

	m.Strip.SetSize(m.Width)
	m.Grid.SetSize(m.Width, m.Height-HeaderHeight-ChromeHeight-stripHeight)
	m.Detail.SetSize(m.Width, m.Height-HeaderHeight-ChromeHeight)
	m.SearchModal.SetSize(m.Width, m.Height)
}

// refreshGrid pulls the latest state of the active feed into the grid
func (m *Model) refreshGrid() {
	if feed := m.feed(); feed != nil {
		m.Grid.SetFeed(feed.State())
	}
	m.Grid.SetBreadcrumb(m.breadcrumb())
}

// loadMore requests the next page when the cursor is near the end of the feed
func (m *Model) loadMore() tea.Cmd {
	feed := m.feed()
	if feed == nil || m.State != StateBrowsing {
		return nil
	}
	if !m.Grid.NeedsMore(m.opts.PrefetchRows) {
		return nil
	}
	m.Grid.MarkLoading()
	return LoadNextPageCmd(feed)
}

// retryFeed re-requests the page that failed
func (m *Model) retryFeed() tea.Cmd {
	feed := m.feed()
	if feed == nil || feed.State().Err == nil {
		return nil
	}
	m.Grid.MarkLoading()
	return LoadNextPageCmd(feed)
}

// switchKind moves to another tab, restoring its cursor
func (m *Model) switchKind(kind domain.MediaKind) tea.Cmd {
	if kind == m.kind || m.Feeds[kind] == nil {
		return nil
	}
	m.cursors[m.kind] = m.Grid.Cursor()
	m.kind = kind

	m.Grid.Reset()
	m.refreshGrid()
	m.Grid.SetCursor(m.cursors[kind])
	return m.loadMore()
}

// nextCategory cycles the active feed to its next category
func (m *Model) nextCategory() tea.Cmd {
	feed := m.feed()
	if feed == nil {
		return nil
	}
	next := domain.NextCategory(m.kind, feed.Category())
	if err := feed.Reset(next); err != nil {
		m.setStatus(err.Error(), true)
		return ClearStatusCmd(3 * time.Second)
	}

	m.Grid.Reset()
	m.refreshGrid()
	return m.loadMore()
}

// openDetail switches to the detail view and starts both fetches
func (m *Model) openDetail(summary domain.MediaSummary) tea.Cmd {
	m.State = StateDetail
	m.Detail.Open(summary)
	key := summary.Key()
	return tea.Batch(
		LoadDetailCmd(m.DetailSvc, key),
		LoadExtrasCmd(m.DetailSvc, key),
	)
}

// retryDetail re-runs whichever detail fetch failed
func (m *Model) retryDetail() tea.Cmd {
	key := m.Detail.Key()
	var cmds []tea.Cmd
	if m.Detail.Failed() {
		m.DetailSvc.Invalidate(key)
		m.Detail.SetLoading()
		cmds = append(cmds, LoadDetailCmd(m.DetailSvc, key))
	}
	if m.Detail.ExtrasFailed() {
		m.Detail.SetExtrasLoading()
		cmds = append(cmds, LoadExtrasCmd(m.DetailSvc, key))
	}
	return tea.Batch(cmds...)
}

// openSearch shows the search modal with a fresh query
func (m *Model) openSearch() tea.Cmd {
	m.SearchModal.Show(m.kind)
	m.SearchModal.SetSize(m.Width, m.Height)
	m.Search.SetQuery("", m.kind)
	m.SearchModal.SetSnapshot(m.Search.Snapshot())
	return m.SearchModal.Init()
}

func (m *Model) focusGrid() {
	m.Strip.SetFocused(false)
	m.Grid.SetFocused(true)
}

func (m *Model) focusStrip() {
	if m.Strip.Len() == 0 {
		return
	}
	m.Grid.SetFocused(false)
	m.Strip.SetFocused(true)
}

func (m *Model) setStatus(msg string, isErr bool) {
	m.StatusMsg = msg
	m.StatusIsErr = isErr
}

// breadcrumb describes the active feed, e.g. "Movies > Popular · 40 titles"
func (m Model) breadcrumb() string {
	feed := m.feed()
	if feed == nil {
		return m.kind.Label()
	}
	crumb := fmt.Sprintf("%s > %s", m.kind.Label(), feed.Category().Label())
	if n := len(feed.State().Items); n > 0 {
		crumb += fmt.Sprintf(" · %s titles", humanize.Comma(int64(n)))
	}
	return crumb
}
