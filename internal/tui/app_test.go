package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/service"
	"github.com/mmcdole/reel/internal/store"
)

// stubCatalog serves a single short page per kind, so feeds exhaust after one fetch
type stubCatalog struct {
	mu      sync.Mutex
	failNow map[domain.MediaKind]error
}

func (c *stubCatalog) failNext(kind domain.MediaKind, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failNow == nil {
		c.failNow = make(map[domain.MediaKind]error)
	}
	c.failNow[kind] = err
}

func (c *stubCatalog) ListByCategory(ctx context.Context, kind domain.MediaKind, category domain.Category, page int) ([]domain.MediaSummary, error) {
	c.mu.Lock()
	if err := c.failNow[kind]; err != nil {
		delete(c.failNow, kind)
		c.mu.Unlock()
		return nil, err
	}
	c.mu.Unlock()

	if page > 1 {
		return nil, nil
	}
	base := 100
	if kind == domain.KindTV {
		base = 200
	}
	items := make([]domain.MediaSummary, 5)
	for i := range items {
		items[i] = domain.MediaSummary{
			ID:    base + i,
			Kind:  kind,
			Title: fmt.Sprintf("%s %s %d", kind.Label(), category.Label(), i),
		}
	}
	return items, nil
}

func (c *stubCatalog) Search(ctx context.Context, kind domain.MediaKind, query string, page int) ([]domain.MediaSummary, error) {
	return []domain.MediaSummary{{ID: 900, Kind: kind, Title: query + " result"}}, nil
}

func (c *stubCatalog) GetDetail(ctx context.Context, kind domain.MediaKind, id int) (*domain.MediaDetail, error) {
	if id == 404 {
		return nil, &domain.FetchError{StatusCode: 404}
	}
	return &domain.MediaDetail{MediaSummary: domain.MediaSummary{ID: id, Kind: kind, Title: fmt.Sprintf("Title %d", id)}}, nil
}

func (c *stubCatalog) GetReviews(ctx context.Context, kind domain.MediaKind, id int) ([]domain.Review, error) {
	return nil, nil
}

func (c *stubCatalog) GetCredits(ctx context.Context, kind domain.MediaKind, id int) ([]domain.CastMember, error) {
	return nil, nil
}

func newTestModel(t *testing.T) (Model, *stubCatalog) {
	t.Helper()

	catalog := &stubCatalog{}
	blobs, err := store.Open("")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { blobs.Close() })

	repo := store.NewHistoryStore(blobs, map[domain.HistoryKind]string{
		domain.HistoryViewed:   "viewed",
		domain.HistorySearched: "searched",
	}, 10, nil)
	history := service.NewHistoryService(repo, nil)

	search := service.NewDebouncer(catalog, service.SearchOptions{Delay: time.Millisecond}, nil)
	t.Cleanup(search.Close)

	m := NewModel(Services{
		Feeds: map[domain.MediaKind]*service.Paginator{
			domain.KindMovie: service.NewPaginator(catalog, domain.KindMovie, domain.CategoryPopular, service.FeedOptions{}, nil),
			domain.KindTV:    service.NewPaginator(catalog, domain.KindTV, domain.CategoryPopular, service.FeedOptions{}, nil),
		},
		Search:  search,
		Detail:  service.NewDetailService(catalog, history, nil),
		History: history,
	}, Options{Kind: domain.KindMovie, CellWidth: 20, ShowPeek: true, PrefetchRows: 1}, nil)

	return m, catalog
}

// drain runs cmd and any batched commands, collecting their messages
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, drain(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// send delivers msg and then every message its command produces
func send(m Model, msg tea.Msg) Model {
	next, cmd := m.Update(msg)
	m = next.(Model)
	for _, out := range drain(cmd) {
		m = send(m, out)
	}
	return m
}

func press(m Model, k string) (Model, tea.Cmd) {
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
	return next.(Model), cmd
}

func TestModelLoadsFirstPageOnResize(t *testing.T) {
	m, _ := newTestModel(t)
	m = send(m, tea.WindowSizeMsg{Width: 86, Height: 40})

	sel := m.Grid.Selected()
	if sel == nil || sel.ID != 100 {
		t.Fatalf("expected first movie selected, got %+v", sel)
	}
	if !m.Feeds[domain.KindMovie].State().Exhausted {
		t.Fatal("short page should exhaust the feed")
	}
	if !strings.Contains(m.View(), "Movies > Popular") {
		t.Fatal("expected breadcrumb for the active feed")
	}
}

func TestModelSwitchKindKeepsCursorPerTab(t *testing.T) {
	m, _ := newTestModel(t)
	m = send(m, tea.WindowSizeMsg{Width: 86, Height: 40})

	m, _ = press(m, "l")
	m, _ = press(m, "l")

	m, cmd := press(m, "2")
	if m.Kind() != domain.KindTV {
		t.Fatalf("expected TV tab, got %s", m.Kind())
	}
	for _, msg := range drain(cmd) {
		m = send(m, msg)
	}
	if sel := m.Grid.Selected(); sel == nil || sel.Kind != domain.KindTV || sel.ID != 200 {
		t.Fatalf("expected first show selected, got %+v", sel)
	}

	m, cmd = press(m, "1")
	if cmd != nil {
		t.Fatal("movie feed is already loaded and exhausted")
	}
	if sel := m.Grid.Selected(); sel == nil || sel.ID != 102 {
		t.Fatalf("expected movie cursor restored, got %+v", sel)
	}
}

func TestModelCategoryCycle(t *testing.T) {
	m, _ := newTestModel(t)
	m = send(m, tea.WindowSizeMsg{Width: 86, Height: 40})

	m, cmd := press(m, "c")
	want := domain.NextCategory(domain.KindMovie, domain.CategoryPopular)
	if got := m.Feeds[domain.KindMovie].Category(); got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
	if cmd == nil {
		t.Fatal("expected the new category's first page to load")
	}
	for _, msg := range drain(cmd) {
		m = send(m, msg)
	}
	if sel := m.Grid.Selected(); sel == nil || !strings.Contains(sel.Title, want.Label()) {
		t.Fatalf("expected a %s title, got %+v", want.Label(), sel)
	}
}

func TestModelRetryFailedPage(t *testing.T) {
	m, catalog := newTestModel(t)
	catalog.failNext(domain.KindMovie, errors.New("connection reset"))
	m = send(m, tea.WindowSizeMsg{Width: 86, Height: 40})

	if !m.Grid.IsEmpty() {
		t.Fatal("failed first page should leave the grid empty")
	}
	if !strings.Contains(m.View(), "press r to retry") {
		t.Fatal("expected retry hint")
	}

	m, cmd := press(m, "r")
	for _, msg := range drain(cmd) {
		m = send(m, msg)
	}
	if m.Grid.IsEmpty() {
		t.Fatal("retry should load the page")
	}
}

func TestModelOpenDetailRecordsView(t *testing.T) {
	m, _ := newTestModel(t)
	m = send(m, tea.WindowSizeMsg{Width: 86, Height: 40})

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	if m.State != StateDetail {
		t.Fatal("enter should open the detail view")
	}
	for _, msg := range drain(cmd) {
		m = send(m, msg)
	}

	if !strings.Contains(m.View(), "Title 100") {
		t.Fatal("expected detail title")
	}
	if m.Strip.Len() != 1 {
		t.Fatalf("expected one recently viewed entry, got %d", m.Strip.Len())
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(Model)
	if m.State != StateBrowsing {
		t.Fatal("esc should return to the grid")
	}
	if !strings.Contains(m.View(), "Recently viewed") {
		t.Fatal("expected recently viewed strip on the home screen")
	}
}

func TestModelDetailNotFound(t *testing.T) {
	m, _ := newTestModel(t)
	m = send(m, tea.WindowSizeMsg{Width: 86, Height: 40})

	cmd := m.openDetail(domain.MediaSummary{ID: 404, Kind: domain.KindMovie, Title: "Gone"})
	for _, msg := range drain(cmd) {
		m = send(m, msg)
	}

	if !m.Detail.NotFound() {
		t.Fatal("expected not-found state")
	}
	if !strings.Contains(m.View(), "could not be found") {
		t.Fatal("expected not-found message")
	}
	if m.Strip.Len() != 0 {
		t.Fatal("a missing title should not be recorded")
	}
}

func TestModelSearchSelectRecordsSearch(t *testing.T) {
	m, _ := newTestModel(t)
	m = send(m, tea.WindowSizeMsg{Width: 86, Height: 40})

	m, _ = press(m, "s")
	if !m.SearchModal.IsVisible() {
		t.Fatal("s should open search")
	}
	m, _ = press(m, "alien")

	deadline := time.After(2 * time.Second)
	for m.Search.Snapshot().Status != service.SearchDone {
		select {
		case <-m.Search.Subscribe():
		case <-time.After(10 * time.Millisecond):
		case <-deadline:
			t.Fatalf("search did not finish: %+v", m.Search.Snapshot())
		}
	}
	next, _ := m.Update(SearchChangedMsg{})
	m = next.(Model)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	if m.SearchModal.IsVisible() || m.State != StateDetail {
		t.Fatal("selecting a result should close search and open the detail view")
	}
	for _, msg := range drain(cmd) {
		m = send(m, msg)
	}

	searched := m.HistorySvc.Recent(domain.HistorySearched)
	if len(searched) != 1 || searched[0].Title != "alien result" {
		t.Fatalf("expected searched history, got %+v", searched)
	}
	if m.Search.Snapshot().Query != "" {
		t.Fatal("closing search should clear the query")
	}
}

func TestModelHelpToggle(t *testing.T) {
	m, _ := newTestModel(t)
	m = send(m, tea.WindowSizeMsg{Width: 86, Height: 40})

	m, _ = press(m, "?")
	if m.State != StateHelp || !strings.Contains(m.View(), "BROWSE") {
		t.Fatal("expected help screen")
	}
	m, _ = press(m, "?")
	if m.State != StateBrowsing {
		t.Fatal("expected help to close")
	}
}
