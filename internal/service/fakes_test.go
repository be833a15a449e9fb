package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mmcdole/reel/internal/domain"
)

// fakeCatalog is an in-memory domain.CatalogRepository.
// When gate is set, list and search calls signal entered and then block
// until gate is closed or the context ends.
type fakeCatalog struct {
	mu sync.Mutex

	pages       map[int][]domain.MediaSummary
	pageErr     map[int]error
	searchFn    func(query string) ([]domain.MediaSummary, error)
	detail      map[domain.MediaKey]*domain.MediaDetail
	reviewsErr  error
	creditsErr  error
	gate        chan struct{}
	entered     chan struct{}
	listCalls   []int
	searchCalls []string
	detailCalls int
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		pages:   make(map[int][]domain.MediaSummary),
		pageErr: make(map[int]error),
		detail:  make(map[domain.MediaKey]*domain.MediaDetail),
		entered: make(chan struct{}, 16),
	}
}

func (f *fakeCatalog) wait(ctx context.Context) error {
	f.mu.Lock()
	gate := f.gate
	f.mu.Unlock()
	if gate == nil {
		return nil
	}
	f.entered <- struct{}{}
	select {
	case <-gate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *fakeCatalog) ListByCategory(ctx context.Context, kind domain.MediaKind, category domain.Category, page int) ([]domain.MediaSummary, error) {
	f.mu.Lock()
	f.listCalls = append(f.listCalls, page)
	f.mu.Unlock()

	if err := f.wait(ctx); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.pageErr[page]; err != nil {
		delete(f.pageErr, page)
		return nil, err
	}
	return f.pages[page], nil
}

func (f *fakeCatalog) Search(ctx context.Context, kind domain.MediaKind, query string, page int) ([]domain.MediaSummary, error) {
	f.mu.Lock()
	f.searchCalls = append(f.searchCalls, query)
	fn := f.searchFn
	f.mu.Unlock()

	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	if fn != nil {
		return fn(query)
	}
	return []domain.MediaSummary{{ID: 1, Kind: kind, Title: query}}, nil
}

func (f *fakeCatalog) GetDetail(ctx context.Context, kind domain.MediaKind, id int) (*domain.MediaDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.detailCalls++
	d, ok := f.detail[domain.MediaKey{ID: id, Kind: kind}]
	if !ok {
		return nil, &domain.FetchError{StatusCode: 404}
	}
	return d, nil
}

func (f *fakeCatalog) GetReviews(ctx context.Context, kind domain.MediaKind, id int) ([]domain.Review, error) {
	if f.reviewsErr != nil {
		return nil, f.reviewsErr
	}
	return []domain.Review{{ID: "r1", Author: "critic", Content: "good"}}, nil
}

func (f *fakeCatalog) GetCredits(ctx context.Context, kind domain.MediaKind, id int) ([]domain.CastMember, error) {
	if f.creditsErr != nil {
		return nil, f.creditsErr
	}
	return []domain.CastMember{{ID: 1, Name: "Actor", Department: domain.DepartmentActing}}, nil
}

func (f *fakeCatalog) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.listCalls)
}

func (f *fakeCatalog) searches() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.searchCalls...)
}

// makePage builds n movies with ids starting at first
func makePage(first, n int) []domain.MediaSummary {
	out := make([]domain.MediaSummary, n)
	for i := range out {
		id := first + i
		out[i] = domain.MediaSummary{ID: id, Kind: domain.KindMovie, Title: fmt.Sprintf("Movie %d", id)}
	}
	return out
}

// manualClock hands out timers that only fire when told to
type manualClock struct {
	mu     sync.Mutex
	timers []*manualTimer
}

type manualTimer struct {
	mu      sync.Mutex
	delay   time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (c *manualClock) AfterFunc(d time.Duration, f func()) Timer {
	t := &manualTimer{delay: d, f: f}
	c.mu.Lock()
	c.timers = append(c.timers, t)
	c.mu.Unlock()
	return t
}

func (t *manualTimer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

// take marks the timer fired and returns its func, or nil if it was stopped
func (t *manualTimer) take() func() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped || t.fired {
		return nil
	}
	t.fired = true
	return t.f
}

// fireAll synchronously runs every live timer
func (c *manualClock) fireAll() int {
	c.mu.Lock()
	timers := append([]*manualTimer(nil), c.timers...)
	c.mu.Unlock()

	fired := 0
	for _, t := range timers {
		if f := t.take(); f != nil {
			f()
			fired++
		}
	}
	return fired
}

func (c *manualClock) last() *manualTimer {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.timers) == 0 {
		return nil
	}
	return c.timers[len(c.timers)-1]
}

func (c *manualClock) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}
