package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mmcdole/reel/internal/domain"
)

const (
	// DefaultPageSize is the number of items a full catalog page carries
	DefaultPageSize = 20

	// DefaultMaxPage is the highest page the catalog will serve
	DefaultMaxPage = 499
)

// FeedOptions tunes exhaustion detection
type FeedOptions struct {
	PageSize int
	MaxPage  int
}

func (o FeedOptions) withDefaults() FeedOptions {
	if o.PageSize <= 0 {
		o.PageSize = DefaultPageSize
	}
	if o.MaxPage <= 0 {
		o.MaxPage = DefaultMaxPage
	}
	return o
}

// FeedError is a failed page fetch. The feed keeps everything loaded before it.
type FeedError struct {
	Kind     domain.MediaKind
	Category domain.Category
	Page     int
	Err      error
}

func (e *FeedError) Error() string {
	return fmt.Sprintf("loading %s/%s page %d: %v", e.Kind, e.Category, e.Page, e.Err)
}

func (e *FeedError) Unwrap() error {
	return e.Err
}

// Paginator accumulates successive pages of one kind's category listing.
// At most one fetch is outstanding per reset epoch.
type Paginator struct {
	catalog domain.CatalogRepository
	opts    FeedOptions
	logger  *slog.Logger

	mu        sync.Mutex
	kind      domain.MediaKind
	category  domain.Category
	items     []domain.MediaSummary
	seen      map[int]struct{}
	nextPage  int
	exhausted bool
	inFlight  bool
	lastErr   error

	// epoch increments on Reset so late pages from a previous category are dropped
	epoch  uint64
	cancel context.CancelFunc
}

// NewPaginator creates a feed positioned before page 1
func NewPaginator(catalog domain.CatalogRepository, kind domain.MediaKind, category domain.Category, opts FeedOptions, logger *slog.Logger) *Paginator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Paginator{
		catalog:  catalog,
		opts:     opts.withDefaults(),
		logger:   logger,
		kind:     kind,
		category: category,
		seen:     make(map[int]struct{}),
		nextPage: 1,
	}
}

// RequestNextPage fetches the next page and merges it into the feed.
// It returns (false, nil) without calling the catalog when a fetch is already
// in flight or the feed is exhausted, and also when a Reset superseded the
// fetch while it was running. A failed fetch returns *FeedError and leaves
// the feed unchanged apart from clearing the in-flight flag.
func (p *Paginator) RequestNextPage(ctx context.Context) (bool, error) {
	p.mu.Lock()
	if p.inFlight || p.exhausted {
		p.mu.Unlock()
		return false, nil
	}
	p.inFlight = true
	epoch := p.epoch
	kind, category, page := p.kind, p.category, p.nextPage
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.mu.Unlock()
	defer cancel()

	p.logger.Debug("fetching feed page", "kind", kind, "category", category, "page", page)
	items, err := p.catalog.ListByCategory(ctx, kind, category, page)

	p.mu.Lock()
	defer p.mu.Unlock()

	if epoch != p.epoch {
		p.logger.Debug("discarding superseded feed page", "kind", kind, "category", category, "page", page)
		return false, nil
	}
	p.inFlight = false
	p.cancel = nil

	if err != nil {
		fe := &FeedError{Kind: kind, Category: category, Page: page, Err: err}
		p.lastErr = fe
		p.logger.Warn("feed page failed", "error", fe)
		return false, fe
	}
	p.lastErr = nil

	added := 0
	for _, item := range items {
		if _, dup := p.seen[item.ID]; dup {
			continue
		}
		p.seen[item.ID] = struct{}{}
		p.items = append(p.items, item)
		added++
	}

	if len(items) < p.opts.PageSize || page >= p.opts.MaxPage {
		p.exhausted = true
	} else {
		p.nextPage++
	}

	p.logger.Debug("feed page merged",
		"kind", kind, "category", category, "page", page,
		"received", len(items), "added", added, "total", len(p.items), "exhausted", p.exhausted)
	return true, nil
}

// Reset empties the feed and points it at category. A fetch still running
// for the previous epoch is cancelled and its result discarded.
func (p *Paginator) Reset(category domain.Category) error {
	if err := domain.CheckCategory(p.kind, category); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.epoch++
	p.category = category
	p.items = nil
	p.seen = make(map[int]struct{})
	p.nextPage = 1
	p.exhausted = false
	p.inFlight = false
	p.lastErr = nil
	return nil
}

// State returns a snapshot. The Items slice is a copy.
func (p *Paginator) State() domain.FeedState {
	p.mu.Lock()
	defer p.mu.Unlock()

	items := make([]domain.MediaSummary, len(p.items))
	copy(items, p.items)
	return domain.FeedState{
		Kind:          p.kind,
		Category:      p.category,
		Items:         items,
		NextPage:      p.nextPage,
		Exhausted:     p.exhausted,
		FetchInFlight: p.inFlight,
		Err:           p.lastErr,
	}
}

// Kind returns the media kind this feed lists
func (p *Paginator) Kind() domain.MediaKind {
	return p.kind
}

// Category returns the current category
func (p *Paginator) Category() domain.Category {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.category
}
