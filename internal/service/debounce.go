package service

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/mmcdole/reel/internal/domain"
)

const (
	DefaultSearchDelay    = 300 * time.Millisecond
	DefaultMinQueryLength = 3
)

// SearchStatus is the lifecycle of the current query
type SearchStatus int

const (
	SearchIdle     SearchStatus = iota // empty query
	SearchTooShort                     // below the minimum length, no call made
	SearchPending                      // waiting for input to settle
	SearchLoading                      // request in flight
	SearchDone                         // request succeeded, possibly with zero results
	SearchFailed                       // request failed, Err is set
)

func (s SearchStatus) String() string {
	switch s {
	case SearchIdle:
		return "idle"
	case SearchTooShort:
		return "too short"
	case SearchPending:
		return "pending"
	case SearchLoading:
		return "loading"
	case SearchDone:
		return "done"
	case SearchFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Timer is the part of *time.Timer the debouncer uses
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f to run after d
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// SearchOptions tunes the debouncer
type SearchOptions struct {
	Delay          time.Duration
	MinQueryLength int

	// AfterFunc overrides the timer source (tests)
	AfterFunc AfterFunc
}

// SearchSnapshot is the observable state of the debouncer
type SearchSnapshot struct {
	Query      string
	Kind       domain.MediaKind
	Status     SearchStatus
	Results    []domain.MediaSummary
	Err        error
	Generation uint64
}

// Debouncer turns a stream of query edits into at most one catalog search
// per settled query. Only the most recently scheduled search may publish.
type Debouncer struct {
	catalog   domain.CatalogRepository
	delay     time.Duration
	minLen    int
	afterFunc AfterFunc
	logger    *slog.Logger

	mu     sync.Mutex
	gen    uint64
	timer  Timer
	cancel context.CancelFunc
	snap   SearchSnapshot
	closed bool

	// notify is a size-1 coalescing change signal
	notify chan struct{}
}

// NewDebouncer creates an idle debouncer
func NewDebouncer(catalog domain.CatalogRepository, opts SearchOptions, logger *slog.Logger) *Debouncer {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Delay <= 0 {
		opts.Delay = DefaultSearchDelay
	}
	if opts.MinQueryLength <= 0 {
		opts.MinQueryLength = DefaultMinQueryLength
	}
	if opts.AfterFunc == nil {
		opts.AfterFunc = realAfterFunc
	}
	return &Debouncer{
		catalog:   catalog,
		delay:     opts.Delay,
		minLen:    opts.MinQueryLength,
		afterFunc: opts.AfterFunc,
		logger:    logger,
		notify:    make(chan struct{}, 1),
	}
}

// SetQuery records a new query or kind. Any pending search is cancelled and
// results are cleared immediately; a new search is scheduled only when the
// trimmed query is long enough.
func (d *Debouncer) SetQuery(query string, kind domain.MediaKind) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}

	d.gen++
	d.stopLocked()

	d.snap = SearchSnapshot{Query: query, Kind: kind, Generation: d.gen}
	trimmed := strings.TrimSpace(query)
	switch {
	case trimmed == "":
		d.snap.Status = SearchIdle
	case utf8.RuneCountInString(trimmed) < d.minLen:
		d.snap.Status = SearchTooShort
	default:
		d.snap.Status = SearchPending
		gen := d.gen
		d.timer = d.afterFunc(d.delay, func() { d.fire(gen, trimmed, kind) })
	}
	d.signalLocked()
}

// Retry reschedules the current query after a failed or finished search
func (d *Debouncer) Retry() {
	d.mu.Lock()
	snap := d.snap
	d.mu.Unlock()
	if snap.Status != SearchFailed && snap.Status != SearchDone {
		return
	}
	d.SetQuery(snap.Query, snap.Kind)
}

// fire runs the search for generation gen if it is still current
func (d *Debouncer) fire(gen uint64, query string, kind domain.MediaKind) {
	d.mu.Lock()
	if d.closed || gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel
	d.snap.Status = SearchLoading
	d.signalLocked()
	d.mu.Unlock()
	defer cancel()

	d.logger.Debug("searching", "query", query, "kind", kind)
	results, err := d.catalog.Search(ctx, kind, query, 1)

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed || gen != d.gen {
		d.logger.Debug("discarding superseded search", "query", query)
		return
	}
	d.cancel = nil

	if err != nil {
		d.logger.Warn("search failed", "query", query, "error", err)
		d.snap.Status = SearchFailed
		d.snap.Err = err
	} else {
		if results == nil {
			results = []domain.MediaSummary{}
		}
		d.logger.Debug("search complete", "query", query, "results", len(results))
		d.snap.Status = SearchDone
		d.snap.Results = results
	}
	d.signalLocked()
}

// Snapshot returns the current state. Results is shared and must not be modified.
func (d *Debouncer) Snapshot() SearchSnapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.snap
}

// Subscribe returns a channel that receives after every state change.
// Signals coalesce; read Snapshot for the latest state. Closed by Close.
func (d *Debouncer) Subscribe() <-chan struct{} {
	return d.notify
}

// Close cancels any pending or running search and closes the change channel
func (d *Debouncer) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.closed = true
	d.gen++
	d.stopLocked()
	close(d.notify)
}

func (d *Debouncer) stopLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}

func (d *Debouncer) signalLocked() {
	select {
	case d.notify <- struct{}{}:
	default:
	}
}
