package service

import (
	"errors"
	"testing"
	"time"

	"github.com/mmcdole/reel/internal/domain"
)

func newTestDebouncer(catalog *fakeCatalog) (*Debouncer, *manualClock) {
	clock := &manualClock{}
	d := NewDebouncer(catalog, SearchOptions{AfterFunc: clock.AfterFunc}, nil)
	return d, clock
}

func TestDebounceTypingIssuesOneSearch(t *testing.T) {
	catalog := newFakeCatalog()
	d, clock := newTestDebouncer(catalog)
	defer d.Close()

	d.SetQuery("a", domain.KindMovie)
	d.SetQuery("ab", domain.KindMovie)
	d.SetQuery("abc", domain.KindMovie)

	if fired := clock.fireAll(); fired != 1 {
		t.Fatalf("expected 1 live timer, fired %d", fired)
	}
	calls := catalog.searches()
	if len(calls) != 1 || calls[0] != "abc" {
		t.Fatalf("expected one search for abc, got %v", calls)
	}
	snap := d.Snapshot()
	if snap.Status != SearchDone || len(snap.Results) != 1 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}

func TestDebounceUsesConfiguredDelay(t *testing.T) {
	d, clock := newTestDebouncer(newFakeCatalog())
	defer d.Close()

	d.SetQuery("dune", domain.KindMovie)
	if got := clock.last().delay; got != 300*time.Millisecond {
		t.Fatalf("expected 300ms delay, got %s", got)
	}
}

func TestDebounceShortQueryMakesNoCall(t *testing.T) {
	catalog := newFakeCatalog()
	d, clock := newTestDebouncer(catalog)
	defer d.Close()

	for _, q := range []string{"ab", "  ab  ", "é"} {
		d.SetQuery(q, domain.KindMovie)
		if got := d.Snapshot().Status; got != SearchTooShort {
			t.Fatalf("%q: expected too short, got %s", q, got)
		}
	}
	d.SetQuery("   ", domain.KindMovie)
	if got := d.Snapshot().Status; got != SearchIdle {
		t.Fatalf("blank query: expected idle, got %s", got)
	}

	if clock.count() != 0 {
		t.Fatalf("expected no timers, got %d", clock.count())
	}
	clock.fireAll()
	if len(catalog.searches()) != 0 {
		t.Fatal("expected no search calls")
	}
}

func TestDebounceTrimsBeforeSearching(t *testing.T) {
	catalog := newFakeCatalog()
	d, clock := newTestDebouncer(catalog)
	defer d.Close()

	d.SetQuery("  alien ", domain.KindMovie)
	clock.fireAll()
	if calls := catalog.searches(); len(calls) != 1 || calls[0] != "alien" {
		t.Fatalf("expected trimmed query, got %v", calls)
	}
}

func TestDebounceChangeClearsResults(t *testing.T) {
	catalog := newFakeCatalog()
	d, clock := newTestDebouncer(catalog)
	defer d.Close()

	d.SetQuery("alien", domain.KindMovie)
	clock.fireAll()
	if len(d.Snapshot().Results) == 0 {
		t.Fatal("expected results")
	}

	// Switching kind with the same text is a change too
	d.SetQuery("alien", domain.KindTV)
	snap := d.Snapshot()
	if snap.Results != nil || snap.Status != SearchPending || snap.Kind != domain.KindTV {
		t.Fatalf("expected cleared pending snapshot, got %+v", snap)
	}

	d.SetQuery("al", domain.KindTV)
	if snap := d.Snapshot(); snap.Results != nil || snap.Status != SearchTooShort {
		t.Fatalf("expected cleared too-short snapshot, got %+v", snap)
	}
}

func TestDebounceFailureIsDistinctFromEmpty(t *testing.T) {
	catalog := newFakeCatalog()
	boom := errors.New("boom")
	catalog.searchFn = func(q string) ([]domain.MediaSummary, error) {
		if q == "fail" {
			return nil, boom
		}
		return nil, nil
	}
	d, clock := newTestDebouncer(catalog)
	defer d.Close()

	d.SetQuery("fail", domain.KindMovie)
	clock.fireAll()
	snap := d.Snapshot()
	if snap.Status != SearchFailed || !errors.Is(snap.Err, boom) {
		t.Fatalf("expected failed snapshot, got %+v", snap)
	}

	d.SetQuery("nothing", domain.KindMovie)
	clock.fireAll()
	snap = d.Snapshot()
	if snap.Status != SearchDone || snap.Err != nil {
		t.Fatalf("expected done snapshot, got %+v", snap)
	}
	if snap.Results == nil || len(snap.Results) != 0 {
		t.Fatalf("expected empty non-nil results, got %#v", snap.Results)
	}
}

func TestDebounceSupersededResultIsDiscarded(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.gate = make(chan struct{})
	d, clock := newTestDebouncer(catalog)
	defer d.Close()

	d.SetQuery("alien", domain.KindMovie)
	first := clock.last()

	done := make(chan struct{})
	go func() {
		defer close(done)
		first.take()()
	}()
	<-catalog.entered
	if got := d.Snapshot().Status; got != SearchLoading {
		t.Fatalf("expected loading, got %s", got)
	}

	// New input cancels the in-flight request
	d.SetQuery("aliens", domain.KindMovie)
	<-done

	snap := d.Snapshot()
	if snap.Status != SearchPending || snap.Query != "aliens" || snap.Err != nil {
		t.Fatalf("superseded request leaked into state: %+v", snap)
	}

	close(catalog.gate)
	clock.fireAll()
	snap = d.Snapshot()
	if snap.Status != SearchDone || snap.Results[0].Title != "aliens" {
		t.Fatalf("expected results for aliens, got %+v", snap)
	}
}

func TestDebounceSubscribeSignals(t *testing.T) {
	d, clock := newTestDebouncer(newFakeCatalog())
	defer d.Close()
	ch := d.Subscribe()

	d.SetQuery("dune", domain.KindMovie)
	select {
	case <-ch:
	default:
		t.Fatal("expected a change signal after SetQuery")
	}

	clock.fireAll()
	select {
	case <-ch:
	default:
		t.Fatal("expected a change signal after the search")
	}
}

func TestDebounceClose(t *testing.T) {
	catalog := newFakeCatalog()
	d, clock := newTestDebouncer(catalog)

	d.SetQuery("dune", domain.KindMovie)
	d.Close()
	d.Close()

	if _, ok := <-drain(d.Subscribe()); ok {
		t.Fatal("expected closed channel")
	}
	clock.fireAll()
	d.SetQuery("arrival", domain.KindMovie)
	if len(catalog.searches()) != 0 {
		t.Fatal("expected no searches after Close")
	}
}

func TestDebounceRetry(t *testing.T) {
	catalog := newFakeCatalog()
	fail := true
	catalog.searchFn = func(q string) ([]domain.MediaSummary, error) {
		if fail {
			return nil, errors.New("offline")
		}
		return []domain.MediaSummary{{ID: 9, Title: q}}, nil
	}
	d, clock := newTestDebouncer(catalog)
	defer d.Close()

	d.SetQuery("dune", domain.KindMovie)
	clock.fireAll()
	if d.Snapshot().Status != SearchFailed {
		t.Fatal("expected failure")
	}

	fail = false
	d.Retry()
	clock.fireAll()
	if snap := d.Snapshot(); snap.Status != SearchDone || len(snap.Results) != 1 {
		t.Fatalf("expected success after retry, got %+v", snap)
	}
}

func TestDebounceRealTimer(t *testing.T) {
	catalog := newFakeCatalog()
	d := NewDebouncer(catalog, SearchOptions{Delay: 20 * time.Millisecond}, nil)
	defer d.Close()

	d.SetQuery("a", domain.KindMovie)
	d.SetQuery("ab", domain.KindMovie)
	d.SetQuery("abc", domain.KindMovie)

	deadline := time.After(2 * time.Second)
	for d.Snapshot().Status != SearchDone {
		select {
		case <-d.Subscribe():
		case <-deadline:
			t.Fatalf("search never completed: %+v", d.Snapshot())
		}
	}
	if calls := catalog.searches(); len(calls) != 1 {
		t.Fatalf("expected 1 search, got %v", calls)
	}
}

// drain empties any buffered signal and returns the channel
func drain(ch <-chan struct{}) <-chan struct{} {
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return ch
			}
		default:
			return ch
		}
	}
}
