package domain

import "time"

// HistoryKind selects one of the independently maintained history lists
type HistoryKind int

const (
	HistoryViewed HistoryKind = iota
	HistorySearched
)

func (k HistoryKind) String() string {
	switch k {
	case HistoryViewed:
		return "viewed"
	case HistorySearched:
		return "searched"
	default:
		return "unknown"
	}
}

// HistoryEntry is a persisted snapshot of a title. It is a denormalized copy,
// not a reference, so it survives without any live session state.
type HistoryEntry struct {
	ID           int       `json:"id"`
	Kind         MediaKind `json:"type"`
	Title        string    `json:"title"`
	PosterPath   string    `json:"poster_path,omitempty"`
	BackdropPath string    `json:"backdrop_path,omitempty"`
	Overview     string    `json:"overview"`
	Rating       float64   `json:"vote_average"`
	VisitedAt    time.Time `json:"visited_at,omitempty"`
}

// NewHistoryEntry snapshots a summary at the given visit time
func NewHistoryEntry(m MediaSummary, at time.Time) HistoryEntry {
	return HistoryEntry{
		ID:           m.ID,
		Kind:         m.Kind,
		Title:        m.Title,
		PosterPath:   m.PosterPath,
		BackdropPath: m.BackdropPath,
		Overview:     m.Overview,
		Rating:       m.Rating,
		VisitedAt:    at,
	}
}

// Key returns the (id, kind) identity
func (e HistoryEntry) Key() MediaKey {
	return MediaKey{ID: e.ID, Kind: e.Kind}
}

// Summary rebuilds a MediaSummary from the snapshot
func (e HistoryEntry) Summary() MediaSummary {
	return MediaSummary{
		ID:           e.ID,
		Kind:         e.Kind,
		Title:        e.Title,
		Overview:     e.Overview,
		PosterPath:   e.PosterPath,
		BackdropPath: e.BackdropPath,
		Rating:       e.Rating,
	}
}

// HistoryList is ordered most-recent-first and unique by (id, kind)
type HistoryList []HistoryEntry

// Contains reports whether key is present
func (l HistoryList) Contains(key MediaKey) bool {
	for _, e := range l {
		if e.Key() == key {
			return true
		}
	}
	return false
}

// Push returns a new list with entry at the front, any previous entry with the
// same key removed, and the tail truncated to max entries. l is not modified.
func (l HistoryList) Push(entry HistoryEntry, max int) HistoryList {
	out := make(HistoryList, 0, len(l)+1)
	out = append(out, entry)
	for _, e := range l {
		if e.Key() == entry.Key() {
			continue
		}
		out = append(out, e)
	}
	if max > 0 && len(out) > max {
		out = out[:max]
	}
	return out
}
