package service

import (
	"log/slog"
	"sort"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/mmcdole/reel/internal/domain"
)

// HistoryService records visits and searches and serves the recent lists
type HistoryService struct {
	repo   domain.HistoryRepository
	now    func() time.Time
	logger *slog.Logger
}

// NewHistoryService creates a new history service
func NewHistoryService(repo domain.HistoryRepository, logger *slog.Logger) *HistoryService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HistoryService{repo: repo, now: time.Now, logger: logger}
}

// RecordViewed snapshots a title whose detail view loaded
func (s *HistoryService) RecordViewed(m domain.MediaSummary) error {
	return s.repo.Record(domain.HistoryViewed, domain.NewHistoryEntry(m, s.now()))
}

// RecordSearched snapshots a title opened from search results
func (s *HistoryService) RecordSearched(m domain.MediaSummary) error {
	return s.repo.Record(domain.HistorySearched, domain.NewHistoryEntry(m, s.now()))
}

// Recent returns a history list, most recent first
func (s *HistoryService) Recent(kind domain.HistoryKind) domain.HistoryList {
	return s.repo.Retrieve(kind)
}

// Clear empties a history list
func (s *HistoryService) Clear(kind domain.HistoryKind) error {
	if err := s.repo.Clear(kind); err != nil {
		return err
	}
	s.logger.Info("history cleared", "list", kind.String())
	return nil
}

// FilterHistory ranks entries whose title fuzzily matches query, closest
// first. Ties keep recency order. An empty query returns list unchanged.
func FilterHistory(list domain.HistoryList, query string) domain.HistoryList {
	if query == "" {
		return list
	}

	titles := make([]string, len(list))
	for i, e := range list {
		titles[i] = e.Title
	}

	matches := fuzzy.RankFindFold(query, titles)
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Distance != matches[j].Distance {
			return matches[i].Distance < matches[j].Distance
		}
		return matches[i].OriginalIndex < matches[j].OriginalIndex
	})

	out := make(domain.HistoryList, 0, len(matches))
	for _, m := range matches {
		out = append(out, list[m.OriginalIndex])
	}
	return out
}

// VisitedLabel renders when an entry was recorded relative to now, e.g.
// "3 minutes ago". Entries without a timestamp render "".
func VisitedLabel(e domain.HistoryEntry, now time.Time) string {
	if e.VisitedAt.IsZero() {
		return ""
	}
	return humanize.RelTime(e.VisitedAt, now, "ago", "from now")
}
