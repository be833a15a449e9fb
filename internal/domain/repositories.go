package domain

import (
	"context"
)

// CatalogRepository provides read-only access to the media catalog
type CatalogRepository interface {
	// ListByCategory returns one page (1-based) of a category listing
	ListByCategory(ctx context.Context, kind MediaKind, category Category, page int) ([]MediaSummary, error)

	// Search returns one page of titles matching query. No minimum length is enforced.
	Search(ctx context.Context, kind MediaKind, query string, page int) ([]MediaSummary, error)

	// GetDetail returns the full record for a single title
	GetDetail(ctx context.Context, kind MediaKind, id int) (*MediaDetail, error)

	// GetReviews returns the first page of user reviews for a title
	GetReviews(ctx context.Context, kind MediaKind, id int) ([]Review, error)

	// GetCredits returns the cast and crew for a title
	GetCredits(ctx context.Context, kind MediaKind, id int) ([]CastMember, error)
}

// HistoryRepository persists bounded, recency-ordered history lists
type HistoryRepository interface {
	// Record moves or inserts entry at the front of the list, evicting from the tail
	Record(kind HistoryKind, entry HistoryEntry) error

	// Retrieve returns the list, or an empty list when unset or unreadable
	Retrieve(kind HistoryKind) HistoryList

	// Clear removes every entry from the list
	Clear(kind HistoryKind) error
}
