package domain

// FeedState is a point-in-time snapshot of one paginated feed.
// Items are unique by id in first-appearance order.
type FeedState struct {
	Kind          MediaKind
	Category      Category
	Items         []MediaSummary
	NextPage      int
	Exhausted     bool
	FetchInFlight bool

	// Err is the most recent page failure. Cleared by the next success or a reset.
	Err error
}

// IsEmpty reports a finished feed with no items. This is a valid result, not an error.
func (s FeedState) IsEmpty() bool {
	return s.Exhausted && len(s.Items) == 0
}
