package domain

// ListItem is the display API for a row in a list.
// MediaSummary and HistoryEntry implement it directly.
type ListItem interface {
	GetKey() MediaKey
	GetTitle() string
	GetKind() MediaKind

	// GetDescription returns secondary info for display
	GetDescription() string
}

func (e HistoryEntry) GetKey() MediaKey       { return e.Key() }
func (e HistoryEntry) GetTitle() string       { return e.Title }
func (e HistoryEntry) GetKind() MediaKind     { return e.Kind }
func (e HistoryEntry) GetDescription() string { return e.Summary().GetDescription() }
