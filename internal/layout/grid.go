// Package layout holds pure grid geometry for the feed view.
package layout

// RowIndexOf returns the zero-based row of item i in a grid of cols columns
func RowIndexOf(i, cols int) int {
	if cols < 1 {
		cols = 1
	}
	if i < 0 {
		return 0
	}
	return i / cols
}

// ItemsInRow returns the item indexes occupying row, given total items.
// Rows past the end are empty.
func ItemsInRow(row, cols, total int) []int {
	if cols < 1 {
		cols = 1
	}
	start := row * cols
	if row < 0 || start >= total {
		return nil
	}
	end := min(start+cols, total)
	out := make([]int, 0, end-start)
	for i := start; i < end; i++ {
		out = append(out, i)
	}
	return out
}

// RowCount returns the number of rows needed for total items
func RowCount(cols, total int) int {
	if total <= 0 {
		return 0
	}
	if cols < 1 {
		cols = 1
	}
	return (total + cols - 1) / cols
}

// PeekAnchor returns the index of the last item in the selected item's row.
// The peek panel is drawn directly after it. Returns -1 when there are no items.
func PeekAnchor(i, cols, total int) int {
	if total <= 0 {
		return -1
	}
	if i >= total {
		i = total - 1
	}
	row := ItemsInRow(RowIndexOf(i, cols), cols, total)
	return row[len(row)-1]
}

// NearBottom reports whether cursorRow is within threshold rows of the last
// loaded row. An empty grid is always near the bottom.
func NearBottom(cursorRow, totalRows, threshold int) bool {
	if totalRows <= 0 {
		return true
	}
	if threshold < 0 {
		threshold = 0
	}
	return totalRows-1-cursorRow <= threshold
}

// Columns returns how many cells of cellWidth (plus gap) fit in width, at least 1
func Columns(width, cellWidth, gap int) int {
	if cellWidth <= 0 {
		return 1
	}
	n := (width + gap) / (cellWidth + gap)
	return max(n, 1)
}
