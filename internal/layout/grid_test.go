package layout

import (
	"slices"
	"testing"
)

func TestRowIndexOf(t *testing.T) {
	tests := []struct {
		i, cols, want int
	}{
		{0, 4, 0},
		{3, 4, 0},
		{4, 4, 1},
		{9, 4, 2},
		{5, 1, 5},
		{5, 0, 5},
		{-1, 4, 0},
	}
	for _, tt := range tests {
		if got := RowIndexOf(tt.i, tt.cols); got != tt.want {
			t.Fatalf("RowIndexOf(%d, %d) = %d, want %d", tt.i, tt.cols, got, tt.want)
		}
	}
}

func TestItemsInRow(t *testing.T) {
	if got := ItemsInRow(0, 4, 10); !slices.Equal(got, []int{0, 1, 2, 3}) {
		t.Fatalf("row 0: %v", got)
	}
	if got := ItemsInRow(2, 4, 10); !slices.Equal(got, []int{8, 9}) {
		t.Fatalf("partial last row: %v", got)
	}
	if got := ItemsInRow(3, 4, 10); got != nil {
		t.Fatalf("row past end: %v", got)
	}
	if got := ItemsInRow(0, 4, 0); got != nil {
		t.Fatalf("empty grid: %v", got)
	}
}

func TestRowIndexAndItemsAgree(t *testing.T) {
	const total = 47
	for cols := 1; cols <= 7; cols++ {
		for i := 0; i < total; i++ {
			row := ItemsInRow(RowIndexOf(i, cols), cols, total)
			if !slices.Contains(row, i) {
				t.Fatalf("cols=%d: item %d not in its own row %v", cols, i, row)
			}
		}
	}
}

func TestPeekAnchor(t *testing.T) {
	tests := []struct {
		i, cols, total, want int
	}{
		{0, 4, 10, 3},
		{5, 4, 10, 7},
		{9, 4, 10, 9},
		{8, 4, 10, 9},
		{0, 4, 2, 1},
		{0, 4, 0, -1},
		{12, 4, 10, 9},
	}
	for _, tt := range tests {
		if got := PeekAnchor(tt.i, tt.cols, tt.total); got != tt.want {
			t.Fatalf("PeekAnchor(%d, %d, %d) = %d, want %d", tt.i, tt.cols, tt.total, got, tt.want)
		}
	}
}

func TestNearBottom(t *testing.T) {
	if !NearBottom(0, 0, 2) {
		t.Fatal("empty grid should be near bottom")
	}
	if NearBottom(0, 10, 2) {
		t.Fatal("top of a long grid is not near bottom")
	}
	if !NearBottom(7, 10, 2) {
		t.Fatal("two rows from the end should trigger")
	}
	if NearBottom(6, 10, 2) {
		t.Fatal("three rows from the end should not trigger")
	}
	if !NearBottom(9, 10, 0) {
		t.Fatal("last row with zero threshold should trigger")
	}
}

func TestRowCountAndColumns(t *testing.T) {
	if got := RowCount(4, 47); got != 12 {
		t.Fatalf("RowCount = %d, want 12", got)
	}
	if got := RowCount(4, 0); got != 0 {
		t.Fatalf("RowCount empty = %d", got)
	}
	if got := Columns(120, 28, 2); got != 4 {
		t.Fatalf("Columns = %d, want 4", got)
	}
	if got := Columns(10, 28, 2); got != 1 {
		t.Fatalf("narrow Columns = %d, want 1", got)
	}
}
