package utils

import "testing"

func TestAtoiDefault(t *testing.T) {
	tests := []struct {
		name string
		in   string
		def  int
		want int
	}{
		{"empty", "", 7, 7},
		{"valid", "42", 7, 42},
		{"negative", "-3", 7, -3},
		{"garbage", "abc", 7, 7},
		{"float", "3.5", 7, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AtoiDefault(tt.in, tt.def); got != tt.want {
				t.Fatalf("AtoiDefault(%q, %d) = %d, want %d", tt.in, tt.def, got, tt.want)
			}
		})
	}
}

func TestPageBounds(t *testing.T) {
	tests := []struct {
		name             string
		n, page, size    int
		wantLo, wantHi   int
	}{
		{"first page", 10, 1, 3, 0, 3},
		{"middle page", 10, 2, 3, 3, 6},
		{"partial last page", 10, 4, 3, 9, 10},
		{"past the end", 10, 5, 3, 10, 10},
		{"empty set", 0, 1, 3, 0, 0},
		{"page below one coerced", 10, 0, 3, 0, 3},
		{"size below one coerced", 10, 2, 0, 1, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lo, hi := PageBounds(tt.n, tt.page, tt.size)
			if lo != tt.wantLo || hi != tt.wantHi {
				t.Fatalf("PageBounds(%d, %d, %d) = [%d, %d), want [%d, %d)",
					tt.n, tt.page, tt.size, lo, hi, tt.wantLo, tt.wantHi)
			}
		})
	}
}

// Consecutive pages must partition the collection: no gaps, no overlaps.
func TestPageBounds_Partition(t *testing.T) {
	const n, size = 23, 5
	next := 0
	for page := 1; ; page++ {
		lo, hi := PageBounds(n, page, size)
		if lo != next {
			t.Fatalf("page %d starts at %d, want %d", page, lo, next)
		}
		if hi < lo || hi > n {
			t.Fatalf("page %d bounds [%d, %d) out of range", page, lo, hi)
		}
		if lo == hi {
			break
		}
		next = hi
	}
	if next != n {
		t.Fatalf("pages covered %d items, want %d", next, n)
	}
}
