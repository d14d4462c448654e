// Package utils provides small, generic helper functions used across
// different layers of the application. These utilities are independent
// of domain or business logic.
package utils

import "strconv"

// AtoiDefault converts a string to an int using strconv.Atoi.
// If the string is empty or cannot be parsed as an integer,
// it returns the provided default value instead.
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

// PageBounds returns the half-open slice bounds [lo, hi) for page number
// `page` (1-based) of a collection with n items. Out-of-range pages clamp to
// an empty slice at the end; page and pageSize below 1 are coerced to 1.
//
// For consecutive pages 1..k the bounds partition the first k*pageSize items
// with no gaps and no duplicates.
func PageBounds(n, page, pageSize int) (lo, hi int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}
	lo = (page - 1) * pageSize
	if lo > n {
		lo = n
	}
	hi = lo + pageSize
	if hi > n {
		hi = n
	}
	return lo, hi
}
