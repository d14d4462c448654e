// Package store defines the port for the remote hierarchical key-value
// document store that holds all marketplace data (adoptions, pets, users,
// notifications, verifications, stories).
//
// The store semantics mirror a managed realtime document database:
//   - values live at slash-separated paths ("adoptions/a1")
//   - collection reads return a key→document map, not an ordered array
//   - queries support a single equality predicate on one child key; there are
//     no compound indexes, so multi-key filtering happens in application code
//   - Push appends a document under a server-assigned key
//
// Two adapters implement the port: store/memory (tests, development) and
// store/sqlite (single-node deployments).
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when no document exists at the path.
var ErrNotFound = errors.New("store: not found")

// Store is the document-store port consumed by the service layer.
//
// Implementations must be safe for concurrent use and must honor the provided
// context for cancellation.
type Store interface {
	// Get returns the document at path, or ErrNotFound.
	Get(ctx context.Context, path string) (map[string]any, error)

	// GetCollection returns every document directly under path as a
	// key→document map. A missing or empty collection yields an empty map,
	// not an error.
	GetCollection(ctx context.Context, path string) (map[string]map[string]any, error)

	// Set writes the document at path, replacing any existing value.
	Set(ctx context.Context, path string, doc map[string]any) error

	// Update merges fields into the document at path. Absent documents are
	// created from the given fields.
	Update(ctx context.Context, path string, fields map[string]any) error

	// Remove deletes the document at path. Removing a missing path is a no-op.
	Remove(ctx context.Context, path string) error

	// Push appends doc under path with a store-assigned key and returns the key.
	Push(ctx context.Context, path string, doc map[string]any) (string, error)

	// QueryEqual returns the documents under path whose child field equals
	// value. Equality is loose across numeric representations.
	QueryEqual(ctx context.Context, path, child string, value any) (map[string]map[string]any, error)
}

// EqualValue compares a document field against a query value, tolerating the
// int/int64/float64 drift introduced by JSON round-trips. Shared by adapters
// so both apply identical predicate semantics.
func EqualValue(field, value any) bool {
	if field == nil {
		return false
	}
	if fn, fok := toFloat(field); fok {
		if vn, vok := toFloat(value); vok {
			return fn == vn
		}
		return false
	}
	return field == value
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
