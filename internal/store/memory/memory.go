// Package memory provides an in-memory implementation of the store port.
// It backs unit and end-to-end tests and local development; the semantics
// (collection maps, loose numeric equality, last-write-wins) match the
// sqlite adapter so service tests exercise realistic store behavior.
package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/adoptazulia/go-adoptions-backend/internal/store"
)

// Store is an in-memory document store keyed by (collection path, key).
// The zero value is not usable; call New.
type Store struct {
	mu   sync.RWMutex
	data map[string]map[string]map[string]any
}

// New returns an empty in-memory store.
func New() *Store {
	return &Store{data: make(map[string]map[string]map[string]any)}
}

// splitPath separates a document path into its collection prefix and final
// key segment: "adoptions/a1" → ("adoptions", "a1").
func splitPath(path string) (collection, key string) {
	path = strings.Trim(path, "/")
	i := strings.LastIndexByte(path, '/')
	if i < 0 {
		return "", path
	}
	return path[:i], path[i+1:]
}

// cloneDoc deep-copies a document so callers never alias stored state.
func cloneDoc(doc map[string]any) map[string]any {
	if doc == nil {
		return nil
	}
	out := make(map[string]any, len(doc))
	for k, v := range doc {
		if nested, ok := v.(map[string]any); ok {
			out[k] = cloneDoc(nested)
			continue
		}
		out[k] = v
	}
	return out
}

// Get returns the document at path, or store.ErrNotFound.
func (s *Store) Get(ctx context.Context, path string) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	collection, key := splitPath(path)

	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.data[collection][key]
	if !ok {
		return nil, store.ErrNotFound
	}
	return cloneDoc(doc), nil
}

// GetCollection returns every document under path. Missing collections yield
// an empty map.
func (s *Store) GetCollection(ctx context.Context, path string) (map[string]map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path = strings.Trim(path, "/")

	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]map[string]any, len(s.data[path]))
	for k, doc := range s.data[path] {
		out[k] = cloneDoc(doc)
	}
	return out, nil
}

// Set writes the document at path, replacing any existing value.
func (s *Store) Set(ctx context.Context, path string, doc map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	collection, key := splitPath(path)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data[collection] == nil {
		s.data[collection] = make(map[string]map[string]any)
	}
	s.data[collection][key] = cloneDoc(doc)
	return nil
}

// Update merges fields into the document at path, creating it when absent.
func (s *Store) Update(ctx context.Context, path string, fields map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	collection, key := splitPath(path)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data[collection] == nil {
		s.data[collection] = make(map[string]map[string]any)
	}
	doc := s.data[collection][key]
	if doc == nil {
		doc = make(map[string]any, len(fields))
		s.data[collection][key] = doc
	}
	for k, v := range fields {
		doc[k] = v
	}
	return nil
}

// Remove deletes the document at path; removing a missing path is a no-op.
func (s *Store) Remove(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	collection, key := splitPath(path)

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data[collection], key)
	return nil
}

// Push appends doc under path with a generated key and returns the key.
func (s *Store) Push(ctx context.Context, path string, doc map[string]any) (string, error) {
	key := uuid.NewString()
	if err := s.Set(ctx, strings.Trim(path, "/")+"/"+key, doc); err != nil {
		return "", err
	}
	return key, nil
}

// QueryEqual returns the documents under path whose child field equals value.
func (s *Store) QueryEqual(ctx context.Context, path, child string, value any) (map[string]map[string]any, error) {
	all, err := s.GetCollection(ctx, path)
	if err != nil {
		return nil, err
	}
	out := make(map[string]map[string]any)
	for k, doc := range all {
		if store.EqualValue(doc[child], value) {
			out[k] = doc
		}
	}
	return out, nil
}
