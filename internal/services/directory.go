// Package services – user directory.
//
// UserDirectory is the fallback lookup path used by the enricher when the
// primary cache/join misses a user record (cache/path inconsistencies happen
// when records were written under legacy field layouts). It deliberately goes
// through its own store read rather than the batch prefetch path.
package services

import (
	"context"
	"errors"

	"github.com/adoptazulia/go-adoptions-backend/internal/domain"
	"github.com/adoptazulia/go-adoptions-backend/internal/store"
)

// UserDirectory resolves a user profile by ID. A missing user yields
// (nil, nil), not an error.
type UserDirectory interface {
	FetchUserByID(ctx context.Context, id string) (domain.Doc, error)
}

// StoreDirectory implements UserDirectory against the users collection.
type StoreDirectory struct {
	Store store.Store
}

// FetchUserByID returns the raw user document for id, or nil when absent.
func (d *StoreDirectory) FetchUserByID(ctx context.Context, id string) (domain.Doc, error) {
	doc, err := d.Store.Get(ctx, "users/"+id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return doc, nil
}
