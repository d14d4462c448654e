// Package services – PetService
//
// Pet CRUD over the pets collection, plus the accent-insensitive search
// index rebuilt on writes. Deleting a pet cascades to its adoption requests:
// each affected requester is notified and the requests are removed from the
// store and the cache.
//
// Unlike the adoption list operations, Create propagates the raw store error
// to the caller: the create flow drives a redirect on the client and needs to
// distinguish failure causes. The asymmetry is deliberate.
package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/adoptazulia/go-adoptions-backend/internal/cache"
	"github.com/adoptazulia/go-adoptions-backend/internal/domain"
	"github.com/adoptazulia/go-adoptions-backend/internal/search"
	"github.com/adoptazulia/go-adoptions-backend/internal/store"
)

// PetService implements the pet use cases.
type PetService struct {
	Store    store.Store
	Cache    *cache.DataCache
	Notifier Notifier

	mu    sync.RWMutex
	index *search.Index
}

// NewPetService wires a PetService. Call RebuildIndex once at startup to
// warm the search index from the store.
func NewPetService(st store.Store, c *cache.DataCache, n Notifier) *PetService {
	return &PetService{Store: st, Cache: c, Notifier: n}
}

// Create validates and persists a new pet document, returning its key.
// Store errors propagate unwrapped.
func (s *PetService) Create(ctx context.Context, doc domain.Doc) (string, error) {
	if strings.TrimSpace(domain.DocString(doc, "name")) == "" {
		return "", ErrPetInvalid
	}
	if domain.PetOwnerID(doc) == "" {
		return "", ErrPetInvalid
	}
	if domain.DocInt64(doc, "createdAt") == 0 {
		doc["createdAt"] = domain.NowMillis()
	}
	id, err := s.Store.Push(ctx, pathPets, doc)
	if err != nil {
		return "", err
	}
	s.Cache.PutPet(id, doc)
	s.rebuildIndexAsync(ctx)
	return id, nil
}

// Get returns the pet snapshot for id.
func (s *PetService) Get(ctx context.Context, id string) (*domain.PetSnapshot, error) {
	doc, ok := s.Cache.Pet(id)
	if !ok {
		var err error
		doc, err = s.Store.Get(ctx, pathPets+"/"+id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, ErrPetNotFound
			}
			return nil, err
		}
		s.Cache.PutPet(id, doc)
	}
	return domain.PetSnapshotFromDoc(id, doc), nil
}

// List returns all pets as snapshots, newest first.
func (s *PetService) List(ctx context.Context) ([]*domain.PetSnapshot, error) {
	docs, err := s.Store.GetCollection(ctx, pathPets)
	if err != nil {
		return nil, err
	}
	type entry struct {
		snap    *domain.PetSnapshot
		created int64
	}
	entries := make([]entry, 0, len(docs))
	for id, doc := range docs {
		s.Cache.PutPet(id, doc)
		entries = append(entries, entry{domain.PetSnapshotFromDoc(id, doc), domain.DocInt64(doc, "createdAt")})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].created != entries[j].created {
			return entries[i].created > entries[j].created
		}
		return entries[i].snap.ID < entries[j].snap.ID
	})
	out := make([]*domain.PetSnapshot, len(entries))
	for i, e := range entries {
		out[i] = e.snap
	}
	return out, nil
}

// Update merges fields into the pet document and refreshes the cached copy.
func (s *PetService) Update(ctx context.Context, id string, fields domain.Doc) error {
	if _, err := s.Store.Get(ctx, pathPets+"/"+id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrPetNotFound
		}
		return err
	}
	if err := s.Store.Update(ctx, pathPets+"/"+id, fields); err != nil {
		return err
	}
	if doc, err := s.Store.Get(ctx, pathPets+"/"+id); err == nil {
		s.Cache.PutPet(id, doc)
	}
	s.rebuildIndexAsync(ctx)
	return nil
}

// Delete removes a pet and cascades to its adoption requests: each request
// is removed from the store and the cache, and its requester is notified
// best-effort that the pet is no longer available.
func (s *PetService) Delete(ctx context.Context, id string) error {
	doc, err := s.Store.Get(ctx, pathPets+"/"+id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrPetNotFound
		}
		return err
	}
	petName := domain.DocString(doc, "name")
	if petName == "" {
		petName = domain.PlaceholderName
	}

	requests, err := s.Store.QueryEqual(ctx, pathAdoptions, "petId", id)
	if err != nil {
		return err
	}
	for reqID, reqDoc := range requests {
		if err := s.Store.Remove(ctx, pathAdoptions+"/"+reqID); err != nil {
			return err
		}
		s.Cache.RemoveAdoption(reqID)
		if requester := domain.DocString(reqDoc, "userId"); requester != "" && s.Notifier != nil {
			n := &domain.Notification{
				Type:    "pet_removed",
				Title:   "Mascota ya no disponible",
				Message: petName + " ya no está disponible para adopción",
				Data:    domain.Doc{"petId": id},
			}
			if nerr := s.Notifier.CreateNotification(ctx, requester, n); nerr != nil {
				log.Warn().Err(nerr).Str("target", requester).Msg("cascade notification failed")
			}
		}
	}

	if err := s.Store.Remove(ctx, pathPets+"/"+id); err != nil {
		return err
	}
	s.Cache.RemovePet(id)
	s.rebuildIndexAsync(ctx)
	return nil
}

// Search returns the pets best matching the query, accent- and
// case-insensitive, up to limit results.
func (s *PetService) Search(ctx context.Context, query string, limit int) ([]*domain.PetSnapshot, error) {
	s.mu.RLock()
	ix := s.index
	s.mu.RUnlock()
	if ix == nil {
		if err := s.RebuildIndex(ctx); err != nil {
			return nil, err
		}
		s.mu.RLock()
		ix = s.index
		s.mu.RUnlock()
	}

	results := ix.TopK(query, limit)
	out := make([]*domain.PetSnapshot, 0, len(results))
	for _, r := range results {
		if doc, ok := s.Cache.Pet(r.ID); ok {
			out = append(out, domain.PetSnapshotFromDoc(r.ID, doc))
		}
	}
	return out, nil
}

// RebuildIndex reloads the pets collection and rebuilds the search index.
func (s *PetService) RebuildIndex(ctx context.Context) error {
	docs, err := s.Store.GetCollection(ctx, pathPets)
	if err != nil {
		return err
	}
	for id, doc := range docs {
		s.Cache.PutPet(id, doc)
	}
	ix := search.Build(docs, []string{"name", "species", "type", "breed", "description"})

	s.mu.Lock()
	s.index = ix
	s.mu.Unlock()
	return nil
}

// rebuildIndexAsync refreshes the index in the background after a write;
// failures only degrade search freshness, so they are logged and dropped.
func (s *PetService) rebuildIndexAsync(ctx context.Context) {
	bg := context.WithoutCancel(ctx)
	go func() {
		if err := s.RebuildIndex(bg); err != nil {
			log.Warn().Err(err).Msg("pet index rebuild failed")
		}
	}()
}
