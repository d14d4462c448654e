// Package cache implements the process-local denormalizing cache that sits
// between the HTTP layer and the remote document store.
//
// The cache holds three record maps (adoptions, pets, users) keyed by record
// ID, plus per-query-shape TTL watermarks. A watermark marks when a given
// shape (all adoptions, adoptions by owner, adoptions by status) was last
// refreshed successfully; expired watermarks force a re-fetch before cached
// data is returned as authoritative for that shape. Entries are never evicted
// by size; they are superseded by re-fetches or mutated under the cache lock
// on writes.
//
// The cache owns its adoption records exclusively. Put* stores private copies
// and every read hands out a fresh copy taken under the lock, so request
// handlers never share memory with the write path; a locked mutation is
// observed on the next cache read without a store re-fetch.
//
// The cache is an explicitly constructed object injected into the service
// layer; Reset provides a teardown hook for tests.
package cache

import (
	"sync"
	"time"

	"github.com/adoptazulia/go-adoptions-backend/internal/domain"
)

// DefaultTTL is how long a query-shape watermark stays fresh.
const DefaultTTL = 5 * time.Minute

// DataCache is the shared in-memory cache. Safe for concurrent use.
type DataCache struct {
	mu  sync.RWMutex
	ttl time.Duration

	adoptions map[string]*domain.Adoption
	pets      map[string]domain.Doc
	users     map[string]domain.Doc

	lastAll      time.Time
	lastByOwner  map[string]time.Time
	lastByStatus map[string]time.Time
}

// New returns an empty cache with the given TTL; ttl <= 0 uses DefaultTTL.
func New(ttl time.Duration) *DataCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &DataCache{ttl: ttl}
	c.reset()
	return c
}

func (c *DataCache) reset() {
	c.adoptions = make(map[string]*domain.Adoption)
	c.pets = make(map[string]domain.Doc)
	c.users = make(map[string]domain.Doc)
	c.lastAll = time.Time{}
	c.lastByOwner = make(map[string]time.Time)
	c.lastByStatus = make(map[string]time.Time)
}

// Reset drops all cached records and watermarks. Intended for tests and for
// forcing a full refresh after bulk imports.
func (c *DataCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reset()
}

// IsExpired reports whether a watermark is absent or older than the TTL.
// Pure with respect to cache contents; monotonic in the current time.
func (c *DataCache) IsExpired(watermark time.Time) bool {
	return watermark.IsZero() || time.Since(watermark) > c.ttl
}

// FreshAll reports whether the "all adoptions" shape is within its TTL.
func (c *DataCache) FreshAll() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return !c.IsExpired(c.lastAll)
}

// FreshOwner reports whether the by-owner shape for ownerID is within its TTL.
func (c *DataCache) FreshOwner(ownerID string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return !c.IsExpired(c.lastByOwner[ownerID])
}

// FreshStatus reports whether the by-status shape for status is within its TTL.
func (c *DataCache) FreshStatus(status string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return !c.IsExpired(c.lastByStatus[status])
}

// StampAll marks the "all adoptions" shape as freshly fetched. Callers stamp
// only after a fetch+enrich completed successfully, so failures leave the
// watermark untouched and the next call retries.
func (c *DataCache) StampAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastAll = time.Now()
}

// StampOwner marks the by-owner shape for ownerID as freshly fetched.
func (c *DataCache) StampOwner(ownerID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastByOwner[ownerID] = time.Now()
}

// StampStatus marks the by-status shape for status as freshly fetched.
func (c *DataCache) StampStatus(status string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastByStatus[status] = time.Now()
}

// PutAdoptions stores the full result set of a fetch, keyed by ID. The cache
// keeps its own copies; callers retain ownership of the slice they passed.
func (c *DataCache) PutAdoptions(items []*domain.Adoption) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, a := range items {
		c.adoptions[a.ID] = copyAdoption(a)
	}
}

// PutAdoption stores (or supersedes) a single adoption as a private copy.
func (c *DataCache) PutAdoption(a *domain.Adoption) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.adoptions[a.ID] = copyAdoption(a)
}

// Adoption returns a copy of the cached adoption for id, if present. The copy
// is taken under the read lock and belongs to the caller outright; concurrent
// writes through MutateAdoption never touch it.
func (c *DataCache) Adoption(id string) (*domain.Adoption, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	a, ok := c.adoptions[id]
	if !ok {
		return nil, false
	}
	return copyAdoption(a), true
}

// MutateAdoption applies fn to the canonical cache entry for id, under the
// cache lock. Readers observe the update on their next cache read.
// Returns false when id is not cached.
func (c *DataCache) MutateAdoption(id string, fn func(*domain.Adoption)) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	a, ok := c.adoptions[id]
	if !ok {
		return false
	}
	fn(a)
	return true
}

// RemoveAdoption drops an adoption from the cache (delete path).
func (c *DataCache) RemoveAdoption(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.adoptions, id)
}

// Adoptions returns copies of all cached adoptions, optionally filtered. The
// copies are snapshotted under the read lock; the filter runs on them after
// the lock is released, so it may consult the cache itself.
func (c *DataCache) Adoptions(keep func(*domain.Adoption) bool) []*domain.Adoption {
	c.mu.RLock()
	all := make([]*domain.Adoption, 0, len(c.adoptions))
	for _, a := range c.adoptions {
		all = append(all, copyAdoption(a))
	}
	c.mu.RUnlock()

	if keep == nil {
		return all
	}
	out := all[:0]
	for _, a := range all {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out
}

// copyAdoption is a shallow copy. The snapshot pointers carry over as-is;
// snapshots are written once at construction and treated as immutable after.
func copyAdoption(a *domain.Adoption) *domain.Adoption {
	cp := *a
	return &cp
}

// PutPet caches a raw pet document.
func (c *DataCache) PutPet(id string, doc domain.Doc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pets[id] = doc
}

// Pet returns the cached raw pet document for id.
func (c *DataCache) Pet(id string) (domain.Doc, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	doc, ok := c.pets[id]
	return doc, ok
}

// RemovePet drops a pet document (pet delete cascade).
func (c *DataCache) RemovePet(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.pets, id)
}

// PutUser caches a raw user document.
func (c *DataCache) PutUser(id string, doc domain.Doc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.users[id] = doc
}

// User returns the cached raw user document for id.
func (c *DataCache) User(id string) (domain.Doc, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	doc, ok := c.users[id]
	return doc, ok
}

// MissingPets filters ids down to those not yet cached, deduplicated,
// preserving first-seen order.
func (c *DataCache) MissingPets(ids []string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return missing(ids, func(id string) bool { _, ok := c.pets[id]; return ok })
}

// MissingUsers filters ids down to those not yet cached, deduplicated,
// preserving first-seen order.
func (c *DataCache) MissingUsers(ids []string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return missing(ids, func(id string) bool { _, ok := c.users[id]; return ok })
}

func missing(ids []string, cached func(string) bool) []string {
	seen := make(map[string]struct{}, len(ids))
	var out []string
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if !cached(id) {
			out = append(out, id)
		}
	}
	return out
}
