// Package services – AdoptionService
//
// This file implements the adoption-request core: the shaped list queries
// (all, by owner, by status, by user, by pet), the denormalizing enricher,
// and the mutation operations (create, status update, delete, confirm saga).
//
// Read-path algorithm, shared by the cached shapes:
//  1. If the shape's TTL watermark is fresh, serve the page from cache.
//  2. Otherwise coalesce the refresh through the flight group so concurrent
//     callers issue exactly one remote fetch per logical key.
//  3. The refresh stores the ENTIRE result set in the cache (later pages are
//     servable without a re-fetch) and kicks off a non-blocking prefetch of
//     every referenced pet/user record; prefetch failures are logged, never
//     propagated.
//  4. The caller's page is enriched synchronously before returning, so
//     visible rows always carry populated pet/user snapshots.
//  5. The watermark is stamped only after fetch+enrich succeeded; failures
//     leave it untouched so the next call retries against the store.
//
// The by-user and by-pet shapes intentionally have no watermark: every call
// is a live fetch gated only by the flight group. The source system treated
// those shapes as low-cardinality/high-change; the asymmetry is preserved.
package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/adoptazulia/go-adoptions-backend/internal/cache"
	"github.com/adoptazulia/go-adoptions-backend/internal/domain"
	"github.com/adoptazulia/go-adoptions-backend/internal/store"
	"github.com/adoptazulia/go-adoptions-backend/internal/utils"
)

// Store collection paths.
const (
	pathAdoptions     = "adoptions"
	pathPets          = "pets"
	pathUsers         = "users"
	pathVerifications = "verifications"
	pathUserVerifs    = "user_verifications"
	pathStories       = "adoption_stories"
)

// AdoptionService implements the adoption-request use cases. All fields are
// required except Directory, which disables the fallback lookup when nil.
type AdoptionService struct {
	Store     store.Store
	Cache     *cache.DataCache
	Flight    *cache.FlightGroup
	Notifier  Notifier
	Directory UserDirectory
}

// NewAdoptionService wires an AdoptionService. flightWait bounds how long a
// coalesced caller waits on an in-flight fetch; <= 0 picks the group default.
func NewAdoptionService(st store.Store, c *cache.DataCache, flightWait time.Duration, n Notifier, dir UserDirectory) *AdoptionService {
	return &AdoptionService{
		Store:     st,
		Cache:     c,
		Flight:    cache.NewFlightGroup(flightWait),
		Notifier:  n,
		Directory: dir,
	}
}

//
// Shaped list queries
//

// ListAll returns one page of all adoption requests, newest first, plus the
// total count of the full set.
func (s *AdoptionService) ListAll(ctx context.Context, page, pageSize int) ([]*domain.Adoption, int, error) {
	return s.listCached(ctx, "all", "all-adoptions",
		s.Cache.FreshAll,
		s.refreshAll,
		s.Cache.StampAll,
		nil,
		page, pageSize)
}

// ListByStatus returns one page of adoption requests with the given status.
func (s *AdoptionService) ListByStatus(ctx context.Context, status string, page, pageSize int) ([]*domain.Adoption, int, error) {
	if !domain.ValidStatus(status) {
		return nil, 0, ErrInvalidStatus
	}
	return s.listCached(ctx, "status", "status-adoptions-"+status,
		func() bool { return s.Cache.FreshStatus(status) },
		func(ctx context.Context) error { return s.refreshStatus(ctx, status) },
		func() { s.Cache.StampStatus(status) },
		func(a *domain.Adoption) bool { return a.Status == status },
		page, pageSize)
}

// ListByOwner returns one page of the adoption requests targeting pets owned
// by ownerID. Ownership is only resolvable by first listing the owner's pets,
// so the refresh is a two-hop fetch (pets by userId, then all adoptions
// filtered in memory); the store has no compound index to do this remotely.
func (s *AdoptionService) ListByOwner(ctx context.Context, ownerID string, page, pageSize int) ([]*domain.Adoption, int, error) {
	keep := func(a *domain.Adoption) bool {
		doc, ok := s.Cache.Pet(a.PetID)
		return ok && domain.PetOwnerID(doc) == ownerID
	}
	return s.listCached(ctx, "owner", "owner-adoptions-"+ownerID,
		func() bool { return s.Cache.FreshOwner(ownerID) },
		func(ctx context.Context) error { return s.refreshOwner(ctx, ownerID) },
		func() { s.Cache.StampOwner(ownerID) },
		keep,
		page, pageSize)
}

// ListByUser returns every adoption request created by userID, newest first.
// This shape has no TTL watermark: each call fetches live, coalesced by the
// flight group.
func (s *AdoptionService) ListByUser(ctx context.Context, userID string) ([]*domain.Adoption, error) {
	return s.listLive(ctx, "user-adoptions-"+userID, "userId", userID,
		func(a *domain.Adoption) bool { return a.UserID == userID })
}

// ListByPet returns every adoption request for petID, newest first. Live
// fetch per call, like ListByUser.
func (s *AdoptionService) ListByPet(ctx context.Context, petID string) ([]*domain.Adoption, error) {
	return s.listLive(ctx, "pet-adoptions-"+petID, "petId", petID,
		func(a *domain.Adoption) bool { return a.PetID == petID })
}

// Get returns a single adoption request, enriched, preferring the cache.
func (s *AdoptionService) Get(ctx context.Context, adoptionID string) (*domain.Adoption, error) {
	a, ok := s.Cache.Adoption(adoptionID)
	if !ok {
		doc, err := s.Store.Get(ctx, pathAdoptions+"/"+adoptionID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, ErrAdoptionNotFound
			}
			return nil, err
		}
		a = domain.AdoptionFromDoc(adoptionID, doc)
		s.Cache.PutAdoption(a)
	}
	if err := s.enrich(ctx, []*domain.Adoption{a}); err != nil {
		log.Warn().Err(err).Str("adoption_id", adoptionID).Msg("single enrich failed")
	}
	return a, nil
}

// listCached is the shared read path for the watermarked shapes.
func (s *AdoptionService) listCached(
	ctx context.Context,
	shape, flightKey string,
	fresh func() bool,
	refresh func(context.Context) error,
	stamp func(),
	keep func(*domain.Adoption) bool,
	page, pageSize int,
) ([]*domain.Adoption, int, error) {
	if fresh() {
		cache.RecordHit(shape)
		items, total, err := s.pageFromCache(ctx, keep, page, pageSize)
		if err == nil {
			return items, total, nil
		}
		// Enrich failed on a cache hit; fall through to a full refresh.
		log.Warn().Err(err).Str("shape", shape).Msg("enrich from cache failed, refetching")
	}
	cache.RecordMiss(shape)

	err, shared := s.Flight.Do(ctx, flightKey, func() error { return refresh(ctx) })
	if err != nil {
		// A coalesced caller saw the leader fail, but an earlier refresh may
		// still be fresh; re-check rather than assuming failure.
		if shared && fresh() {
			if items, total, perr := s.pageFromCache(ctx, keep, page, pageSize); perr == nil {
				return items, total, nil
			}
		}
		log.Error().Err(err).Str("shape", shape).Msg("adoption list fetch failed")
		return []*domain.Adoption{}, 0, ErrAdoptionsUnavailable
	}

	items, total, err := s.pageFromCache(ctx, keep, page, pageSize)
	if err != nil {
		log.Error().Err(err).Str("shape", shape).Msg("adoption page enrich failed")
		return []*domain.Adoption{}, 0, ErrAdoptionsUnavailable
	}
	if !shared {
		stamp()
	}
	return items, total, nil
}

// listLive is the shared read path for the unwatermarked shapes.
func (s *AdoptionService) listLive(
	ctx context.Context,
	flightKey, child, value string,
	keep func(*domain.Adoption) bool,
) ([]*domain.Adoption, error) {
	err, _ := s.Flight.Do(ctx, flightKey, func() error {
		docs, err := s.Store.QueryEqual(ctx, pathAdoptions, child, value)
		if err != nil {
			return err
		}
		items := decodeAdoptions(docs)
		s.Cache.PutAdoptions(items)
		s.prefetchRefs(ctx, items)
		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("key", flightKey).Msg("adoption live fetch failed")
		return []*domain.Adoption{}, ErrAdoptionsUnavailable
	}

	items := s.Cache.Adoptions(keep)
	sortNewestFirst(items)
	if err := s.enrich(ctx, items); err != nil {
		log.Error().Err(err).Str("key", flightKey).Msg("adoption enrich failed")
		return []*domain.Adoption{}, ErrAdoptionsUnavailable
	}
	return items, nil
}

//
// Refresh paths (run by at most one flight leader per key)
//

func (s *AdoptionService) refreshAll(ctx context.Context) error {
	docs, err := s.Store.GetCollection(ctx, pathAdoptions)
	if err != nil {
		return err
	}
	items := decodeAdoptions(docs)
	s.Cache.PutAdoptions(items)
	s.prefetchRefs(ctx, items)
	return nil
}

func (s *AdoptionService) refreshStatus(ctx context.Context, status string) error {
	docs, err := s.Store.QueryEqual(ctx, pathAdoptions, "status", status)
	if err != nil {
		return err
	}
	items := decodeAdoptions(docs)
	s.Cache.PutAdoptions(items)
	s.prefetchRefs(ctx, items)
	return nil
}

// refreshOwner is the two-hop owner fetch: resolve the owner's pet-id set
// first, then filter the full adoptions collection in memory.
func (s *AdoptionService) refreshOwner(ctx context.Context, ownerID string) error {
	pets, err := s.Store.QueryEqual(ctx, pathPets, "userId", ownerID)
	if err != nil {
		return err
	}
	ownerPets := make(map[string]struct{}, len(pets))
	for id, doc := range pets {
		s.Cache.PutPet(id, doc)
		ownerPets[id] = struct{}{}
	}

	docs, err := s.Store.GetCollection(ctx, pathAdoptions)
	if err != nil {
		return err
	}
	all := decodeAdoptions(docs)
	filtered := all[:0]
	for _, a := range all {
		if _, ok := ownerPets[a.PetID]; ok {
			filtered = append(filtered, a)
		}
	}
	s.Cache.PutAdoptions(filtered)
	s.prefetchRefs(ctx, filtered)
	return nil
}

//
// Enrichment
//

// enrich attaches pet and user snapshots to each adoption, in place.
// Only records missing from the cache are fetched; already-cached entries are
// reused without a network call. Enriching an already-enriched slice is a
// no-op in effect.
func (s *AdoptionService) enrich(ctx context.Context, items []*domain.Adoption) error {
	petIDs := make([]string, 0, len(items))
	userIDs := make([]string, 0, len(items))
	for _, a := range items {
		petIDs = append(petIDs, a.PetID)
		userIDs = append(userIDs, a.UserID)
	}

	for _, id := range s.Cache.MissingPets(petIDs) {
		doc, err := s.Store.Get(ctx, pathPets+"/"+id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				continue
			}
			return err
		}
		s.Cache.PutPet(id, doc)
	}
	for _, id := range s.Cache.MissingUsers(userIDs) {
		doc, err := s.Store.Get(ctx, pathUsers+"/"+id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				continue
			}
			return err
		}
		s.Cache.PutUser(id, doc)
	}

	for _, a := range items {
		if doc, ok := s.Cache.Pet(a.PetID); ok {
			a.Pet = domain.PetSnapshotFromDoc(a.PetID, doc)
		}
		if doc, ok := s.Cache.User(a.UserID); ok {
			a.User = domain.UserSnapshotFromDoc(a.UserID, doc)
		}
	}

	// Fallback pass: a user can be missing from the primary path when the
	// record was written under a legacy layout. Try the directory; log and
	// move on when that misses too.
	if s.Directory != nil {
		for _, a := range items {
			if a.User != nil || a.UserID == "" {
				continue
			}
			doc, err := s.Directory.FetchUserByID(ctx, a.UserID)
			if err != nil || doc == nil {
				log.Warn().Err(err).Str("user_id", a.UserID).Msg("fallback user lookup missed")
				continue
			}
			s.Cache.PutUser(a.UserID, doc)
			a.User = domain.UserSnapshotFromDoc(a.UserID, doc)
		}
	}
	return nil
}

// prefetchRefs warms the pet/user cache for the ENTIRE result set (not just
// the visible page) in the background, so later pages enrich without network
// calls. Failures are swallowed after logging; the caller of the list
// operation must never see them.
func (s *AdoptionService) prefetchRefs(ctx context.Context, items []*domain.Adoption) {
	petIDs := make([]string, 0, len(items))
	userIDs := make([]string, 0, len(items))
	for _, a := range items {
		petIDs = append(petIDs, a.PetID)
		userIDs = append(userIDs, a.UserID)
	}
	bg := context.WithoutCancel(ctx)

	go func() {
		for _, id := range s.Cache.MissingPets(petIDs) {
			doc, err := s.Store.Get(bg, pathPets+"/"+id)
			if err != nil {
				if !errors.Is(err, store.ErrNotFound) {
					log.Debug().Err(err).Str("pet_id", id).Msg("pet prefetch failed")
				}
				continue
			}
			s.Cache.PutPet(id, doc)
		}
		for _, id := range s.Cache.MissingUsers(userIDs) {
			doc, err := s.Store.Get(bg, pathUsers+"/"+id)
			if err != nil {
				if !errors.Is(err, store.ErrNotFound) {
					log.Debug().Err(err).Str("user_id", id).Msg("user prefetch failed")
				}
				continue
			}
			s.Cache.PutUser(id, doc)
		}
	}()
}

// pageFromCache sorts the (optionally filtered) cached set newest-first,
// slices the requested page, and enriches only that slice.
func (s *AdoptionService) pageFromCache(ctx context.Context, keep func(*domain.Adoption) bool, page, pageSize int) ([]*domain.Adoption, int, error) {
	items := s.Cache.Adoptions(keep)
	sortNewestFirst(items)
	lo, hi := utils.PageBounds(len(items), page, pageSize)
	pageItems := items[lo:hi]
	if err := s.enrich(ctx, pageItems); err != nil {
		return nil, 0, err
	}
	return pageItems, len(items), nil
}

// sortNewestFirst orders by CreatedAt descending. Ties are broken by ID so
// pagination over a fixed set is a deterministic partition.
func sortNewestFirst(items []*domain.Adoption) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].CreatedAt != items[j].CreatedAt {
			return items[i].CreatedAt > items[j].CreatedAt
		}
		return items[i].ID < items[j].ID
	})
}

func decodeAdoptions(docs map[string]map[string]any) []*domain.Adoption {
	out := make([]*domain.Adoption, 0, len(docs))
	for id, doc := range docs {
		out = append(out, domain.AdoptionFromDoc(id, doc))
	}
	return out
}

//
// Mutations
//

// UpdateStatus writes the new status (and optional admin notes) remotely,
// updates the canonical cache entry under the cache lock so the next cache
// read reflects it without a store re-fetch, and then best-effort notifies
// the requester. Notification failure never fails the update.
func (s *AdoptionService) UpdateStatus(ctx context.Context, adoptionID, status, notes string) error {
	if !domain.ValidStatus(status) {
		return ErrInvalidStatus
	}
	now := domain.NowMillis()
	fields := domain.Doc{"status": status, "updatedAt": now}
	if notes != "" {
		fields["notes"] = notes
	}
	if err := s.Store.Update(ctx, pathAdoptions+"/"+adoptionID, fields); err != nil {
		log.Error().Err(err).Str("adoption_id", adoptionID).Msg("status update failed")
		return ErrUpdateFailed
	}

	var requester string
	mutated := s.Cache.MutateAdoption(adoptionID, func(a *domain.Adoption) {
		a.Status = status
		a.UpdatedAt = now
		if notes != "" {
			a.Notes = notes
		}
		requester = a.UserID
	})
	if !mutated {
		// Not cached; fetch just enough to address the notification.
		if doc, err := s.Store.Get(ctx, pathAdoptions+"/"+adoptionID); err == nil {
			requester = domain.DocString(doc, "userId")
		}
	}

	if requester != "" {
		s.notify(ctx, requester, &domain.Notification{
			Type:       "adoption_status",
			Title:      "Solicitud de adopción actualizada",
			Message:    statusMessage(status),
			Data:       domain.Doc{"adoptionId": adoptionID, "status": status},
			ActionLink: "/perfil/solicitudes",
			ActionText: "Ver solicitud",
		})
	}
	return nil
}

// statusMessage maps a status to the user-facing Spanish copy.
func statusMessage(status string) string {
	switch status {
	case domain.StatusApproved:
		return "Tu solicitud de adopción ha sido aprobada"
	case domain.StatusRejected:
		return "Tu solicitud de adopción ha sido rechazada"
	case domain.StatusCompleted:
		return "Tu adopción ha sido completada"
	default:
		return "Tu solicitud de adopción ha sido actualizada"
	}
}

// CreateRequest creates a pending adoption request after verifying the
// one-active-request-per-(user, pet) invariant. On violation it returns
// ErrDuplicateRequest without writing. On success the new record is cached
// and the pet's owner is notified best-effort.
//
// The pre-check and the write are not transactional: two concurrent creates
// from different devices can both pass the scan. The flight group does not
// guard writes; the race is accepted, matching the store's capabilities.
func (s *AdoptionService) CreateRequest(ctx context.Context, petID, userID, message string) (*domain.Adoption, error) {
	existing, err := s.Store.QueryEqual(ctx, pathAdoptions, "userId", userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("duplicate pre-check failed")
		return nil, ErrCreateFailed
	}
	for _, doc := range existing {
		if domain.DocString(doc, "petId") == petID && domain.ActiveStatus(domain.DocString(doc, "status")) {
			return nil, ErrDuplicateRequest
		}
	}

	now := domain.NowMillis()
	a := &domain.Adoption{
		PetID:     petID,
		UserID:    userID,
		Status:    domain.StatusPending,
		Message:   message,
		CreatedAt: now,
		UpdatedAt: now,
	}
	id, err := s.Store.Push(ctx, pathAdoptions, a.ToDoc())
	if err != nil {
		log.Error().Err(err).Str("pet_id", petID).Msg("adoption create failed")
		return nil, ErrCreateFailed
	}
	a.ID = id
	s.Cache.PutAdoption(a)

	if ownerID, petName, ok := s.petOwner(ctx, petID); ok {
		s.notify(ctx, ownerID, &domain.Notification{
			Type:       "adoption_request",
			Title:      "Nueva solicitud de adopción",
			Message:    fmt.Sprintf("Has recibido una solicitud de adopción para %s", petName),
			Data:       domain.Doc{"adoptionId": id, "petId": petID, "userId": userID},
			ActionLink: "/perfil/solicitudes-recibidas",
			ActionText: "Revisar solicitud",
		})
	}
	return a, nil
}

// DeleteRequest removes an adoption request (owner cancels). The record is
// read before deletion to resolve the pet for the cancellation notification;
// when that pet lookup fails the delete still succeeds and no notification
// is sent.
func (s *AdoptionService) DeleteRequest(ctx context.Context, adoptionID string) error {
	var petID string
	doc, err := s.Store.Get(ctx, pathAdoptions+"/"+adoptionID)
	switch {
	case err == nil:
		petID = domain.DocString(doc, "petId")
	case errors.Is(err, store.ErrNotFound):
		if a, ok := s.Cache.Adoption(adoptionID); ok {
			petID = a.PetID
		} else {
			return ErrAdoptionNotFound
		}
	default:
		log.Error().Err(err).Str("adoption_id", adoptionID).Msg("read-before-delete failed")
		return ErrDeleteFailed
	}

	if err := s.Store.Remove(ctx, pathAdoptions+"/"+adoptionID); err != nil {
		log.Error().Err(err).Str("adoption_id", adoptionID).Msg("adoption delete failed")
		return ErrDeleteFailed
	}
	s.Cache.RemoveAdoption(adoptionID)

	if ownerID, petName, ok := s.petOwner(ctx, petID); ok {
		s.notify(ctx, ownerID, &domain.Notification{
			Type:    "adoption_cancelled",
			Title:   "Solicitud de adopción cancelada",
			Message: fmt.Sprintf("Una solicitud de adopción para %s ha sido cancelada", petName),
			Data:    domain.Doc{"adoptionId": adoptionID, "petId": petID},
		})
	}
	return nil
}

// StoryInput carries the optional success-story fields of the confirm saga.
type StoryInput struct {
	Title   string
	Content string
}

// ConfirmAndVerify runs the multi-step completion saga: mark the adoption
// completed, mark the pet adopted, create a verification record, index it
// under the adopter's profile, optionally create an adoption story (at most
// one per pet, checked via the stories index), and notify the adopter.
//
// Each step is a separate remote write with no rollback: a failure surfaces
// from this boundary with earlier steps already applied. The sequence is
// idempotent enough to re-run keyed by adoptionID (updates are merges, the
// story is existence-checked).
func (s *AdoptionService) ConfirmAndVerify(ctx context.Context, adoptionID, verifierID string, story *StoryInput) error {
	a, ok := s.Cache.Adoption(adoptionID)
	if !ok {
		doc, err := s.Store.Get(ctx, pathAdoptions+"/"+adoptionID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrAdoptionNotFound
			}
			log.Error().Err(err).Str("adoption_id", adoptionID).Msg("confirm lookup failed")
			return ErrConfirmFailed
		}
		a = domain.AdoptionFromDoc(adoptionID, doc)
		s.Cache.PutAdoption(a)
	}
	now := domain.NowMillis()

	// (a) adoption → completed
	if err := s.Store.Update(ctx, pathAdoptions+"/"+adoptionID, domain.Doc{
		"status": domain.StatusCompleted, "updatedAt": now,
	}); err != nil {
		return fmt.Errorf("%w: %v", ErrConfirmFailed, err)
	}
	s.Cache.MutateAdoption(adoptionID, func(ad *domain.Adoption) {
		ad.Status = domain.StatusCompleted
		ad.UpdatedAt = now
	})

	// (b) pet → adopted, with adopter reference
	if err := s.Store.Update(ctx, pathPets+"/"+a.PetID, domain.Doc{
		"adopted": true, "adoptedBy": a.UserID, "adoptedAt": now,
	}); err != nil {
		return fmt.Errorf("%w: %v", ErrConfirmFailed, err)
	}

	// (c) verification record
	v := &domain.AdoptionVerification{
		AdoptionID: adoptionID,
		PetID:      a.PetID,
		UserID:     a.UserID,
		VerifierID: verifierID,
		VerifiedAt: now,
	}
	verID, err := s.Store.Push(ctx, pathVerifications, v.ToDoc())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConfirmFailed, err)
	}

	// (d) index the verification under the adopter's profile
	if err := s.Store.Set(ctx, pathUserVerifs+"/"+a.UserID+"/"+verID, domain.Doc{
		"adoptionId": adoptionID, "verifiedAt": now,
	}); err != nil {
		return fmt.Errorf("%w: %v", ErrConfirmFailed, err)
	}

	// (e) optional story, at most one per pet
	if story != nil {
		existing, err := s.Store.QueryEqual(ctx, pathStories, "petId", a.PetID)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrConfirmFailed, err)
		}
		if len(existing) == 0 {
			st := &domain.AdoptionStory{
				PetID:     a.PetID,
				UserID:    a.UserID,
				Title:     story.Title,
				Content:   story.Content,
				CreatedAt: now,
			}
			if _, err := s.Store.Push(ctx, pathStories, st.ToDoc()); err != nil {
				return fmt.Errorf("%w: %v", ErrConfirmFailed, err)
			}
		}
	}

	// (f) notify the adopter
	s.notify(ctx, a.UserID, &domain.Notification{
		Type:       "adoption_completed",
		Title:      "¡Adopción completada!",
		Message:    "Tu adopción ha sido completada y verificada. ¡Felicidades!",
		Data:       domain.Doc{"adoptionId": adoptionID, "petId": a.PetID},
		ActionLink: "/perfil/adopciones",
		ActionText: "Ver adopción",
	})
	return nil
}

//
// Helpers
//

// petOwner resolves the owner and display name of a pet through the cache,
// falling back to the store. ok is false when the pet cannot be resolved.
func (s *AdoptionService) petOwner(ctx context.Context, petID string) (ownerID, petName string, ok bool) {
	if petID == "" {
		return "", "", false
	}
	doc, cached := s.Cache.Pet(petID)
	if !cached {
		var err error
		doc, err = s.Store.Get(ctx, pathPets+"/"+petID)
		if err != nil {
			log.Warn().Err(err).Str("pet_id", petID).Msg("pet lookup for notification failed")
			return "", "", false
		}
		s.Cache.PutPet(petID, doc)
	}
	ownerID = domain.PetOwnerID(doc)
	if ownerID == "" {
		return "", "", false
	}
	petName = domain.DocString(doc, "name")
	if petName == "" {
		petName = domain.PlaceholderName
	}
	return ownerID, petName, true
}

// notify delivers a notification best-effort; failures are logged in their
// own scope so they cannot fail the primary mutation.
func (s *AdoptionService) notify(ctx context.Context, targetUserID string, n *domain.Notification) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.CreateNotification(ctx, targetUserID, n); err != nil {
		log.Warn().Err(err).Str("target", targetUserID).Str("type", n.Type).Msg("notification failed")
	}
}
