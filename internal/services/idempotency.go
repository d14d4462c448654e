package services

import (
	"context"
	"errors"
	"time"

	"github.com/adoptazulia/go-adoptions-backend/internal/domain"
	"github.com/adoptazulia/go-adoptions-backend/internal/store"
)

const pathIdempotency = "idempotency"

// IdempotencyService persists the outcome of keyed create requests so POST
// retries with the same Idempotency-Key return the original adoption instead
// of creating a second one.
type IdempotencyService struct {
	Store store.Store
	TTL   time.Duration
}

// NewIdempotencyService wires an IdempotencyService with the given record TTL.
func NewIdempotencyService(st store.Store, ttl time.Duration) *IdempotencyService {
	return &IdempotencyService{Store: st, TTL: ttl}
}

func idemDocKey(userID, key string) string {
	return userID + ":" + key
}

// Lookup reports whether a stored, unexpired record exists for (userID, key).
// It matches the middleware's lookup contract: errors are returned for
// diagnostics only and must not block processing.
func (s *IdempotencyService) Lookup(ctx context.Context, userID, key string, now time.Time) (bool, error) {
	if userID == "" || key == "" {
		return false, nil
	}
	rec, err := s.Get(ctx, userID, key)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return rec.ExpiresAt > now.UnixMilli(), nil
}

// Get returns the stored record for (userID, key), or store.ErrNotFound.
func (s *IdempotencyService) Get(ctx context.Context, userID, key string) (*domain.IdempotencyRecord, error) {
	doc, err := s.Store.Get(ctx, pathIdempotency+"/"+idemDocKey(userID, key))
	if err != nil {
		return nil, err
	}
	return &domain.IdempotencyRecord{
		AdoptionID: domain.DocString(doc, "adoptionId"),
		Status:     int(domain.DocInt64(doc, "status")),
		CreatedAt:  domain.DocInt64(doc, "createdAt"),
		ExpiresAt:  domain.DocInt64(doc, "expiresAt"),
	}, nil
}

// Save records that the keyed request created adoptionID with the given HTTP
// status. The record expires after the configured TTL.
func (s *IdempotencyService) Save(ctx context.Context, userID, key, adoptionID string, status int) error {
	now := domain.NowMillis()
	return s.Store.Set(ctx, pathIdempotency+"/"+idemDocKey(userID, key), domain.Doc{
		"adoptionId": adoptionID,
		"status":     status,
		"createdAt":  now,
		"expiresAt":  now + s.TTL.Milliseconds(),
	})
}
