// Package domain defines the record types held in the remote document store
// (adoptions, pets, users, notifications) and the enriched snapshot shapes
// attached to adoption requests at read time.
//
// The store is a hierarchical key-value document database: collections arrive
// as key→document maps, documents are schemaless, and field names drift
// between client versions (see normalize.go). Every type here therefore
// carries a FromDoc constructor that tolerates missing or mistyped fields.
package domain

import "time"

// Doc is a raw, schemaless document as returned by the remote store.
type Doc = map[string]any

// Adoption statuses. An adoption request is "active" while it is pending or
// approved; completed and rejected requests are terminal.
const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusCompleted = "completed"
)

// ValidStatus reports whether s is one of the four adoption statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusCompleted:
		return true
	}
	return false
}

// ActiveStatus reports whether s counts toward the one-active-request-per-
// (user, pet) invariant enforced at creation time.
func ActiveStatus(s string) bool {
	return s == StatusPending || s == StatusApproved
}

// Adoption represents one adoption request. Pet and User are denormalized
// snapshots attached by the enricher for display; they are never written back
// to the store.
type Adoption struct {
	ID        string `json:"id"`
	PetID     string `json:"petId"`
	UserID    string `json:"userId"`
	Status    string `json:"status"`
	Message   string `json:"message,omitempty"`
	Notes     string `json:"notes,omitempty"`
	CreatedAt int64  `json:"createdAt"` // epoch millis
	UpdatedAt int64  `json:"updatedAt"` // epoch millis

	Pet  *PetSnapshot  `json:"pet,omitempty"`
	User *UserSnapshot `json:"user,omitempty"`
}

// AdoptionFromDoc builds an Adoption from a raw store document, tagging it
// with the store key as its ID.
func AdoptionFromDoc(id string, doc Doc) *Adoption {
	return &Adoption{
		ID:        id,
		PetID:     DocString(doc, "petId"),
		UserID:    DocString(doc, "userId"),
		Status:    DocString(doc, "status"),
		Message:   DocString(doc, "message"),
		Notes:     DocString(doc, "notes"),
		CreatedAt: DocInt64(doc, "createdAt"),
		UpdatedAt: DocInt64(doc, "updatedAt"),
	}
}

// ToDoc returns the persistable form of the adoption. Snapshots and the ID
// (which lives in the store key) are excluded.
func (a *Adoption) ToDoc() Doc {
	doc := Doc{
		"petId":     a.PetID,
		"userId":    a.UserID,
		"status":    a.Status,
		"createdAt": a.CreatedAt,
		"updatedAt": a.UpdatedAt,
	}
	if a.Message != "" {
		doc["message"] = a.Message
	}
	if a.Notes != "" {
		doc["notes"] = a.Notes
	}
	return doc
}

// PetSnapshot is the read-only pet view embedded in an enriched adoption.
type PetSnapshot struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Species     string `json:"species"`
	Breed       string `json:"breed"`
	Age         string `json:"age"`
	Gender      string `json:"gender"`
	Size        string `json:"size"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
	OwnerID     string `json:"ownerId"`
}

// UserSnapshot is the read-only user view embedded in an enriched adoption.
// Exactly one canonical field exists per concept regardless of which alias
// the source document used.
type UserSnapshot struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	PhotoURL string `json:"photoURL"`
}

// Notification is the payload persisted for a user under notifications/{uid}.
type Notification struct {
	ID         string `json:"id,omitempty"`
	Type       string `json:"type"`
	Title      string `json:"title"`
	Message    string `json:"message"`
	Data       Doc    `json:"data,omitempty"`
	ActionLink string `json:"actionLink,omitempty"`
	ActionText string `json:"actionText,omitempty"`
	Read       bool   `json:"read"`
	CreatedAt  int64  `json:"createdAt"`
}

// ToDoc returns the persistable form of the notification.
func (n *Notification) ToDoc() Doc {
	doc := Doc{
		"type":      n.Type,
		"title":     n.Title,
		"message":   n.Message,
		"read":      n.Read,
		"createdAt": n.CreatedAt,
	}
	if len(n.Data) > 0 {
		doc["data"] = n.Data
	}
	if n.ActionLink != "" {
		doc["actionLink"] = n.ActionLink
	}
	if n.ActionText != "" {
		doc["actionText"] = n.ActionText
	}
	return doc
}

// NotificationFromDoc builds a Notification from a raw store document.
func NotificationFromDoc(id string, doc Doc) *Notification {
	data, _ := doc["data"].(map[string]any)
	read, _ := doc["read"].(bool)
	return &Notification{
		ID:         id,
		Type:       DocString(doc, "type"),
		Title:      DocString(doc, "title"),
		Message:    DocString(doc, "message"),
		Data:       data,
		ActionLink: DocString(doc, "actionLink"),
		ActionText: DocString(doc, "actionText"),
		Read:       read,
		CreatedAt:  DocInt64(doc, "createdAt"),
	}
}

// AdoptionVerification records a completed adoption confirmed by a verifier.
// It is written as one step of the confirm saga (see services.AdoptionService).
type AdoptionVerification struct {
	ID         string `json:"id,omitempty"`
	AdoptionID string `json:"adoptionId"`
	PetID      string `json:"petId"`
	UserID     string `json:"userId"`
	VerifierID string `json:"verifierId,omitempty"`
	VerifiedAt int64  `json:"verifiedAt"`
}

// ToDoc returns the persistable form of the verification.
func (v *AdoptionVerification) ToDoc() Doc {
	doc := Doc{
		"adoptionId": v.AdoptionID,
		"petId":      v.PetID,
		"userId":     v.UserID,
		"verifiedAt": v.VerifiedAt,
	}
	if v.VerifierID != "" {
		doc["verifierId"] = v.VerifierID
	}
	return doc
}

// AdoptionStory is an optional success story created at most once per pet
// when an adoption is confirmed.
type AdoptionStory struct {
	ID        string `json:"id,omitempty"`
	PetID     string `json:"petId"`
	UserID    string `json:"userId"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	CreatedAt int64  `json:"createdAt"`
}

// ToDoc returns the persistable form of the story.
func (s *AdoptionStory) ToDoc() Doc {
	return Doc{
		"petId":     s.PetID,
		"userId":    s.UserID,
		"title":     s.Title,
		"content":   s.Content,
		"createdAt": s.CreatedAt,
	}
}

// IdempotencyRecord is the stored result of a previously processed create
// request, keyed by (user, key). It lets POST retries return the originally
// created adoption without re-executing side effects.
type IdempotencyRecord struct {
	AdoptionID string `json:"adoptionId"`
	Status     int    `json:"status"`
	CreatedAt  int64  `json:"createdAt"`
	ExpiresAt  int64  `json:"expiresAt"`
}

// NowMillis returns the current time as epoch milliseconds, the timestamp
// representation used throughout the store.
func NowMillis() int64 { return time.Now().UnixMilli() }

// DocString extracts a string field from a raw document, returning "" when
// the field is absent or not a string.
func DocString(doc Doc, key string) string {
	if doc == nil {
		return ""
	}
	s, _ := doc[key].(string)
	return s
}

// DocInt64 extracts a numeric field from a raw document. JSON decoding yields
// float64; documents written in-process may carry int or int64.
func DocInt64(doc Doc, key string) int64 {
	if doc == nil {
		return 0
	}
	switch v := doc[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	}
	return 0
}
