// Package services – notifications.
//
// Notifier is the narrow contract the adoption and pet services use to emit
// user notifications. Every call site treats delivery as fire-and-forget:
// failures are logged and never propagated to the primary operation.
// NotificationService is the full store-backed implementation, which also
// serves the list and mark-read endpoints.
package services

import (
	"context"
	"errors"
	"sort"

	"github.com/adoptazulia/go-adoptions-backend/internal/domain"
	"github.com/adoptazulia/go-adoptions-backend/internal/store"
)

// Notifier delivers a notification to a target user.
type Notifier interface {
	// CreateNotification persists n for targetUserID. CreatedAt and Read are
	// set by the implementation when zero-valued.
	CreateNotification(ctx context.Context, targetUserID string, n *domain.Notification) error
}

// NotificationService persists notifications under notifications/{userID}
// in the document store.
type NotificationService struct {
	Store store.Store
}

// CreateNotification implements Notifier.
func (s *NotificationService) CreateNotification(ctx context.Context, targetUserID string, n *domain.Notification) error {
	if targetUserID == "" {
		return errors.New("notification target user is empty")
	}
	if n.CreatedAt == 0 {
		n.CreatedAt = domain.NowMillis()
	}
	id, err := s.Store.Push(ctx, "notifications/"+targetUserID, n.ToDoc())
	if err != nil {
		return err
	}
	n.ID = id
	return nil
}

// ListForUser returns the user's notifications, newest first.
func (s *NotificationService) ListForUser(ctx context.Context, userID string) ([]*domain.Notification, error) {
	docs, err := s.Store.GetCollection(ctx, "notifications/"+userID)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Notification, 0, len(docs))
	for id, doc := range docs {
		out = append(out, domain.NotificationFromDoc(id, doc))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt != out[j].CreatedAt {
			return out[i].CreatedAt > out[j].CreatedAt
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// MarkRead flags one notification as read.
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID string) error {
	return s.Store.Update(ctx, "notifications/"+userID+"/"+notificationID, domain.Doc{"read": true})
}
