// Notification HTTP handlers.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adoptazulia/go-adoptions-backend/internal/domain"
)

// NotificationService defines the notification operations consumed by HTTP
// handlers.
type NotificationService interface {
	ListForUser(ctx context.Context, userID string) ([]*domain.Notification, error)
	MarkRead(ctx context.Context, userID, notificationID string) error
}

// ListNotifications godoc
// @ID          listNotifications
// @Summary     List the caller's notifications, newest first
// @Tags        Notifications
// @Produce     json
// @Param       X-User-ID  header  string  true  "User ID"
// @Success     200  {array}   domain.Notification
// @Failure     401  {object}  handlers.ErrorResponse  "Missing user identity"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /notifications [get]
func (h *Handlers) ListNotifications(c *gin.Context) {
	uid := callerID(c)
	if uid == "" {
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "user identity required")
		return
	}

	items, err := h.notifSvc.ListForUser(c.Request.Context(), uid)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	if items == nil {
		items = []*domain.Notification{}
	}
	ok(c, http.StatusOK, items)
}

// MarkNotificationRead godoc
// @ID          markNotificationRead
// @Summary     Mark one of the caller's notifications as read
// @Tags        Notifications
// @Produce     json
// @Param       X-User-ID  header  string  true  "User ID"
// @Param       id         path    string  true  "Notification ID"
// @Success     204  {string}  string  "No Content"
// @Failure     401  {object}  handlers.ErrorResponse  "Missing user identity"
// @Failure     500  {object}  handlers.ErrorResponse  "Update failed"
// @Router      /notifications/{id}/read [put]
func (h *Handlers) MarkNotificationRead(c *gin.Context) {
	uid := callerID(c)
	if uid == "" {
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "user identity required")
		return
	}

	if err := h.notifSvc.MarkRead(c.Request.Context(), uid, c.Param("id")); err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeUpdateFailed, err.Error())
		return
	}
	noContent(c)
}
