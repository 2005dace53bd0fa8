package handlers

import (
	"net/http"

	"divelink/internal/discussion"
	"divelink/internal/utils"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	store *discussion.Store
}

func NewNotificationHandler(store *discussion.Store) *NotificationHandler {
	return &NotificationHandler{store: store}
}

// List returns the caller's unread notifications, newest first.
func (h *NotificationHandler) List(c *gin.Context) {
	user := CurrentUser(c)

	notifications, err := h.store.ListNotifications(user.ID)
	if err != nil {
		jsonError(c, http.StatusInternalServerError, "서버 오류가 발생했습니다.")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"notifications": notifications,
		"unread":        len(notifications),
	})
}

// MarkRead flips one of the caller's notifications to read.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	user := CurrentUser(c)
	id := uint(utils.StringToInt(c.Param("id")))

	if err := h.store.MarkNotificationRead(id, user.ID); err != nil {
		discussionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// MarkAllRead clears the caller's unread pile in one shot.
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	user := CurrentUser(c)

	if err := h.store.MarkAllNotificationsRead(user.ID); err != nil {
		jsonError(c, http.StatusInternalServerError, "서버 오류가 발생했습니다.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
