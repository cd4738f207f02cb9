package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// MyNotifications handles GET /api/notifications.
func (h *Handlers) MyNotifications(c *gin.Context) {
	userID, _ := identity(c)
	list, err := h.Notifications.Mine(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Notifications fetched", list)
}

func (h *Handlers) MarkNotificationRead(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID, _ := identity(c)
	if err := h.Notifications.MarkRead(c.Request.Context(), userID, id); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Notification marked as read", nil)
}
