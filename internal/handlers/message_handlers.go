package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type sendMessageInput struct {
	ReceiverID int64  `json:"receiverId"`
	Content    string `json:"content"`
	ProductID  *int64 `json:"productId"`
}

// SendMessage handles POST /api/messages. Delivery to connected clients
// happens inside the service.
func (h *Handlers) SendMessage(c *gin.Context) {
	var input sendMessageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	userID, _ := identity(c)
	msg, err := h.Messages.Send(c.Request.Context(), userID, input.ReceiverID, input.Content, input.ProductID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, "Message sent", msg)
}

func (h *Handlers) MyMessages(c *gin.Context) {
	userID, _ := identity(c)
	msgs, err := h.Messages.Mine(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Messages fetched", msgs)
}

// Conversation handles GET /api/messages/conversation/:otherUserId. Unread
// messages addressed to the caller are marked read as a side effect.
func (h *Handlers) Conversation(c *gin.Context) {
	otherID, ok := pathID(c, "otherUserId")
	if !ok {
		return
	}
	userID, _ := identity(c)
	msgs, marked, err := h.Messages.Conversation(c.Request.Context(), userID, otherID, optionalID(c, "productId"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Conversation fetched", gin.H{"messages": msgs, "markedRead": marked})
}

func (h *Handlers) MarkMessageRead(c *gin.Context) {
	id, ok := pathID(c, "messageId")
	if !ok {
		return
	}
	userID, _ := identity(c)
	msg, err := h.Messages.MarkRead(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Message marked as read", msg)
}
