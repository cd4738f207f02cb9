package service

import (
	"context"
	"errors"
	"strings"

	"github.com/01moynul/campusmart/internal/models"
	"github.com/01moynul/campusmart/internal/repository"
)

// Realtime event names pushed to clients.
const (
	EventMessageNew     = "message:new"
	EventMessageSent    = "message:sent"
	EventMessagesRead   = "messages:read"
	EventMessageRead    = "message:read"
	EventTypingStarted  = "typing:started"
	EventTypingStopped  = "typing:stopped"
	EventUserOnline     = "user:online"
	EventUserOffline    = "user:offline"
	EventUsersOnlineSet = "users:online"
)

type MessageService struct {
	messages MessageStore
	users    UserStore
	notifier Notifier
}

func NewMessageService(messages MessageStore, users UserStore, notifier Notifier) *MessageService {
	return &MessageService{messages: messages, users: users, notifier: notifier}
}

// Send persists a direct message and fans it out: message:new to the
// receiver when online, message:sent to all of the sender's connections.
func (s *MessageService) Send(ctx context.Context, senderID, receiverID int64, content string, productID *int64) (*models.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, Validation("Message content is required")
	}
	if receiverID <= 0 {
		return nil, Validation("A valid receiverId is required")
	}
	if productID != nil && *productID <= 0 {
		productID = nil
	}

	if _, err := s.users.GetByID(ctx, receiverID); errors.Is(err, repository.ErrNotFound) {
		return nil, NotFound("Receiver not found")
	} else if err != nil {
		return nil, Internal(err)
	}

	m := &models.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		ProductID:  productID,
		Content:    content,
	}
	if err := s.messages.Create(ctx, m); err != nil {
		return nil, Internal(err)
	}

	if s.notifier.IsOnline(receiverID) {
		s.notifier.Emit(receiverID, EventMessageNew, map[string]interface{}{
			"message":             m,
			"conversationUpdated": true,
		})
	}
	s.notifier.Emit(senderID, EventMessageSent, map[string]interface{}{"message": m})
	return m, nil
}

func (s *MessageService) Mine(ctx context.Context, userID int64) ([]models.Message, error) {
	msgs, err := s.messages.ListForUser(ctx, userID)
	if err != nil {
		return nil, Internal(err)
	}
	return msgs, nil
}

// Conversation marks the counterpart's unread messages to the caller as
// read in one update, tells the counterpart how many were read, and returns
// the thread oldest first along with that count.
func (s *MessageService) Conversation(ctx context.Context, userID, otherID int64, productID *int64) ([]models.Message, int64, error) {
	if otherID <= 0 {
		return nil, 0, Validation("Invalid user id")
	}

	marked, err := s.messages.MarkConversationRead(ctx, otherID, userID, productID)
	if err != nil {
		return nil, 0, Internal(err)
	}
	if marked > 0 {
		s.notifier.Emit(otherID, EventMessagesRead, map[string]interface{}{
			"readBy": userID,
			"count":  marked,
		})
	}

	msgs, err := s.messages.Conversation(ctx, userID, otherID, productID)
	if err != nil {
		return nil, 0, Internal(err)
	}
	return msgs, marked, nil
}

// MarkRead flips one message to read. Only its receiver may do that.
func (s *MessageService) MarkRead(ctx context.Context, userID, messageID int64) (*models.Message, error) {
	m, err := s.messages.GetByID(ctx, messageID)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && m.ReceiverID != userID) {
		return nil, NotFound("Message not found")
	}
	if err != nil {
		return nil, Internal(err)
	}

	if !m.IsRead {
		if err := s.messages.MarkRead(ctx, messageID); err != nil {
			return nil, Internal(err)
		}
		m.IsRead = true
	}
	s.notifier.Emit(m.SenderID, EventMessageRead, map[string]interface{}{
		"messageId": m.ID,
		"readBy":    userID,
	})
	return m, nil
}
