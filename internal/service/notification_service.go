package service

import (
	"context"
	"errors"

	"github.com/01moynul/campusmart/internal/models"
	"github.com/01moynul/campusmart/internal/repository"
)

// NotificationService is a user's own inbox.
type NotificationService struct {
	notifications NotificationStore
}

func NewNotificationService(notifications NotificationStore) *NotificationService {
	return &NotificationService{notifications: notifications}
}

func (s *NotificationService) Mine(ctx context.Context, userID int64) ([]models.Notification, error) {
	out, err := s.notifications.ListForUser(ctx, userID)
	if err != nil {
		return nil, Internal(err)
	}
	return out, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, id int64) error {
	err := s.notifications.MarkRead(ctx, id, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return NotFound("Notification not found")
	}
	if err != nil {
		return Internal(err)
	}
	return nil
}
