package services

import (
	"context"
	"log"

	"github.com/adityarane/GymBuddyBack/internal/models"
	"github.com/adityarane/GymBuddyBack/internal/repository"
)

// Notifier records a user-facing event. Implementations must be safe to
// call after a state transition has committed: delivery failure is the
// notifier's problem, never the caller's.
type Notifier interface {
	Notify(ctx context.Context, userID int64, ntype, message string, relatedID int64, relatedModel string)
}

type notificationWriter interface {
	Create(ctx context.Context, input repository.CreateNotificationInput) (*models.Notification, error)
}

type notificationPusher interface {
	PushToUser(userID int64, notification *models.Notification)
}

type unreadCounter interface {
	Increment(ctx context.Context, userID int64)
	Invalidate(ctx context.Context, userID int64)
}

type NotificationService struct {
	notificationRepo notificationWriter
	hub              notificationPusher
	unread           unreadCounter
}

func NewNotificationService(
	notificationRepo notificationWriter,
	hub notificationPusher,
	unread unreadCounter,
) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		hub:              hub,
		unread:           unread,
	}
}

// Notify persists an in-app notification and pushes it to any live
// websocket connections. All failures are logged and swallowed: the match
// or ticket mutation that triggered the event has already committed.
func (s *NotificationService) Notify(
	ctx context.Context,
	userID int64,
	ntype, message string,
	relatedID int64,
	relatedModel string,
) {
	notification, err := s.notificationRepo.Create(ctx, repository.CreateNotificationInput{
		UserID:       userID,
		Type:         ntype,
		Message:      message,
		RelatedID:    relatedID,
		RelatedModel: relatedModel,
	})
	if err != nil {
		log.Printf("notify user %d (%s): %v", userID, ntype, err)
		return
	}

	if s.unread != nil {
		s.unread.Increment(ctx, userID)
	}
	if s.hub != nil {
		s.hub.PushToUser(userID, notification)
	}
}
