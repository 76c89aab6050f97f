package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/ekverified/app-backend/models"
	"github.com/ekverified/app-backend/store"
	"github.com/ekverified/app-backend/utils"
)

type NotificationService struct {
	Store store.Store
}

func NewNotificationService(s store.Store) *NotificationService {
	return &NotificationService{Store: s}
}

// Notify records a single notification addressed to one member.
func (s *NotificationService) Notify(ctx context.Context, member, message string) error {
	if member == "" || message == "" {
		return ErrInvalidInput
	}
	n := models.Notification{
		ID:      uuid.NewString(),
		Message: message,
		Member:  member,
		Read:    false,
	}
	return store.Update(ctx, s.Store, CollNotifications, func(notifs []models.Notification) ([]models.Notification, error) {
		return append(notifs, n), nil
	})
}

// Broadcast fans one message out to every current member. The fan-out is
// bounded by the member collection size at call time.
func (s *NotificationService) Broadcast(ctx context.Context, message string) error {
	members, _, err := store.Load[models.Member](ctx, s.Store, CollMembers)
	if err != nil {
		return err
	}

	return store.Update(ctx, s.Store, CollNotifications, func(notifs []models.Notification) ([]models.Notification, error) {
		for _, m := range members {
			notifs = append(notifs, models.Notification{
				ID:      uuid.NewString(),
				Message: message,
				Member:  m.Email,
				Read:    false,
			})
		}
		return notifs, nil
	})
}

// List returns notifications, optionally filtered by member. Callers with the
// plain member role only ever see their own; the filter comes from their
// claims, not the request.
func (s *NotificationService) List(ctx context.Context, member string, actor *utils.Claims) ([]models.Notification, error) {
	if actor != nil && actor.Role == models.RoleMember {
		member = actor.Email
	}

	notifs, _, err := store.Load[models.Notification](ctx, s.Store, CollNotifications)
	if err != nil {
		return nil, err
	}

	out := make([]models.Notification, 0, len(notifs))
	for _, n := range notifs {
		if member != "" && n.Member != member {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

// MarkRead flips the read flag; the only mutation a notification supports.
// Plain members may only mark their own notifications.
func (s *NotificationService) MarkRead(ctx context.Context, id string, actor *utils.Claims) error {
	return store.Update(ctx, s.Store, CollNotifications, func(notifs []models.Notification) ([]models.Notification, error) {
		for i := range notifs {
			if notifs[i].ID == id {
				if actor != nil && actor.Role == models.RoleMember && notifs[i].Member != actor.Email {
					return nil, ErrInsufficientRole
				}
				notifs[i].Read = true
				return notifs, nil
			}
		}
		return nil, ErrNotFound
	})
}
