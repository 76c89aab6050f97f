package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ekverified/app-backend/logging"
	"github.com/ekverified/app-backend/models"
	"github.com/ekverified/app-backend/store"
	"github.com/ekverified/app-backend/utils"
)

// QueueService manages the chairperson's approval queue. Items are submitted
// by the role owning their type and consumed only by the chairperson, whose
// approval publishes the payload and announces it to every member.
type QueueService struct {
	Store         store.Store
	Notifications *NotificationService
}

func NewQueueService(s store.Store, notifications *NotificationService) *QueueService {
	return &QueueService{Store: s, Notifications: notifications}
}

// submitterRoles maps an item type to the roles allowed to stage it. The
// chairperson may stage anything.
var submitterRoles = map[string][]string{
	models.QueueTypeMinutes: {models.RoleSecretary, models.RoleChairperson},
	models.QueueTypeLoan:    {models.RoleTreasurer, models.RoleChairperson},
	models.QueueTypeReport:  {models.RoleTreasurer, models.RoleChairperson},
}

func (s *QueueService) Submit(ctx context.Context, actor *utils.Claims, itemType string, data json.RawMessage, author string) (models.QueueItem, error) {
	allowed, ok := submitterRoles[itemType]
	if !ok {
		return models.QueueItem{}, fmt.Errorf("%w: unknown queue item type %s", ErrInvalidInput, itemType)
	}
	if !contains(allowed, actor.Role) {
		return models.QueueItem{}, ErrInsufficientRole
	}
	if author == "" {
		author = actor.Name
	}

	item := models.QueueItem{
		ID:     uuid.NewString(),
		Type:   itemType,
		Data:   data,
		Author: author,
		Status: models.QueuePending,
	}

	err := store.Update(ctx, s.Store, CollChairQueue, func(queue []models.QueueItem) ([]models.QueueItem, error) {
		return append(queue, item), nil
	})
	if err != nil {
		return models.QueueItem{}, err
	}

	logging.Logger.Infof("Event ID: QUEUE_ITEM_SUBMITTED, Description: %s item %s staged by %s", itemType, item.ID, author)
	return item, nil
}

func (s *QueueService) List(ctx context.Context) ([]models.QueueItem, error) {
	queue, _, err := store.Load[models.QueueItem](ctx, s.Store, CollChairQueue)
	if err != nil {
		return nil, err
	}
	return queue, nil
}

// Approve flips a pending item to Approved and publishes its payload: Minutes
// become a News entry, Reports an ApprovedReports entry, Loans are already
// handled by the loan workflow. The item is kept for audit. Every member is
// notified of the approval.
func (s *QueueService) Approve(ctx context.Context, actor *utils.Claims, id, signature string) (models.QueueItem, error) {
	if actor.Role != models.RoleChairperson {
		return models.QueueItem{}, ErrInsufficientRole
	}

	var approved models.QueueItem
	err := store.Update(ctx, s.Store, CollChairQueue, func(queue []models.QueueItem) ([]models.QueueItem, error) {
		for i := range queue {
			if queue[i].ID != id {
				continue
			}
			if queue[i].Status != models.QueuePending {
				return nil, fmt.Errorf("%w: item is already %s", ErrInvalidTransition, queue[i].Status)
			}
			queue[i].Status = models.QueueApproved
			if signature != "" {
				queue[i].Signature = signature
			}
			approved = queue[i]
			return queue, nil
		}
		return nil, ErrNotFound
	})
	if err != nil {
		return models.QueueItem{}, err
	}

	if err := s.publish(ctx, approved, actor.Name); err != nil {
		logging.Logger.Errorf("Event ID: QUEUE_PUBLISH_FAILED, Description: Approved item %s could not be published: %v", id, err)
		return models.QueueItem{}, err
	}

	msg := fmt.Sprintf("%s item submitted by %s has been approved by the chairperson", approved.Type, approved.Author)
	if err := s.Notifications.Broadcast(ctx, msg); err != nil {
		logging.Logger.Errorf("Event ID: QUEUE_BROADCAST_FAILED, Description: Approval of item %s not announced: %v", id, err)
	}

	logging.Logger.Infof("Event ID: QUEUE_ITEM_APPROVED, Description: %s item %s approved by %s", approved.Type, id, actor.Email)
	return approved, nil
}

func (s *QueueService) publish(ctx context.Context, item models.QueueItem, approver string) error {
	now := time.Now().Format("2006-01-02 15:04:05")

	switch item.Type {
	case models.QueueTypeMinutes:
		var payload struct {
			Text string `json:"text"`
		}
		if err := json.Unmarshal(item.Data, &payload); err != nil {
			return fmt.Errorf("%w: minutes payload is not valid JSON", ErrInvalidInput)
		}
		entry := models.News{
			ID:         uuid.NewString(),
			Text:       payload.Text,
			SignedBy:   approver,
			ApprovedAt: now,
		}
		return store.Update(ctx, s.Store, CollNews, func(news []models.News) ([]models.News, error) {
			return append([]models.News{entry}, news...), nil
		})

	case models.QueueTypeReport:
		var payload struct {
			Text string `json:"text"`
			File string `json:"file"`
		}
		if err := json.Unmarshal(item.Data, &payload); err != nil {
			return fmt.Errorf("%w: report payload is not valid JSON", ErrInvalidInput)
		}
		report := models.ApprovedReport{
			ID:       uuid.NewString(),
			Text:     payload.Text,
			File:     payload.File,
			SignedBy: approver,
		}
		return store.Update(ctx, s.Store, CollApprovedReports, func(reports []models.ApprovedReport) ([]models.ApprovedReport, error) {
			return append(reports, report), nil
		})

	case models.QueueTypeLoan:
		// Publication handled by the loan workflow.
		return nil
	}
	return nil
}

func contains(roles []string, role string) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
