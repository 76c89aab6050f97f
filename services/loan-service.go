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

// LoanService owns the loan approval state machine:
//
//	Pending -> Treasurer Approved -> Secretary Approved -> Chair Approved
//
// with Rejected reachable from any non-terminal state. Each stage may only be
// advanced by the role owning the next stage.
type LoanService struct {
	Store         store.Store
	Notifications *NotificationService
}

func NewLoanService(s store.Store, notifications *NotificationService) *LoanService {
	return &LoanService{Store: s, Notifications: notifications}
}

// nextStage maps a non-terminal status to the stage that follows and the role
// allowed to take it there.
var nextStage = map[string]struct {
	status string
	role   string
}{
	models.LoanPending:           {models.LoanTreasurerApproved, models.RoleTreasurer},
	models.LoanTreasurerApproved: {models.LoanSecretaryApproved, models.RoleSecretary},
	models.LoanSecretaryApproved: {models.LoanChairApproved, models.RoleChairperson},
}

func (s *LoanService) Create(ctx context.Context, amount float64, purpose, member string) (models.LoanRequest, error) {
	if amount <= 0 || member == "" {
		return models.LoanRequest{}, fmt.Errorf("%w: a positive amount and a member are required", ErrInvalidInput)
	}

	loan := models.LoanRequest{
		ID:      uuid.NewString(),
		Amount:  amount,
		Purpose: purpose,
		Member:  member,
		Status:  models.LoanPending,
		Date:    time.Now().Format("2006-01-02"),
	}

	err := store.Update(ctx, s.Store, CollLoans, func(loans []models.LoanRequest) ([]models.LoanRequest, error) {
		return append(loans, loan), nil
	})
	if err != nil {
		return models.LoanRequest{}, err
	}

	logging.Logger.Infof("Event ID: LOAN_SUBMITTED, Description: Loan %s submitted by %s", loan.ID, loan.Member)
	return loan, nil
}

func (s *LoanService) List(ctx context.Context, member, status string) ([]models.LoanRequest, error) {
	loans, _, err := store.Load[models.LoanRequest](ctx, s.Store, CollLoans)
	if err != nil {
		return nil, err
	}

	out := make([]models.LoanRequest, 0, len(loans))
	for _, l := range loans {
		if member != "" && l.Member != member {
			continue
		}
		if status != "" && l.Status != status {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

// UpdateStatus advances or rejects a loan on behalf of the caller. The
// transition is validated against the caller's role before anything is
// persisted; side effects fan out only after the save succeeds.
func (s *LoanService) UpdateStatus(ctx context.Context, actor *utils.Claims, id, newStatus, notes string) (models.LoanRequest, error) {
	var updated models.LoanRequest

	err := store.Update(ctx, s.Store, CollLoans, func(loans []models.LoanRequest) ([]models.LoanRequest, error) {
		for i := range loans {
			if loans[i].ID != id {
				continue
			}
			if err := validateTransition(loans[i], actor.Role, newStatus); err != nil {
				return nil, err
			}
			loans[i].Status = newStatus
			if notes != "" {
				loans[i].Notes = notes
			}
			updated = loans[i]
			return loans, nil
		}
		return nil, ErrNotFound
	})
	if err != nil {
		return models.LoanRequest{}, err
	}

	logging.Logger.Infof("Event ID: LOAN_STATUS_CHANGED, Description: Loan %s moved to %s by %s", id, newStatus, actor.Email)

	if newStatus == models.LoanTreasurerApproved {
		if err := s.enqueueForChair(ctx, updated, actor.Name); err != nil {
			logging.Logger.Errorf("Event ID: LOAN_ENQUEUE_FAILED, Description: Loan %s approved but could not be queued for chairperson: %v", id, err)
		}
	}
	if updated.Terminal() {
		msg := fmt.Sprintf("Your loan request for %.2f has been %s", updated.Amount, updated.Status)
		if err := s.Notifications.Notify(ctx, updated.Member, msg); err != nil {
			logging.Logger.Errorf("Event ID: LOAN_NOTIFY_FAILED, Description: Could not notify %s about loan %s: %v", updated.Member, id, err)
		}
	}

	return updated, nil
}

func validateTransition(loan models.LoanRequest, role, newStatus string) error {
	if loan.Terminal() {
		return fmt.Errorf("%w: loan is already %s", ErrInvalidTransition, loan.Status)
	}

	if newStatus == models.LoanRejected {
		switch role {
		case models.RoleTreasurer, models.RoleSecretary, models.RoleChairperson:
			return nil
		}
		return ErrInsufficientRole
	}

	next, ok := nextStage[loan.Status]
	if !ok || next.status != newStatus {
		return fmt.Errorf("%w: cannot move from %s to %s", ErrInvalidTransition, loan.Status, newStatus)
	}
	if role != next.role {
		switch role {
		case models.RoleTreasurer, models.RoleSecretary, models.RoleChairperson:
			return fmt.Errorf("%w: %s is not the next approver", ErrInvalidTransition, role)
		}
		return ErrInsufficientRole
	}
	return nil
}

func (s *LoanService) enqueueForChair(ctx context.Context, loan models.LoanRequest, author string) error {
	data, err := json.Marshal(loan)
	if err != nil {
		return err
	}
	item := models.QueueItem{
		ID:     uuid.NewString(),
		Type:   models.QueueTypeLoan,
		Data:   data,
		Author: author,
		Status: models.QueuePending,
	}
	return store.Update(ctx, s.Store, CollChairQueue, func(queue []models.QueueItem) ([]models.QueueItem, error) {
		return append(queue, item), nil
	})
}
