package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekverified/app-backend/models"
	"github.com/ekverified/app-backend/store"
	"github.com/ekverified/app-backend/utils"
)

var (
	treasurer = &utils.Claims{Name: "Terry", Email: "terry@x.com", Role: models.RoleTreasurer}
	secretary = &utils.Claims{Name: "Sam", Email: "sam@x.com", Role: models.RoleSecretary}
	chair     = &utils.Claims{Name: "Carol", Email: "carol@x.com", Role: models.RoleChairperson}
)

func newLoanService(t *testing.T) *LoanService {
	t.Helper()
	fs, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)
	return NewLoanService(fs, NewNotificationService(fs))
}

func submitLoan(t *testing.T, s *LoanService) models.LoanRequest {
	t.Helper()
	loan, err := s.Create(context.Background(), 5000, "school fees", "alice@x.com")
	require.NoError(t, err)
	require.Equal(t, models.LoanPending, loan.Status)
	return loan
}

func TestCreateLoanValidation(t *testing.T) {
	s := newLoanService(t)
	ctx := context.Background()

	_, err := s.Create(ctx, 0, "nothing", "alice@x.com")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = s.Create(ctx, -100, "nothing", "alice@x.com")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = s.Create(ctx, 100, "fees", "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestLoanHappyPath(t *testing.T) {
	s := newLoanService(t)
	ctx := context.Background()
	loan := submitLoan(t, s)

	loan, err := s.UpdateStatus(ctx, treasurer, loan.ID, models.LoanTreasurerApproved, "ok by treasury")
	require.NoError(t, err)
	assert.Equal(t, models.LoanTreasurerApproved, loan.Status)
	assert.Equal(t, "ok by treasury", loan.Notes)

	// Treasurer approval stages the loan for chairperson review.
	queue, _, err := store.Load[models.QueueItem](ctx, s.Store, CollChairQueue)
	require.NoError(t, err)
	require.Len(t, queue, 1)
	assert.Equal(t, models.QueueTypeLoan, queue[0].Type)
	assert.Equal(t, models.QueuePending, queue[0].Status)

	loan, err = s.UpdateStatus(ctx, secretary, loan.ID, models.LoanSecretaryApproved, "")
	require.NoError(t, err)
	assert.Equal(t, models.LoanSecretaryApproved, loan.Status)

	loan, err = s.UpdateStatus(ctx, chair, loan.ID, models.LoanChairApproved, "")
	require.NoError(t, err)
	assert.Equal(t, models.LoanChairApproved, loan.Status)

	// Terminal state notifies the originating member.
	notifs, err := s.Notifications.List(ctx, "alice@x.com", nil)
	require.NoError(t, err)
	require.Len(t, notifs, 1)
	assert.Contains(t, notifs[0].Message, models.LoanChairApproved)
}

func TestLoanOutOfOrderApproval(t *testing.T) {
	s := newLoanService(t)
	ctx := context.Background()
	loan := submitLoan(t, s)

	// Secretary cannot move first.
	_, err := s.UpdateStatus(ctx, secretary, loan.ID, models.LoanSecretaryApproved, "")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// Neither can the chairperson skip ahead.
	_, err = s.UpdateStatus(ctx, chair, loan.ID, models.LoanChairApproved, "")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestLoanRepeatedApproval(t *testing.T) {
	s := newLoanService(t)
	ctx := context.Background()
	loan := submitLoan(t, s)

	_, err := s.UpdateStatus(ctx, treasurer, loan.ID, models.LoanTreasurerApproved, "")
	require.NoError(t, err)

	_, err = s.UpdateStatus(ctx, treasurer, loan.ID, models.LoanTreasurerApproved, "")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestLoanRejectionIsTerminal(t *testing.T) {
	s := newLoanService(t)
	ctx := context.Background()
	loan := submitLoan(t, s)

	rejected, err := s.UpdateStatus(ctx, secretary, loan.ID, models.LoanRejected, "insufficient savings")
	require.NoError(t, err)
	assert.Equal(t, models.LoanRejected, rejected.Status)

	// Rejection notifies the member.
	notifs, err := s.Notifications.List(ctx, "alice@x.com", nil)
	require.NoError(t, err)
	require.Len(t, notifs, 1)

	// No transition leaves a rejected loan.
	_, err = s.UpdateStatus(ctx, treasurer, loan.ID, models.LoanTreasurerApproved, "")
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = s.UpdateStatus(ctx, chair, loan.ID, models.LoanRejected, "")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestLoanMemberCannotApprove(t *testing.T) {
	s := newLoanService(t)
	ctx := context.Background()
	loan := submitLoan(t, s)

	member := &utils.Claims{Name: "Alice", Email: "alice@x.com", Role: models.RoleMember}
	_, err := s.UpdateStatus(ctx, member, loan.ID, models.LoanTreasurerApproved, "")
	assert.ErrorIs(t, err, ErrInsufficientRole)
	_, err = s.UpdateStatus(ctx, member, loan.ID, models.LoanRejected, "")
	assert.ErrorIs(t, err, ErrInsufficientRole)
}

func TestLoanNotFound(t *testing.T) {
	s := newLoanService(t)

	_, err := s.UpdateStatus(context.Background(), treasurer, "missing-id", models.LoanTreasurerApproved, "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListLoansFilters(t *testing.T) {
	s := newLoanService(t)
	ctx := context.Background()

	_, err := s.Create(ctx, 100, "a", "alice@x.com")
	require.NoError(t, err)
	loan, err := s.Create(ctx, 200, "b", "bob@x.com")
	require.NoError(t, err)
	_, err = s.UpdateStatus(ctx, treasurer, loan.ID, models.LoanTreasurerApproved, "")
	require.NoError(t, err)

	byMember, err := s.List(ctx, "alice@x.com", "")
	require.NoError(t, err)
	assert.Len(t, byMember, 1)

	byStatus, err := s.List(ctx, "", models.LoanTreasurerApproved)
	require.NoError(t, err)
	require.Len(t, byStatus, 1)
	assert.Equal(t, "bob@x.com", byStatus[0].Member)
}
