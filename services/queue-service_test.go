package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekverified/app-backend/models"
	"github.com/ekverified/app-backend/store"
	"github.com/ekverified/app-backend/utils"
)

func newQueueService(t *testing.T) *QueueService {
	t.Helper()
	fs, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)
	return NewQueueService(fs, NewNotificationService(fs))
}

func seedMembers(t *testing.T, s store.Store, emails ...string) {
	t.Helper()
	members := make([]models.Member, 0, len(emails))
	for _, email := range emails {
		members = append(members, models.Member{ID: email, Name: email, Email: email, Role: models.RoleMember})
	}
	require.NoError(t, store.Save(context.Background(), s, CollMembers, members, 0))
}

func TestSubmitRoleMatchesType(t *testing.T) {
	s := newQueueService(t)
	ctx := context.Background()
	data := json.RawMessage(`{"text":"Meeting notes"}`)

	_, err := s.Submit(ctx, secretary, models.QueueTypeMinutes, data, "")
	assert.NoError(t, err)

	_, err = s.Submit(ctx, secretary, models.QueueTypeReport, data, "")
	assert.ErrorIs(t, err, ErrInsufficientRole)

	_, err = s.Submit(ctx, treasurer, models.QueueTypeReport, data, "")
	assert.NoError(t, err)

	_, err = s.Submit(ctx, treasurer, models.QueueTypeMinutes, data, "")
	assert.ErrorIs(t, err, ErrInsufficientRole)

	member := &utils.Claims{Name: "Alice", Email: "alice@x.com", Role: models.RoleMember}
	_, err = s.Submit(ctx, member, models.QueueTypeMinutes, data, "")
	assert.ErrorIs(t, err, ErrInsufficientRole)

	_, err = s.Submit(ctx, secretary, "Gossip", data, "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestApproveChairOnly(t *testing.T) {
	s := newQueueService(t)
	ctx := context.Background()

	item, err := s.Submit(ctx, secretary, models.QueueTypeMinutes, json.RawMessage(`{"text":"x"}`), "")
	require.NoError(t, err)

	_, err = s.Approve(ctx, secretary, item.ID, "")
	assert.ErrorIs(t, err, ErrInsufficientRole)
	_, err = s.Approve(ctx, treasurer, item.ID, "")
	assert.ErrorIs(t, err, ErrInsufficientRole)
}

func TestApproveMinutesPublishesNews(t *testing.T) {
	s := newQueueService(t)
	ctx := context.Background()
	seedMembers(t, s.Store, "alice@x.com", "bob@x.com")

	item, err := s.Submit(ctx, secretary, models.QueueTypeMinutes, json.RawMessage(`{"text":"Meeting notes"}`), "Sam")
	require.NoError(t, err)

	approved, err := s.Approve(ctx, chair, item.ID, "sig-blob")
	require.NoError(t, err)
	assert.Equal(t, models.QueueApproved, approved.Status)
	assert.Equal(t, "sig-blob", approved.Signature)

	news, _, err := store.Load[models.News](ctx, s.Store, CollNews)
	require.NoError(t, err)
	require.Len(t, news, 1)
	assert.Equal(t, "Meeting notes", news[0].Text)
	assert.Equal(t, chair.Name, news[0].SignedBy)
	assert.NotEmpty(t, news[0].ApprovedAt)

	// The queue entry stays behind for audit.
	queue, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, queue, 1)
	assert.Equal(t, models.QueueApproved, queue[0].Status)

	// Every member hears about it.
	notifs, err := s.Notifications.List(ctx, "", nil)
	require.NoError(t, err)
	assert.Len(t, notifs, 2)
}

func TestApproveReportPublishes(t *testing.T) {
	s := newQueueService(t)
	ctx := context.Background()

	item, err := s.Submit(ctx, treasurer, models.QueueTypeReport, json.RawMessage(`{"text":"Q3 accounts","file":"q3.pdf"}`), "")
	require.NoError(t, err)

	_, err = s.Approve(ctx, chair, item.ID, "")
	require.NoError(t, err)

	reports, _, err := store.Load[models.ApprovedReport](ctx, s.Store, CollApprovedReports)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, "Q3 accounts", reports[0].Text)
	assert.Equal(t, "q3.pdf", reports[0].File)
	assert.Equal(t, chair.Name, reports[0].SignedBy)
}

func TestApproveLoanItemDoesNotPublish(t *testing.T) {
	s := newQueueService(t)
	ctx := context.Background()

	item, err := s.Submit(ctx, treasurer, models.QueueTypeLoan, json.RawMessage(`{"id":"loan-1"}`), "")
	require.NoError(t, err)

	_, err = s.Approve(ctx, chair, item.ID, "")
	require.NoError(t, err)

	news, _, err := store.Load[models.News](ctx, s.Store, CollNews)
	require.NoError(t, err)
	assert.Empty(t, news)
	reports, _, err := store.Load[models.ApprovedReport](ctx, s.Store, CollApprovedReports)
	require.NoError(t, err)
	assert.Empty(t, reports)
}

func TestApproveTwiceFails(t *testing.T) {
	s := newQueueService(t)
	ctx := context.Background()

	item, err := s.Submit(ctx, secretary, models.QueueTypeMinutes, json.RawMessage(`{"text":"x"}`), "")
	require.NoError(t, err)

	_, err = s.Approve(ctx, chair, item.ID, "")
	require.NoError(t, err)

	_, err = s.Approve(ctx, chair, item.ID, "")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestApproveUnknownItem(t *testing.T) {
	s := newQueueService(t)

	_, err := s.Approve(context.Background(), chair, "missing", "")
	assert.ErrorIs(t, err, ErrNotFound)
}
