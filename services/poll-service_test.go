package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekverified/app-backend/models"
	"github.com/ekverified/app-backend/store"
)

func newPollService(t *testing.T) *PollService {
	t.Helper()
	fs, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)
	return NewPollService(fs)
}

func TestCreatePoll(t *testing.T) {
	s := newPollService(t)

	poll, err := s.Create(context.Background(), "Lunch?", []string{"A", "B"})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0}, poll.Votes)
	assert.Empty(t, poll.Voters)
	assert.True(t, poll.Active)

	_, err = s.Create(context.Background(), "", []string{"A", "B"})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = s.Create(context.Background(), "One option?", []string{"A"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestVoteIsIdempotentPerVoter(t *testing.T) {
	s := newPollService(t)
	ctx := context.Background()

	poll, err := s.Create(ctx, "Lunch?", []string{"A", "B"})
	require.NoError(t, err)

	voted, err := s.Vote(ctx, poll.ID, "bob@x.com", 1)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, voted.Votes)
	assert.Equal(t, []string{"bob@x.com"}, voted.Voters)

	// Same voter again changes nothing.
	_, err = s.Vote(ctx, poll.ID, "bob@x.com", 0)
	assert.ErrorIs(t, err, ErrAlreadyVoted)

	polls, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, polls, 1)
	assert.Equal(t, []int{0, 1}, polls[0].Votes)
	assert.Equal(t, []string{"bob@x.com"}, polls[0].Voters)
}

func TestVoteInvalidOption(t *testing.T) {
	s := newPollService(t)
	ctx := context.Background()

	poll, err := s.Create(ctx, "Lunch?", []string{"A", "B"})
	require.NoError(t, err)

	_, err = s.Vote(ctx, poll.ID, "bob@x.com", 2)
	assert.ErrorIs(t, err, ErrInvalidOption)
	_, err = s.Vote(ctx, poll.ID, "bob@x.com", -1)
	assert.ErrorIs(t, err, ErrInvalidOption)
}

func TestVoteInactivePoll(t *testing.T) {
	s := newPollService(t)
	ctx := context.Background()

	poll, err := s.Create(ctx, "Lunch?", []string{"A", "B"})
	require.NoError(t, err)

	closed, err := s.Close(ctx, poll.ID)
	require.NoError(t, err)
	assert.False(t, closed.Active)

	_, err = s.Vote(ctx, poll.ID, "bob@x.com", 0)
	assert.ErrorIs(t, err, ErrPollInactive)
}

func TestVoteRepairsShortVotesArray(t *testing.T) {
	s := newPollService(t)
	ctx := context.Background()

	// A row written outside Create may carry a missing or short votes array.
	seeded := []models.Poll{{
		ID:       "p1",
		Question: "Lunch?",
		Options:  []string{"A", "B", "C"},
		Votes:    []int{4},
		Active:   true,
	}}
	require.NoError(t, store.Save(ctx, s.Store, CollPolls, seeded, 0))

	voted, err := s.Vote(ctx, "p1", "bob@x.com", 2)
	require.NoError(t, err)
	assert.Equal(t, []int{4, 0, 1}, voted.Votes)
}

func TestVoteUnknownPoll(t *testing.T) {
	s := newPollService(t)

	_, err := s.Vote(context.Background(), "missing", "bob@x.com", 0)
	assert.ErrorIs(t, err, ErrNotFound)
}
