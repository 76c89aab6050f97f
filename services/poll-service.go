package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ekverified/app-backend/logging"
	"github.com/ekverified/app-backend/models"
	"github.com/ekverified/app-backend/store"
)

type PollService struct {
	Store store.Store
}

func NewPollService(s store.Store) *PollService {
	return &PollService{Store: s}
}

func (s *PollService) Create(ctx context.Context, question string, options []string) (models.Poll, error) {
	if question == "" || len(options) < 2 {
		return models.Poll{}, fmt.Errorf("%w: a question and at least two options are required", ErrInvalidInput)
	}

	poll := models.Poll{
		ID:       uuid.NewString(),
		Question: question,
		Options:  options,
		Votes:    make([]int, len(options)),
		Voters:   []string{},
		Active:   true,
		Created:  time.Now().Format("2006-01-02 15:04:05"),
	}

	err := store.Update(ctx, s.Store, CollPolls, func(polls []models.Poll) ([]models.Poll, error) {
		return append([]models.Poll{poll}, polls...), nil
	})
	if err != nil {
		return models.Poll{}, err
	}

	logging.Logger.Infof("Event ID: POLL_CREATED, Description: Poll %s created", poll.ID)
	return poll, nil
}

func (s *PollService) List(ctx context.Context) ([]models.Poll, error) {
	polls, _, err := store.Load[models.Poll](ctx, s.Store, CollPolls)
	if err != nil {
		return nil, err
	}
	return polls, nil
}

// Vote increments exactly one option's count and records the voter. A voter
// already present in the poll's voter list cannot change anything; the vote
// is idempotent per voter.
func (s *PollService) Vote(ctx context.Context, pollID, voter string, optionIndex int) (models.Poll, error) {
	var voted models.Poll

	err := store.Update(ctx, s.Store, CollPolls, func(polls []models.Poll) ([]models.Poll, error) {
		for i := range polls {
			if polls[i].ID != pollID {
				continue
			}
			if !polls[i].Active {
				return nil, ErrPollInactive
			}
			if polls[i].HasVoted(voter) {
				return nil, ErrAlreadyVoted
			}
			if optionIndex < 0 || optionIndex >= len(polls[i].Options) {
				return nil, fmt.Errorf("%w: option %d is out of range", ErrInvalidOption, optionIndex)
			}
			// A stored row may have a short or missing votes array;
			// restore the one-count-per-option shape before counting.
			if len(polls[i].Votes) < len(polls[i].Options) {
				padded := make([]int, len(polls[i].Options))
				copy(padded, polls[i].Votes)
				polls[i].Votes = padded
			}
			polls[i].Votes[optionIndex]++
			polls[i].Voters = append(polls[i].Voters, voter)
			voted = polls[i]
			return polls, nil
		}
		return nil, ErrNotFound
	})
	if err != nil {
		return models.Poll{}, err
	}

	return voted, nil
}

// Close deactivates a poll; further votes fail with PollInactive.
func (s *PollService) Close(ctx context.Context, pollID string) (models.Poll, error) {
	var closed models.Poll

	err := store.Update(ctx, s.Store, CollPolls, func(polls []models.Poll) ([]models.Poll, error) {
		for i := range polls {
			if polls[i].ID == pollID {
				polls[i].Active = false
				closed = polls[i]
				return polls, nil
			}
		}
		return nil, ErrNotFound
	})
	if err != nil {
		return models.Poll{}, err
	}

	return closed, nil
}
