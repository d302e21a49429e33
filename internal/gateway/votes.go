package gateway

import (
	"context"
	"net/url"

	"github.com/arefin/qoverflow/internal/apperror"
	"github.com/arefin/qoverflow/internal/model"
)

// VoteQuestion records a vote on a question. Fire-and-forget: nothing is
// cached locally, callers re-fetch the question to observe the new count.
func (c *Client) VoteQuestion(ctx context.Context, userID, questionID int64, voteType model.VoteType) error {
	if userID == 0 {
		return apperror.InvalidArgument("user ID", "User ID is required")
	}
	if questionID == 0 {
		return apperror.InvalidArgument("question ID", "Question ID is required")
	}
	if !voteType.Valid() {
		return apperror.InvalidArgument("voteType", "Vote type is required")
	}
	body := map[string]any{
		"userId":     userID,
		"questionId": questionID,
		"voteType":   voteType,
	}
	return c.send(ctx, "POST", "/votes/question", body, nil)
}

// VoteAnswer records a vote on an answer.
func (c *Client) VoteAnswer(ctx context.Context, userID, answerID int64, voteType model.VoteType) error {
	if userID == 0 {
		return apperror.InvalidArgument("user ID", "User ID is required")
	}
	if answerID == 0 {
		return apperror.InvalidArgument("answer ID", "Answer ID is required")
	}
	if !voteType.Valid() {
		return apperror.InvalidArgument("voteType", "Vote type is required")
	}
	body := map[string]any{
		"userId":   userID,
		"answerId": answerID,
		"voteType": voteType,
	}
	return c.send(ctx, "POST", "/votes/answer", body, nil)
}

// AllVotes lists every vote.
func (c *Client) AllVotes(ctx context.Context) ([]model.Vote, error) {
	var votes []model.Vote
	if err := c.get(ctx, "/votes/all", &votes); err != nil {
		return nil, err
	}
	return votes, nil
}

// VoteByID fetches one vote.
func (c *Client) VoteByID(ctx context.Context, id string) (*model.Vote, error) {
	if err := validateID("vote ID", id); err != nil {
		return nil, err
	}
	var v model.Vote
	if err := c.get(ctx, "/votes/id/"+url.PathEscape(id), &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// VotesByUser lists the votes a user has cast.
func (c *Client) VotesByUser(ctx context.Context, userID string) ([]model.Vote, error) {
	if err := validateID("user ID", userID); err != nil {
		return nil, err
	}
	var votes []model.Vote
	if err := c.get(ctx, "/votes/user/"+url.PathEscape(userID), &votes); err != nil {
		return nil, err
	}
	return votes, nil
}

// DeleteVote retracts a vote.
func (c *Client) DeleteVote(ctx context.Context, id string) error {
	if err := validateID("vote ID", id); err != nil {
		return err
	}
	return c.send(ctx, "DELETE", "/votes/delete/"+url.PathEscape(id), nil, nil)
}
