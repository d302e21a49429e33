package gateway

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/arefin/qoverflow/internal/apperror"
	"github.com/arefin/qoverflow/internal/model"
)

// AllAnswers lists every answer.
func (c *Client) AllAnswers(ctx context.Context) ([]model.Answer, error) {
	var answers []model.Answer
	if err := c.get(ctx, "/answers/all", &answers); err != nil {
		return nil, err
	}
	return answers, nil
}

// AnswerByID fetches one answer.
func (c *Client) AnswerByID(ctx context.Context, id string) (*model.Answer, error) {
	if err := validateID("answer ID", id); err != nil {
		return nil, err
	}
	var a model.Answer
	if err := c.get(ctx, "/answers/id/"+url.PathEscape(id), &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// AnswersByQuestion lists the answers attached to a question.
func (c *Client) AnswersByQuestion(ctx context.Context, questionID string) ([]model.Answer, error) {
	if err := validateID("question ID", questionID); err != nil {
		return nil, err
	}
	var answers []model.Answer
	if err := c.get(ctx, "/answers/question/"+url.PathEscape(questionID), &answers); err != nil {
		return nil, err
	}
	return answers, nil
}

// AnswersByAuthor lists one author's answers.
func (c *Client) AnswersByAuthor(ctx context.Context, authorID string) ([]model.Answer, error) {
	if err := validateID("author ID", authorID); err != nil {
		return nil, err
	}
	var answers []model.Answer
	if err := c.get(ctx, "/answers/author/"+url.PathEscape(authorID), &answers); err != nil {
		return nil, err
	}
	return answers, nil
}

// CreateAnswer posts an answer through the direct-create endpoint, which
// takes its payload as query parameters and insists on numeric identifiers.
// Both IDs must coerce to integers or the call fails before any request.
func (c *Client) CreateAnswer(ctx context.Context, authorID, questionID, text, code string) (*model.Answer, error) {
	if err := validateID("question ID", questionID); err != nil {
		return nil, err
	}
	if err := validateID("author ID", authorID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, apperror.InvalidArgument("text", "Answer text cannot be empty")
	}

	numQuestionID, err := strconv.ParseInt(questionID, 10, 64)
	if err != nil {
		return nil, apperror.InvalidArgument("question ID", "Invalid ID format")
	}
	numAuthorID, err := strconv.ParseInt(authorID, 10, 64)
	if err != nil {
		return nil, apperror.InvalidArgument("author ID", "Invalid ID format")
	}

	params := url.Values{}
	params.Set("questionId", strconv.FormatInt(numQuestionID, 10))
	params.Set("authorId", strconv.FormatInt(numAuthorID, 10))
	params.Set("text", strings.TrimSpace(text))
	params.Set("image", code)

	var a model.Answer
	if err := c.send(ctx, "POST", "/answers/direct-create?"+params.Encode(), nil, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// DebugAnswer exercises the diagnostic /answers/debug endpoint, which takes
// string identifiers in a JSON body. Text and code default when blank.
func (c *Client) DebugAnswer(ctx context.Context, authorID, questionID, text, code string) (*model.Answer, error) {
	if err := validateID("question ID", questionID); err != nil {
		return nil, err
	}
	if err := validateID("author ID", authorID); err != nil {
		return nil, err
	}
	if text == "" {
		text = "Test answer"
	}
	body := map[string]string{
		"id":       questionID,
		"authorId": authorID,
		"text":     text,
		"image":    code,
	}
	var a model.Answer
	if err := c.send(ctx, "POST", "/answers/debug", body, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// AnswerUpdate carries the editable fields of an answer.
type AnswerUpdate struct {
	Text  string `json:"text"`
	Image string `json:"image,omitempty"`
}

// UpdateAnswer edits an answer on behalf of userID.
func (c *Client) UpdateAnswer(ctx context.Context, id string, update AnswerUpdate, userID string) (*model.Answer, error) {
	if err := validateID("answer ID", id); err != nil {
		return nil, err
	}
	if err := validateID("user ID", userID); err != nil {
		return nil, err
	}
	path := "/answers/update/" + url.PathEscape(id) + "?userId=" + url.QueryEscape(userID)
	var a model.Answer
	if err := c.send(ctx, "PUT", path, update, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// DeleteAnswer removes an answer on behalf of userID.
func (c *Client) DeleteAnswer(ctx context.Context, id, userID string) error {
	if err := validateID("answer ID", id); err != nil {
		return err
	}
	if err := validateID("user ID", userID); err != nil {
		return err
	}
	path := "/answers/delete/" + url.PathEscape(id) + "?userId=" + url.QueryEscape(userID)
	return c.send(ctx, "DELETE", path, nil, nil)
}
