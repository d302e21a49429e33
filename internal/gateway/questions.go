package gateway

import (
	"context"
	"net/url"
	"strings"

	"github.com/arefin/qoverflow/internal/apperror"
	"github.com/arefin/qoverflow/internal/model"
)

// AllQuestions lists every question, normalized.
func (c *Client) AllQuestions(ctx context.Context) ([]model.Question, error) {
	return c.questionList(ctx, "/questions/all")
}

// QuestionByID fetches one question.
func (c *Client) QuestionByID(ctx context.Context, id string) (*model.Question, error) {
	if err := validateID("question ID", id); err != nil {
		return nil, err
	}
	var q model.Question
	if err := c.get(ctx, "/questions/find/"+url.PathEscape(id), &q); err != nil {
		return nil, err
	}
	q.Normalize()
	return &q, nil
}

// QuestionsByAuthor lists one author's questions.
func (c *Client) QuestionsByAuthor(ctx context.Context, authorID string) ([]model.Question, error) {
	if err := validateID("author ID", authorID); err != nil {
		return nil, err
	}
	return c.questionList(ctx, "/questions/author/"+url.PathEscape(authorID))
}

// QuestionsByTag lists questions carrying the named tag.
func (c *Client) QuestionsByTag(ctx context.Context, tagName string) ([]model.Question, error) {
	if err := validateID("tag name", tagName); err != nil {
		return nil, err
	}
	return c.questionList(ctx, "/questions/tag/"+url.PathEscape(tagName))
}

// QuestionsByStatus lists questions by upstream status value.
func (c *Client) QuestionsByStatus(ctx context.Context, status string) ([]model.Question, error) {
	if err := validateID("status", status); err != nil {
		return nil, err
	}
	return c.questionList(ctx, "/questions/status/"+url.PathEscape(status))
}

// SearchQuestions searches questions by keyword.
func (c *Client) SearchQuestions(ctx context.Context, keyword string) ([]model.Question, error) {
	if err := validateKeyword(keyword); err != nil {
		return nil, err
	}
	return c.questionList(ctx, "/questions/search?keyword="+url.QueryEscape(keyword))
}

// CreateQuestion posts a new question. Tags travel in the comma-joined wire
// form the create endpoint expects.
func (c *Client) CreateQuestion(ctx context.Context, authorID, title, text, image string, tags model.TagNames) (*model.Question, error) {
	if err := validateID("author ID", authorID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(title) == "" {
		return nil, apperror.InvalidArgument("title", "Title is required")
	}
	if strings.TrimSpace(text) == "" {
		return nil, apperror.InvalidArgument("text", "Question text is required")
	}
	body := map[string]string{
		"authorId": authorID,
		"title":    title,
		"text":     text,
		"image":    image,
		"tags":     tags.Join(),
	}
	var q model.Question
	if err := c.send(ctx, "POST", "/questions/create", body, &q); err != nil {
		return nil, err
	}
	q.Normalize()
	return &q, nil
}

// QuestionUpdate carries the editable fields of a question.
type QuestionUpdate struct {
	Title string `json:"title"`
	Text  string `json:"text"`
	Image string `json:"image,omitempty"`
	Tags  string `json:"tags,omitempty"`
}

// UpdateQuestion edits a question on behalf of userID.
func (c *Client) UpdateQuestion(ctx context.Context, id string, update QuestionUpdate, userID string) (*model.Question, error) {
	if err := validateID("question ID", id); err != nil {
		return nil, err
	}
	if err := validateID("user ID", userID); err != nil {
		return nil, err
	}
	path := "/questions/update/" + url.PathEscape(id) + "?userId=" + url.QueryEscape(userID)
	var q model.Question
	if err := c.send(ctx, "PUT", path, update, &q); err != nil {
		return nil, err
	}
	q.Normalize()
	return &q, nil
}

// DeleteQuestion removes a question on behalf of userID.
func (c *Client) DeleteQuestion(ctx context.Context, id, userID string) error {
	if err := validateID("question ID", id); err != nil {
		return err
	}
	if err := validateID("user ID", userID); err != nil {
		return err
	}
	path := "/questions/delete/" + url.PathEscape(id) + "?userId=" + url.QueryEscape(userID)
	return c.send(ctx, "DELETE", path, nil, nil)
}

// AcceptAnswer marks an answer as the accepted one for its question.
func (c *Client) AcceptAnswer(ctx context.Context, questionID, answerID string) error {
	if err := validateID("question ID", questionID); err != nil {
		return err
	}
	if err := validateID("answer ID", answerID); err != nil {
		return err
	}
	path := "/questions/" + url.PathEscape(questionID) + "/accept/" + url.PathEscape(answerID)
	return c.send(ctx, "PUT", path, nil, nil)
}

func (c *Client) questionList(ctx context.Context, path string) ([]model.Question, error) {
	var questions []model.Question
	if err := c.get(ctx, path, &questions); err != nil {
		return nil, err
	}
	for i := range questions {
		questions[i].Normalize()
	}
	return questions, nil
}
