package model

// Tag as served by the singular /tag resource.
type Tag struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	QuestionCount int    `json:"questionCount"`
	Description   string `json:"description,omitempty"`
}

// VoteType is the direction of a vote.
type VoteType string

const (
	VoteUp   VoteType = "UP"
	VoteDown VoteType = "DOWN"
)

// Valid reports whether the vote type is one of the two accepted literals.
func (v VoteType) Valid() bool {
	return v == VoteUp || v == VoteDown
}

// Vote is transient: posted fire-and-forget, never cached locally. The read
// endpoints return it with either a question or an answer target set.
type Vote struct {
	ID         int64    `json:"id"`
	UserID     int64    `json:"userId"`
	QuestionID int64    `json:"questionId,omitempty"`
	AnswerID   int64    `json:"answerId,omitempty"`
	VoteType   VoteType `json:"voteType"`
}
