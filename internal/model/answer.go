package model

// Answer is the view representation of an answer. The Image field holds the
// optional code block attached to the answer (the backend reuses the image
// column for it).
type Answer struct {
	ID             int64     `json:"id"`
	QuestionID     int64     `json:"questionId"`
	Text           string    `json:"text"`
	Image          string    `json:"image,omitempty"`
	Upvotes        int       `json:"upvotes"`
	Downvotes      int       `json:"downvotes"`
	Accepted       bool      `json:"accepted"`
	AuthorID       int64     `json:"authorId"`
	AuthorUsername string    `json:"authorUsername,omitempty"`
	QuestionTitle  string    `json:"questionTitle,omitempty"`
	CreatedAt      Timestamp `json:"createdAt,omitempty"`
}

// NetVotes is the displayed score: upvotes minus downvotes. Computed, never
// stored. Value receiver so templates can call it on ranged elements.
func (a Answer) NetVotes() int {
	return a.Upvotes - a.Downvotes
}

// DisplayAuthor returns the best available author label.
func (a Answer) DisplayAuthor() string {
	if a.AuthorUsername != "" {
		return a.AuthorUsername
	}
	return "User"
}
