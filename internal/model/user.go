// Package model defines the client-side view representations of the Q&A
// backend's resources. The backend is the system of record; these types exist
// to give every page one canonical shape to consume.
//
// The upstream API is inconsistent about identifier field names: user
// endpoints emit `id` or `userId` depending on which controller produced the
// payload, question endpoints emit `id` or `questionId`. Each affected type
// carries both fields and a Normalize method that reconciles them: after
// normalization both names are present and equal (the dual-ID invariant).
// Normalize is idempotent, so applying it at more than one boundary is safe.
package model

// User is the profile data for an account, and doubles as the authenticated
// identity held by the session store.
type User struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"userId"`
	Username    string    `json:"username"`
	Email       string    `json:"email,omitempty"`
	PhoneNumber string    `json:"phoneNumber,omitempty"`
	Bio         string    `json:"bio,omitempty"`
	Location    string    `json:"location,omitempty"`
	Website     string    `json:"website,omitempty"`
	IsModerator bool      `json:"isModerator"`
	Banned      bool      `json:"banned"`
	Reputation  int       `json:"reputation"`
	Badges      []string  `json:"badges,omitempty"`
	CreatedAt   Timestamp `json:"createdAt,omitempty"`
}

// Normalize applies the dual-ID invariant: if exactly one of id/userId was
// present in the payload, the other is synthesized as a copy.
func (u *User) Normalize() {
	switch {
	case u.ID == 0 && u.UserID != 0:
		u.ID = u.UserID
	case u.UserID == 0 && u.ID != 0:
		u.UserID = u.ID
	}
}

// UserStatistics is a derived view model aggregated from one author's
// questions and answers. It is never persisted; the aggregator recomputes it
// per request.
type UserStatistics struct {
	QuestionsCount       int       `json:"questionsCount"`
	AnswersCount         int       `json:"answersCount"`
	AcceptedAnswersCount int       `json:"acceptedAnswersCount"`
	TotalVotes           int       `json:"totalVotes"`
	JoinDate             Timestamp `json:"joinDate"`
	Reputation           int       `json:"reputation"`
	Badges               []string  `json:"badges"`
}

// ActivityType discriminates timeline entries.
type ActivityType string

const (
	ActivityQuestion ActivityType = "question"
	ActivityAnswer   ActivityType = "answer"
)

// ActivityEntry is one row of a user's merged question/answer timeline,
// sorted date-descending by the aggregator.
type ActivityEntry struct {
	Type          ActivityType `json:"type"`
	ID            int64        `json:"id"`
	QuestionID    int64        `json:"questionId,omitempty"`
	Title         string       `json:"title"`
	Date          Timestamp    `json:"date"`
	Votes         int          `json:"votes"`
	Accepted      bool         `json:"accepted,omitempty"`
	Link          string       `json:"link"`
}
