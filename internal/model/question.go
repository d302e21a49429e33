package model

import (
	"encoding/json"
	"strings"
)

// Question is the view representation of a question. Tags may arrive from the
// backend as a comma-joined string, an array of strings, an array of tag
// objects, or under the legacy `tagList` key; TagNames absorbs all four
// shapes at decode time.
type Question struct {
	ID               int64     `json:"id"`
	QuestionID       int64     `json:"questionId"`
	Title            string    `json:"title"`
	Text             string    `json:"text"`
	Image            string    `json:"image,omitempty"`
	Tags             TagNames  `json:"tags,omitempty"`
	TagList          TagNames  `json:"tagList,omitempty"`
	Votes            int       `json:"votes"`
	AnswersCount     int       `json:"answersCount"`
	AuthorID         int64     `json:"authorId"`
	AuthorName       string    `json:"authorName,omitempty"`
	AuthorUsername   string    `json:"authorUsername,omitempty"`
	AcceptedAnswerID int64     `json:"acceptedAnswerId,omitempty"`
	CreatedAt        Timestamp `json:"createdAt,omitempty"`
}

// Normalize applies the dual-ID invariant and folds a legacy tagList into
// Tags when Tags itself was absent. Idempotent: normalizing an
// already-normalized question changes nothing.
func (q *Question) Normalize() {
	switch {
	case q.ID == 0 && q.QuestionID != 0:
		q.ID = q.QuestionID
	case q.QuestionID == 0 && q.ID != 0:
		q.QuestionID = q.ID
	}
	if len(q.Tags) == 0 && len(q.TagList) > 0 {
		q.Tags = append(TagNames(nil), q.TagList...)
	}
}

// DisplayAuthor returns the best available author label. Value receiver so
// templates can call it on ranged elements.
func (q Question) DisplayAuthor() string {
	if q.AuthorName != "" {
		return q.AuthorName
	}
	if q.AuthorUsername != "" {
		return q.AuthorUsername
	}
	return "User"
}

// TagNames is the canonical tag list. Its decoder accepts every shape the
// backend is known to emit.
type TagNames []string

// UnmarshalJSON accepts:
//
//	"go,http"                      comma-joined string
//	["go", "http"]                 array of strings
//	[{"name": "go"}, ...]          array of tag objects
//
// and mixed string/object arrays. Empty entries are dropped.
func (t *TagNames) UnmarshalJSON(data []byte) error {
	data = []byte(strings.TrimSpace(string(data)))
	if len(data) == 0 || string(data) == "null" {
		*t = nil
		return nil
	}

	if data[0] == '"' {
		var joined string
		if err := json.Unmarshal(data, &joined); err != nil {
			return err
		}
		*t = splitTags(joined)
		return nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	names := make(TagNames, 0, len(raw))
	for _, item := range raw {
		item = []byte(strings.TrimSpace(string(item)))
		if len(item) == 0 {
			continue
		}
		if item[0] == '{' {
			var obj struct {
				Name string `json:"name"`
			}
			if err := json.Unmarshal(item, &obj); err != nil {
				return err
			}
			if name := strings.TrimSpace(obj.Name); name != "" {
				names = append(names, name)
			}
			continue
		}
		var name string
		if err := json.Unmarshal(item, &name); err != nil {
			return err
		}
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	*t = names
	return nil
}

// MarshalJSON emits the canonical array-of-strings shape.
func (t TagNames) MarshalJSON() ([]byte, error) {
	return json.Marshal([]string(t))
}

// Join renders the comma-joined wire form the create endpoint expects.
func (t TagNames) Join() string {
	return strings.Join([]string(t), ",")
}

func splitTags(joined string) TagNames {
	parts := strings.Split(joined, ",")
	names := make(TagNames, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			names = append(names, p)
		}
	}
	return names
}
