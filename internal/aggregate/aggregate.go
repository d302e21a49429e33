// Package aggregate composes multi-call view models out of gateway results.
// Nothing here is persisted or cached; every call recomputes from fresh
// fetches.
//
// Failure policy differs by operation and is deliberate: UserStatistics and
// UserActivity fail as a whole if any underlying fetch fails, while
// GlobalSearch degrades each failing half to an empty collection and never
// fails once the keyword is valid.
package aggregate

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/arefin/qoverflow/internal/apperror"
	"github.com/arefin/qoverflow/internal/model"
)

// Gateway is the slice of the API client the aggregator depends on.
// *gateway.Client satisfies it.
type Gateway interface {
	UserByID(ctx context.Context, id string) (*model.User, error)
	QuestionsByAuthor(ctx context.Context, authorID string) ([]model.Question, error)
	AnswersByAuthor(ctx context.Context, authorID string) ([]model.Answer, error)
	SearchQuestions(ctx context.Context, keyword string) ([]model.Question, error)
	SearchUsers(ctx context.Context, keyword string) ([]model.User, error)
}

// SearchResults is the combined outcome of a global search. Both slices are
// always non-nil.
type SearchResults struct {
	Questions []model.Question
	Users     []model.User
}

type Service struct {
	api    Gateway
	logger *slog.Logger
}

func New(api Gateway, logger *slog.Logger) *Service {
	return &Service{api: api, logger: logger}
}

// UserStatistics fetches the identity, then the user's questions and answers
// concurrently, and folds them into one statistics object. Either fetch
// failing fails the whole call.
func (s *Service) UserStatistics(ctx context.Context, userID string) (*model.UserStatistics, error) {
	user, err := s.api.UserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	var (
		questions []model.Question
		answers   []model.Answer
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		questions, err = s.api.QuestionsByAuthor(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		answers, err = s.api.AnswersByAuthor(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("aggregating statistics for user %s: %w", userID, err)
	}

	stats := &model.UserStatistics{
		QuestionsCount: len(questions),
		AnswersCount:   len(answers),
		JoinDate:       user.CreatedAt,
		Reputation:     user.Reputation,
		Badges:         user.Badges,
	}
	if stats.Badges == nil {
		stats.Badges = []string{}
	}
	for _, q := range questions {
		stats.TotalVotes += q.Votes
	}
	for _, a := range answers {
		if a.Accepted {
			stats.AcceptedAnswersCount++
		}
		stats.TotalVotes += a.NetVotes()
	}
	return stats, nil
}

// UserActivity merges the user's questions and answers into a single
// timeline, newest first. The sort is stable, so entries sharing a date keep
// their input order (questions before answers). The result is always a
// non-nil slice.
func (s *Service) UserActivity(ctx context.Context, userID string) ([]model.ActivityEntry, error) {
	var (
		questions []model.Question
		answers   []model.Answer
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		questions, err = s.api.QuestionsByAuthor(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		answers, err = s.api.AnswersByAuthor(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("aggregating activity for user %s: %w", userID, err)
	}

	entries := make([]model.ActivityEntry, 0, len(questions)+len(answers))
	for _, q := range questions {
		entries = append(entries, model.ActivityEntry{
			Type:  model.ActivityQuestion,
			ID:    q.ID,
			Title: q.Title,
			Date:  q.CreatedAt,
			Votes: q.Votes,
			Link:  fmt.Sprintf("/questions/%d", q.ID),
		})
	}
	for _, a := range answers {
		title := a.QuestionTitle
		if title == "" {
			title = "Question"
		}
		entries = append(entries, model.ActivityEntry{
			Type:       model.ActivityAnswer,
			ID:         a.ID,
			QuestionID: a.QuestionID,
			Title:      title,
			Date:       a.CreatedAt,
			Votes:      a.NetVotes(),
			Accepted:   a.Accepted,
			Link:       fmt.Sprintf("/questions/%d", a.QuestionID),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.After(entries[j].Date.Time)
	})
	return entries, nil
}

// GlobalSearch runs the question and user searches independently. An invalid
// keyword fails fast before any network call; after that, a failing half is
// logged and degraded to an empty collection, so the call as a whole never
// fails.
func (s *Service) GlobalSearch(ctx context.Context, keyword string) (*SearchResults, error) {
	if err := validKeyword(keyword); err != nil {
		return nil, err
	}

	results := &SearchResults{
		Questions: []model.Question{},
		Users:     []model.User{},
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		questions, err := s.api.SearchQuestions(gctx, keyword)
		if err != nil {
			s.logger.Warn("question search failed",
				slog.String("keyword", keyword),
				slog.String("error", err.Error()),
			)
			return nil
		}
		if questions != nil {
			results.Questions = questions
		}
		return nil
	})
	g.Go(func() error {
		users, err := s.api.SearchUsers(gctx, keyword)
		if err != nil {
			s.logger.Warn("user search failed",
				slog.String("keyword", keyword),
				slog.String("error", err.Error()),
			)
			return nil
		}
		if users != nil {
			results.Users = users
		}
		return nil
	})
	_ = g.Wait()
	return results, nil
}

func validKeyword(keyword string) error {
	if strings.TrimSpace(keyword) == "" {
		return apperror.InvalidArgument("keyword", "Search keyword is required")
	}
	return nil
}
