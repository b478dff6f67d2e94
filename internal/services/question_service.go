package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"learnstack-service/internal/adapters/events"
	"learnstack-service/internal/models"
	"learnstack-service/internal/repositories/mysql"

	"gorm.io/gorm"
)

func isRecordNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// QuestionService covers the question lifecycle around the vote engine:
// create, list/search, single read with view increment, answer attachment.
type QuestionService struct {
	questions *mysql.QuestionRepository
	users     *mysql.UserRepository
	badges    *BadgeService
	publisher events.Publisher
}

func NewQuestionService(
	questions *mysql.QuestionRepository,
	users *mysql.UserRepository,
	badges *BadgeService,
	publisher events.Publisher,
) *QuestionService {
	return &QuestionService{
		questions: questions,
		users:     users,
		badges:    badges,
		publisher: publisher,
	}
}

// Create stores a new question with empty voter sets and zero score, then
// bumps the author's contribution counter and runs the badge hook.
func (s *QuestionService) Create(ctx context.Context, authorID uint, req *models.CreateQuestionRequest, mediaURL string) (*models.Question, error) {
	tags := make([]string, 0, len(req.Tags))
	for _, t := range req.Tags {
		if trimmed := strings.TrimSpace(t); trimmed != "" {
			tags = append(tags, trimmed)
		}
	}

	q := &models.Question{
		Title:      req.Title,
		Content:    req.Content,
		Tags:       tags,
		Subject:    req.Subject,
		Difficulty: req.Difficulty,
		MediaURL:   mediaURL,
		AuthorID:   authorID,
	}
	if err := s.questions.Create(ctx, q); err != nil {
		return nil, fmt.Errorf("failed to create question: %w", err)
	}

	if err := s.users.IncrementQuestions(ctx, authorID); err != nil {
		slog.Error("failed to increment question counter", "authorID", authorID, "error", err)
	}
	s.runBadgeHook(ctx, authorID)

	q.Upvotes, q.Downvotes = []uint{}, []uint{}
	return q, nil
}

func (s *QuestionService) List(ctx context.Context, query *models.ListQuestionsQuery) (*models.QuestionListResponse, error) {
	questions, total, err := s.questions.List(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	return &models.QuestionListResponse{
		Data:  questions,
		Page:  query.Page,
		Limit: query.Limit,
		Total: total,
	}, nil
}

// Get loads the full aggregate and increments the view counter.
func (s *QuestionService) Get(ctx context.Context, id uint) (*models.Question, error) {
	q, err := s.questions.GetWithView(ctx, id)
	if err != nil {
		if isRecordNotFound(err) {
			return nil, fmt.Errorf("%w: question not found", ErrNotFound)
		}
		return nil, err
	}
	return q, nil
}

// AddAnswer appends an answer to the question's embedded collection with
// empty voter sets and zero score, keeping answers_count equal to the
// collection length under the parent lock.
func (s *QuestionService) AddAnswer(ctx context.Context, questionID, authorID uint, content string) (*models.Answer, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: answer content required", ErrInvalidArgument)
	}

	var answer *models.Answer
	err := s.questions.Transaction(ctx, func(tx *gorm.DB) error {
		q, err := s.questions.GetForUpdate(tx, questionID)
		if err != nil {
			if isRecordNotFound(err) {
				return fmt.Errorf("%w: question not found", ErrNotFound)
			}
			return err
		}

		answer = &models.Answer{
			QuestionID: questionID,
			AuthorID:   authorID,
			Content:    content,
		}
		if err := s.questions.CreateAnswer(tx, answer); err != nil {
			return err
		}

		count, err := s.questions.CountAnswers(tx, questionID)
		if err != nil {
			return err
		}
		q.AnswersCount = int(count)
		return s.questions.Save(tx, q)
	})
	if err != nil {
		return nil, err
	}

	if err := s.users.IncrementAnswers(ctx, authorID); err != nil {
		slog.Error("failed to increment answer counter", "authorID", authorID, "error", err)
	}
	s.runBadgeHook(ctx, authorID)

	if s.publisher != nil {
		event := models.ActivityEvent{
			Type:       "answer.created",
			QuestionID: questionID,
			AnswerID:   answer.ID,
			ActorID:    authorID,
			Timestamp:  time.Now(),
		}
		if err := s.publisher.PublishActivity(ctx, event); err != nil {
			slog.Error("failed to publish activity event", "type", event.Type, "questionID", questionID, "error", err)
		}
	}

	return answer, nil
}

func (s *QuestionService) runBadgeHook(ctx context.Context, userID uint) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		slog.Error("failed to reload user for badge evaluation", "userID", userID, "error", err)
		return
	}
	missing := s.badges.Missing(UserStats{
		Questions:  user.Questions,
		Answers:    user.Answers,
		Reputation: user.Reputation,
		Streak:     user.Streak,
	}, user.BadgeNames())
	if err := s.users.AddBadges(ctx, userID, missing); err != nil {
		slog.Error("failed to persist badges", "userID", userID, "error", err)
	}
}
