package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"learnstack-service/internal/adapters/events"
	"learnstack-service/internal/models"
	"learnstack-service/internal/repositories/mysql"

	"gorm.io/gorm"
)

// Reputation deltas. Flat per action: switching a vote applies the new
// direction's full delta without reversing the old one (the observed
// behavior of this system, kept deliberately).
const (
	questionUpvoteDelta   = 3
	questionDownvoteDelta = -2
	answerUpvoteDelta     = 5
	answerDownvoteDelta   = -2
)

// VotingService owns the vote-casting protocol for questions and answers:
// one vote per user per target, up/down switching, derived score, and the
// post-commit reputation/badge side effects on the target's author.
type VotingService struct {
	questions *mysql.QuestionRepository
	users     *mysql.UserRepository
	badges    *BadgeService
	publisher events.Publisher
}

func NewVotingService(
	questions *mysql.QuestionRepository,
	users *mysql.UserRepository,
	badges *BadgeService,
	publisher events.Publisher,
) *VotingService {
	return &VotingService{
		questions: questions,
		users:     users,
		badges:    badges,
		publisher: publisher,
	}
}

// CastQuestionVote applies one user's vote intent to a question.
//
// Guards run in order inside the locked transaction; the first failure wins
// and nothing is mutated: target exists, direction is up/down, voter is not
// the author, voter has not already voted this direction. A vote in the
// opposite direction is switched. The score is recomputed from the voter
// sets before commit; reputation and badges are applied after.
func (s *VotingService) CastQuestionVote(ctx context.Context, questionID, voterID uint, direction string) (*models.QuestionVoteResponse, error) {
	var (
		resp     models.QuestionVoteResponse
		authorID uint
	)

	err := s.questions.Transaction(ctx, func(tx *gorm.DB) error {
		q, err := s.questions.GetForUpdate(tx, questionID)
		if err != nil {
			if isRecordNotFound(err) {
				return fmt.Errorf("%w: question not found", ErrNotFound)
			}
			return err
		}

		if direction != models.VoteUp && direction != models.VoteDown {
			return fmt.Errorf("%w: type must be 'up' or 'down'", ErrInvalidArgument)
		}
		if q.AuthorID == voterID {
			return fmt.Errorf("%w: you cannot vote on your own question", ErrForbidden)
		}

		vote, err := s.questions.GetQuestionVote(tx, questionID, voterID)
		if err != nil {
			return err
		}
		switch {
		case vote != nil && vote.Direction == direction:
			return fmt.Errorf("%w: you have already %svoted this question", ErrConflict, direction)
		case vote != nil:
			// Vote switch: leaving one set and joining the other is a
			// single row update, so the sets stay disjoint.
			vote.Direction = direction
			if err := s.questions.SaveQuestionVote(tx, vote); err != nil {
				return err
			}
		default:
			fresh := &models.QuestionVote{QuestionID: questionID, UserID: voterID, Direction: direction}
			if err := s.questions.SaveQuestionVote(tx, fresh); err != nil {
				return err
			}
		}

		up, down, err := s.questions.QuestionVoterIDs(tx, questionID)
		if err != nil {
			return err
		}
		q.Votes = len(up) - len(down)
		if err := s.questions.Save(tx, q); err != nil {
			return err
		}

		authorID = q.AuthorID
		resp = models.QuestionVoteResponse{Votes: q.Votes, Upvotes: up, Downvotes: down}
		return nil
	})
	if err != nil {
		return nil, err
	}

	delta := questionUpvoteDelta
	if direction == models.VoteDown {
		delta = questionDownvoteDelta
	}
	s.applyAuthorSideEffects(ctx, authorID, delta)
	s.publish(ctx, models.ActivityEvent{
		Type:       "question.vote",
		QuestionID: questionID,
		ActorID:    voterID,
		Direction:  direction,
		Votes:      resp.Votes,
		Timestamp:  time.Now(),
	})

	return &resp, nil
}

// CastAnswerVote applies a vote to an answer through its parent question:
// the question row lock is what serializes concurrent answer votes.
func (s *VotingService) CastAnswerVote(ctx context.Context, questionID, answerID, voterID uint, direction string) (*models.AnswerVoteResponse, error) {
	var (
		resp     models.AnswerVoteResponse
		authorID uint
	)

	err := s.questions.Transaction(ctx, func(tx *gorm.DB) error {
		if _, err := s.questions.GetForUpdate(tx, questionID); err != nil {
			if isRecordNotFound(err) {
				return fmt.Errorf("%w: question not found", ErrNotFound)
			}
			return err
		}
		answer, err := s.questions.GetAnswer(tx, questionID, answerID)
		if err != nil {
			if isRecordNotFound(err) {
				return fmt.Errorf("%w: answer not found", ErrNotFound)
			}
			return err
		}

		if direction != models.VoteUp && direction != models.VoteDown {
			return fmt.Errorf("%w: type must be 'up' or 'down'", ErrInvalidArgument)
		}
		if answer.AuthorID == voterID {
			return fmt.Errorf("%w: you cannot vote on your own answer", ErrForbidden)
		}

		vote, err := s.questions.GetAnswerVote(tx, answerID, voterID)
		if err != nil {
			return err
		}
		switch {
		case vote != nil && vote.Direction == direction:
			return fmt.Errorf("%w: you have already %svoted this answer", ErrConflict, direction)
		case vote != nil:
			vote.Direction = direction
			if err := s.questions.SaveAnswerVote(tx, vote); err != nil {
				return err
			}
		default:
			fresh := &models.AnswerVote{AnswerID: answerID, UserID: voterID, Direction: direction}
			if err := s.questions.SaveAnswerVote(tx, fresh); err != nil {
				return err
			}
		}

		up, down, err := s.questions.AnswerVoterIDs(tx, answerID)
		if err != nil {
			return err
		}
		answer.Votes = len(up) - len(down)
		if err := s.questions.SaveAnswer(tx, answer); err != nil {
			return err
		}

		authorID = answer.AuthorID
		resp = models.AnswerVoteResponse{Votes: answer.Votes}
		return nil
	})
	if err != nil {
		return nil, err
	}

	delta := answerUpvoteDelta
	if direction == models.VoteDown {
		delta = answerDownvoteDelta
	}
	s.applyAuthorSideEffects(ctx, authorID, delta)
	s.publish(ctx, models.ActivityEvent{
		Type:       "answer.vote",
		QuestionID: questionID,
		AnswerID:   answerID,
		ActorID:    voterID,
		Direction:  direction,
		Votes:      resp.Votes,
		Timestamp:  time.Now(),
	})

	return &resp, nil
}

// applyAuthorSideEffects runs after the vote has committed. The vote is
// already durable; a failure here leaves reputation or badges transiently
// behind and is only logged, never surfaced to the voter.
func (s *VotingService) applyAuthorSideEffects(ctx context.Context, authorID uint, delta int) {
	if err := s.users.IncrementReputation(ctx, authorID, delta); err != nil {
		slog.Error("failed to apply reputation delta", "authorID", authorID, "delta", delta, "error", err)
		return
	}

	author, err := s.users.FindByID(ctx, authorID)
	if err != nil {
		slog.Error("failed to reload author for badge evaluation", "authorID", authorID, "error", err)
		return
	}
	missing := s.badges.Missing(UserStats{
		Questions:  author.Questions,
		Answers:    author.Answers,
		Reputation: author.Reputation,
		Streak:     author.Streak,
	}, author.BadgeNames())
	if err := s.users.AddBadges(ctx, authorID, missing); err != nil {
		slog.Error("failed to persist badges", "authorID", authorID, "error", err)
	}
}

func (s *VotingService) publish(ctx context.Context, event models.ActivityEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishActivity(ctx, event); err != nil {
		slog.Error("failed to publish activity event", "type", event.Type, "questionID", event.QuestionID, "error", err)
	}
}
