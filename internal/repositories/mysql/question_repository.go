package mysql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"learnstack-service/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type QuestionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{db: db}
}

// Transaction runs fn in one database transaction. The vote engine does all
// its guard checks and mutations inside such a transaction while holding a
// row lock on the target question, so concurrent votes on the same target
// serialize instead of losing updates.
func (r *QuestionRepository) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

// lockForUpdate acquires a row lock on dialects that support it. The sqlite
// driver used in tests serializes writers on its own and rejects FOR UPDATE.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// GetForUpdate loads a question and locks its row for the remainder of the
// transaction. Answers are always reached through here: the parent lock is
// what serializes answer votes and answer appends too.
func (r *QuestionRepository) GetForUpdate(tx *gorm.DB, id uint) (*models.Question, error) {
	var q models.Question
	if err := lockForUpdate(tx).First(&q, id).Error; err != nil {
		return nil, err
	}
	return &q, nil
}

// GetAnswer loads one answer strictly within its parent question. Callers
// must already hold the parent lock via GetForUpdate.
func (r *QuestionRepository) GetAnswer(tx *gorm.DB, questionID, answerID uint) (*models.Answer, error) {
	var a models.Answer
	err := tx.Where("question_id = ?", questionID).First(&a, answerID).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// GetQuestionVote returns the voter's existing vote row on the question, or
// nil if they have not voted yet.
func (r *QuestionRepository) GetQuestionVote(tx *gorm.DB, questionID, userID uint) (*models.QuestionVote, error) {
	var v models.QuestionVote
	err := tx.Where("question_id = ? AND user_id = ?", questionID, userID).First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *QuestionRepository) GetAnswerVote(tx *gorm.DB, answerID, userID uint) (*models.AnswerVote, error) {
	var v models.AnswerVote
	err := tx.Where("answer_id = ? AND user_id = ?", answerID, userID).First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *QuestionRepository) SaveQuestionVote(tx *gorm.DB, v *models.QuestionVote) error {
	return tx.Save(v).Error
}

func (r *QuestionRepository) SaveAnswerVote(tx *gorm.DB, v *models.AnswerVote) error {
	return tx.Save(v).Error
}

// QuestionVoterIDs returns both voter sets. The score persisted on the
// question is always recomputed from these inside the same transaction.
func (r *QuestionRepository) QuestionVoterIDs(tx *gorm.DB, questionID uint) (up, down []uint, err error) {
	var rows []models.QuestionVote
	if err = tx.Where("question_id = ?", questionID).Find(&rows).Error; err != nil {
		return nil, nil, err
	}
	up, down = []uint{}, []uint{}
	for _, row := range rows {
		if row.Direction == models.VoteUp {
			up = append(up, row.UserID)
		} else {
			down = append(down, row.UserID)
		}
	}
	return up, down, nil
}

func (r *QuestionRepository) AnswerVoterIDs(tx *gorm.DB, answerID uint) (up, down []uint, err error) {
	var rows []models.AnswerVote
	if err = tx.Where("answer_id = ?", answerID).Find(&rows).Error; err != nil {
		return nil, nil, err
	}
	up, down = []uint{}, []uint{}
	for _, row := range rows {
		if row.Direction == models.VoteUp {
			up = append(up, row.UserID)
		} else {
			down = append(down, row.UserID)
		}
	}
	return up, down, nil
}

func (r *QuestionRepository) Save(tx *gorm.DB, q *models.Question) error {
	return tx.Save(q).Error
}

func (r *QuestionRepository) SaveAnswer(tx *gorm.DB, a *models.Answer) error {
	return tx.Save(a).Error
}

func (r *QuestionRepository) CreateAnswer(tx *gorm.DB, a *models.Answer) error {
	return tx.Create(a).Error
}

// CountAnswers is used to keep answers_count equal to the collection length.
func (r *QuestionRepository) CountAnswers(tx *gorm.DB, questionID uint) (int64, error) {
	var n int64
	err := tx.Model(&models.Answer{}).Where("question_id = ?", questionID).Count(&n).Error
	return n, err
}

func (r *QuestionRepository) Create(ctx context.Context, q *models.Question) error {
	return r.db.WithContext(ctx).Create(q).Error
}

// List applies search, subject filter, sort and pagination.
func (r *QuestionRepository) List(ctx context.Context, query *models.ListQuestionsQuery) ([]models.Question, int64, error) {
	db := r.db.WithContext(ctx).Model(&models.Question{})

	if query.Search != "" {
		like := "%" + strings.ToLower(query.Search) + "%"
		db = db.Where("LOWER(title) LIKE ? OR LOWER(content) LIKE ? OR LOWER(tags) LIKE ?", like, like, like)
	}
	if query.Subject != "" {
		db = db.Where("subject = ?", query.Subject)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "created_at DESC"
	if query.Sort == "votes" {
		order = "votes DESC"
	}

	var questions []models.Question
	err := db.Order(order).
		Offset((query.Page - 1) * query.Limit).
		Limit(query.Limit).
		Preload("Author").
		Find(&questions).Error
	if err != nil {
		return nil, 0, err
	}
	return questions, total, nil
}

// GetWithView loads the full aggregate and bumps the view counter under the
// row lock so concurrent reads do not drop increments.
func (r *QuestionRepository) GetWithView(ctx context.Context, id uint) (*models.Question, error) {
	var q models.Question
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		locked, err := r.GetForUpdate(tx, id)
		if err != nil {
			return err
		}
		locked.Views++
		if err := tx.Model(&models.Question{}).Where("id = ?", id).
			Update("views", locked.Views).Error; err != nil {
			return err
		}
		return tx.Preload("Author").
			Preload("Answers").
			Preload("Answers.Author").
			First(&q, id).Error
	})
	if err != nil {
		return nil, err
	}
	up, down, err := r.QuestionVoterIDs(r.db.WithContext(ctx), id)
	if err != nil {
		return nil, err
	}
	q.Upvotes, q.Downvotes = up, down
	return &q, nil
}

// Exists reports whether a question row is present, without loading it.
func (r *QuestionRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Question{}).Where("id = ?", id).Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("failed to check question existence: %w", err)
	}
	return n > 0, nil
}
