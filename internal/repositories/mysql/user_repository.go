package mysql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"learnstack-service/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrEmailTaken = errors.New("email already exists")

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.User
		if err := tx.Where("email = ?", user.Email).First(&existing).Error; err == nil {
			return ErrEmailTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check email existence: %w", err)
		}
		if err := tx.Create(user).Error; err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		return nil
	})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Preload("Badges").Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Preload("Badges").First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Preload("Badges").Where("google_id = ?", googleID).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) Save(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// IncrementReputation applies one flat reputation delta atomically. Used
// only by the vote engine's post-commit side effect and kept separate from
// Save so a stale in-memory user can never clobber concurrent deltas.
func (r *UserRepository) IncrementReputation(ctx context.Context, userID uint, delta int) error {
	return r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).
		Update("reputation", gorm.Expr("reputation + ?", delta)).Error
}

func (r *UserRepository) IncrementQuestions(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).
		Updates(map[string]interface{}{
			"questions":   gorm.Expr("questions + 1"),
			"last_active": time.Now(),
		}).Error
}

func (r *UserRepository) IncrementAnswers(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).
		Update("answers", gorm.Expr("answers + 1")).Error
}

// AddBadges inserts newly earned badges, ignoring ones already present.
func (r *UserRepository) AddBadges(ctx context.Context, userID uint, names []string) error {
	if len(names) == 0 {
		return nil
	}
	rows := make([]models.UserBadge, 0, len(names))
	for _, name := range names {
		rows = append(rows, models.UserBadge{UserID: userID, Name: name})
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}

// Rank is 1 plus the number of users with strictly greater reputation.
func (r *UserRepository) Rank(ctx context.Context, reputation int) (int64, error) {
	var higher int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("reputation > ?", reputation).Count(&higher).Error
	if err != nil {
		return 0, err
	}
	return higher + 1, nil
}

/** -------------------- SESSIONS -------------------- */

// ReplaceSession enforces single-session login: any previous session row for
// the user is removed before the new one is created.
func (r *UserRepository) ReplaceSession(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("user_id = ?", userID).Delete(&models.Session{}).Error; err != nil {
			return err
		}
		return tx.Create(&models.Session{UserID: userID}).Error
	})
}

func (r *UserRepository) DeleteSessions(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Unscoped().Where("user_id = ?", userID).Delete(&models.Session{}).Error
}

/** -------------------- LOGIN DAYS -------------------- */

// RecordLoginDay stores today's calendar day for the user; duplicates within
// the same day are ignored.
func (r *UserRepository) RecordLoginDay(ctx context.Context, userID uint, day time.Time) error {
	day = day.Truncate(24 * time.Hour)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.LoginDay{UserID: userID, Day: day}).Error
}

// LoginDays returns the user's login days, most recent first.
func (r *UserRepository) LoginDays(ctx context.Context, userID uint) ([]time.Time, error) {
	var rows []models.LoginDay
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("day DESC").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	days := make([]time.Time, 0, len(rows))
	for _, row := range rows {
		days = append(days, row.Day)
	}
	return days, nil
}
