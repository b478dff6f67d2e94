package mysql

import (
	"context"

	"learnstack-service/internal/models"

	"gorm.io/gorm"
)

type AssistantRepository struct {
	db *gorm.DB
}

func NewAssistantRepository(db *gorm.DB) *AssistantRepository {
	return &AssistantRepository{db: db}
}

func (r *AssistantRepository) CreateSession(ctx context.Context, session *models.ChatSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

// ListSessions returns the user's conversations, newest first (sidebar order).
func (r *AssistantRepository) ListSessions(ctx context.Context, userID uint) ([]models.ChatSession, error) {
	var sessions []models.ChatSession
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("created_at DESC").Find(&sessions).Error
	return sessions, err
}

// GetSession scopes the lookup to the owning user so one user can never read
// another's conversation.
func (r *AssistantRepository) GetSession(ctx context.Context, sessionID, userID uint) (*models.ChatSession, error) {
	var session models.ChatSession
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&session, sessionID).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *AssistantRepository) CreateMessage(ctx context.Context, msg *models.ChatMessage) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

func (r *AssistantRepository) ListMessages(ctx context.Context, sessionID uint) ([]models.ChatMessage, error) {
	var msgs []models.ChatMessage
	err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).
		Order("created_at ASC, id ASC").Find(&msgs).Error
	return msgs, err
}
