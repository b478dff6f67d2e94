package models

import (
	"time"

	"gorm.io/gorm"
)

/** --------------------ENTITIES-------------------- */

// ChatSession is one assistant conversation shown in the sidebar history.
type ChatSession struct {
	gorm.Model
	UserID uint   `gorm:"index;not null" json:"userId"`
	Title  string `gorm:"default:'New Chat'" json:"title"`
}

// ChatMessage is a single turn within a session.
type ChatMessage struct {
	gorm.Model
	SessionID uint   `gorm:"index;not null" json:"sessionId"`
	Sender    string `gorm:"not null" json:"sender"` // "user" or "ai"
	Content   string `gorm:"type:text;not null" json:"content"`
}

const (
	SenderUser = "user"
	SenderAI   = "ai"
)

/** -------------------- DTOs -------------------- */

type SendMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

type PromptRequest struct {
	Prompt string `json:"prompt" binding:"required"`
}

type SendMessageResponse struct {
	User ChatMessage `json:"user"`
	AI   ChatMessage `json:"ai"`
}

type CompletionResponse struct {
	Text string `json:"text"`
}

type DocumentSummaryResponse struct {
	Text          string `json:"text"`
	ExtractedText string `json:"extractedText,omitempty"`
	DocumentURL   string `json:"documentUrl,omitempty"`
}

type AvatarResponse struct {
	Success   bool      `json:"success"`
	AvatarURL string    `json:"avatarUrl"`
	Message   string    `json:"message"`
	UpdatedAt time.Time `json:"updatedAt"`
}
