package models

import (
	"time"

	"gorm.io/gorm"
)

// Vote directions accepted by the engine. Anything else is rejected.
const (
	VoteUp   = "up"
	VoteDown = "down"
)

/** --------------------ENTITIES-------------------- */

// Question is the aggregate root for answers and votes. Votes is always
// |upvoters| - |downvoters|, recomputed inside the same transaction as any
// vote mutation; it is never adjusted independently.
type Question struct {
	gorm.Model
	Title      string   `gorm:"not null" json:"title"`
	Content    string   `gorm:"type:text;not null" json:"content"`
	Tags       []string `gorm:"serializer:json" json:"tags"`
	Subject    string   `gorm:"index" json:"subject"`
	Difficulty string   `json:"difficulty"`
	MediaURL   string   `json:"mediaUrl,omitempty"`

	Views        uint `gorm:"default:0" json:"views"`
	AnswersCount int  `gorm:"default:0" json:"answersCount"`
	Votes        int  `gorm:"default:0" json:"votes"`

	AuthorID uint  `gorm:"index;not null" json:"authorId"`
	Author   *User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`

	Answers   []Answer       `gorm:"foreignKey:QuestionID" json:"answers"`
	VoteRows  []QuestionVote `gorm:"foreignKey:QuestionID" json:"-"`
	Upvotes   []uint         `gorm:"-" json:"upvotes"`
	Downvotes []uint         `gorm:"-" json:"downvotes"`
}

// Answer lives only inside its parent question: it is created, voted on and
// read exclusively through the question aggregate.
type Answer struct {
	gorm.Model
	QuestionID uint   `gorm:"index;not null" json:"questionId"`
	Content    string `gorm:"type:text;not null" json:"content"`
	Votes      int    `gorm:"default:0" json:"votes"`

	AuthorID uint  `gorm:"index;not null" json:"authorId"`
	Author   *User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`

	VoteRows []AnswerVote `gorm:"foreignKey:AnswerID" json:"-"`
}

// QuestionVote is one user's recorded vote on a question. The composite
// unique index makes the up/down sets structurally disjoint: a user has at
// most one row per question, and its direction says which set they are in.
type QuestionVote struct {
	ID         uint   `gorm:"primaryKey" json:"-"`
	QuestionID uint   `gorm:"uniqueIndex:idx_question_voter;not null" json:"questionId"`
	UserID     uint   `gorm:"uniqueIndex:idx_question_voter;not null" json:"userId"`
	Direction  string `gorm:"not null" json:"direction"`
}

// AnswerVote mirrors QuestionVote for embedded answers.
type AnswerVote struct {
	ID        uint   `gorm:"primaryKey" json:"-"`
	AnswerID  uint   `gorm:"uniqueIndex:idx_answer_voter;not null" json:"answerId"`
	UserID    uint   `gorm:"uniqueIndex:idx_answer_voter;not null" json:"userId"`
	Direction string `gorm:"not null" json:"direction"`
}

/** -------------------- DTOs -------------------- */

// Request
type CreateQuestionRequest struct {
	Title      string   `json:"title" form:"title" binding:"required"`
	Content    string   `json:"content" form:"content" binding:"required"`
	Tags       []string `json:"tags" form:"tags"`
	Subject    string   `json:"subject" form:"subject"`
	Difficulty string   `json:"difficulty" form:"difficulty"`
}

// VoteRequest is the validated vote body. Presence is checked at the
// boundary; the up/down value check runs inside the engine so that a missing
// target still reports not-found first.
type VoteRequest struct {
	Type string `json:"type" binding:"required"`
}

type AddAnswerRequest struct {
	Content string `json:"content" binding:"required"`
}

type ListQuestionsQuery struct {
	Page    int    `form:"page,default=1" binding:"min=1"`
	Limit   int    `form:"limit,default=10" binding:"min=1,max=100"`
	Sort    string `form:"sort"`
	Search  string `form:"search"`
	Subject string `form:"subject"`
}

// Response
type QuestionVoteResponse struct {
	Votes     int    `json:"votes"`
	Upvotes   []uint `json:"upvotes"`
	Downvotes []uint `json:"downvotes"`
}

type AnswerVoteResponse struct {
	Votes int `json:"votes"`
}

type AddAnswerResponse struct {
	Success bool   `json:"success"`
	Answer  Answer `json:"answer"`
}

type QuestionListResponse struct {
	Data  []Question `json:"data"`
	Page  int        `json:"page"`
	Limit int        `json:"limit"`
	Total int64      `json:"total"`
}

type QuestionResponse struct {
	Question Question `json:"question"`
}

/** -------------------- EVENTS -------------------- */

// ActivityEvent is the JSON payload published to Kafka after a committed
// vote or answer. Delivery is best-effort and never affects the request.
type ActivityEvent struct {
	Type       string    `json:"type"` // question.vote, answer.vote, answer.created
	QuestionID uint      `json:"questionId"`
	AnswerID   uint      `json:"answerId,omitempty"`
	ActorID    uint      `json:"actorId"`
	Direction  string    `json:"direction,omitempty"`
	Votes      int       `json:"votes"`
	Timestamp  time.Time `json:"timestamp"`
}
