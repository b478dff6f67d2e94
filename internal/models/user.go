package models

import (
	"time"

	"gorm.io/gorm"
)

/** --------------------ENTITIES-------------------- */

// User represents a registered student account.
type User struct {
	gorm.Model
	Username   string     `gorm:"not null" json:"username"`
	Email      string     `gorm:"uniqueIndex;not null" json:"email"`
	Password   string     `json:"-"` // bcrypt hash, never serialized
	GoogleID   string     `gorm:"index" json:"-"`
	Avatar     string     `json:"avatar,omitempty"`
	IsVerified bool       `gorm:"default:false" json:"isVerified"`
	IsLoggedIn bool       `gorm:"default:false" json:"isLoggedIn"`
	OTP        string     `json:"-"`
	OTPExpiry  *time.Time `json:"-"`

	// Gamification stats. Reputation is mutated only through the vote
	// engine's flat-delta protocol plus creation-time increments.
	Reputation int       `gorm:"default:0" json:"reputation"`
	Questions  int       `gorm:"default:0" json:"questions"`
	Answers    int       `gorm:"default:0" json:"answers"`
	Streak     int       `gorm:"default:0" json:"streak"`
	LastActive time.Time `json:"lastActive"`

	Badges    []UserBadge `gorm:"foreignKey:UserID" json:"badges"`
	LoginDays []LoginDay  `gorm:"foreignKey:UserID" json:"-"`
}

// UserBadge is one earned achievement. Badges are additive and never revoked.
type UserBadge struct {
	ID     uint   `gorm:"primaryKey" json:"-"`
	UserID uint   `gorm:"uniqueIndex:idx_user_badge;not null" json:"-"`
	Name   string `gorm:"uniqueIndex:idx_user_badge;not null" json:"name"`
}

// LoginDay records one calendar day on which the user logged in. At most one
// row per user per day; the streak is derived from consecutive rows.
type LoginDay struct {
	ID     uint      `gorm:"primaryKey" json:"-"`
	UserID uint      `gorm:"uniqueIndex:idx_user_day;not null" json:"-"`
	Day    time.Time `gorm:"uniqueIndex:idx_user_day;not null" json:"day"`
}

// Session enforces single-session login: at most one row per user.
type Session struct {
	gorm.Model
	UserID uint `gorm:"uniqueIndex;not null" json:"userId"`
}

/** -------------------- DTOs -------------------- */

// Request
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type VerifyOTPRequest struct {
	OTP string `json:"otp" binding:"required,len=6"`
}

type ChangePasswordRequest struct {
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
}

type GoogleLoginRequest struct {
	Token string `json:"token" binding:"required"`
}

// Response
type UserResponse struct {
	ID         uint      `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	Avatar     string    `json:"avatar,omitempty"`
	Reputation int       `json:"reputation"`
	Streak     int       `json:"streak"`
	Badges     []string  `json:"badges"`
	CreatedAt  time.Time `json:"createdAt"`
}

// LoginResponse carries both tokens plus the user snapshot.
// swagger:model
type LoginResponse struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	User         UserResponse `json:"user"`
}

// ProfileResponse is the profile page payload: the user plus leaderboard rank
// (1 + number of users with strictly greater reputation).
type ProfileResponse struct {
	User      UserResponse `json:"user"`
	Rank      int64        `json:"rank"`
	Questions int          `json:"questions"`
	Answers   int          `json:"answers"`
}

// BadgeNames flattens the badge rows to the plain string set the evaluator
// and the API both work with.
func (u *User) BadgeNames() []string {
	names := make([]string, 0, len(u.Badges))
	for _, b := range u.Badges {
		names = append(names, b.Name)
	}
	return names
}

// ToUserResponse builds the public view of a user.
func (u *User) ToUserResponse() UserResponse {
	return UserResponse{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		Avatar:     u.Avatar,
		Reputation: u.Reputation,
		Streak:     u.Streak,
		Badges:     u.BadgeNames(),
		CreatedAt:  u.CreatedAt,
	}
}
