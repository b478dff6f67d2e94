package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"learnstack-service/internal/adapters/mailer"
	"learnstack-service/internal/adapters/oauth"
	"learnstack-service/internal/config"
	"learnstack-service/internal/models"
	"learnstack-service/internal/repositories/mysql"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// UserService owns the account lifecycle: registration, email verification,
// login with single-session enforcement and streak tracking, the OTP
// password-reset flow, Google login, and the profile view.
type UserService struct {
	users  *mysql.UserRepository
	mail   mailer.Mailer
	google oauth.TokenVerifier
	jwtCfg config.JWTConfig
	now    func() time.Time
}

func NewUserService(users *mysql.UserRepository, mail mailer.Mailer, google oauth.TokenVerifier, jwtCfg config.JWTConfig) *UserService {
	return &UserService{
		users:  users,
		mail:   mail,
		google: google,
		jwtCfg: jwtCfg,
		now:    time.Now,
	}
}

func (s *UserService) generateToken(userID uint, email string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"email":   email,
		"exp":     s.now().Add(ttl).Unix(),
		"iat":     s.now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtCfg.Secret))
}

func (s *UserService) parseToken(tokenString string) (uint, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.jwtCfg.Secret), nil
	})
	if err != nil || !token.Valid {
		return 0, fmt.Errorf("%w: token verification failed", ErrUnauthorized)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, fmt.Errorf("%w: invalid token claims", ErrUnauthorized)
	}
	userID, ok := claims["user_id"].(float64)
	if !ok {
		return 0, fmt.Errorf("%w: invalid user ID in token", ErrUnauthorized)
	}
	return uint(userID), nil
}

// Register creates an account and emails a short-lived verification token.
// Mail delivery is best-effort: the account exists either way.
func (s *UserService) Register(ctx context.Context, req *models.RegisterRequest) (*models.UserResponse, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: string(hashed),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, mysql.ErrEmailTaken) {
			return nil, fmt.Errorf("%w: user already exists", ErrConflict)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	verifyToken, err := s.generateToken(user.ID, user.Email, s.jwtCfg.VerifyTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate verification token: %w", err)
	}
	if err := s.mail.SendVerification(user.Email, verifyToken); err != nil {
		slog.Error("failed to send verification email", "email", user.Email, "error", err)
	}

	resp := user.ToUserResponse()
	return &resp, nil
}

// Verify consumes a registration token and marks the account verified.
func (s *UserService) Verify(ctx context.Context, tokenString string) error {
	userID, err := s.parseToken(tokenString)
	if err != nil {
		return err
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if isRecordNotFound(err) {
			return fmt.Errorf("%w: user not found", ErrNotFound)
		}
		return err
	}
	user.IsVerified = true
	return s.users.Save(ctx, user)
}

// Login checks credentials, refuses unverified accounts, replaces any
// previous session, records today's login day and recomputes the streak.
func (s *UserService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}
	if !user.IsVerified {
		return nil, fmt.Errorf("%w: verify your account before login", ErrForbidden)
	}

	if err := s.users.ReplaceSession(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	if err := s.touchStreak(ctx, user); err != nil {
		return nil, err
	}

	return s.issueTokens(user)
}

// Logout removes the session and clears the logged-in flag.
func (s *UserService) Logout(ctx context.Context, userID uint) error {
	if err := s.users.DeleteSessions(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete sessions: %w", err)
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if isRecordNotFound(err) {
			return fmt.Errorf("%w: user not found", ErrNotFound)
		}
		return err
	}
	user.IsLoggedIn = false
	return s.users.Save(ctx, user)
}

// ForgotPassword stores a six-digit OTP with a short expiry and mails it.
func (s *UserService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if isRecordNotFound(err) {
			return fmt.Errorf("%w: user not found", ErrNotFound)
		}
		return err
	}

	otp, err := generateOTP()
	if err != nil {
		return fmt.Errorf("failed to generate OTP: %w", err)
	}
	expiry := s.now().Add(s.jwtCfg.OTPExpiry)
	user.OTP = otp
	user.OTPExpiry = &expiry
	if err := s.users.Save(ctx, user); err != nil {
		return fmt.Errorf("failed to store OTP: %w", err)
	}

	if err := s.mail.SendOTP(email, otp); err != nil {
		return fmt.Errorf("failed to send OTP email: %w", err)
	}
	return nil
}

func (s *UserService) VerifyOTP(ctx context.Context, email, otp string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if isRecordNotFound(err) {
			return fmt.Errorf("%w: user not found", ErrNotFound)
		}
		return err
	}
	if user.OTP == "" || user.OTPExpiry == nil {
		return fmt.Errorf("%w: OTP not generated or already verified", ErrInvalidArgument)
	}
	if user.OTPExpiry.Before(s.now()) {
		return fmt.Errorf("%w: OTP has expired, please request a new one", ErrInvalidArgument)
	}
	if otp != user.OTP {
		return fmt.Errorf("%w: invalid OTP", ErrInvalidArgument)
	}

	user.OTP = ""
	user.OTPExpiry = nil
	return s.users.Save(ctx, user)
}

func (s *UserService) ChangePassword(ctx context.Context, email string, req *models.ChangePasswordRequest) error {
	if req.NewPassword != req.ConfirmPassword {
		return fmt.Errorf("%w: passwords do not match", ErrInvalidArgument)
	}
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if isRecordNotFound(err) {
			return fmt.Errorf("%w: user not found", ErrNotFound)
		}
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hashed)
	return s.users.Save(ctx, user)
}

// GoogleLogin verifies the access token against Google, creates or links
// the account, and issues the same token pair as a password login.
func (s *UserService) GoogleLogin(ctx context.Context, accessToken string) (*models.LoginResponse, error) {
	profile, err := s.google.Verify(ctx, accessToken)
	if err != nil {
		return nil, fmt.Errorf("%w: google login failed", ErrUnauthorized)
	}

	user, err := s.users.FindByEmail(ctx, profile.Email)
	switch {
	case err == nil:
		if user.GoogleID == "" {
			user.GoogleID = profile.Sub
		}
		if user.Avatar == "" {
			user.Avatar = profile.Picture
		}
		user.IsVerified = true
	case isRecordNotFound(err):
		// Google accounts get a random password; they authenticate through
		// Google, not the password flow.
		random, randErr := generateRandomPassword()
		if randErr != nil {
			return nil, randErr
		}
		hashed, hashErr := bcrypt.GenerateFromPassword([]byte(random), bcrypt.DefaultCost)
		if hashErr != nil {
			return nil, fmt.Errorf("failed to hash password: %w", hashErr)
		}
		user = &models.User{
			Username:   profile.Name,
			Email:      profile.Email,
			Password:   string(hashed),
			GoogleID:   profile.Sub,
			Avatar:     profile.Picture,
			IsVerified: true,
		}
		if createErr := s.users.Create(ctx, user); createErr != nil {
			return nil, fmt.Errorf("failed to create user: %w", createErr)
		}
	default:
		return nil, err
	}

	if err := s.users.ReplaceSession(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	if err := s.touchStreak(ctx, user); err != nil {
		return nil, err
	}

	return s.issueTokens(user)
}

// Profile returns the user with their leaderboard rank.
func (s *UserService) Profile(ctx context.Context, userID uint) (*models.ProfileResponse, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if isRecordNotFound(err) {
			return nil, fmt.Errorf("%w: user not found", ErrNotFound)
		}
		return nil, err
	}
	rank, err := s.users.Rank(ctx, user.Reputation)
	if err != nil {
		return nil, fmt.Errorf("failed to compute rank: %w", err)
	}
	return &models.ProfileResponse{
		User:      user.ToUserResponse(),
		Rank:      rank,
		Questions: user.Questions,
		Answers:   user.Answers,
	}, nil
}

// UpdateAvatar stores the uploaded avatar's URL on the user.
func (s *UserService) UpdateAvatar(ctx context.Context, userID uint, url string) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if isRecordNotFound(err) {
			return nil, fmt.Errorf("%w: user not found", ErrNotFound)
		}
		return nil, err
	}
	user.Avatar = url
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// touchStreak records today's login day (once per calendar day) and stores
// the recomputed streak on the user.
func (s *UserService) touchStreak(ctx context.Context, user *models.User) error {
	today := dayOf(s.now())
	if err := s.users.RecordLoginDay(ctx, user.ID, today); err != nil {
		return fmt.Errorf("failed to record login day: %w", err)
	}
	days, err := s.users.LoginDays(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("failed to load login days: %w", err)
	}

	user.Streak = ComputeStreak(days)
	user.IsLoggedIn = true
	user.LastActive = s.now()
	return s.users.Save(ctx, user)
}

func (s *UserService) issueTokens(user *models.User) (*models.LoginResponse, error) {
	access, err := s.generateToken(user.ID, user.Email, s.jwtCfg.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	refresh, err := s.generateToken(user.ID, user.Email, s.jwtCfg.RefreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &models.LoginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         user.ToUserResponse(),
	}, nil
}

// ComputeStreak counts consecutive calendar days ending at the most recent
// login. Days must be sorted most recent first.
func ComputeStreak(days []time.Time) int {
	if len(days) == 0 {
		return 0
	}
	streak := 1
	for i := 1; i < len(days); i++ {
		diff := days[i-1].Sub(days[i]).Hours() / 24
		if diff == 1 {
			streak++
		} else {
			break
		}
	}
	return streak
}

func dayOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

func generateRandomPassword() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", buf), nil
}
