package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"learnstack-service/internal/adapters/oauth"
	"learnstack-service/internal/config"
	"learnstack-service/internal/models"
	"learnstack-service/internal/repositories/mysql"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// captureMailer records outgoing mail instead of dialing SMTP.
type captureMailer struct {
	verifyTokens map[string]string
	otps         map[string]string
}

func newCaptureMailer() *captureMailer {
	return &captureMailer{
		verifyTokens: make(map[string]string),
		otps:         make(map[string]string),
	}
}

func (m *captureMailer) SendVerification(to, token string) error {
	m.verifyTokens[to] = token
	return nil
}

func (m *captureMailer) SendOTP(to, otp string) error {
	m.otps[to] = otp
	return nil
}

// stubVerifier returns a fixed Google profile for any token.
type stubVerifier struct {
	profile *oauth.GoogleProfile
	err     error
}

func (v *stubVerifier) Verify(_ context.Context, _ string) (*oauth.GoogleProfile, error) {
	return v.profile, v.err
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:          "test-secret",
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 24 * time.Hour,
		VerifyTokenTTL:  10 * time.Minute,
		OTPExpiry:       10 * time.Minute,
	}
}

func newUserFixture(t *testing.T) (*UserService, *gorm.DB, *captureMailer, *stubVerifier) {
	t.Helper()
	db := newTestDB(t)
	mail := newCaptureMailer()
	google := &stubVerifier{err: errors.New("not configured")}
	svc := NewUserService(mysql.NewUserRepository(db), mail, google, testJWTConfig())
	return svc, db, mail, google
}

func registerVerified(t *testing.T, svc *UserService, mail *captureMailer, email string) *models.UserResponse {
	t.Helper()
	user, err := svc.Register(context.Background(), &models.RegisterRequest{
		Username: "student",
		Email:    email,
		Password: "secret123",
	})
	require.NoError(t, err)
	require.NoError(t, svc.Verify(context.Background(), mail.verifyTokens[email]))
	return user
}

func TestRegisterAndVerify(t *testing.T) {
	svc, db, mail, _ := newUserFixture(t)

	user, err := svc.Register(context.Background(), &models.RegisterRequest{
		Username: "student",
		Email:    "student@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.NotEmpty(t, mail.verifyTokens["student@example.com"])

	stored := reloadUser(t, db, user.ID)
	assert.False(t, stored.IsVerified)
	assert.NotEqual(t, "secret123", stored.Password)

	require.NoError(t, svc.Verify(context.Background(), mail.verifyTokens["student@example.com"]))
	assert.True(t, reloadUser(t, db, user.ID).IsVerified)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _, _, _ := newUserFixture(t)

	req := &models.RegisterRequest{Username: "student", Email: "dup@example.com", Password: "secret123"}
	_, err := svc.Register(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), req)
	require.ErrorIs(t, err, ErrConflict)
}

func TestLogin(t *testing.T) {
	svc, db, mail, _ := newUserFixture(t)
	user := registerVerified(t, svc, mail, "student@example.com")

	resp, err := svc.Login(context.Background(), &models.LoginRequest{
		Email:    "student@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, user.ID, resp.User.ID)
	assert.Equal(t, 1, resp.User.Streak)

	var sessions int64
	require.NoError(t, db.Model(&models.Session{}).Where("user_id = ?", user.ID).Count(&sessions).Error)
	assert.Equal(t, int64(1), sessions)

	// A second login replaces the session instead of stacking another.
	_, err = svc.Login(context.Background(), &models.LoginRequest{
		Email:    "student@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	require.NoError(t, db.Model(&models.Session{}).Where("user_id = ?", user.ID).Count(&sessions).Error)
	assert.Equal(t, int64(1), sessions)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _, mail, _ := newUserFixture(t)
	registerVerified(t, svc, mail, "student@example.com")

	_, err := svc.Login(context.Background(), &models.LoginRequest{
		Email:    "student@example.com",
		Password: "wrong",
	})
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, _, _, _ := newUserFixture(t)

	_, err := svc.Login(context.Background(), &models.LoginRequest{
		Email:    "nobody@example.com",
		Password: "secret123",
	})
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestLogin_UnverifiedAccount(t *testing.T) {
	svc, _, _, _ := newUserFixture(t)

	_, err := svc.Register(context.Background(), &models.RegisterRequest{
		Username: "student",
		Email:    "student@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), &models.LoginRequest{
		Email:    "student@example.com",
		Password: "secret123",
	})
	require.ErrorIs(t, err, ErrForbidden)
}

func TestLogout(t *testing.T) {
	svc, db, mail, _ := newUserFixture(t)
	user := registerVerified(t, svc, mail, "student@example.com")

	_, err := svc.Login(context.Background(), &models.LoginRequest{
		Email:    "student@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), user.ID))

	var sessions int64
	require.NoError(t, db.Model(&models.Session{}).Where("user_id = ?", user.ID).Count(&sessions).Error)
	assert.Equal(t, int64(0), sessions)
	assert.False(t, reloadUser(t, db, user.ID).IsLoggedIn)
}

func TestOTPFlow(t *testing.T) {
	svc, _, mail, _ := newUserFixture(t)
	registerVerified(t, svc, mail, "student@example.com")

	require.NoError(t, svc.ForgotPassword(context.Background(), "student@example.com"))
	otp := mail.otps["student@example.com"]
	require.Len(t, otp, 6)

	t.Run("WrongOTP", func(t *testing.T) {
		err := svc.VerifyOTP(context.Background(), "student@example.com", "000000")
		require.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("CorrectOTP", func(t *testing.T) {
		require.NoError(t, svc.VerifyOTP(context.Background(), "student@example.com", otp))
	})

	t.Run("OTPIsSingleUse", func(t *testing.T) {
		err := svc.VerifyOTP(context.Background(), "student@example.com", otp)
		require.ErrorIs(t, err, ErrInvalidArgument)
	})
}

func TestOTPExpiry(t *testing.T) {
	svc, _, mail, _ := newUserFixture(t)
	registerVerified(t, svc, mail, "student@example.com")

	require.NoError(t, svc.ForgotPassword(context.Background(), "student@example.com"))
	otp := mail.otps["student@example.com"]

	// Move the service clock past the OTP window.
	svc.now = func() time.Time { return time.Now().Add(11 * time.Minute) }

	err := svc.VerifyOTP(context.Background(), "student@example.com", otp)
	require.ErrorIs(t, err, ErrInvalidArgument)
	assert.Contains(t, err.Error(), "expired")
}

func TestChangePassword(t *testing.T) {
	svc, _, mail, _ := newUserFixture(t)
	registerVerified(t, svc, mail, "student@example.com")

	t.Run("Mismatch", func(t *testing.T) {
		err := svc.ChangePassword(context.Background(), "student@example.com", &models.ChangePasswordRequest{
			NewPassword:     "newsecret",
			ConfirmPassword: "different",
		})
		require.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("Success", func(t *testing.T) {
		err := svc.ChangePassword(context.Background(), "student@example.com", &models.ChangePasswordRequest{
			NewPassword:     "newsecret",
			ConfirmPassword: "newsecret",
		})
		require.NoError(t, err)

		_, err = svc.Login(context.Background(), &models.LoginRequest{
			Email:    "student@example.com",
			Password: "newsecret",
		})
		require.NoError(t, err)
	})
}

func TestGoogleLogin(t *testing.T) {
	svc, db, _, google := newUserFixture(t)
	google.err = nil
	google.profile = &oauth.GoogleProfile{
		Sub:     "google-sub-1",
		Name:    "Student",
		Email:   "student@example.com",
		Picture: "https://example.com/avatar.png",
	}

	resp, err := svc.GoogleLogin(context.Background(), "valid-token")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)

	stored := reloadUser(t, db, resp.User.ID)
	assert.True(t, stored.IsVerified)
	assert.Equal(t, "google-sub-1", stored.GoogleID)
	assert.Equal(t, "https://example.com/avatar.png", stored.Avatar)

	// A second login reuses the linked account.
	again, err := svc.GoogleLogin(context.Background(), "valid-token")
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, again.User.ID)
}

func TestGoogleLogin_RejectedToken(t *testing.T) {
	svc, _, _, google := newUserFixture(t)
	google.err = errors.New("status 401")

	_, err := svc.GoogleLogin(context.Background(), "bad-token")
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestProfileRank(t *testing.T) {
	svc, db, mail, _ := newUserFixture(t)
	user := registerVerified(t, svc, mail, "student@example.com")

	for i, rep := range []int{100, 75} {
		other := createTestUser(t, db, "rival"+string(rune('a'+i)))
		require.NoError(t, db.Model(&models.User{}).Where("id = ?", other.ID).
			Update("reputation", rep).Error)
	}
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).
		Update("reputation", 80).Error)

	profile, err := svc.Profile(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), profile.Rank)
	assert.Equal(t, 80, profile.User.Reputation)
}

func TestStreakAcrossLogins(t *testing.T) {
	svc, db, mail, _ := newUserFixture(t)
	user := registerVerified(t, svc, mail, "student@example.com")

	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	login := func(day int) *models.LoginResponse {
		svc.now = func() time.Time { return base.AddDate(0, 0, day) }
		resp, err := svc.Login(context.Background(), &models.LoginRequest{
			Email:    "student@example.com",
			Password: "secret123",
		})
		require.NoError(t, err)
		return resp
	}

	assert.Equal(t, 1, login(0).User.Streak)
	assert.Equal(t, 2, login(1).User.Streak)
	// Same day twice does not double-count.
	assert.Equal(t, 2, login(1).User.Streak)
	assert.Equal(t, 3, login(2).User.Streak)
	// A gap resets the streak.
	assert.Equal(t, 1, login(5).User.Streak)

	assert.Equal(t, 1, reloadUser(t, db, user.ID).Streak)
}

func TestComputeStreak(t *testing.T) {
	day := func(offset int) time.Time {
		return time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
	}

	tests := []struct {
		name string
		days []time.Time
		want int
	}{
		{"NoLogins", nil, 0},
		{"SingleDay", []time.Time{day(0)}, 1},
		{"ThreeConsecutive", []time.Time{day(2), day(1), day(0)}, 3},
		{"GapBreaksStreak", []time.Time{day(5), day(4), day(1), day(0)}, 2},
		{"OnlyOldHistory", []time.Time{day(9), day(3), day(1)}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeStreak(tt.days))
		})
	}
}

func TestUpdateAvatar(t *testing.T) {
	svc, db, mail, _ := newUserFixture(t)
	user := registerVerified(t, svc, mail, "student@example.com")

	updated, err := svc.UpdateAvatar(context.Background(), user.ID, "http://minio/avatars/x.png")
	require.NoError(t, err)
	assert.Equal(t, "http://minio/avatars/x.png", updated.Avatar)
	assert.Equal(t, "http://minio/avatars/x.png", reloadUser(t, db, user.ID).Avatar)
}
