package handlers

import (
	"net/http"
	"strings"

	"learnstack-service/internal/models"
	"learnstack-service/internal/services"
	"learnstack-service/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	userService *services.UserService
}

func NewAuthHandler(userService *services.UserService) *AuthHandler {
	return &AuthHandler{userService: userService}
}

// Register godoc
// @Summary Register a new user
// @Description Register with username, email and password; sends a verification email
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.RegisterRequest true "User registration data"
// @Success 201 {object} models.UserResponse "User created successfully"
// @Failure 400 {object} models.ErrorResponse "Bad request - invalid input data"
// @Failure 409 {object} models.ErrorResponse "Conflict - email already registered"
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "all fields are required")
		return
	}

	user, err := h.userService.Register(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// Verify godoc
// @Summary Verify a registered email
// @Description Consumes the Bearer verification token from the registration email
// @Tags auth
// @Produce json
// @Success 200 {object} models.MessageResponse
// @Failure 401 {object} models.ErrorResponse "Missing or invalid token"
// @Router /auth/verify [post]
func (h *AuthHandler) Verify(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Code:    http.StatusUnauthorized,
			Message: "Authorization token is missing or invalid",
		})
		return
	}

	token := strings.TrimPrefix(authHeader, "Bearer ")
	if err := h.userService.Verify(c.Request.Context(), token); err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{Success: true, Message: "Email verified successfully"})
}

// Login godoc
// @Summary User login
// @Description Authenticate with email and password; returns access and refresh tokens
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "User login credentials"
// @Success 200 {object} models.LoginResponse
// @Failure 401 {object} models.ErrorResponse "Invalid credentials"
// @Failure 403 {object} models.ErrorResponse "Account not verified"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "all fields are required")
		return
	}

	loginResponse, err := h.userService.Login(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, loginResponse)
}

// Logout godoc
// @Summary Log out the current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.MessageResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	userID := c.GetUint("user_id")
	if err := h.userService.Logout(c.Request.Context(), userID); err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, models.MessageResponse{Success: true, Message: "Logged out successfully"})
}

// ForgotPassword godoc
// @Summary Request a password-reset OTP
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.ForgotPasswordRequest true "Account email"
// @Success 200 {object} models.MessageResponse
// @Failure 404 {object} models.ErrorResponse "User not found"
// @Router /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req models.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "email is required")
		return
	}

	if err := h.userService.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, models.MessageResponse{Success: true, Message: "OTP sent successfully"})
}

// VerifyOTP godoc
// @Summary Verify a password-reset OTP
// @Tags auth
// @Accept json
// @Produce json
// @Param email path string true "Account email"
// @Param request body models.VerifyOTPRequest true "Six-digit OTP"
// @Success 200 {object} models.MessageResponse
// @Failure 400 {object} models.ErrorResponse "Invalid or expired OTP"
// @Failure 404 {object} models.ErrorResponse "User not found"
// @Router /auth/verify-otp/{email} [post]
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req models.VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "OTP is required")
		return
	}

	if err := h.userService.VerifyOTP(c.Request.Context(), c.Param("email"), req.OTP); err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, models.MessageResponse{Success: true, Message: "OTP verified successfully"})
}

// ChangePassword godoc
// @Summary Change the account password
// @Tags auth
// @Accept json
// @Produce json
// @Param email path string true "Account email"
// @Param request body models.ChangePasswordRequest true "New password"
// @Success 200 {object} models.MessageResponse
// @Failure 400 {object} models.ErrorResponse "Passwords do not match"
// @Failure 404 {object} models.ErrorResponse "User not found"
// @Router /auth/change-password/{email} [post]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req models.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "all fields are required")
		return
	}

	if err := h.userService.ChangePassword(c.Request.Context(), c.Param("email"), &req); err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, models.MessageResponse{Success: true, Message: "Password changed successfully"})
}

// GoogleLogin godoc
// @Summary Log in with a Google access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.GoogleLoginRequest true "Google access token"
// @Success 200 {object} models.LoginResponse
// @Failure 401 {object} models.ErrorResponse "Token rejected by Google"
// @Router /auth/google [post]
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	var req models.GoogleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "no token provided")
		return
	}

	loginResponse, err := h.userService.GoogleLogin(c.Request.Context(), req.Token)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, loginResponse)
}
