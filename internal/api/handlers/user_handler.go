package handlers

import (
	"net/http"

	"learnstack-service/internal/api/middleware"
	"learnstack-service/internal/models"
	"learnstack-service/internal/services"
	"learnstack-service/pkg/response"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService *services.UserService
	storage     MediaUploader
}

func NewUserHandler(userService *services.UserService, storage MediaUploader) *UserHandler {
	return &UserHandler{userService: userService, storage: storage}
}

// Profile godoc
// @Summary Get the current user's profile
// @Description Returns the profile with reputation rank, badges and activity counters
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.ProfileResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse "User not found"
// @Router /users/profile [get]
func (h *UserHandler) Profile(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Code: http.StatusUnauthorized, Message: "Unauthorized"})
		return
	}

	profile, err := h.userService.Profile(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UploadAvatar godoc
// @Summary Upload a profile avatar
// @Tags users
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param avatar formData file true "Avatar image"
// @Success 200 {object} models.AvatarResponse
// @Failure 400 {object} models.ErrorResponse "No file provided"
// @Failure 401 {object} models.ErrorResponse
// @Router /users/avatar [post]
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Code: http.StatusUnauthorized, Message: "Unauthorized"})
		return
	}

	file, err := c.FormFile("avatar")
	if err != nil {
		response.BadRequest(c, "avatar file is required")
		return
	}

	url, err := h.storage.UploadFile(c.Request.Context(), "avatars", file)
	if err != nil {
		response.Error(c, err)
		return
	}

	user, err := h.userService.UpdateAvatar(c.Request.Context(), userID, url)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, models.AvatarResponse{
		Success:   true,
		AvatarURL: url,
		Message:   "Avatar updated successfully",
		UpdatedAt: user.UpdatedAt,
	})
}
