package handlers

import (
	"context"
	"mime/multipart"
	"net/http"
	"strconv"

	"learnstack-service/internal/api/middleware"
	"learnstack-service/internal/models"
	"learnstack-service/internal/services"
	"learnstack-service/pkg/response"

	"github.com/gin-gonic/gin"
)

type QuestionHandler struct {
	questionService *services.QuestionService
	votingService   *services.VotingService
	storage         MediaUploader
}

// MediaUploader stores uploaded attachments and returns a public URL.
type MediaUploader interface {
	UploadFile(ctx context.Context, prefix string, file *multipart.FileHeader) (string, error)
}

func NewQuestionHandler(questionService *services.QuestionService, votingService *services.VotingService, storage MediaUploader) *QuestionHandler {
	return &QuestionHandler{
		questionService: questionService,
		votingService:   votingService,
		storage:         storage,
	}
}

// Create godoc
// @Summary Post a new question
// @Description Create a question with title, content, tags and an optional media attachment
// @Tags questions
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param title formData string true "Question title"
// @Param content formData string true "Question body"
// @Param tags formData string false "Comma-separated tags"
// @Param subject formData string false "Subject"
// @Param difficulty formData string false "Difficulty level"
// @Param media formData file false "Optional image or document"
// @Success 201 {object} models.Question
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /questions [post]
func (h *QuestionHandler) Create(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Code: http.StatusUnauthorized, Message: "Unauthorized"})
		return
	}

	var req models.CreateQuestionRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "title and content are required")
		return
	}

	var mediaURL string
	if file, err := c.FormFile("media"); err == nil && h.storage != nil {
		mediaURL, err = h.storage.UploadFile(c.Request.Context(), "questions", file)
		if err != nil {
			response.Error(c, err)
			return
		}
	}

	question, err := h.questionService.Create(c.Request.Context(), userID, &req, mediaURL)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, question)
}

// List godoc
// @Summary List questions
// @Description List questions with optional search, subject filter, sorting and pagination
// @Tags questions
// @Produce json
// @Param search query string false "Search in title, content and tags"
// @Param subject query string false "Filter by subject"
// @Param sort query string false "Sort order: votes or newest"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Success 200 {object} models.QuestionListResponse
// @Router /questions [get]
func (h *QuestionHandler) List(c *gin.Context) {
	var query models.ListQuestionsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, "invalid query parameters")
		return
	}

	result, err := h.questionService.List(c.Request.Context(), &query)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Get godoc
// @Summary Get a question by ID
// @Description Fetch a question with its answers; each fetch counts as a view
// @Tags questions
// @Produce json
// @Param id path int true "Question ID"
// @Success 200 {object} models.QuestionResponse
// @Failure 404 {object} models.ErrorResponse "Question not found"
// @Router /questions/{id} [get]
func (h *QuestionHandler) Get(c *gin.Context) {
	questionID, err := parseID(c, "id")
	if err != nil {
		response.BadRequest(c, "invalid question id")
		return
	}

	question, err := h.questionService.Get(c.Request.Context(), questionID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, models.QuestionResponse{Question: *question})
}

// VoteQuestion godoc
// @Summary Vote on a question
// @Description Cast, switch or reject a duplicate up/down vote on a question
// @Tags questions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Question ID"
// @Param request body models.VoteRequest true "Vote direction: up or down"
// @Success 200 {object} models.QuestionVoteResponse
// @Failure 400 {object} models.ErrorResponse "Invalid vote type"
// @Failure 403 {object} models.ErrorResponse "Voting on own question"
// @Failure 404 {object} models.ErrorResponse "Question not found"
// @Failure 409 {object} models.ErrorResponse "Already voted this direction"
// @Router /questions/{id}/vote [put]
func (h *QuestionHandler) VoteQuestion(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Code: http.StatusUnauthorized, Message: "Unauthorized"})
		return
	}

	questionID, err := parseID(c, "id")
	if err != nil {
		response.BadRequest(c, "invalid question id")
		return
	}

	var req models.VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "vote type is required")
		return
	}

	result, err := h.votingService.CastQuestionVote(c.Request.Context(), questionID, userID, req.Type)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// AddAnswer godoc
// @Summary Answer a question
// @Tags questions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Question ID"
// @Param request body models.AddAnswerRequest true "Answer content"
// @Success 201 {object} models.AddAnswerResponse
// @Failure 400 {object} models.ErrorResponse "Empty answer content"
// @Failure 404 {object} models.ErrorResponse "Question not found"
// @Router /questions/{id}/answers [post]
func (h *QuestionHandler) AddAnswer(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Code: http.StatusUnauthorized, Message: "Unauthorized"})
		return
	}

	questionID, err := parseID(c, "id")
	if err != nil {
		response.BadRequest(c, "invalid question id")
		return
	}

	var req models.AddAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "answer content is required")
		return
	}

	answer, err := h.questionService.AddAnswer(c.Request.Context(), questionID, userID, req.Content)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.AddAnswerResponse{Success: true, Answer: *answer})
}

// VoteAnswer godoc
// @Summary Vote on an answer
// @Description Cast, switch or reject a duplicate up/down vote on an answer
// @Tags questions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Question ID"
// @Param answerId path int true "Answer ID"
// @Param request body models.VoteRequest true "Vote direction: up or down"
// @Success 200 {object} models.AnswerVoteResponse
// @Failure 400 {object} models.ErrorResponse "Invalid vote type"
// @Failure 403 {object} models.ErrorResponse "Voting on own answer"
// @Failure 404 {object} models.ErrorResponse "Question or answer not found"
// @Failure 409 {object} models.ErrorResponse "Already voted this direction"
// @Router /questions/{id}/answers/{answerId}/vote [put]
func (h *QuestionHandler) VoteAnswer(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Code: http.StatusUnauthorized, Message: "Unauthorized"})
		return
	}

	questionID, err := parseID(c, "id")
	if err != nil {
		response.BadRequest(c, "invalid question id")
		return
	}
	answerID, err := parseID(c, "answerId")
	if err != nil {
		response.BadRequest(c, "invalid answer id")
		return
	}

	var req models.VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "vote type is required")
		return
	}

	result, err := h.votingService.CastAnswerVote(c.Request.Context(), questionID, answerID, userID, req.Type)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func parseID(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
