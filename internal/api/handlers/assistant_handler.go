package handlers

import (
	"net/http"

	"learnstack-service/internal/api/middleware"
	"learnstack-service/internal/models"
	"learnstack-service/internal/services"
	"learnstack-service/pkg/response"

	"github.com/gin-gonic/gin"
)

type AssistantHandler struct {
	assistantService *services.AssistantService
}

func NewAssistantHandler(assistantService *services.AssistantService) *AssistantHandler {
	return &AssistantHandler{assistantService: assistantService}
}

// CreateChat godoc
// @Summary Start a new assistant chat session
// @Tags assistant
// @Produce json
// @Security BearerAuth
// @Success 201 {object} models.ChatSession
// @Failure 401 {object} models.ErrorResponse
// @Router /assistant/chats [post]
func (h *AssistantHandler) CreateChat(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Code: http.StatusUnauthorized, Message: "Unauthorized"})
		return
	}

	session, err := h.assistantService.CreateChat(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, session)
}

// ListChats godoc
// @Summary List the current user's chat sessions
// @Tags assistant
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.ChatSession
// @Failure 401 {object} models.ErrorResponse
// @Router /assistant/chats [get]
func (h *AssistantHandler) ListChats(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Code: http.StatusUnauthorized, Message: "Unauthorized"})
		return
	}

	sessions, err := h.assistantService.ListChats(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, sessions)
}

// GetMessages godoc
// @Summary Get the messages of a chat session
// @Tags assistant
// @Produce json
// @Security BearerAuth
// @Param id path int true "Chat session ID"
// @Success 200 {array} models.ChatMessage
// @Failure 404 {object} models.ErrorResponse "Session not found"
// @Router /assistant/chats/{id}/messages [get]
func (h *AssistantHandler) GetMessages(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Code: http.StatusUnauthorized, Message: "Unauthorized"})
		return
	}

	sessionID, err := parseID(c, "id")
	if err != nil {
		response.BadRequest(c, "invalid session id")
		return
	}

	messages, err := h.assistantService.GetMessages(c.Request.Context(), userID, sessionID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, messages)
}

// SendMessage godoc
// @Summary Send a message in a chat session
// @Description Persists the user message and returns the assistant's reply
// @Tags assistant
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Chat session ID"
// @Param request body models.SendMessageRequest true "Message content"
// @Success 200 {object} models.SendMessageResponse
// @Failure 404 {object} models.ErrorResponse "Session not found"
// @Router /assistant/chats/{id}/messages [post]
func (h *AssistantHandler) SendMessage(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Code: http.StatusUnauthorized, Message: "Unauthorized"})
		return
	}

	sessionID, err := parseID(c, "id")
	if err != nil {
		response.BadRequest(c, "invalid session id")
		return
	}

	var req models.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "message content is required")
		return
	}

	result, err := h.assistantService.SendMessage(c.Request.Context(), userID, sessionID, req.Content)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Complete godoc
// @Summary One-shot completion without a session
// @Tags assistant
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.PromptRequest true "Prompt"
// @Success 200 {object} models.CompletionResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /assistant/ai [post]
func (h *AssistantHandler) Complete(c *gin.Context) {
	var req models.PromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "prompt is required")
		return
	}

	text, err := h.assistantService.Complete(c.Request.Context(), req.Prompt)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, models.CompletionResponse{Text: text})
}

// SummarizeDocument godoc
// @Summary Summarize an uploaded document
// @Description Extracts text from a PDF or plain-text upload and returns an AI summary
// @Tags assistant
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "PDF or plain-text document"
// @Success 200 {object} models.DocumentSummaryResponse
// @Failure 400 {object} models.ErrorResponse "Unsupported file format"
// @Router /assistant/upload [post]
func (h *AssistantHandler) SummarizeDocument(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file is required")
		return
	}

	result, err := h.assistantService.SummarizeDocument(c.Request.Context(), file)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
