package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"path/filepath"
	"strings"

	"learnstack-service/internal/adapters/assistant"
	"learnstack-service/internal/models"
	"learnstack-service/internal/repositories/mysql"

	"github.com/ledongthuc/pdf"
)

// ObjectStorage is the slice of the storage adapter the assistant needs.
type ObjectStorage interface {
	UploadStream(ctx context.Context, prefix, filename, contentType string, r io.Reader, size int64) (string, error)
}

// AssistantService runs the learning-assistant surface: chat sessions with
// persisted history, one-shot completions, and document summarization.
type AssistantService struct {
	repo      *mysql.AssistantRepository
	completer assistant.Completer
	storage   ObjectStorage
}

func NewAssistantService(repo *mysql.AssistantRepository, completer assistant.Completer, storage ObjectStorage) *AssistantService {
	return &AssistantService{
		repo:      repo,
		completer: completer,
		storage:   storage,
	}
}

func (s *AssistantService) CreateChat(ctx context.Context, userID uint) (*models.ChatSession, error) {
	session := &models.ChatSession{UserID: userID, Title: "New Chat"}
	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create chat session: %w", err)
	}
	return session, nil
}

func (s *AssistantService) ListChats(ctx context.Context, userID uint) ([]models.ChatSession, error) {
	return s.repo.ListSessions(ctx, userID)
}

func (s *AssistantService) GetMessages(ctx context.Context, userID, sessionID uint) ([]models.ChatMessage, error) {
	if _, err := s.repo.GetSession(ctx, sessionID, userID); err != nil {
		if isRecordNotFound(err) {
			return nil, fmt.Errorf("%w: chat session not found", ErrNotFound)
		}
		return nil, err
	}
	return s.repo.ListMessages(ctx, sessionID)
}

// SendMessage persists the user's turn, asks the model for a reply with the
// LearnStack persona, and persists that too.
func (s *AssistantService) SendMessage(ctx context.Context, userID, sessionID uint, content string) (*models.SendMessageResponse, error) {
	if _, err := s.repo.GetSession(ctx, sessionID, userID); err != nil {
		if isRecordNotFound(err) {
			return nil, fmt.Errorf("%w: chat session not found", ErrNotFound)
		}
		return nil, err
	}

	userMsg := &models.ChatMessage{SessionID: sessionID, Sender: models.SenderUser, Content: content}
	if err := s.repo.CreateMessage(ctx, userMsg); err != nil {
		return nil, fmt.Errorf("failed to store message: %w", err)
	}

	reply, err := s.completer.Complete(ctx, assistant.ChatPersona, content)
	if err != nil {
		return nil, fmt.Errorf("failed to generate AI response: %w", err)
	}

	aiMsg := &models.ChatMessage{SessionID: sessionID, Sender: models.SenderAI, Content: reply}
	if err := s.repo.CreateMessage(ctx, aiMsg); err != nil {
		return nil, fmt.Errorf("failed to store message: %w", err)
	}

	return &models.SendMessageResponse{User: *userMsg, AI: *aiMsg}, nil
}

// Complete answers a one-shot prompt without session history.
func (s *AssistantService) Complete(ctx context.Context, prompt string) (string, error) {
	text, err := s.completer.Complete(ctx, assistant.ChatPersona, prompt)
	if err != nil {
		return "", fmt.Errorf("failed to generate AI response: %w", err)
	}
	return text, nil
}

// SummarizeDocument extracts text from the upload, archives the original in
// object storage (best-effort) and asks the model to summarize. Unsupported
// formats are rejected before anything is stored.
func (s *AssistantService) SummarizeDocument(ctx context.Context, file *multipart.FileHeader) (*models.DocumentSummaryResponse, error) {
	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	extracted, err := extractText(file, data)
	if err != nil {
		return nil, err
	}

	var docURL string
	if s.storage != nil {
		contentType := file.Header.Get("Content-Type")
		url, upErr := s.storage.UploadStream(ctx, "documents", file.Filename, contentType, bytes.NewReader(data), int64(len(data)))
		if upErr != nil {
			slog.Error("failed to archive document", "filename", file.Filename, "error", upErr)
		} else {
			docURL = url
		}
	}

	prompt := fmt.Sprintf("Summarize or explain this document:\n\n%s", extracted)
	text, err := s.completer.Complete(ctx, assistant.DocumentPersona, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to generate AI response: %w", err)
	}

	return &models.DocumentSummaryResponse{
		Text:          text,
		ExtractedText: extracted,
		DocumentURL:   docURL,
	}, nil
}

func extractText(file *multipart.FileHeader, data []byte) (string, error) {
	contentType := file.Header.Get("Content-Type")
	ext := strings.ToLower(filepath.Ext(file.Filename))

	switch {
	case contentType == "application/pdf" || ext == ".pdf":
		return extractPDFText(data)
	case strings.HasPrefix(contentType, "text/") || ext == ".txt" || ext == ".md":
		return string(data), nil
	default:
		return "", fmt.Errorf("%w: unsupported file format, upload PDF or plain text", ErrInvalidArgument)
	}
}

func extractPDFText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: could not parse PDF", ErrInvalidArgument)
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to extract PDF text: %w", err)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", fmt.Errorf("failed to extract PDF text: %w", err)
	}
	return buf.String(), nil
}
