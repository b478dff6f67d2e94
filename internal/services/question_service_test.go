package services

import (
	"context"
	"testing"

	"learnstack-service/internal/models"
	"learnstack-service/internal/repositories/mysql"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newQuestionFixture(t *testing.T) (*QuestionService, *gorm.DB, *capturePublisher) {
	t.Helper()
	db := newTestDB(t)
	publisher := &capturePublisher{}
	svc := NewQuestionService(
		mysql.NewQuestionRepository(db),
		mysql.NewUserRepository(db),
		NewBadgeService(),
		publisher,
	)
	return svc, db, publisher
}

func TestQuestionCreate(t *testing.T) {
	svc, db, _ := newQuestionFixture(t)
	author := createTestUser(t, db, "author")

	q, err := svc.Create(context.Background(), author.ID, &models.CreateQuestionRequest{
		Title:   "What is a closure?",
		Content: "I see functions returning functions everywhere.",
		Tags:    []string{" go ", "", "functions"},
		Subject: "programming",
	}, "")
	require.NoError(t, err)

	assert.NotZero(t, q.ID)
	assert.Equal(t, []string{"go", "functions"}, q.Tags)
	assert.Equal(t, 0, q.Votes)
	assert.Empty(t, q.Upvotes)
	assert.Empty(t, q.Downvotes)

	reloaded := reloadUser(t, db, author.ID)
	assert.Equal(t, 1, reloaded.Questions)
	assert.Contains(t, reloaded.BadgeNames(), BadgeFirstQuestion)
}

func TestQuestionList(t *testing.T) {
	svc, db, _ := newQuestionFixture(t)
	author := createTestUser(t, db, "author")

	seed := []models.Question{
		{Title: "Pointers in Go", Content: "when to use them", Subject: "programming", AuthorID: author.ID, Votes: 5},
		{Title: "Integrals", Content: "u-substitution help", Subject: "math", AuthorID: author.ID, Votes: 9},
		{Title: "Slices vs arrays", Content: "go collections", Subject: "programming", AuthorID: author.ID, Votes: 2},
	}
	for i := range seed {
		require.NoError(t, db.Create(&seed[i]).Error)
	}

	t.Run("SearchMatchesTitleCaseInsensitive", func(t *testing.T) {
		resp, err := svc.List(context.Background(), &models.ListQuestionsQuery{Search: "POINTERS", Page: 1, Limit: 10})
		require.NoError(t, err)
		require.Len(t, resp.Data, 1)
		assert.Equal(t, "Pointers in Go", resp.Data[0].Title)
		assert.Equal(t, int64(1), resp.Total)
	})

	t.Run("SubjectFilter", func(t *testing.T) {
		resp, err := svc.List(context.Background(), &models.ListQuestionsQuery{Subject: "programming", Page: 1, Limit: 10})
		require.NoError(t, err)
		assert.Len(t, resp.Data, 2)
	})

	t.Run("SortByVotes", func(t *testing.T) {
		resp, err := svc.List(context.Background(), &models.ListQuestionsQuery{Sort: "votes", Page: 1, Limit: 10})
		require.NoError(t, err)
		require.Len(t, resp.Data, 3)
		assert.Equal(t, "Integrals", resp.Data[0].Title)
		assert.Equal(t, "Pointers in Go", resp.Data[1].Title)
	})

	t.Run("Pagination", func(t *testing.T) {
		resp, err := svc.List(context.Background(), &models.ListQuestionsQuery{Sort: "votes", Page: 2, Limit: 2})
		require.NoError(t, err)
		assert.Len(t, resp.Data, 1)
		assert.Equal(t, int64(3), resp.Total)
		assert.Equal(t, 2, resp.Page)
	})
}

func TestQuestionGet_IncrementsViews(t *testing.T) {
	svc, db, _ := newQuestionFixture(t)
	author := createTestUser(t, db, "author")
	q := createTestQuestion(t, db, author.ID)

	first, err := svc.Get(context.Background(), q.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(1), first.Views)
	assert.Equal(t, author.ID, first.Author.ID)

	second, err := svc.Get(context.Background(), q.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(2), second.Views)
	assert.NotNil(t, second.Upvotes)
	assert.NotNil(t, second.Downvotes)
}

func TestQuestionGet_NotFound(t *testing.T) {
	svc, _, _ := newQuestionFixture(t)

	_, err := svc.Get(context.Background(), 9999)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestAddAnswer(t *testing.T) {
	svc, db, publisher := newQuestionFixture(t)
	asker := createTestUser(t, db, "asker")
	answerer := createTestUser(t, db, "answerer")
	q := createTestQuestion(t, db, asker.ID)

	answer, err := svc.AddAnswer(context.Background(), q.ID, answerer.ID, "Use channels to communicate.")
	require.NoError(t, err)
	assert.NotZero(t, answer.ID)
	assert.Equal(t, 0, answer.Votes)

	assert.Equal(t, 1, reloadQuestion(t, db, q.ID).AnswersCount)

	reloaded := reloadUser(t, db, answerer.ID)
	assert.Equal(t, 1, reloaded.Answers)
	assert.Contains(t, reloaded.BadgeNames(), BadgeFirstAnswer)

	events := publisher.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "answer.created", events[0].Type)
	assert.Equal(t, answer.ID, events[0].AnswerID)
}

func TestAddAnswer_CountTracksCollection(t *testing.T) {
	svc, db, _ := newQuestionFixture(t)
	asker := createTestUser(t, db, "asker")
	answerer := createTestUser(t, db, "answerer")
	q := createTestQuestion(t, db, asker.ID)

	for i := 0; i < 3; i++ {
		_, err := svc.AddAnswer(context.Background(), q.ID, answerer.ID, "another take on it")
		require.NoError(t, err)
	}
	assert.Equal(t, 3, reloadQuestion(t, db, q.ID).AnswersCount)
}

func TestAddAnswer_EmptyContent(t *testing.T) {
	svc, db, _ := newQuestionFixture(t)
	asker := createTestUser(t, db, "asker")
	answerer := createTestUser(t, db, "answerer")
	q := createTestQuestion(t, db, asker.ID)

	for _, content := range []string{"", "   ", "\n\t"} {
		_, err := svc.AddAnswer(context.Background(), q.ID, answerer.ID, content)
		assert.ErrorIs(t, err, ErrInvalidArgument)
	}
	assert.Equal(t, 0, reloadQuestion(t, db, q.ID).AnswersCount)
}

func TestAddAnswer_QuestionNotFound(t *testing.T) {
	svc, db, _ := newQuestionFixture(t)
	answerer := createTestUser(t, db, "answerer")

	_, err := svc.AddAnswer(context.Background(), 9999, answerer.ID, "answering the void")
	require.ErrorIs(t, err, ErrNotFound)
}
