package api

import (
	"context"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/vocabloom/vocabloom-api/internal/domain"
	"github.com/vocabloom/vocabloom-api/internal/quiz"
	"github.com/vocabloom/vocabloom-api/internal/service"
)

// mockWordService is a mock implementation of the service.WordService interface
type mockWordService struct {
	listByLevelFn func(ctx context.Context, level domain.Level, difficulty, page, perPage int) ([]*domain.Word, int, error)
	getWordFn     func(ctx context.Context, id uuid.UUID) (*domain.Word, error)
	randomWordsFn func(ctx context.Context, level domain.Level, count int) ([]*domain.Word, error)
	fetchWordFn   func(ctx context.Context, text string, level domain.Level, difficulty int) (*domain.Word, bool, error)
}

func (m *mockWordService) ListByLevel(
	ctx context.Context,
	level domain.Level,
	difficulty, page, perPage int,
) ([]*domain.Word, int, error) {
	return m.listByLevelFn(ctx, level, difficulty, page, perPage)
}

func (m *mockWordService) GetWord(ctx context.Context, id uuid.UUID) (*domain.Word, error) {
	return m.getWordFn(ctx, id)
}

func (m *mockWordService) RandomWords(
	ctx context.Context,
	level domain.Level,
	count int,
) ([]*domain.Word, error) {
	return m.randomWordsFn(ctx, level, count)
}

func (m *mockWordService) FetchWord(
	ctx context.Context,
	text string,
	level domain.Level,
	difficulty int,
) (*domain.Word, bool, error) {
	return m.fetchWordFn(ctx, text, level, difficulty)
}

// mockUserWordService is a mock implementation of the service.UserWordService interface
type mockUserWordService struct {
	listFn   func(ctx context.Context, learnerID string, status domain.WordStatus) ([]*domain.UserWord, error)
	addFn    func(ctx context.Context, learnerID string, wordID uuid.UUID) (*domain.UserWord, bool, error)
	removeFn func(ctx context.Context, id uuid.UUID) error
}

func (m *mockUserWordService) List(
	ctx context.Context,
	learnerID string,
	status domain.WordStatus,
) ([]*domain.UserWord, error) {
	return m.listFn(ctx, learnerID, status)
}

func (m *mockUserWordService) Add(
	ctx context.Context,
	learnerID string,
	wordID uuid.UUID,
) (*domain.UserWord, bool, error) {
	return m.addFn(ctx, learnerID, wordID)
}

func (m *mockUserWordService) Remove(ctx context.Context, id uuid.UUID) error {
	return m.removeFn(ctx, id)
}

// mockQuizService is a mock implementation of the service.QuizService interface
type mockQuizService struct {
	generateQuizFn  func(ctx context.Context, learnerID string, mode quiz.Mode, count int) ([]quiz.Question, error)
	submitAnswersFn func(ctx context.Context, learnerID string, answers []service.AnswerSubmission) (*service.SubmitSummary, error)
	recordReviewFn  func(ctx context.Context, userWordID uuid.UUID, correct bool, timeSpentSeconds, attempts int) (*domain.UserWord, error)
	getDueWordsFn   func(ctx context.Context, learnerID string, limit int) ([]quiz.LearnerWord, error)
}

func (m *mockQuizService) GenerateQuiz(
	ctx context.Context,
	learnerID string,
	mode quiz.Mode,
	count int,
) ([]quiz.Question, error) {
	return m.generateQuizFn(ctx, learnerID, mode, count)
}

func (m *mockQuizService) SubmitAnswers(
	ctx context.Context,
	learnerID string,
	answers []service.AnswerSubmission,
) (*service.SubmitSummary, error) {
	return m.submitAnswersFn(ctx, learnerID, answers)
}

func (m *mockQuizService) RecordReview(
	ctx context.Context,
	userWordID uuid.UUID,
	correct bool,
	timeSpentSeconds, attempts int,
) (*domain.UserWord, error) {
	return m.recordReviewFn(ctx, userWordID, correct, timeSpentSeconds, attempts)
}

func (m *mockQuizService) GetDueWords(
	ctx context.Context,
	learnerID string,
	limit int,
) ([]quiz.LearnerWord, error) {
	return m.getDueWordsFn(ctx, learnerID, limit)
}

// mockProgressService is a mock implementation of the service.ProgressService interface
type mockProgressService struct {
	getProgressFn    func(ctx context.Context, learnerID string) (*service.ProgressStatistics, error)
	updateProgressFn func(ctx context.Context, learnerID string, quizCompleted, reviewCompleted bool) (*domain.LearnerProgress, error)
}

func (m *mockProgressService) GetProgress(
	ctx context.Context,
	learnerID string,
) (*service.ProgressStatistics, error) {
	return m.getProgressFn(ctx, learnerID)
}

func (m *mockProgressService) UpdateProgress(
	ctx context.Context,
	learnerID string,
	quizCompleted, reviewCompleted bool,
) (*domain.LearnerProgress, error) {
	return m.updateProgressFn(ctx, learnerID, quizCompleted, reviewCompleted)
}

// withURLParams attaches chi route parameters to the request context.
func withURLParams(ctx context.Context, params map[string]string) context.Context {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return context.WithValue(ctx, chi.RouteCtxKey, rctx)
}
