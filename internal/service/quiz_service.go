package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/vocabloom/vocabloom-api/internal/domain"
	"github.com/vocabloom/vocabloom-api/internal/domain/srs"
	"github.com/vocabloom/vocabloom-api/internal/platform/logger"
	"github.com/vocabloom/vocabloom-api/internal/quiz"
	"github.com/vocabloom/vocabloom-api/internal/store"
)

// defaultSessionSize is used when a quiz request does not specify a count.
const defaultSessionSize = 10

// AnswerSubmission is one answered question reported by the client.
type AnswerSubmission struct {
	UserWordID       uuid.UUID
	Correct          bool
	TimeSpentSeconds int
	Attempts         int
}

// AnswerResult is the updated schedule for one processed answer.
type AnswerResult struct {
	UserWordID   uuid.UUID         `json:"user_word_id"`
	NextReviewAt *time.Time        `json:"next_review"`
	Status       domain.WordStatus `json:"status"`
}

// SubmitSummary aggregates a submitted answer batch. Total counts every
// submitted answer; answers referencing unknown records are skipped and
// produce no result entry but still count toward the total.
type SubmitSummary struct {
	Total    int            `json:"total"`
	Correct  int            `json:"correct"`
	Accuracy float64        `json:"accuracy"` // Percentage, two decimals
	Results  []AnswerResult `json:"results"`
}

// QuizService orchestrates practice sessions: content selection, question
// generation, and answer processing through the review scheduler.
type QuizService interface {
	// GenerateQuiz builds a question set for the learner in the given mode.
	// Words due for review take priority. Returns quiz.ErrNoContent when
	// the learner tracks no words.
	GenerateQuiz(
		ctx context.Context,
		learnerID string,
		mode quiz.Mode,
		count int,
	) ([]quiz.Question, error)

	// SubmitAnswers processes a batch of answers, rescheduling each
	// answered word. Unknown user-word IDs are skipped silently.
	SubmitAnswers(
		ctx context.Context,
		learnerID string,
		answers []AnswerSubmission,
	) (*SubmitSummary, error)

	// RecordReview processes a single review outcome for a user word.
	// Returns store.ErrUserWordNotFound if the record does not exist.
	RecordReview(
		ctx context.Context,
		userWordID uuid.UUID,
		correct bool,
		timeSpentSeconds, attempts int,
	) (*domain.UserWord, error)

	// GetDueWords lists the learner's words due for review, most overdue
	// first, truncated to limit (limit < 1 means no truncation).
	GetDueWords(ctx context.Context, learnerID string, limit int) ([]quiz.LearnerWord, error)
}

// quizServiceImpl implements the QuizService interface.
type quizServiceImpl struct {
	db            *sql.DB
	userWordStore store.UserWordStore
	srs           srs.Service
	generator     *quiz.Generator
	newRand       func() *rand.Rand
	now           func() time.Time
	logger        *slog.Logger
}

// NewQuizService creates a new QuizService.
// It returns an error if any of the required dependencies are nil.
// newRand supplies a fresh rand source per call; nil defaults to a
// time-seeded source. rand.Rand is not safe for concurrent use, which is
// why the service takes a factory rather than a shared instance.
func NewQuizService(
	db *sql.DB,
	userWordStore store.UserWordStore,
	srsService srs.Service,
	generator *quiz.Generator,
	newRand func() *rand.Rand,
	log *slog.Logger,
) (QuizService, error) {
	if db == nil {
		return nil, domain.NewValidationError("db", "cannot be nil", domain.ErrValidation)
	}
	if userWordStore == nil {
		return nil, domain.NewValidationError("userWordStore", "cannot be nil", domain.ErrValidation)
	}
	if srsService == nil {
		return nil, domain.NewValidationError("srsService", "cannot be nil", domain.ErrValidation)
	}
	if generator == nil {
		return nil, domain.NewValidationError("generator", "cannot be nil", domain.ErrValidation)
	}
	if newRand == nil {
		newRand = func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		}
	}
	if log == nil {
		log = slog.Default()
	}

	return &quizServiceImpl{
		db:            db,
		userWordStore: userWordStore,
		srs:           srsService,
		generator:     generator,
		newRand:       newRand,
		now:           func() time.Time { return time.Now().UTC() },
		logger:        log.With(slog.String("component", "quiz_service")),
	}, nil
}

// GenerateQuiz implements QuizService.GenerateQuiz
func (s *quizServiceImpl) GenerateQuiz(
	ctx context.Context,
	learnerID string,
	mode quiz.Mode,
	count int,
) ([]quiz.Question, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if count <= 0 {
		count = defaultSessionSize
	}

	words, err := s.userWordStore.ListWithWords(ctx, learnerID)
	if err != nil {
		return nil, NewServiceError("generate_quiz", "failed to load learner words", err)
	}

	rng := s.newRand()
	selected, err := quiz.SelectForSession(rng, words, count, s.now())
	if err != nil {
		// quiz.ErrNoContent passes through for the API layer to map.
		return nil, err
	}

	questions, err := s.generator.Generate(ctx, rng, selected, mode)
	if err != nil {
		if errors.Is(err, quiz.ErrInvalidMode) {
			return nil, err
		}
		return nil, NewServiceError("generate_quiz", "failed to generate questions", err)
	}

	log.Debug("quiz generated",
		slog.String("learner_id", learnerID),
		slog.String("mode", string(mode)),
		slog.Int("question_count", len(questions)))
	return questions, nil
}

// SubmitAnswers implements QuizService.SubmitAnswers
// Each answer runs in its own transaction with a row lock on the user word,
// so concurrent submissions for the same word serialize instead of losing
// updates. A failed answer aborts the batch; already-processed answers stay
// committed, which is safe because reprocessing an answer is additive only.
func (s *quizServiceImpl) SubmitAnswers(
	ctx context.Context,
	learnerID string,
	answers []AnswerSubmission,
) (*SubmitSummary, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	summary := &SubmitSummary{
		Total:   len(answers),
		Results: []AnswerResult{},
	}

	for _, answer := range answers {
		updated, err := s.processAnswer(ctx, learnerID, answer)
		if err != nil {
			return nil, err
		}
		if updated == nil {
			// Unknown or foreign user word, skipped.
			continue
		}

		if answer.Correct {
			summary.Correct++
		}
		summary.Results = append(summary.Results, AnswerResult{
			UserWordID:   updated.ID,
			NextReviewAt: updated.NextReviewAt,
			Status:       updated.Status,
		})
	}

	if summary.Total > 0 {
		summary.Accuracy = roundPercent(float64(summary.Correct) / float64(summary.Total) * 100)
	}

	log.Info("quiz answers processed",
		slog.String("learner_id", learnerID),
		slog.Int("total", summary.Total),
		slog.Int("correct", summary.Correct),
		slog.Int("processed", len(summary.Results)))
	return summary, nil
}

// processAnswer reschedules one answered word inside a transaction.
// Returns (nil, nil) when the referenced record does not exist or belongs
// to a different learner.
func (s *quizServiceImpl) processAnswer(
	ctx context.Context,
	learnerID string,
	answer AnswerSubmission,
) (*domain.UserWord, error) {
	var updated *domain.UserWord

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.userWordStore.WithTx(tx)

		state, err := txStore.GetByIDForUpdate(ctx, answer.UserWordID)
		if err != nil {
			if store.IsNotFoundError(err) {
				return nil
			}
			return err
		}
		if learnerID != "" && state.LearnerID != learnerID {
			return nil
		}

		quality := s.srs.EstimateQuality(
			answer.Correct, answer.TimeSpentSeconds, answer.Attempts)

		next, err := s.srs.CalculateNextReview(state, quality, s.now())
		if err != nil {
			return err
		}

		if err := txStore.Update(ctx, next); err != nil {
			return err
		}

		updated = next
		return nil
	})
	if err != nil {
		return nil, NewServiceError("submit_answers", "failed to process answer", err)
	}

	return updated, nil
}

// RecordReview implements QuizService.RecordReview
func (s *quizServiceImpl) RecordReview(
	ctx context.Context,
	userWordID uuid.UUID,
	correct bool,
	timeSpentSeconds, attempts int,
) (*domain.UserWord, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var updated *domain.UserWord

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.userWordStore.WithTx(tx)

		state, err := txStore.GetByIDForUpdate(ctx, userWordID)
		if err != nil {
			return err
		}

		quality := s.srs.EstimateQuality(correct, timeSpentSeconds, attempts)

		next, err := s.srs.CalculateNextReview(state, quality, s.now())
		if err != nil {
			return err
		}

		if err := txStore.Update(ctx, next); err != nil {
			return err
		}

		updated = next
		return nil
	})
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, err
		}
		return nil, NewServiceError("record_review", "failed to process review", err)
	}

	log.Debug("review recorded",
		slog.String("user_word_id", userWordID.String()),
		slog.Bool("correct", correct),
		slog.String("status", string(updated.Status)))
	return updated, nil
}

// GetDueWords implements QuizService.GetDueWords
func (s *quizServiceImpl) GetDueWords(
	ctx context.Context,
	learnerID string,
	limit int,
) ([]quiz.LearnerWord, error) {
	words, err := s.userWordStore.ListWithWords(ctx, learnerID)
	if err != nil {
		return nil, NewServiceError("get_due_words", "failed to load learner words", err)
	}

	return quiz.SelectDue(words, limit, s.now()), nil
}

// roundPercent rounds to two decimal places.
func roundPercent(v float64) float64 {
	return math.Round(v*100) / 100
}
