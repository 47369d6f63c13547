package service

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/vocabloom/vocabloom-api/internal/domain"
	"github.com/vocabloom/vocabloom-api/internal/platform/logger"
	"github.com/vocabloom/vocabloom-api/internal/quiz"
	"github.com/vocabloom/vocabloom-api/internal/store"
)

// ProgressStatistics is the full statistics payload for a learner: the
// persisted progress record plus breakdowns derived from the current
// tracked-word set.
type ProgressStatistics struct {
	Progress      *domain.LearnerProgress   `json:"progress"`
	WordsByStatus map[domain.WordStatus]int `json:"words_by_status"`
	WordsByLevel  map[domain.Level]int      `json:"words_by_level"`
	DueForReview  int                       `json:"due_for_review"`
}

// ProgressService maintains learner progress records.
type ProgressService interface {
	// GetProgress returns the learner's statistics, creating an empty
	// progress record on first access.
	GetProgress(ctx context.Context, learnerID string) (*ProgressStatistics, error)

	// UpdateProgress records activity for the learner: it bumps the daily
	// streak, recomputes word totals, accuracy, and the per-level
	// breakdown from the tracked-word set, and counts a completed quiz
	// or review session when flagged.
	UpdateProgress(
		ctx context.Context,
		learnerID string,
		quizCompleted, reviewCompleted bool,
	) (*domain.LearnerProgress, error)
}

// progressServiceImpl implements the ProgressService interface.
type progressServiceImpl struct {
	db            *sql.DB
	progressStore store.ProgressStore
	userWordStore store.UserWordStore
	now           func() time.Time
	logger        *slog.Logger
}

// NewProgressService creates a new ProgressService.
// It returns an error if any of the required dependencies are nil.
func NewProgressService(
	db *sql.DB,
	progressStore store.ProgressStore,
	userWordStore store.UserWordStore,
	log *slog.Logger,
) (ProgressService, error) {
	if db == nil {
		return nil, domain.NewValidationError("db", "cannot be nil", domain.ErrValidation)
	}
	if progressStore == nil {
		return nil, domain.NewValidationError("progressStore", "cannot be nil", domain.ErrValidation)
	}
	if userWordStore == nil {
		return nil, domain.NewValidationError("userWordStore", "cannot be nil", domain.ErrValidation)
	}
	if log == nil {
		log = slog.Default()
	}

	return &progressServiceImpl{
		db:            db,
		progressStore: progressStore,
		userWordStore: userWordStore,
		now:           func() time.Time { return time.Now().UTC() },
		logger:        log.With(slog.String("component", "progress_service")),
	}, nil
}

// GetProgress implements ProgressService.GetProgress
func (s *progressServiceImpl) GetProgress(
	ctx context.Context,
	learnerID string,
) (*ProgressStatistics, error) {
	progress, err := s.progressStore.Get(ctx, learnerID)
	if err != nil {
		if !store.IsNotFoundError(err) {
			return nil, NewServiceError("get_progress", "failed to load progress", err)
		}
		// First access creates the empty record.
		progress = domain.NewLearnerProgress(learnerID)
		if err := s.progressStore.Upsert(ctx, progress); err != nil {
			return nil, NewServiceError("get_progress", "failed to create progress", err)
		}
	}

	words, err := s.userWordStore.ListWithWords(ctx, learnerID)
	if err != nil {
		return nil, NewServiceError("get_progress", "failed to load learner words", err)
	}

	stats := &ProgressStatistics{
		Progress: progress,
		WordsByStatus: map[domain.WordStatus]int{
			domain.WordStatusNew:      0,
			domain.WordStatusLearning: 0,
			domain.WordStatusMastered: 0,
		},
		WordsByLevel: map[domain.Level]int{},
	}

	now := s.now()
	for _, lw := range words {
		stats.WordsByStatus[lw.State.Status]++
		stats.WordsByLevel[lw.Word.Level]++
		if lw.State.Due(now) {
			stats.DueForReview++
		}
	}

	return stats, nil
}

// UpdateProgress implements ProgressService.UpdateProgress
// The read-recompute-write runs in one transaction so two concurrent
// updates cannot interleave into a stale record.
func (s *progressServiceImpl) UpdateProgress(
	ctx context.Context,
	learnerID string,
	quizCompleted, reviewCompleted bool,
) (*domain.LearnerProgress, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var progress *domain.LearnerProgress

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txProgress := s.progressStore.WithTx(tx)
		txUserWords := s.userWordStore.WithTx(tx)

		current, err := txProgress.Get(ctx, learnerID)
		if err != nil {
			if !store.IsNotFoundError(err) {
				return err
			}
			current = domain.NewLearnerProgress(learnerID)
		}

		current.TouchActivity(s.now())

		words, err := txUserWords.ListWithWords(ctx, learnerID)
		if err != nil {
			return err
		}
		recomputeTotals(current, words)

		if quizCompleted {
			current.TotalQuizzes++
		}
		if reviewCompleted {
			current.TotalReviews++
		}

		if err := txProgress.Upsert(ctx, current); err != nil {
			return err
		}

		progress = current
		return nil
	})
	if err != nil {
		return nil, NewServiceError("update_progress", "failed to update progress", err)
	}

	log.Debug("progress updated",
		slog.String("learner_id", learnerID),
		slog.Int("total_words", progress.TotalWords),
		slog.Int("current_streak", progress.CurrentStreak))
	return progress, nil
}

// recomputeTotals refreshes the derived fields of a progress record from
// the learner's full tracked-word set.
func recomputeTotals(progress *domain.LearnerProgress, words []quiz.LearnerWord) {
	progress.TotalWords = len(words)
	progress.MasteredWords = 0
	progress.LevelProgress = map[domain.Level]domain.LevelProgress{}

	var totalReviews, correctAnswers int
	for _, lw := range words {
		mastered := lw.State.Status == domain.WordStatusMastered
		if mastered {
			progress.MasteredWords++
		}

		lp := progress.LevelProgress[lw.Word.Level]
		lp.Total++
		if mastered {
			lp.Mastered++
		}
		progress.LevelProgress[lw.Word.Level] = lp

		totalReviews += lw.State.ReviewCount
		correctAnswers += lw.State.CorrectCount
	}

	if totalReviews > 0 {
		progress.AccuracyPercentage = float64(correctAnswers) / float64(totalReviews) * 100
	}
}
