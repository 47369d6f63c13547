package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vocabloom/vocabloom-api/internal/domain"
	"github.com/vocabloom/vocabloom-api/internal/platform/logger"
	"github.com/vocabloom/vocabloom-api/internal/store"
)

// PostgresProgressStore implements the store.ProgressStore interface
// using a PostgreSQL database as the storage backend.
type PostgresProgressStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresProgressStore creates a new PostgreSQL implementation of the ProgressStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresProgressStore(db store.DBTX, logger *slog.Logger) *PostgresProgressStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresProgressStore{
		db:     db,
		logger: logger.With(slog.String("component", "progress_store")),
	}
}

// Ensure PostgresProgressStore implements store.ProgressStore interface
var _ store.ProgressStore = (*PostgresProgressStore)(nil)

// WithTx implements store.ProgressStore.WithTx
func (s *PostgresProgressStore) WithTx(tx *sql.Tx) store.ProgressStore {
	return &PostgresProgressStore{
		db:     tx,
		logger: s.logger,
	}
}

// Get implements store.ProgressStore.Get
// Returns store.ErrProgressNotFound if no record exists for the learner.
func (s *PostgresProgressStore) Get(
	ctx context.Context,
	learnerID string,
) (*domain.LearnerProgress, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT learner_id, total_words, mastered_words, current_streak,
			longest_streak, last_activity_at, accuracy_percentage,
			total_quizzes, total_reviews, level_progress, created_at, updated_at
		FROM user_progress
		WHERE learner_id = $1
	`

	var (
		progress      domain.LearnerProgress
		lastActivity  sql.NullTime
		levelProgress []byte
	)

	err := s.db.QueryRowContext(ctx, query, learnerID).Scan(
		&progress.LearnerID,
		&progress.TotalWords,
		&progress.MasteredWords,
		&progress.CurrentStreak,
		&progress.LongestStreak,
		&lastActivity,
		&progress.AccuracyPercentage,
		&progress.TotalQuizzes,
		&progress.TotalReviews,
		&levelProgress,
		&progress.CreatedAt,
		&progress.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("learner progress not found",
				slog.String("learner_id", learnerID))
			return nil, store.ErrProgressNotFound
		}
		log.Error("failed to get learner progress",
			slog.String("error", err.Error()),
			slog.String("learner_id", learnerID))
		return nil, MapError(err)
	}

	if lastActivity.Valid {
		last := lastActivity.Time.UTC()
		progress.LastActivityAt = &last
	}

	progress.LevelProgress = map[domain.Level]domain.LevelProgress{}
	if len(levelProgress) > 0 {
		if err := json.Unmarshal(levelProgress, &progress.LevelProgress); err != nil {
			return nil, fmt.Errorf("failed to unmarshal level progress: %w", err)
		}
	}

	progress.CreatedAt = progress.CreatedAt.UTC()
	progress.UpdatedAt = progress.UpdatedAt.UTC()

	return &progress, nil
}

// Upsert implements store.ProgressStore.Upsert
// The record is keyed by learner ID; an existing row is replaced in full.
func (s *PostgresProgressStore) Upsert(
	ctx context.Context,
	progress *domain.LearnerProgress,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	levelProgress, err := json.Marshal(progress.LevelProgress)
	if err != nil {
		return fmt.Errorf("failed to marshal level progress: %w", err)
	}

	progress.UpdatedAt = touchTimestamp()

	query := `
		INSERT INTO user_progress (learner_id, total_words, mastered_words,
			current_streak, longest_streak, last_activity_at,
			accuracy_percentage, total_quizzes, total_reviews, level_progress,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (learner_id) DO UPDATE SET
			total_words = EXCLUDED.total_words,
			mastered_words = EXCLUDED.mastered_words,
			current_streak = EXCLUDED.current_streak,
			longest_streak = EXCLUDED.longest_streak,
			last_activity_at = EXCLUDED.last_activity_at,
			accuracy_percentage = EXCLUDED.accuracy_percentage,
			total_quizzes = EXCLUDED.total_quizzes,
			total_reviews = EXCLUDED.total_reviews,
			level_progress = EXCLUDED.level_progress,
			updated_at = EXCLUDED.updated_at
	`

	_, err = s.db.ExecContext(
		ctx,
		query,
		progress.LearnerID,
		progress.TotalWords,
		progress.MasteredWords,
		progress.CurrentStreak,
		progress.LongestStreak,
		progress.LastActivityAt,
		progress.AccuracyPercentage,
		progress.TotalQuizzes,
		progress.TotalReviews,
		levelProgress,
		progress.CreatedAt,
		progress.UpdatedAt,
	)

	if err != nil {
		log.Error("failed to upsert learner progress",
			slog.String("error", err.Error()),
			slog.String("learner_id", progress.LearnerID))
		return MapError(err)
	}

	log.Debug("learner progress upserted",
		slog.String("learner_id", progress.LearnerID),
		slog.Int("total_words", progress.TotalWords),
		slog.Int("mastered_words", progress.MasteredWords))
	return nil
}
