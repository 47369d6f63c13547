package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/vocabloom/vocabloom-api/internal/domain"
	"github.com/vocabloom/vocabloom-api/internal/platform/logger"
	"github.com/vocabloom/vocabloom-api/internal/quiz"
	"github.com/vocabloom/vocabloom-api/internal/store"
)

// userWordColumns is the column list shared by every user_words SELECT.
const userWordColumns = `id, learner_id, word_id, status, ease_factor,
	interval_days, repetition, review_count, correct_count, incorrect_count,
	next_review_at, created_at, updated_at`

// PostgresUserWordStore implements the store.UserWordStore interface
// using a PostgreSQL database as the storage backend.
type PostgresUserWordStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresUserWordStore creates a new PostgreSQL implementation of the UserWordStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresUserWordStore(db store.DBTX, logger *slog.Logger) *PostgresUserWordStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresUserWordStore{
		db:     db,
		logger: logger.With(slog.String("component", "user_word_store")),
	}
}

// Ensure PostgresUserWordStore implements store.UserWordStore interface
var _ store.UserWordStore = (*PostgresUserWordStore)(nil)

// WithTx implements store.UserWordStore.WithTx
func (s *PostgresUserWordStore) WithTx(tx *sql.Tx) store.UserWordStore {
	return &PostgresUserWordStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.UserWordStore.Create
// Returns store.ErrUserWordExists if the learner already tracks the word.
// Returns store.ErrInvalidEntity if the referenced word does not exist.
func (s *PostgresUserWordStore) Create(ctx context.Context, state *domain.UserWord) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := state.Validate(); err != nil {
		log.Warn("user word validation failed during create",
			slog.String("error", err.Error()),
			slog.String("user_word_id", state.ID.String()))
		return err
	}

	query := `
		INSERT INTO user_words (id, learner_id, word_id, status, ease_factor,
			interval_days, repetition, review_count, correct_count,
			incorrect_count, next_review_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		state.ID,
		state.LearnerID,
		state.WordID,
		state.Status,
		state.EaseFactor,
		state.Interval,
		state.Repetition,
		state.ReviewCount,
		state.CorrectCount,
		state.IncorrectCount,
		state.NextReviewAt,
		state.CreatedAt,
		state.UpdatedAt,
	)

	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("learner already tracks word",
				slog.String("learner_id", state.LearnerID),
				slog.String("word_id", state.WordID.String()))
			return MapUniqueViolation(err, store.ErrUserWordExists)
		}
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during user word creation",
				slog.String("word_id", state.WordID.String()))
			return MapError(err)
		}
		log.Error("failed to create user word",
			slog.String("error", err.Error()),
			slog.String("user_word_id", state.ID.String()))
		return MapError(err)
	}

	log.Info("user word created successfully",
		slog.String("user_word_id", state.ID.String()),
		slog.String("learner_id", state.LearnerID),
		slog.String("word_id", state.WordID.String()))
	return nil
}

// GetByID implements store.UserWordStore.GetByID
// Returns store.ErrUserWordNotFound if the state does not exist.
func (s *PostgresUserWordStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.UserWord, error) {
	query := `SELECT ` + userWordColumns + ` FROM user_words WHERE id = $1`
	return s.getOne(ctx, query, id)
}

// GetByIDForUpdate implements store.UserWordStore.GetByIDForUpdate
// The SELECT FOR UPDATE row lock serializes concurrent reviews of the same
// word. Must run inside a transaction; outside one the lock is released
// immediately and provides no protection.
func (s *PostgresUserWordStore) GetByIDForUpdate(
	ctx context.Context,
	id uuid.UUID,
) (*domain.UserWord, error) {
	query := `SELECT ` + userWordColumns + ` FROM user_words WHERE id = $1 FOR UPDATE`
	return s.getOne(ctx, query, id)
}

// GetByLearnerAndWord implements store.UserWordStore.GetByLearnerAndWord
// Returns store.ErrUserWordNotFound if the learner does not track the word.
func (s *PostgresUserWordStore) GetByLearnerAndWord(
	ctx context.Context,
	learnerID string,
	wordID uuid.UUID,
) (*domain.UserWord, error) {
	query := `SELECT ` + userWordColumns + ` FROM user_words WHERE learner_id = $1 AND word_id = $2`
	return s.getOne(ctx, query, learnerID, wordID)
}

func (s *PostgresUserWordStore) getOne(
	ctx context.Context,
	query string,
	args ...interface{},
) (*domain.UserWord, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	state, err := scanUserWord(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("user word not found")
			return nil, store.ErrUserWordNotFound
		}
		log.Error("failed to get user word",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	return state, nil
}

// ListByLearner implements store.UserWordStore.ListByLearner
// An empty status means no status filter.
func (s *PostgresUserWordStore) ListByLearner(
	ctx context.Context,
	learnerID string,
	status domain.WordStatus,
) ([]*domain.UserWord, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var (
		query string
		args  []interface{}
	)
	if status != "" {
		query = `SELECT ` + userWordColumns + `
			FROM user_words
			WHERE learner_id = $1 AND status = $2
			ORDER BY created_at DESC`
		args = []interface{}{learnerID, status}
	} else {
		query = `SELECT ` + userWordColumns + `
			FROM user_words
			WHERE learner_id = $1
			ORDER BY created_at DESC`
		args = []interface{}{learnerID}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query user words",
			slog.String("error", err.Error()),
			slog.String("learner_id", learnerID))
		return nil, MapError(err)
	}
	defer closeRows(rows, log)

	var states []*domain.UserWord
	for rows.Next() {
		state, err := scanUserWord(rows)
		if err != nil {
			log.Error("failed to scan user word row",
				slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		states = append(states, state)
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning user word rows",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	if states == nil {
		states = []*domain.UserWord{}
	}
	return states, nil
}

// ListWithWords implements store.UserWordStore.ListWithWords
// It joins each tracked state with its catalog word so callers get
// everything a review session needs in one round trip.
func (s *PostgresUserWordStore) ListWithWords(
	ctx context.Context,
	learnerID string,
) ([]quiz.LearnerWord, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT uw.id, uw.learner_id, uw.word_id, uw.status, uw.ease_factor,
			uw.interval_days, uw.repetition, uw.review_count, uw.correct_count,
			uw.incorrect_count, uw.next_review_at, uw.created_at, uw.updated_at,
			w.id, w.text, w.level, w.difficulty, w.definition, w.phonetic,
			w.audio_url, w.image_url, w.example_sentence, w.meanings,
			w.synonyms, w.created_at, w.updated_at
		FROM user_words uw
		JOIN words w ON w.id = uw.word_id
		WHERE uw.learner_id = $1
		ORDER BY uw.created_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query, learnerID)
	if err != nil {
		log.Error("failed to query user words with words",
			slog.String("error", err.Error()),
			slog.String("learner_id", learnerID))
		return nil, MapError(err)
	}
	defer closeRows(rows, log)

	var pairs []quiz.LearnerWord
	for rows.Next() {
		pair, err := scanLearnerWord(rows)
		if err != nil {
			log.Error("failed to scan learner word row",
				slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		pairs = append(pairs, pair)
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning learner word rows",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	if pairs == nil {
		pairs = []quiz.LearnerWord{}
	}

	log.Debug("listed learner words",
		slog.String("learner_id", learnerID),
		slog.Int("count", len(pairs)))
	return pairs, nil
}

// Update implements store.UserWordStore.Update
// Returns store.ErrUserWordNotFound if the state does not exist.
func (s *PostgresUserWordStore) Update(ctx context.Context, state *domain.UserWord) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := state.Validate(); err != nil {
		log.Warn("user word validation failed during update",
			slog.String("error", err.Error()),
			slog.String("user_word_id", state.ID.String()))
		return err
	}

	state.UpdatedAt = touchTimestamp()

	query := `
		UPDATE user_words
		SET status = $1, ease_factor = $2, interval_days = $3, repetition = $4,
			review_count = $5, correct_count = $6, incorrect_count = $7,
			next_review_at = $8, updated_at = $9
		WHERE id = $10
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		state.Status,
		state.EaseFactor,
		state.Interval,
		state.Repetition,
		state.ReviewCount,
		state.CorrectCount,
		state.IncorrectCount,
		state.NextReviewAt,
		state.UpdatedAt,
		state.ID,
	)

	if err != nil {
		log.Error("failed to update user word",
			slog.String("error", err.Error()),
			slog.String("user_word_id", state.ID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrUserWordNotFound); err != nil {
		log.Debug("user word not found for update",
			slog.String("user_word_id", state.ID.String()))
		return err
	}

	log.Debug("user word updated successfully",
		slog.String("user_word_id", state.ID.String()),
		slog.String("status", string(state.Status)))
	return nil
}

// Delete implements store.UserWordStore.Delete
// Returns store.ErrUserWordNotFound if the state does not exist.
func (s *PostgresUserWordStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `DELETE FROM user_words WHERE id = $1`

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		log.Error("failed to delete user word",
			slog.String("error", err.Error()),
			slog.String("user_word_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrUserWordNotFound); err != nil {
		log.Debug("user word not found for delete",
			slog.String("user_word_id", id.String()))
		return err
	}

	log.Info("user word deleted successfully",
		slog.String("user_word_id", id.String()))
	return nil
}

func scanUserWord(row rowScanner) (*domain.UserWord, error) {
	var (
		state      domain.UserWord
		status     string
		nextReview sql.NullTime
	)

	err := row.Scan(
		&state.ID,
		&state.LearnerID,
		&state.WordID,
		&status,
		&state.EaseFactor,
		&state.Interval,
		&state.Repetition,
		&state.ReviewCount,
		&state.CorrectCount,
		&state.IncorrectCount,
		&nextReview,
		&state.CreatedAt,
		&state.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	state.Status = domain.WordStatus(status)
	if nextReview.Valid {
		next := nextReview.Time.UTC()
		state.NextReviewAt = &next
	}
	state.CreatedAt = state.CreatedAt.UTC()
	state.UpdatedAt = state.UpdatedAt.UTC()

	return &state, nil
}

func scanLearnerWord(rows *sql.Rows) (quiz.LearnerWord, error) {
	var (
		state      domain.UserWord
		word       domain.Word
		status     string
		level      string
		nextReview sql.NullTime
		meanings   []byte
		synonyms   []byte
	)

	err := rows.Scan(
		&state.ID,
		&state.LearnerID,
		&state.WordID,
		&status,
		&state.EaseFactor,
		&state.Interval,
		&state.Repetition,
		&state.ReviewCount,
		&state.CorrectCount,
		&state.IncorrectCount,
		&nextReview,
		&state.CreatedAt,
		&state.UpdatedAt,
		&word.ID,
		&word.Text,
		&level,
		&word.Difficulty,
		&word.Definition,
		&word.Phonetic,
		&word.AudioURL,
		&word.ImageURL,
		&word.ExampleSentence,
		&meanings,
		&synonyms,
		&word.CreatedAt,
		&word.UpdatedAt,
	)
	if err != nil {
		return quiz.LearnerWord{}, err
	}

	state.Status = domain.WordStatus(status)
	if nextReview.Valid {
		next := nextReview.Time.UTC()
		state.NextReviewAt = &next
	}
	word.Level = domain.Level(level)
	if len(meanings) > 0 {
		if err := json.Unmarshal(meanings, &word.Meanings); err != nil {
			return quiz.LearnerWord{}, fmt.Errorf("failed to unmarshal meanings: %w", err)
		}
	}
	if len(synonyms) > 0 {
		if err := json.Unmarshal(synonyms, &word.Synonyms); err != nil {
			return quiz.LearnerWord{}, fmt.Errorf("failed to unmarshal synonyms: %w", err)
		}
	}

	word.CreatedAt = word.CreatedAt.UTC()
	word.UpdatedAt = word.UpdatedAt.UTC()
	state.CreatedAt = state.CreatedAt.UTC()
	state.UpdatedAt = state.UpdatedAt.UTC()

	return quiz.LearnerWord{State: &state, Word: &word}, nil
}
