package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/vocabloom/vocabloom-api/internal/domain"
	"github.com/vocabloom/vocabloom-api/internal/platform/logger"
	"github.com/vocabloom/vocabloom-api/internal/store"
)

// UserWordService manages which words a learner tracks.
type UserWordService interface {
	// List returns the learner's tracked words, newest first, optionally
	// filtered by status (empty status means no filter).
	List(
		ctx context.Context,
		learnerID string,
		status domain.WordStatus,
	) ([]*domain.UserWord, error)

	// Add starts tracking a word for the learner. Adding an already
	// tracked word is idempotent and returns the existing record; the
	// bool result reports whether a new record was created.
	// Returns store.ErrWordNotFound if the word does not exist.
	Add(ctx context.Context, learnerID string, wordID uuid.UUID) (*domain.UserWord, bool, error)

	// Remove deletes a tracked word record by its ID.
	// Returns store.ErrUserWordNotFound if it does not exist.
	Remove(ctx context.Context, id uuid.UUID) error
}

// userWordServiceImpl implements the UserWordService interface.
type userWordServiceImpl struct {
	userWordStore store.UserWordStore
	logger        *slog.Logger
}

// NewUserWordService creates a new UserWordService.
// It returns an error if any of the required dependencies are nil.
func NewUserWordService(
	userWordStore store.UserWordStore,
	log *slog.Logger,
) (UserWordService, error) {
	if userWordStore == nil {
		return nil, domain.NewValidationError("userWordStore", "cannot be nil", domain.ErrValidation)
	}
	if log == nil {
		log = slog.Default()
	}

	return &userWordServiceImpl{
		userWordStore: userWordStore,
		logger:        log.With(slog.String("component", "user_word_service")),
	}, nil
}

// List implements UserWordService.List
func (s *userWordServiceImpl) List(
	ctx context.Context,
	learnerID string,
	status domain.WordStatus,
) ([]*domain.UserWord, error) {
	states, err := s.userWordStore.ListByLearner(ctx, learnerID, status)
	if err != nil {
		return nil, NewServiceError("list_user_words", "failed to list learner words", err)
	}
	return states, nil
}

// Add implements UserWordService.Add
func (s *userWordServiceImpl) Add(
	ctx context.Context,
	learnerID string,
	wordID uuid.UUID,
) (*domain.UserWord, bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	existing, err := s.userWordStore.GetByLearnerAndWord(ctx, learnerID, wordID)
	if err == nil {
		return existing, false, nil
	}
	if !store.IsNotFoundError(err) {
		return nil, false, NewServiceError("add_user_word", "failed to check existing record", err)
	}

	state, err := domain.NewUserWord(learnerID, wordID)
	if err != nil {
		return nil, false, err
	}

	if err := s.userWordStore.Create(ctx, state); err != nil {
		if store.IsDuplicateError(err) {
			// Lost a race with a concurrent add of the same word.
			existing, getErr := s.userWordStore.GetByLearnerAndWord(ctx, learnerID, wordID)
			if getErr == nil {
				return existing, false, nil
			}
		}
		if errors.Is(err, store.ErrInvalidEntity) {
			return nil, false, store.ErrWordNotFound
		}
		return nil, false, NewServiceError("add_user_word", "failed to save record", err)
	}

	log.Info("word added to learner",
		slog.String("learner_id", learnerID),
		slog.String("word_id", wordID.String()))
	return state, true, nil
}

// Remove implements UserWordService.Remove
func (s *userWordServiceImpl) Remove(ctx context.Context, id uuid.UUID) error {
	if err := s.userWordStore.Delete(ctx, id); err != nil {
		if store.IsNotFoundError(err) {
			return err
		}
		return NewServiceError("remove_user_word", "failed to delete record", err)
	}
	return nil
}
