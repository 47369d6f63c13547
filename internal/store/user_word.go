package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/vocabloom/vocabloom-api/internal/domain"
	"github.com/vocabloom/vocabloom-api/internal/quiz"
)

// UserWordStore defines the interface for learner word state persistence.
type UserWordStore interface {
	// Create saves a new learner word state to the store.
	// Returns ErrUserWordExists if the learner already tracks the word.
	// Returns ErrInvalidEntity if the referenced word does not exist.
	Create(ctx context.Context, state *domain.UserWord) error

	// GetByID retrieves a learner word state by its unique ID.
	// Returns ErrUserWordNotFound if it does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.UserWord, error)

	// GetByIDForUpdate retrieves a learner word state by ID with a row
	// lock (SELECT FOR UPDATE). It MUST be called within a transaction;
	// the lock is held until the transaction commits or rolls back.
	// Returns ErrUserWordNotFound if it does not exist.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.UserWord, error)

	// GetByLearnerAndWord retrieves the state a learner holds for a word.
	// Returns ErrUserWordNotFound if the learner does not track the word.
	GetByLearnerAndWord(ctx context.Context, learnerID string, wordID uuid.UUID) (*domain.UserWord, error)

	// ListByLearner returns all word states for a learner, optionally
	// filtered by status (empty status means no filter), newest first.
	ListByLearner(ctx context.Context, learnerID string, status domain.WordStatus) ([]*domain.UserWord, error)

	// ListWithWords returns all word states for a learner joined with
	// their catalog words, ordered by creation time ascending.
	ListWithWords(ctx context.Context, learnerID string) ([]quiz.LearnerWord, error)

	// Update persists changes to an existing learner word state.
	// Returns ErrUserWordNotFound if it does not exist.
	Update(ctx context.Context, state *domain.UserWord) error

	// Delete removes a learner word state by its ID.
	// Returns ErrUserWordNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new UserWordStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller,
	// typically via store.RunInTransaction.
	WithTx(tx *sql.Tx) UserWordStore
}
