package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/vocabloom/vocabloom-api/internal/domain"
)

// ListWordsQuery narrows and pages word catalog listings. Zero values
// mean "no filter" for Level and Difficulty; Limit <= 0 falls back to
// the implementation's default page size.
type ListWordsQuery struct {
	Level      domain.Level
	Difficulty int
	Offset     int
	Limit      int
}

// WordStore defines the interface for word catalog persistence.
type WordStore interface {
	// Create saves a new word to the store.
	// Returns ErrWordExists if a word with the same text already exists.
	// Returns validation errors from domain.Word.Validate if invalid.
	Create(ctx context.Context, word *domain.Word) error

	// GetByID retrieves a word by its unique ID.
	// Returns ErrWordNotFound if the word does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Word, error)

	// GetByText retrieves a word by its canonical (lowercased) text.
	// Returns ErrWordNotFound if the word does not exist.
	GetByText(ctx context.Context, text string) (*domain.Word, error)

	// List returns words matching the query, ordered by text ascending,
	// together with the total count ignoring Offset/Limit.
	List(ctx context.Context, query ListWordsQuery) ([]*domain.Word, int, error)

	// Random returns up to count words sampled uniformly from the
	// catalog, optionally restricted to a level.
	Random(ctx context.Context, level domain.Level, count int) ([]*domain.Word, error)

	// SampleByLevel returns up to limit words of the given level,
	// excluding excludeID, in random order. When requireImage is true
	// only words with a non-empty image URL are considered.
	// Used to source quiz distractors.
	SampleByLevel(ctx context.Context, level domain.Level, excludeID uuid.UUID, limit int, requireImage bool) ([]*domain.Word, error)

	// WithTx returns a new WordStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller,
	// typically via store.RunInTransaction.
	WithTx(tx *sql.Tx) WordStore
}
