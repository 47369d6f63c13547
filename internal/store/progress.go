package store

import (
	"context"
	"database/sql"

	"github.com/vocabloom/vocabloom-api/internal/domain"
)

// ProgressStore defines the interface for learner progress persistence.
type ProgressStore interface {
	// Get retrieves the progress record for a learner.
	// Returns ErrProgressNotFound if no record exists yet.
	Get(ctx context.Context, learnerID string) (*domain.LearnerProgress, error)

	// Upsert inserts the learner's progress record or replaces an
	// existing one. The record is keyed by learner ID.
	Upsert(ctx context.Context, progress *domain.LearnerProgress) error

	// WithTx returns a new ProgressStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller,
	// typically via store.RunInTransaction.
	WithTx(tx *sql.Tx) ProgressStore
}
