package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// WordStatus represents a learner's standing with a particular word.
type WordStatus string

// Possible word status values. The status is informative rather than
// monotonic: a mastered word regresses to learning on a lapse.
const (
	WordStatusNew      WordStatus = "new"
	WordStatusLearning WordStatus = "learning"
	WordStatusMastered WordStatus = "mastered"
)

// IsValid reports whether the status is one of the known values.
func (s WordStatus) IsValid() bool {
	switch s {
	case WordStatusNew, WordStatusLearning, WordStatusMastered:
		return true
	default:
		return false
	}
}

// Scheduling defaults for newly tracked words.
const (
	// DefaultEaseFactor is the SM-2 starting ease factor.
	DefaultEaseFactor = 2.5

	// MinEaseFactor is the hard floor below which the ease factor never drops.
	MinEaseFactor = 1.3
)

// Common validation errors for UserWord
var (
	ErrEmptyLearnerID    = errors.New("user word learner ID cannot be empty")
	ErrEmptyWordID       = errors.New("user word word ID cannot be empty")
	ErrInvalidStatus     = errors.New("invalid word status")
	ErrInvalidInterval   = errors.New("interval must be greater than or equal to 0")
	ErrInvalidEaseFactor = errors.New("ease factor must be at least 1.3")
)

// UserWord tracks one learner's spaced-repetition state for a single word.
// There is at most one record per (learner, word) pair. The record is mutated
// exclusively by the review scheduler after each answer.
type UserWord struct {
	ID         uuid.UUID  `json:"id"`
	LearnerID  string     `json:"learner_id"` // Opaque session identifier, no security semantics
	WordID     uuid.UUID  `json:"word_id"`
	Status     WordStatus `json:"status"`
	EaseFactor float64    `json:"ease_factor"`
	Interval   int        `json:"interval"`   // Days until the next review
	Repetition int        `json:"repetition"` // Consecutive successful recalls since the last lapse

	// Lifetime counters. Never reset, even on a lapse.
	ReviewCount    int `json:"review_count"`
	CorrectCount   int `json:"correct_count"`
	IncorrectCount int `json:"incorrect_count"`

	// NextReviewAt is when the word comes due. A nil value means the word
	// was never scheduled and is treated as due immediately.
	NextReviewAt *time.Time `json:"next_review_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewUserWord creates tracking state for a learner's newly added word.
// The word starts in the "new" status with the default ease factor and is
// first scheduled one day out.
func NewUserWord(learnerID string, wordID uuid.UUID) (*UserWord, error) {
	now := time.Now().UTC()
	next := now.Add(24 * time.Hour)
	userWord := &UserWord{
		ID:           uuid.New(),
		LearnerID:    learnerID,
		WordID:       wordID,
		Status:       WordStatusNew,
		EaseFactor:   DefaultEaseFactor,
		Interval:     0,
		Repetition:   0,
		NextReviewAt: &next,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := userWord.Validate(); err != nil {
		return nil, err
	}

	return userWord, nil
}

// Validate checks if the UserWord has valid data.
// Returns an error if any field fails validation.
func (u *UserWord) Validate() error {
	if u.LearnerID == "" {
		return ErrEmptyLearnerID
	}

	if u.WordID == uuid.Nil {
		return ErrEmptyWordID
	}

	if !u.Status.IsValid() {
		return ErrInvalidStatus
	}

	if u.Interval < 0 {
		return ErrInvalidInterval
	}

	if u.EaseFactor < MinEaseFactor {
		return ErrInvalidEaseFactor
	}

	return nil
}

// Due reports whether the word should be reviewed at the given time.
// A word with no scheduled review date is due immediately.
func (u *UserWord) Due(now time.Time) bool {
	if u.NextReviewAt == nil {
		return true
	}
	return !u.NextReviewAt.After(now)
}

// Clone returns a deep copy of the UserWord. The scheduler operates on
// copies so a failed persistence attempt never leaves a half-updated record.
func (u *UserWord) Clone() *UserWord {
	clone := *u
	if u.NextReviewAt != nil {
		next := *u.NextReviewAt
		clone.NextReviewAt = &next
	}
	return &clone
}
