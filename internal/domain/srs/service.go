package srs

import (
	"errors"
	"time"

	"github.com/vocabloom/vocabloom-api/internal/domain"
)

// Common errors
var (
	ErrNilState = errors.New("user word state cannot be nil")
)

// Service defines the interface for spaced-repetition calculations.
// Both operations are pure: they read a state snapshot and return a new one,
// leaving persistence and concurrency control to the caller.
type Service interface {
	// EstimateQuality converts a raw performance signal (correctness, time
	// spent in seconds, attempt count) into a 0-5 quality score.
	EstimateQuality(correct bool, timeSpentSeconds, attempts int) int

	// CalculateNextReview computes the updated review state for a word
	// given a quality score. Quality outside [0,5] is clamped.
	CalculateNextReview(
		state *domain.UserWord,
		quality int,
		now time.Time,
	) (*domain.UserWord, error)
}

// defaultService is the standard implementation of the Service interface.
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new SRS service with default parameters.
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// NewServiceWithParams creates a new SRS service with custom parameters.
func NewServiceWithParams(params *Params) Service {
	return &defaultService{
		params: params,
	}
}

// EstimateQuality implements the Service interface.
func (s *defaultService) EstimateQuality(correct bool, timeSpentSeconds, attempts int) int {
	return estimateQuality(correct, timeSpentSeconds, attempts, s.params)
}

// CalculateNextReview implements the Service interface.
func (s *defaultService) CalculateNextReview(
	state *domain.UserWord,
	quality int,
	now time.Time,
) (*domain.UserWord, error) {
	if state == nil {
		return nil, ErrNilState
	}

	return schedule(state, quality, now, s.params), nil
}
