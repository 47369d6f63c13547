package srs

import (
	"math"
	"time"

	"github.com/vocabloom/vocabloom-api/internal/domain"
)

// clampQuality forces a quality score into the valid 0-5 range. Out-of-range
// input is a deliberate leniency, not an error.
func clampQuality(quality int) int {
	if quality < 0 {
		return 0
	}
	if quality > 5 {
		return 5
	}
	return quality
}

// nextEaseFactor applies the SM-2 ease factor update:
//
//	EF' = EF + (0.1 - (5-q)*(0.08 + (5-q)*0.02))
//
// The result is monotonic increasing in q: a perfect answer raises the ease
// factor by 0.1, q=4 leaves it unchanged, and anything below lowers it. The
// result is floored at params.MinEaseFactor.
func nextEaseFactor(currentEF float64, quality int, params *Params) float64 {
	q := float64(5 - quality)
	newEF := currentEF + (0.1 - q*(0.08+q*0.02))

	if newEF < params.MinEaseFactor {
		newEF = params.MinEaseFactor
	}

	return newEF
}

// schedule computes the next review state for a word given a quality score.
//
// It follows the SM-2 variant used throughout this service:
//
//  1. Quality is clamped to [0,5] and the ease factor updated first.
//  2. Quality below 3 is a lapse: the interval resets to one day, the
//     repetition streak resets to zero, and the word regresses to the
//     "learning" status.
//  3. Quality of 3 or above extends the streak. The first repetition
//     schedules one day out, the second six days, and every later one
//     ceil(previousInterval * EF'). A word becomes "mastered" once its
//     interval reaches the mastery threshold with a healthy ease factor.
//  4. Lifetime counters (review/correct/incorrect) accumulate and never
//     reset; the next review date lands interval days after now in both
//     branches.
//
// The input state is never mutated; a new copy is returned. Interval growth
// is unbounded above, as intended by SM-2; int comfortably holds any
// realistic interval (a century is under 40k days).
func schedule(state *domain.UserWord, quality int, now time.Time, params *Params) *domain.UserWord {
	next := state.Clone()
	q := clampQuality(quality)

	next.EaseFactor = nextEaseFactor(state.EaseFactor, q, params)
	next.ReviewCount++

	if q < 3 {
		// Lapse: reset the streak, review again tomorrow.
		next.Interval = params.LapseInterval
		next.Repetition = 0
		next.Status = domain.WordStatusLearning
		next.IncorrectCount++
	} else {
		next.CorrectCount++
		next.Repetition++

		switch next.Repetition {
		case 1:
			next.Interval = params.FirstInterval
		case 2:
			next.Interval = params.SecondInterval
		default:
			next.Interval = int(math.Ceil(float64(state.Interval) * next.EaseFactor))
		}

		if next.Interval >= params.MasteryInterval && next.EaseFactor >= params.MasteryEaseFactor {
			next.Status = domain.WordStatusMastered
		} else {
			next.Status = domain.WordStatusLearning
		}
	}

	nextReview := now.AddDate(0, 0, next.Interval)
	next.NextReviewAt = &nextReview
	next.UpdatedAt = now

	return next
}
