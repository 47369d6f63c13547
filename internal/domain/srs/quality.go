package srs

// Quality scores on the SM-2 0-5 scale, from complete blackout to a perfect
// instant recall.
const (
	QualityBlackout    = 0 // Incorrect after repeated attempts
	QualityForgotten   = 1 // Incorrect, gave up early
	QualityRemembered  = 2 // Incorrect, but the answer felt familiar (unused by the estimator)
	QualityCorrectHard = 3 // Correct with noticeable effort
	QualityCorrectEasy = 4 // Correct with some hesitation
	QualityPerfect     = 5 // Correct, fast, first try
)

// estimateQuality maps a raw performance signal to a 0-5 quality score.
//
// Incorrect answers score 0 when the learner burned more than two attempts
// before failing (weaker retention signal) and 1 otherwise. Correct answers
// on the first attempt are graded by speed; a correct answer that needed
// more than one attempt is capped at 3 regardless of time.
//
// attempts below 1 are clamped to 1 rather than producing undefined results.
func estimateQuality(correct bool, timeSpentSeconds, attempts int, params *Params) int {
	if attempts < 1 {
		attempts = 1
	}

	if !correct {
		if attempts > 2 {
			return QualityBlackout
		}
		return QualityForgotten
	}

	if attempts == 1 {
		switch {
		case timeSpentSeconds < params.FastAnswerSeconds:
			return QualityPerfect
		case timeSpentSeconds < params.SlowAnswerSeconds:
			return QualityCorrectEasy
		default:
			return QualityCorrectHard
		}
	}

	return QualityCorrectHard
}
