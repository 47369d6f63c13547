// Package srs implements the spaced-repetition core: the SM-2 review
// scheduler and the quality estimator that feeds it. All calculations are
// pure functions over domain.UserWord snapshots; persistence is the
// caller's concern.
package srs

// Params defines the configurable parameters of the SM-2 scheduler.
type Params struct {
	// MinEaseFactor is the floor applied after every ease factor update.
	// There is deliberately no upper bound: interval growth for
	// consistently perfect recall is unbounded in SM-2.
	MinEaseFactor float64

	// FirstInterval and SecondInterval are the fixed intervals (in days)
	// for the first and second successful repetitions of a streak.
	// Subsequent intervals grow by the ease factor.
	FirstInterval  int
	SecondInterval int

	// LapseInterval is the interval assigned when recall fails.
	LapseInterval int

	// MasteryInterval and MasteryEaseFactor are the thresholds a word must
	// reach, together, to be considered mastered.
	MasteryInterval   int
	MasteryEaseFactor float64

	// Quality thresholds for the estimator: answering correctly on the
	// first attempt within FastAnswerSeconds scores a perfect 5, within
	// SlowAnswerSeconds a 4, and anything slower a 3.
	FastAnswerSeconds int
	SlowAnswerSeconds int
}

// NewDefaultParams creates a Params instance with the standard SM-2 values.
func NewDefaultParams() *Params {
	return &Params{
		MinEaseFactor:     1.3,
		FirstInterval:     1,
		SecondInterval:    6,
		LapseInterval:     1,
		MasteryInterval:   21,
		MasteryEaseFactor: 2.5,
		FastAnswerSeconds: 5,
		SlowAnswerSeconds: 15,
	}
}
