package domain

import (
	"time"
)

// LevelProgress is the per-level slice of a learner's progress breakdown.
type LevelProgress struct {
	Total    int `json:"total"`
	Mastered int `json:"mastered"`
}

// LearnerProgress aggregates a learner's overall statistics. The word
// counters and accuracy are recomputed from the learner's full UserWord set
// on each update rather than maintained incrementally; only the streak
// fields carry state of their own.
type LearnerProgress struct {
	LearnerID          string                  `json:"learner_id"`
	TotalWords         int                     `json:"total_words"`
	MasteredWords      int                     `json:"mastered_words"`
	CurrentStreak      int                     `json:"current_streak"` // Consecutive calendar days with activity
	LongestStreak      int                     `json:"longest_streak"`
	LastActivityAt     *time.Time              `json:"last_activity_at,omitempty"`
	AccuracyPercentage float64                 `json:"accuracy_percentage"` // Lifetime correct/total, 0-100
	TotalQuizzes       int                     `json:"total_quizzes"`
	TotalReviews       int                     `json:"total_reviews"`
	LevelProgress      map[Level]LevelProgress `json:"level_progress"`
	CreatedAt          time.Time               `json:"created_at"`
	UpdatedAt          time.Time               `json:"updated_at"`
}

// NewLearnerProgress creates an empty progress record for a learner.
func NewLearnerProgress(learnerID string) *LearnerProgress {
	now := time.Now().UTC()
	return &LearnerProgress{
		LearnerID:     learnerID,
		LevelProgress: map[Level]LevelProgress{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// TouchActivity records learner activity for streak accounting and returns
// whether the streak fields changed. Activity on the same calendar day is a
// no-op; activity on the day after the last recorded one extends the streak;
// anything else starts a fresh streak of one. The longest streak never
// decreases.
func (p *LearnerProgress) TouchActivity(now time.Time) bool {
	today := now.UTC().Truncate(24 * time.Hour)

	if p.LastActivityAt != nil {
		last := p.LastActivityAt.UTC().Truncate(24 * time.Hour)
		switch {
		case last.Equal(today):
			return false
		case last.Equal(today.AddDate(0, 0, -1)):
			p.CurrentStreak++
		default:
			p.CurrentStreak = 1
		}
	} else {
		p.CurrentStreak = 1
	}

	if p.CurrentStreak > p.LongestStreak {
		p.LongestStreak = p.CurrentStreak
	}

	p.LastActivityAt = &today
	p.UpdatedAt = now.UTC()
	return true
}
