// Package quiz implements session content selection and question
// generation for the four game modes. Like the srs package it holds pure
// logic only: callers supply the learner's tracked words and a random
// source, and receive question payloads back.
package quiz

import (
	"errors"
	"math/rand"
	"sort"
	"time"

	"github.com/vocabloom/vocabloom-api/internal/domain"
)

// Common errors
var (
	// ErrNoContent indicates the learner has no tracked words to quiz or
	// review. It is a recoverable condition ("add words first"), not a
	// failure.
	ErrNoContent = errors.New("no words available for practice")
)

// LearnerWord pairs a learner's tracking state with the underlying word.
type LearnerWord struct {
	State *domain.UserWord
	Word  *domain.Word
}

// SelectForSession picks the words for a practice session.
//
// Words due for review take strict priority: when any are due, the session
// is sampled uniformly from the due set only, never padded with not-due
// words. When nothing is due the session falls back to sampling from the
// full tracked set, so a learner who is fully caught up can still practice.
// At most desiredCount words are returned.
//
// Returns ErrNoContent when the learner tracks no words at all.
func SelectForSession(
	rng *rand.Rand,
	words []LearnerWord,
	desiredCount int,
	now time.Time,
) ([]LearnerWord, error) {
	if len(words) == 0 {
		return nil, ErrNoContent
	}

	pool := due(words, now)
	if len(pool) == 0 {
		pool = words
	}

	count := desiredCount
	if count > len(pool) {
		count = len(pool)
	}
	if count < 0 {
		count = 0
	}

	// Uniform sample without replacement.
	selected := make([]LearnerWord, 0, count)
	for _, i := range rng.Perm(len(pool))[:count] {
		selected = append(selected, pool[i])
	}

	return selected, nil
}

// SelectDue filters the learner's words down to those due at the given
// time, ordered soonest-overdue first, truncated to limit. Words that were
// never scheduled sort ahead of everything else. A limit below 1 means no
// truncation.
func SelectDue(words []LearnerWord, limit int, now time.Time) []LearnerWord {
	dueWords := due(words, now)

	sort.SliceStable(dueWords, func(i, j int) bool {
		a, b := dueWords[i].State.NextReviewAt, dueWords[j].State.NextReviewAt
		switch {
		case a == nil:
			return b != nil
		case b == nil:
			return false
		default:
			return a.Before(*b)
		}
	})

	if limit > 0 && len(dueWords) > limit {
		dueWords = dueWords[:limit]
	}
	return dueWords
}

func due(words []LearnerWord, now time.Time) []LearnerWord {
	var out []LearnerWord
	for _, lw := range words {
		if lw.State.Due(now) {
			out = append(out, lw)
		}
	}
	return out
}
