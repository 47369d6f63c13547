package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Level represents a CEFR proficiency level for a vocabulary word.
type Level string

// The six ordered proficiency tiers, from beginner to proficient.
const (
	LevelA1 Level = "A1"
	LevelA2 Level = "A2"
	LevelB1 Level = "B1"
	LevelB2 Level = "B2"
	LevelC1 Level = "C1"
	LevelC2 Level = "C2"
)

// Levels lists all valid proficiency levels in ascending order.
var Levels = []Level{LevelA1, LevelA2, LevelB1, LevelB2, LevelC1, LevelC2}

// ParseLevel normalizes and validates a level string (case-insensitive).
func ParseLevel(s string) (Level, error) {
	level := Level(strings.ToUpper(strings.TrimSpace(s)))
	if !level.IsValid() {
		return "", ErrInvalidLevel
	}
	return level, nil
}

// IsValid reports whether the level is one of the six known tiers.
func (l Level) IsValid() bool {
	switch l {
	case LevelA1, LevelA2, LevelB1, LevelB2, LevelC1, LevelC2:
		return true
	default:
		return false
	}
}

// Common validation errors for Word
var (
	ErrEmptyWordText      = errors.New("word text cannot be empty")
	ErrInvalidLevel       = errors.New("invalid proficiency level")
	ErrInvalidDifficulty  = errors.New("difficulty must be between 1 and 5")
	ErrEmptyDefinition    = errors.New("word definition cannot be empty")
)

// Meaning is one dictionary sense of a word: a part of speech with its
// sub-definitions and related terms.
type Meaning struct {
	PartOfSpeech string   `json:"part_of_speech"`
	Definitions  []string `json:"definitions"`
	Synonyms     []string `json:"synonyms,omitempty"`
	Antonyms     []string `json:"antonyms,omitempty"`
}

// Word is a vocabulary entry in the shared word bank. Words are created by
// content ingestion and are read-only to the review core; only enrichment
// backfill (phonetic, audio, image) may update them after creation.
type Word struct {
	ID              uuid.UUID `json:"id"`
	Text            string    `json:"text"`
	Level           Level     `json:"level"`
	Difficulty      int       `json:"difficulty"` // 1 (easiest) to 5 (hardest)
	Definition      string    `json:"definition"`
	Phonetic        string    `json:"phonetic,omitempty"`
	AudioURL        string    `json:"audio_url,omitempty"`
	ImageURL        string    `json:"image_url,omitempty"`
	ExampleSentence string    `json:"example_sentence,omitempty"`
	Meanings        []Meaning `json:"meanings,omitempty"`
	Synonyms        []string  `json:"synonyms,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NewWord creates a new Word with the minimum required fields.
// The text is lowercased and trimmed so lookups stay case-insensitive.
func NewWord(text string, level Level, difficulty int, definition string) (*Word, error) {
	now := time.Now().UTC()
	word := &Word{
		ID:         uuid.New(),
		Text:       strings.ToLower(strings.TrimSpace(text)),
		Level:      level,
		Difficulty: difficulty,
		Definition: strings.TrimSpace(definition),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := word.Validate(); err != nil {
		return nil, err
	}

	return word, nil
}

// Validate checks if the Word has valid data.
// Returns an error if any field fails validation.
func (w *Word) Validate() error {
	if strings.TrimSpace(w.Text) == "" {
		return ErrEmptyWordText
	}

	if !w.Level.IsValid() {
		return ErrInvalidLevel
	}

	if w.Difficulty < 1 || w.Difficulty > 5 {
		return ErrInvalidDifficulty
	}

	if strings.TrimSpace(w.Definition) == "" {
		return ErrEmptyDefinition
	}

	return nil
}

// DifficultyForText derives a 1-5 difficulty rank from word length.
// Longer words rank harder.
func DifficultyForText(text string) int {
	switch n := len(strings.TrimSpace(text)); {
	case n <= 4:
		return 1
	case n <= 6:
		return 2
	case n <= 8:
		return 3
	case n <= 10:
		return 4
	default:
		return 5
	}
}
