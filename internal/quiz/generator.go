package quiz

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"

	"github.com/google/uuid"

	"github.com/vocabloom/vocabloom-api/internal/domain"
)

// Mode identifies a quiz game mode.
type Mode string

// The four supported game modes. The wire values match the original
// client vocabulary ("quiz" is historical for multiple choice).
const (
	ModeMultipleChoice Mode = "quiz"
	ModeImageMatch     Mode = "images"
	ModeListening      Mode = "listening"
	ModeWriting        Mode = "writing"
)

// ErrInvalidMode is returned for an unknown game mode.
var ErrInvalidMode = errors.New("invalid quiz mode")

// ParseMode validates a mode string.
func ParseMode(s string) (Mode, error) {
	mode := Mode(strings.ToLower(strings.TrimSpace(s)))
	switch mode {
	case ModeMultipleChoice, ModeImageMatch, ModeListening, ModeWriting:
		return mode, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}

// Distractor counts per mode.
const (
	choiceDistractors = 3
	imageDistractors  = 5
)

// ImageOption is one entry of an image-matching question.
type ImageOption struct {
	URL  string `json:"url"`
	Word string `json:"word"`
}

// Question is a single quiz question payload. Which fields are populated
// depends on the question type; CorrectAnswer is always set.
type Question struct {
	ID              uuid.UUID     `json:"id"` // The learner's user-word record, used to report the answer back
	Type            string        `json:"type"`
	Question        string        `json:"question,omitempty"`
	Word            string        `json:"word,omitempty"`
	Options         []string      `json:"options,omitempty"`
	Images          []ImageOption `json:"images,omitempty"`
	AudioURL        string        `json:"audio_url,omitempty"`
	Phonetic        string        `json:"phonetic,omitempty"`
	Definition      string        `json:"definition,omitempty"`
	ImageURL        string        `json:"image_url,omitempty"`
	ExampleSentence string        `json:"example_sentence,omitempty"`
	Hint            string        `json:"hint,omitempty"`
	CorrectAnswer   string        `json:"correct_answer"`
}

// DistractorSampler supplies random wrong-answer candidates from the word
// bank. Implemented by the word store.
type DistractorSampler interface {
	// SampleByLevel returns up to limit random words of the given level,
	// excluding the word with excludeID. With requireImage set, only
	// words carrying an image reference qualify.
	SampleByLevel(
		ctx context.Context,
		level domain.Level,
		excludeID uuid.UUID,
		limit int,
		requireImage bool,
	) ([]*domain.Word, error)
}

// Generator builds quiz questions for a sampled set of learner words.
type Generator struct {
	sampler DistractorSampler
	logger  *slog.Logger
}

// NewGenerator creates a question generator backed by the given distractor
// sampler.
func NewGenerator(sampler DistractorSampler, logger *slog.Logger) *Generator {
	if sampler == nil {
		panic("sampler cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Generator{
		sampler: sampler,
		logger:  logger.With(slog.String("component", "quiz_generator")),
	}
}

// Generate produces one question per learner word for the given mode.
// Distractor selection and option order are randomized via rng; consecutive
// invocations produce different question sets. A shortage of eligible
// distractors degrades gracefully to however many exist.
func (g *Generator) Generate(
	ctx context.Context,
	rng *rand.Rand,
	words []LearnerWord,
	mode Mode,
) ([]Question, error) {
	questions := make([]Question, 0, len(words))

	for _, lw := range words {
		var (
			q   Question
			err error
		)

		switch mode {
		case ModeMultipleChoice:
			q, err = g.multipleChoice(ctx, rng, lw)
		case ModeImageMatch:
			q, err = g.imageMatch(ctx, rng, lw)
		case ModeListening:
			q = listening(lw)
		case ModeWriting:
			q = writing(lw)
		default:
			return nil, fmt.Errorf("%w: %q", ErrInvalidMode, mode)
		}

		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}

	return questions, nil
}

// multipleChoice asks for the word matching a definition, among three
// same-level distractors.
func (g *Generator) multipleChoice(ctx context.Context, rng *rand.Rand, lw LearnerWord) (Question, error) {
	distractors, err := g.sampler.SampleByLevel(
		ctx, lw.Word.Level, lw.Word.ID, choiceDistractors, false)
	if err != nil {
		return Question{}, fmt.Errorf("failed to sample distractors: %w", err)
	}

	if len(distractors) < choiceDistractors {
		g.logger.Debug("short on distractors",
			slog.String("word", lw.Word.Text),
			slog.String("level", string(lw.Word.Level)),
			slog.Int("found", len(distractors)))
	}

	options := make([]string, 0, len(distractors)+1)
	for _, d := range distractors {
		options = append(options, d.Text)
	}
	options = append(options, lw.Word.Text)
	rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	return Question{
		ID:            lw.State.ID,
		Type:          "definition_to_word",
		Question:      lw.Word.Definition,
		Options:       options,
		Phonetic:      lw.Word.Phonetic,
		CorrectAnswer: lw.Word.Text,
	}, nil
}

// imageMatch asks which image belongs to the word, among up to five
// same-level distractor images.
func (g *Generator) imageMatch(ctx context.Context, rng *rand.Rand, lw LearnerWord) (Question, error) {
	distractors, err := g.sampler.SampleByLevel(
		ctx, lw.Word.Level, lw.Word.ID, imageDistractors, true)
	if err != nil {
		return Question{}, fmt.Errorf("failed to sample image distractors: %w", err)
	}

	images := make([]ImageOption, 0, len(distractors)+1)
	for _, d := range distractors {
		images = append(images, ImageOption{URL: d.ImageURL, Word: d.Text})
	}
	images = append(images, ImageOption{URL: lw.Word.ImageURL, Word: lw.Word.Text})
	rng.Shuffle(len(images), func(i, j int) {
		images[i], images[j] = images[j], images[i]
	})

	return Question{
		ID:            lw.State.ID,
		Type:          "word_to_image",
		Word:          lw.Word.Text,
		Images:        images,
		CorrectAnswer: lw.Word.ImageURL,
	}, nil
}

// listening plays the word's audio; the learner answers with the word.
func listening(lw LearnerWord) Question {
	return Question{
		ID:            lw.State.ID,
		Type:          "listening",
		Word:          lw.Word.Text,
		AudioURL:      lw.Word.AudioURL,
		Phonetic:      lw.Word.Phonetic,
		CorrectAnswer: lw.Word.Text,
	}
}

// writing shows definition, image, and example; the learner types the word
// with a first-letter hint.
func writing(lw LearnerWord) Question {
	return Question{
		ID:              lw.State.ID,
		Type:            "writing",
		Definition:      lw.Word.Definition,
		ImageURL:        lw.Word.ImageURL,
		ExampleSentence: lw.Word.ExampleSentence,
		Hint:            hintFor(lw.Word.Text),
		CorrectAnswer:   lw.Word.Text,
	}
}

// hintFor builds the writing-mode hint: the first letter followed by one
// underscore per remaining letter ("elephant" -> "e_______").
func hintFor(text string) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}
	return string(runes[0]) + strings.Repeat("_", len(runes)-1)
}
