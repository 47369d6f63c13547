package quiz

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vocabloom/vocabloom-api/internal/domain"
)

// fakeSampler returns canned distractors and records the last request.
type fakeSampler struct {
	words        []*domain.Word
	err          error
	requireImage bool
	limit        int
	excludeID    uuid.UUID
}

func (f *fakeSampler) SampleByLevel(
	_ context.Context,
	_ domain.Level,
	excludeID uuid.UUID,
	limit int,
	requireImage bool,
) ([]*domain.Word, error) {
	f.excludeID = excludeID
	f.limit = limit
	f.requireImage = requireImage
	if f.err != nil {
		return nil, f.err
	}
	if len(f.words) > limit {
		return f.words[:limit], nil
	}
	return f.words, nil
}

func bankWord(text string, imageURL string) *domain.Word {
	return &domain.Word{
		ID:         uuid.New(),
		Text:       text,
		Level:      domain.LevelA1,
		Difficulty: 1,
		Definition: "definition of " + text,
		ImageURL:   imageURL,
	}
}

func trackedWord(text string) LearnerWord {
	w := bankWord(text, "https://img.example/"+text+".jpg")
	w.Phonetic = "/" + text + "/"
	w.AudioURL = "https://audio.example/" + text + ".mp3"
	w.ExampleSentence = "The " + text + " is here."
	return LearnerWord{
		State: &domain.UserWord{ID: uuid.New(), LearnerID: "session-abc", WordID: w.ID},
		Word:  w,
	}
}

func TestGenerateMultipleChoice(t *testing.T) {
	t.Parallel()
	sampler := &fakeSampler{words: []*domain.Word{
		bankWord("dog", ""), bankWord("fish", ""), bankWord("bird", ""),
	}}
	gen := NewGenerator(sampler, nil)
	rng := rand.New(rand.NewSource(7))

	lw := trackedWord("cat")
	questions, err := gen.Generate(context.Background(), rng, []LearnerWord{lw}, ModeMultipleChoice)
	require.NoError(t, err)
	require.Len(t, questions, 1)

	q := questions[0]
	assert.Equal(t, lw.State.ID, q.ID)
	assert.Equal(t, "definition_to_word", q.Type)
	assert.Equal(t, lw.Word.Definition, q.Question)
	assert.Equal(t, "cat", q.CorrectAnswer)
	assert.Equal(t, "/cat/", q.Phonetic)
	assert.Len(t, q.Options, 4)
	assert.Contains(t, q.Options, "cat")

	assert.Equal(t, lw.Word.ID, sampler.excludeID)
	assert.Equal(t, 3, sampler.limit)
	assert.False(t, sampler.requireImage)
}

func TestGenerateMultipleChoiceShortOnDistractors(t *testing.T) {
	t.Parallel()
	sampler := &fakeSampler{words: []*domain.Word{bankWord("dog", "")}}
	gen := NewGenerator(sampler, nil)
	rng := rand.New(rand.NewSource(7))

	questions, err := gen.Generate(
		context.Background(), rng, []LearnerWord{trackedWord("cat")}, ModeMultipleChoice)
	require.NoError(t, err)
	require.Len(t, questions, 1)

	// One distractor available: the question proceeds with two options.
	assert.Len(t, questions[0].Options, 2)
}

func TestGenerateImageMatch(t *testing.T) {
	t.Parallel()
	sampler := &fakeSampler{words: []*domain.Word{
		bankWord("dog", "https://img.example/dog.jpg"),
		bankWord("fish", "https://img.example/fish.jpg"),
	}}
	gen := NewGenerator(sampler, nil)
	rng := rand.New(rand.NewSource(7))

	lw := trackedWord("cat")
	questions, err := gen.Generate(context.Background(), rng, []LearnerWord{lw}, ModeImageMatch)
	require.NoError(t, err)
	require.Len(t, questions, 1)

	q := questions[0]
	assert.Equal(t, "word_to_image", q.Type)
	assert.Equal(t, "cat", q.Word)
	assert.Equal(t, lw.Word.ImageURL, q.CorrectAnswer)
	assert.Len(t, q.Images, 3)
	assert.True(t, sampler.requireImage)
	assert.Equal(t, 5, sampler.limit)

	var found bool
	for _, img := range q.Images {
		if img.URL == lw.Word.ImageURL {
			found = true
		}
	}
	assert.True(t, found, "correct image missing from options")
}

func TestGenerateListening(t *testing.T) {
	t.Parallel()
	gen := NewGenerator(&fakeSampler{}, nil)
	rng := rand.New(rand.NewSource(7))

	lw := trackedWord("cat")
	questions, err := gen.Generate(context.Background(), rng, []LearnerWord{lw}, ModeListening)
	require.NoError(t, err)
	require.Len(t, questions, 1)

	q := questions[0]
	assert.Equal(t, "listening", q.Type)
	assert.Equal(t, lw.Word.AudioURL, q.AudioURL)
	assert.Equal(t, "/cat/", q.Phonetic)
	assert.Equal(t, "cat", q.CorrectAnswer)
}

func TestGenerateWriting(t *testing.T) {
	t.Parallel()
	gen := NewGenerator(&fakeSampler{}, nil)
	rng := rand.New(rand.NewSource(7))

	lw := trackedWord("cat")
	questions, err := gen.Generate(context.Background(), rng, []LearnerWord{lw}, ModeWriting)
	require.NoError(t, err)
	require.Len(t, questions, 1)

	q := questions[0]
	assert.Equal(t, "writing", q.Type)
	assert.Equal(t, lw.Word.Definition, q.Definition)
	assert.Equal(t, lw.Word.ExampleSentence, q.ExampleSentence)
	assert.Equal(t, "c__", q.Hint)
	assert.Equal(t, "cat", q.CorrectAnswer)
}

func TestGenerateSamplerFailure(t *testing.T) {
	t.Parallel()
	samplerErr := errors.New("db down")
	gen := NewGenerator(&fakeSampler{err: samplerErr}, nil)
	rng := rand.New(rand.NewSource(7))

	_, err := gen.Generate(
		context.Background(), rng, []LearnerWord{trackedWord("cat")}, ModeMultipleChoice)
	assert.ErrorIs(t, err, samplerErr)
}

func TestGenerateInvalidMode(t *testing.T) {
	t.Parallel()
	gen := NewGenerator(&fakeSampler{}, nil)
	rng := rand.New(rand.NewSource(7))

	_, err := gen.Generate(
		context.Background(), rng, []LearnerWord{trackedWord("cat")}, Mode("karaoke"))
	assert.ErrorIs(t, err, ErrInvalidMode)
}

func TestParseMode(t *testing.T) {
	t.Parallel()

	mode, err := ParseMode(" Images ")
	require.NoError(t, err)
	assert.Equal(t, ModeImageMatch, mode)

	_, err = ParseMode("charades")
	assert.ErrorIs(t, err, ErrInvalidMode)
}

func TestHintFor(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		text string
		want string
	}{
		{"elephant", "e_______"},
		{"cat", "c__"},
		{"a", "a"},
		{"", ""},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.want, hintFor(tc.text), "text %q", tc.text)
	}
}
