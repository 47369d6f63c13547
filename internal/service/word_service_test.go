package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vocabloom/vocabloom-api/internal/domain"
	"github.com/vocabloom/vocabloom-api/internal/platform/dictionary"
	"github.com/vocabloom/vocabloom-api/internal/service"
	"github.com/vocabloom/vocabloom-api/internal/store"
)

func newWordService(
	t *testing.T,
	words *fakeWordStore,
	dict *fakeDictionary,
	images *fakeImages,
) service.WordService {
	t.Helper()

	var imageClient service.ImageClient
	if images != nil {
		imageClient = images
	}
	svc, err := service.NewWordService(words, dict, imageClient, nil)
	require.NoError(t, err)
	return svc
}

func TestListByLevel(t *testing.T) {
	t.Parallel()

	catalog := newFakeWordStore(
		newTestWord(t, "apple", domain.LevelA1),
		newTestWord(t, "banana", domain.LevelA1),
		newTestWord(t, "cherry", domain.LevelB2),
	)
	svc := newWordService(t, catalog, &fakeDictionary{}, nil)

	words, total, err := svc.ListByLevel(context.Background(), domain.LevelA1, 0, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, words, 2)

	// Page past the end.
	words, total, err = svc.ListByLevel(context.Background(), domain.LevelA1, 0, 5, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Empty(t, words)
}

func TestGetWord(t *testing.T) {
	t.Parallel()

	word := newTestWord(t, "apple", domain.LevelA1)
	svc := newWordService(t, newFakeWordStore(word), &fakeDictionary{}, nil)

	got, err := svc.GetWord(context.Background(), word.ID)
	require.NoError(t, err)
	assert.Equal(t, word.Text, got.Text)

	_, err = svc.GetWord(context.Background(), uuid.New())
	assert.ErrorIs(t, err, store.ErrWordNotFound)
}

func TestFetchWord(t *testing.T) {
	t.Parallel()

	t.Run("existing word returned without dictionary call", func(t *testing.T) {
		word := newTestWord(t, "apple", domain.LevelA1)
		dict := &fakeDictionary{err: errors.New("must not be called")}
		svc := newWordService(t, newFakeWordStore(word), dict, nil)

		got, created, err := svc.FetchWord(context.Background(), " Apple ", domain.LevelA1, 0)
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, word.ID, got.ID)
	})

	t.Run("ingests new word with enrichment", func(t *testing.T) {
		dict := &fakeDictionary{data: map[string]*dictionary.WordData{
			"serendipity": {
				Word:            "serendipity",
				Phonetic:        "/ˌsɛɹ.ənˈdɪp.ɪ.ti/",
				AudioURL:        "https://audio.example/serendipity.mp3",
				Definition:      "an unsought, unexpected fortunate discovery",
				ExampleSentence: "Pure serendipity led them here.",
				Synonyms:        []string{"luck", "chance"},
				Difficulty:      5,
			},
		}}
		images := &fakeImages{url: "https://images.example/serendipity.jpg"}
		catalog := newFakeWordStore()
		svc := newWordService(t, catalog, dict, images)

		word, created, err := svc.FetchWord(
			context.Background(), "Serendipity", domain.LevelC1, 0)
		require.NoError(t, err)
		assert.True(t, created)

		assert.Equal(t, "serendipity", word.Text)
		assert.Equal(t, domain.LevelC1, word.Level)
		// Difficulty defaults to the length-derived value.
		assert.Equal(t, 5, word.Difficulty)
		assert.Equal(t, "https://audio.example/serendipity.mp3", word.AudioURL)
		assert.Equal(t, "https://images.example/serendipity.jpg", word.ImageURL)
		assert.Equal(t, 1, images.calls)

		// Persisted in the catalog.
		stored, err := catalog.GetByText(context.Background(), "serendipity")
		require.NoError(t, err)
		assert.Equal(t, word.ID, stored.ID)
	})

	t.Run("explicit difficulty wins", func(t *testing.T) {
		dict := &fakeDictionary{data: map[string]*dictionary.WordData{
			"cat": {Word: "cat", Definition: "a small domesticated felid", Difficulty: 1},
		}}
		svc := newWordService(t, newFakeWordStore(), dict, nil)

		word, _, err := svc.FetchWord(context.Background(), "cat", domain.LevelA1, 3)
		require.NoError(t, err)
		assert.Equal(t, 3, word.Difficulty)
	})

	t.Run("unknown word", func(t *testing.T) {
		svc := newWordService(t, newFakeWordStore(), &fakeDictionary{}, nil)

		_, _, err := svc.FetchWord(context.Background(), "zzzzxq", domain.LevelA1, 0)
		assert.ErrorIs(t, err, service.ErrWordDataUnavailable)
	})

	t.Run("entry without definition is declined", func(t *testing.T) {
		dict := &fakeDictionary{data: map[string]*dictionary.WordData{
			"hmm": {Word: "hmm", Definition: "  "},
		}}
		svc := newWordService(t, newFakeWordStore(), dict, nil)

		_, _, err := svc.FetchWord(context.Background(), "hmm", domain.LevelA1, 0)
		assert.ErrorIs(t, err, service.ErrWordDataUnavailable)
	})

	t.Run("duplicate race falls back to existing", func(t *testing.T) {
		existing := newTestWord(t, "cat", domain.LevelA1)
		catalog := newFakeWordStore(existing)
		// Simulate the word appearing between the existence check and the
		// insert: the check misses, the insert hits the unique constraint.
		catalog.getByTextMisses = 1
		catalog.failCreate = store.ErrWordExists
		dict := &fakeDictionary{data: map[string]*dictionary.WordData{
			"cat": {Word: "cat", Definition: "a small domesticated felid", Difficulty: 1},
		}}
		svc := newWordService(t, catalog, dict, nil)

		word, created, err := svc.FetchWord(context.Background(), "cat", domain.LevelA1, 0)
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, existing.ID, word.ID)
	})
}
