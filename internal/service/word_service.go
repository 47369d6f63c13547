package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/vocabloom/vocabloom-api/internal/domain"
	"github.com/vocabloom/vocabloom-api/internal/platform/dictionary"
	"github.com/vocabloom/vocabloom-api/internal/platform/logger"
	"github.com/vocabloom/vocabloom-api/internal/store"
)

// DictionaryClient fetches dictionary data for a word.
// Implemented by the dictionary platform client.
type DictionaryClient interface {
	Fetch(ctx context.Context, word string) (*dictionary.WordData, error)
}

// ImageClient resolves an illustrative image URL for a query, returning
// "" when no provider produced one. Implemented by the images platform
// client.
type ImageClient interface {
	FetchImage(ctx context.Context, query string) string
}

// WordService provides word catalog operations, including on-demand
// ingestion of new words from the external dictionary.
type WordService interface {
	// ListByLevel pages words of a level, optionally filtered by
	// difficulty (0 means no filter). Returns the page and the total
	// match count.
	ListByLevel(
		ctx context.Context,
		level domain.Level,
		difficulty, page, perPage int,
	) ([]*domain.Word, int, error)

	// GetWord retrieves a single word by ID.
	// Returns store.ErrWordNotFound if it does not exist.
	GetWord(ctx context.Context, id uuid.UUID) (*domain.Word, error)

	// RandomWords samples up to count random words of a level.
	RandomWords(ctx context.Context, level domain.Level, count int) ([]*domain.Word, error)

	// FetchWord returns the word with the given text, ingesting it from
	// the dictionary (with image enrichment) when the catalog lacks it.
	// The bool result reports whether a new word was created.
	// Returns ErrWordDataUnavailable when the dictionary has no usable
	// entry. difficulty <= 0 derives the difficulty from word length.
	FetchWord(
		ctx context.Context,
		text string,
		level domain.Level,
		difficulty int,
	) (*domain.Word, bool, error)
}

// wordServiceImpl implements the WordService interface.
type wordServiceImpl struct {
	wordStore  store.WordStore
	dictionary DictionaryClient
	images     ImageClient
	logger     *slog.Logger
}

// NewWordService creates a new WordService.
// It returns an error if any of the required dependencies are nil.
// images may be nil when no image provider is configured.
func NewWordService(
	wordStore store.WordStore,
	dictionaryClient DictionaryClient,
	imageClient ImageClient,
	log *slog.Logger,
) (WordService, error) {
	if wordStore == nil {
		return nil, domain.NewValidationError("wordStore", "cannot be nil", domain.ErrValidation)
	}
	if dictionaryClient == nil {
		return nil, domain.NewValidationError("dictionaryClient", "cannot be nil", domain.ErrValidation)
	}
	if log == nil {
		log = slog.Default()
	}

	return &wordServiceImpl{
		wordStore:  wordStore,
		dictionary: dictionaryClient,
		images:     imageClient,
		logger:     log.With(slog.String("component", "word_service")),
	}, nil
}

// ListByLevel implements WordService.ListByLevel
func (s *wordServiceImpl) ListByLevel(
	ctx context.Context,
	level domain.Level,
	difficulty, page, perPage int,
) ([]*domain.Word, int, error) {
	if page < 1 {
		page = 1
	}

	words, total, err := s.wordStore.List(ctx, store.ListWordsQuery{
		Level:      level,
		Difficulty: difficulty,
		Offset:     (page - 1) * perPage,
		Limit:      perPage,
	})
	if err != nil {
		return nil, 0, NewServiceError("list_words", "failed to list words", err)
	}

	return words, total, nil
}

// GetWord implements WordService.GetWord
func (s *wordServiceImpl) GetWord(ctx context.Context, id uuid.UUID) (*domain.Word, error) {
	word, err := s.wordStore.GetByID(ctx, id)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, err
		}
		return nil, NewServiceError("get_word", "failed to get word", err)
	}
	return word, nil
}

// RandomWords implements WordService.RandomWords
func (s *wordServiceImpl) RandomWords(
	ctx context.Context,
	level domain.Level,
	count int,
) ([]*domain.Word, error) {
	words, err := s.wordStore.Random(ctx, level, count)
	if err != nil {
		return nil, NewServiceError("random_words", "failed to sample words", err)
	}
	return words, nil
}

// FetchWord implements WordService.FetchWord
// The flow mirrors the ingestion pipeline: existing catalog entry wins,
// then dictionary data is mandatory while the image lookup is best-effort.
func (s *wordServiceImpl) FetchWord(
	ctx context.Context,
	text string,
	level domain.Level,
	difficulty int,
) (*domain.Word, bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	normalized := strings.ToLower(strings.TrimSpace(text))

	existing, err := s.wordStore.GetByText(ctx, normalized)
	if err == nil {
		return existing, false, nil
	}
	if !store.IsNotFoundError(err) {
		return nil, false, NewServiceError("fetch_word", "failed to check catalog", err)
	}

	data, err := s.dictionary.Fetch(ctx, normalized)
	if err != nil {
		if errors.Is(err, dictionary.ErrWordNotFound) {
			return nil, false, ErrWordDataUnavailable
		}
		return nil, false, NewServiceError("fetch_word", "dictionary lookup failed", err)
	}
	if strings.TrimSpace(data.Definition) == "" {
		// An entry without a definition cannot drive quizzes.
		return nil, false, ErrWordDataUnavailable
	}

	if difficulty <= 0 {
		difficulty = data.Difficulty
	}

	word, err := domain.NewWord(normalized, level, difficulty, data.Definition)
	if err != nil {
		return nil, false, err
	}
	word.Phonetic = data.Phonetic
	word.AudioURL = data.AudioURL
	word.ExampleSentence = data.ExampleSentence
	word.Meanings = data.Meanings
	word.Synonyms = data.Synonyms
	if s.images != nil {
		word.ImageURL = s.images.FetchImage(ctx, normalized)
	}

	if err := s.wordStore.Create(ctx, word); err != nil {
		if store.IsDuplicateError(err) {
			// Lost a race with a concurrent ingestion of the same text.
			existing, getErr := s.wordStore.GetByText(ctx, normalized)
			if getErr == nil {
				return existing, false, nil
			}
		}
		return nil, false, NewServiceError("fetch_word", "failed to save word", err)
	}

	log.Info("word ingested",
		slog.String("word_id", word.ID.String()),
		slog.String("text", word.Text),
		slog.String("level", string(word.Level)),
		slog.Bool("has_image", word.ImageURL != ""))
	return word, true, nil
}
