// Package dictionary fetches word definitions from the free Dictionary API
// (api.dictionaryapi.dev). Responses are cached aggressively because the
// upstream data for a word almost never changes.
package dictionary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/vocabloom/vocabloom-api/internal/domain"
	"github.com/vocabloom/vocabloom-api/internal/platform/logger"
	"github.com/vocabloom/vocabloom-api/internal/platform/rediscache"
	"github.com/vocabloom/vocabloom-api/internal/redact"
)

const (
	defaultBaseURL = "https://api.dictionaryapi.dev/api/v2/entries/en/"

	// requestTimeout bounds a single upstream call.
	requestTimeout = 10 * time.Second

	// cacheTTL is 7 days. Aggressive caching to minimize upstream calls.
	cacheTTL = 7 * 24 * time.Hour

	// maxSynonyms caps the synonyms carried onto a word entry.
	maxSynonyms = 5
)

// ErrWordNotFound is returned when the dictionary has no entry for a word.
var ErrWordNotFound = errors.New("word not found in dictionary")

// WordData is the normalized dictionary payload for one word.
type WordData struct {
	Word            string           `json:"word"`
	Phonetic        string           `json:"phonetic"`
	AudioURL        string           `json:"audio_url"`
	Definition      string           `json:"definition"`
	ExampleSentence string           `json:"example_sentence"`
	Meanings        []domain.Meaning `json:"meanings"`
	Synonyms        []string         `json:"synonyms"`
	Difficulty      int              `json:"difficulty"`
}

// apiEntry mirrors the upstream response shape for one dictionary entry.
type apiEntry struct {
	Word      string `json:"word"`
	Phonetic  string `json:"phonetic"`
	Phonetics []struct {
		Text  string `json:"text"`
		Audio string `json:"audio"`
	} `json:"phonetics"`
	Meanings []struct {
		PartOfSpeech string `json:"partOfSpeech"`
		Definitions  []struct {
			Definition string `json:"definition"`
			Example    string `json:"example"`
		} `json:"definitions"`
		Synonyms []string `json:"synonyms"`
		Antonyms []string `json:"antonyms"`
	} `json:"meanings"`
}

// Client calls the Dictionary API with response caching.
type Client struct {
	httpClient *http.Client
	baseURL    string
	cache      *rediscache.Cache
	logger     *slog.Logger
}

// NewClient creates a dictionary client. A nil cache disables caching;
// a nil logger falls back to the default.
func NewClient(cache *rediscache.Cache, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		baseURL:    defaultBaseURL,
		cache:      cache,
		logger:     log.With(slog.String("component", "dictionary_client")),
	}
}

// NewClientWithBaseURL creates a dictionary client against a custom endpoint.
// Used by tests to point at a local server.
func NewClientWithBaseURL(baseURL string, cache *rediscache.Cache, log *slog.Logger) *Client {
	c := NewClient(cache, log)
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	c.baseURL = baseURL
	return c
}

// Fetch retrieves the dictionary entry for word.
// Returns ErrWordNotFound when the upstream has no entry.
func (c *Client) Fetch(ctx context.Context, word string) (*WordData, error) {
	log := logger.FromContextOrDefault(ctx, c.logger)

	normalized := strings.ToLower(strings.TrimSpace(word))
	if normalized == "" {
		return nil, ErrWordNotFound
	}

	cacheKey := "word_data_" + normalized
	if payload, ok := c.cache.Get(ctx, cacheKey); ok {
		var data WordData
		if err := json.Unmarshal(payload, &data); err == nil {
			log.Debug("dictionary cache hit", slog.String("word", normalized))
			return &data, nil
		}
		log.Warn("discarding corrupt dictionary cache entry",
			slog.String("word", normalized))
	}

	data, err := c.fetch(ctx, normalized)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(data); err == nil {
		c.cache.Set(ctx, cacheKey, payload, cacheTTL)
	}

	return data, nil
}

func (c *Client) fetch(ctx context.Context, word string) (*WordData, error) {
	log := logger.FromContextOrDefault(ctx, c.logger)

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		c.baseURL+url.PathEscape(word),
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build dictionary request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error("dictionary request failed",
			slog.String("word", word),
			slog.String("error", redact.Error(err)))
		return nil, fmt.Errorf("dictionary request failed: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusNotFound {
		log.Debug("word not found in dictionary", slog.String("word", word))
		return nil, ErrWordNotFound
	}
	if resp.StatusCode != http.StatusOK {
		log.Warn("dictionary returned unexpected status",
			slog.String("word", word),
			slog.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("dictionary returned status %d", resp.StatusCode)
	}

	var entries []apiEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to decode dictionary response: %w", err)
	}
	if len(entries) == 0 {
		return nil, ErrWordNotFound
	}

	return parseEntry(entries[0]), nil
}

// parseEntry normalizes an upstream entry: the headline definition and
// example come from the first sense, the audio URL from the first phonetic
// carrying one, and synonyms are capped and deduplicated.
func parseEntry(entry apiEntry) *WordData {
	data := &WordData{
		Word:       strings.ToLower(entry.Word),
		Phonetic:   entry.Phonetic,
		Difficulty: domain.DifficultyForText(entry.Word),
	}

	if len(entry.Meanings) > 0 {
		first := entry.Meanings[0]
		if len(first.Definitions) > 0 {
			data.Definition = first.Definitions[0].Definition
			data.ExampleSentence = first.Definitions[0].Example
		}
	}

	for _, p := range entry.Phonetics {
		if p.Audio != "" {
			data.AudioURL = p.Audio
			if data.Phonetic == "" && p.Text != "" {
				data.Phonetic = p.Text
			}
			break
		}
	}

	var synonyms []string
	for _, m := range entry.Meanings {
		meaning := domain.Meaning{
			PartOfSpeech: m.PartOfSpeech,
			Synonyms:     m.Synonyms,
			Antonyms:     m.Antonyms,
		}
		for _, d := range m.Definitions {
			meaning.Definitions = append(meaning.Definitions, d.Definition)
		}
		data.Meanings = append(data.Meanings, meaning)

		synonyms = append(synonyms, m.Synonyms...)
	}

	if len(synonyms) > maxSynonyms {
		synonyms = synonyms[:maxSynonyms]
	}
	data.Synonyms = dedupe(synonyms)

	return data
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	var out []string
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
