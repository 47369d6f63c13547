// Package images resolves an illustrative photo URL for a word. It tries
// Unsplash first and falls back to Pexels; both providers are optional,
// and when neither is configured or both fail the lookup degrades to an
// empty URL so word creation never blocks on imagery.
package images

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/vocabloom/vocabloom-api/internal/platform/logger"
	"github.com/vocabloom/vocabloom-api/internal/platform/rediscache"
	"github.com/vocabloom/vocabloom-api/internal/redact"
)

const (
	unsplashAPIURL = "https://api.unsplash.com/search/photos"
	pexelsAPIURL   = "https://api.pexels.com/v1/search"

	// requestTimeout bounds a single provider call.
	requestTimeout = 10 * time.Second

	// cacheTTL is 7 days, matching the dictionary cache policy.
	cacheTTL = 7 * 24 * time.Hour
)

// Config carries the optional provider credentials.
type Config struct {
	UnsplashAccessKey string
	PexelsAPIKey      string
}

// Client queries image providers with response caching.
type Client struct {
	httpClient  *http.Client
	unsplashURL string
	pexelsURL   string
	config      Config
	cache       *rediscache.Cache
	logger      *slog.Logger
}

// NewClient creates an image client. A nil cache disables caching;
// a nil logger falls back to the default.
func NewClient(config Config, cache *rediscache.Cache, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		httpClient:  &http.Client{Timeout: requestTimeout},
		unsplashURL: unsplashAPIURL,
		pexelsURL:   pexelsAPIURL,
		config:      config,
		cache:       cache,
		logger:      log.With(slog.String("component", "images_client")),
	}
}

// NewClientWithURLs creates an image client against custom provider
// endpoints. Used by tests to point at local servers.
func NewClientWithURLs(
	config Config,
	unsplashURL, pexelsURL string,
	cache *rediscache.Cache,
	log *slog.Logger,
) *Client {
	c := NewClient(config, cache, log)
	c.unsplashURL = unsplashURL
	c.pexelsURL = pexelsURL
	return c
}

// FetchImage returns an image URL for the query, or "" when no provider
// produced one. Provider failures are logged, never surfaced.
func (c *Client) FetchImage(ctx context.Context, query string) string {
	log := logger.FromContextOrDefault(ctx, c.logger)

	normalized := strings.ToLower(strings.TrimSpace(query))
	if normalized == "" {
		return ""
	}

	cacheKey := "image_" + normalized
	if payload, ok := c.cache.Get(ctx, cacheKey); ok {
		log.Debug("image cache hit", slog.String("query", normalized))
		return string(payload)
	}

	imageURL := c.fetchFromUnsplash(ctx, normalized)
	if imageURL == "" {
		imageURL = c.fetchFromPexels(ctx, normalized)
	}

	// Negative results are cached too, so a word without imagery does not
	// hammer the providers on every enrichment attempt.
	c.cache.Set(ctx, cacheKey, []byte(imageURL), cacheTTL)

	return imageURL
}

func (c *Client) fetchFromUnsplash(ctx context.Context, query string) string {
	if c.config.UnsplashAccessKey == "" {
		return ""
	}

	log := logger.FromContextOrDefault(ctx, c.logger)

	var payload struct {
		Results []struct {
			URLs struct {
				Regular string `json:"regular"`
			} `json:"urls"`
		} `json:"results"`
	}

	header := http.Header{}
	header.Set("Authorization", "Client-ID "+c.config.UnsplashAccessKey)

	if err := c.search(ctx, c.unsplashURL, header, query, &payload); err != nil {
		log.Warn("unsplash lookup failed",
			slog.String("query", query),
			slog.String("error", redact.Error(err)))
		return ""
	}

	if len(payload.Results) == 0 {
		return ""
	}
	return payload.Results[0].URLs.Regular
}

func (c *Client) fetchFromPexels(ctx context.Context, query string) string {
	if c.config.PexelsAPIKey == "" {
		return ""
	}

	log := logger.FromContextOrDefault(ctx, c.logger)

	var payload struct {
		Photos []struct {
			Src struct {
				Large string `json:"large"`
			} `json:"src"`
		} `json:"photos"`
	}

	header := http.Header{}
	header.Set("Authorization", c.config.PexelsAPIKey)

	if err := c.search(ctx, c.pexelsURL, header, query, &payload); err != nil {
		log.Warn("pexels lookup failed",
			slog.String("query", query),
			slog.String("error", redact.Error(err)))
		return ""
	}

	if len(payload.Photos) == 0 {
		return ""
	}
	return payload.Photos[0].Src.Large
}

// search performs one provider query for a single landscape result and
// decodes the response into out.
func (c *Client) search(
	ctx context.Context,
	endpoint string,
	header http.Header,
	query string,
	out interface{},
) error {
	params := url.Values{}
	params.Set("query", query)
	params.Set("per_page", "1")
	params.Set("orientation", "landscape")

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		endpoint+"?"+params.Encode(),
		nil,
	)
	if err != nil {
		return err
	}
	for key, values := range header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return &statusError{status: resp.StatusCode}
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

type statusError struct {
	status int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("provider returned status %d", e.status)
}
