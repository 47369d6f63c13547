package images

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newUnsplashServer(t *testing.T, imageURL string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Client-ID unsplash-key", r.Header.Get("Authorization"))
		assert.Equal(t, "1", r.URL.Query().Get("per_page"))
		assert.Equal(t, "landscape", r.URL.Query().Get("orientation"))

		w.Header().Set("Content-Type", "application/json")
		if imageURL == "" {
			_, _ = w.Write([]byte(`{"results":[]}`))
			return
		}
		_, _ = w.Write([]byte(`{"results":[{"urls":{"regular":"` + imageURL + `"}}]}`))
	}))
}

func newPexelsServer(t *testing.T, imageURL string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "pexels-key", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		if imageURL == "" {
			_, _ = w.Write([]byte(`{"photos":[]}`))
			return
		}
		_, _ = w.Write([]byte(`{"photos":[{"src":{"large":"` + imageURL + `"}}]}`))
	}))
}

func TestFetchImageUnsplashFirst(t *testing.T) {
	t.Parallel()

	unsplash := newUnsplashServer(t, "https://images.example/cat-unsplash.jpg")
	defer unsplash.Close()
	pexels := newPexelsServer(t, "https://images.example/cat-pexels.jpg")
	defer pexels.Close()

	client := NewClientWithURLs(
		Config{UnsplashAccessKey: "unsplash-key", PexelsAPIKey: "pexels-key"},
		unsplash.URL, pexels.URL, nil, nil,
	)

	got := client.FetchImage(context.Background(), " Cat ")
	assert.Equal(t, "https://images.example/cat-unsplash.jpg", got)
}

func TestFetchImageFallsBackToPexels(t *testing.T) {
	t.Parallel()

	unsplash := newUnsplashServer(t, "")
	defer unsplash.Close()
	pexels := newPexelsServer(t, "https://images.example/cat-pexels.jpg")
	defer pexels.Close()

	client := NewClientWithURLs(
		Config{UnsplashAccessKey: "unsplash-key", PexelsAPIKey: "pexels-key"},
		unsplash.URL, pexels.URL, nil, nil,
	)

	got := client.FetchImage(context.Background(), "cat")
	assert.Equal(t, "https://images.example/cat-pexels.jpg", got)
}

func TestFetchImageSkipsUnconfiguredProviders(t *testing.T) {
	t.Parallel()

	pexels := newPexelsServer(t, "https://images.example/dog.jpg")
	defer pexels.Close()

	// No Unsplash key configured: the provider is skipped without a call.
	client := NewClientWithURLs(
		Config{PexelsAPIKey: "pexels-key"},
		"http://127.0.0.1:0", pexels.URL, nil, nil,
	)

	got := client.FetchImage(context.Background(), "dog")
	assert.Equal(t, "https://images.example/dog.jpg", got)
}

func TestFetchImageNoProvidersConfigured(t *testing.T) {
	t.Parallel()

	client := NewClientWithURLs(Config{}, "http://127.0.0.1:0", "http://127.0.0.1:0", nil, nil)

	assert.Equal(t, "", client.FetchImage(context.Background(), "cat"))
}

func TestFetchImageProviderErrorsDegradeToEmpty(t *testing.T) {
	t.Parallel()

	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer failing.Close()

	client := NewClientWithURLs(
		Config{UnsplashAccessKey: "unsplash-key", PexelsAPIKey: "pexels-key"},
		failing.URL, failing.URL, nil, nil,
	)

	assert.Equal(t, "", client.FetchImage(context.Background(), "cat"))
}

func TestFetchImageEmptyQuery(t *testing.T) {
	t.Parallel()

	client := NewClientWithURLs(Config{}, "http://127.0.0.1:0", "http://127.0.0.1:0", nil, nil)

	assert.Equal(t, "", client.FetchImage(context.Background(), "   "))
}
