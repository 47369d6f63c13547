// Package api provides HTTP handlers for the API.
package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/vocabloom/vocabloom-api/internal/api/shared"
	"github.com/vocabloom/vocabloom-api/internal/domain"
	"github.com/vocabloom/vocabloom-api/internal/platform/logger"
	"github.com/vocabloom/vocabloom-api/internal/redact"
	"github.com/vocabloom/vocabloom-api/internal/service"
)

// WordListResponse is the paged payload for word catalog listings.
type WordListResponse struct {
	Words   []*domain.Word `json:"words"`
	Total   int            `json:"total"`
	Page    int            `json:"page"`
	PerPage int            `json:"per_page"`
}

// FetchWordRequest is the body for on-demand word ingestion.
type FetchWordRequest struct {
	Word       string `json:"word"       validate:"required,min=1,max=64"`
	Level      string `json:"level"      validate:"required"`
	Difficulty int    `json:"difficulty" validate:"omitempty,min=1,max=5"`
}

// WordHandler handles word catalog HTTP requests
type WordHandler struct {
	wordService service.WordService
	logger      *slog.Logger
}

// NewWordHandler creates a new WordHandler
func NewWordHandler(wordService service.WordService, log *slog.Logger) *WordHandler {
	if log == nil {
		log = slog.Default()
	}

	return &WordHandler{
		wordService: wordService,
		logger:      log.With(slog.String("component", "word_handler")),
	}
}

// ListByLevel handles GET /words/level/{level} requests
func (h *WordHandler) ListByLevel(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	level, err := domain.ParseLevel(chi.URLParam(r, "level"))
	if err != nil {
		log.Warn("invalid level in URL path", slog.String("level", chi.URLParam(r, "level")))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid proficiency level")
		return
	}

	difficulty := queryInt(r, "difficulty", 0)
	if difficulty < 0 || difficulty > 5 {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Difficulty must be between 1 and 5")
		return
	}
	page := queryInt(r, "page", 1)
	perPage := queryInt(r, "per_page", 20)

	words, total, err := h.wordService.ListByLevel(r.Context(), level, difficulty, page, perPage)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}

	log.Debug("listed words by level",
		slog.String("level", string(level)),
		slog.Int("total", total),
		slog.Int("page", page))
	shared.RespondWithJSON(w, r, http.StatusOK, WordListResponse{
		Words:   words,
		Total:   total,
		Page:    page,
		PerPage: perPage,
	})
}

// Random handles GET /words/random requests
func (h *WordHandler) Random(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	level, err := domain.ParseLevel(r.URL.Query().Get("level"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid proficiency level")
		return
	}

	count := queryInt(r, "count", 10)
	if count < 1 || count > 50 {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Count must be between 1 and 50")
		return
	}

	words, err := h.wordService.RandomWords(r.Context(), level, count)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("sampled random words",
		slog.String("level", string(level)),
		slog.Int("count", len(words)))
	shared.RespondWithJSON(w, r, http.StatusOK, words)
}

// Get handles GET /words/{id} requests
func (h *WordHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid word ID format")
		return
	}

	word, err := h.wordService.GetWord(r.Context(), id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, word)
}

// Fetch handles POST /words/fetch requests.
// It returns the existing catalog entry when the word is already known,
// otherwise it ingests the word from the dictionary provider.
func (h *WordHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req FetchWordRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format", slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.Validate.Struct(req); err != nil {
		log.Warn("validation error", slog.String("error", redact.Error(err)))
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	level, err := domain.ParseLevel(req.Level)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid proficiency level")
		return
	}

	word, created, err := h.wordService.FetchWord(r.Context(), req.Word, level, req.Difficulty)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}

	log.Debug("fetched word",
		slog.String("word", word.Text),
		slog.Bool("created", created))
	shared.RespondWithJSON(w, r, status, word)
}

// queryInt reads an integer query parameter, returning def when the
// parameter is absent or unparseable.
func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}
