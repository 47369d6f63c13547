package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/vocabloom/vocabloom-api/internal/api/shared"
	"github.com/vocabloom/vocabloom-api/internal/domain"
	"github.com/vocabloom/vocabloom-api/internal/platform/logger"
	"github.com/vocabloom/vocabloom-api/internal/redact"
	"github.com/vocabloom/vocabloom-api/internal/service"
)

// AddUserWordRequest is the body for saving a word to a learner's list.
type AddUserWordRequest struct {
	WordID string `json:"word_id" validate:"required,uuid"`
}

// ReviewRequest is the body for reporting a single review outcome.
type ReviewRequest struct {
	Correct   *bool `json:"correct"    validate:"required"`
	TimeSpent int   `json:"time_spent" validate:"omitempty,min=0"`
	Attempts  int   `json:"attempts"   validate:"omitempty,min=0"`
}

// DueWordResponse is one entry of a learner's due-for-review listing.
type DueWordResponse struct {
	UserWordID   uuid.UUID         `json:"user_word_id"`
	Word         *domain.Word      `json:"word"`
	Status       domain.WordStatus `json:"status"`
	NextReviewAt *time.Time        `json:"next_review_at,omitempty"`
}

// UserWordHandler handles learner word list HTTP requests
type UserWordHandler struct {
	userWordService service.UserWordService
	quizService     service.QuizService
	logger          *slog.Logger
}

// NewUserWordHandler creates a new UserWordHandler
func NewUserWordHandler(
	userWordService service.UserWordService,
	quizService service.QuizService,
	log *slog.Logger,
) *UserWordHandler {
	if log == nil {
		log = slog.Default()
	}

	return &UserWordHandler{
		userWordService: userWordService,
		quizService:     quizService,
		logger:          log.With(slog.String("component", "user_word_handler")),
	}
}

// List handles GET /learners/{learnerID}/words requests
func (h *UserWordHandler) List(w http.ResponseWriter, r *http.Request) {
	learnerID := chi.URLParam(r, "learnerID")
	if learnerID == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Learner ID is required")
		return
	}

	status := domain.WordStatus(r.URL.Query().Get("status"))
	if status != "" && !status.IsValid() {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid word status")
		return
	}

	states, err := h.userWordService.List(r.Context(), learnerID, status)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, states)
}

// Add handles POST /learners/{learnerID}/words requests.
// Saving an already saved word is idempotent and returns the existing
// record with 200 instead of 201.
func (h *UserWordHandler) Add(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	learnerID := chi.URLParam(r, "learnerID")
	if learnerID == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Learner ID is required")
		return
	}

	var req AddUserWordRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format", slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	wordID, err := uuid.Parse(req.WordID)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid word ID format")
		return
	}

	state, created, err := h.userWordService.Add(r.Context(), learnerID, wordID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}

	log.Debug("saved word for learner",
		slog.String("learner_id", learnerID),
		slog.String("word_id", wordID.String()),
		slog.Bool("created", created))
	shared.RespondWithJSON(w, r, status, state)
}

// ListDue handles GET /learners/{learnerID}/words/due requests
func (h *UserWordHandler) ListDue(w http.ResponseWriter, r *http.Request) {
	learnerID := chi.URLParam(r, "learnerID")
	if learnerID == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Learner ID is required")
		return
	}

	limit := queryInt(r, "limit", 0)

	due, err := h.quizService.GetDueWords(r.Context(), learnerID, limit)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	response := make([]DueWordResponse, 0, len(due))
	for _, lw := range due {
		response = append(response, DueWordResponse{
			UserWordID:   lw.State.ID,
			Word:         lw.Word,
			Status:       lw.State.Status,
			NextReviewAt: lw.State.NextReviewAt,
		})
	}

	shared.RespondWithJSON(w, r, http.StatusOK, response)
}

// Review handles PUT /user-words/{id}/review requests
func (h *UserWordHandler) Review(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid user word ID format")
		return
	}

	var req ReviewRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format", slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	state, err := h.quizService.RecordReview(r.Context(), id, *req.Correct, req.TimeSpent, req.Attempts)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("recorded review",
		slog.String("user_word_id", id.String()),
		slog.Bool("correct", *req.Correct),
		slog.String("status", string(state.Status)))
	shared.RespondWithJSON(w, r, http.StatusOK, state)
}

// Remove handles DELETE /user-words/{id} requests
func (h *UserWordHandler) Remove(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid user word ID format")
		return
	}

	if err := h.userWordService.Remove(r.Context(), id); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
