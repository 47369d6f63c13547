package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vocabloom/vocabloom-api/internal/api/shared"
	"github.com/vocabloom/vocabloom-api/internal/platform/logger"
	"github.com/vocabloom/vocabloom-api/internal/redact"
	"github.com/vocabloom/vocabloom-api/internal/service"
)

// UpdateProgressRequest is the body for recording learner activity.
type UpdateProgressRequest struct {
	QuizCompleted   bool `json:"quiz_completed"`
	ReviewCompleted bool `json:"review_completed"`
}

// ProgressHandler handles learner progress HTTP requests
type ProgressHandler struct {
	progressService service.ProgressService
	logger          *slog.Logger
}

// NewProgressHandler creates a new ProgressHandler
func NewProgressHandler(progressService service.ProgressService, log *slog.Logger) *ProgressHandler {
	if log == nil {
		log = slog.Default()
	}

	return &ProgressHandler{
		progressService: progressService,
		logger:          log.With(slog.String("component", "progress_handler")),
	}
}

// Get handles GET /learners/{learnerID}/progress requests
func (h *ProgressHandler) Get(w http.ResponseWriter, r *http.Request) {
	learnerID := chi.URLParam(r, "learnerID")
	if learnerID == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Learner ID is required")
		return
	}

	stats, err := h.progressService.GetProgress(r.Context(), learnerID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, stats)
}

// Update handles POST /learners/{learnerID}/progress requests
func (h *ProgressHandler) Update(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	learnerID := chi.URLParam(r, "learnerID")
	if learnerID == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Learner ID is required")
		return
	}

	var req UpdateProgressRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format", slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	progress, err := h.progressService.UpdateProgress(
		r.Context(),
		learnerID,
		req.QuizCompleted,
		req.ReviewCompleted,
	)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("updated progress",
		slog.String("learner_id", learnerID),
		slog.Bool("quiz_completed", req.QuizCompleted),
		slog.Bool("review_completed", req.ReviewCompleted))
	shared.RespondWithJSON(w, r, http.StatusOK, progress)
}
