package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/vocabloom/vocabloom-api/internal/api/shared"
	"github.com/vocabloom/vocabloom-api/internal/platform/logger"
	"github.com/vocabloom/vocabloom-api/internal/quiz"
	"github.com/vocabloom/vocabloom-api/internal/redact"
	"github.com/vocabloom/vocabloom-api/internal/service"
)

// GenerateQuizRequest is the body for starting a practice session.
type GenerateQuizRequest struct {
	Mode  string `json:"mode"  validate:"required,oneof=quiz images listening writing"`
	Count int    `json:"count" validate:"omitempty,min=1,max=50"`
}

// QuizResponse wraps a generated question set.
type QuizResponse struct {
	Mode      string          `json:"mode"`
	Questions []quiz.Question `json:"questions"`
}

// SubmittedAnswer is one answer in a quiz submission batch.
type SubmittedAnswer struct {
	UserWordID string `json:"user_word_id" validate:"required,uuid"`
	Correct    *bool  `json:"correct"      validate:"required"`
	TimeSpent  int    `json:"time_spent"   validate:"omitempty,min=0"`
	Attempts   int    `json:"attempts"     validate:"omitempty,min=0"`
}

// SubmitQuizRequest is the body for reporting a finished session.
type SubmitQuizRequest struct {
	Answers []SubmittedAnswer `json:"answers" validate:"required,min=1,dive"`
}

// QuizHandler handles practice session HTTP requests
type QuizHandler struct {
	quizService service.QuizService
	logger      *slog.Logger
}

// NewQuizHandler creates a new QuizHandler
func NewQuizHandler(quizService service.QuizService, log *slog.Logger) *QuizHandler {
	if log == nil {
		log = slog.Default()
	}

	return &QuizHandler{
		quizService: quizService,
		logger:      log.With(slog.String("component", "quiz_handler")),
	}
}

// Generate handles POST /learners/{learnerID}/quiz requests
func (h *QuizHandler) Generate(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	learnerID := chi.URLParam(r, "learnerID")
	if learnerID == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Learner ID is required")
		return
	}

	var req GenerateQuizRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format", slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	mode, err := quiz.ParseMode(req.Mode)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid quiz mode")
		return
	}

	questions, err := h.quizService.GenerateQuiz(r.Context(), learnerID, mode, req.Count)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("generated quiz",
		slog.String("learner_id", learnerID),
		slog.String("mode", string(mode)),
		slog.Int("questions", len(questions)))
	shared.RespondWithJSON(w, r, http.StatusOK, QuizResponse{
		Mode:      string(mode),
		Questions: questions,
	})
}

// Submit handles POST /learners/{learnerID}/quiz/submit requests
func (h *QuizHandler) Submit(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	learnerID := chi.URLParam(r, "learnerID")
	if learnerID == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Learner ID is required")
		return
	}

	var req SubmitQuizRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format", slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	answers := make([]service.AnswerSubmission, 0, len(req.Answers))
	for _, a := range req.Answers {
		id, err := uuid.Parse(a.UserWordID)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid user word ID format")
			return
		}
		answers = append(answers, service.AnswerSubmission{
			UserWordID:       id,
			Correct:          *a.Correct,
			TimeSpentSeconds: a.TimeSpent,
			Attempts:         a.Attempts,
		})
	}

	summary, err := h.quizService.SubmitAnswers(r.Context(), learnerID, answers)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("submitted quiz answers",
		slog.String("learner_id", learnerID),
		slog.Int("total", summary.Total),
		slog.Int("correct", summary.Correct))
	shared.RespondWithJSON(w, r, http.StatusOK, summary)
}
