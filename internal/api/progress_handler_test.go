package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vocabloom/vocabloom-api/internal/domain"
	"github.com/vocabloom/vocabloom-api/internal/service"
)

func TestProgressHandlerGet(t *testing.T) {
	learnerID := "learner-1"
	stats := &service.ProgressStatistics{
		Progress: domain.NewLearnerProgress(learnerID),
		WordsByStatus: map[domain.WordStatus]int{
			domain.WordStatusLearning: 2,
			domain.WordStatusMastered: 1,
		},
		WordsByLevel: map[domain.Level]int{domain.LevelB1: 3},
		DueForReview: 2,
	}

	tests := []struct {
		name           string
		learnerID      string
		serviceResult  *service.ProgressStatistics
		serviceError   error
		expectedStatus int
	}{
		{
			name:           "Success",
			learnerID:      learnerID,
			serviceResult:  stats,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Missing Learner ID",
			learnerID:      "",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Service Error",
			learnerID:      learnerID,
			serviceError:   errors.New("database error"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mockService := &mockProgressService{
				getProgressFn: func(ctx context.Context, learnerID string) (*service.ProgressStatistics, error) {
					return tc.serviceResult, tc.serviceError
				},
			}
			handler := NewProgressHandler(mockService, testLogger())

			req := httptest.NewRequest("GET", "/learners/"+tc.learnerID+"/progress", nil)
			req = req.WithContext(withURLParams(req.Context(), map[string]string{"learnerID": tc.learnerID}))

			rr := httptest.NewRecorder()
			handler.Get(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code)

			if tc.expectedStatus == http.StatusOK {
				var response service.ProgressStatistics
				if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
					t.Fatalf("failed to decode response body: %v", err)
				}
				assert.Equal(t, learnerID, response.Progress.LearnerID)
				assert.Equal(t, 2, response.DueForReview)
				assert.Equal(t, 2, response.WordsByStatus[domain.WordStatusLearning])
			}
		})
	}
}

func TestProgressHandlerUpdate(t *testing.T) {
	learnerID := "learner-1"
	progress := domain.NewLearnerProgress(learnerID)
	progress.TotalQuizzes = 4

	tests := []struct {
		name           string
		body           string
		wantQuiz       bool
		wantReview     bool
		serviceError   error
		expectedStatus int
	}{
		{
			name:           "Quiz Completed",
			body:           `{"quiz_completed":true}`,
			wantQuiz:       true,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Review Completed",
			body:           `{"review_completed":true}`,
			wantReview:     true,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Activity Only",
			body:           `{}`,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Malformed JSON",
			body:           `{"quiz`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Service Error",
			body:           `{}`,
			serviceError:   errors.New("database error"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var gotQuiz, gotReview bool
			mockService := &mockProgressService{
				updateProgressFn: func(ctx context.Context, learnerID string, quizCompleted, reviewCompleted bool) (*domain.LearnerProgress, error) {
					gotQuiz, gotReview = quizCompleted, reviewCompleted
					if tc.serviceError != nil {
						return nil, tc.serviceError
					}
					return progress, nil
				},
			}
			handler := NewProgressHandler(mockService, testLogger())

			req := httptest.NewRequest("POST", "/learners/"+learnerID+"/progress", bytes.NewBufferString(tc.body))
			req.Header.Set("Content-Type", "application/json")
			req = req.WithContext(withURLParams(req.Context(), map[string]string{"learnerID": learnerID}))

			rr := httptest.NewRecorder()
			handler.Update(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code)

			if tc.expectedStatus == http.StatusOK {
				assert.Equal(t, tc.wantQuiz, gotQuiz)
				assert.Equal(t, tc.wantReview, gotReview)

				var response domain.LearnerProgress
				if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
					t.Fatalf("failed to decode response body: %v", err)
				}
				assert.Equal(t, learnerID, response.LearnerID)
			}
		})
	}
}
