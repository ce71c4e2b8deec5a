package quiz

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/learnsphere/question-bank/internal/auth"
	httperrors "github.com/learnsphere/question-bank/pkg/http/errors"
)

// HTTPHandlers provides REST endpoints for quizzes.
type HTTPHandlers struct {
	service *Service
	logger  zerolog.Logger
}

func NewHTTPHandlers(service *Service, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{
		service: service,
		logger:  logger.With().Str("component", "quiz_http").Logger(),
	}
}

type quizPayload struct {
	CourseID        string `json:"course_id"`
	TopicID         string `json:"topic_id"`
	Name            string `json:"name"`
	Duration        int    `json:"duration"`
	PassMark        int    `json:"pass_mark"`
	AttemptsAllowed *int   `json:"attempts_allowed"`
}

type quizResponse struct {
	ID              string     `json:"id"`
	CourseID        string     `json:"course_id"`
	TopicID         string     `json:"topic_id"`
	Name            string     `json:"name"`
	Duration        int        `json:"duration"`
	PassMark        int        `json:"pass_mark"`
	AttemptsAllowed *int       `json:"attempts_allowed,omitempty"`
	CreatedBy       string     `json:"created_by"`
	CreatedAt       time.Time  `json:"created_at"`
	ModifiedBy      *string    `json:"modified_by,omitempty"`
	ModifiedAt      *time.Time `json:"modified_at,omitempty"`
}

// Create handles POST /v1/quizzes
func (h *HTTPHandlers) Create(w http.ResponseWriter, r *http.Request) {
	actor := auth.ActorFromContext(r.Context())
	if actor == "" {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeAuthenticationRequired, "Authentication required")
		return
	}

	var req quizPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}
	courseID, err := uuid.Parse(req.CourseID)
	if err != nil {
		httperrors.RespondValidationError(w, httperrors.ErrCodeValidationFailed, "invalid course id", "course_id")
		return
	}
	topicID, err := uuid.Parse(req.TopicID)
	if err != nil {
		httperrors.RespondValidationError(w, httperrors.ErrCodeValidationFailed, "invalid topic id", "topic_id")
		return
	}

	id, err := h.service.Create(r.Context(), CreateInput{
		CourseID:        courseID,
		TopicID:         topicID,
		Name:            req.Name,
		Duration:        req.Duration,
		PassMark:        req.PassMark,
		AttemptsAllowed: req.AttemptsAllowed,
		Actor:           actor,
	})
	if err != nil {
		h.respondError(w, err, "create quiz")
		return
	}
	h.respondJSON(w, http.StatusCreated, map[string]string{"id": id.String()})
}

// Update handles PUT /v1/quizzes/{quizID}
func (h *HTTPHandlers) Update(w http.ResponseWriter, r *http.Request) {
	actor := auth.ActorFromContext(r.Context())
	if actor == "" {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeAuthenticationRequired, "Authentication required")
		return
	}

	id, err := uuid.Parse(r.PathValue("quizID"))
	if err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid quiz id")
		return
	}
	var req quizPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}

	err = h.service.Update(r.Context(), id, UpdateInput{
		Name:            req.Name,
		Duration:        req.Duration,
		PassMark:        req.PassMark,
		AttemptsAllowed: req.AttemptsAllowed,
		Actor:           actor,
	})
	if err != nil {
		h.respondError(w, err, "update quiz")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Delete handles DELETE /v1/quizzes/{quizID}
func (h *HTTPHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	actor := auth.ActorFromContext(r.Context())
	if actor == "" {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeAuthenticationRequired, "Authentication required")
		return
	}

	id, err := uuid.Parse(r.PathValue("quizID"))
	if err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid quiz id")
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.respondError(w, err, "delete quiz")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Get handles GET /v1/quizzes/{quizID}
func (h *HTTPHandlers) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("quizID"))
	if err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid quiz id")
		return
	}
	q, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, err, "get quiz")
		return
	}
	h.respondJSON(w, http.StatusOK, toQuizResponse(q))
}

// List handles GET /v1/quizzes
func (h *HTTPHandlers) List(w http.ResponseWriter, r *http.Request) {
	quizzes, err := h.service.List(r.Context())
	if err != nil {
		h.respondError(w, err, "list quizzes")
		return
	}
	resp := make([]quizResponse, 0, len(quizzes))
	for i := range quizzes {
		resp = append(resp, toQuizResponse(&quizzes[i]))
	}
	h.respondJSON(w, http.StatusOK, resp)
}

func (h *HTTPHandlers) respondError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		httperrors.RespondBadRequest(w, httperrors.ErrCodeValidationFailed, err.Error())
	case errors.Is(err, ErrNotFound):
		httperrors.RespondNotFound(w, httperrors.ErrCodeNotFound, "Quiz not found")
	default:
		h.logger.Error().Err(err).Str("op", op).Msg("quiz operation failed")
		httperrors.RespondInternalError(w, "Internal error")
	}
}

func (h *HTTPHandlers) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error().Err(err).Msg("encode response")
	}
}

func toQuizResponse(q *Quiz) quizResponse {
	return quizResponse{
		ID:              q.ID.String(),
		CourseID:        q.CourseID.String(),
		TopicID:         q.TopicID.String(),
		Name:            q.Name,
		Duration:        q.Duration,
		PassMark:        q.PassMark,
		AttemptsAllowed: q.AttemptsAllowed,
		CreatedBy:       q.CreatedBy,
		CreatedAt:       q.CreatedAt,
		ModifiedBy:      q.ModifiedBy,
		ModifiedAt:      q.ModifiedAt,
	}
}
