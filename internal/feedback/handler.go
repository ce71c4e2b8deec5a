package feedback

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/learnsphere/question-bank/internal/bank"
	httperrors "github.com/learnsphere/question-bank/pkg/http/errors"
)

// HTTPHandlers provides the feedback response endpoint.
type HTTPHandlers struct {
	service *Service
	logger  zerolog.Logger
}

func NewHTTPHandlers(service *Service, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{
		service: service,
		logger:  logger.With().Str("component", "feedback_http").Logger(),
	}
}

type submitPayload struct {
	QuestionID string  `json:"question_id"`
	LearnerID  string  `json:"learner_id"`
	Text       string  `json:"text,omitempty"`
	OptionID   *string `json:"option_id,omitempty"`
}

// Submit handles POST /v1/feedback-responses
func (h *HTTPHandlers) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}

	questionID, err := uuid.Parse(req.QuestionID)
	if err != nil {
		httperrors.RespondValidationError(w, httperrors.ErrCodeValidationFailed, "invalid question id", "question_id")
		return
	}
	learnerID, err := uuid.Parse(req.LearnerID)
	if err != nil {
		httperrors.RespondValidationError(w, httperrors.ErrCodeValidationFailed, "invalid learner id", "learner_id")
		return
	}

	in := SubmitInput{QuestionID: questionID, LearnerID: learnerID, Text: req.Text}
	if req.OptionID != nil {
		optionID, err := uuid.Parse(*req.OptionID)
		if err != nil {
			httperrors.RespondValidationError(w, httperrors.ErrCodeValidationFailed, "invalid option id", "option_id")
			return
		}
		in.OptionID = &optionID
	}

	id, err := h.service.Submit(r.Context(), in)
	if err != nil {
		h.respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]string{"id": id.String()})
}

func (h *HTTPHandlers) respondError(w http.ResponseWriter, err error) {
	var se *bank.StorageError
	switch {
	case errors.Is(err, ErrQuestionNotFound):
		httperrors.RespondNotFound(w, httperrors.ErrCodeNotFound, "Feedback question not found")
	case errors.Is(err, ErrInvalidResponse):
		httperrors.RespondBadRequest(w, httperrors.ErrCodeValidationFailed, err.Error())
	case errors.As(err, &se):
		h.logger.Error().Err(err).Msg("storage failure")
		httperrors.RespondServiceUnavailable(w, httperrors.ErrCodeStorageUnavailable, "Storage temporarily unavailable")
	default:
		h.logger.Error().Err(err).Msg("feedback submit failed")
		httperrors.RespondInternalError(w, "Internal error")
	}
}
