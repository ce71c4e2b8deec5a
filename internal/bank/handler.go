package bank

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/learnsphere/question-bank/internal/auth"
	httperrors "github.com/learnsphere/question-bank/pkg/http/errors"
)

// Bank is the operation surface the HTTP layer consumes; implemented by
// Service and CachedBank.
type Bank interface {
	AddQuestion(ctx context.Context, scope Scope, in AddQuestionInput) (uuid.UUID, error)
	UpdateQuestion(ctx context.Context, id uuid.UUID, in UpdateQuestionInput) error
	DeleteQuestion(ctx context.Context, id uuid.UUID) error
	GetQuestion(ctx context.Context, id uuid.UUID) (*Question, error)
	ListQuestions(ctx context.Context, scope Scope) ([]Question, error)
}

// HTTPHandlers provides REST endpoints for question banks.
type HTTPHandlers struct {
	bank     Bank
	importer *Importer
	logger   zerolog.Logger
}

func NewHTTPHandlers(bank Bank, importer *Importer, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{
		bank:     bank,
		importer: importer,
		logger:   logger.With().Str("component", "bank_http").Logger(),
	}
}

type optionPayload struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct,omitempty"`
}

type questionPayload struct {
	Body    string          `json:"body"`
	Type    string          `json:"type"`
	Options []optionPayload `json:"options"`
}

type questionResponse struct {
	ID         string           `json:"id"`
	ParentID   string           `json:"parent_id"`
	Bank       string           `json:"bank"`
	SequenceNo int              `json:"sequence_no"`
	Body       string           `json:"body"`
	Type       string           `json:"type"`
	Options    []optionResponse `json:"options"`
	CreatedBy  string           `json:"created_by"`
	CreatedAt  time.Time        `json:"created_at"`
	ModifiedBy *string          `json:"modified_by,omitempty"`
	ModifiedAt *time.Time       `json:"modified_at,omitempty"`
}

type optionResponse struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct,omitempty"`
}

// CreateQuizQuestion handles POST /v1/quizzes/{quizID}/questions
func (h *HTTPHandlers) CreateQuizQuestion(w http.ResponseWriter, r *http.Request) {
	h.createQuestion(w, r, KindQuiz, r.PathValue("quizID"))
}

// CreateQuizFeedbackQuestion handles POST /v1/quizzes/{quizID}/feedback-questions
func (h *HTTPHandlers) CreateQuizFeedbackQuestion(w http.ResponseWriter, r *http.Request) {
	h.createQuestion(w, r, KindQuizFeedback, r.PathValue("quizID"))
}

// CreateTopicFeedbackQuestion handles POST /v1/topics/{topicID}/feedback-questions
func (h *HTTPHandlers) CreateTopicFeedbackQuestion(w http.ResponseWriter, r *http.Request) {
	h.createQuestion(w, r, KindTopicFeedback, r.PathValue("topicID"))
}

func (h *HTTPHandlers) createQuestion(w http.ResponseWriter, r *http.Request, kind Kind, rawParent string) {
	actor := auth.ActorFromContext(r.Context())
	if actor == "" {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeAuthenticationRequired, "Authentication required")
		return
	}

	parentID, err := uuid.Parse(rawParent)
	if err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid parent id")
		return
	}

	var req questionPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}

	scope := Scope{Kind: kind, ParentID: parentID}
	id, err := h.bank.AddQuestion(r.Context(), scope, AddQuestionInput{
		Body:    req.Body,
		Type:    req.Type,
		Options: toOptionInputs(req.Options),
		Actor:   actor,
	})
	if err != nil {
		h.respondOpError(w, err, "add question")
		return
	}

	h.respondJSON(w, http.StatusCreated, map[string]string{"id": id.String()})
}

// ListQuizQuestions handles GET /v1/quizzes/{quizID}/questions
func (h *HTTPHandlers) ListQuizQuestions(w http.ResponseWriter, r *http.Request) {
	h.listQuestions(w, r, KindQuiz, r.PathValue("quizID"))
}

// ListQuizFeedbackQuestions handles GET /v1/quizzes/{quizID}/feedback-questions
func (h *HTTPHandlers) ListQuizFeedbackQuestions(w http.ResponseWriter, r *http.Request) {
	h.listQuestions(w, r, KindQuizFeedback, r.PathValue("quizID"))
}

// ListTopicFeedbackQuestions handles GET /v1/topics/{topicID}/feedback-questions
func (h *HTTPHandlers) ListTopicFeedbackQuestions(w http.ResponseWriter, r *http.Request) {
	h.listQuestions(w, r, KindTopicFeedback, r.PathValue("topicID"))
}

func (h *HTTPHandlers) listQuestions(w http.ResponseWriter, r *http.Request, kind Kind, rawParent string) {
	parentID, err := uuid.Parse(rawParent)
	if err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid parent id")
		return
	}

	questions, err := h.bank.ListQuestions(r.Context(), Scope{Kind: kind, ParentID: parentID})
	if err != nil {
		h.respondOpError(w, err, "list questions")
		return
	}

	resp := make([]questionResponse, 0, len(questions))
	for i := range questions {
		resp = append(resp, toQuestionResponse(&questions[i]))
	}
	h.respondJSON(w, http.StatusOK, resp)
}

// GetQuestion handles GET /v1/questions/{questionID}
func (h *HTTPHandlers) GetQuestion(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("questionID"))
	if err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid question id")
		return
	}

	q, err := h.bank.GetQuestion(r.Context(), id)
	if err != nil {
		h.respondOpError(w, err, "get question")
		return
	}
	h.respondJSON(w, http.StatusOK, toQuestionResponse(q))
}

// UpdateQuestion handles PUT /v1/questions/{questionID}
func (h *HTTPHandlers) UpdateQuestion(w http.ResponseWriter, r *http.Request) {
	actor := auth.ActorFromContext(r.Context())
	if actor == "" {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeAuthenticationRequired, "Authentication required")
		return
	}

	id, err := uuid.Parse(r.PathValue("questionID"))
	if err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid question id")
		return
	}

	var req questionPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}

	err = h.bank.UpdateQuestion(r.Context(), id, UpdateQuestionInput{
		Body:    req.Body,
		Type:    req.Type,
		Options: toOptionInputs(req.Options),
		Actor:   actor,
	})
	if err != nil {
		h.respondOpError(w, err, "update question")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteQuestion handles DELETE /v1/questions/{questionID}
func (h *HTTPHandlers) DeleteQuestion(w http.ResponseWriter, r *http.Request) {
	actor := auth.ActorFromContext(r.Context())
	if actor == "" {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeAuthenticationRequired, "Authentication required")
		return
	}

	id, err := uuid.Parse(r.PathValue("questionID"))
	if err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid question id")
		return
	}

	if err := h.bank.DeleteQuestion(r.Context(), id); err != nil {
		h.respondOpError(w, err, "delete question")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ImportQuizQuestions handles POST /v1/quizzes/{quizID}/questions/import
func (h *HTTPHandlers) ImportQuizQuestions(w http.ResponseWriter, r *http.Request) {
	actor := auth.ActorFromContext(r.Context())
	if actor == "" {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeAuthenticationRequired, "Authentication required")
		return
	}

	quizID, err := uuid.Parse(r.PathValue("quizID"))
	if err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid quiz id")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Missing file upload")
		return
	}
	defer file.Close()

	scope := Scope{Kind: KindQuiz, ParentID: quizID}
	report, err := h.importer.Import(r.Context(), scope, actor, file)
	if err != nil {
		var se *StorageError
		if errors.As(err, &se) {
			h.respondOpError(w, err, "import questions")
			return
		}
		httperrors.RespondBadRequest(w, httperrors.ErrCodeImportFailed, err.Error())
		return
	}
	h.respondJSON(w, http.StatusOK, report)
}

// ExportQuizQuestions handles GET /v1/quizzes/{quizID}/questions/export
func (h *HTTPHandlers) ExportQuizQuestions(w http.ResponseWriter, r *http.Request) {
	quizID, err := uuid.Parse(r.PathValue("quizID"))
	if err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid quiz id")
		return
	}

	data, err := h.importer.Export(r.Context(), Scope{Kind: KindQuiz, ParentID: quizID})
	if err != nil {
		h.respondOpError(w, err, "export questions")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="questions.xlsx"`)
	_, _ = w.Write(data)
}

func (h *HTTPHandlers) respondOpError(w http.ResponseWriter, err error, op string) {
	var ve *ValidationError
	var ie *InvariantError
	var se *StorageError
	switch {
	case errors.As(err, &ve):
		httperrors.RespondValidationError(w, httperrors.ErrCodeValidationFailed, ve.Reason, ve.Field)
	case errors.Is(err, ErrTypeImmutable):
		httperrors.RespondError(w, http.StatusConflict, httperrors.ErrCodeTypeImmutable, "Question type cannot be changed")
	case errors.Is(err, ErrNotFound):
		httperrors.RespondNotFound(w, httperrors.ErrCodeNotFound, "Question not found")
	case errors.As(err, &ie):
		h.logger.Error().Err(err).Str("op", op).Msg("sequence invariant violated")
		httperrors.RespondError(w, http.StatusInternalServerError, httperrors.ErrCodeSequenceCorrupt, "Question sequence is corrupted")
	case errors.As(err, &se):
		h.logger.Error().Err(err).Str("op", op).Msg("storage failure")
		httperrors.RespondServiceUnavailable(w, httperrors.ErrCodeStorageUnavailable, "Storage temporarily unavailable")
	default:
		h.logger.Error().Err(err).Str("op", op).Msg("unexpected failure")
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

func toOptionInputs(payloads []optionPayload) []OptionInput {
	inputs := make([]OptionInput, 0, len(payloads))
	for _, p := range payloads {
		inputs = append(inputs, OptionInput{Text: p.Text, IsCorrect: p.IsCorrect})
	}
	return inputs
}

func toQuestionResponse(q *Question) questionResponse {
	options := make([]optionResponse, 0, len(q.Options))
	for _, o := range q.Options {
		options = append(options, optionResponse{ID: o.ID.String(), Text: o.Text, IsCorrect: o.IsCorrect})
	}
	return questionResponse{
		ID:         q.ID.String(),
		ParentID:   q.Scope.ParentID.String(),
		Bank:       string(q.Scope.Kind),
		SequenceNo: q.SequenceNo,
		Body:       q.Body,
		Type:       string(q.Type),
		Options:    options,
		CreatedBy:  q.CreatedBy,
		CreatedAt:  q.CreatedAt,
		ModifiedBy: q.ModifiedBy,
		ModifiedAt: q.ModifiedAt,
	}
}
