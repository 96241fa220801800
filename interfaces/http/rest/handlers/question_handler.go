package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"askbox-backend/application/commands"
	cmdhandlers "askbox-backend/application/commands/handlers"
	"askbox-backend/application/queries"
	qryhandlers "askbox-backend/application/queries/handlers"
	"askbox-backend/pkg/auth"
	"askbox-backend/pkg/common"
	pkgerrors "askbox-backend/pkg/errors"
)

// QuestionHandler serves the question lifecycle: asking, answering, the
// recipient's inbox, and the public answered feed.
type QuestionHandler struct {
	askHandler    *cmdhandlers.AskQuestionHandler
	answerHandler *cmdhandlers.AnswerQuestionHandler
	inboxHandler  *qryhandlers.InboxHandler
	askLimiter    *auth.AskRateLimiter
	errHandler    *pkgerrors.HTTPHandler
	logger        *zap.Logger
}

// NewQuestionHandler creates a new question handler
func NewQuestionHandler(
	askHandler *cmdhandlers.AskQuestionHandler,
	answerHandler *cmdhandlers.AnswerQuestionHandler,
	inboxHandler *qryhandlers.InboxHandler,
	logger *zap.Logger,
) *QuestionHandler {
	return &QuestionHandler{
		askHandler:    askHandler,
		answerHandler: answerHandler,
		inboxHandler:  inboxHandler,
		askLimiter:    auth.NewAskRateLimiter(30),
		errHandler:    pkgerrors.NewHTTPHandler(logger),
		logger:        logger,
	}
}

type askQuestionRequest struct {
	RecipientID string `json:"recipient_id"`
	Content     string `json:"content"`
	Anonymous   bool   `json:"anonymous"`
}

// AskQuestion handles POST /questions. Authentication is optional: an
// unauthenticated request stores no sender at all.
func (h *QuestionHandler) AskQuestion(w http.ResponseWriter, r *http.Request) {
	var req askQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errHandler.Handle(w, r, pkgerrors.NewValidationError("invalid request body"))
		return
	}

	allowed, err := h.askLimiter.Allow(r.Context(), req.RecipientID)
	if err == nil && !allowed {
		h.errHandler.Handle(w, r, pkgerrors.NewRateLimitError("inbox is receiving too many questions"))
		return
	}

	cmd := commands.AskQuestionCommand{
		RecipientID: req.RecipientID,
		SenderID:    auth.OptionalUserID(r.Context()),
		Content:     req.Content,
		Anonymous:   req.Anonymous,
	}

	question, err := h.askHandler.Handle(r.Context(), cmd)
	if err != nil {
		h.errHandler.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, queries.NewQuestionView(question))
}

// GetQuestion handles GET /questions/{questionID}. Answered questions are
// public; an unanswered question is visible to its recipient only.
func (h *QuestionHandler) GetQuestion(w http.ResponseWriter, r *http.Request) {
	view, err := h.inboxHandler.HandleQuestion(r.Context(), queries.QuestionQuery{
		QuestionID:  chi.URLParam(r, "questionID"),
		RequesterID: auth.OptionalUserID(r.Context()),
	})
	if err != nil {
		h.errHandler.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, view)
}

type answerQuestionRequest struct {
	Content string `json:"content"`
}

// AnswerQuestion handles POST /questions/{questionID}/answer
func (h *QuestionHandler) AnswerQuestion(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errHandler.Handle(w, r, pkgerrors.NewUnauthorizedError("authentication required"))
		return
	}

	var req answerQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errHandler.Handle(w, r, pkgerrors.NewValidationError("invalid request body"))
		return
	}

	answer, err := h.answerHandler.Handle(r.Context(), commands.AnswerQuestionCommand{
		QuestionID: chi.URLParam(r, "questionID"),
		UserID:     user.UserID,
		Content:    req.Content,
	})
	if err != nil {
		h.errHandler.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, queries.AnswerView{
		ID:        answer.ID().String(),
		Content:   answer.Content().String(),
		CreatedAt: answer.CreatedAt(),
	})
}

// Inbox handles GET /inbox: the caller's unanswered questions
func (h *QuestionHandler) Inbox(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errHandler.Handle(w, r, pkgerrors.NewUnauthorizedError("authentication required"))
		return
	}

	views, err := h.inboxHandler.HandleInbox(r.Context(), queries.InboxQuery{
		UserID: user.UserID,
		Limit:  limitParam(r),
	})
	if err != nil {
		h.errHandler.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"questions": views,
		"count":     len(views),
	})
}

// ProfileFeed handles GET /users/{userID}/feed: the public answered pairs
func (h *QuestionHandler) ProfileFeed(w http.ResponseWriter, r *http.Request) {
	views, err := h.inboxHandler.HandleProfileFeed(r.Context(), queries.ProfileFeedQuery{
		UserID: chi.URLParam(r, "userID"),
		Limit:  limitParam(r),
	})
	if err != nil {
		h.errHandler.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"questions": views,
		"count":     len(views),
	})
}

// limitParam reads the optional limit query parameter, capped at 100
func limitParam(r *http.Request) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0
	}
	if limit > 100 {
		return 100
	}
	return limit
}
