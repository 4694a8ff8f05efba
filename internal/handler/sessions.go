package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/16880444c/V4/internal/model"
	"github.com/16880444c/V4/internal/service"
	"github.com/16880444c/V4/internal/session"
)

// Asker answers one question within a conversation.
type Asker interface {
	Ask(ctx context.Context, conv service.Conversation, req service.AskRequest) (*service.Answer, error)
}

// SessionOptions configures a SessionHandler.
type SessionOptions struct {
	DefaultStyle string
	DebugEnabled bool
	LLMProvider  string
	LLMModel     string
}

// SessionHandler handles the conversation session endpoints.
type SessionHandler struct {
	store     *session.Store
	assistant Asker
	opts      SessionOptions
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(store *session.Store, assistant Asker, opts SessionOptions) *SessionHandler {
	return &SessionHandler{
		store:     store,
		assistant: assistant,
		opts:      opts,
	}
}

// Create handles POST /v1/sessions.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	sess := h.store.Create()
	slog.Info("session created", "session_id", sess.ID, "request_id", chimw.GetReqID(r.Context()))
	writeJSON(w, http.StatusCreated, sess.Info())
}

// Get handles GET /v1/sessions/{id}.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess.Info())
}

// Reset handles POST /v1/sessions/{id}/reset.
func (h *SessionHandler) Reset(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.lookup(w, r)
	if !ok {
		return
	}
	if err := sess.TryAcquire(); err != nil {
		writeError(w, http.StatusConflict, "conflict", err.Error())
		return
	}
	sess.Reset()
	sess.Release()
	writeJSON(w, http.StatusOK, sess.Info())
}

// Delete handles DELETE /v1/sessions/{id}.
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if !h.store.Delete(chi.URLParam(r, "id")) {
		writeError(w, http.StatusNotFound, "not_found", "session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Query handles POST /v1/sessions/{id}/query: one question against the
// selected agreements, answered within the session's conversation.
//
// Provider and document failures are answers, not HTTP errors: the response
// is 200 with an outcome other than "answered" and the failure message as the
// answer text. Only malformed requests and a busy session are rejected.
func (h *SessionHandler) Query(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	totalStart := time.Now()
	requestID := chimw.GetReqID(ctx)

	sess, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req model.QueryRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	if err := sess.TryAcquire(); err != nil {
		writeError(w, http.StatusConflict, "conflict", err.Error())
		return
	}
	defer sess.Release()

	style := req.Style
	if style == "" {
		style = h.opts.DefaultStyle
	}

	qlog := &model.QueryLog{
		Timestamp:    time.Now().UTC(),
		SessionID:    sess.ID,
		RequestID:    requestID,
		QuestionHash: hashQuestion(req.Question),
		Scope:        req.Scope,
		Style:        style,
		LLMProvider:  h.opts.LLMProvider,
		LLMModel:     h.opts.LLMModel,
		PriorTurns:   len(sess.Turns()),
	}

	ans, err := h.assistant.Ask(ctx, sess, service.AskRequest{
		Scope:    req.Scope,
		Style:    style,
		Question: req.Question,
	})
	if err != nil {
		status := http.StatusInternalServerError
		code := "internal"
		if errors.Is(err, service.ErrUnknownScope) ||
			errors.Is(err, service.ErrUnknownStyle) ||
			errors.Is(err, service.ErrEmptyQuestion) {
			status = http.StatusBadRequest
			code = "bad_request"
		} else {
			slog.Error("query failed", "error", err, "request_id", requestID)
		}
		writeError(w, status, code, err.Error())
		h.emitQueryLog(qlog, status, totalStart)
		return
	}

	qlog.Style = string(ans.Style)
	qlog.Outcome = string(ans.Outcome)
	qlog.NumCitations = len(ans.Citations)
	if ans.Prompt != nil {
		qlog.FollowUp = ans.Prompt.FollowUp
		qlog.ContextChars = ans.Prompt.ContextChars
	}
	if ans.LLM != nil {
		qlog.LatencyMSLLM = ans.LLM.Latency.Milliseconds()
		qlog.LLMPromptTokens = ans.LLM.PromptTokens
		qlog.LLMCompletionTokens = ans.LLM.CompletionTokens
	}

	resp := &model.QueryResponse{
		Answer:     ans.Text,
		Outcome:    string(ans.Outcome),
		Citations:  ans.Citations,
		QueryCount: ans.QueryCount,
		Exchanges:  sess.Exchanges(),
		Scope:      ans.Scope,
		Style:      string(ans.Style),
	}

	if req.Debug && h.opts.DebugEnabled {
		resp.Debug = debugInfo(ans, qlog)
	}

	writeJSON(w, http.StatusOK, resp)
	h.emitQueryLog(qlog, http.StatusOK, totalStart)
}

func (h *SessionHandler) lookup(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, ok := h.store.Get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "session not found or expired")
		return nil, false
	}
	return sess, true
}

func debugInfo(ans *service.Answer, qlog *model.QueryLog) *model.DebugInfo {
	d := &model.DebugInfo{
		Sets:                []string{},
		PriorTurns:          qlog.PriorTurns,
		FollowUp:            qlog.FollowUp,
		ContextChars:        qlog.ContextChars,
		LLMPromptTokens:     qlog.LLMPromptTokens,
		LLMCompletionTokens: qlog.LLMCompletionTokens,
		LatencyMSLLM:        qlog.LatencyMSLLM,
	}
	if ans.Prompt != nil {
		d.Sets = ans.Prompt.Sets
		d.SystemPromptChars = len([]rune(ans.Prompt.System))
		d.UserMessageChars = len([]rune(ans.Prompt.User))
	}
	if ans.Err != nil {
		d.Error = ans.Err.Error()
	}
	return d
}

// emitQueryLog writes the structured per-query log line. The question text is
// never logged, only its hash.
func (h *SessionHandler) emitQueryLog(qlog *model.QueryLog, httpStatus int, totalStart time.Time) {
	qlog.HTTPStatus = httpStatus
	qlog.LatencyMSTotal = time.Since(totalStart).Milliseconds()

	slog.Info("query",
		"ts", qlog.Timestamp.Format(time.RFC3339),
		"session_id", qlog.SessionID,
		"request_id", qlog.RequestID,
		"question_hash", qlog.QuestionHash,
		"scope", qlog.Scope,
		"style", qlog.Style,
		"outcome", qlog.Outcome,
		"follow_up", qlog.FollowUp,
		"prior_turns", qlog.PriorTurns,
		"context_chars", qlog.ContextChars,
		"num_citations", qlog.NumCitations,
		"latency_ms_total", qlog.LatencyMSTotal,
		"latency_ms_llm", qlog.LatencyMSLLM,
		"llm_provider", qlog.LLMProvider,
		"llm_model", qlog.LLMModel,
		"llm_prompt_tokens", qlog.LLMPromptTokens,
		"llm_completion_tokens", qlog.LLMCompletionTokens,
		"http_status", qlog.HTTPStatus,
	)
}
