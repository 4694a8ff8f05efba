// Package model defines the request, response and conversation types shared by
// the API layers.
package model

import "time"

// Role is the author of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one message in a conversation.
type Turn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// QueryRequest is the POST /v1/sessions/{id}/query request body.
type QueryRequest struct {
	Scope    string `json:"scope" validate:"required"`
	Style    string `json:"style"`
	Question string `json:"question" validate:"required,max=20000"`
	Debug    bool   `json:"debug"`
}

// QueryResponse is the POST /v1/sessions/{id}/query response body.
type QueryResponse struct {
	Answer     string     `json:"answer"`
	Outcome    string     `json:"outcome"`
	Citations  []Citation `json:"citations"`
	QueryCount int        `json:"query_count"`
	Exchanges  int        `json:"exchanges"`
	Scope      string     `json:"scope"`
	Style      string     `json:"style"`
	Debug      *DebugInfo `json:"debug"`
}

// Citation is one agreement reference found in an answer, such as
// "[Local Agreement - Article 10.1: Burden of Proof]".
type Citation struct {
	Agreement string `json:"agreement"`
	Reference string `json:"reference"`
	Raw       string `json:"raw"`
}

// ErrorResponse is the standard error response body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// DebugInfo contains debug information when debug=true.
type DebugInfo struct {
	Sets                []string `json:"sets"`
	ContextChars        int      `json:"context_chars"`
	SystemPromptChars   int      `json:"system_prompt_chars"`
	UserMessageChars    int      `json:"user_message_chars"`
	PriorTurns          int      `json:"prior_turns"`
	FollowUp            bool     `json:"follow_up"`
	LLMPromptTokens     int      `json:"llm_prompt_tokens"`
	LLMCompletionTokens int      `json:"llm_completion_tokens"`
	LatencyMSLLM        int64    `json:"latency_ms_llm"`
	Error               string   `json:"error,omitempty"`
}

// SessionInfo describes a conversation session.
type SessionInfo struct {
	ID         string    `json:"id"`
	Scope      string    `json:"scope,omitempty"`
	Style      string    `json:"style,omitempty"`
	QueryCount int       `json:"query_count"`
	Exchanges  int       `json:"exchanges"`
	Turns      []Turn    `json:"turns"`
	CreatedAt  time.Time `json:"created_at"`
}

// ScopeInfo describes a selectable agreement scope and whether it can be
// answered right now.
type ScopeInfo struct {
	Name      string   `json:"name"`
	Title     string   `json:"title"`
	Family    string   `json:"family"`
	Sets      []string `json:"sets"`
	Available bool     `json:"available"`
	Missing   []string `json:"missing,omitempty"`
}

// StyleInfo describes a response style.
type StyleInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Default     bool   `json:"default"`
}

// QueryLog holds all fields for the structured per-query log line.
type QueryLog struct {
	Timestamp           time.Time `json:"ts"`
	SessionID           string    `json:"session_id"`
	RequestID           string    `json:"request_id"`
	QuestionHash        string    `json:"question_hash"`
	Scope               string    `json:"scope"`
	Style               string    `json:"style"`
	Outcome             string    `json:"outcome"`
	FollowUp            bool      `json:"follow_up"`
	PriorTurns          int       `json:"prior_turns"`
	ContextChars        int       `json:"context_chars"`
	NumCitations        int       `json:"num_citations"`
	LatencyMSTotal      int64     `json:"latency_ms_total"`
	LatencyMSLLM        int64     `json:"latency_ms_llm"`
	LLMProvider         string    `json:"llm_provider"`
	LLMModel            string    `json:"llm_model"`
	LLMPromptTokens     int       `json:"llm_prompt_tokens"`
	LLMCompletionTokens int       `json:"llm_completion_tokens"`
	HTTPStatus          int       `json:"http_status"`
}
