package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultAnthropicBaseURL = "https://api.anthropic.com"
const anthropicAPIVersion = "2023-06-01"

// maxResponseBytes caps the provider response body.
const maxResponseBytes = 8 << 20

// CompletionKind classifies a failed completion.
type CompletionKind string

const (
	KindRateLimited   CompletionKind = "rate_limited"
	KindProviderError CompletionKind = "provider_error"
	KindUnknown       CompletionKind = "unknown_error"
)

// CompletionError is returned by Complete for every failure.
type CompletionError struct {
	Kind   CompletionKind
	Status int // HTTP status, zero when no response was received
	Err    error
}

func (e *CompletionError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s (HTTP %d): %v", e.Kind, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *CompletionError) Unwrap() error { return e.Err }

// KindOf returns the completion kind of err, or KindUnknown when err is not a
// *CompletionError.
func KindOf(err error) CompletionKind {
	var ce *CompletionError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindUnknown
}

// LLMResponse holds the LLM's response text and token usage.
type LLMResponse struct {
	Text             string
	PromptTokens     int
	CompletionTokens int
	Latency          time.Duration
}

// LLMOptions configures an LLMService.
type LLMOptions struct {
	Provider    string
	Model       string
	APIKey      string
	BaseURL     string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// LLMService handles communication with the LLM provider. Every request uses
// the same response-length cap and temperature.
type LLMService struct {
	provider    string
	model       string
	apiKey      string
	baseURL     string
	maxTokens   int
	temperature float64
	client      *http.Client
}

// NewLLMService creates a new LLMService.
func NewLLMService(opts LLMOptions) *LLMService {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultAnthropicBaseURL
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 1500
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 120 * time.Second
	}
	return &LLMService{
		provider:    opts.Provider,
		model:       opts.Model,
		apiKey:      opts.APIKey,
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		maxTokens:   opts.MaxTokens,
		temperature: opts.Temperature,
		client: &http.Client{
			Timeout: opts.Timeout,
		},
	}
}

// Complete sends the system prompt and user message to the LLM and returns the
// response. Failures are *CompletionError. Nothing is retried.
func (s *LLMService) Complete(ctx context.Context, systemPrompt, userMessage string) (*LLMResponse, error) {
	start := time.Now()

	switch s.provider {
	case "anthropic":
		return s.completeAnthropic(ctx, systemPrompt, userMessage, start)
	default:
		return nil, &CompletionError{Kind: KindUnknown, Err: fmt.Errorf("unsupported LLM provider: %s", s.provider)}
	}
}

// completeAnthropic calls the Anthropic Messages API.
func (s *LLMService) completeAnthropic(ctx context.Context, systemPrompt, userMessage string, start time.Time) (*LLMResponse, error) {
	reqBody := anthropicRequest{
		Model:       s.model,
		MaxTokens:   s.maxTokens,
		Temperature: s.temperature,
		System:      systemPrompt,
		Messages: []anthropicMessage{
			{Role: "user", Content: userMessage},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, &CompletionError{Kind: KindUnknown, Err: fmt.Errorf("marshal request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/v1/messages", bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, &CompletionError{Kind: KindUnknown, Err: fmt.Errorf("create request: %w", err)}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", s.apiKey)
	req.Header.Set("anthropic-version", anthropicAPIVersion)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &CompletionError{Kind: KindProviderError, Err: fmt.Errorf("HTTP request: %w", err)}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &CompletionError{Kind: KindProviderError, Status: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, classifyAnthropicError(resp.StatusCode, respBody)
	}

	var anthropicResp anthropicResponse
	if err := json.Unmarshal(respBody, &anthropicResp); err != nil {
		return nil, &CompletionError{Kind: KindProviderError, Status: resp.StatusCode, Err: fmt.Errorf("unmarshal response: %w", err)}
	}

	// Extract text from content blocks
	var text strings.Builder
	for _, block := range anthropicResp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return nil, &CompletionError{Kind: KindProviderError, Status: resp.StatusCode, Err: errors.New("response contained no text")}
	}

	return &LLMResponse{
		Text:             text.String(),
		PromptTokens:     anthropicResp.Usage.InputTokens,
		CompletionTokens: anthropicResp.Usage.OutputTokens,
		Latency:          time.Since(start),
	}, nil
}

// classifyAnthropicError maps a non-200 response to a CompletionError.
func classifyAnthropicError(status int, body []byte) *CompletionError {
	var e anthropicErrorResponse
	_ = json.Unmarshal(body, &e)

	msg := e.Error.Message
	if msg == "" {
		msg = strings.TrimSpace(string(body))
		if len(msg) > 200 {
			msg = msg[:200]
		}
	}
	err := fmt.Errorf("Anthropic API returned %d: %s", status, msg)

	if status == http.StatusTooManyRequests || e.Error.Type == "rate_limit_error" {
		return &CompletionError{Kind: KindRateLimited, Status: status, Err: err}
	}
	return &CompletionError{Kind: KindProviderError, Status: status, Err: err}
}

// Provider returns the configured LLM provider name.
func (s *LLMService) Provider() string {
	return s.provider
}

// Model returns the configured LLM model name.
func (s *LLMService) Model() string {
	return s.model
}

// Anthropic API types

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature float64            `json:"temperature"`
	System      string             `json:"system"`
	Messages    []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	ID      string                  `json:"id"`
	Type    string                  `json:"type"`
	Role    string                  `json:"role"`
	Content []anthropicContentBlock `json:"content"`
	Usage   anthropicUsage          `json:"usage"`
}

type anthropicContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type anthropicUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

type anthropicErrorResponse struct {
	Type  string `json:"type"`
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}
