package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/16880444c/V4/internal/agreement"
	"github.com/16880444c/V4/internal/document"
	"github.com/16880444c/V4/internal/model"
)

// ErrEmptyQuestion is returned for a blank question.
var ErrEmptyQuestion = errors.New("question is empty")

// Completer sends one system prompt and one user message to a model.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userMessage string) (*LLMResponse, error)
}

// DocumentProvider returns a loaded document set, or nil when it is absent.
type DocumentProvider interface {
	Document(ctx context.Context, name string) *document.Mapping
}

// Conversation is the per-session state a question reads and updates.
type Conversation interface {
	Turns() []model.Turn
	Record(turns ...model.Turn)
	Queries() int
	IncrementQueries() int
	Select(scope, style string)
}

// AskRequest is one question from a user.
type AskRequest struct {
	Scope    string
	Style    string
	Question string
}

// Answer is the result of one question. Text is what the user sees; on
// failure it is the outcome's message.
type Answer struct {
	Text       string
	Outcome    Outcome
	Citations  []model.Citation
	Scope      string
	Style      Style
	QueryCount int
	Prompt     *Prompt
	LLM        *LLMResponse
	Err        error
	Latency    time.Duration
}

// Assistant answers questions about collective agreements.
type Assistant struct {
	catalog   *agreement.Catalog
	docs      DocumentProvider
	assembler *Assembler
	llm       Completer
}

// NewAssistant creates an Assistant.
func NewAssistant(catalog *agreement.Catalog, docs DocumentProvider, assembler *Assembler, llm Completer) *Assistant {
	return &Assistant{
		catalog:   catalog,
		docs:      docs,
		assembler: assembler,
		llm:       llm,
	}
}

// Ask answers req within conv. The question and the answer (or the failure
// message) are both recorded as turns; the query counter only moves when the
// model answered. A missing document never reaches the model.
//
// Returned errors are reserved for malformed requests: ErrEmptyQuestion,
// ErrUnknownScope and ErrUnknownStyle. Every other failure is reported through
// Answer.Outcome.
func (a *Assistant) Ask(ctx context.Context, conv Conversation, req AskRequest) (*Answer, error) {
	start := time.Now()

	question := strings.TrimSpace(MarkStrikethrough(req.Question))
	if question == "" {
		return nil, ErrEmptyQuestion
	}
	style, err := ParseStyle(req.Style)
	if err != nil {
		return nil, err
	}
	scope, ok := a.catalog.Scope(req.Scope)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScope, req.Scope)
	}

	prior := conv.Turns()
	docs := make(map[string]*document.Mapping, len(scope.Sets))
	for _, name := range scope.Sets {
		if doc := a.docs.Document(ctx, name); doc != nil {
			docs[name] = doc
		}
	}

	ans := &Answer{Scope: scope.Name, Style: style}
	ans.Prompt, ans.Err = a.assembler.Assemble(PromptInput{
		Scope:     scope.Name,
		Documents: docs,
		Style:     style,
		History:   prior,
		Question:  question,
	})

	if ans.Err == nil {
		ans.LLM, ans.Err = a.llm.Complete(ctx, ans.Prompt.System, ans.Prompt.User)
	}

	ans.Outcome = OutcomeForError(ans.Err)
	if ans.Err != nil {
		ans.Text = UserMessage(ans.Err)
		ans.Citations = []model.Citation{}
		slog.Warn("question not answered",
			"scope", scope.Name,
			"style", style,
			"outcome", ans.Outcome,
			"error", ans.Err,
		)
	} else {
		ans.Text = ans.LLM.Text
		ans.Citations = ParseCitations(ans.Text)
	}

	conv.Record(
		model.Turn{Role: model.RoleUser, Text: question},
		model.Turn{Role: model.RoleAssistant, Text: ans.Text},
	)
	conv.Select(scope.Name, string(style))

	if ans.Outcome == OutcomeAnswered {
		ans.QueryCount = conv.IncrementQueries()
	} else {
		ans.QueryCount = conv.Queries()
	}

	ans.Latency = time.Since(start)
	return ans, nil
}
