package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/16880444c/V4/internal/agreement"
	"github.com/16880444c/V4/internal/document"
	"github.com/16880444c/V4/internal/model"
)

// SummaryAnswerLimit is the number of characters of each earlier answer kept in
// the conversation summary.
const SummaryAnswerLimit = 500

const (
	summaryBegin = "PREVIOUS CONVERSATION CONTEXT:"
	summaryEnd   = "END OF PREVIOUS CONVERSATION"
)

const followUpInstruction = "IMPORTANT: This is a FOLLOW-UP question in an ongoing conversation. Consider the previous conversation context when formulating your response. Build upon previous analysis where relevant, and reference earlier discussion points when appropriate."

var (
	// ErrUnknownScope is returned for a scope name the catalog does not define.
	ErrUnknownScope = errors.New("unknown scope")
	// ErrUnknownStyle is returned for a style name that is not defined.
	ErrUnknownStyle = errors.New("unknown response style")
	// ErrEmptyContext is returned when the scope's documents serialize to nothing.
	ErrEmptyContext = errors.New("no agreement content available for the selected scope")
)

// MissingDocumentError is returned when a scope needs a document set that
// could not be loaded.
type MissingDocumentError struct {
	Scope string
	Set   string
	Label string
}

func (e *MissingDocumentError) Error() string {
	return fmt.Sprintf("scope %q: %s (%s) is not available", e.Scope, e.Label, e.Set)
}

// ContextTooLargeError is returned when the serialized agreements exceed the
// configured character limit.
type ContextTooLargeError struct {
	Chars int
	Limit int
}

func (e *ContextTooLargeError) Error() string {
	return fmt.Sprintf("agreement context is %d characters, limit is %d", e.Chars, e.Limit)
}

// PromptInput is everything the assembler needs for one question.
type PromptInput struct {
	Scope     string
	Documents map[string]*document.Mapping // by set name
	Style     Style
	History   []model.Turn
	Question  string
}

// Prompt is an assembled request for the completion provider.
type Prompt struct {
	System       string
	User         string
	Sets         []string
	ContextChars int
	FollowUp     bool
}

// Assembler builds system and user messages from a scope's documents.
// Agreement text is only ever placed in the user message.
type Assembler struct {
	catalog         *agreement.Catalog
	maxContextChars int
}

// NewAssembler creates an Assembler. maxContextChars of zero disables the
// size check.
func NewAssembler(catalog *agreement.Catalog, maxContextChars int) *Assembler {
	return &Assembler{catalog: catalog, maxContextChars: maxContextChars}
}

// Assemble builds the prompt for in. It fails before any serialization work
// if a document the scope needs is missing.
func (a *Assembler) Assemble(in PromptInput) (*Prompt, error) {
	scope, ok := a.catalog.Scope(in.Scope)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScope, in.Scope)
	}
	if _, ok := styleSpecs[in.Style]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStyle, in.Style)
	}

	text, err := a.Render(scope, in.Documents)
	if err != nil {
		return nil, err
	}
	if len(text) == 0 {
		return nil, ErrEmptyContext
	}
	chars := len([]rune(text))
	if a.maxContextChars > 0 && chars > a.maxContextChars {
		return nil, &ContextTooLargeError{Chars: chars, Limit: a.maxContextChars}
	}

	family, _ := a.catalog.Family(scope.Family)
	tmpl := styleSpecs[in.Style]
	followUp := len(in.History) > 0

	var user strings.Builder
	user.WriteString("Based on the complete collective agreement provisions below, ")
	user.WriteString(tmpl.intro)
	user.WriteString(":\n\n")
	if followUp {
		user.WriteString(SummarizeConversation(in.History))
		user.WriteString("\n")
	}
	if in.Style.IsAnalysis() {
		user.WriteString(tmpl.header)
		user.WriteString(":\n")
		user.WriteString(tmpl.instruction)
		user.WriteString("\n\n")
	}
	if followUp {
		user.WriteString("FOLLOW-UP ")
	}
	user.WriteString("QUESTION: ")
	user.WriteString(in.Question)
	user.WriteString("\n\n")
	if followUp {
		user.WriteString(followUpInstruction)
		user.WriteString("\n\n")
	}
	user.WriteString("COMPLETE COLLECTIVE AGREEMENT CONTENT:\n")
	user.WriteString(text)
	user.WriteString("\n\n")
	user.WriteString(tmpl.closing)

	return &Prompt{
		System:       in.Style.persona(family.AgreementType, family.CitationFormat),
		User:         user.String(),
		Sets:         append([]string(nil), scope.Sets...),
		ContextChars: chars,
		FollowUp:     followUp,
	}, nil
}

// Render serializes the scope's documents in scope order, separated by a
// blank line. Every document is checked before any is serialized.
func (a *Assembler) Render(scope agreement.Scope, docs map[string]*document.Mapping) (string, error) {
	labels := make([]string, len(scope.Sets))
	for i, name := range scope.Sets {
		set, _ := a.catalog.Set(name)
		labels[i] = set.Label
		if labels[i] == "" {
			labels[i] = name
		}
		if docs[name].Len() == 0 {
			return "", &MissingDocumentError{Scope: scope.Name, Set: name, Label: labels[i]}
		}
	}

	blocks := make([]string, len(scope.Sets))
	for i, name := range scope.Sets {
		blocks[i] = FormatAgreement(docs[name], labels[i])
	}
	return strings.Join(blocks, "\n\n"), nil
}

// SummarizeConversation renders earlier turns between delimiter lines. User
// questions are kept in full; assistant answers are cut to SummaryAnswerLimit
// characters. Turns are numbered by exchange.
func SummarizeConversation(turns []model.Turn) string {
	if len(turns) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(summaryBegin)
	sb.WriteString("\n")
	sb.WriteString(sectionRule)
	sb.WriteString("\n")

	exchange := 0
	for _, t := range turns {
		switch t.Role {
		case model.RoleUser:
			exchange++
			sb.WriteString("\nPrevious Question ")
			sb.WriteString(strconv.Itoa(exchange))
			sb.WriteString(": ")
			sb.WriteString(t.Text)
			sb.WriteString("\n")
		case model.RoleAssistant:
			sb.WriteString("Previous Response ")
			sb.WriteString(strconv.Itoa(max(exchange, 1)))
			sb.WriteString(": ")
			sb.WriteString(truncate(t.Text, SummaryAnswerLimit))
			sb.WriteString("\n")
		}
	}

	sb.WriteString("\n")
	sb.WriteString(summaryEnd)
	sb.WriteString("\n")
	sb.WriteString(sectionRule)
	sb.WriteString("\n")
	return sb.String()
}

// truncate keeps the first n characters of s and marks the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
