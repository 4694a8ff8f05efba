package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/16880444c/V4/internal/agreement"
	"github.com/16880444c/V4/internal/document"
	"github.com/16880444c/V4/internal/model"
)

func testCatalog() *agreement.Catalog {
	return &agreement.Catalog{
		Families: []agreement.Family{{
			Name:           "test",
			AgreementType:  "Test agreements",
			CitationFormat: "[Test - Article X.X: Title]",
		}},
		Sets: []agreement.Set{
			{Name: "local", Label: "Local Agreement", Family: "test", Fallback: "local.json"},
			{Name: "common", Label: "Common Agreement", Family: "test", Fallback: "common.json"},
		},
		Scopes: []agreement.Scope{
			{Name: "local", Title: "Local", Family: "test", Sets: []string{"local"}},
			{Name: "both", Title: "Both", Family: "test", Sets: []string{"local", "common"}},
		},
	}
}

func testDocs(t *testing.T) map[string]*document.Mapping {
	return map[string]*document.Mapping{
		"local":  mustParse(t, `{"articles": {"10.1": "Burden of proof rests with the employer"}}`),
		"common": mustParse(t, `{"articles": {"6.5": "Contracting out is restricted"}}`),
	}
}

func TestAssemble_BothScopeOrdersLocalFirst(t *testing.T) {
	a := NewAssembler(testCatalog(), 0)
	p, err := a.Assemble(PromptInput{Scope: "both", Documents: testDocs(t), Style: StyleManagement, Question: "Can we contract out?"})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	local := strings.Index(p.User, "=== LOCAL AGREEMENT ===")
	common := strings.Index(p.User, "=== COMMON AGREEMENT ===")
	if local < 0 || common < 0 {
		t.Fatalf("expected both agreement blocks in user message:\n%s", p.User)
	}
	if local > common {
		t.Error("local block must precede common block")
	}
	if !strings.Contains(p.User, "Burden of proof rests with the employer\n\n\n\n=== COMMON AGREEMENT ===") {
		t.Error("expected blocks joined by a blank line")
	}
	if want := []string{"local", "common"}; strings.Join(p.Sets, ",") != strings.Join(want, ",") {
		t.Errorf("sets: got %v, want %v", p.Sets, want)
	}
}

func TestAssemble_AgreementTextOnlyInUserMessage(t *testing.T) {
	a := NewAssembler(testCatalog(), 0)
	for _, style := range Styles {
		p, err := a.Assemble(PromptInput{Scope: "local", Documents: testDocs(t), Style: style, Question: "q"})
		if err != nil {
			t.Fatalf("%s: %v", style, err)
		}
		if strings.Contains(p.System, "Burden of proof") || strings.Contains(p.System, "=== LOCAL") {
			t.Errorf("%s: system prompt must not contain agreement text", style)
		}
		if !strings.Contains(p.User, "COMPLETE COLLECTIVE AGREEMENT CONTENT:\n=== LOCAL AGREEMENT ===") {
			t.Errorf("%s: user message missing agreement content", style)
		}
		if !strings.Contains(p.System, "[Test - Article X.X: Title]") {
			t.Errorf("%s: system prompt missing family citation format", style)
		}
		if !strings.Contains(p.System, "Test agreements") {
			t.Errorf("%s: system prompt missing agreement type", style)
		}
		if strings.Contains(p.System, "{") {
			t.Errorf("%s: system prompt has an unfilled placeholder", style)
		}
	}
}

func TestAssemble_SystemPromptStableAcrossQuestions(t *testing.T) {
	a := NewAssembler(testCatalog(), 0)
	first, _ := a.Assemble(PromptInput{Scope: "local", Documents: testDocs(t), Style: StyleBalanced, Question: "first"})
	second, _ := a.Assemble(PromptInput{
		Scope:     "local",
		Documents: testDocs(t),
		Style:     StyleBalanced,
		Question:  "second",
		History:   []model.Turn{{Role: model.RoleUser, Text: "first"}, {Role: model.RoleAssistant, Text: "answer"}},
	})
	if first.System != second.System {
		t.Error("system prompt must not change with the question or history")
	}
}

func TestAssemble_AnalysisStylesCarryHeader(t *testing.T) {
	a := NewAssembler(testCatalog(), 0)
	p, err := a.Assemble(PromptInput{Scope: "local", Documents: testDocs(t), Style: StyleUnionProposal, Question: "Union wants more PD days"})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if !strings.Contains(p.User, "UNION PROPOSAL ANALYSIS:\nAnalyze this union proposal.") {
		t.Errorf("expected analysis header in user message:\n%s", p.User)
	}

	p, _ = a.Assemble(PromptInput{Scope: "local", Documents: testDocs(t), Style: StyleManagement, Question: "q"})
	if strings.Contains(p.User, "ANALYSIS:\n") {
		t.Error("advisory styles must not carry an analysis header")
	}
}

func TestAssemble_FollowUp(t *testing.T) {
	a := NewAssembler(testCatalog(), 0)
	history := []model.Turn{
		{Role: model.RoleUser, Text: "What is the probation period?"},
		{Role: model.RoleAssistant, Text: "Six months."},
	}
	p, err := a.Assemble(PromptInput{Scope: "local", Documents: testDocs(t), Style: StyleManagement, History: history, Question: "Can it be extended?"})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if !p.FollowUp {
		t.Error("expected follow-up prompt")
	}
	for _, want := range []string{
		"PREVIOUS CONVERSATION CONTEXT:",
		"Previous Question 1: What is the probation period?",
		"Previous Response 1: Six months.",
		"END OF PREVIOUS CONVERSATION",
		"FOLLOW-UP QUESTION: Can it be extended?",
		"IMPORTANT: This is a FOLLOW-UP question",
	} {
		if !strings.Contains(p.User, want) {
			t.Errorf("user message missing %q", want)
		}
	}
	if strings.Index(p.User, "END OF PREVIOUS CONVERSATION") > strings.Index(p.User, "FOLLOW-UP QUESTION") {
		t.Error("summary must precede the question")
	}

	p, _ = a.Assemble(PromptInput{Scope: "local", Documents: testDocs(t), Style: StyleManagement, Question: "q"})
	if p.FollowUp || strings.Contains(p.User, "PREVIOUS CONVERSATION") || strings.Contains(p.User, "FOLLOW-UP") {
		t.Error("first question must not carry follow-up framing")
	}
}

func TestAssemble_Errors(t *testing.T) {
	a := NewAssembler(testCatalog(), 0)
	docs := testDocs(t)

	_, err := a.Assemble(PromptInput{Scope: "nope", Documents: docs, Style: StyleManagement, Question: "q"})
	if !errors.Is(err, ErrUnknownScope) {
		t.Errorf("expected ErrUnknownScope, got %v", err)
	}

	_, err = a.Assemble(PromptInput{Scope: "local", Documents: docs, Style: "friendly", Question: "q"})
	if !errors.Is(err, ErrUnknownStyle) {
		t.Errorf("expected ErrUnknownStyle, got %v", err)
	}

	delete(docs, "common")
	_, err = a.Assemble(PromptInput{Scope: "both", Documents: docs, Style: StyleManagement, Question: "q"})
	var missing *MissingDocumentError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingDocumentError, got %v", err)
	}
	if missing.Set != "common" || missing.Label != "Common Agreement" {
		t.Errorf("unexpected missing document: %+v", missing)
	}

	docs["local"] = document.NewMapping()
	_, err = a.Assemble(PromptInput{Scope: "local", Documents: docs, Style: StyleManagement, Question: "q"})
	if !errors.As(err, &missing) {
		t.Errorf("an empty document must count as missing, got %v", err)
	}
}

func TestAssemble_ContextLimit(t *testing.T) {
	a := NewAssembler(testCatalog(), 50)
	_, err := a.Assemble(PromptInput{Scope: "local", Documents: testDocs(t), Style: StyleManagement, Question: "q"})
	var tooLarge *ContextTooLargeError
	if !errors.As(err, &tooLarge) {
		t.Fatalf("expected ContextTooLargeError, got %v", err)
	}
	if tooLarge.Limit != 50 || tooLarge.Chars <= 50 {
		t.Errorf("unexpected error fields: %+v", tooLarge)
	}
}

func TestSummarizeConversation_TruncatesLongAnswers(t *testing.T) {
	long := strings.Repeat("a", 500) + strings.Repeat("b", 1500)
	summary := SummarizeConversation([]model.Turn{
		{Role: model.RoleUser, Text: "question"},
		{Role: model.RoleAssistant, Text: long},
	})

	if strings.Contains(summary, long) {
		t.Fatal("summary must never contain the full answer")
	}
	if !strings.Contains(summary, "Previous Response 1: "+strings.Repeat("a", 500)+"...\n") {
		t.Error("expected exactly the first 500 characters followed by an ellipsis")
	}
	if strings.Contains(summary, "b") {
		t.Error("nothing past the first 500 characters may appear")
	}
}

func TestSummarizeConversation_Shape(t *testing.T) {
	if SummarizeConversation(nil) != "" {
		t.Error("expected empty summary for no turns")
	}

	summary := SummarizeConversation([]model.Turn{
		{Role: model.RoleUser, Text: "q1"},
		{Role: model.RoleAssistant, Text: "short answer"},
		{Role: model.RoleUser, Text: "q2"},
		{Role: model.RoleAssistant, Text: "ünïcödé"},
	})

	lines := strings.Split(strings.TrimRight(summary, "\n"), "\n")
	if lines[0] != "PREVIOUS CONVERSATION CONTEXT:" {
		t.Errorf("first line: %q", lines[0])
	}
	if lines[len(lines)-2] != "END OF PREVIOUS CONVERSATION" {
		t.Errorf("end delimiter: %q", lines[len(lines)-2])
	}
	for _, want := range []string{
		"Previous Question 1: q1",
		"Previous Response 1: short answer\n",
		"Previous Question 2: q2",
		"Previous Response 2: ünïcödé\n",
	} {
		if !strings.Contains(summary, want) {
			t.Errorf("summary missing %q", want)
		}
	}
	if strings.Contains(summary, "short answer...") {
		t.Error("short answers must not get an ellipsis")
	}
}

func TestTruncate_CountsCharacters(t *testing.T) {
	s := strings.Repeat("é", 600)
	got := truncate(s, SummaryAnswerLimit)
	if got != strings.Repeat("é", 500)+"..." {
		t.Errorf("expected 500 runes plus ellipsis, got %d runes", len([]rune(got)))
	}
}

func TestParseStyle(t *testing.T) {
	if s, err := ParseStyle(""); err != nil || s != DefaultStyle {
		t.Errorf("empty style: got (%q, %v)", s, err)
	}
	if s, err := ParseStyle(" Risk_Averse "); err != nil || s != StyleRiskAverse {
		t.Errorf("got (%q, %v)", s, err)
	}
	if _, err := ParseStyle("sarcastic"); !errors.Is(err, ErrUnknownStyle) {
		t.Errorf("expected ErrUnknownStyle, got %v", err)
	}
	for _, s := range Styles {
		if s.Description() == "" {
			t.Errorf("%s has no description", s)
		}
	}
	if !StyleGeneralAnalysis.IsAnalysis() || StyleBalanced.IsAnalysis() {
		t.Error("IsAnalysis misclassified a style")
	}
}
