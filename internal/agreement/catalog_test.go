package agreement

import (
	"strings"
	"testing"

	"github.com/spf13/afero"
)

func TestDefault_IsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default catalog should validate: %v", err)
	}
}

func TestDefault_BothScopesListLocalFirst(t *testing.T) {
	c := Default()
	for _, name := range []string{"bcgeu-instructor-both", "cupe-both"} {
		sc, ok := c.Scope(name)
		if !ok {
			t.Fatalf("missing scope %q", name)
		}
		if len(sc.Sets) != 2 {
			t.Fatalf("%s: expected 2 sets, got %d", name, len(sc.Sets))
		}
		if !strings.HasSuffix(sc.Sets[0], "-local") || !strings.HasSuffix(sc.Sets[1], "-common") {
			t.Errorf("%s: expected local before common, got %v", name, sc.Sets)
		}
	}
}

func TestDefault_LocalAgreementHasNineFragments(t *testing.T) {
	s, ok := Default().Set("bcgeu-local")
	if !ok {
		t.Fatal("missing bcgeu-local")
	}
	if len(s.Fragments) != MaxFragments {
		t.Errorf("expected %d fragments, got %d", MaxFragments, len(s.Fragments))
	}
	if s.Fallback == "" {
		t.Error("expected a fallback for the split local agreement")
	}
}

const sampleCatalog = `
families:
  - name: test
    agreement_type: Test agreements
    citation_format: "[Test - Article X.X: Title]"
sets:
  - name: local
    label: Local Agreement
    family: test
    fragments: [a.json, b.json]
    fallback: complete.json
  - name: common
    label: Common Agreement
    family: test
    remote_url: https://example.com/common.json
scopes:
  - name: both
    title: Both
    family: test
    sets: [local, common]
`

func TestParse_Valid(t *testing.T) {
	c, err := Parse([]byte(sampleCatalog))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s, ok := c.Set("local")
	if !ok {
		t.Fatal("expected set 'local'")
	}
	if len(s.Fragments) != 2 || s.Fragments[0] != "a.json" {
		t.Errorf("unexpected fragments: %v", s.Fragments)
	}
	f, ok := c.Family("test")
	if !ok || f.CitationFormat != "[Test - Article X.X: Title]" {
		t.Errorf("unexpected family: %+v", f)
	}
}

func replaceOnce(from, to string) func(string) string {
	return func(s string) string { return strings.Replace(s, from, to, 1) }
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(string) string
		wantErr string
	}{
		{
			name:    "unknown set in scope",
			mutate:  replaceOnce("sets: [local, common]", "sets: [local, missing]"),
			wantErr: "unknown document set",
		},
		{
			name:    "too many sets in scope",
			mutate:  replaceOnce("sets: [local, common]", "sets: [local, common, local]"),
			wantErr: "max",
		},
		{
			name:    "unknown family",
			mutate:  replaceOnce("family: test\n    remote_url", "family: other\n    remote_url"),
			wantErr: "unknown family",
		},
		{
			name:    "bad remote url",
			mutate:  replaceOnce("https://example.com/common.json", "not a url"),
			wantErr: "url",
		},
		{
			name:    "too many fragments",
			mutate:  replaceOnce("[a.json, b.json]", `["1", "2", "3", "4", "5", "6", "7", "8", "9", "10"]`),
			wantErr: "max",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.mutate(sampleCatalog)))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	_ = afero.WriteFile(fs, "/etc/catalog.yaml", []byte(sampleCatalog), 0644)

	c, err := LoadFile(fs, "/etc/catalog.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(c.Scopes) != 1 {
		t.Errorf("expected 1 scope, got %d", len(c.Scopes))
	}

	if _, err := LoadFile(fs, "/etc/missing.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}
