package service

import (
	"strings"

	"github.com/16880444c/V4/internal/document"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// sectionRule underlines every top-level section heading.
var sectionRule = strings.Repeat("=", 50)

// FormatAgreement renders a merged agreement as the plain-text block sent to
// the model. The output depends only on doc's contents and key order, so the
// same document always produces the same bytes.
//
//	=== <LABEL> ===
//
//	<SECTION KEY>:
//	==================================================
//	key: value
//	nested:
//	  key: value
//	list:
//	  - item
func FormatAgreement(doc *document.Mapping, label string) string {
	upper := cases.Upper(language.Und)

	var sb strings.Builder
	sb.WriteString("=== ")
	sb.WriteString(upper.String(label))
	sb.WriteString(" ===\n\n")

	doc.Each(func(key string, v document.Value) {
		sb.WriteString("\n")
		sb.WriteString(upper.String(strings.ReplaceAll(key, "_", " ")))
		sb.WriteString(":\n")
		sb.WriteString(sectionRule)
		sb.WriteString("\n")

		switch t := v.(type) {
		case *document.Mapping:
			writeEntries(&sb, t, 0)
		case document.Sequence:
			writeItems(&sb, t, 0)
		case document.Scalar:
			sb.WriteString(t.Text)
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	})
	return sb.String()
}

func writeEntries(sb *strings.Builder, m *document.Mapping, depth int) {
	prefix := strings.Repeat("  ", depth)
	m.Each(func(key string, v document.Value) {
		sb.WriteString(prefix)
		sb.WriteString(key)
		switch t := v.(type) {
		case *document.Mapping:
			sb.WriteString(":\n")
			writeEntries(sb, t, depth+1)
		case document.Sequence:
			sb.WriteString(":\n")
			writeItems(sb, t, depth+1)
		case document.Scalar:
			sb.WriteString(": ")
			sb.WriteString(t.Text)
			sb.WriteString("\n")
		}
	})
}

// writeItems renders sequence items at depth. Mapping items are flattened into
// their entries; scalar items become "- item" lines.
func writeItems(sb *strings.Builder, seq document.Sequence, depth int) {
	prefix := strings.Repeat("  ", depth)
	for _, item := range seq {
		switch t := item.(type) {
		case *document.Mapping:
			writeEntries(sb, t, depth)
		case document.Sequence:
			writeItems(sb, t, depth+1)
		case document.Scalar:
			sb.WriteString(prefix)
			sb.WriteString("- ")
			sb.WriteString(t.Text)
			sb.WriteString("\n")
		}
	}
}
