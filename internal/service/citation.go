package service

import (
	"regexp"
	"strings"

	"github.com/16880444c/V4/internal/model"
)

// citationRegex matches bracketed references of the form
// [<Agreement> - <Reference>], e.g. [Local Agreement - Article 10.1: Burden of Proof].
// The agreement part may not itself contain " - ".
var citationRegex = regexp.MustCompile(`\[([^\[\]\n]+?) - ([^\[\]\n]+)\]`)

// maxCitationLen drops matches that are clearly not citations.
const maxCitationLen = 240

// ParseCitations extracts agreement citations from the answer text, in order of
// first appearance. Repeated citations are returned once.
func ParseCitations(answer string) []model.Citation {
	matches := citationRegex.FindAllStringSubmatch(answer, -1)
	if len(matches) == 0 {
		return []model.Citation{}
	}

	seen := make(map[string]bool)
	citations := []model.Citation{}
	for _, match := range matches {
		raw := match[0]
		if len(raw) > maxCitationLen {
			continue
		}
		agreement := strings.TrimSpace(match[1])
		reference := strings.TrimSpace(match[2])
		if agreement == "" || reference == "" {
			continue
		}

		key := strings.ToLower(agreement + "|" + reference)
		if seen[key] {
			continue
		}
		seen[key] = true

		citations = append(citations, model.Citation{
			Agreement: agreement,
			Reference: reference,
			Raw:       raw,
		})
	}
	return citations
}
