package service

import "regexp"

// strikeRegexes match struck-out text pasted from proposal documents.
var strikeRegexes = []*regexp.Regexp{
	regexp.MustCompile(`(?s)~~(.+?)~~`),
	regexp.MustCompile(`(?s)<s>(.+?)</s>`),
	regexp.MustCompile(`(?s)<del>(.+?)</del>`),
	regexp.MustCompile(`(?s)<strike>(.+?)</strike>`),
}

// MarkStrikethrough rewrites struck-out text as [REMOVED: text] so that
// deletions in a pasted proposal survive as plain text.
func MarkStrikethrough(text string) string {
	for _, re := range strikeRegexes {
		text = re.ReplaceAllString(text, "[REMOVED: $1]")
	}
	return text
}
