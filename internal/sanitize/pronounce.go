package sanitize

import (
	"regexp"

	"golang.org/x/text/cases"
)

var (
	markdownLink = regexp.MustCompile(`\[([^\]]*)\]\(([^)]*)\)`)
	urlScheme    = regexp.MustCompile(`https?://`)
	wordToken    = regexp.MustCompile(`[\p{L}\p{N}][\p{L}\p{N}'-]*`)
)

// ApplyPronunciations replaces each whole-word occurrence of a
// pronunciation-map key with its replacement, case-insensitively and
// Unicode-correctly (via golang.org/x/text/cases rather than
// strings.ToLower, which is not case-fold-correct for every script).
// Substrings that are not a complete word match are left untouched.
func ApplyPronunciations(text string, table map[string]string) string {
	if len(table) == 0 {
		return text
	}

	fold := cases.Fold()
	folded := make(map[string]string, len(table))
	for k, v := range table {
		folded[fold.String(k)] = v
	}

	return wordToken.ReplaceAllStringFunc(text, func(word string) string {
		if repl, ok := folded[fold.String(word)]; ok {
			return repl
		}
		return word
	})
}

// FlattenMarkdownLinks replaces "[text](url)" with "text", discarding the
// URL entirely.
func FlattenMarkdownLinks(text string) string {
	return markdownLink.ReplaceAllString(text, "$1")
}

// StripURLSchemes removes the "http://" and "https://" prefixes from any
// bare URL remaining in the text (links already handled by
// FlattenMarkdownLinks never reach this step with a scheme attached, since
// the scheme was part of the discarded URL half).
func StripURLSchemes(text string) string {
	return urlScheme.ReplaceAllString(text, "")
}

// PrepareForSpeech runs the full pre-synthesis text pipeline: markdown
// link flattening, URL scheme stripping, pronunciation substitution, and
// finally the legacy bracket-marker strip. Applied uniformly ahead of
// every back-end, cloud and local alike.
func PrepareForSpeech(text string, pronunciations map[string]string) string {
	text = FlattenMarkdownLinks(text)
	text = StripURLSchemes(text)
	text = ApplyPronunciations(text, pronunciations)
	text = StripBracketMarkers(text)
	return text
}
