package sanitize

import (
	"regexp"
	"strings"

	"github.com/xsistens/voiced/internal/ttyperrors"
)

// MaxFieldLength is the maximum accepted length, in runes, of a title or
// message field once sanitised.
const MaxFieldLength = 500

var (
	shellMeta     = regexp.MustCompile("[;&|><`$\\\\]")
	boldPair      = regexp.MustCompile(`\*\*(.*?)\*\*`)
	italicPair    = regexp.MustCompile(`\*(.*?)\*`)
	backtickPair  = regexp.MustCompile("`(.*?)`")
	headingMarker = regexp.MustCompile(`(?m)^#{1,6} `)
)

// Sanitize applies the fixed sequence of stripping passes the daemon runs
// on every title/message field, in order: literal "<script", literal
// "../", shell metacharacters, then markup pairs and leading heading
// markers. The passes repeat until the text stops changing, so a strip
// that exposes a new match (e.g. "<scr<scriptipt") is caught too. It is
// idempotent: Sanitize(Sanitize(x)) == Sanitize(x).
func Sanitize(s string) string {
	for {
		next := sanitizeOnce(s)
		if next == s {
			return s
		}
		s = next
	}
}

func sanitizeOnce(s string) string {
	s = strings.ReplaceAll(s, "<script", "")
	s = strings.ReplaceAll(s, "../", "")
	s = shellMeta.ReplaceAllString(s, "")
	s = boldPair.ReplaceAllString(s, "$1")
	s = italicPair.ReplaceAllString(s, "$1")
	s = backtickPair.ReplaceAllString(s, "$1")
	s = headingMarker.ReplaceAllString(s, "")
	return s
}

// Validate sanitises raw, trims it, and enforces the 1-500 rune bound. A
// field that sanitises down to empty, or one still over the bound after
// sanitisation, is rejected — sanitisation is expected to shrink a
// too-long raw input by stripping the very characters that made it
// suspicious, not to truncate a genuinely long message silently.
func Validate(field, raw string) (string, error) {
	cleaned := strings.TrimSpace(Sanitize(raw))
	if cleaned == "" {
		return "", ttyperrors.InvalidInput(field, "must not be empty")
	}
	if len([]rune(cleaned)) > MaxFieldLength {
		return "", ttyperrors.InvalidInput(field, "too long")
	}
	return cleaned, nil
}

var bracketRun = regexp.MustCompile(`\[[^\]]*\]`)

// StripBracketMarkers removes bracketed runs, e.g. "[citation needed]",
// ahead of speech. Applied after pronunciation/link handling so that a
// markdown link's [text] half has already been flattened to plain text by
// the time this runs.
func StripBracketMarkers(s string) string {
	return bracketRun.ReplaceAllString(s, "")
}
