package textproc

import (
	"regexp"
	"strings"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)

	// Verbose "returns a status code ... 202" phrasing found in the manuals
	// is collapsed into one canonical short form so equivalent wording lands
	// in the same chunk.
	httpAcceptedRe = regexp.MustCompile(`(?i)returns a status code\s*\(HTTP\s*"Accepted"\)\s*.*?\b202\b`)
)

// NormalizeHTTPCodes canonicalizes verbose HTTP 202 phrasing.
func NormalizeHTTPCodes(text string) string {
	return httpAcceptedRe.ReplaceAllString(text, `returns a 202 status code (HTTP "Accepted")`)
}

// CleanWhitespace strips zero-width characters, collapses newlines to
// spaces and squeezes whitespace runs.
func CleanWhitespace(text string) string {
	text = strings.ReplaceAll(text, "\u200b", "")
	text = strings.ReplaceAll(text, "\n", " ")
	return whitespaceRe.ReplaceAllString(text, " ")
}

// ExactMatchTokens is the coarse chunk-side normalizer: lower-case, keep
// only letters, digits, '.', '-' and '_', split on whitespace.
func ExactMatchTokens(text string) []string {
	var b strings.Builder
	b.Grow(len(text))

	for _, r := range text {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		default:
			b.WriteRune(' ')
		}
	}

	return strings.Fields(b.String())
}

// TokenSet builds a membership set from a token list.
func TokenSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}
