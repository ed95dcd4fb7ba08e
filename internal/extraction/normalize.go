package extraction

import "strings"

// NormalizeWhitespace collapses every whitespace run, newlines included,
// into a single space and trims both ends. It is idempotent.
func NormalizeWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
