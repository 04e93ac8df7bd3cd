// Package strings holds text helpers for terminal and log output.
package strings

import (
	"strings"
	"unicode/utf8"
)

// DefaultSummaryLen is the default limit for one-line summaries of opaque
// diagnostic text such as provider error bodies.
const DefaultSummaryLen = 200

// MinSummaryLen is the smallest limit SingleLine honours; it leaves room for
// one character plus "...".
const MinSummaryLen = 4

// TruncatedSuffix marks text cut by Truncate.
const TruncatedSuffix = "...(truncated)"

// Truncate keeps at most maxBytes bytes of s, never splitting a UTF-8 sequence,
// and appends TruncatedSuffix when anything was dropped. Unlike SingleLine it
// leaves the text itself untouched.
func Truncate(s string, maxBytes int) string {
	if maxBytes < 0 {
		maxBytes = 0
	}
	if len(s) <= maxBytes {
		return s
	}

	cut := maxBytes
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + TruncatedSuffix
}

// SingleLine collapses all whitespace runs in s (including newlines) into single
// spaces and cuts the result to maxLen runes, marking a cut with "...".
// Limits below MinSummaryLen are raised to it.
func SingleLine(s string, maxLen int) string {
	if maxLen < MinSummaryLen {
		maxLen = MinSummaryLen
	}

	s = strings.Join(strings.Fields(s), " ")

	runes := []rune(s)
	if len(runes) > maxLen {
		return string(runes[:maxLen-3]) + "..."
	}
	return s
}
