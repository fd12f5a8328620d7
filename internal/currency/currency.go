// Package currency holds pure token-level helpers: currency hint detection
// and character-level OCR error correction for individual tokens.
package currency

import (
	"regexp"
	"strconv"
	"strings"
)

// Patterns that signal Indian rupees in OCR text: the symbol, the ISO code,
// and common abbreviations. First match wins; matching is case-insensitive.
var rupeePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bINR\b`),
	regexp.MustCompile(`₹`),
	regexp.MustCompile(`(?i)\bRs\b`),
	regexp.MustCompile(`(?i)\bRs\.`),
	regexp.MustCompile(`(?i)\bRs:`),
}

// Guess scans joined OCR text for a currency marker and returns the ISO code.
// ok is false when no pattern matches.
func Guess(text string) (code string, ok bool) {
	for _, pat := range rupeePatterns {
		if pat.MatchString(text) {
			return "INR", true
		}
	}
	return "", false
}

// digitFixes maps characters tesseract commonly confuses for digits.
var digitFixes = map[rune]rune{
	'l': '1',
	'I': '1',
	'O': '0',
	'o': '0',
	'S': '5',
	's': '5',
	'|': '1',
}

var nonNumeric = regexp.MustCompile(`[^0-9.%]`)

// CleanToken applies the fixed character substitution table to a single token
// and strips everything that is not a digit, dot, or percent sign. It is a
// fallback for the model-driven normalization stage, which handles the same
// confusions with surrounding context.
func CleanToken(tok string) string {
	var b strings.Builder
	b.Grow(len(tok))
	for _, r := range tok {
		if fixed, ok := digitFixes[r]; ok {
			r = fixed
		}
		b.WriteRune(r)
	}
	return nonNumeric.ReplaceAllString(b.String(), "")
}

// IsPercent reports whether a token denotes a percentage.
func IsPercent(tok string) bool {
	return strings.HasSuffix(strings.TrimSpace(tok), "%")
}

// NumericValue parses a cleaned token as a number, tolerating thousands
// separators and a trailing percent sign.
func NumericValue(tok string) (float64, bool) {
	t := strings.TrimSpace(tok)
	if t == "" {
		return 0, false
	}
	t = strings.TrimSuffix(t, "%")
	t = strings.ReplaceAll(t, ",", "")
	v, err := strconv.ParseFloat(t, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
