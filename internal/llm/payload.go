package llm

import "strings"

// ExtractPayload locates the first self-balanced {...} span in a model
// response. Responses are expected to embed exactly one JSON object in
// surrounding prose or markdown fencing; naive first-brace/last-brace slicing
// breaks when the document text itself contains braces, so the scan tracks
// nesting depth and skips brace characters inside JSON strings. Decoding the
// returned span is the caller's second step.
func ExtractPayload(text string) ([]byte, bool) {
	for start := strings.IndexByte(text, '{'); start >= 0; {
		if end, ok := scanBalanced(text, start); ok {
			return []byte(text[start : end+1]), true
		}
		next := strings.IndexByte(text[start+1:], '{')
		if next < 0 {
			break
		}
		start += 1 + next
	}
	return nil, false
}

// scanBalanced walks from the opening brace at start and returns the index of
// the brace that closes it.
func scanBalanced(text string, start int) (int, bool) {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}
