package quiz

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrUnparsable is returned when no quiz array can be recovered from a
// model response. The caller decides whether to retry with a fresh call.
var ErrUnparsable = errors.New("could not parse quiz")

var codeFenceRe = regexp.MustCompile("(?s)^```(?:json)?\\s*(.*?)\\s*```$")

// Parse extracts a quiz array from raw model output. Phase 1 decodes the
// trimmed response directly; phase 2 falls back to the broadest balanced
// bracket span, which survives prose or commentary around the array.
func Parse(response string) (Quiz, error) {
	text := strings.TrimSpace(response)
	if m := codeFenceRe.FindStringSubmatch(text); len(m) > 1 {
		text = m[1]
	}

	var items Quiz
	if err := json.Unmarshal([]byte(text), &items); err == nil {
		return items, nil
	}

	span, ok := bracketSpan(text)
	if !ok {
		return nil, fmt.Errorf("%w: no JSON array in response", ErrUnparsable)
	}
	if err := json.Unmarshal([]byte(span), &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnparsable, err)
	}
	return items, nil
}

// bracketSpan returns the substring from the first '[' to its matching ']'.
// It counts nesting and skips brackets inside JSON strings, so a nested
// array or a bracket in an option text does not truncate the span.
func bracketSpan(text string) (string, bool) {
	start := strings.IndexByte(text, '[')
	if start < 0 {
		return "", false
	}

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
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}
