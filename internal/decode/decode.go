// Package decode parses JSON values out of language-model text output.
// Every model call site in the app shares the same fallback order: strict
// parse, then a fenced code block, then the outermost brace/bracket block.
package decode

import (
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"
)

// ErrNoJSON is returned when no candidate JSON value is present in the text.
var ErrNoJSON = eris.New("decode: no JSON value in model output")

// Object decodes the first JSON object found in text into v.
func Object(text string, v any) error {
	return decodeValue(text, "{", "}", v)
}

// Array decodes the first JSON array found in text into v.
func Array(text string, v any) error {
	return decodeValue(text, "[", "]", v)
}

func decodeValue(text, open, close string, v any) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrNoJSON
	}

	// Strict parse first: well-behaved model output is plain JSON.
	if err := json.Unmarshal([]byte(text), v); err == nil {
		return nil
	}

	// A fenced block, if present, takes priority over raw brace matching so
	// surrounding prose with stray braces cannot win.
	if fenced, ok := stripFence(text); ok {
		if err := json.Unmarshal([]byte(fenced), v); err == nil {
			return nil
		}
		text = fenced
	}

	start := strings.Index(text, open)
	end := strings.LastIndex(text, close)
	if start < 0 || end <= start {
		return ErrNoJSON
	}
	if err := json.Unmarshal([]byte(text[start:end+1]), v); err != nil {
		return eris.Wrap(err, "decode: extracted block")
	}
	return nil
}

// stripFence removes a surrounding markdown code fence, with or without a
// language tag.
func stripFence(text string) (string, bool) {
	start := strings.Index(text, "```")
	if start < 0 {
		return "", false
	}
	rest := text[start+3:]
	if nl := strings.Index(rest, "\n"); nl >= 0 {
		// Drop the language tag line ("json", "JSON", or empty).
		tag := strings.TrimSpace(rest[:nl])
		if len(tag) <= 8 {
			rest = rest[nl+1:]
		}
	}
	end := strings.Index(rest, "```")
	if end < 0 {
		return strings.TrimSpace(rest), true
	}
	return strings.TrimSpace(rest[:end]), true
}
