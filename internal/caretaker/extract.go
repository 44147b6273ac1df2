package caretaker

import (
	"encoding/json"
	"strings"
)

// Kind classifies the outcome of one pipeline run.
type Kind int

const (
	// KindOK — a JSON object was found and parsed; the Verdict is genuine.
	KindOK Kind = iota
	// KindNoJSON — no brace-delimited span in the output; neutral fallback.
	KindNoJSON
	// KindParseError — a span was found but is not valid JSON.
	KindParseError
	// KindInferenceError — prompt construction or generation failed.
	KindInferenceError
)

// String returns the outcome name used in logs, metrics labels and the
// diagnostics log.
func (k Kind) String() string {
	switch k {
	case KindOK:
		return "ok"
	case KindNoJSON:
		return "no_json"
	case KindParseError:
		return "parse_error"
	case KindInferenceError:
		return "inference_error"
	default:
		return "unknown"
	}
}

// Outcome is the tagged result of extraction: always a usable Verdict, plus
// the failure classification and underlying message when not KindOK.
type Outcome struct {
	Kind    Kind
	Verdict Verdict
	Err     string
}

// Extract locates a JSON object inside raw model output and returns it as the
// Verdict. Total function: on failure it returns a fallback Verdict rather
// than an error.
//
// Extraction is greedy: the span runs from the first '{' to the last '}' with
// no brace-balance validation in between. Text carrying stray braces around
// the true object can therefore yield a malformed slice; that case degrades
// to KindParseError, preserving availability over strictness.
func Extract(raw string, persona Persona) Outcome {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end < start {
		return Outcome{Kind: KindNoJSON, Verdict: NoJSONFallback(persona)}
	}

	slice := raw[start : end+1]
	var v Verdict
	if err := json.Unmarshal([]byte(slice), &v); err != nil {
		return Outcome{
			Kind:    KindParseError,
			Verdict: ParseFallback(err.Error()),
			Err:     err.Error(),
		}
	}
	// The parsed object is the Verdict as-is; recognized-field presence is the
	// model's contract, not the extractor's.
	return Outcome{Kind: KindOK, Verdict: v}
}
