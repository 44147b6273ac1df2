package caretaker

// Verdict is the canonical response shape: a JSON object with the recognized
// keys systemStatus, action and explanation. Field presence is not enforced —
// an explainer-mode response may carry only explanation. Every external
// response, genuine or fallback, is a Verdict.
type Verdict map[string]any

// Recognized Verdict keys.
const (
	KeySystemStatus = "systemStatus"
	KeyAction       = "action"
	KeyExplanation  = "explanation"
)

// NoJSONFallback is returned when generation succeeded but the output contains
// no JSON object delimiters. The wording differs per persona: the decision
// persona asks the user to review the log, the explainer persona reports a
// completed check.
func NoJSONFallback(p Persona) Verdict {
	if p == PersonaExplainer {
		return Verdict{
			KeySystemStatus: "Monitoring.",
			KeyAction:       "Continue normal activities.",
			KeyExplanation:  "Reason: System check complete.",
		}
	}
	return Verdict{
		KeySystemStatus: "Monitoring.",
		KeyAction:       "Review log.",
		KeyExplanation:  "Reason: Output parsing error.",
	}
}

// ParseFallback is returned when a brace-delimited slice was found but failed
// to parse as JSON. msg is the parser's failure message.
func ParseFallback(msg string) Verdict {
	return Verdict{
		KeySystemStatus: "Error",
		KeyAction:       "None",
		KeyExplanation:  "Reason: Parsing exception " + msg,
	}
}

// InferenceFallback is returned when prompt construction or generation itself
// failed, as opposed to the output merely being malformed.
func InferenceFallback(msg string) Verdict {
	return Verdict{
		KeySystemStatus: "Error",
		KeyAction:       "None",
		KeyExplanation:  "Reason: Inference exception " + msg,
	}
}

// ServiceErrorEnvelope is the Verdict body the HTTP adapter sends with a 500
// status when the pipeline failed outright.
func ServiceErrorEnvelope(msg string) Verdict {
	return Verdict{
		KeySystemStatus: "Error. Monitoring active.",
		KeyAction:       "None.",
		KeyExplanation:  "Reason: " + msg,
	}
}
