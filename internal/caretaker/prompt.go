package caretaker

import (
	"encoding/json"
	"fmt"
)

// BuildPrompt assembles the full prompt text from a system instruction and an
// opaque context object. The context is serialized as pretty-printed JSON and
// embedded verbatim; it is read by the model as text, never re-parsed.
//
// Pure function. The only failure mode is a non-serializable context object.
func BuildPrompt(instruction string, contextObject any) (string, error) {
	data, err := json.MarshalIndent(contextObject, "", "  ")
	if err != nil {
		return "", fmt.Errorf("serialize context object: %w", err)
	}
	return instruction + "\n\nINPUT DATA:\n" + string(data) + "\n\nDECISION (JSON):", nil
}
