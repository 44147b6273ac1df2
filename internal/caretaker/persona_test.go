package caretaker

import (
	"strings"
	"testing"
)

func TestParsePersona(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"decision", "explainer"} {
		p, err := ParsePersona(name)
		if err != nil {
			t.Errorf("ParsePersona(%q) error = %v", name, err)
		}
		if string(p) != name {
			t.Errorf("ParsePersona(%q) = %q", name, p)
		}
	}

	if _, err := ParsePersona("therapist"); err == nil {
		t.Error("expected error for unknown persona")
	}
}

func TestPersona_Instructions_Differ(t *testing.T) {
	t.Parallel()

	dec := PersonaDecision.Instruction()
	exp := PersonaExplainer.Instruction()

	if dec == exp {
		t.Fatal("personas share one instruction; want two distinct contracts")
	}
	if !strings.Contains(dec, `"systemStatus"`) || !strings.Contains(dec, `"action"`) {
		t.Error("decision instruction must demand the full verdict shape")
	}
	if !strings.Contains(exp, "DO NOT CHANGE THE DECISION") {
		t.Error("explainer instruction must forbid re-deciding")
	}
	if strings.Contains(exp, `"systemStatus"`) {
		t.Error("explainer output shape is explanation-only")
	}
}
