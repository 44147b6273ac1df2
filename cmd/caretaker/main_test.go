package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRun_Version_PrintsVersion(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	code := run([]string{"--version"}, strings.NewReader(""), &out)

	if code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if !strings.Contains(out.String(), "caretaker version") {
		t.Fatalf("expected version output, got %q", out.String())
	}
}

func TestRun_InvalidFlag_Returns2(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	code := run([]string{"--unknown-flag"}, strings.NewReader(""), &out)

	if code != 2 {
		t.Fatalf("expected exit code 2, got %d", code)
	}
}

func TestRun_EmptyStdin_NoOutput(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	code := run([]string{}, strings.NewReader(""), &out)

	if code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if out.Len() != 0 {
		t.Fatalf("expected no output for empty stdin, got %q", out.String())
	}
}

func TestRun_InvalidJSONInput_InferenceExceptionVerdict(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	code := run([]string{}, strings.NewReader("not json"), &out)

	if code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}

	var verdict map[string]any
	if err := json.Unmarshal(out.Bytes(), &verdict); err != nil {
		t.Fatalf("output is not valid JSON: %v (%q)", err, out.String())
	}
	expl, _ := verdict["explanation"].(string)
	if !strings.HasPrefix(expl, "Reason: Inference exception") {
		t.Errorf("explanation = %q; want inference exception prefix", expl)
	}
}

func TestRun_UnknownPersona_InferenceExceptionVerdict(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	code := run([]string{"--persona", "therapist"}, strings.NewReader(`{"sleepHours":3}`), &out)

	if code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	var verdict map[string]any
	if err := json.Unmarshal(out.Bytes(), &verdict); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if verdict["systemStatus"] != "Error" {
		t.Errorf("systemStatus = %v; want Error", verdict["systemStatus"])
	}
}

func TestRun_EndToEnd_FakeModelServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			http.Error(w, "unexpected path", http.StatusNotFound)
			return
		}
		content := "```json\n{\"systemStatus\":\"Fatigued\",\"action\":\"Rest\",\"explanation\":\"Reason: low sleep.\"}\n```"
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
			"choices": []any{map[string]any{
				"message":       map[string]any{"role": "assistant", "content": content},
				"finish_reason": "stop",
			}},
		})
	}))
	defer srv.Close()

	t.Setenv("CARETAKER_PROVIDER", "llamacpp")
	t.Setenv("CARETAKER_LLAMA_BASE_URL", srv.URL)

	var out bytes.Buffer
	code := run([]string{}, strings.NewReader(`{"sleepHours":3}`), &out)

	if code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if got := strings.Count(out.String(), "\n"); got != 1 {
		t.Fatalf("expected exactly one output line, got %d (%q)", got, out.String())
	}

	var verdict map[string]any
	if err := json.Unmarshal(out.Bytes(), &verdict); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if verdict["systemStatus"] != "Fatigued" {
		t.Errorf("systemStatus = %v; want Fatigued", verdict["systemStatus"])
	}
	if verdict["action"] != "Rest" {
		t.Errorf("action = %v; want Rest", verdict["action"])
	}
}

func TestRun_ModelUnreachable_InferenceExceptionVerdict(t *testing.T) {
	t.Setenv("CARETAKER_PROVIDER", "llamacpp")
	t.Setenv("CARETAKER_LLAMA_BASE_URL", "http://127.0.0.1:1")

	var out bytes.Buffer
	code := run([]string{}, strings.NewReader(`{"sleepHours":3}`), &out)

	if code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	var verdict map[string]any
	if err := json.Unmarshal(out.Bytes(), &verdict); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	expl, _ := verdict["explanation"].(string)
	if !strings.HasPrefix(expl, "Reason: Inference exception") {
		t.Errorf("explanation = %q; want inference exception prefix", expl)
	}
}
