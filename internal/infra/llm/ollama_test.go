// Unit tests for OllamaProvider.
// Uses httptest.NewServer to mock the Ollama HTTP API — no real Ollama needed.
package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOllamaProvider_ChatCompletion_Success(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" || r.Method != http.MethodPost {
			http.Error(w, "unexpected path", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(ollamaChatResponse{ //nolint:errcheck
			Message:    ollamaChatMessage{Role: "assistant", Content: `{"action":"Rest"}`},
			DoneReason: "stop",
			Done:       true,
		})
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "mistral:7b-instruct")
	resp, err := p.ChatCompletion(context.Background(), ChatRequest{
		Messages: []Message{{Role: "user", Content: "hello"}},
	})
	if err != nil {
		t.Fatalf("ChatCompletion failed: %v", err)
	}
	if resp.Content != `{"action":"Rest"}` {
		t.Errorf("Content = %q", resp.Content)
	}
	if resp.StopReason != "stop" {
		t.Errorf("StopReason = %q; want stop", resp.StopReason)
	}
}

func TestOllamaProvider_ChatCompletion_StopSequencesInOptions(t *testing.T) {
	t.Parallel()

	var captured ollamaChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&captured) //nolint:errcheck
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(ollamaChatResponse{Message: ollamaChatMessage{Content: "{}"}}) //nolint:errcheck
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "mistral:7b-instruct")
	_, err := p.ChatCompletion(context.Background(), ChatRequest{
		Messages:    []Message{{Role: "user", Content: "x"}},
		Temperature: 0.2,
		MaxTokens:   200,
		Stop:        []string{"```", "\n\n"},
	})
	if err != nil {
		t.Fatalf("ChatCompletion failed: %v", err)
	}

	if captured.Options == nil {
		t.Fatal("options not sent")
	}
	stop, ok := captured.Options["stop"].([]any)
	if !ok || len(stop) != 2 {
		t.Errorf("options.stop = %v; want both stop sequences", captured.Options["stop"])
	}
	if captured.Options["num_predict"] != float64(200) {
		t.Errorf("options.num_predict = %v; want 200", captured.Options["num_predict"])
	}
}

func TestOllamaProvider_ChatCompletion_ServerError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "mistral:7b-instruct")
	if _, err := p.ChatCompletion(context.Background(), ChatRequest{}); err == nil {
		t.Error("expected error for 404 response, got nil")
	}
}

func TestOllamaProvider_HealthCheck_Success(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			http.Error(w, "unexpected path", http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "mistral:7b-instruct")
	if err := p.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck error = %v; want nil", err)
	}
}

func TestOllamaProvider_HealthCheck_Unreachable(t *testing.T) {
	t.Parallel()

	p := NewOllamaProvider("http://127.0.0.1:1", "mistral:7b-instruct")
	if err := p.HealthCheck(context.Background()); err == nil {
		t.Error("expected error for unreachable host, got nil")
	}
}

func TestOllamaProvider_ModelInfo(t *testing.T) {
	t.Parallel()

	p := NewOllamaProvider("http://localhost:11434", "mistral:7b-instruct")
	meta := p.ModelInfo()

	if meta.Provider != "ollama" {
		t.Errorf("Provider = %q; want ollama", meta.Provider)
	}
	if meta.ID != "mistral:7b-instruct" {
		t.Errorf("ID = %q; want mistral:7b-instruct", meta.ID)
	}
}
