// Package llm defines the model gateway abstraction over a locally hosted
// language model. All types here are shared between the provider interface
// and its adapters.
package llm

// Message represents a single turn in a conversation (role + content).
type Message struct {
	Role    string // "system" | "user" | "assistant"
	Content string
}

// ChatRequest is the input for a non-streaming chat completion.
type ChatRequest struct {
	// Model overrides the provider default when non-empty.
	Model       string
	Messages    []Message
	Temperature float32
	MaxTokens   int
	// Stop truncates generation at the first matching sequence. The pipeline
	// passes a code-fence marker and a blank line to cut the model off once
	// the JSON object is likely complete.
	Stop []string
}

// ChatResponse is the output from a non-streaming chat completion.
type ChatResponse struct {
	Content    string // The assistant message text.
	StopReason string // "stop" | "length" | "error"
	Tokens     int    // Total tokens consumed (prompt + completion).
}

// ModelMeta describes the model / provider identity reported by /health.
type ModelMeta struct {
	ID        string // e.g. "local-mistral", "llama3.2:3b"
	Provider  string // e.g. "llamacpp", "ollama"
	Version   string
	MaxTokens int // Maximum context window size.
}
