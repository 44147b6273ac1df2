// Package llm — Provider interface.
// Adapters (llama-server, Ollama) implement this interface so the pipeline is
// never coupled to a specific model runtime.
package llm

import "context"

// Provider is the model-agnostic gateway interface.
//
// A Provider handle fronts one loaded model resource. The resource is not
// assumed safe for concurrent generation; serialization is the caller's
// responsibility (the request coordinator holds it behind a mutex).
type Provider interface {
	// ChatCompletion performs a non-streaming chat completion.
	ChatCompletion(ctx context.Context, req ChatRequest) (*ChatResponse, error)

	// ModelInfo returns static metadata about the provider/model.
	ModelInfo() ModelMeta

	// HealthCheck returns nil if the model runtime is reachable and has its
	// weights loaded. Used as a fatal startup precondition by the service.
	HealthCheck(ctx context.Context) error
}
