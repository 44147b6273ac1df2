package caretaker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/matiasleandrokruk/caretaker/internal/infra/llm"
	"github.com/matiasleandrokruk/caretaker/internal/metrics"
)

// Generation parameters, fixed for every request. Low temperature biases the
// model toward literal JSON; the stop sequences cut generation once the
// object is likely complete.
const (
	genTemperature float32 = 0.2
	genMaxTokens           = 200
)

func generationStops() []string {
	return []string{"```", "\n\n"}
}

// EventRecorder receives best-effort diagnostics for each finished request.
// Implementations must never fail the request; errors stay internal.
type EventRecorder interface {
	Record(ctx context.Context, kind, detail, rawOutput string)
}

// Result is what Handle returns: always a well-formed Verdict, plus the
// outcome classification so transport adapters can map status codes.
type Result struct {
	Verdict Verdict
	Kind    Kind
	Err     string
}

// Engine is the request coordinator. It serializes access to one model
// provider handle and orchestrates prompt building, generation and
// extraction. Handle never returns an error: every failure is folded into a
// fallback Verdict.
type Engine struct {
	mu       sync.Mutex
	provider llm.Provider
	persona  Persona
	log      *zap.Logger
	rec      EventRecorder
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the structured logger (default: no-op).
func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// WithRecorder attaches a best-effort diagnostics recorder.
func WithRecorder(rec EventRecorder) Option {
	return func(e *Engine) { e.rec = rec }
}

// NewEngine creates an Engine bound to one provider handle and one persona.
func NewEngine(provider llm.Provider, persona Persona, opts ...Option) *Engine {
	e := &Engine{
		provider: provider,
		persona:  persona,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Persona returns the persona this engine was configured with.
func (e *Engine) Persona() Persona {
	return e.persona
}

// Handle runs one full inference request: build prompt, generate, extract.
//
// The mutex is held from prompt building through extraction — at most one
// generation is in flight per Engine; concurrent callers queue on the lock
// with no timeout and no cancellation of in-flight work.
func (e *Engine) Handle(ctx context.Context, contextObject any) Result {
	waitStart := time.Now()
	e.mu.Lock()
	defer e.mu.Unlock()
	metrics.ObserveQueueWait(time.Since(waitStart))

	res := e.run(ctx, contextObject)

	metrics.IncInference(res.Kind.String())
	return res
}

// run executes the pipeline under the lock.
func (e *Engine) run(ctx context.Context, contextObject any) Result {
	prompt, err := BuildPrompt(e.persona.Instruction(), contextObject)
	if err != nil {
		return e.fail(ctx, err)
	}

	e.log.Info("running local inference",
		zap.String("provider", e.provider.ModelInfo().Provider),
		zap.String("persona", string(e.persona)))

	genStart := time.Now()
	resp, err := e.provider.ChatCompletion(ctx, llm.ChatRequest{
		Messages:    []llm.Message{{Role: "user", Content: prompt}},
		Temperature: genTemperature,
		MaxTokens:   genMaxTokens,
		Stop:        generationStops(),
	})
	metrics.ObserveGeneration(time.Since(genStart))
	if err != nil {
		return e.fail(ctx, err)
	}

	e.log.Debug("raw model output", zap.String("output", truncate(resp.Content, 100)))

	out := Extract(resp.Content, e.persona)
	if out.Kind != KindOK {
		e.log.Warn("model output degraded to fallback",
			zap.String("outcome", out.Kind.String()),
			zap.String("error", out.Err))
	}
	e.record(ctx, out.Kind, out.Err, resp.Content)
	return Result{Verdict: out.Verdict, Kind: out.Kind, Err: out.Err}
}

// fail maps a prompt or generation error to the inference-exception fallback.
// This is a distinct category from extraction failures: the generation step
// itself failed, not merely its output shape.
func (e *Engine) fail(ctx context.Context, err error) Result {
	e.log.Error("inference failed", zap.Error(err))
	e.record(ctx, KindInferenceError, err.Error(), "")
	return Result{
		Verdict: InferenceFallback(err.Error()),
		Kind:    KindInferenceError,
		Err:     err.Error(),
	}
}

func (e *Engine) record(ctx context.Context, kind Kind, detail, rawOutput string) {
	if e.rec == nil {
		return
	}
	e.rec.Record(ctx, kind.String(), detail, truncate(rawOutput, 2000))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
