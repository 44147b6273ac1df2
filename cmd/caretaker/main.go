// caretaker — one-shot adapter.
// Reads one JSON context object from stdin, runs one inference, prints
// exactly one line of Verdict JSON on stdout, exits. Empty input is a no-op.
// Logs go to stderr only; stdout is the JSON contract.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/matiasleandrokruk/caretaker/internal/caretaker"
	"github.com/matiasleandrokruk/caretaker/internal/diag"
	"github.com/matiasleandrokruk/caretaker/internal/infra/config"
	"github.com/matiasleandrokruk/caretaker/internal/infra/llm"
	"github.com/matiasleandrokruk/caretaker/internal/infra/logging"
	"github.com/matiasleandrokruk/caretaker/internal/infra/sqlite"
	"github.com/matiasleandrokruk/caretaker/internal/version"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout))
}

func run(args []string, stdin io.Reader, stdout io.Writer) int {
	fs := flag.NewFlagSet("caretaker", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	configPath := fs.String("config", "", "Path to YAML config file")
	personaName := fs.String("persona", string(caretaker.PersonaDecision), "Persona: decision or explainer")
	showVersion := fs.Bool("version", false, "Show version information")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *showVersion {
		fmt.Fprintln(stdout, version.String()) //nolint:errcheck
		return 0
	}

	input, err := io.ReadAll(stdin)
	if err != nil {
		return emit(stdout, caretaker.InferenceFallback(err.Error()))
	}
	// Empty input → no-op, no output. Anything else must produce a Verdict.
	if len(input) == 0 {
		return 0
	}

	var contextObject any
	if err := json.Unmarshal(input, &contextObject); err != nil {
		return emit(stdout, caretaker.InferenceFallback(err.Error()))
	}

	log := logging.MustNew("caretaker")
	defer log.Sync() //nolint:errcheck

	ctx := context.Background()
	engine, err := buildEngine(ctx, *configPath, caretaker.Persona(*personaName), log)
	if err != nil {
		log.Error("setup failed", zap.Error(err))
		return emit(stdout, caretaker.InferenceFallback(err.Error()))
	}

	res := engine.Handle(ctx, contextObject)
	return emit(stdout, res.Verdict)
}

// emit prints one compact JSON line. The process never fails past this
// boundary: every non-empty input yields a Verdict and exit code 0.
func emit(stdout io.Writer, v caretaker.Verdict) int {
	json.NewEncoder(stdout).Encode(v) //nolint:errcheck
	return 0
}

// buildEngine assembles the pipeline. The model is attached lazily: the
// single generation call will surface any load failure as an inference
// exception, mirroring the service's startup check in one-shot form.
func buildEngine(ctx context.Context, configPath string, persona caretaker.Persona, log *zap.Logger) (*caretaker.Engine, error) {
	if _, err := caretaker.ParsePersona(string(persona)); err != nil {
		return nil, err
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	router := llm.NewRouter(map[string]llm.Provider{
		"llamacpp": llm.NewLlamaServerProvider(cfg.LlamaBaseURL, cfg.LlamaModel),
		"ollama":   llm.NewOllamaProvider(cfg.OllamaBaseURL, cfg.OllamaModel),
	}, cfg.Provider)
	provider, err := router.Route(ctx)
	if err != nil {
		return nil, err
	}

	opts := []caretaker.Option{caretaker.WithLogger(log)}
	if cfg.DiagDBPath != "" {
		db, dbErr := sqlite.NewDB(cfg.DiagDBPath)
		if dbErr != nil {
			return nil, dbErr
		}
		if migErr := sqlite.MigrateUp(db); migErr != nil {
			return nil, migErr
		}
		// Synchronous store: the process exits right after the verdict, so
		// there is no room for an async consumer to drain.
		store := diag.NewStore(db, string(persona), provider.ModelInfo().Provider, log)
		opts = append(opts, caretaker.WithRecorder(store))
	}

	return caretaker.NewEngine(provider, persona, opts...), nil
}
