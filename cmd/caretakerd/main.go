// caretakerd — resident inference service.
// Loads (attaches to) the local model once at startup, then serves /inference
// with single-flight generation, plus lock-free /health and /metrics.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/matiasleandrokruk/caretaker/internal/api"
	"github.com/matiasleandrokruk/caretaker/internal/caretaker"
	"github.com/matiasleandrokruk/caretaker/internal/diag"
	"github.com/matiasleandrokruk/caretaker/internal/infra/config"
	"github.com/matiasleandrokruk/caretaker/internal/infra/eventbus"
	"github.com/matiasleandrokruk/caretaker/internal/infra/llm"
	"github.com/matiasleandrokruk/caretaker/internal/infra/logging"
	"github.com/matiasleandrokruk/caretaker/internal/infra/sqlite"
	"github.com/matiasleandrokruk/caretaker/internal/server"
	"github.com/matiasleandrokruk/caretaker/internal/version"
)

// modelAttachTimeout bounds the startup wait for the model runtime to finish
// loading weights (minutes on CPU).
const modelAttachTimeout = 5 * time.Minute

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(args []string, out io.Writer) int {
	fs := flag.NewFlagSet("caretakerd", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	configPath := fs.String("config", "", "Path to YAML config file")
	showVersion := fs.Bool("version", false, "Show version information")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *showVersion {
		fmt.Fprintln(out, version.String()) //nolint:errcheck
		return 0
	}

	log := logging.MustNew("caretakerd")
	defer log.Sync() //nolint:errcheck

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("config load failed", zap.Error(err))
		return 1
	}
	persona, err := caretaker.ParsePersona(cfg.Persona)
	if err != nil {
		log.Error("invalid persona", zap.Error(err))
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	provider, err := buildProvider(ctx, cfg)
	if err != nil {
		log.Error("provider setup failed", zap.Error(err))
		return 1
	}

	// Fatal startup precondition: the service must not accept requests
	// without a loaded model (no partial-availability mode).
	if err := waitForModel(ctx, provider, log); err != nil {
		log.Error("model unavailable at startup", zap.Error(err))
		return 1
	}
	log.Info("model ready",
		zap.String("provider", provider.ModelInfo().Provider),
		zap.String("model", provider.ModelInfo().ID))

	engineOpts := []caretaker.Option{caretaker.WithLogger(log)}
	if cfg.DiagDBPath != "" {
		rec, diagErr := startDiagnostics(ctx, cfg, persona, provider, log)
		if diagErr != nil {
			log.Error("diagnostics setup failed", zap.Error(diagErr))
			return 1
		}
		engineOpts = append(engineOpts, caretaker.WithRecorder(rec))
	}

	engine := caretaker.NewEngine(provider, persona, engineOpts...)
	router := api.NewRouter(engine, provider, log)

	srvCfg := server.DefaultConfig()
	srvCfg.Host = cfg.HTTPHost
	srvCfg.Port = cfg.HTTPPort
	srv := server.NewServer(router, srvCfg, log)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error("server failed", zap.Error(err))
			return 1
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown failed", zap.Error(err))
			return 1
		}
	}
	return 0
}

// buildProvider wires both adapters into the router and returns the
// configured one.
func buildProvider(ctx context.Context, cfg config.Config) (llm.Provider, error) {
	router := llm.NewRouter(map[string]llm.Provider{
		"llamacpp": llm.NewLlamaServerProvider(cfg.LlamaBaseURL, cfg.LlamaModel),
		"ollama":   llm.NewOllamaProvider(cfg.OllamaBaseURL, cfg.OllamaModel),
	}, cfg.Provider)
	return router.Route(ctx)
}

// waitForModel polls the provider health check until the model runtime
// reports ready or the attach timeout expires. Weight loading takes minutes
// on CPU; polling is the only signal the runtime offers.
func waitForModel(ctx context.Context, provider llm.Provider, log *zap.Logger) error {
	ctx, cancel := context.WithTimeout(ctx, modelAttachTimeout)
	defer cancel()

	log.Info("waiting for model runtime")
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	var lastErr error
	for {
		if lastErr = provider.HealthCheck(ctx); lastErr == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("model attach timed out: %w", lastErr)
		case <-ticker.C:
		}
	}
}

// startDiagnostics opens the diagnostics store and wires the async consumer.
func startDiagnostics(ctx context.Context, cfg config.Config, persona caretaker.Persona, provider llm.Provider, log *zap.Logger) (caretaker.EventRecorder, error) {
	db, err := sqlite.NewDB(cfg.DiagDBPath)
	if err != nil {
		return nil, err
	}
	if err := sqlite.MigrateUp(db); err != nil {
		return nil, err
	}

	bus := eventbus.New()
	store := diag.NewStore(db, string(persona), provider.ModelInfo().Provider, log)
	go store.Start(ctx, bus)
	return diag.NewPublisher(bus, string(persona), provider.ModelInfo().Provider), nil
}
