// Route registration and go-chi router setup.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/matiasleandrokruk/caretaker/internal/api/handlers"
	"github.com/matiasleandrokruk/caretaker/internal/infra/llm"
)

// NewRouter creates and configures the chi router.
//
// /health and /metrics never touch the inference engine or its lock: both
// must answer while a generation is in flight.
func NewRouter(engine handlers.InferenceService, provider llm.Provider, log *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware (runs on all routes)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	// Liveness probe — unauthenticated, lock-free, used by upstream callers
	// to detect when the model is up.
	providerID := provider.ModelInfo().ID
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","provider":"` + providerID + `"}`)) //nolint:errcheck
	})

	r.Handle("/metrics", promhttp.Handler())

	inferenceHandler := handlers.NewInferenceHandler(engine, log)
	r.Post("/inference", inferenceHandler.Inference) // POST /inference

	return r
}
