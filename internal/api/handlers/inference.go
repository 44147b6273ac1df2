package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/matiasleandrokruk/caretaker/internal/caretaker"
)

// InferenceService is the coordinator contract the handler depends on.
type InferenceService interface {
	Handle(ctx context.Context, contextObject any) caretaker.Result
}

// InferenceHandler serves POST /inference.
type InferenceHandler struct {
	engine InferenceService
	log    *zap.Logger
}

// NewInferenceHandler creates an InferenceHandler.
func NewInferenceHandler(engine InferenceService, log *zap.Logger) *InferenceHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &InferenceHandler{engine: engine, log: log}
}

// Inference runs one request through the pipeline.
//
// Status mapping: soft degradations (unparseable model output) stay 200 with
// a fallback Verdict; only failures of the generation step itself — including
// an unreadable request body — surface as 500, with an error-shaped Verdict
// so the caller still receives valid JSON.
func (h *InferenceHandler) Inference(w http.ResponseWriter, r *http.Request) {
	var contextObject any
	if err := json.NewDecoder(r.Body).Decode(&contextObject); err != nil {
		h.log.Error("invalid inference request body", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, caretaker.ServiceErrorEnvelope(err.Error()))
		return
	}

	res := h.engine.Handle(r.Context(), contextObject)
	if res.Kind == caretaker.KindInferenceError {
		writeJSON(w, http.StatusInternalServerError, caretaker.ServiceErrorEnvelope(res.Err))
		return
	}
	writeJSON(w, http.StatusOK, res.Verdict)
}
