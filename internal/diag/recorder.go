// Package diag records per-request diagnostics to SQLite.
// All writes are append-only and best-effort: a failed or dropped write never
// reaches the request path. Diagnostics is a debugging aid, not part of the
// response contract.
package diag

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"

	"github.com/matiasleandrokruk/caretaker/internal/infra/eventbus"
	"github.com/matiasleandrokruk/caretaker/pkg/uuid"
)

// TopicInference is the bus topic for finished inference requests.
const TopicInference = "inference.completed"

// Event describes one finished inference request.
type Event struct {
	Kind      string // ok | no_json | parse_error | inference_error
	Persona   string
	Provider  string
	Detail    string // parser / generation error message, if any
	RawOutput string // truncated raw model output
}

// Publisher forwards engine events onto the bus without blocking the request.
// It satisfies the engine's recorder contract.
type Publisher struct {
	bus      eventbus.EventBus
	persona  string
	provider string
}

// NewPublisher creates a Publisher stamped with the deployment's persona and
// provider identity.
func NewPublisher(bus eventbus.EventBus, persona, provider string) *Publisher {
	return &Publisher{bus: bus, persona: persona, provider: provider}
}

// Record publishes one event. Fire-and-forget: if the consumer is behind the
// event is dropped.
func (p *Publisher) Record(_ context.Context, kind, detail, rawOutput string) {
	p.bus.Publish(TopicInference, Event{
		Kind:      kind,
		Persona:   p.persona,
		Provider:  p.provider,
		Detail:    detail,
		RawOutput: rawOutput,
	})
}

// Store persists events to the diagnostics database.
type Store struct {
	db       *sql.DB
	persona  string
	provider string
	log      *zap.Logger
}

// NewStore creates a Store. log may not be nil; pass zap.NewNop() to silence it.
func NewStore(db *sql.DB, persona, provider string, log *zap.Logger) *Store {
	return &Store{db: db, persona: persona, provider: provider, log: log}
}

// Start consumes inference events from the bus until ctx is done.
// Run in a goroutine: go store.Start(ctx, bus).
func (s *Store) Start(ctx context.Context, bus eventbus.EventBus) {
	events := bus.Subscribe(TopicInference)
	for {
		select {
		case <-ctx.Done():
			return
		case evt := <-events:
			e, ok := evt.Payload.(Event)
			if !ok {
				continue
			}
			s.insert(ctx, e)
		}
	}
}

// Record writes one event synchronously. Used by the one-shot adapter, which
// exits before an async consumer could drain the bus. Satisfies the engine's
// recorder contract; failures are logged and swallowed.
func (s *Store) Record(ctx context.Context, kind, detail, rawOutput string) {
	s.insert(ctx, Event{
		Kind:      kind,
		Persona:   s.persona,
		Provider:  s.provider,
		Detail:    detail,
		RawOutput: rawOutput,
	})
}

// insert appends one row, best-effort.
func (s *Store) insert(ctx context.Context, e Event) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO inference_events (id, kind, persona, provider, detail, raw_output, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		uuid.NewV7().String(),
		e.Kind,
		e.Persona,
		e.Provider,
		e.Detail,
		e.RawOutput,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		s.log.Warn("diagnostics write failed", zap.Error(err))
	}
}

// CountByKind returns the number of recorded events per outcome kind.
// Operator/test helper; not on the request path.
func (s *Store) CountByKind(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT kind, COUNT(*) FROM inference_events GROUP BY kind")
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	out := map[string]int{}
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, err
		}
		out[kind] = n
	}
	return out, rows.Err()
}
