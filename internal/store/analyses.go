package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/jask/mispricing/internal/analysis"
	"github.com/jask/mispricing/internal/database/repository"
)

// StorageKey is the single durable key holding the analyses snapshot.
const StorageKey = "mispricingDetectiveAnalyses"

// schemaVersion is the current envelope layout. Version 0 is the legacy
// bare ticker→record map and is upgraded on load.
const schemaVersion = 1

// ErrFutureSchema reports a blob written by a newer build.
var ErrFutureSchema = errors.New("analyses blob has a newer schema version")

// KV is the durable byte-string service backing the repository. Get must
// return an error wrapping repository.ErrKeyNotFound for absent keys.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}

// Analyses maps ticker → saved record, preserving insertion order for
// display. Mutating methods return a new value; the zero-ish store from
// NewAnalyses is ready to use.
type Analyses struct {
	records map[string]analysis.Record
	order   []string
}

// NewAnalyses returns an empty store.
func NewAnalyses() *Analyses {
	return &Analyses{records: map[string]analysis.Record{}}
}

// Get looks up the record for a ticker.
func (a *Analyses) Get(ticker string) (analysis.Record, bool) {
	r, ok := a.records[ticker]
	return r, ok
}

// Has reports whether a ticker has a saved record.
func (a *Analyses) Has(ticker string) bool {
	_, ok := a.records[ticker]
	return ok
}

// Len returns the number of saved records.
func (a *Analyses) Len() int { return len(a.records) }

// Tickers returns tickers in insertion order.
func (a *Analyses) Tickers() []string {
	out := make([]string, len(a.order))
	copy(out, a.order)
	return out
}

// Upsert returns a new store with the ticker's record replaced wholesale.
// A first save appends the ticker to the display order; re-saves keep it in
// place. The receiver is left untouched.
func (a *Analyses) Upsert(ticker string, rec analysis.Record) *Analyses {
	out := &Analyses{
		records: make(map[string]analysis.Record, len(a.records)+1),
		order:   make([]string, len(a.order), len(a.order)+1),
	}
	for k, v := range a.records {
		out.records[k] = v
	}
	copy(out.order, a.order)
	if _, exists := out.records[ticker]; !exists {
		out.order = append(out.order, ticker)
	}
	out.records[ticker] = rec
	return out
}

// envelope is the durable JSON layout.
type envelope struct {
	SchemaVersion int                        `json:"schemaVersion"`
	Analyses      map[string]analysis.Record `json:"analyses"`
	Order         []string                   `json:"order,omitempty"`
}

// Repository owns the analyses snapshot and its durable mirror.
type Repository struct {
	kv  KV
	key string
	log *logrus.Logger
}

// NewRepository wires the repository over a byte-string KV service.
func NewRepository(kv KV, log *logrus.Logger) *Repository {
	return &Repository{kv: kv, key: StorageKey, log: log}
}

// LoadAll reads the durable snapshot. An absent key yields an empty store.
// A malformed or future-versioned blob also yields an empty store plus the
// read error; callers keep running and may surface the degradation once.
func (r *Repository) LoadAll(ctx context.Context) (*Analyses, error) {
	raw, err := r.kv.Get(ctx, r.key)
	if err != nil {
		if errors.Is(err, repository.ErrKeyNotFound) {
			return NewAnalyses(), nil
		}
		r.log.WithError(err).Warn("analyses snapshot read failed")
		return NewAnalyses(), fmt.Errorf("read analyses snapshot: %w", err)
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)
	switch {
	case decodeErr == nil && env.SchemaVersion == schemaVersion && env.Analyses != nil:
		// current layout
	case decodeErr == nil && env.SchemaVersion > schemaVersion:
		r.log.WithField("version", env.SchemaVersion).Warn("analyses snapshot from a newer build")
		return NewAnalyses(), fmt.Errorf("load analyses: %w", ErrFutureSchema)
	default:
		// legacy version-0 blob: a bare ticker→record map
		var legacy map[string]analysis.Record
		if err := json.Unmarshal(raw, &legacy); err != nil || legacy == nil {
			r.log.WithError(decodeErr).Warn("analyses snapshot malformed, starting empty")
			return NewAnalyses(), fmt.Errorf("decode analyses snapshot: %w", errOrDefault(decodeErr, err))
		}
		env = envelope{SchemaVersion: schemaVersion, Analyses: legacy}
		r.log.WithField("records", len(legacy)).Info("migrated legacy analyses snapshot")
	}

	out := NewAnalyses()
	seen := map[string]bool{}
	for _, t := range env.Order {
		if rec, ok := env.Analyses[t]; ok && !seen[t] {
			out = out.Upsert(t, rec)
			seen[t] = true
		}
	}
	// records missing from the order list (legacy blobs) still load
	for t, rec := range env.Analyses {
		if !seen[t] {
			out = out.Upsert(t, rec)
		}
	}
	return out, nil
}

// Persist serializes and writes the full store. An empty store is never
// written: a fresh session must not clobber a previously saved snapshot
// with stale empty state before its own first save.
func (r *Repository) Persist(ctx context.Context, a *Analyses) error {
	if a.Len() == 0 {
		return nil
	}
	env := envelope{
		SchemaVersion: schemaVersion,
		Analyses:      a.records,
		Order:         a.order,
	}
	raw, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("encode analyses snapshot: %w", err)
	}
	if err := r.kv.Set(ctx, r.key, raw); err != nil {
		r.log.WithError(err).Error("analyses snapshot write failed")
		return fmt.Errorf("write analyses snapshot: %w", err)
	}
	return nil
}

func errOrDefault(primary, fallback error) error {
	if primary != nil {
		return primary
	}
	return fallback
}
