// Package pipeline orchestrates a report run: load the vocabulary, load
// the raw dataset, normalize every record, optionally export the cleaned
// batch, and hold the cleaned snapshot for the HTTP API.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/storm-damage-report/internal/domain"
	"github.com/couchcryptid/storm-damage-report/internal/observability"
)

// Source streams raw records from the storm dataset.
type Source interface {
	Records(ctx context.Context) ([]domain.RawRecord, error)
}

// VocabularySource loads the event type vocabulary entries.
type VocabularySource interface {
	Vocabulary(ctx context.Context) ([]domain.VocabularyEntry, error)
}

// Exporter publishes a batch of cleaned records downstream.
type Exporter interface {
	ExportBatch(ctx context.Context, records []domain.StormRecord) error
}

// Pipeline runs the load-normalize cycle and retains the result.
type Pipeline struct {
	source   Source
	vocabSrc VocabularySource
	exporter Exporter // nil when export is disabled

	snapshot atomic.Pointer[[]domain.StormRecord]

	logger  *slog.Logger
	metrics *observability.Metrics
}

// New creates a Pipeline. exporter may be nil to skip publishing.
func New(source Source, vocabSrc VocabularySource, exporter Exporter, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		source:   source,
		vocabSrc: vocabSrc,
		exporter: exporter,
		logger:   logger,
		metrics:  metrics,
	}
}

// CheckReadiness errors until a run has produced a cleaned snapshot.
func (p *Pipeline) CheckReadiness(ctx context.Context) error {
	if p.snapshot.Load() == nil {
		return fmt.Errorf("no cleaned snapshot available yet")
	}
	return nil
}

// Snapshot returns the cleaned records from the last completed run, or
// nil if no run has finished.
func (p *Pipeline) Snapshot() []domain.StormRecord {
	snap := p.snapshot.Load()
	if snap == nil {
		return nil
	}
	return *snap
}

// Run executes one full pipeline cycle and returns the cleaned records.
func (p *Pipeline) Run(ctx context.Context) ([]domain.StormRecord, error) {
	start := time.Now()

	entries, err := p.vocabSrc.Vocabulary(ctx)
	if err != nil {
		return nil, fmt.Errorf("load vocabulary: %w", err)
	}
	vocab, err := domain.CompileVocabulary(entries)
	if err != nil {
		return nil, fmt.Errorf("compile vocabulary: %w", err)
	}

	raws, err := p.source.Records(ctx)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	p.metrics.RecordsRead.Add(float64(len(raws)))

	cleaned := make([]domain.StormRecord, 0, len(raws))
	dropped := 0
	for _, raw := range raws {
		if _, ok := domain.DamageExponent(raw.PropertyUnit); !ok {
			p.metrics.UnitFallbacks.Inc()
		}
		if _, ok := domain.DamageExponent(raw.CropUnit); !ok {
			p.metrics.UnitFallbacks.Inc()
		}

		rec, ok := domain.Clean(raw, vocab)
		if !ok {
			dropped++
			p.metrics.RecordsDropped.Inc()
			p.logger.Debug("dropping unmapped event type", "event_type", raw.EventType)
			continue
		}
		if rec.BeginDate.IsZero() {
			p.metrics.UndatedRecords.Inc()
		}
		cleaned = append(cleaned, rec)
	}
	p.metrics.RecordsCleaned.Add(float64(len(cleaned)))

	if p.exporter != nil {
		if err := p.exporter.ExportBatch(ctx, cleaned); err != nil {
			return nil, fmt.Errorf("export cleaned records: %w", err)
		}
		p.metrics.RecordsExported.Add(float64(len(cleaned)))
	}

	p.snapshot.Store(&cleaned)
	p.metrics.PipelineReady.Set(1)
	p.metrics.RunDuration.Observe(time.Since(start).Seconds())

	p.logger.Info("pipeline run complete",
		"records_read", len(raws),
		"records_cleaned", len(cleaned),
		"records_dropped", dropped,
		"duration", time.Since(start))
	return cleaned, nil
}
