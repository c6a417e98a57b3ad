package dispatcher

import (
	"context"
	"time"

	"github.com/zerotwo/meteo-collector/internal/reading"
)

// ReadingStore persists canonical readings.
type ReadingStore interface {
	UpsertReading(ctx context.Context, r *reading.Reading) error
}

// Aggregator recomputes the rollup buckets containing an instant.
type Aggregator interface {
	RecomputeHourly(ctx context.Context, stationID int64, instant time.Time) error
	RecomputeDaily(ctx context.Context, stationID int64, instant time.Time) error
}

// Pipeline runs one message through assembly, persistence and aggregation.
// The first failing stage ends processing for that message.
type Pipeline struct {
	assembler *reading.Assembler
	store     ReadingStore
	engine    Aggregator
}

// NewPipeline wires the per-message processing stages.
func NewPipeline(assembler *reading.Assembler, store ReadingStore, engine Aggregator) *Pipeline {
	return &Pipeline{assembler: assembler, store: store, engine: engine}
}

// Process validates and stores one raw payload, then recomputes the hourly
// and daily buckets its instant falls in.
func (p *Pipeline) Process(ctx context.Context, stationID int64, payload []byte) error {
	rec, err := p.assembler.Assemble(ctx, stationID, payload)
	if err != nil {
		return err
	}
	if err := p.store.UpsertReading(ctx, rec); err != nil {
		return err
	}
	if err := p.engine.RecomputeHourly(ctx, stationID, rec.Timestamp); err != nil {
		return err
	}
	return p.engine.RecomputeDaily(ctx, stationID, rec.Timestamp)
}
