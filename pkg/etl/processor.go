// package etl
//
// extract -> transform -> load of one json blob between two storage
// locations. One Run per process, phases never overlap
package etl

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/baderkha/trip-etl/pkg/etl/config"
	"github.com/baderkha/trip-etl/pkg/etl/etlerr"
	"github.com/baderkha/trip-etl/pkg/etl/record"
	"github.com/baderkha/trip-etl/pkg/etl/storage"
	"github.com/baderkha/trip-etl/pkg/etl/transform"
	"github.com/gofrs/uuid"
	"github.com/rs/zerolog"
)

// Runner : runs the pipeline once
type Runner interface {
	Run(ctx context.Context) error
}

// Processor : owns the error boundary of a run. Whatever fails below it
// leaves as an *etlerr.ETLError tagged with the phase
type Processor struct {
	cfg         *config.Config
	gateway     storage.Gateway
	transformer transform.Transformer
	log         zerolog.Logger
	runID       string
}

func NewProcessor(cfg *config.Config, gateway storage.Gateway, transformer transform.Transformer, log zerolog.Logger) *Processor {
	runID := uuid.Must(uuid.NewV4()).String()
	return &Processor{
		cfg:         cfg,
		gateway:     gateway,
		transformer: transformer,
		log:         log.With().Str("component", "processor").Str("run_id", runID).Logger(),
		runID:       runID,
	}
}

// RunID : id attached to every log line of this processor
func (p *Processor) RunID() string {
	return p.runID
}

// Extract : reads the source blob and decodes it into a batch
func (p *Processor) Extract(ctx context.Context) (batch []record.Record, err error) {
	defer guard(etlerr.PhaseExtract, &err)
	if err := ctx.Err(); err != nil {
		return nil, etlerr.Phased(etlerr.PhaseExtract, err)
	}
	p.log.Info().Msg("Starting data extraction")

	content, err := p.gateway.Read(ctx, p.cfg.SourceBucket, p.cfg.SourceKey)
	if err != nil {
		return nil, etlerr.Phased(etlerr.PhaseExtract, err)
	}
	batch, err = record.DecodeBatch(content)
	if err != nil {
		return nil, etlerr.Phased(etlerr.PhaseExtract, err)
	}

	p.log.Info().Int("records", len(batch)).Msgf("Extracted %d records", len(batch))
	return batch, nil
}

// Transform : hands the whole batch to the transformer
func (p *Processor) Transform(ctx context.Context, batch []record.Record) (out []record.Record, err error) {
	defer guard(etlerr.PhaseTransform, &err)
	if err := ctx.Err(); err != nil {
		return nil, etlerr.Phased(etlerr.PhaseTransform, err)
	}
	p.log.Info().Msg("Starting data transformation")

	out, err = p.transformer.TransformBatch(batch)
	if err != nil {
		return nil, etlerr.Phased(etlerr.PhaseTransform, err)
	}

	p.log.Info().Int("records", len(out)).Msgf("Transformed %d records", len(out))
	return out, nil
}

// Load : pretty prints the batch and writes it to the destination in a
// single call
func (p *Processor) Load(ctx context.Context, batch []record.Record) (err error) {
	defer guard(etlerr.PhaseLoad, &err)
	if err := ctx.Err(); err != nil {
		return etlerr.Phased(etlerr.PhaseLoad, err)
	}
	p.log.Info().Msg("Starting data loading")

	content, err := record.EncodeBatch(batch)
	if err != nil {
		return etlerr.Phased(etlerr.PhaseLoad, err)
	}
	if err := p.gateway.Write(ctx, p.cfg.DestinationBucket, p.cfg.DestinationKey, content); err != nil {
		return etlerr.Phased(etlerr.PhaseLoad, err)
	}

	p.log.Info().Int("records", len(batch)).Msgf("Successfully loaded %d records", len(batch))
	return nil
}

// Run : Extract, Transform, Load. Nothing is retried or rolled back
func (p *Processor) Run(ctx context.Context) (err error) {
	start := time.Now()
	defer guard(etlerr.PhaseRun, &err)
	defer func() {
		if err != nil {
			err = asETLError(err)
		}
	}()

	p.log.Info().Msg("Starting ETL pipeline")

	batch, err := p.Extract(ctx)
	if err != nil {
		return err
	}
	batch, err = p.Transform(ctx, batch)
	if err != nil {
		return err
	}
	if err = p.Load(ctx, batch); err != nil {
		return err
	}

	p.log.Info().Dur("took", time.Since(start)).Msg("ETL pipeline completed successfully")
	return nil
}

// guard : a panic inside a phase becomes that phase's ETLError
func guard(phase etlerr.Phase, err *error) {
	if r := recover(); r != nil {
		*err = etlerr.Phased(phase, fmt.Errorf("panic: %v", r))
	}
}

func asETLError(err error) error {
	var etlErr *etlerr.ETLError
	if errors.As(err, &etlErr) {
		return etlErr
	}
	return etlerr.Phased(etlerr.PhaseRun, err)
}

var _ Runner = (*Processor)(nil)
