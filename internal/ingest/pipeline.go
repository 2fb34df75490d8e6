package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"insights-dashboard/internal/logger"
	"insights-dashboard/internal/metrics"
	"insights-dashboard/internal/model"
)

const (
	defaultBatchSize         = 500
	defaultChannelBuffer     = 100
	defaultValidationWorkers = 3
	defaultTransformWorkers  = 2
	defaultJobTimeout        = 5 * time.Minute
	maxReportedErrors        = 20
)

// Sink stores transformed records
type Sink interface {
	Insert(ctx context.Context, records []model.Record) (int, error)
}

// Runner executes import jobs
type Runner struct {
	sink    Sink
	metrics *metrics.Metrics
	log     logger.Logger
}

// NewRunner creates a runner that writes to sink
func NewRunner(sink Sink, m *metrics.Metrics, log logger.Logger) *Runner {
	return &Runner{sink: sink, metrics: m, log: log}
}

func applyDefaults(job *model.ImportJob) {
	if job.BatchSize <= 0 {
		job.BatchSize = defaultBatchSize
	}
	if job.ChannelBufferSize <= 0 {
		job.ChannelBufferSize = defaultChannelBuffer
	}
	if job.Workers.Validation <= 0 {
		job.Workers.Validation = defaultValidationWorkers
	}
	if job.Workers.Transform <= 0 {
		job.Workers.Transform = defaultTransformWorkers
	}
	if job.Timeout <= 0 {
		job.Timeout = defaultJobTimeout
	}
}

// Run imports every source of job. Invalid rows are skipped and reported in
// the result; unreadable sources and store failures fail the run. Batches
// stored before a failure stay stored.
func (r *Runner) Run(ctx context.Context, job model.ImportJob) (model.ImportResult, error) {
	if len(job.Sources) == 0 {
		return model.ImportResult{}, errors.New("import job has no sources")
	}
	applyDefaults(&job)

	start := time.Now()
	result := model.ImportResult{JobID: uuid.NewString()}
	log := r.log.With(logger.String("job_id", result.JobID))
	log.Info("Starting import", logger.Int("sources", len(job.Sources)))

	ctx, cancel := context.WithTimeout(ctx, job.Timeout)
	defer cancel()

	rawCh := make(chan model.RawRecord, job.ChannelBufferSize)
	validCh := make(chan model.RawRecord, job.ChannelBufferSize)
	recordCh := make(chan model.Record, job.ChannelBufferSize)
	errCh := make(chan error, job.ChannelBufferSize)

	// error collector
	var sourceErrs []error
	collected := make(chan struct{})
	go func() {
		defer close(collected)
		for err := range errCh {
			var vErr *ValidationError
			if errors.As(err, &vErr) {
				result.Rejected++
				if len(result.Errors) < maxReportedErrors {
					result.Errors = append(result.Errors, vErr.Error())
				}
				log.Debug("Rejected row", logger.Error(err))
				continue
			}
			log.Error("Import source failed", logger.Error(err))
			sourceErrs = append(sourceErrs, err)
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	stageCtx, stopStages := context.WithCancel(gctx)
	defer stopStages()

	g.Go(func() error {
		StartIngestion(stageCtx, job.Sources, rawCh, errCh, log)
		close(rawCh)
		return nil
	})
	ValidateRecords(stageCtx, rawCh, validCh, errCh, job.Workers.Validation, log)
	TransformRecords(stageCtx, validCh, recordCh, job.Workers.Transform, log)
	g.Go(func() error {
		return r.storeRecords(stageCtx, recordCh, job.BatchSize, &result.Stored, stopStages)
	})

	storeErr := g.Wait()
	close(errCh)
	<-collected

	result.Read = result.Stored + result.Rejected
	result.Duration = time.Since(start)
	r.metrics.Imported(result.Stored, result.Rejected)

	log.Info("Import finished",
		logger.Int("stored", result.Stored),
		logger.Int("rejected", result.Rejected),
		logger.Duration("duration", result.Duration),
	)

	switch {
	case storeErr != nil:
		return result, storeErr
	case len(sourceErrs) > 0:
		return result, errors.Join(sourceErrs...)
	case ctx.Err() != nil:
		return result, fmt.Errorf("import interrupted: %w", ctx.Err())
	}
	return result, nil
}

// storeRecords writes records in batches. On failure it stops the upstream
// stages and drains in so every stage can exit.
func (r *Runner) storeRecords(ctx context.Context, in <-chan model.Record, batchSize int, stored *int, stop context.CancelFunc) error {
	batch := make([]model.Record, 0, batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := r.sink.Insert(ctx, batch)
		*stored += n
		batch = batch[:0]
		if err != nil {
			return fmt.Errorf("store batch: %w", err)
		}
		return nil
	}

	for rec := range in {
		batch = append(batch, rec)
		if len(batch) < batchSize {
			continue
		}
		if err := flush(); err != nil {
			stop()
			for range in {
			}
			return err
		}
	}
	if ctx.Err() != nil {
		return nil
	}
	return flush()
}
