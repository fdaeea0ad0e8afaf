package app

import (
	"context"
	"errors"
	"time"

	"github.com/specialistvlad/nxload/internal/ctxlog"
	"github.com/specialistvlad/nxload/internal/dataset"
	"github.com/specialistvlad/nxload/internal/inmemorystore"
	"github.com/specialistvlad/nxload/internal/metrics"
	"github.com/specialistvlad/nxload/internal/nxtree"
	"github.com/specialistvlad/nxload/internal/process"
	"github.com/specialistvlad/nxload/internal/publish"
)

// Record kinds used as metric labels.
const (
	kindHistogram = "histogram"
	kindMonitor   = "monitor"
)

// worker is the processing loop for a single concurrent worker.
func (a *App) worker(ctx context.Context, files <-chan string, pub publish.Publisher, workerID int) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Worker started.", "workerID", workerID)

	for file := range files {
		workerLogger := logger.With("workerID", workerID, "file", file)
		fileCtx := ctxlog.WithLogger(ctx, workerLogger)

		if err := ctx.Err(); err != nil {
			_ = a.store.SetStatus(ctx, file, inmemorystore.StatusFailed)
			_ = a.store.SetError(ctx, file, err)
			continue
		}

		workerLogger.Debug("Worker picked up file.")
		a.convertFile(fileCtx, file, pub)
	}
	logger.Debug("Worker finished.", "workerID", workerID)
}

// convertFile loads and converts one source file and records its outcome.
func (a *App) convertFile(ctx context.Context, file string, pub publish.Publisher) {
	logger := ctxlog.FromContext(ctx)
	started := time.Now()
	a.metrics.InFlight.Inc()
	defer a.metrics.InFlight.Dec()
	_ = a.store.SetStatus(ctx, file, inmemorystore.StatusRunning)

	root, err := nxtree.Load(ctx, file)
	if err != nil {
		logger.Error("Failed to load source file.", "error", err)
		a.finish(ctx, file, inmemorystore.StatusFailed, err, started)
		return
	}

	conv := process.Converter{Override: a.override}
	records, convErr := conv.ConvertFile(ctx, root, a.config.StartGroupID)

	summaries := make([]dataset.Summary, 0, len(records))
	for _, rec := range records {
		s := rec.Summary()
		summaries = append(summaries, s)
		a.metrics.ObserveRecord(recordKind(rec), rec.Len())
		if err := a.writeSummary(file, s); err != nil {
			logger.Error("Failed to write record summary.", "title", s.Title, "error", err)
		}
		if err := pub.Publish(ctx, file, s); err != nil {
			logger.Warn("Failed to publish record.", "title", s.Title, "error", err)
		}
	}
	_ = a.store.SetOutput(ctx, file, summaries)

	status := inmemorystore.StatusCompleted
	switch {
	case convErr == nil:
	case len(records) > 0:
		status = inmemorystore.StatusPartial
		logger.Warn("File converted with errors.", "records", len(records), "error", convErr)
	default:
		status = inmemorystore.StatusFailed
		logger.Error("File conversion failed.", "error", convErr)
	}
	a.finish(ctx, file, status, convErr, started)
}

func (a *App) finish(ctx context.Context, file string, status inmemorystore.Status, err error, started time.Time) {
	_ = a.store.SetStatus(ctx, file, status)
	if err != nil {
		_ = a.store.SetError(ctx, file, err)
	}
	a.metrics.ObserveFile(outcomeLabel(status), time.Since(started))
	ctxlog.FromContext(ctx).Info("File finished.", "status", status.String(), "took", time.Since(started))
}

func outcomeLabel(s inmemorystore.Status) string {
	switch s {
	case inmemorystore.StatusCompleted:
		return metrics.OutcomeOK
	case inmemorystore.StatusPartial:
		return metrics.OutcomePartial
	default:
		return metrics.OutcomeFailed
	}
}

// recordKind tells monitor records from histogram records by their spectra.
func recordKind(rec *dataset.DataSet) string {
	if rec.Len() > 0 && rec.Spectrum(0).Attrs.Has(dataset.MonitorName) {
		return kindMonitor
	}
	return kindHistogram
}

// errFilesFailed is returned by Run when at least one file produced no records.
var errFilesFailed = errors.New("some files failed to convert")
