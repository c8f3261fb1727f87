package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"docflow/internal/logger"
)

// RecurringWorker periodically generates due recurring documents.
type RecurringWorker struct {
	svc      RecurringService
	interval time.Duration
	log      zerolog.Logger
	done     chan struct{}
}

// NewRecurringWorker creates a new RecurringWorker.
func NewRecurringWorker(svc RecurringService, interval time.Duration) *RecurringWorker {
	return &RecurringWorker{
		svc:      svc,
		interval: interval,
		log:      logger.WithComponent("recurringWorker"),
		done:     make(chan struct{}),
	}
}

// Start runs one batch immediately and then one per interval until ctx is canceled.
// It returns after the batch in flight, if any, has finished.
func (w *RecurringWorker) Start(ctx context.Context) {
	defer close(w.done)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.log.Info().Dur("interval", w.interval).Msg("started")
	w.runBatch(ctx)

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("shutdown complete")
			return
		case <-ticker.C:
			w.runBatch(ctx)
		}
	}
}

// Done is closed once Start has returned.
func (w *RecurringWorker) Done() <-chan struct{} {
	return w.done
}

func (w *RecurringWorker) runBatch(ctx context.Context) {
	// A batch finishes on its own context so shutdown does not cut a
	// document off between creation and schedule advance.
	batchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Minute)
	defer cancel()

	result, err := w.svc.ProcessRecurringDocuments(batchCtx)
	if err != nil {
		w.log.Error().Err(err).Msg("batch failed")
		return
	}
	if result.Processed > 0 || result.Skipped > 0 || len(result.Errors) > 0 {
		w.log.Info().Int("processed", result.Processed).Int("skipped", result.Skipped).
			Strs("errors", result.Errors).Msg("batch done")
	}
}
