// Package workerfleet implements component E: a fixed number of
// cooperative slots per process, each pulling one job at a time from
// the queue, driving it through the scrape engine with a freshly
// acquired browser, and reporting the outcome back to the queue.
package workerfleet

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/go-rod/rod"

	"placescout/internal/model"
	"placescout/internal/queue"
	"placescout/internal/scrapeengine"
)

// progress checkpoints within a single attempt. "enter" (10) is set by
// queue.Store.markActive when the job is pulled and 100 by
// queue.Store.Complete; the two below are set by this package.
const (
	progressBrowserAcquired = 20
	progressExtracted       = 90
)

// QueueClient is the narrow view of queue.Store a worker slot needs.
// Declared here, not in package queue, so tests can substitute a fake
// without importing Redis.
type QueueClient interface {
	NextJob(ctx context.Context, workerID string, slot int) (*model.Job, error)
	UpdateProgress(ctx context.Context, jobID string, progress int) error
	Complete(ctx context.Context, jobID string, result *model.ScrapeResult) error
	Fail(ctx context.Context, jobID string, reason string) error
}

// BrowserPool is the narrow view of browserpool.Pool a worker slot
// needs.
type BrowserPool interface {
	Acquire(ctx context.Context, timeout time.Duration) (*rod.Browser, error)
	Release(browser *rod.Browser)
}

// runEngine is a package-level function variable so tests can swap in
// a fake without a live browser or network, mirroring the teacher's
// newExtractDeps override idiom.
var runEngine = scrapeengine.Run

// Fleet owns a fixed number of concurrent worker slots.
type Fleet struct {
	queue          QueueClient
	pool           BrowserPool
	slots          int
	acquireTimeout time.Duration
	log            *slog.Logger
}

// New creates a Fleet with slots concurrent worker loops, each
// acquiring a browser with acquireTimeout.
func New(q QueueClient, pool BrowserPool, slots int, acquireTimeout time.Duration, log *slog.Logger) *Fleet {
	if slots <= 0 {
		slots = 1
	}
	if log == nil {
		log = slog.Default()
	}
	return &Fleet{queue: q, pool: pool, slots: slots, acquireTimeout: acquireTimeout, log: log}
}

// Run launches all worker slots and blocks until ctx is cancelled and
// every slot has returned from its current attempt.
func (f *Fleet) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for slot := 0; slot < f.slots; slot++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			f.workerLoop(ctx, slot)
		}(slot)
	}
	wg.Wait()
}

func (f *Fleet) workerLoop(ctx context.Context, slot int) {
	workerID := slotWorkerID(slot)
	for {
		if ctx.Err() != nil {
			return
		}

		job, err := f.queue.NextJob(ctx, workerID, slot)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, queue.ErrDraining) {
				return
			}
			f.log.Error("workerfleet: next job", "worker", workerID, "error", err)
			continue
		}

		f.handle(ctx, workerID, job)
	}
}

func (f *Fleet) handle(ctx context.Context, workerID string, job *model.Job) {
	log := f.log.With("worker", workerID, "jobId", job.JobID, "batchId", job.BatchID)

	browser, err := f.pool.Acquire(ctx, f.acquireTimeout)
	if err != nil {
		log.Warn("workerfleet: acquire browser failed, attempt deferred to retry", "error", err)
		_ = f.queue.Fail(ctx, job.JobID, "browser pool: "+err.Error())
		return
	}
	defer f.pool.Release(browser)

	_ = f.queue.UpdateProgress(ctx, job.JobID, progressBrowserAcquired)

	result, err := runEngine(ctx, browser, job.Input)
	if err != nil {
		log.Error("workerfleet: scrape attempt errored", "error", err)
		_ = f.queue.Fail(ctx, job.JobID, err.Error())
		return
	}

	_ = f.queue.UpdateProgress(ctx, job.JobID, progressExtracted)

	if result.Status == model.ResultFailed {
		_ = f.queue.Fail(ctx, job.JobID, result.Error)
		return
	}

	if err := f.queue.Complete(ctx, job.JobID, result); err != nil {
		log.Error("workerfleet: complete failed", "error", err)
	}
}

func slotWorkerID(slot int) string {
	return "worker-" + strconv.Itoa(slot)
}
