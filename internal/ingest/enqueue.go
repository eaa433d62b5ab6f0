package ingest

import (
	"context"
	"fmt"

	"placescout/internal/model"
)

// EnqueueFunc durably records one job and returns its ID. Implemented
// by queue.Store.Enqueue.
type EnqueueFunc func(ctx context.Context, batchID string, input model.InputRecord) (string, error)

// DiscardFunc durably removes a still-waiting job. Implemented by
// queue.Store.Discard, used to unwind a partially-enqueued batch.
type DiscardFunc func(ctx context.Context, batchID, jobID string) error

// EnqueueBatch sequentially enqueues every already-parsed record. The
// two-phase invariant lives in the caller's control flow: ParseCSV
// must finish buffering every row before EnqueueBatch is called, so
// the job count returned here always matches the file that was
// uploaded, never a partial read truncated by a slow client.
//
// Spec §7's enqueue_error invariant is all-or-nothing: if any row
// fails to enqueue, every job already written for this batch is rolled
// back via discard before the error is returned, so a failed upload
// never leaves a partial batch durable and observable in D.
func EnqueueBatch(ctx context.Context, enqueue EnqueueFunc, discard DiscardFunc, batchID string, records []model.InputRecord) (int, error) {
	enqueued := make([]string, 0, len(records))
	for i, rec := range records {
		jobID, err := enqueue(ctx, batchID, rec)
		if err != nil {
			rollback(ctx, discard, batchID, enqueued)
			return 0, fmt.Errorf("ingest: enqueue row %d: %w", i+1, err)
		}
		enqueued = append(enqueued, jobID)
	}
	return len(enqueued), nil
}

func rollback(ctx context.Context, discard DiscardFunc, batchID string, jobIDs []string) {
	for _, jobID := range jobIDs {
		_ = discard(ctx, batchID, jobID)
	}
}
