// Package progressstream implements component H: a per-subscription
// polling task against the queue, emitting named progress frames. Unlike
// the claudegate-style push-on-event SSE queue this was modeled on, each
// subscription polls the queue on its own ticker instead of being
// notified by the worker fleet directly -- the queue is the only thing
// workers and the API share, so polling it is simpler than plumbing a
// pub/sub channel through Redis as well.
package progressstream

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"placescout/internal/aggregator"
	"placescout/internal/model"
	"placescout/internal/queue"
)

// Event is one named frame delivered over a subscription: connected,
// progress, result, complete, or error.
type Event struct {
	Name string
	Data string
}

// BatchLister is the narrow queue view a subscription needs.
type BatchLister interface {
	ListByBatch(ctx context.Context, batchID string) (queue.BatchJobs, error)
}

// Stream manages polling subscriptions against a queue.
type Stream struct {
	queue        BatchLister
	pollInterval time.Duration
}

// New creates a Stream polling at pollInterval.
func New(q BatchLister, pollInterval time.Duration) *Stream {
	if pollInterval <= 0 {
		pollInterval = 2 * time.Second
	}
	return &Stream{queue: q, pollInterval: pollInterval}
}

// Subscribe starts a new polling subscription for batchID and returns
// a channel of frames, closed when the batch reaches a terminal state
// or ctx is cancelled. Re-subscribing (a new call to Subscribe) starts
// from a blank slate, so already-delivered result frames may be
// replayed on the new channel.
func (s *Stream) Subscribe(ctx context.Context, batchID string) <-chan Event {
	ch := make(chan Event, 64)
	go s.run(ctx, batchID, ch)
	return ch
}

type progressBlock struct {
	Total      int     `json:"total"`
	Completed  int     `json:"completed"`
	Failed     int     `json:"failed"`
	Processing int     `json:"processing"`
	Waiting    int     `json:"waiting"`
	Percentage float64 `json:"percentage"`
	Timestamp  string  `json:"timestamp"`
}

func (s *Stream) run(ctx context.Context, batchID string, ch chan<- Event) {
	defer close(ch)

	send := func(name string, v any) bool {
		data, err := json.Marshal(v)
		if err != nil {
			return trySend(ctx, ch, Event{Name: "error", Data: `{"error":"internal","message":"failed to encode frame"}`})
		}
		return trySend(ctx, ch, Event{Name: name, Data: string(data)})
	}

	if !send("connected", map[string]string{
		"batchId":   batchID,
		"message":   "subscribed to batch " + batchID,
		"timestamp": now(),
	}) {
		return
	}

	delivered := make(map[string]bool)
	index := 0
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		jobs, err := s.queue.ListByBatch(ctx, batchID)
		if err != nil {
			if !send("error", map[string]string{"error": "lookup_failed", "message": err.Error()}) {
				return
			}
			continue
		}

		status := aggregator.Compute(batchID, jobs)
		if !send("progress", progressBlock{
			Total:      status.Total,
			Completed:  status.Completed,
			Failed:     status.Failed,
			Processing: status.Processing,
			Waiting:    status.Waiting,
			Percentage: status.PercentComplete,
			Timestamp:  now(),
		}) {
			return
		}

		for _, job := range newlyTerminal(jobs, delivered) {
			frame := resultFrame(job, index)
			index++
			if !send("result", frame) {
				return
			}
		}

		if status.OverallState == aggregator.StateCompleted || status.OverallState == aggregator.StateCompletedWithErrors {
			send("complete", map[string]any{
				"batchId":   batchID,
				"completed": status.Completed,
				"total":     status.Total,
				"message":   "batch processing complete",
				"timestamp": now(),
			})
			return
		}
	}
}

// resultFrame flattens a newly-terminal job into the export row's
// keyed fields plus latitude, longitude, index, and timestamp.
func resultFrame(job *model.Job, index int) map[string]any {
	frame := make(map[string]any, 12)
	for k, v := range aggregator.ResultRow(job) {
		frame[k] = v
	}
	if job.Result != nil {
		frame["latitude"] = job.Result.Latitude
		frame["longitude"] = job.Result.Longitude
	} else {
		frame["latitude"] = ""
		frame["longitude"] = ""
	}
	frame["index"] = index
	frame["timestamp"] = now()
	return frame
}

// newlyTerminal returns completed/failed jobs not yet in delivered,
// marks them delivered, and orders them by FinishedAt so result frames
// are emitted in completion order even though the queue's batch
// listing itself has no defined order.
func newlyTerminal(jobs queue.BatchJobs, delivered map[string]bool) []*model.Job {
	var fresh []*model.Job
	consider := func(j *model.Job) {
		if delivered[j.JobID] {
			return
		}
		delivered[j.JobID] = true
		fresh = append(fresh, j)
	}
	for _, j := range jobs.Completed {
		consider(j)
	}
	for _, j := range jobs.Failed {
		consider(j)
	}

	sort.Slice(fresh, func(i, k int) bool {
		ti, tk := fresh[i].FinishedAt, fresh[k].FinishedAt
		if ti == nil || tk == nil {
			return false
		}
		return ti.Before(*tk)
	})
	return fresh
}

func trySend(ctx context.Context, ch chan<- Event, ev Event) bool {
	select {
	case ch <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
