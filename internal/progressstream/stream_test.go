package progressstream

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"placescout/internal/model"
	"placescout/internal/queue"
)

type fakeLister struct {
	mu    sync.Mutex
	calls int
	pages []queue.BatchJobs
}

func (f *fakeLister) ListByBatch(ctx context.Context, batchID string) (queue.BatchJobs, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	idx := f.calls
	if idx >= len(f.pages) {
		idx = len(f.pages) - 1
	}
	f.calls++
	return f.pages[idx], nil
}

func drain(t *testing.T, ch <-chan Event, timeout time.Duration) []Event {
	t.Helper()
	var events []Event
	deadline := time.After(timeout)
	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				return events
			}
			events = append(events, ev)
		case <-deadline:
			t.Fatalf("timed out waiting for stream to close, got %d events so far", len(events))
		}
	}
}

func names(events []Event) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.Name
	}
	return out
}

func TestSubscribe_SendsConnectedFirst(t *testing.T) {
	lister := &fakeLister{pages: []queue.BatchJobs{
		{Completed: []*model.Job{{JobID: "1"}}},
	}}
	s := New(lister, 5*time.Millisecond)
	events := drain(t, s.Subscribe(context.Background(), "batch-1"), time.Second)
	if len(events) == 0 || events[0].Name != "connected" {
		t.Fatalf("expected connected frame first, got %v", names(events))
	}
}

func TestSubscribe_ClosesAfterComplete(t *testing.T) {
	lister := &fakeLister{pages: []queue.BatchJobs{
		{Completed: []*model.Job{{JobID: "1"}}},
	}}
	s := New(lister, 5*time.Millisecond)
	events := drain(t, s.Subscribe(context.Background(), "batch-1"), time.Second)

	last := events[len(events)-1]
	if last.Name != "complete" {
		t.Fatalf("expected stream to close with a complete frame, got %v", names(events))
	}
}

func TestSubscribe_EmitsResultOncePerJob(t *testing.T) {
	start := time.Now().Add(-time.Minute)
	finished := start.Add(time.Second)
	lister := &fakeLister{pages: []queue.BatchJobs{
		{Active: []*model.Job{{JobID: "1"}}},
		{Completed: []*model.Job{{JobID: "1", FinishedAt: &finished}}},
	}}
	s := New(lister, 5*time.Millisecond)
	events := drain(t, s.Subscribe(context.Background(), "batch-1"), time.Second)

	resultCount := 0
	for _, e := range events {
		if e.Name == "result" {
			resultCount++
		}
	}
	if resultCount != 1 {
		t.Fatalf("expected exactly one result frame for job 1, got %d in %v", resultCount, names(events))
	}
}

func TestSubscribe_StopsOnContextCancel(t *testing.T) {
	lister := &fakeLister{pages: []queue.BatchJobs{
		{Active: []*model.Job{{JobID: "1"}}},
	}}
	s := New(lister, 5*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	ch := s.Subscribe(ctx, "batch-1")

	<-ch // connected
	cancel()

	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("stream did not close after context cancellation")
		}
	}
}

func TestSubscribe_ErrorFrameOnListFailure(t *testing.T) {
	s := New(erroringLister{}, 5*time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	events := drain(t, s.Subscribe(ctx, "batch-1"), time.Second)
	found := false
	for _, e := range events {
		if e.Name == "error" && strings.Contains(e.Data, "boom") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an error frame mentioning the failure, got %v", names(events))
	}
}

type erroringLister struct{}

func (erroringLister) ListByBatch(ctx context.Context, batchID string) (queue.BatchJobs, error) {
	return queue.BatchJobs{}, errBoom
}

var errBoom = boomErr("boom")

type boomErr string

func (e boomErr) Error() string { return string(e) }
