package queue

import (
	"testing"
	"time"

	"placescout/internal/model"
)

func TestHashRoundTrip(t *testing.T) {
	started := time.Now().UTC().Truncate(time.Millisecond)
	job := &model.Job{
		JobID:     "job-1",
		BatchID:   "batch-1",
		Input:     model.InputRecord{Name: "Acme GmbH", City: "Zürich"},
		CreatedAt: started,
		StartedAt: &started,
		State:     model.JobActive,
		Attempts:  1,
		Progress:  20,
	}

	h := toHash(job)
	flat := make(map[string]string, len(h))
	for k, v := range h {
		flat[k] = v.(string)
	}

	got, ok := fromHash(flat)
	if !ok {
		t.Fatalf("expected fromHash to succeed")
	}
	if got.JobID != job.JobID || got.BatchID != job.BatchID {
		t.Fatalf("unexpected ids: %+v", got)
	}
	if got.Input.Name != "Acme GmbH" || got.Input.City != "Zürich" {
		t.Fatalf("unexpected input round-trip: %+v", got.Input)
	}
	if got.State != model.JobActive || got.Attempts != 1 || got.Progress != 20 {
		t.Fatalf("unexpected state/attempts/progress: %+v", got)
	}
	if got.StartedAt == nil || !got.StartedAt.Equal(started) {
		t.Fatalf("expected startedAt round-trip, got %+v", got.StartedAt)
	}
}

func TestFromHash_EmptyIsNotFound(t *testing.T) {
	_, ok := fromHash(map[string]string{})
	if ok {
		t.Fatalf("expected ok=false for empty hash")
	}
}

func TestHashRoundTrip_WithResult(t *testing.T) {
	job := &model.Job{
		JobID:   "job-2",
		BatchID: "batch-1",
		State:   model.JobCompleted,
		Result: &model.ScrapeResult{
			Status:   model.ResultSuccess,
			FullName: "Acme",
			Rating:   "4.5",
		},
	}
	h := toHash(job)
	flat := make(map[string]string, len(h))
	for k, v := range h {
		flat[k] = v.(string)
	}
	got, ok := fromHash(flat)
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.Result == nil || got.Result.FullName != "Acme" || got.Result.Rating != "4.5" {
		t.Fatalf("unexpected result round-trip: %+v", got.Result)
	}
}
