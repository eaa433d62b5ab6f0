// Package aggregator implements component G: rolling a batch's jobs
// (as reported by the queue) up into a single status view, and
// exporting a batch's jobs as CSV (unfinished jobs show their state).
package aggregator

import (
	"fmt"
	"math"
	"time"

	"placescout/internal/model"
	"placescout/internal/queue"
)

// OverallState is the batch-level rollup of its jobs' individual states.
type OverallState string

const (
	StateQueued              OverallState = "queued"
	StateProcessing          OverallState = "processing"
	StateCompleted           OverallState = "completed"
	StateCompletedWithErrors OverallState = "completed_with_errors"
)

// JobSummary is the per-job view exposed in a batch status response.
type JobSummary struct {
	JobID    string              `json:"jobId"`
	State    model.JobState      `json:"state"`
	Progress int                 `json:"progress"`
	Input    model.InputRecord   `json:"input"`
	Result   *model.ScrapeResult `json:"result,omitempty"`
}

// BatchStatus is the full rollup returned by GET
// /api/v1/scraping-batch/{batchId}.
type BatchStatus struct {
	BatchID                string       `json:"batchId"`
	OverallState           OverallState `json:"overallState"`
	Total                  int          `json:"total"`
	Waiting                int          `json:"waiting"`
	Processing             int          `json:"processing"`
	Completed              int          `json:"completed"`
	Failed                 int          `json:"failed"`
	PercentComplete        float64      `json:"percentComplete"`
	CreatedAt              *time.Time   `json:"createdAt,omitempty"`
	LastProcessedAt        *time.Time   `json:"lastProcessedAt,omitempty"`
	EstimatedTimeRemaining string       `json:"estimatedTimeRemaining,omitempty"`
	Jobs                   []JobSummary `json:"results"`
}

// Compute rolls a batch's bucketed jobs up into a BatchStatus.
func Compute(batchID string, jobs queue.BatchJobs) BatchStatus {
	total := len(jobs.Waiting) + len(jobs.Active) + len(jobs.Completed) + len(jobs.Failed)

	status := BatchStatus{
		BatchID:    batchID,
		Total:      total,
		Waiting:    len(jobs.Waiting),
		Processing: len(jobs.Active),
		Completed:  len(jobs.Completed),
		Failed:     len(jobs.Failed),
	}

	status.OverallState = deriveState(status)
	if total > 0 {
		status.PercentComplete = math.Round(float64(status.Completed+status.Failed) / float64(total) * 100)
	}

	status.CreatedAt = earliestCreated(jobs)
	status.LastProcessedAt = latestFinished(jobs)
	status.EstimatedTimeRemaining = estimateRemaining(jobs, status)

	status.Jobs = summarize(jobs)
	return status
}

func deriveState(s BatchStatus) OverallState {
	if s.Total == 0 {
		return StateQueued
	}
	terminal := s.Completed + s.Failed
	if terminal == s.Total {
		if s.Failed > 0 {
			return StateCompletedWithErrors
		}
		return StateCompleted
	}
	if s.Processing > 0 || terminal > 0 {
		return StateProcessing
	}
	return StateQueued
}

func earliestCreated(jobs queue.BatchJobs) *time.Time {
	var earliest *time.Time
	consider := func(j *model.Job) {
		if earliest == nil || j.CreatedAt.Before(*earliest) {
			t := j.CreatedAt
			earliest = &t
		}
	}
	for _, j := range jobs.Waiting {
		consider(j)
	}
	for _, j := range jobs.Active {
		consider(j)
	}
	for _, j := range jobs.Completed {
		consider(j)
	}
	for _, j := range jobs.Failed {
		consider(j)
	}
	return earliest
}

func latestFinished(jobs queue.BatchJobs) *time.Time {
	var latest *time.Time
	consider := func(j *model.Job) {
		if j.FinishedAt == nil {
			return
		}
		if latest == nil || j.FinishedAt.After(*latest) {
			t := *j.FinishedAt
			latest = &t
		}
	}
	for _, j := range jobs.Completed {
		consider(j)
	}
	for _, j := range jobs.Failed {
		consider(j)
	}
	return latest
}

// estimateRemaining projects the average per-job duration of terminal
// jobs across the jobs still waiting or active. It returns "" until at
// least one job has finished, since there is no rate to project from
// before that.
func estimateRemaining(jobs queue.BatchJobs, s BatchStatus) string {
	remaining := s.Waiting + s.Processing
	if remaining == 0 {
		return ""
	}

	var total time.Duration
	var n int
	account := func(j *model.Job) {
		if j.StartedAt == nil || j.FinishedAt == nil {
			return
		}
		total += j.FinishedAt.Sub(*j.StartedAt)
		n++
	}
	for _, j := range jobs.Completed {
		account(j)
	}
	for _, j := range jobs.Failed {
		account(j)
	}
	if n == 0 {
		return ""
	}

	avg := total / time.Duration(n)
	return formatDuration(avg * time.Duration(remaining))
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "0s"
	}
	if d >= time.Hour {
		h := int(d / time.Hour)
		m := int((d % time.Hour) / time.Minute)
		return fmt.Sprintf("%dh %dm", h, m)
	}
	if d >= time.Minute {
		m := int(d / time.Minute)
		s := int((d % time.Minute) / time.Second)
		return fmt.Sprintf("%dm %ds", m, s)
	}
	return fmt.Sprintf("%ds", int(d/time.Second))
}

func summarize(jobs queue.BatchJobs) []JobSummary {
	var out []JobSummary
	add := func(j *model.Job) {
		out = append(out, JobSummary{
			JobID:    j.JobID,
			State:    j.State,
			Progress: j.Progress,
			Input:    j.Input,
			Result:   j.Result,
		})
	}
	for _, j := range jobs.Waiting {
		add(j)
	}
	for _, j := range jobs.Active {
		add(j)
	}
	for _, j := range jobs.Completed {
		add(j)
	}
	for _, j := range jobs.Failed {
		add(j)
	}
	return out
}
