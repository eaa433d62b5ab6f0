package queue

import (
	"encoding/json"
	"strconv"
	"time"

	"placescout/internal/model"
)

// toHash flattens a Job into the string-keyed field map go-redis'
// HSet expects.
func toHash(j *model.Job) map[string]any {
	input, _ := json.Marshal(j.Input)
	h := map[string]any{
		"jobId":         j.JobID,
		"batchId":       j.BatchID,
		"input":         string(input),
		"createdAt":     j.CreatedAt.Format(time.RFC3339Nano),
		"state":         string(j.State),
		"attempts":      strconv.Itoa(j.Attempts),
		"progress":      strconv.Itoa(j.Progress),
		"failureReason": j.FailureReason,
	}
	if j.StartedAt != nil {
		h["startedAt"] = j.StartedAt.Format(time.RFC3339Nano)
	}
	if j.FinishedAt != nil {
		h["finishedAt"] = j.FinishedAt.Format(time.RFC3339Nano)
	}
	if j.Result != nil {
		result, _ := json.Marshal(j.Result)
		h["result"] = string(result)
	}
	return h
}

// fromHash rebuilds a Job from the map returned by HGetAll. It
// returns ok=false when the hash is empty (job missing or evicted).
func fromHash(h map[string]string) (*model.Job, bool) {
	if len(h) == 0 {
		return nil, false
	}
	j := &model.Job{
		JobID:         h["jobId"],
		BatchID:       h["batchId"],
		State:         model.JobState(h["state"]),
		FailureReason: h["failureReason"],
	}
	_ = json.Unmarshal([]byte(h["input"]), &j.Input)
	if v, err := strconv.Atoi(h["attempts"]); err == nil {
		j.Attempts = v
	}
	if v, err := strconv.Atoi(h["progress"]); err == nil {
		j.Progress = v
	}
	if v, err := time.Parse(time.RFC3339Nano, h["createdAt"]); err == nil {
		j.CreatedAt = v
	}
	if s, ok := h["startedAt"]; ok && s != "" {
		if v, err := time.Parse(time.RFC3339Nano, s); err == nil {
			j.StartedAt = &v
		}
	}
	if s, ok := h["finishedAt"]; ok && s != "" {
		if v, err := time.Parse(time.RFC3339Nano, s); err == nil {
			j.FinishedAt = &v
		}
	}
	if s, ok := h["result"]; ok && s != "" {
		var r model.ScrapeResult
		if err := json.Unmarshal([]byte(s), &r); err == nil {
			j.Result = &r
		}
	}
	return j, true
}
